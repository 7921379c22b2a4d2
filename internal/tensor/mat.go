package tensor

import "errors"

// Mat represents a dense row‑major matrix of float64 values.
//
// For sequences R is the number of timesteps and C the number of channels,
// so Row(t) is the feature vector at step t.  Stride is the number of
// elements between the starts of two consecutive rows (equal to C for
// matrices allocated by this package).
//
// Mat does not perform any memory safety beyond the checks performed by Go's
// slice types; out‑of‑range indices will panic.
type Mat struct {
	R, C   int
	Stride int
	Data   []float64
}

var (
	ErrNegativeDim    = errors.New("tensor: negative dimension")
	ErrLengthMismatch = errors.New("tensor: data length mismatch")
)

// NewMat allocates a zeroed r x c matrix.
func NewMat(r, c int) Mat {
	if r < 0 || c < 0 {
		panic("negative dimension for matrix")
	}
	return Mat{
		R:      r,
		C:      c,
		Stride: c,
		Data:   make([]float64, r*c),
	}
}

// NewMatFromData wraps data as an r x c matrix without copying.
func NewMatFromData(r, c int, data []float64) (Mat, error) {
	if r < 0 || c < 0 {
		return Mat{}, ErrNegativeDim
	}
	if r*c != len(data) {
		return Mat{}, ErrLengthMismatch
	}
	return Mat{R: r, C: c, Stride: c, Data: data}, nil
}

// Column builds an n x 1 matrix holding a copy of values.
func Column(values []float64) Mat {
	m := NewMat(len(values), 1)
	copy(m.Data, values)
	return m
}

// Row returns a view of the i‑th row.  Writes through the slice update the
// matrix.
func (m *Mat) Row(i int) []float64 {
	if i < 0 || i >= m.R {
		panic("row index out of range")
	}
	start := i * m.Stride
	return m.Data[start : start+m.C]
}

// At returns the element at row i, column j.
func (m *Mat) At(i, j int) float64 {
	return m.Data[i*m.Stride+j]
}

// Set stores v at row i, column j.
func (m *Mat) Set(i, j int, v float64) {
	m.Data[i*m.Stride+j] = v
}

// Flatten copies the matrix into a new slice in row-major order.
func (m *Mat) Flatten() []float64 {
	out := make([]float64, 0, m.R*m.C)
	for i := 0; i < m.R; i++ {
		out = append(out, m.Row(i)...)
	}
	return out
}

// Clone returns a deep copy with a compact stride.
func (m *Mat) Clone() Mat {
	out := NewMat(m.R, m.C)
	for i := 0; i < m.R; i++ {
		copy(out.Row(i), m.Row(i))
	}
	return out
}
