package initializer

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/samcharles93/seqnet/internal/tensor"
)

// Ortho produces a (semi-)orthogonal matrix scaled by Gain.
//
// The shape is flattened to rows = ∏shape[:-1], cols = shape[-1]. A
// standard-normal matrix of size max(rows,cols) x min(rows,cols) is
// orthonormalized column by column; the result is transposed when
// rows < cols so that either the rows or the columns are orthonormal.
type Ortho struct {
	Gain float64
}

func (Ortho) Name() string { return Orthogonal }

func (o Ortho) Init(rng *rand.Rand, shape ...int) ([]float64, error) {
	if len(shape) < 2 {
		return nil, fmt.Errorf("%w: orthogonal needs rank >= 2, got %v", ErrShape, shape)
	}
	if _, err := numElements(shape); err != nil {
		return nil, err
	}
	cols := shape[len(shape)-1]
	rows := 1
	for _, d := range shape[:len(shape)-1] {
		rows *= d
	}

	m, n := max(rows, cols), min(rows, cols)
	a := tensor.NewMat(m, n)
	for i := range a.Data {
		a.Data[i] = rng.NormFloat64()
	}
	if err := orthonormalizeColumns(&a); err != nil {
		return nil, err
	}

	q := a
	if rows < cols {
		q = tensor.Transpose(&a)
	}
	gain := o.Gain
	if gain == 0 {
		gain = 1
	}
	out := make([]float64, rows*cols)
	for i := 0; i < q.R; i++ {
		row := q.Row(i)
		for j, v := range row {
			out[i*cols+j] = gain * v
		}
	}
	return out, nil
}

// orthonormalizeColumns runs modified Gram-Schmidt over the columns of a.
// The implied R factor has a positive diagonal, which is the same sign
// convention as a QR decomposition corrected by sign(diag(R)).
func orthonormalizeColumns(a *tensor.Mat) error {
	col := make([]float64, a.R)
	for j := 0; j < a.C; j++ {
		for i := 0; i < a.R; i++ {
			col[i] = a.At(i, j)
		}
		for k := 0; k < j; k++ {
			var proj float64
			for i := 0; i < a.R; i++ {
				proj += a.At(i, k) * col[i]
			}
			for i := 0; i < a.R; i++ {
				col[i] -= proj * a.At(i, k)
			}
		}
		norm := math.Sqrt(tensor.Dot(col, col))
		if norm < 1e-12 {
			return fmt.Errorf("orthogonal: column %d is degenerate", j)
		}
		for i := 0; i < a.R; i++ {
			a.Set(i, j, col[i]/norm)
		}
	}
	return nil
}
