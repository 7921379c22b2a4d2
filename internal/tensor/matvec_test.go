package tensor

import (
	"math"
	"math/rand"
	"testing"
)

func fillRand(m *Mat, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Data {
		m.Data[i] = rng.Float64()*2 - 1
	}
}

func vecMatNaive(dst, x []float64, w *Mat) {
	for j := 0; j < w.C; j++ {
		var sum float64
		for i := 0; i < w.R; i++ {
			sum += x[i] * w.At(i, j)
		}
		dst[j] = sum
	}
}

func maxAbsDiff(a, b []float64) float64 {
	var maxAbs float64
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxAbs {
			maxAbs = d
		}
	}
	return maxAbs
}

func TestVecMatMatchesNaive(t *testing.T) {
	t.Parallel()
	w := NewMat(7, 5)
	fillRand(&w, 1)
	x := make([]float64, 7)
	for i := range x {
		x[i] = float64(i) - 3
	}

	got := make([]float64, 5)
	want := make([]float64, 5)
	VecMat(got, x, &w)
	vecMatNaive(want, x, &w)

	if d := maxAbsDiff(got, want); d > 1e-12 {
		t.Fatalf("max abs diff %g", d)
	}
}

func TestVecMatAccAddsToExisting(t *testing.T) {
	t.Parallel()
	w := NewMat(2, 2)
	copy(w.Data, []float64{1, 2, 3, 4})
	dst := []float64{10, 20}
	VecMatAcc(dst, []float64{1, 1}, &w)
	if dst[0] != 14 || dst[1] != 26 {
		t.Fatalf("got %v, want [14 26]", dst)
	}
}

func TestMatMulAndTranspose(t *testing.T) {
	t.Parallel()
	a := NewMat(3, 4)
	fillRand(&a, 2)
	at := Transpose(&a)
	if at.R != 4 || at.C != 3 {
		t.Fatalf("transpose shape %dx%d", at.R, at.C)
	}
	for i := 0; i < a.R; i++ {
		for j := 0; j < a.C; j++ {
			if a.At(i, j) != at.At(j, i) {
				t.Fatalf("transpose mismatch at (%d,%d)", i, j)
			}
		}
	}

	c := NewMat(3, 3)
	MatMul(&c, &a, &at)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(c.At(i, j)-c.At(j, i)) > 1e-12 {
				t.Fatalf("a·aᵀ not symmetric at (%d,%d)", i, j)
			}
		}
	}
}

func TestVecMatPanicsOnShortInput(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	w := NewMat(3, 2)
	VecMat(make([]float64, 2), make([]float64, 2), &w)
}

func TestNewMatFromData(t *testing.T) {
	t.Parallel()
	if _, err := NewMatFromData(2, 3, make([]float64, 5)); err != ErrLengthMismatch {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := NewMatFromData(-1, 3, nil); err != ErrNegativeDim {
		t.Fatalf("expected ErrNegativeDim, got %v", err)
	}
	m, err := NewMatFromData(2, 2, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Row(1); got[0] != 3 || got[1] != 4 {
		t.Fatalf("row 1: got %v", got)
	}
	if flat := m.Flatten(); len(flat) != 4 || flat[3] != 4 {
		t.Fatalf("flatten: got %v", flat)
	}
}
