package tensor

import (
	"math"
	"testing"
)

func TestActivations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{"sigmoid zero", Sigmoid, 0, 0.5},
		{"sigmoid large", Sigmoid, 40, 1},
		{"tanh zero", Tanh, 0, 0},
		{"tanh odd", Tanh, -0.5, -math.Tanh(0.5)},
		{"identity", Identity, 3.25, 3.25},
	}

	for _, tc := range tests {
		if got := tc.fn(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLerp(t *testing.T) {
	t.Parallel()
	z := []float64{0, 1, 0.25}
	a := []float64{1, 2, 4}
	b := []float64{-1, -2, 8}
	dst := make([]float64, 3)
	scratch := make([]float64, 3)
	Lerp(dst, z, a, b, scratch)

	want := []float64{-1, 2, 7}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-12 {
			t.Fatalf("index %d: got %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestMulAndApply(t *testing.T) {
	t.Parallel()
	dst := make([]float64, 3)
	Mul(dst, []float64{1, 2, 3}, []float64{4, 5, 6})
	if dst[0] != 4 || dst[1] != 10 || dst[2] != 18 {
		t.Fatalf("mul: got %v", dst)
	}
	Apply(dst, func(x float64) float64 { return -x })
	if dst[2] != -18 {
		t.Fatalf("apply: got %v", dst)
	}
}

func TestMinMaxAndMaxAbs(t *testing.T) {
	t.Parallel()
	lo, hi := MinMax([]float64{3, -7, 2})
	if lo != -7 || hi != 3 {
		t.Fatalf("minmax: got %v %v", lo, hi)
	}
	if lo, hi := MinMax(nil); lo != 0 || hi != 0 {
		t.Fatalf("minmax empty: got %v %v", lo, hi)
	}
	if m := MaxAbs([]float64{1, -9, 4}); m != 9 {
		t.Fatalf("maxabs: got %v", m)
	}
}
