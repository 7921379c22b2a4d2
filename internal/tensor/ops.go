package tensor

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Add adds src to dst element-wise.
func Add(dst, src []float64) {
	for i := range dst {
		dst[i] += src[i]
	}
}

// Dot computes the dot product of a and b.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Mul writes a[i]*b[i] into dst.  All slices must have equal length.
func Mul(dst, a, b []float64) {
	vecmath.MulBlock(dst, a, b)
}

// Lerp computes dst[i] = z[i]*a[i] + (1-z[i])*b[i], the convex blend used by
// gated recurrent updates.  dst may alias a or b; scratch must have the same
// length as dst and may not alias any input.
func Lerp(dst, z, a, b, scratch []float64) {
	vecmath.MulBlock(scratch, z, a)
	for i := range dst {
		dst[i] = scratch[i] + (1-z[i])*b[i]
	}
}

// Sigmoid computes the logistic sigmoid activation.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Tanh is the hyperbolic tangent activation.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// Identity returns x unchanged.
func Identity(x float64) float64 {
	return x
}

// Apply runs fn over x in place.
func Apply(x []float64, fn func(float64) float64) {
	for i, v := range x {
		x[i] = fn(v)
	}
}

// MaxAbs returns the largest absolute value in x, or 0 for an empty slice.
func MaxAbs(x []float64) float64 {
	var m float64
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// MinMax returns the smallest and largest element of x.  Both are zero when
// x is empty.
func MinMax(x []float64) (lo, hi float64) {
	if len(x) == 0 {
		return 0, 0
	}
	lo, hi = x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
