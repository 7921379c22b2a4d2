package tensor

// VecMat computes dst = x·w where x has length w.R and dst length w.C.
//
// Weights use the (in, out) layout, so this is the row-vector form of a
// dense projection: dst[j] = Σ_i x[i]·w[i][j].
func VecMat(dst []float64, x []float64, w *Mat) {
	if len(x) < w.R || len(dst) < w.C {
		panic("vecmat shape mismatch")
	}
	for j := 0; j < w.C; j++ {
		dst[j] = 0
	}
	for i := 0; i < w.R; i++ {
		xi := x[i]
		if xi == 0 {
			continue
		}
		row := w.Row(i)
		for j, v := range row {
			dst[j] += xi * v
		}
	}
}

// VecMatAcc adds x·w into dst.
func VecMatAcc(dst []float64, x []float64, w *Mat) {
	if len(x) < w.R || len(dst) < w.C {
		panic("vecmat shape mismatch")
	}
	for i := 0; i < w.R; i++ {
		xi := x[i]
		if xi == 0 {
			continue
		}
		row := w.Row(i)
		for j, v := range row {
			dst[j] += xi * v
		}
	}
}

// MatMul computes c = a·b.  c must be a.R x b.C and must not alias a or b.
func MatMul(c, a, b *Mat) {
	if a.C != b.R || c.R != a.R || c.C != b.C {
		panic("matmul shape mismatch")
	}
	for i := 0; i < a.R; i++ {
		VecMat(c.Row(i), a.Row(i), b)
	}
}

// Transpose returns a new matrix holding mᵀ.
func Transpose(m *Mat) Mat {
	out := NewMat(m.C, m.R)
	for i := 0; i < m.R; i++ {
		row := m.Row(i)
		for j, v := range row {
			out.Set(j, i, v)
		}
	}
	return out
}
