package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matricization (mode unfolding) reshapes a 3-tensor into a matrix by keeping
// one mode as rows and flattening the other two into columns. The column
// ordering convention is fixed across the package: the lower-numbered
// retained mode varies fastest. The same convention is assumed by Fold1-3,
// and by the HOSVD and core-derivation steps in pkg/tucker; mixing
// conventions between unfolding and folding silently corrupts results.

// Unfold1 returns the lateral unfolding of t: an I1 x (I2*I3) matrix with
// element (i1, i2 + I2*i3) = t(i1, i2, i3).
func (t *Tensor3) Unfold1() *mat.Dense {
	m := mat.NewDense(t.n1, t.n2*t.n3, nil)
	for i1 := 0; i1 < t.n1; i1++ {
		for i3 := 0; i3 < t.n3; i3++ {
			for i2 := 0; i2 < t.n2; i2++ {
				m.Set(i1, i2+t.n2*i3, t.data[(i1*t.n2+i2)*t.n3+i3])
			}
		}
	}
	return m
}

// Unfold2 returns the frontal unfolding of t: an I2 x (I1*I3) matrix with
// element (i2, i1 + I1*i3) = t(i1, i2, i3).
func (t *Tensor3) Unfold2() *mat.Dense {
	m := mat.NewDense(t.n2, t.n1*t.n3, nil)
	for i2 := 0; i2 < t.n2; i2++ {
		for i3 := 0; i3 < t.n3; i3++ {
			for i1 := 0; i1 < t.n1; i1++ {
				m.Set(i2, i1+t.n1*i3, t.data[(i1*t.n2+i2)*t.n3+i3])
			}
		}
	}
	return m
}

// Unfold3 returns the horizontal unfolding of t: an I3 x (I1*I2) matrix with
// element (i3, i1 + I1*i2) = t(i1, i2, i3).
func (t *Tensor3) Unfold3() *mat.Dense {
	m := mat.NewDense(t.n3, t.n1*t.n2, nil)
	for i3 := 0; i3 < t.n3; i3++ {
		for i2 := 0; i2 < t.n2; i2++ {
			for i1 := 0; i1 < t.n1; i1++ {
				m.Set(i3, i1+t.n1*i2, t.data[(i1*t.n2+i2)*t.n3+i3])
			}
		}
	}
	return m
}

// Fold1 inverts Unfold1: it reassembles an n1 x n2 x n3 tensor from its
// lateral unfolding. It panics if the matrix dimensions do not match.
func Fold1(m *mat.Dense, n1, n2, n3 int) *Tensor3 {
	r, c := m.Dims()
	if r != n1 || c != n2*n3 {
		panic(fmt.Sprintf("tensor: fold1 of %dx%d into %dx%dx%d", r, c, n1, n2, n3))
	}
	t := New(n1, n2, n3)
	for i1 := 0; i1 < n1; i1++ {
		for i3 := 0; i3 < n3; i3++ {
			for i2 := 0; i2 < n2; i2++ {
				t.data[(i1*n2+i2)*n3+i3] = m.At(i1, i2+n2*i3)
			}
		}
	}
	return t
}

// Fold2 inverts Unfold2: it reassembles an n1 x n2 x n3 tensor from its
// frontal unfolding. It panics if the matrix dimensions do not match.
func Fold2(m *mat.Dense, n1, n2, n3 int) *Tensor3 {
	r, c := m.Dims()
	if r != n2 || c != n1*n3 {
		panic(fmt.Sprintf("tensor: fold2 of %dx%d into %dx%dx%d", r, c, n1, n2, n3))
	}
	t := New(n1, n2, n3)
	for i2 := 0; i2 < n2; i2++ {
		for i3 := 0; i3 < n3; i3++ {
			for i1 := 0; i1 < n1; i1++ {
				t.data[(i1*n2+i2)*n3+i3] = m.At(i2, i1+n1*i3)
			}
		}
	}
	return t
}

// Fold3 inverts Unfold3: it reassembles an n1 x n2 x n3 tensor from its
// horizontal unfolding. It panics if the matrix dimensions do not match.
func Fold3(m *mat.Dense, n1, n2, n3 int) *Tensor3 {
	r, c := m.Dims()
	if r != n3 || c != n1*n2 {
		panic(fmt.Sprintf("tensor: fold3 of %dx%d into %dx%dx%d", r, c, n1, n2, n3))
	}
	t := New(n1, n2, n3)
	for i3 := 0; i3 < n3; i3++ {
		for i2 := 0; i2 < n2; i2++ {
			for i1 := 0; i1 < n1; i1++ {
				t.data[(i1*n2+i2)*n3+i3] = m.At(i3, i1+n1*i2)
			}
		}
	}
	return t
}
