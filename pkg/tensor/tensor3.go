// Package tensor provides a dense 3-way numeric array ("3-tensor") and its
// canonical mode unfoldings. It is the data container underneath the Tucker3
// decomposition engine in pkg/tucker.
//
// A Tensor3 owns a contiguous float64 buffer; distinct tensors never alias,
// and Clone produces a deep copy. 2-way data uses gonum's mat.Dense directly.
package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Tensor3 is a dense I1 x I2 x I3 array of float64 values stored in a single
// contiguous buffer. The flat layout is row-major with mode 3 innermost:
// element (i1, i2, i3) lives at offset (i1*n2+i2)*n3 + i3.
type Tensor3 struct {
	n1, n2, n3 int
	data       []float64
}

// New creates a zero-filled tensor with the given extents.
// It panics if any extent is not positive.
func New(n1, n2, n3 int) *Tensor3 {
	if n1 <= 0 || n2 <= 0 || n3 <= 0 {
		panic(fmt.Sprintf("tensor: non-positive extents %dx%dx%d", n1, n2, n3))
	}
	return &Tensor3{
		n1:   n1,
		n2:   n2,
		n3:   n3,
		data: make([]float64, n1*n2*n3),
	}
}

// NewFromData creates a tensor wrapping a copy of the given flat data, which
// must have length n1*n2*n3 and use the layout documented on Tensor3.
func NewFromData(n1, n2, n3 int, data []float64) *Tensor3 {
	t := New(n1, n2, n3)
	if len(data) != len(t.data) {
		panic(fmt.Sprintf("tensor: data length %d does not match extents %dx%dx%d",
			len(data), n1, n2, n3))
	}
	copy(t.data, data)
	return t
}

// Dims returns the three extents of the tensor.
func (t *Tensor3) Dims() (n1, n2, n3 int) {
	return t.n1, t.n2, t.n3
}

// Len returns the total number of elements.
func (t *Tensor3) Len() int {
	return len(t.data)
}

// At returns the element at (i1, i2, i3).
// It panics if any index is out of range.
func (t *Tensor3) At(i1, i2, i3 int) float64 {
	t.checkIndex(i1, i2, i3)
	return t.data[(i1*t.n2+i2)*t.n3+i3]
}

// Set stores v at (i1, i2, i3).
// It panics if any index is out of range.
func (t *Tensor3) Set(i1, i2, i3 int, v float64) {
	t.checkIndex(i1, i2, i3)
	t.data[(i1*t.n2+i2)*t.n3+i3] = v
}

func (t *Tensor3) checkIndex(i1, i2, i3 int) {
	if i1 < 0 || i1 >= t.n1 || i2 < 0 || i2 >= t.n2 || i3 < 0 || i3 >= t.n3 {
		panic(fmt.Sprintf("tensor: index (%d,%d,%d) out of range %dx%dx%d",
			i1, i2, i3, t.n1, t.n2, t.n3))
	}
}

// Data returns the underlying flat buffer. The caller must not grow the
// returned slice; writes through it are visible in the tensor.
func (t *Tensor3) Data() []float64 {
	return t.data
}

// Clone returns a deep copy of the tensor. The copy shares no storage with
// the original.
func (t *Tensor3) Clone() *Tensor3 {
	c := New(t.n1, t.n2, t.n3)
	copy(c.data, t.data)
	return c
}

// CopyFrom overwrites the tensor's contents with those of src, which must
// have identical extents.
func (t *Tensor3) CopyFrom(src *Tensor3) {
	if t.n1 != src.n1 || t.n2 != src.n2 || t.n3 != src.n3 {
		panic(fmt.Sprintf("tensor: copy from %dx%dx%d into %dx%dx%d",
			src.n1, src.n2, src.n3, t.n1, t.n2, t.n3))
	}
	copy(t.data, src.data)
}

// Fill sets every element to v.
func (t *Tensor3) Fill(v float64) {
	for i := range t.data {
		t.data[i] = v
	}
}

// Zero resets every element to zero.
func (t *Tensor3) Zero() {
	t.Fill(0)
}

// SameDims reports whether t and u have identical extents.
func (t *Tensor3) SameDims(u *Tensor3) bool {
	return t.n1 == u.n1 && t.n2 == u.n2 && t.n3 == u.n3
}

// Norm returns the Frobenius norm of the tensor.
func (t *Tensor3) Norm() float64 {
	return floats.Norm(t.data, 2)
}

// Dist returns the Frobenius norm of the elementwise difference a-b.
// It panics if the extents differ.
func Dist(a, b *Tensor3) float64 {
	if !a.SameDims(b) {
		panic(fmt.Sprintf("tensor: dist between %dx%dx%d and %dx%dx%d",
			a.n1, a.n2, a.n3, b.n1, b.n2, b.n3))
	}
	return floats.Distance(a.data, b.data, 2)
}

// EqualApprox reports whether a and b have identical extents and every
// element agrees within tol.
func EqualApprox(a, b *Tensor3, tol float64) bool {
	if !a.SameDims(b) {
		return false
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}
