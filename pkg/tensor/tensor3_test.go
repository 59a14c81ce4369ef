package tensor

import (
	"math"
	"testing"
)

// TestNewAndIndexing verifies element access against the documented flat
// layout (mode 3 innermost).
func TestNewAndIndexing(t *testing.T) {
	tr := New(2, 3, 4)

	n1, n2, n3 := tr.Dims()
	if n1 != 2 || n2 != 3 || n3 != 4 {
		t.Fatalf("Expected dims 2x3x4, got %dx%dx%d", n1, n2, n3)
	}
	if tr.Len() != 24 {
		t.Errorf("Expected 24 elements, got %d", tr.Len())
	}

	// Fill with a value that encodes the index, then check both the
	// accessor and the flat layout.
	for i1 := 0; i1 < 2; i1++ {
		for i2 := 0; i2 < 3; i2++ {
			for i3 := 0; i3 < 4; i3++ {
				tr.Set(i1, i2, i3, float64(100*i1+10*i2+i3))
			}
		}
	}

	if got := tr.At(1, 2, 3); got != 123 {
		t.Errorf("At(1,2,3) = %v, want 123", got)
	}
	if got := tr.Data()[(1*3+2)*4+3]; got != 123 {
		t.Errorf("flat layout: data[(1*3+2)*4+3] = %v, want 123", got)
	}
}

// TestNewFromData verifies that construction from a flat buffer copies the
// data rather than aliasing it.
func TestNewFromData(t *testing.T) {
	raw := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	tr := NewFromData(2, 2, 2, raw)

	if got := tr.At(1, 0, 1); got != 6 {
		t.Errorf("At(1,0,1) = %v, want 6", got)
	}

	raw[0] = 99
	if got := tr.At(0, 0, 0); got != 1 {
		t.Errorf("NewFromData aliases its input: At(0,0,0) = %v after mutation, want 1", got)
	}
}

// TestCloneIsDeep verifies that a clone shares no storage with the original.
func TestCloneIsDeep(t *testing.T) {
	a := New(2, 2, 2)
	a.Set(1, 1, 1, 7)

	b := a.Clone()
	b.Set(1, 1, 1, -7)

	if got := a.At(1, 1, 1); got != 7 {
		t.Errorf("Clone shares storage: original changed to %v", got)
	}
	if got := b.At(1, 1, 1); got != -7 {
		t.Errorf("Clone write lost: got %v, want -7", got)
	}
}

// TestOutOfRangePanics verifies that invalid indices panic, matching the
// gonum mat convention for programmer errors.
func TestOutOfRangePanics(t *testing.T) {
	tr := New(2, 2, 2)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for out-of-range access")
		}
	}()
	tr.At(0, 2, 0)
}

// TestNormAndDist verifies the Frobenius norm and residual distance.
func TestNormAndDist(t *testing.T) {
	a := New(1, 2, 2)
	a.Set(0, 0, 0, 1)
	a.Set(0, 0, 1, 2)
	a.Set(0, 1, 0, 2)
	a.Set(0, 1, 1, 4)

	if got, want := a.Norm(), 5.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Norm = %v, want %v", got, want)
	}

	b := a.Clone()
	if got := Dist(a, b); got != 0 {
		t.Errorf("Dist(a, a.Clone()) = %v, want 0", got)
	}

	b.Set(0, 1, 1, 1)
	if got, want := Dist(a, b), 3.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Dist = %v, want %v", got, want)
	}
}

// TestEqualApprox verifies approximate comparison including dimension
// mismatch.
func TestEqualApprox(t *testing.T) {
	a := New(2, 2, 2)
	b := a.Clone()
	b.Set(0, 0, 0, 1e-10)

	if !EqualApprox(a, b, 1e-9) {
		t.Error("Expected equality within 1e-9")
	}
	if EqualApprox(a, b, 1e-11) {
		t.Error("Expected inequality at 1e-11")
	}
	if EqualApprox(a, New(2, 2, 3), 1) {
		t.Error("Tensors of different extents must never compare equal")
	}
}

// TestCopyFrom verifies in-place replacement and its shape guard.
func TestCopyFrom(t *testing.T) {
	a := New(2, 2, 2)
	b := New(2, 2, 2)
	b.Fill(3)

	a.CopyFrom(b)
	if got := a.At(1, 0, 1); got != 3 {
		t.Errorf("CopyFrom: At(1,0,1) = %v, want 3", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic copying from mismatched extents")
		}
	}()
	a.CopyFrom(New(2, 2, 3))
}
