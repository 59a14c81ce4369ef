// Package tucker implements the Tucker3 decomposition of a dense 3-tensor:
// a small core tensor combined with one orthogonal basis matrix per mode,
// following Tucker, "Some mathematical notes on three-mode factor analysis",
// Psychometrika 31(3), 1966, with bases computed by higher-order SVD
// (De Lathauwer et al., "A multilinear singular value decomposition", 2000).
//
// The package provides the decomposition/reconstruction engines and four
// editors that reshape an existing decomposition (rank reduction,
// subsampling, region of interest) without revisiting the raw data.
package tucker

import (
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/mat"

	"tucker3d/pkg/tensor"
)

// Decomposition is a Tucker3 representation of an I1 x I2 x I3 tensor:
// a J1 x J2 x J3 core plus basis matrices u1 (I1 x J1), u2 (I2 x J2) and
// u3 (I3 x J3). Basis k has orthonormal columns when produced by
// ComputeBases; the Jk-th core extent always matches basis k's column count
// and Ik matches its row count.
//
// A Decomposition exclusively owns its core and bases: accessors return deep
// copies and setters copy their arguments, so no two decompositions ever
// share storage.
type Decomposition struct {
	core       *tensor.Tensor3
	u1, u2, u3 *mat.Dense
}

// Options control how the decomposition engines run. The zero value selects
// the gonum SVD solver and one worker per CPU.
type Options struct {
	// Solver computes a mode's orthogonal basis from its unfolding.
	// Defaults to SVDSolver.
	Solver Solver

	// Workers is the number of goroutines used for the core-derivation and
	// reconstruction contractions. Defaults to runtime.NumCPU().
	Workers int
}

func (o *Options) solver() Solver {
	if o == nil || o.Solver == nil {
		return SVDSolver{}
	}
	return o.Solver
}

func (o *Options) workers() int {
	if o == nil || o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// New returns a zero-initialized decomposition with core extents
// ranks = (J1,J2,J3) and data extents = (I1,I2,I3). The usual compression
// case has Jk <= Ik, though equality is permitted.
// It panics if any dimension is not positive.
func New(ranks, extents [3]int) *Decomposition {
	for k := 0; k < 3; k++ {
		if ranks[k] <= 0 || extents[k] <= 0 {
			panic(fmt.Sprintf("tucker: non-positive dimensions ranks=%v extents=%v", ranks, extents))
		}
	}
	return &Decomposition{
		core: tensor.New(ranks[0], ranks[1], ranks[2]),
		u1:   mat.NewDense(extents[0], ranks[0], nil),
		u2:   mat.NewDense(extents[1], ranks[1], nil),
		u3:   mat.NewDense(extents[2], ranks[2], nil),
	}
}

// FromParts builds a decomposition from an existing core and basis tuple,
// deep-copying all four. It returns ErrShapeMismatch when basis k's column
// count does not equal the core's extent in mode k.
func FromParts(core *tensor.Tensor3, u1, u2, u3 *mat.Dense) (*Decomposition, error) {
	j1, j2, j3 := core.Dims()
	for k, u := range []*mat.Dense{u1, u2, u3} {
		_, c := u.Dims()
		want := []int{j1, j2, j3}[k]
		if c != want {
			return nil, fmt.Errorf("basis %d has %d columns, core extent is %d: %w",
				k+1, c, want, ErrShapeMismatch)
		}
	}
	return &Decomposition{
		core: core.Clone(),
		u1:   mat.DenseCopyOf(u1),
		u2:   mat.DenseCopyOf(u2),
		u3:   mat.DenseCopyOf(u3),
	}, nil
}

// Ranks returns the core extents (J1, J2, J3).
func (d *Decomposition) Ranks() [3]int {
	j1, j2, j3 := d.core.Dims()
	return [3]int{j1, j2, j3}
}

// Extents returns the data extents (I1, I2, I3), i.e. the basis row counts.
func (d *Decomposition) Extents() [3]int {
	i1, _ := d.u1.Dims()
	i2, _ := d.u2.Dims()
	i3, _ := d.u3.Dims()
	return [3]int{i1, i2, i3}
}

// Core returns a deep copy of the core tensor.
func (d *Decomposition) Core() *tensor.Tensor3 {
	return d.core.Clone()
}

// Basis returns a deep copy of the basis matrix for mode k (1, 2 or 3).
// It panics on any other k.
func (d *Decomposition) Basis(k int) *mat.Dense {
	switch k {
	case 1:
		return mat.DenseCopyOf(d.u1)
	case 2:
		return mat.DenseCopyOf(d.u2)
	case 3:
		return mat.DenseCopyOf(d.u3)
	}
	panic(fmt.Sprintf("tucker: basis mode %d out of range [1,3]", k))
}

// SetCore replaces the core with a deep copy of c. The replacement must have
// the same extents as the current core.
func (d *Decomposition) SetCore(c *tensor.Tensor3) error {
	if !d.core.SameDims(c) {
		j := d.Ranks()
		c1, c2, c3 := c.Dims()
		return fmt.Errorf("core replacement is %dx%dx%d, want %dx%dx%d: %w",
			c1, c2, c3, j[0], j[1], j[2], ErrShapeMismatch)
	}
	d.core.CopyFrom(c)
	return nil
}

// SetBasis replaces the basis matrix for mode k (1, 2 or 3) with a deep copy
// of u, which must match the existing basis dimensions.
func (d *Decomposition) SetBasis(k int, u *mat.Dense) error {
	var dst *mat.Dense
	switch k {
	case 1:
		dst = d.u1
	case 2:
		dst = d.u2
	case 3:
		dst = d.u3
	default:
		panic(fmt.Sprintf("tucker: basis mode %d out of range [1,3]", k))
	}
	dr, dc := dst.Dims()
	ur, uc := u.Dims()
	if dr != ur || dc != uc {
		return fmt.Errorf("basis %d replacement is %dx%d, want %dx%d: %w",
			k, ur, uc, dr, dc, ErrShapeMismatch)
	}
	dst.Copy(u)
	return nil
}

// Clone returns a deep copy of the decomposition.
func (d *Decomposition) Clone() *Decomposition {
	return &Decomposition{
		core: d.core.Clone(),
		u1:   mat.DenseCopyOf(d.u1),
		u2:   mat.DenseCopyOf(d.u2),
		u3:   mat.DenseCopyOf(d.u3),
	}
}

// checkData verifies that data's extents match the decomposition's.
func (d *Decomposition) checkData(data *tensor.Tensor3) error {
	i := d.Extents()
	n1, n2, n3 := data.Dims()
	if n1 != i[0] || n2 != i[1] || n3 != i[2] {
		return fmt.Errorf("data is %dx%dx%d, decomposition expects %dx%dx%d: %w",
			n1, n2, n3, i[0], i[1], i[2], ErrShapeMismatch)
	}
	return nil
}
