package tucker

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// The editors below derive a new decomposition from an existing one of a
// different rank or spatial extent without revisiting the raw data. The
// destination is the receiver; its declared shape states the intent (target
// ranks for rank reduction, target extents for the spatial editors). All
// preconditions are checked before any write, so a failed edit leaves the
// destination exactly as it was.

// ReduceRank progressively reduces the source's core ranks (K1,K2,K3) to the
// destination's (J1,J2,J3) by keeping the first Jk columns of each basis and
// the leading J1 x J2 x J3 block of the core. Both decompositions must share
// the same data extents and every Jk must not exceed Kk.
//
// Dropping trailing singular directions this way can only discard structure:
// reconstruction error is monotonically non-decreasing in the amount of rank
// removed.
func (d *Decomposition) ReduceRank(src *Decomposition) error {
	j := d.Ranks()
	k := src.Ranks()
	for ax := 0; ax < 3; ax++ {
		if j[ax] > k[ax] {
			return fmt.Errorf("target rank %d exceeds source rank %d on mode %d: %w",
				j[ax], k[ax], ax+1, ErrShapeMismatch)
		}
	}
	if d.Extents() != src.Extents() {
		return fmt.Errorf("rank reduction from extents %v to %v: %w",
			src.Extents(), d.Extents(), ErrShapeMismatch)
	}

	for ax, pair := range [][2]*mat.Dense{{d.u1, src.u1}, {d.u2, src.u2}, {d.u3, src.u3}} {
		dst, s := pair[0], pair[1]
		rows, _ := dst.Dims()
		for col := 0; col < j[ax]; col++ {
			for row := 0; row < rows; row++ {
				dst.Set(row, col, s.At(row, col))
			}
		}
	}

	for j1 := 0; j1 < j[0]; j1++ {
		for j2 := 0; j2 < j[1]; j2++ {
			for j3 := 0; j3 < j[2]; j3++ {
				d.core.Set(j1, j2, j3, src.core.At(j1, j2, j3))
			}
		}
	}
	return nil
}

// Subsample shrinks the source's spatial extents (K1,K2,K3) to the
// destination's (I1,I2,I3) by keeping every factor-th basis row: destination
// row i is source row i*factor. The core is copied unchanged, so both
// decompositions must share the same ranks, and each Ik must equal
// ceil(Kk/factor).
func (d *Decomposition) Subsample(src *Decomposition, factor int) error {
	if err := d.checkSubsample(src, factor); err != nil {
		return err
	}

	for _, pair := range [][2]*mat.Dense{{d.u1, src.u1}, {d.u2, src.u2}, {d.u3, src.u3}} {
		dst, s := pair[0], pair[1]
		srcRows, _ := s.Dims()
		for si, i := 0, 0; si < srcRows; si, i = si+factor, i+1 {
			dst.SetRow(i, mat.Row(nil, si, s))
		}
	}

	d.core.CopyFrom(src.core)
	return nil
}

// SubsampleAverage shrinks spatial extents with the same stride as Subsample
// but anti-aliases: destination row i is the unweighted mean of the up to
// factor consecutive source rows starting at i*factor (fewer at the tail
// when factor does not divide the extent). The averaged row is stored for
// all three modes. The core is copied unchanged.
func (d *Decomposition) SubsampleAverage(src *Decomposition, factor int) error {
	if err := d.checkSubsample(src, factor); err != nil {
		return err
	}

	for _, pair := range [][2]*mat.Dense{{d.u1, src.u1}, {d.u2, src.u2}, {d.u3, src.u3}} {
		dst, s := pair[0], pair[1]
		srcRows, cols := s.Dims()
		row := make([]float64, cols)
		for si, i := 0, 0; si < srcRows; si, i = si+factor, i+1 {
			mat.Row(row, si, s)
			n := 1
			for k := si + 1; k < si+factor && k < srcRows; k++ {
				for c := 0; c < cols; c++ {
					row[c] += s.At(k, c)
				}
				n++
			}
			for c := 0; c < cols; c++ {
				row[c] /= float64(n)
			}
			dst.SetRow(i, row)
		}
	}

	d.core.CopyFrom(src.core)
	return nil
}

func (d *Decomposition) checkSubsample(src *Decomposition, factor int) error {
	if factor < 1 {
		return fmt.Errorf("factor %d: %w", factor, ErrBadFactor)
	}
	if d.Ranks() != src.Ranks() {
		return fmt.Errorf("subsampling between ranks %v and %v: %w",
			src.Ranks(), d.Ranks(), ErrShapeMismatch)
	}
	di := d.Extents()
	ki := src.Extents()
	for ax := 0; ax < 3; ax++ {
		want := (ki[ax] + factor - 1) / factor
		if di[ax] != want {
			return fmt.Errorf("extent %d on mode %d, want ceil(%d/%d)=%d: %w",
				di[ax], ax+1, ki[ax], factor, want, ErrShapeMismatch)
		}
	}
	return nil
}

// RegionOfInterest extracts the contiguous basis-row range [start[k], end[k])
// of every mode from the source, so the destination describes only that
// spatial region. The core is copied unchanged; both decompositions must
// share the same ranks, each range must satisfy 0 <= start < end <= Kk, and
// the destination extent on mode k must equal end[k]-start[k]. Extracting
// the full range on every mode reproduces the source exactly.
func (d *Decomposition) RegionOfInterest(src *Decomposition, start, end [3]int) error {
	if d.Ranks() != src.Ranks() {
		return fmt.Errorf("region of interest between ranks %v and %v: %w",
			src.Ranks(), d.Ranks(), ErrShapeMismatch)
	}
	di := d.Extents()
	ki := src.Extents()
	for ax := 0; ax < 3; ax++ {
		if start[ax] < 0 || start[ax] >= end[ax] || end[ax] > ki[ax] {
			return fmt.Errorf("range [%d,%d) on mode %d with source extent %d: %w",
				start[ax], end[ax], ax+1, ki[ax], ErrBadRegion)
		}
		if di[ax] != end[ax]-start[ax] {
			return fmt.Errorf("extent %d on mode %d, range [%d,%d) needs %d: %w",
				di[ax], ax+1, start[ax], end[ax], end[ax]-start[ax], ErrShapeMismatch)
		}
	}

	for ax, pair := range [][2]*mat.Dense{{d.u1, src.u1}, {d.u2, src.u2}, {d.u3, src.u3}} {
		dst, s := pair[0], pair[1]
		for si, i := start[ax], 0; si < end[ax]; si, i = si+1, i+1 {
			dst.SetRow(i, mat.Row(nil, si, s))
		}
	}

	d.core.CopyFrom(src.core)
	return nil
}
