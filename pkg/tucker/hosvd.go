package tucker

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"tucker3d/pkg/tensor"
)

// ComputeBases runs the higher-order SVD step: for each mode k it matricizes
// data along mode k, hands the unfolding to the configured solver, and keeps
// the first Jk columns of the resulting Ik x Ik orthogonal basis. Choosing
// Jk < Ik therefore yields a rank-reduced basis directly; the singular
// values are discarded by this entry point.
//
// The three per-mode solves are independent and run concurrently. The
// decomposition is only mutated once all three succeed, so a solver failure
// (ErrSolverFailure) or shape mismatch leaves it unmodified.
func (d *Decomposition) ComputeBases(ctx context.Context, data *tensor.Tensor3, opts *Options) error {
	if err := d.checkData(data); err != nil {
		return err
	}
	ranks := d.Ranks()
	extents := d.Extents()
	for k := 0; k < 3; k++ {
		if ranks[k] > extents[k] {
			return fmt.Errorf("rank %d exceeds extent %d on mode %d: %w",
				ranks[k], extents[k], k+1, ErrShapeMismatch)
		}
	}
	solver := opts.solver()

	type modeResult struct {
		mode  int
		basis *mat.Dense
		err   error
	}
	results := make(chan modeResult, 3)

	unfold := []func() *mat.Dense{data.Unfold1, data.Unfold2, data.Unfold3}
	for mode := 1; mode <= 3; mode++ {
		go func(mode int) {
			full, _, err := solver.Solve(unfold[mode-1]())
			if err != nil {
				results <- modeResult{mode: mode, err: fmt.Errorf("mode %d: %w", mode, err)}
				return
			}
			results <- modeResult{mode: mode, basis: truncateColumns(full, ranks[mode-1])}
		}(mode)
	}

	bases := make([]*mat.Dense, 3)
	var firstErr error
	for i := 0; i < 3; i++ {
		select {
		case <-ctx.Done():
			if firstErr == nil {
				firstErr = ctx.Err()
			}
			// Drain the remaining solves so their goroutines can exit.
			res := <-results
			if res.err == nil {
				bases[res.mode-1] = res.basis
			}
		case res := <-results:
			if res.err != nil {
				if firstErr == nil {
					firstErr = res.err
				}
				continue
			}
			bases[res.mode-1] = res.basis
		}
	}
	if firstErr != nil {
		return firstErr
	}

	d.u1.Copy(bases[0])
	d.u2.Copy(bases[1])
	d.u3.Copy(bases[2])
	return nil
}

// Decompose computes the complete Tucker3 decomposition of data: HOSVD for
// the three bases, then the core via multilinear contraction against those
// bases. Both stages remain independently callable through ComputeBases and
// DeriveCore.
func (d *Decomposition) Decompose(ctx context.Context, data *tensor.Tensor3, opts *Options) error {
	if err := d.ComputeBases(ctx, data, opts); err != nil {
		return err
	}
	core, err := DeriveCore(ctx, data, d.u1, d.u2, d.u3, opts)
	if err != nil {
		return err
	}
	d.core = core
	return nil
}

// truncateColumns returns a deep copy of the first j columns of m.
func truncateColumns(m *mat.Dense, j int) *mat.Dense {
	r, _ := m.Dims()
	return mat.DenseCopyOf(m.Slice(0, r, 0, j))
}
