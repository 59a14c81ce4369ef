package tucker

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"tucker3d/pkg/tensor"
)

// DeriveCore computes the compressed core tensor for data against externally
// supplied bases:
//
//	core[j1,j2,j3] = sum over (i1,i2,i3) of
//	                 u1[i1,j1] * u2[i2,j2] * u3[i3,j3] * data[i1,i2,i3]
//
// This dense contraction is the dominant cost of the whole decomposition,
// O(I1*I2*I3 * J1*J2*J3). Each output cell's accumulation is independent, so
// the (j1,j2,j3) grid is partitioned into mode-3 slabs handed to
// opts.Workers goroutines, with no two goroutines writing the same cell.
// The context is checked once per slab; on cancellation the partially
// filled core is dropped and ctx.Err() returned.
func DeriveCore(ctx context.Context, data *tensor.Tensor3, u1, u2, u3 *mat.Dense, opts *Options) (*tensor.Tensor3, error) {
	n1, n2, n3 := data.Dims()
	i1n, j1n := u1.Dims()
	i2n, j2n := u2.Dims()
	i3n, j3n := u3.Dims()
	if i1n != n1 || i2n != n2 || i3n != n3 {
		return nil, fmt.Errorf("bases expect %dx%dx%d data, got %dx%dx%d: %w",
			i1n, i2n, i3n, n1, n2, n3, ErrShapeMismatch)
	}

	core := tensor.New(j1n, j2n, j3n)
	err := forEachSlab(ctx, j3n, opts.workers(), func(j3 int) {
		for j1 := 0; j1 < j1n; j1++ {
			for j2 := 0; j2 < j2n; j2++ {
				var sum float64
				for i3 := 0; i3 < n3; i3++ {
					w3 := u3.At(i3, j3)
					for i1 := 0; i1 < n1; i1++ {
						w13 := u1.At(i1, j1) * w3
						for i2 := 0; i2 < n2; i2++ {
							sum += w13 * u2.At(i2, j2) * data.At(i1, i2, i3)
						}
					}
				}
				core.Set(j1, j2, j3, sum)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return core, nil
}

// Reconstruct expands the decomposition back into a full-size tensor:
//
//	out[i1,i2,i3] = sum over (j1,j2,j3) of
//	                u1[i1,j1] * u2[i2,j2] * u3[i3,j3] * core[j1,j2,j3]
//
// The result approximates the original data; it is exact (up to roundoff)
// only when every Jk equals Ik and the bases are exact. out must already
// have the decomposition's data extents.
func (d *Decomposition) Reconstruct(ctx context.Context, out *tensor.Tensor3, opts *Options) error {
	if err := d.checkData(out); err != nil {
		return err
	}
	i := d.Extents()
	j := d.Ranks()

	return forEachSlab(ctx, i[2], opts.workers(), func(i3 int) {
		for i1 := 0; i1 < i[0]; i1++ {
			for i2 := 0; i2 < i[1]; i2++ {
				var sum float64
				for j3 := 0; j3 < j[2]; j3++ {
					w3 := d.u3.At(i3, j3)
					for j1 := 0; j1 < j[0]; j1++ {
						w13 := d.u1.At(i1, j1) * w3
						for j2 := 0; j2 < j[1]; j2++ {
							sum += w13 * d.u2.At(i2, j2) * d.core.At(j1, j2, j3)
						}
					}
				}
				out.Set(i1, i2, i3, sum)
			}
		}
	})
}

// forEachSlab runs fn once for every slab index in [0, n), spread across
// workers goroutines. Distinct slab indices map to disjoint output regions
// in the callers above, so no locking is needed around fn's writes. The
// dispatcher checks the context before handing out each slab; slabs already
// running are allowed to finish.
func forEachSlab(ctx context.Context, n, workers int, fn func(slab int)) error {
	if workers > n {
		workers = n
	}

	slabs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range slabs {
				fn(s)
			}
		}()
	}

	var err error
dispatch:
	for s := 0; s < n; s++ {
		if err = ctx.Err(); err != nil {
			break dispatch
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case slabs <- s:
		}
	}
	close(slabs)
	wg.Wait()
	return err
}
