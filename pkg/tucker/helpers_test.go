package tucker

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"tucker3d/pkg/tensor"
)

// rank2Tensor builds a 4x4x4 tensor as the sum of two separable terms with
// linearly independent factors per mode, so its multilinear rank is exactly
// (2, 2, 2).
func rank2Tensor() *tensor.Tensor3 {
	a := [2][4]float64{{1, 2, 3, 4}, {4, 3, 2, 1}}
	b := [2][4]float64{{1, 0, 1, 0}, {0, 1, 0, 1}}
	c := [2][4]float64{{1, 1, 2, 2}, {2, 1, 1, 2}}

	t := tensor.New(4, 4, 4)
	for r := 0; r < 2; r++ {
		for i1 := 0; i1 < 4; i1++ {
			for i2 := 0; i2 < 4; i2++ {
				for i3 := 0; i3 < 4; i3++ {
					t.Set(i1, i2, i3, t.At(i1, i2, i3)+a[r][i1]*b[r][i2]*c[r][i3])
				}
			}
		}
	}
	return t
}

// randomTensor builds a deterministic full-rank tensor from a seeded source.
func randomTensor(n1, n2, n3 int, seed int64) *tensor.Tensor3 {
	rng := rand.New(rand.NewSource(seed))
	t := tensor.New(n1, n2, n3)
	data := t.Data()
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return t
}

// decompose runs a full decomposition at the given ranks, failing the test
// on error.
func decompose(t *testing.T, data *tensor.Tensor3, ranks [3]int, opts *Options) *Decomposition {
	t.Helper()
	n1, n2, n3 := data.Dims()
	d := New(ranks, [3]int{n1, n2, n3})
	if err := d.Decompose(context.Background(), data, opts); err != nil {
		t.Fatalf("Decompose at ranks %v failed: %v", ranks, err)
	}
	return d
}

// residual reconstructs the decomposition and returns the Frobenius-norm
// error against data.
func residual(t *testing.T, d *Decomposition, data *tensor.Tensor3) float64 {
	t.Helper()
	n1, n2, n3 := data.Dims()
	out := tensor.New(n1, n2, n3)
	if err := d.Reconstruct(context.Background(), out, nil); err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	return tensor.Dist(data, out)
}

// rowMatrix builds an n x cols matrix whose row i is filled with
// base + i, giving every row a recognizable value.
func rowMatrix(n, cols int, base float64) *mat.Dense {
	m := mat.NewDense(n, cols, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, base+float64(i)+0.1*float64(j))
		}
	}
	return m
}

// failingSolver implements Solver and always reports non-convergence.
type failingSolver struct{}

func (failingSolver) Solve(a mat.Matrix) (*mat.Dense, []float64, error) {
	return nil, nil, fmt.Errorf("injected failure: %w", ErrSolverFailure)
}
