package tucker

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Solver computes an orthogonal basis for the row space of a mode unfolding.
// Solve returns a square matrix whose columns are basis directions sorted by
// decreasing significance, together with the associated singular values.
// Implementations must report non-convergence through the error (wrapping
// ErrSolverFailure) instead of returning an undefined basis.
type Solver interface {
	Solve(a mat.Matrix) (basis *mat.Dense, values []float64, err error)
}

// SVDSolver computes the basis by a full singular value decomposition of the
// unfolding itself. Operating directly on the unfolding, rather than on its
// covariance matrix, is the numerically stable choice. This is the default
// solver.
type SVDSolver struct{}

// Solve returns the left singular vectors of a as an r x r matrix (r being
// a's row count) and the singular values in decreasing order.
func (SVDSolver) Solve(a mat.Matrix) (*mat.Dense, []float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		r, c := a.Dims()
		return nil, nil, fmt.Errorf("SVD of %dx%d unfolding did not converge: %w",
			r, c, ErrSolverFailure)
	}
	var u mat.Dense
	svd.UTo(&u)
	return &u, svd.Values(nil), nil
}

// EigenSolver computes the same basis from the unfolding's covariance matrix
// a * aT, which is cheaper than a full SVD when the mode extent is much
// smaller than the flattened extent. The covariance matrix is symmetric
// positive semi-definite, so its eigenvectors span the unfolding's column
// space and its eigenvalues are the squared singular values.
type EigenSolver struct{}

// Solve returns the eigenvectors of a*aT ordered by decreasing eigenvalue
// and the square roots of the eigenvalues (clamped at zero, since roundoff
// can drive small eigenvalues slightly negative).
func (EigenSolver) Solve(a mat.Matrix) (*mat.Dense, []float64, error) {
	r, c := a.Dims()

	var cov mat.Dense
	cov.Mul(a, a.T())
	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			sym.SetSym(i, j, cov.At(i, j))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, nil, fmt.Errorf("eigendecomposition of %dx%d covariance (from %dx%d unfolding) did not converge: %w",
			r, r, r, c, ErrSolverFailure)
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	lambda := eig.Values(nil)

	// gonum reports eigenvalues in ascending order; reverse to match the
	// decreasing-significance contract.
	basis := mat.NewDense(r, r, nil)
	values := make([]float64, r)
	for j := 0; j < r; j++ {
		src := r - 1 - j
		values[j] = math.Sqrt(math.Max(lambda[src], 0))
		for i := 0; i < r; i++ {
			basis.Set(i, j, vecs.At(i, src))
		}
	}
	return basis, values, nil
}
