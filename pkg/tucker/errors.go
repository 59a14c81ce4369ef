package tucker

import "errors"

// Sentinel errors returned by the decomposition engine. Callers should test
// with errors.Is; returned errors wrap these with dimension context.
var (
	// ErrShapeMismatch indicates that the declared dimensions of two
	// operands are mutually inconsistent. It is detected before any
	// mutation, so the destination is always left unmodified.
	ErrShapeMismatch = errors.New("tucker: shape mismatch")

	// ErrSolverFailure indicates that the injected SVD or eigendecomposition
	// capability did not converge.
	ErrSolverFailure = errors.New("tucker: solver failure")

	// ErrBadFactor indicates a subsampling factor smaller than one.
	ErrBadFactor = errors.New("tucker: subsampling factor must be >= 1")

	// ErrBadRegion indicates region-of-interest boundaries outside the
	// source extents or with start >= end on some axis.
	ErrBadRegion = errors.New("tucker: invalid region of interest")
)
