package scorer

import "errors"

// Sentinel error kinds. All validation failures wrap one of these, so
// callers can classify with errors.Is regardless of the added context.
var (
	// ErrSizeMismatch indicates a buffer whose length is inconsistent with
	// its declared token count and dimension.
	ErrSizeMismatch = errors.New("scorer: buffer size mismatch")

	// ErrEmptyInput indicates zero tokens where at least one is required.
	ErrEmptyInput = errors.New("scorer: empty input")

	// ErrInvalidDimension indicates a non-positive embedding dimension.
	ErrInvalidDimension = errors.New("scorer: invalid dimension")

	// ErrNotLoaded indicates a Search call before any LoadDocuments.
	ErrNotLoaded = errors.New("scorer: no document collection loaded")

	// ErrNonFinite indicates a NaN or infinite value in an input buffer.
	ErrNonFinite = errors.New("scorer: non-finite input value")
)
