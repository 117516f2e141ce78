package frame

import "errors"

var (
	// ErrTypeInput is returned when a value is neither a labeled table nor a
	// raw array, or when a column has a kind an operation cannot handle.
	ErrTypeInput = errors.New("unsupported input type")

	// ErrColumnNotFound is returned when a column name does not exist.
	ErrColumnNotFound = errors.New("column not found")

	// ErrShapeMismatch is returned when row counts disagree.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNullValue is returned when an input cell is missing. Nulls are never
	// filled in.
	ErrNullValue = errors.New("null value")
)
