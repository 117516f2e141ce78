package transform

import "errors"

var (
	// ErrConfiguration is returned when a transformer is constructed or
	// declared with invalid settings. It is raised before any data is read.
	ErrConfiguration = errors.New("invalid transformer configuration")

	// ErrNotFitted is returned by Transform on a stateful component that has
	// not been fitted.
	ErrNotFitted = errors.New("transformer is not fitted")

	// ErrUnknownCategory is returned by OneHotEncoder when it meets a
	// category it did not see during Fit.
	ErrUnknownCategory = errors.New("unknown category")
)
