package cli

import "errors"

var (
	// ErrCheckFailed is returned when a self-check run has failing cases.
	ErrCheckFailed = errors.New("self-check failed")
	// ErrInvalidParam is returned for a -p value that is not key=value.
	ErrInvalidParam = errors.New("invalid parameter")
	// ErrParamFile wraps failures to read a parameter file.
	ErrParamFile = errors.New("read parameter file")
)
