package selfcheck

import "errors"

var (
	// ErrNoCases is returned when a plan would verify nothing.
	ErrNoCases = errors.New("no cases to check")
	// ErrReplayFormat is returned for replay paths with an unknown extension.
	ErrReplayFormat = errors.New("unsupported replay format")
	// ErrReadReplay wraps failures to load a replay file.
	ErrReadReplay = errors.New("read replay file")
	// ErrWriteReplay wraps failures to write a replay file.
	ErrWriteReplay = errors.New("write replay file")
)
