package logger

import "errors"

// ErrUnknownLevel is returned for a level name SetLevelString does not accept.
var ErrUnknownLevel = errors.New("unknown log level")
