package render

import "errors"

// ErrUnknownFormat is returned for an output format the renderer does not know.
var ErrUnknownFormat = errors.New("unknown output format")
