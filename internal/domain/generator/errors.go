package generator

import "errors"

// ErrUnsupportedKind is returned for a field kind the generator cannot sample.
var ErrUnsupportedKind = errors.New("unsupported field kind")
