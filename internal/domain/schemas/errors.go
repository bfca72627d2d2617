package schemas

import "errors"

// ErrUnknownScore is returned for an identifier no schema is registered under.
var ErrUnknownScore = errors.New("unknown score")
