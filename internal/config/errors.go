package config

import "errors"

var (
	// ErrInvalidConfig marks a setting outside its accepted values.
	ErrInvalidConfig = errors.New("config: invalid setting")
	// ErrLoadConfig marks a config file or environment that could not be read.
	ErrLoadConfig = errors.New("config: cannot load")
)
