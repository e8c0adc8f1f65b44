package config

import "errors"

// ErrInvalidConfig wraps Validate failures; ErrLoadConfig wraps failures
// reading the dotenv, YAML or environment layers.
var (
	ErrInvalidConfig = errors.New("config: invalid value")
	ErrLoadConfig    = errors.New("config: load")
)
