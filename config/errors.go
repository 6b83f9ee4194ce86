package config

import "errors"

var (
	// ErrConfigUnmarshal is returned when config unmarshalling fails
	ErrConfigUnmarshal = errors.New("failed to unmarshal configuration")
	// ErrConfigFile is returned when the config file exists but cannot be read or parsed
	ErrConfigFile = errors.New("failed to load config file")
	// ErrInvalidConfig is returned when a setting is out of range
	ErrInvalidConfig = errors.New("invalid configuration")
)
