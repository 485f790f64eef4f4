package game

import "fmt"

// ConfigError reports an invalid configuration value. It is the only fatal
// pre-game error class; everything that can go wrong mid-game is absorbed by
// the session retry ladder and the reflection sentinel.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
