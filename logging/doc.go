// Package logging provides a minimal logging interface and adapters for the
// game engine.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the engines, agent sessions and the warehouse loader use
// for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - GameLogger with agent/episode context and a dedicated helper for
//     reporting forced-fallback decision substitutions
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	engine, err := game.New(cfg, sessionA, sessionB, game.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
