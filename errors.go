package pipe

import "github.com/wagiedev/pipe-go/internal/errors"

// Re-export error types from internal package

// ProcessSpawnError indicates a child process could not be started.
type ProcessSpawnError = errors.ProcessSpawnError

// ConnectionError indicates a TCP connection could not be established.
type ConnectionError = errors.ConnectionError

// ConfigurationError indicates an invalid parameter was rejected.
type ConfigurationError = errors.ConfigurationError

// PipeError is the base interface for all structured pipe errors.
type PipeError = errors.PipeError

// Re-export sentinel errors from internal package.
var (
	// ErrTimeout indicates no data or readiness within the active timeout.
	ErrTimeout = errors.ErrTimeout

	// ErrEndOfStream indicates the peer or child closed the channel before
	// a pattern matched.
	ErrEndOfStream = errors.ErrEndOfStream

	// ErrPipeClosed indicates the pipe has been closed and cannot be reused.
	ErrPipeClosed = errors.ErrPipeClosed

	// ErrShortWrite indicates a Send made no progress without an error.
	ErrShortWrite = errors.ErrShortWrite

	// ErrUnsupportedPlatform indicates the transport is not available on this OS.
	ErrUnsupportedPlatform = errors.ErrUnsupportedPlatform

	// ErrSessionNotFound indicates a tool call referenced an unknown session.
	ErrSessionNotFound = errors.ErrSessionNotFound
)
