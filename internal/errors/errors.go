package errors

import (
	"errors"
	"fmt"
	"strings"
)

// PipeError is the base interface for all structured pipe-go errors.
type PipeError interface {
	error
	IsPipeError() bool
}

// Compile-time verification that all error types implement PipeError.
var (
	_ PipeError = (*ProcessSpawnError)(nil)
	_ PipeError = (*ConnectionError)(nil)
	_ PipeError = (*ConfigurationError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrTimeout indicates no data or readiness within the active timeout.
	ErrTimeout = errors.New("pipe timeout")

	// ErrEndOfStream indicates the peer or child process closed the channel.
	ErrEndOfStream = errors.New("end of stream")

	// ErrPipeClosed indicates the pipe has been closed and cannot be reused.
	ErrPipeClosed = errors.New("pipe closed")

	// ErrShortWrite indicates a send made no progress without reporting an error.
	ErrShortWrite = errors.New("short write")

	// ErrUnsupportedPlatform indicates the transport is not available on this OS.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrSessionNotFound indicates a tool call referenced an unknown session.
	ErrSessionNotFound = errors.New("session not found")
)

// ProcessSpawnError indicates the child process could not be started.
type ProcessSpawnError struct {
	Argv []string
	Err  error
}

func (e *ProcessSpawnError) Error() string {
	if len(e.Argv) == 0 {
		return fmt.Sprintf("spawn process: %v", e.Err)
	}

	return fmt.Sprintf("spawn process %q: %v", strings.Join(e.Argv, " "), e.Err)
}

func (e *ProcessSpawnError) Unwrap() error {
	return e.Err
}

// IsPipeError implements PipeError.
func (e *ProcessSpawnError) IsPipeError() bool { return true }

// ConnectionError indicates a TCP connection could not be established.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsPipeError implements PipeError.
func (e *ConnectionError) IsPipeError() bool { return true }

// ConfigurationError indicates an invalid parameter was rejected before any
// encoding or I/O was attempted.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// IsPipeError implements PipeError.
func (e *ConfigurationError) IsPipeError() bool { return true }
