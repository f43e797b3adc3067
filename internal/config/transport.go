// Package config provides configuration types for pipe-go.
package config

import "time"

// NoTimeout makes primitive operations block until data or readiness arrives.
const NoTimeout time.Duration = -1

// Pipe is the duplex byte-channel contract shared by every transport.
// Implement this to provide custom transports for testing, mocking,
// or alternative endpoints.
//
// Implementations are not safe for concurrent use; callers own a pipe
// exclusively and issue one call at a time.
type Pipe interface {
	// Recv returns between 1 and n bytes that are available.
	// It fails with ErrTimeout if nothing arrives within the timeout.
	// An empty result with a nil error signals end-of-stream.
	Recv(n int) ([]byte, error)

	// Send writes a prefix of data and returns its length.
	// It fails with ErrTimeout if the channel cannot accept any byte
	// within the timeout.
	Send(data []byte) (int, error)

	// Close releases the underlying OS resource. The pipe is unusable
	// afterwards. It's safe to call Close multiple times.
	Close() error

	// Timeout returns the active timeout.
	Timeout() time.Duration

	// SetTimeout replaces the active timeout. Zero means "do not wait";
	// NoTimeout blocks indefinitely.
	SetTimeout(d time.Duration)
}
