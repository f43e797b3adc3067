// Package errors defines error types for pipe-go.
//
// Construction failures are reported through structured error types that
// wrap the underlying OS error, while per-call conditions on a live pipe
// (timeouts, end-of-stream, use after close) are sentinel values. All
// structured types support unwrapping and can be checked using errors.Is,
// errors.As, and errors.AsType.
package errors
