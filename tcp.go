package pipe

import (
	"context"
	"fmt"

	"github.com/wagiedev/pipe-go/internal/netconn"
)

// DialTCP connects to host:port and returns a pipe over the connection.
// The connect phase is bounded by WithConnectTimeout, or by the pipe
// timeout when that is not set, and by ctx.
//
// Returns ConnectionError if the connection cannot be established.
func DialTCP(ctx context.Context, host string, port int, opts ...Option) (*TCPSocket, error) {
	return netconn.Dial(ctx, host, port, applyOptions(opts))
}

// WithTCP connects to host:port, runs fn with the pipe and closes it
// afterwards.
//
// If the callback returns an error, it is returned to the caller.
// If Close() fails, a warning is logged but does not override the callback's error.
func WithTCP(ctx context.Context, host string, port int, fn func(*TCPSocket) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	s, err := netconn.Dial(ctx, host, port, options)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			options.Log().Warn("failed to close tcp pipe", "error", closeErr)
		}
	}()

	return fn(s)
}
