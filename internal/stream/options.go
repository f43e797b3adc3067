package stream

import "time"

// DefaultBufSize is the receive size used by the read loops.
const DefaultBufSize = 4096

// ReadOption configures a single derived read operation.
type ReadOption func(*readOptions)

type readOptions struct {
	bufSize int
	timeout *time.Duration
}

// WithBufSize sets the maximum number of bytes requested per Recv call.
// Non-positive values keep DefaultBufSize.
func WithBufSize(n int) ReadOption {
	return func(o *readOptions) {
		if n > 0 {
			o.bufSize = n
		}
	}
}

// WithReadTimeout sets a temporary pipe timeout for the whole operation.
// The previous timeout is restored when the operation returns.
func WithReadTimeout(d time.Duration) ReadOption {
	return func(o *readOptions) {
		o.timeout = &d
	}
}

func applyReadOptions(opts []ReadOption) *readOptions {
	options := &readOptions{bufSize: DefaultBufSize}
	for _, opt := range opts {
		opt(options)
	}

	return options
}
