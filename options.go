package pipe

import (
	"log/slog"
	"time"

	"github.com/wagiedev/pipe-go/internal/config"
	"github.com/wagiedev/pipe-go/internal/stream"
)

// Option configures a pipe at construction time.
type Option func(*config.Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *config.Options {
	options := &config.Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *config.Options) {
		o.Logger = logger
	}
}

// WithTimeout sets the initial I/O timeout of the pipe.
func WithTimeout(d time.Duration) Option {
	return func(o *config.Options) {
		o.Timeout = &d
	}
}

// WithConnectTimeout bounds TCP connection establishment.
// If not set, the pipe timeout is used.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *config.Options) {
		o.ConnectTimeout = &d
	}
}

// WithEnv replaces the environment of a spawned process.
func WithEnv(env map[string]string) Option {
	return func(o *config.Options) {
		o.Env = env
	}
}

// WithDir sets the working directory of a spawned process.
func WithDir(dir string) Option {
	return func(o *config.Options) {
		o.Dir = dir
	}
}

// ReadOption configures a single read operation.
type ReadOption = stream.ReadOption

// WithBufSize sets the maximum number of bytes requested per Recv.
// The default is 4096.
func WithBufSize(n int) ReadOption {
	return stream.WithBufSize(n)
}

// WithReadTimeout uses d as the pipe timeout for one read operation and
// restores the previous timeout when it returns.
func WithReadTimeout(d time.Duration) ReadOption {
	return stream.WithReadTimeout(d)
}
