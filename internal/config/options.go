package config

import (
	"log/slog"
	"time"
)

// DefaultTimeout is the I/O timeout used when none is configured.
const DefaultTimeout = 100 * time.Millisecond

// Options configures a transport at construction time.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Timeout is the initial I/O timeout of the pipe.
	// If nil, DefaultTimeout is used.
	Timeout *time.Duration

	// ConnectTimeout bounds TCP connection establishment.
	// If nil, the pipe timeout is used.
	ConnectTimeout *time.Duration

	// Env replaces the environment of a spawned process.
	// If nil, the child inherits the current environment.
	Env map[string]string

	// Dir sets the working directory of a spawned process.
	// If empty, the child runs in the current directory.
	Dir string
}

// IOTimeout returns the configured pipe timeout or DefaultTimeout.
func (o *Options) IOTimeout() time.Duration {
	if o == nil || o.Timeout == nil {
		return DefaultTimeout
	}

	return *o.Timeout
}

// DialTimeout returns the connect timeout, falling back to the pipe timeout.
// A negative result is reported as zero, which net.Dialer treats as no limit.
func (o *Options) DialTimeout() time.Duration {
	d := o.IOTimeout()
	if o != nil && o.ConnectTimeout != nil {
		d = *o.ConnectTimeout
	}

	if d < 0 {
		return 0
	}

	return d
}

// Log returns the configured logger or a logger that discards output.
func (o *Options) Log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return o.Logger
}
