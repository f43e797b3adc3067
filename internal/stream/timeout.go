package stream

import (
	"time"

	"github.com/wagiedev/pipe-go/internal/config"
)

// withTimeout runs fn with d as the pipe timeout and restores the previous
// timeout afterwards, including when fn fails or panics.
func withTimeout(p config.Pipe, d time.Duration, fn func() error) error {
	prev := p.Timeout()
	p.SetTimeout(d)

	defer p.SetTimeout(prev)

	return fn()
}

// scoped runs fn under the read timeout from opts, if one was given.
// Without one the ambient timeout is used and never written.
func scoped(p config.Pipe, opts *readOptions, fn func() error) error {
	if opts.timeout == nil {
		return fn()
	}

	return withTimeout(p, *opts.timeout, fn)
}
