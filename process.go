package pipe

import (
	"fmt"

	"github.com/wagiedev/pipe-go/internal/subprocess"
)

// NewProcess spawns argv and returns a pipe to its standard input and its
// merged standard output and error.
//
// Returns ProcessSpawnError if the process cannot be started.
func NewProcess(argv []string, opts ...Option) (*Process, error) {
	return subprocess.New(argv, applyOptions(opts))
}

// WithProcess spawns argv, runs fn with the pipe and closes it afterwards.
//
// If the callback returns an error, it is returned to the caller.
// If Close() fails, a warning is logged but does not override the callback's error.
//
//	err := pipe.WithProcess([]string{"sh"}, func(p *pipe.Process) error {
//	    if err := pipe.SendAll(p, []byte("uname\n")); err != nil {
//	        return err
//	    }
//	    _, err := pipe.ReadUntil(p, `\n`)
//	    return err
//	})
func WithProcess(argv []string, fn func(*Process) error, opts ...Option) error {
	options := applyOptions(opts)

	p, err := subprocess.New(argv, options)
	if err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}

	defer func() {
		if closeErr := p.Close(); closeErr != nil {
			options.Log().Warn("failed to close process pipe", "error", closeErr)
		}
	}()

	return fn(p)
}
