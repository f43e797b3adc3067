//go:build !unix

package subprocess

import (
	"time"

	"github.com/wagiedev/pipe-go/internal/config"
	"github.com/wagiedev/pipe-go/internal/errors"
)

// Process is unavailable on this platform; New always fails.
type Process struct {
	timeout time.Duration
}

var _ config.Pipe = (*Process)(nil)

// New reports ErrUnsupportedPlatform.
func New(argv []string, _ *config.Options) (*Process, error) {
	return nil, &errors.ProcessSpawnError{Argv: argv, Err: errors.ErrUnsupportedPlatform}
}

func (p *Process) Recv(int) ([]byte, error) { return nil, errors.ErrPipeClosed }

func (p *Process) Send([]byte) (int, error) { return 0, errors.ErrPipeClosed }

func (p *Process) Close() error { return nil }

func (p *Process) Timeout() time.Duration { return p.timeout }

func (p *Process) SetTimeout(d time.Duration) { p.timeout = d }

func (p *Process) Pid() int { return -1 }

func (p *Process) ExitCode() int { return -1 }
