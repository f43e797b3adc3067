//go:build unix

package subprocess

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"slices"
	"time"

	"golang.org/x/sys/unix"

	"github.com/wagiedev/pipe-go/internal/config"
	"github.com/wagiedev/pipe-go/internal/errors"
)

// Process implements config.Pipe over a spawned child process.
type Process struct {
	log      *slog.Logger
	argv     []string
	cmd      *exec.Cmd
	stdin    *os.File // parent write end of the child's stdin
	stdout   *os.File // parent read end of the child's stdout and stderr
	stdinFd  int
	stdoutFd int
	timeout  time.Duration
	closed   bool
	exitCode int
}

// Compile-time verification that Process implements the Pipe interface.
var _ config.Pipe = (*Process)(nil)

// New spawns argv and returns a pipe connected to the child's standard
// streams. It returns a ProcessSpawnError if the child cannot be started;
// no pipe is returned in that case.
func New(argv []string, options *config.Options) (*Process, error) {
	if options == nil {
		options = &config.Options{}
	}

	log := options.Log().With("component", "process_pipe")

	if len(argv) == 0 {
		return nil, &errors.ProcessSpawnError{Err: stderrors.New("empty argv")}
	}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return nil, &errors.ProcessSpawnError{Argv: argv, Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		closeAll(stdinR, stdinW)

		return nil, &errors.ProcessSpawnError{Argv: argv, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	//nolint:gosec // G204: spawning caller-provided argv is the purpose of this transport
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = stdinR
	cmd.Stdout = stdoutW
	cmd.Stderr = stdoutW
	cmd.Dir = options.Dir

	if options.Env != nil {
		cmd.Env = buildEnv(options.Env)
	}

	if err := cmd.Start(); err != nil {
		closeAll(stdinR, stdinW, stdoutR, stdoutW)
		log.Error("Failed to start process", "argv", argv, "error", err)

		return nil, &errors.ProcessSpawnError{Argv: argv, Err: err}
	}

	// The child holds its own copies; dropping ours lets EOF reach the reader.
	closeAll(stdinR, stdoutW)

	p := &Process{
		log:      log.With("pid", cmd.Process.Pid),
		argv:     argv,
		cmd:      cmd,
		stdin:    stdinW,
		stdout:   stdoutR,
		stdinFd:  int(stdinW.Fd()),
		stdoutFd: int(stdoutR.Fd()),
		timeout:  options.IOTimeout(),
		exitCode: -1,
	}

	if err := p.setNonblock(); err != nil {
		_ = p.Close()

		return nil, &errors.ProcessSpawnError{Argv: argv, Err: err}
	}

	p.log.Info("Process pipe started", "argv", argv)

	return p, nil
}

func (p *Process) setNonblock() error {
	if err := unix.SetNonblock(p.stdinFd, true); err != nil {
		return fmt.Errorf("set stdin non-blocking: %w", err)
	}

	if err := unix.SetNonblock(p.stdoutFd, true); err != nil {
		return fmt.Errorf("set stdout non-blocking: %w", err)
	}

	return nil
}

// Recv waits for the child's output to become readable and reads up to n
// bytes. An empty result means the child closed its output.
func (p *Process) Recv(n int) ([]byte, error) {
	if p.closed {
		return nil, errors.ErrPipeClosed
	}

	if n <= 0 {
		return nil, &errors.ConfigurationError{Field: "bufsize", Value: n, Reason: "must be positive"}
	}

	buf := make([]byte, n)
	start := time.Now()

	for {
		if err := waitReady(p.stdoutFd, unix.POLLIN, p.timeout, start); err != nil {
			return nil, err
		}

		m, err := unix.Read(p.stdoutFd, buf)
		if err == unix.EAGAIN || err == unix.EINTR {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("read process output: %w", err)
		}

		p.log.Debug("Received from process", "bytes", m)

		return buf[:m], nil
	}
}

// Send waits for the child's input to become writable and writes as much
// of data as the pipe accepts without blocking.
func (p *Process) Send(data []byte) (int, error) {
	if p.closed {
		return 0, errors.ErrPipeClosed
	}

	if len(data) == 0 {
		return 0, nil
	}

	start := time.Now()

	for {
		if err := waitReady(p.stdinFd, unix.POLLOUT, p.timeout, start); err != nil {
			return 0, err
		}

		n, err := unix.Write(p.stdinFd, data)
		if err == unix.EAGAIN || err == unix.EINTR {
			continue
		}

		if err != nil {
			return 0, fmt.Errorf("write process input: %w", err)
		}

		p.log.Debug("Sent to process", "bytes", n, "requested", len(data))

		return n, nil
	}
}

// Close closes both pipe ends, kills the child and reaps it. Kill and wait
// failures are ignored. It's safe to call Close multiple times.
func (p *Process) Close() error {
	if p.closed {
		return nil
	}

	p.closed = true

	err := stderrors.Join(p.stdin.Close(), p.stdout.Close())

	if killErr := p.cmd.Process.Kill(); killErr != nil && !stderrors.Is(killErr, os.ErrProcessDone) {
		p.log.Warn("Failed to kill process", "error", killErr)
	}

	if waitErr := p.cmd.Wait(); waitErr != nil {
		p.log.Debug("Process exited", "error", waitErr)
	}

	if p.cmd.ProcessState != nil {
		p.exitCode = p.cmd.ProcessState.ExitCode()
	}

	p.log.Info("Process pipe closed", "exit_code", p.exitCode)

	return err
}

// Timeout returns the active timeout.
func (p *Process) Timeout() time.Duration {
	return p.timeout
}

// SetTimeout replaces the active timeout.
func (p *Process) SetTimeout(d time.Duration) {
	p.timeout = d
}

// Pid returns the process ID of the child.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// ExitCode returns the child's exit code once Close has reaped it, and -1
// before that or if the child was terminated by a signal.
func (p *Process) ExitCode() int {
	return p.exitCode
}

// waitReady polls fd for events until it is ready or the timeout, measured
// from start, has elapsed.
func waitReady(fd int, events int16, timeout time.Duration, start time.Time) error {
	fds := []unix.PollFd{{Fd: int32(fd), Events: events}}

	for {
		n, err := unix.Poll(fds, pollMillis(timeout, start))
		if err == unix.EINTR {
			continue
		}

		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}

		if n == 0 {
			return errors.ErrTimeout
		}

		return nil
	}
}

// pollMillis converts the remaining timeout budget into a poll(2) argument.
// A negative timeout blocks indefinitely.
func pollMillis(timeout time.Duration, start time.Time) int {
	if timeout < 0 {
		return -1
	}

	remaining := timeout - time.Since(start)
	if remaining <= 0 {
		return 0
	}

	return int((remaining + time.Millisecond - 1) / time.Millisecond)
}

// buildEnv renders env as a sorted KEY=value list.
func buildEnv(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for _, key := range slices.Sorted(maps.Keys(env)) {
		result = append(result, key+"="+env[key])
	}

	return result
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
