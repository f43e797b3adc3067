//go:build integration

package integration

import (
	"errors"
	"os/exec"
	"testing"

	pipe "github.com/wagiedev/pipe-go"
)

// skipIfNotInstalled skips the test if the error indicates the program is not found.
func skipIfNotInstalled(t *testing.T, err error) {
	t.Helper()

	if _, ok := errors.AsType[*pipe.ProcessSpawnError](err); ok && errors.Is(err, exec.ErrNotFound) {
		t.Skipf("program not installed: %v", err)
	}
}

// spawn starts argv or skips the test when the program is missing.
func spawn(t *testing.T, argv []string, opts ...pipe.Option) *pipe.Process {
	t.Helper()

	p, err := pipe.NewProcess(argv, opts...)
	if err != nil {
		skipIfNotInstalled(t, err)
		t.Fatalf("spawn %v failed: %v", argv, err)
	}

	t.Cleanup(func() { _ = p.Close() })

	return p
}
