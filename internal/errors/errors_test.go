package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessSpawnError(t *testing.T) {
	root := errors.New("executable file not found in $PATH")
	err := &ProcessSpawnError{
		Argv: []string{"nosuchbinary", "-v"},
		Err:  root,
	}

	require.Equal(
		t,
		`spawn process "nosuchbinary -v": executable file not found in $PATH`,
		err.Error(),
	)
	require.ErrorIs(t, err, root)
	require.True(t, err.IsPipeError())
}

func TestProcessSpawnError_EmptyArgv(t *testing.T) {
	err := &ProcessSpawnError{Err: errors.New("empty argv")}

	require.Equal(t, "spawn process: empty argv", err.Error())
}

func TestConnectionError(t *testing.T) {
	root := errors.New("connection refused")
	err := &ConnectionError{Addr: "127.0.0.1:1", Err: root}

	require.Equal(t, "connect to 127.0.0.1:1: connection refused", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsPipeError())
}

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{
		Field:  "size",
		Value:  8,
		Reason: "supported sizes are 16, 32 and 64",
	}

	require.Equal(t, "invalid size 8: supported sizes are 16, 32 and 64", err.Error())
	require.True(t, err.IsPipeError())

	var pipeErr PipeError

	require.ErrorAs(t, err, &pipeErr)
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrTimeout,
		ErrEndOfStream,
		ErrPipeClosed,
		ErrShortWrite,
		ErrUnsupportedPlatform,
		ErrSessionNotFound,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				require.NotErrorIs(t, a, b)
			}
		}
	}
}
