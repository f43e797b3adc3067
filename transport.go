package pipe

import (
	"github.com/wagiedev/pipe-go/internal/config"
	"github.com/wagiedev/pipe-go/internal/netconn"
	"github.com/wagiedev/pipe-go/internal/subprocess"
)

// Pipe is the duplex byte-channel contract shared by every transport.
// Implement this to provide custom transports for testing, mocking,
// or alternative endpoints; the derived operations work with any Pipe.
//
// The built-in implementations are Process and TCPSocket.
type Pipe = config.Pipe

// Process is a pipe to a spawned child process. Standard error is merged
// into standard output.
type Process = subprocess.Process

// TCPSocket is a pipe to a TCP peer.
type TCPSocket = netconn.TCPSocket

// NoTimeout makes Recv and Send block until data or readiness arrives.
const NoTimeout = config.NoTimeout

// DefaultTimeout is the timeout of a pipe created without WithTimeout.
const DefaultTimeout = config.DefaultTimeout
