package netconn

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/wagiedev/pipe-go/internal/config"
	"github.com/wagiedev/pipe-go/internal/errors"
)

// minWait is the deadline used for a zero timeout so that bytes already
// queued in the kernel are still returned.
const minWait = time.Millisecond

// TCPSocket implements config.Pipe over a TCP connection.
type TCPSocket struct {
	log     *slog.Logger
	conn    *net.TCPConn
	addr    string
	timeout time.Duration
	closed  bool
}

// Compile-time verification that TCPSocket implements the Pipe interface.
var _ config.Pipe = (*TCPSocket)(nil)

// Dial connects to host:port. The connect phase is bounded by the connect
// timeout, which defaults to the pipe timeout. It returns a ConnectionError
// if the connection cannot be established.
func Dial(ctx context.Context, host string, port int, options *config.Options) (*TCPSocket, error) {
	if options == nil {
		options = &config.Options{}
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	log := options.Log().With("component", "tcp_pipe", "addr", addr)

	dialer := &net.Dialer{Timeout: options.DialTimeout()}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		log.Error("Failed to connect", "error", err)

		return nil, &errors.ConnectionError{Addr: addr, Err: err}
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		_ = conn.Close()

		return nil, &errors.ConnectionError{Addr: addr, Err: fmt.Errorf("unexpected connection type %T", conn)}
	}

	// Disable Nagle's algorithm; interactive sessions send small writes.
	if err := tcpConn.SetNoDelay(true); err != nil {
		_ = tcpConn.Close()

		return nil, &errors.ConnectionError{Addr: addr, Err: fmt.Errorf("set nodelay: %w", err)}
	}

	s := &TCPSocket{
		log:  log,
		conn: tcpConn,
		addr: addr,
	}
	s.SetTimeout(options.IOTimeout())

	log.Info("TCP pipe connected", "local", tcpConn.LocalAddr().String())

	return s, nil
}

// Recv reads up to n bytes. An empty result means the peer closed its side.
func (s *TCPSocket) Recv(n int) ([]byte, error) {
	if s.closed {
		return nil, errors.ErrPipeClosed
	}

	if n <= 0 {
		return nil, &errors.ConfigurationError{Field: "bufsize", Value: n, Reason: "must be positive"}
	}

	if err := s.conn.SetReadDeadline(s.deadline()); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}

	buf := make([]byte, n)

	m, err := s.conn.Read(buf)
	if m > 0 {
		s.log.Debug("Received from peer", "bytes", m)

		return buf[:m], nil
	}

	switch {
	case err == nil, stderrors.Is(err, io.EOF):
		return []byte{}, nil
	case isTimeout(err):
		return nil, fmt.Errorf("%w: %w", errors.ErrTimeout, err)
	default:
		return nil, fmt.Errorf("read: %w", err)
	}
}

// Send writes data and reports how much of it reached the socket. A
// timeout after partial progress is reported as a short write so the
// caller can continue with the remainder.
func (s *TCPSocket) Send(data []byte) (int, error) {
	if s.closed {
		return 0, errors.ErrPipeClosed
	}

	if err := s.conn.SetWriteDeadline(s.deadline()); err != nil {
		return 0, fmt.Errorf("set write deadline: %w", err)
	}

	n, err := s.conn.Write(data)
	if err != nil {
		if n > 0 && isTimeout(err) {
			s.log.Debug("Partial send before timeout", "bytes", n, "requested", len(data))

			return n, nil
		}

		if isTimeout(err) {
			return 0, fmt.Errorf("%w: %w", errors.ErrTimeout, err)
		}

		return n, fmt.Errorf("write: %w", err)
	}

	s.log.Debug("Sent to peer", "bytes", n)

	return n, nil
}

// Close shuts down both directions of the connection and releases it.
// Shutdown failures are ignored. It's safe to call Close multiple times.
func (s *TCPSocket) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	if err := s.conn.CloseWrite(); err != nil {
		s.log.Debug("Shutdown write side", "error", err)
	}

	if err := s.conn.CloseRead(); err != nil {
		s.log.Debug("Shutdown read side", "error", err)
	}

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.addr, err)
	}

	s.log.Info("TCP pipe closed")

	return nil
}

// Timeout returns the active timeout.
func (s *TCPSocket) Timeout() time.Duration {
	return s.timeout
}

// SetTimeout replaces the active timeout and applies it to the socket.
func (s *TCPSocket) SetTimeout(d time.Duration) {
	s.timeout = d

	if s.closed {
		return
	}

	if err := s.conn.SetDeadline(s.deadline()); err != nil {
		s.log.Debug("Failed to apply socket deadline", "error", err)
	}
}

// LocalAddr returns the local network address.
func (s *TCPSocket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// RemoteAddr returns the address of the peer.
func (s *TCPSocket) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

// deadline converts the timeout into an absolute socket deadline.
// A negative timeout clears the deadline.
func (s *TCPSocket) deadline() time.Time {
	if s.timeout < 0 {
		return time.Time{}
	}

	return time.Now().Add(max(s.timeout, minWait))
}

func isTimeout(err error) bool {
	if stderrors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	netErr, ok := stderrors.AsType[net.Error](err)

	return ok && netErr.Timeout()
}
