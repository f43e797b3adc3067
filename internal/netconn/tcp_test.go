package netconn

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/pipe-go/internal/config"
	"github.com/wagiedev/pipe-go/internal/errors"
	"github.com/wagiedev/pipe-go/internal/stream"
)

// serve accepts a single connection on a loopback listener and runs handler
// on it. The handler's error fails the test during cleanup.
func serve(t *testing.T, handler func(conn net.Conn) error) (string, int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var g errgroup.Group

	g.Go(func() error {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		defer conn.Close()

		return handler(conn)
	})

	t.Cleanup(func() {
		_ = ln.Close()
		require.NoError(t, g.Wait())
	})

	addr := ln.Addr().(*net.TCPAddr)

	return addr.IP.String(), addr.Port
}

func echo(conn net.Conn) error {
	_, _ = io.Copy(conn, conn)

	return nil
}

func drain(conn net.Conn) error {
	_, _ = io.Copy(io.Discard, conn)

	return nil
}

func dial(t *testing.T, host string, port int, timeout time.Duration) *TCPSocket {
	t.Helper()

	s, err := Dial(context.Background(), host, port, &config.Options{
		Logger:  slog.Default(),
		Timeout: &timeout,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestTCPSocket_EchoRoundTrip(t *testing.T) {
	host, port := serve(t, echo)
	s := dial(t, host, port, 2*time.Second)

	require.NoError(t, stream.SendAll(s, []byte("ping\n")))

	buf, err := stream.ReadUntil(s, `ping\n`)
	require.NoError(t, err)
	require.Equal(t, []byte("ping\n"), buf)
	require.Equal(t, port, s.RemoteAddr().(*net.TCPAddr).Port)
	require.NotNil(t, s.LocalAddr())
}

func TestTCPSocket_RecvTimeout(t *testing.T) {
	host, port := serve(t, drain)
	s := dial(t, host, port, 50*time.Millisecond)

	start := time.Now()
	_, err := s.Recv(16)

	require.ErrorIs(t, err, errors.ErrTimeout)
	require.ErrorIs(t, err, os.ErrDeadlineExceeded)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestTCPSocket_ReadAllAndReadUntilOnSilentPeer(t *testing.T) {
	host, port := serve(t, drain)
	s := dial(t, host, port, time.Second)

	buf, err := stream.ReadAll(s, stream.WithReadTimeout(20*time.Millisecond))
	require.NoError(t, err)
	require.Empty(t, buf)

	_, err = stream.ReadUntil(s, `prompt`, stream.WithReadTimeout(20*time.Millisecond))
	require.ErrorIs(t, err, errors.ErrTimeout)

	require.Equal(t, time.Second, s.Timeout())
}

func TestTCPSocket_EndOfStream(t *testing.T) {
	host, port := serve(t, func(conn net.Conn) error {
		_, err := conn.Write([]byte("bye"))

		return err
	})
	s := dial(t, host, port, 2*time.Second)

	buf, err := stream.ReadAll(s)
	require.NoError(t, err)
	require.Equal(t, []byte("bye"), buf)

	_, err = stream.ReadUntil(s, `more`)
	require.ErrorIs(t, err, errors.ErrEndOfStream)
}

func TestTCPSocket_NoTimeoutBlocksUntilData(t *testing.T) {
	host, port := serve(t, func(conn net.Conn) error {
		time.Sleep(100 * time.Millisecond)

		_, err := conn.Write([]byte("late"))

		return err
	})
	s := dial(t, host, port, time.Second)
	s.SetTimeout(config.NoTimeout)

	buf, err := s.Recv(16)
	require.NoError(t, err)
	require.Equal(t, []byte("late"), buf)
}

func TestTCPSocket_ZeroTimeoutReturnsBufferedData(t *testing.T) {
	host, port := serve(t, func(conn net.Conn) error {
		if _, err := conn.Write([]byte("ready")); err != nil {
			return err
		}

		return drain(conn)
	})
	s := dial(t, host, port, 0)

	var got []byte

	require.Eventually(t, func() bool {
		chunk, err := s.Recv(16)
		got = append(got, chunk...)

		return err == nil && string(got) == "ready"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTCPSocket_CloseIsOrderly(t *testing.T) {
	peerEOF := make(chan struct{})

	host, port := serve(t, func(conn net.Conn) error {
		n, err := conn.Read(make([]byte, 1))
		if n == 0 && stderrors.Is(err, io.EOF) {
			close(peerEOF)
		}

		return nil
	})
	s := dial(t, host, port, time.Second)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close must be idempotent")

	select {
	case <-peerEOF:
	case <-time.After(2 * time.Second):
		t.Fatal("peer did not observe an orderly shutdown")
	}

	_, err := s.Recv(16)
	require.ErrorIs(t, err, errors.ErrPipeClosed)

	_, err = s.Send([]byte("x"))
	require.ErrorIs(t, err, errors.ErrPipeClosed)

	s.SetTimeout(time.Second)
	require.Equal(t, time.Second, s.Timeout())
}

func TestTCPSocket_InvalidRecvSize(t *testing.T) {
	host, port := serve(t, drain)
	s := dial(t, host, port, time.Second)

	_, err := s.Recv(-1)

	_, ok := stderrors.AsType[*errors.ConfigurationError](err)
	require.True(t, ok)
}

func TestDial_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s, err := Dial(context.Background(), "127.0.0.1", port, nil)

	require.Nil(t, s)

	connErr, ok := stderrors.AsType[*errors.ConnectionError](err)
	require.True(t, ok, "expected ConnectionError, got %T", err)
	require.Equal(t, net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), connErr.Addr)
}

func TestDial_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := Dial(ctx, "127.0.0.1", 9, nil)

	require.Nil(t, s)

	_, ok := stderrors.AsType[*errors.ConnectionError](err)
	require.True(t, ok, "expected ConnectionError, got %T", err)
}

func TestDeadline(t *testing.T) {
	s := &TCPSocket{timeout: config.NoTimeout}
	require.True(t, s.deadline().IsZero())

	s.timeout = 0
	require.WithinDuration(t, time.Now().Add(minWait), s.deadline(), 50*time.Millisecond)

	s.timeout = time.Minute
	require.WithinDuration(t, time.Now().Add(time.Minute), s.deadline(), time.Second)
}
