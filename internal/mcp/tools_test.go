//go:build unix

package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	mcpgo "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/pipe-go/internal/config"
)

func newPipeToolServer(t *testing.T) *ToolServer {
	t.Helper()

	timeout := 2 * time.Second
	server := NewToolServer("pipe-go", "test")
	RegisterPipeTools(server, &config.Options{Logger: slog.Default(), Timeout: &timeout})

	t.Cleanup(func() { _ = server.Close() })

	return server
}

func decodeResult(t *testing.T, result *mcpgo.CallToolResult) map[string]any {
	t.Helper()

	require.False(t, result.IsError, textOf(t, result))

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &out))

	return out
}

func TestPipeTools_Registered(t *testing.T) {
	server := newPipeToolServer(t)

	names := make([]string, 0, 6)
	for _, tool := range server.ListTools() {
		names = append(names, tool.Name)
	}

	require.Equal(t, []string{
		ToolClose, ToolConnect, ToolReadAll, ToolReadUntil, ToolSend, ToolSpawn,
	}, names)
}

func TestPipeTools_ProcessSession(t *testing.T) {
	server := newPipeToolServer(t)
	ctx := context.Background()

	spawned := decodeResult(t, server.CallTool(ctx, ToolSpawn, map[string]any{"argv": []string{"cat"}}))
	id, ok := spawned["session"].(string)
	require.True(t, ok)
	require.Positive(t, spawned["pid"])

	sent := decodeResult(t, server.CallTool(ctx, ToolSend, map[string]any{"session": id, "data": "hello\nworld\n"}))
	require.Equal(t, float64(12), sent["sent"])

	read := server.CallTool(ctx, ToolReadUntil, map[string]any{"session": id, "pattern": `world\n`})
	require.False(t, read.IsError)
	require.Equal(t, "hello\nworld\n", textOf(t, read))

	timedOut := server.CallTool(ctx, ToolReadUntil, map[string]any{
		"session": id, "pattern": "never", "timeout_ms": 20,
	})
	require.True(t, timedOut.IsError)
	require.Contains(t, textOf(t, timedOut), "timeout")

	drained := server.CallTool(ctx, ToolReadAll, map[string]any{"session": id, "timeout_ms": 20})
	require.False(t, drained.IsError)
	require.Empty(t, textOf(t, drained))

	closed := decodeResult(t, server.CallTool(ctx, ToolClose, map[string]any{"session": id}))
	require.Equal(t, id, closed["closed"])

	again := server.CallTool(ctx, ToolSend, map[string]any{"session": id, "data": "x"})
	require.True(t, again.IsError)
	require.Contains(t, textOf(t, again), "session not found")
}

func TestPipeTools_SpawnFailure(t *testing.T) {
	server := newPipeToolServer(t)

	result := server.CallTool(context.Background(), ToolSpawn, map[string]any{"argv": []string{}})

	require.True(t, result.IsError)
	require.Contains(t, textOf(t, result), "spawn process")
}

func TestPipeTools_ReadAllUntilEOFWithEnv(t *testing.T) {
	server := newPipeToolServer(t)
	ctx := context.Background()

	spawned := decodeResult(t, server.CallTool(ctx, ToolSpawn, map[string]any{
		"argv": []string{"sh", "-c", `printf "$GREETING"`},
		"env":  map[string]string{"GREETING": "hi"},
	}))

	read := server.CallTool(ctx, ToolReadAll, map[string]any{"session": spawned["session"]})
	require.False(t, read.IsError)
	require.Equal(t, "hi", textOf(t, read))
}

func TestPipeTools_TCPSession(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var g errgroup.Group

	g.Go(func() error {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		defer conn.Close()

		if _, err := conn.Write([]byte("220 ready\r\n")); err != nil {
			return err
		}

		_, _ = io.Copy(conn, conn)

		return nil
	})

	t.Cleanup(func() {
		_ = ln.Close()
		require.NoError(t, g.Wait())
	})

	server := newPipeToolServer(t)
	ctx := context.Background()
	port := ln.Addr().(*net.TCPAddr).Port

	connected := decodeResult(t, server.CallTool(ctx, ToolConnect, map[string]any{"host": "127.0.0.1", "port": port}))
	id := connected["session"]

	banner := server.CallTool(ctx, ToolReadUntil, map[string]any{"session": id, "pattern": `^220 .*\r\n`})
	require.Equal(t, "220 ready\r\n", textOf(t, banner))

	decodeResult(t, server.CallTool(ctx, ToolSend, map[string]any{"session": id, "data": "QUIT\r\n"}))

	echoed := server.CallTool(ctx, ToolReadUntil, map[string]any{"session": id, "pattern": `QUIT\r\n`})
	require.Equal(t, "QUIT\r\n", textOf(t, echoed))

	decodeResult(t, server.CallTool(ctx, ToolClose, map[string]any{"session": id}))
}

func TestPipeTools_ServedOverSDKTransport(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	server := newPipeToolServer(t)
	serverTransport, clientTransport := mcpgo.NewInMemoryTransports()

	serverSession, err := server.Server().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	defer serverSession.Close()

	client := mcpgo.NewClient(&mcpgo.Implementation{Name: "pipe-go-test", Version: "test"}, nil)

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	defer clientSession.Close()

	tools, err := clientSession.ListTools(ctx, &mcpgo.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, tools.Tools, 6)

	spawned, err := clientSession.CallTool(ctx, &mcpgo.CallToolParams{
		Name:      ToolSpawn,
		Arguments: map[string]any{"argv": []string{"sh", "-c", "echo ready; cat"}},
	})
	require.NoError(t, err)

	out := decodeResult(t, spawned)

	read, err := clientSession.CallTool(ctx, &mcpgo.CallToolParams{
		Name:      ToolReadUntil,
		Arguments: map[string]any{"session": out["session"], "pattern": `ready\n`},
	})
	require.NoError(t, err)
	require.Equal(t, "ready\n", textOf(t, read))
}
