package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/pipe-go/internal/config"
	"github.com/wagiedev/pipe-go/internal/netconn"
	"github.com/wagiedev/pipe-go/internal/stream"
	"github.com/wagiedev/pipe-go/internal/subprocess"
)

// Tool names registered by RegisterPipeTools.
const (
	ToolSpawn     = "pipe_spawn"
	ToolConnect   = "pipe_connect"
	ToolSend      = "pipe_send"
	ToolReadUntil = "pipe_read_until"
	ToolReadAll   = "pipe_read_all"
	ToolClose     = "pipe_close"
)

type spawnInput struct {
	Argv      []string          `json:"argv"`
	Env       map[string]string `json:"env,omitempty"`
	TimeoutMs *int64            `json:"timeout_ms,omitempty"`
}

type connectInput struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	TimeoutMs *int64 `json:"timeout_ms,omitempty"`
}

type sendInput struct {
	Session string `json:"session"`
	Data    string `json:"data"`
}

type readInput struct {
	Session   string `json:"session"`
	Pattern   string `json:"pattern,omitempty"`
	TimeoutMs *int64 `json:"timeout_ms,omitempty"`
}

type closeInput struct {
	Session string `json:"session"`
}

// pipeTools builds the handlers around a session table. Base options such as
// the logger and default timeout apply to every pipe the tools open.
type pipeTools struct {
	sessions *Sessions
	base     config.Options
}

// RegisterPipeTools registers the pipe session tools on server. Pipes are
// opened with options as defaults; the timeout_ms argument overrides the
// timeout per call.
func RegisterPipeTools(server *ToolServer, options *config.Options) {
	if options == nil {
		options = &config.Options{}
	}

	pt := &pipeTools{
		sessions: NewSessions(options.Log()),
		base:     *options,
	}
	server.sessions = pt.sessions

	timeoutMs := &jsonschema.Schema{
		Type:        "integer",
		Description: "Timeout in milliseconds; negative blocks indefinitely.",
	}
	sessionID := &jsonschema.Schema{Type: "string", Description: "Session ID returned by pipe_spawn or pipe_connect."}

	server.AddTool(NewTool(ToolSpawn, "Spawn a process and open a pipe to its stdin and merged stdout/stderr.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"argv": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"env": {
					Type:                 "object",
					AdditionalProperties: &jsonschema.Schema{Type: "string"},
				},
				"timeout_ms": timeoutMs,
			},
			Required: []string{"argv"},
		}), pt.spawn)

	server.AddTool(NewTool(ToolConnect, "Open a TCP connection as a pipe.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"host":       {Type: "string"},
				"port":       {Type: "integer"},
				"timeout_ms": timeoutMs,
			},
			Required: []string{"host", "port"},
		}), pt.connect)

	server.AddTool(NewTool(ToolSend, "Send data to a pipe in full.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"session": sessionID,
				"data":    {Type: "string"},
			},
			Required: []string{"session", "data"},
		}), pt.send)

	server.AddTool(NewTool(ToolReadUntil,
		"Read from a pipe until the accumulated output matches a regular expression. "+
			"Returns everything read, including output after the match.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"session":    sessionID,
				"pattern":    {Type: "string", Description: "RE2 pattern; ^ and $ match at line breaks and . matches newlines."},
				"timeout_ms": timeoutMs,
			},
			Required: []string{"session", "pattern"},
		}), pt.readUntil)

	server.AddTool(NewTool(ToolReadAll, "Read from a pipe until it closes or stays silent for the timeout.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"session":    sessionID,
				"timeout_ms": timeoutMs,
			},
			Required: []string{"session"},
		}), pt.readAll)

	server.AddTool(NewTool(ToolClose, "Close a pipe and release its process or connection.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"session": sessionID,
			},
			Required: []string{"session"},
		}), pt.close)
}

func (pt *pipeTools) options(timeoutMs *int64) *config.Options {
	options := pt.base
	if timeoutMs != nil {
		d := time.Duration(*timeoutMs) * time.Millisecond
		options.Timeout = &d
	}

	return &options
}

func (pt *pipeTools) spawn(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in spawnInput
	if err := DecodeArguments(req, &in); err != nil {
		return ErrorResult(err.Error()), nil
	}

	options := pt.options(in.TimeoutMs)
	if in.Env != nil {
		options.Env = in.Env
	}

	p, err := subprocess.New(in.Argv, options)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	id := pt.sessions.Add("process", p)

	return jsonResult(map[string]any{"session": id, "pid": p.Pid()})
}

func (pt *pipeTools) connect(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in connectInput
	if err := DecodeArguments(req, &in); err != nil {
		return ErrorResult(err.Error()), nil
	}

	s, err := netconn.Dial(ctx, in.Host, in.Port, pt.options(in.TimeoutMs))
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	id := pt.sessions.Add("tcp", s)

	return jsonResult(map[string]any{"session": id, "remote": s.RemoteAddr().String()})
}

func (pt *pipeTools) send(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in sendInput
	if err := DecodeArguments(req, &in); err != nil {
		return ErrorResult(err.Error()), nil
	}

	err := pt.sessions.Do(in.Session, func(p config.Pipe) error {
		return stream.SendAll(p, []byte(in.Data))
	})
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	return jsonResult(map[string]any{"sent": len(in.Data)})
}

func (pt *pipeTools) readUntil(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in readInput
	if err := DecodeArguments(req, &in); err != nil {
		return ErrorResult(err.Error()), nil
	}

	var buf []byte

	err := pt.sessions.Do(in.Session, func(p config.Pipe) error {
		var err error

		buf, err = stream.ReadUntil(p, in.Pattern, readOptions(in.TimeoutMs)...)

		return err
	})
	if err != nil {
		return ErrorResult(fmt.Sprintf("%v (received %q)", err, buf)), nil
	}

	return TextResult(printable(buf)), nil
}

func (pt *pipeTools) readAll(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in readInput
	if err := DecodeArguments(req, &in); err != nil {
		return ErrorResult(err.Error()), nil
	}

	var buf []byte

	err := pt.sessions.Do(in.Session, func(p config.Pipe) error {
		var err error

		buf, err = stream.ReadAll(p, readOptions(in.TimeoutMs)...)

		return err
	})
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	return TextResult(printable(buf)), nil
}

func (pt *pipeTools) close(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in closeInput
	if err := DecodeArguments(req, &in); err != nil {
		return ErrorResult(err.Error()), nil
	}

	if err := pt.sessions.Close(in.Session); err != nil {
		return ErrorResult(err.Error()), nil
	}

	return jsonResult(map[string]any{"closed": in.Session})
}

func readOptions(timeoutMs *int64) []stream.ReadOption {
	if timeoutMs == nil {
		return nil
	}

	return []stream.ReadOption{stream.WithReadTimeout(time.Duration(*timeoutMs) * time.Millisecond)}
}

// printable renders pipe output as text, replacing invalid UTF-8.
func printable(buf []byte) string {
	return strings.ToValidUTF8(string(buf), "�")
}

func jsonResult(v map[string]any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	return TextResult(string(data)), nil
}
