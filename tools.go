package pipe

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	internalmcp "github.com/wagiedev/pipe-go/internal/mcp"
)

// Version is reported by the tool server.
const Version = "0.1.0"

// ToolServer exposes pipe sessions as Model Context Protocol tools.
//
// Call tools directly with CallTool, or serve them over an MCP transport:
//
//	tools := pipe.NewToolServer(pipe.WithTimeout(time.Second))
//	defer tools.Close()
//
//	if err := tools.Server().Run(ctx, &mcp.StdioTransport{}); err != nil {
//	    log.Fatal(err)
//	}
type ToolServer = internalmcp.ToolServer

// Re-export MCP SDK types used by the tool server.
type (
	// CallToolResult is the server's response to a tool call.
	CallToolResult = mcp.CallToolResult

	// McpTool represents an MCP tool definition from the official SDK.
	McpTool = mcp.Tool
)

// Tool names served by NewToolServer.
const (
	ToolSpawn     = internalmcp.ToolSpawn
	ToolConnect   = internalmcp.ToolConnect
	ToolSend      = internalmcp.ToolSend
	ToolReadUntil = internalmcp.ToolReadUntil
	ToolReadAll   = internalmcp.ToolReadAll
	ToolClose     = internalmcp.ToolClose
)

// NewToolServer creates a tool server with the pipe session tools
// registered. The options are the defaults for every pipe the tools open.
// Close the server to close all sessions that are still open.
func NewToolServer(opts ...Option) *ToolServer {
	server := internalmcp.NewToolServer("pipe-go", Version)
	internalmcp.RegisterPipeTools(server, applyOptions(opts))

	return server
}
