// Package mcp exposes pipe sessions as Model Context Protocol tools.
//
// A ToolServer keeps a registry of tools and can either be called directly
// or turned into an official SDK server for transport-based use (stdio,
// in-memory). The pipe tools open process and TCP pipes, keep them in a
// session table keyed by ULID, and run the derived pipe operations on them.
//
// Every session exclusively owns its pipe and calls on one session are
// serialized; tool failures are reported as error results rather than Go
// errors.
package mcp
