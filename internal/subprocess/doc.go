// Package subprocess provides the process-backed pipe transport.
//
// A Process spawns a child with its standard input and output connected to
// fresh OS pipes (standard error is merged into standard output) and
// exposes them through the config.Pipe contract. Timeouts are enforced by
// readiness polling on the parent ends of the pipes followed by
// non-blocking reads and writes.
package subprocess
