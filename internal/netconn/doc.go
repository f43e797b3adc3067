// Package netconn provides the TCP-backed pipe transport.
//
// Timeouts are enforced with the socket's own deadline mechanism rather
// than readiness polling: every receive and send refreshes the connection
// deadline from the pipe timeout, and deadline expiry is reported as
// ErrTimeout.
package netconn
