// Package stream implements the derived pipe operations.
//
// Every operation here is written purely in terms of the primitive Recv,
// Send, Timeout and SetTimeout methods of config.Pipe, so transports only
// have to supply those. Operations that accept a read timeout swap it in for
// the duration of their loop and restore the previous value on every exit
// path.
package stream
