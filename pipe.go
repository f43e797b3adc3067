package pipe

import (
	"io"

	"github.com/wagiedev/pipe-go/internal/stream"
)

// Match is the result of ReadSearch. Buffer holds every byte received by
// the scan; Group, Span, Start and End index into it.
type Match = stream.Match

// ReadUntil receives from p until the accumulated data matches pattern and
// returns everything received, including any bytes after the match.
//
// It returns ErrEndOfStream if p reaches end-of-stream first and ErrTimeout
// on the first receive that times out. On failure the bytes received so far
// are returned with the error.
func ReadUntil(p Pipe, pattern string, opts ...ReadOption) ([]byte, error) {
	return stream.ReadUntil(p, pattern, opts...)
}

// ReadSearch runs the same scan as ReadUntil and returns the match.
func ReadSearch(p Pipe, pattern string, opts ...ReadOption) (*Match, error) {
	return stream.ReadSearch(p, pattern, opts...)
}

// ReadAll receives from p until end-of-stream or until a receive times out,
// and returns what arrived. Use it to drain whatever is currently available.
func ReadAll(p Pipe, opts ...ReadOption) ([]byte, error) {
	return stream.ReadAll(p, opts...)
}

// SendAll sends all of data or returns the first error.
func SendAll(p Pipe, data []byte) error {
	return stream.SendAll(p, data)
}

// Interact runs a line-oriented session between p and a terminal: each line
// read from in is sent with a trailing newline, and whatever p answers
// within its timeout is printed to out. It returns nil when in is exhausted.
//
//	err := pipe.Interact(p, os.Stdin, os.Stdout)
func Interact(p Pipe, in io.Reader, out io.Writer) error {
	return stream.Interact(p, in, out)
}
