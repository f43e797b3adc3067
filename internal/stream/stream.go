package stream

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/wagiedev/pipe-go/internal/config"
	"github.com/wagiedev/pipe-go/internal/errors"
)

// Prompt is written before each line read by Interact.
const Prompt = "> "

// Compile compiles pattern with multi-line and dot-matches-newline flags,
// the semantics every pattern scan uses.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?ms)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}

	return re, nil
}

// ReadUntil receives from p until the accumulated data matches pattern and
// returns everything received, including bytes past the match.
//
// It fails with ErrEndOfStream if the pipe reaches EOF first and with the
// pipe's timeout error on the first Recv that times out. On failure the
// bytes received so far are returned alongside the error.
func ReadUntil(p config.Pipe, pattern string, opts ...ReadOption) ([]byte, error) {
	re, err := Compile(pattern)
	if err != nil {
		return nil, err
	}

	buf, _, err := readRegexp(p, re, applyReadOptions(opts))

	return buf, err
}

// ReadSearch runs the same scan as ReadUntil but returns the match.
func ReadSearch(p config.Pipe, pattern string, opts ...ReadOption) (*Match, error) {
	re, err := Compile(pattern)
	if err != nil {
		return nil, err
	}

	buf, loc, err := readRegexp(p, re, applyReadOptions(opts))
	if err != nil {
		return nil, err
	}

	return &Match{Buffer: buf, re: re, index: loc}, nil
}

func readRegexp(p config.Pipe, re *regexp.Regexp, opts *readOptions) ([]byte, []int, error) {
	var (
		buf []byte
		loc []int
	)

	err := scoped(p, opts, func() error {
		for {
			chunk, err := p.Recv(opts.bufSize)
			if err != nil {
				return err
			}

			if len(chunk) == 0 {
				return errors.ErrEndOfStream
			}

			buf = append(buf, chunk...)

			if loc = re.FindSubmatchIndex(buf); loc != nil {
				return nil
			}
		}
	})

	return buf, loc, err
}

// ReadAll receives from p until end-of-stream or until a Recv times out.
// Both conditions end the read normally. Any other error is returned with
// the bytes received before it.
func ReadAll(p config.Pipe, opts ...ReadOption) ([]byte, error) {
	options := applyReadOptions(opts)

	var buf []byte

	err := scoped(p, options, func() error {
		for {
			chunk, err := p.Recv(options.bufSize)
			if stderrors.Is(err, errors.ErrTimeout) {
				return nil
			}

			if err != nil {
				return err
			}

			if len(chunk) == 0 {
				return nil
			}

			buf = append(buf, chunk...)
		}
	})

	return buf, err
}

// SendAll sends data in full, calling Send on the unsent remainder until
// nothing is left. The first failing Send aborts the operation.
func SendAll(p config.Pipe, data []byte) error {
	for sent := 0; sent < len(data); {
		n, err := p.Send(data[sent:])
		if err != nil {
			return err
		}

		if n <= 0 {
			return fmt.Errorf("sent %d of %d bytes: %w", sent, len(data), errors.ErrShortWrite)
		}

		sent += n
	}

	return nil
}

// Interact runs a line-oriented loop: it prompts on out, reads a line from
// in, sends it to p with a trailing newline, then drains p with ReadAll and
// prints the reply as UTF-8. It returns nil when in is exhausted and the
// first error from the pipe or the terminal otherwise.
func Interact(p config.Pipe, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		if _, err := io.WriteString(out, Prompt); err != nil {
			return fmt.Errorf("write prompt: %w", err)
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			return nil
		}

		line := make([]byte, 0, len(scanner.Bytes())+1)
		line = append(line, scanner.Bytes()...)
		line = append(line, '\n')

		if err := SendAll(p, line); err != nil {
			return fmt.Errorf("send line: %w", err)
		}

		reply, err := ReadAll(p)
		if err != nil {
			return fmt.Errorf("read reply: %w", err)
		}

		if _, err := fmt.Fprintln(out, strings.ToValidUTF8(string(reply), "�")); err != nil {
			return fmt.Errorf("write reply: %w", err)
		}
	}
}
