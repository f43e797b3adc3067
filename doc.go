// Package pipe provides one interface for scripting byte-stream sessions
// with spawned processes and TCP peers.
//
// A Pipe offers three primitives (Recv, Send and Close) plus a timeout.
// The derived operations in this package (ReadUntil, ReadSearch, ReadAll,
// SendAll and Interact) are written once against those primitives and work
// with every transport.
//
// # Basic Usage
//
// Spawn a process and talk to it:
//
//	p, err := pipe.NewProcess([]string{"sh"}, pipe.WithTimeout(time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	if err := pipe.SendAll(p, []byte("echo hello\n")); err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := pipe.ReadUntil(p, `hello\n`)
//
// Or connect to a TCP service:
//
//	s, err := pipe.DialTCP(ctx, "localhost", 25, pipe.WithTimeout(2*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	banner, err := pipe.ReadUntil(s, `^220 .*\r\n`)
//
// # Timeouts
//
// Every pipe has an ambient timeout (100ms by default) that bounds each
// Recv and Send. Zero means "do not wait" and NoTimeout blocks
// indefinitely. The read operations accept WithReadTimeout to use a
// different value for one call; the previous timeout is restored when the
// call returns, whether it succeeds or fails.
//
// ReadUntil and ReadSearch stop at the first timeout and return ErrTimeout.
// ReadAll treats a timeout as the normal end of the available data.
//
// # Patterns
//
// Patterns use RE2 syntax with multi-line and dot-matches-newline flags
// enabled, so ^ and $ match at line boundaries and . matches newlines.
// ReadUntil returns everything it received, including bytes after the
// match; slice the result if you only need the part before it.
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	p, err := pipe.NewProcess(argv, pipe.WithLogger(logger))
//
// # Error Handling
//
// Construction failures are typed:
//
//	p, err := pipe.NewProcess(argv)
//	if spawnErr, ok := errors.AsType[*pipe.ProcessSpawnError](err); ok {
//	    log.Fatalf("cannot start %v: %v", spawnErr.Argv, spawnErr.Err)
//	}
//
// Conditions on a live pipe are sentinels checked with errors.Is:
// ErrTimeout, ErrEndOfStream and ErrPipeClosed.
package pipe
