package mcp

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/pipe-go/internal/config"
	"github.com/wagiedev/pipe-go/internal/errors"
)

// session is one open pipe. Its mutex serializes tool calls on the pipe.
type session struct {
	mu   sync.Mutex
	kind string
	pipe config.Pipe
}

// Sessions is a table of open pipes keyed by ULID.
type Sessions struct {
	log   *slog.Logger
	mu    sync.Mutex
	pipes map[string]*session
}

// NewSessions creates an empty session table.
func NewSessions(log *slog.Logger) *Sessions {
	return &Sessions{
		log:   log.With("component", "pipe_sessions"),
		pipes: make(map[string]*session),
	}
}

// Add takes ownership of p and returns its session ID.
func (s *Sessions) Add(kind string, p config.Pipe) string {
	id := ulid.Make().String()

	s.mu.Lock()
	s.pipes[id] = &session{kind: kind, pipe: p}
	s.mu.Unlock()

	s.log.Debug("Session opened", "session", id, "kind", kind)

	return id
}

// Do runs fn with exclusive access to the pipe of session id.
func (s *Sessions) Do(id string, fn func(p config.Pipe) error) error {
	s.mu.Lock()
	sess, ok := s.pipes[id]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrSessionNotFound, id)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return fn(sess.pipe)
}

// Close removes session id and closes its pipe.
func (s *Sessions) Close(id string) error {
	s.mu.Lock()
	sess, ok := s.pipes[id]
	delete(s.pipes, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrSessionNotFound, id)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	s.log.Debug("Session closed", "session", id, "kind", sess.kind)

	return sess.pipe.Close()
}

// IDs returns the IDs of all open sessions in creation order.
func (s *Sessions) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	// ULIDs sort lexicographically by creation time.
	return slices.Sorted(maps.Keys(s.pipes))
}

// CloseAll closes every open session.
func (s *Sessions) CloseAll() error {
	var errs []error

	for _, id := range s.IDs() {
		if err := s.Close(id); err != nil && !stderrors.Is(err, errors.ErrSessionNotFound) {
			errs = append(errs, err)
		}
	}

	return stderrors.Join(errs...)
}
