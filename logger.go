package pipe

import (
	"log/slog"
)

// NopLogger returns a logger that discards all output.
// Pipes use it when no logger is configured.
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
