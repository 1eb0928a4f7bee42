package logging

import (
	"log/slog"
	"os"
)

// New returns the application logger. Text output reads better during
// development; swap the handler for JSON in production.
func New() *slog.Logger {
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(h)
}
