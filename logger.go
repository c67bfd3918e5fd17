package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// NewLogger returns a structured JSON slog.Logger with the given level. Every
// record carries the id of this editing session so logs of concurrent
// annotators can be told apart.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("session", uuid.NewString())
}
