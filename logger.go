package main

import (
	"io"
	"log/slog"
	"os"
)

// logger is the package-wide structured logger. Safe to use before initLogger
// is called; defaults to slog.Default().
var logger = slog.Default()

// initLogger configures the shared logger on stderr and makes it the slog
// default. Call it once from main before any goroutines start.
func initLogger(debug bool) {
	setLogOutput(os.Stderr, debug)
}

func setLogOutput(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}
