package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

var logLevel = new(slog.LevelVar)

// setLogger routes both slog and the standard logger through one text
// handler. Debug output only shows once debugging is enabled.
func setLogger(w io.Writer, debug bool) {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	// also takes over the standard logger
	slog.SetDefault(logger)

	setDebug(debug)
}

func setDebug(enable bool) {
	if enable {
		logLevel.Set(slog.LevelDebug)
		return
	}
	logLevel.Set(slog.LevelInfo)
}

// Debug will conditionally log a debug message
func Debug(args ...interface{}) {
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(fmt.Sprint(args...))
	}
}

// Debugf will conditionally log a formatted debug message
func Debugf(format string, args ...interface{}) {
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(fmt.Sprintf(format, args...))
	}
}
