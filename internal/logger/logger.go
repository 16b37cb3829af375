// Package logger is the process-wide structured logger. Library packages do
// not log; the CLI does.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// DebugEnv enables debug output when set to "true".
const DebugEnv = "ESTIMATOR_DEBUG"

var log *slog.Logger

func init() {
	Configure(os.Stderr, os.Getenv(DebugEnv) == "true")
}

// Configure replaces the logger. It is not safe to call concurrently with
// logging and is meant for process start-up and tests.
func Configure(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	handler := slog.NewTextHandler(w, opts)
	log = slog.New(handler)
}

func Debug(msg string, args ...any) {
	log.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	log.Error(msg, args...)
}
