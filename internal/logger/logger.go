// Package logger provides the verbose log used across imgsearch.
// Messages are written to stderr only when verbose mode is enabled with
// --verbose, so the TUI and machine-readable output stay clean.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level tags a message.
type Level int

// Message levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

// String returns the tag printed in front of messages.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "LOG"
	}
}

var (
	mu       sync.Mutex
	verbose  bool
	minLevel           = LevelDebug
	output   io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetLevel drops messages below l. The default prints everything.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

// SetOutput sets the writer for log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug logs pipeline detail such as requests and cache hits.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info logs a notable event such as a configuration reload.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn logs a recoverable failure.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Section prints a header grouping the lines that follow.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func logf(l Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose || l < minLevel {
		return
	}
	fmt.Fprintf(output, "["+l.String()+"] "+format+"\n", args...)
}
