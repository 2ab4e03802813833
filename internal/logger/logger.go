// Package logger provides leveled logging for sigma-relay.
// Components receive a Logger at construction rather than sharing
// process-wide state, so tests and the UI layer can substitute their own.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is the logging interface injected into every component.
type Logger interface {
	// Debugf logs developer-level detail. Suppressed unless verbose.
	Debugf(format string, args ...any)
	// Infof logs routine progress messages.
	Infof(format string, args ...any)
	// Warnf logs recoverable problems.
	Warnf(format string, args ...any)
	// Errorf logs failures that abort an operation.
	Errorf(format string, args ...any)
}

// writerLogger writes timestamped [LEVEL] lines to a single writer.
type writerLogger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

// New creates a Logger writing to w. Debug messages are emitted only
// when verbose is true.
func New(w io.Writer, verbose bool) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &writerLogger{out: w, verbose: verbose}
}

func (l *writerLogger) write(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, args...))
}

func (l *writerLogger) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.write("DEBUG", format, args...)
}

func (l *writerLogger) Infof(format string, args ...any) {
	l.write("INFO", format, args...)
}

func (l *writerLogger) Warnf(format string, args ...any) {
	l.write("WARN", format, args...)
}

func (l *writerLogger) Errorf(format string, args ...any) {
	l.write("ERROR", format, args...)
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Nop returns a Logger that discards all output. Useful as a default
// and in tests that do not assert on log lines.
func Nop() Logger {
	return nopLogger{}
}
