// Package log is squadcov's console and file logger. Console output stays
// human-oriented (status lines while the toolchain grinds through a test
// run); when a run directory is available the same messages are mirrored,
// timestamped, into squadcov.log inside it.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Level controls console verbosity. File output always gets everything up to
// debug.
type Level int

const (
	ErrorLevel Level = iota
	InfoLevel
	DebugLevel
)

var levelNames = map[Level]string{
	ErrorLevel: "ERROR",
	InfoLevel:  "INFO",
	DebugLevel: "DEBUG",
}

// Logger writes leveled messages to the console and, optionally, a per-run
// log file.
type Logger struct {
	level  Level
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer

	logFile    *os.File
	fileLogger *log.Logger
}

// New creates a logger at the given level. If runDir is non-empty, messages
// are also appended to squadcov.log in that directory.
func New(level Level, runDir string) (*Logger, error) {
	l := &Logger{
		level:  level,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	if runDir != "" {
		path := filepath.Join(runDir, "squadcov.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		l.logFile = f
		l.fileLogger = log.New(f, "", log.LstdFlags)
	}

	return l, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

func (l *Logger) write(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.fileLogger != nil {
		l.fileLogger.Printf("%s: %s", levelNames[level], msg)
	}

	if level > l.level {
		return
	}
	if level == ErrorLevel {
		fmt.Fprintf(l.stderr, "error: %s\n", msg)
	} else {
		fmt.Fprintln(l.stdout, msg)
	}
}

// Error logs to stderr and the log file.
func (l *Logger) Error(format string, args ...any) {
	l.write(ErrorLevel, format, args...)
}

// Info logs a normal status message.
func (l *Logger) Info(format string, args ...any) {
	l.write(InfoLevel, format, args...)
}

// Debug logs detail that only matters when something goes wrong; shown on the
// console only with --debug.
func (l *Logger) Debug(format string, args ...any) {
	l.write(DebugLevel, format, args...)
}

// Step prints a "- doing X..." progress line, matching the tool's historical
// console output while external commands run.
func (l *Logger) Step(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.fileLogger != nil {
		l.fileLogger.Printf("STEP: %s", msg)
	}
	fmt.Fprintf(l.stdout, "- %s\n", msg)
}
