// Package logger keeps two transcripts of a run: a short console one and an
// append-only log file with every level, timestamps and row-level detail.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns the string representation of the log level
func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// INFO stays unprefixed so the console reads like a transcript
var consolePrefix = map[Level]string{
	LevelDebug: "[DEBUG] ",
	LevelWarn:  "⚠️  ",
	LevelError: "❌ ",
}

// Logger writes to the console and a log file
type Logger struct {
	console *log.Logger
	file    *log.Logger
	logFile *os.File
	verbose bool
}

// HTTP mode logs from many request goroutines
var (
	mu     sync.RWMutex
	global *Logger
)

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// install swaps the global logger and closes the file of the one it replaces
func install(l *Logger) {
	mu.Lock()
	old := global
	global = l
	mu.Unlock()

	if old != nil && old.logFile != nil {
		old.logFile.Close()
	}
}

// Init opens (or appends to) the log file at logFilePath and installs the
// global logger. With verbose set, DEBUG lines also reach the console.
func Init(console io.Writer, logFilePath string, verbose bool) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		console: log.New(console, "", 0),
		file:    log.New(logFile, "", log.LstdFlags),
		logFile: logFile,
		verbose: verbose,
	}
	// Separates runs in the appended file
	l.file.Printf("==== run started (pid %d) ====", os.Getpid())

	install(l)
	return nil
}

// Discard installs a logger that drops everything, for tests and embedding
func Discard() {
	install(&Logger{
		console: log.New(io.Discard, "", 0),
		file:    log.New(io.Discard, "", 0),
	})
}

// Close closes the log file and uninstalls the global logger
func Close() {
	install(nil)
}

// Debug logs to the file, and to the console when verbose
func Debug(format string, args ...interface{}) {
	write(LevelDebug, format, args...)
}

// Info logs to the console and the file
func Info(format string, args ...interface{}) {
	write(LevelInfo, format, args...)
}

// Warn logs to the console and the file
func Warn(format string, args ...interface{}) {
	write(LevelWarn, format, args...)
}

// Error logs to the console and the file
func Error(format string, args ...interface{}) {
	write(LevelError, format, args...)
}

func write(level Level, format string, args ...interface{}) {
	l := current()
	if l == nil {
		// Before Init only the console exists
		if level != LevelDebug {
			fmt.Printf(consolePrefix[level]+format+"\n", args...)
		}
		return
	}

	msg := fmt.Sprintf(format, args...)
	l.file.Printf("[%s] %s", level, msg)

	if level == LevelDebug && !l.verbose {
		return
	}
	l.console.Printf("%s%s", consolePrefix[level], msg)
}

// LogRowWarning records a recovered row-level anomaly. The file gets the
// row, column and raw cell value; the console only a DEBUG line.
func LogRowWarning(row, column int, raw, detail string) {
	l := current()
	if l == nil {
		return
	}

	l.file.Printf("[ROW_WARNING] Row: %d, Column: %d, Value: %q, Detail: %s", row, column, raw, detail)
	Debug("Row %d: %s (value %q)", row, detail, raw)
}

// GetLogFilePath returns the path of the open log file, or ""
func GetLogFilePath() string {
	if l := current(); l != nil && l.logFile != nil {
		return l.logFile.Name()
	}
	return ""
}
