// Package logger provides leveled logging with key/value context, console
// output, and size-based file rotation.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
)

var levelNames = map[Level]string{
	ERROR: "ERROR",
	WARN:  "WARN",
	INFO:  "INFO",
	DEBUG: "DEBUG",
}

// LevelFromString parses a level name, defaulting to INFO.
func LevelFromString(s string) Level {
	switch s {
	case "ERROR":
		return ERROR
	case "WARN":
		return WARN
	case "DEBUG":
		return DEBUG
	default:
		return INFO
	}
}

// Logger writes leveled messages to the console and, when a directory is
// configured, to a rotated log file.
type Logger struct {
	mu        sync.Mutex
	level     Level
	dir       string
	file      *os.File
	filePath  string
	console   bool
	maxSizeMB int
}

// New returns a Logger at the given level. dir may be empty to disable
// file output.
func New(level Level, dir string) *Logger {
	return &Logger{
		level:     level,
		dir:       dir,
		console:   true,
		maxSizeMB: 20,
	}
}

// SetConsoleOutput enables or disables console output.
func (l *Logger) SetConsoleOutput(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = enabled
}

// SetLevel changes the current level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Error logs at ERROR level. Context arguments are key/value pairs.
func (l *Logger) Error(msg string, context ...interface{}) { l.log(ERROR, msg, context...) }

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, context ...interface{}) { l.log(WARN, msg, context...) }

// Info logs at INFO level.
func (l *Logger) Info(msg string, context ...interface{}) { l.log(INFO, msg, context...) }

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, context ...interface{}) { l.log(DEBUG, msg, context...) }

func (l *Logger) log(level Level, msg string, context ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level {
		return
	}

	line := fmt.Sprintf("%s [%s] %s",
		time.Now().Format("2006-01-02T15:04:05-07:00"), levelNames[level], msg)
	for i := 0; i+1 < len(context); i += 2 {
		line += fmt.Sprintf(" %v=%v", context[i], context[i+1])
	}

	if l.console {
		fmt.Println(line)
	}
	l.writeToFile(line)
}

func (l *Logger) writeToFile(line string) {
	if l.dir == "" {
		return
	}
	if l.file == nil {
		if err := os.MkdirAll(l.dir, 0o755); err != nil {
			return
		}
		path := filepath.Join(l.dir, "printprobe.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return
		}
		l.file = f
		l.filePath = path
	}

	l.file.WriteString(line + "\n")

	if l.shouldRotate() {
		l.rotate()
	}
}

func (l *Logger) shouldRotate() bool {
	if l.maxSizeMB <= 0 || l.file == nil {
		return false
	}
	stat, err := l.file.Stat()
	if err != nil {
		return false
	}
	return stat.Size() >= int64(l.maxSizeMB)*1024*1024
}

func (l *Logger) rotate() {
	l.file.Close()
	l.file = nil
	if l.filePath != "" {
		backup := filepath.Join(l.dir,
			fmt.Sprintf("printprobe_%s.log", time.Now().Format("20060102_150405")))
		os.Rename(l.filePath, backup)
	}
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}
