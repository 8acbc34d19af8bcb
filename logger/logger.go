package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

const defaultHistory = 200

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Anything
// else is treated as info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type LogEntry struct {
	ID        int       `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Logger writes leveled lines to an io.Writer and keeps the most recent
// entries in memory so the UI and tests can inspect them.
type Logger struct {
	mu      sync.Mutex
	out     *log.Logger
	min     Level
	limit   int
	nextID  int
	entries []LogEntry
}

func New(w io.Writer, min Level) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		out:   log.New(w, "", log.LstdFlags),
		min:   min,
		limit: defaultHistory,
	}
}

// Default logs info and above to stdout.
func Default() *Logger {
	return New(os.Stdout, LevelInfo)
}

// Discard keeps history but writes nothing.
func Discard() *Logger {
	return New(io.Discard, LevelDebug)
}

func (l *Logger) logMessage(level Level, message, details string) {
	if l == nil || level < l.min {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if details != "" {
		l.out.Printf("[%s] %s %s", level, message, details)
	} else {
		l.out.Printf("[%s] %s", level, message)
	}

	l.nextID++
	l.entries = append(l.entries, LogEntry{
		ID:        l.nextID,
		Level:     level.String(),
		Message:   message,
		Details:   details,
		CreatedAt: time.Now(),
	})
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.logMessage(LevelInfo, fmt.Sprintf(message, args...), "")
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.logMessage(LevelWarn, fmt.Sprintf(message, args...), "")
}

func (l *Logger) Error(message string, args ...interface{}) {
	l.logMessage(LevelError, fmt.Sprintf(message, args...), "")
}

func (l *Logger) Debug(message string, args ...interface{}) {
	l.logMessage(LevelDebug, fmt.Sprintf(message, args...), "")
}

// WarnErr logs message at warn level with err as the details column.
func (l *Logger) WarnErr(err error, message string, args ...interface{}) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	l.logMessage(LevelWarn, fmt.Sprintf(message, args...), details)
}

// GetLogs returns up to limit entries, newest first.
func (l *Logger) GetLogs(limit int) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > len(l.entries) {
		limit = len(l.entries)
	}
	logs := make([]LogEntry, 0, limit)
	for i := len(l.entries) - 1; i >= 0 && len(logs) < limit; i-- {
		logs = append(logs, l.entries[i])
	}
	return logs
}

// Count returns how many retained entries have the given level.
func (l *Logger) Count(level Level) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range l.entries {
		if e.Level == level.String() {
			n++
		}
	}
	return n
}
