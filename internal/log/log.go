// Package log is xpm's structured debug log.
//
// Entries are single lines of the form
//
//	2006-01-02T15:04:05 [LEVEL] [category] message key=value ...
//
// written to a file (the TUI uses tea.LogToFile) and fanned out on a pubsub
// broker so the editor can surface the latest entry. Logging is off until
// Init or InitWithTeaLog runs, which cmd does for --debug or XPM_DEBUG.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SoloveyLS/xml-prompt-manager/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel maps a config value such as "warn" to a Level.
func ParseLevel(s string) (Level, error) {
	for level, name := range levelNames {
		if strings.EqualFold(s, name) {
			return level, nil
		}
	}
	return LevelDebug, fmt.Errorf("unknown log level %q", s)
}

// Category groups related log messages.
type Category string

const (
	CatEditor  Category = "editor"  // Key dispatch and buffer edits
	CatSync    Category = "sync"    // Live tag rename passes
	CatDB      Category = "db"      // Template store
	CatConfig  Category = "config"  // Configuration loading/saving
	CatLLM     Category = "llm"     // Critique providers
	CatWatcher Category = "watcher" // File watcher events
	CatCache   Category = "cache"   // Critique response cache
	CatIO      Category = "io"      // Import/export and file writes
)

// Logger writes entries to a file and publishes them to subscribers.
type Logger struct {
	mu       sync.Mutex
	closer   io.Closer
	writer   io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var (
	defaultLogger *Logger
	initMu        sync.Mutex
)

// Init opens path for appending and makes it the log destination.
// The returned function closes the file.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: debug log path comes from the user
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	install(f, f)
	return func() { _ = f.Close() }, nil
}

// InitWithTeaLog routes the log through tea.LogToFile so Bubble Tea's own
// messages land in the same file.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, fmt.Errorf("open tea log: %w", err)
	}
	install(f, f)
	return func() { _ = f.Close() }, nil
}

// SetOutput sends entries to w without a backing file.
func SetOutput(w io.Writer) {
	install(w, nil)
}

func install(w io.Writer, c io.Closer) {
	initMu.Lock()
	defer initMu.Unlock()
	if defaultLogger != nil && defaultLogger.broker != nil {
		defaultLogger.broker.Close()
	}
	defaultLogger = &Logger{
		closer:   c,
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
	}
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

func current() *Logger {
	initMu.Lock()
	defer initMu.Unlock()
	return defaultLogger
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	value := "<nil>"
	if err != nil {
		value = err.Error()
	}
	write(LevelError, cat, msg, append(fields, "error", value)...)
}

func write(level Level, cat Category, msg string, fields ...any) {
	l := current()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || level < l.minLevel {
		return
	}

	entry := format(time.Now(), level, cat, msg, fields)
	if l.writer != nil {
		_, _ = io.WriteString(l.writer, entry)
	}
	l.broker.Publish(pubsub.LogEvent, entry)
}

func format(ts time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')
	return b.String()
}

// Listener delivers log entries to a Bubble Tea program.
type Listener = pubsub.ContinuousListener[string]

// NewListener subscribes to log entries until ctx is cancelled.
// It returns nil when logging was never initialized.
func NewListener(ctx context.Context) *Listener {
	l := current()
	if l == nil {
		return nil
	}
	return pubsub.NewContinuousListener[string](ctx, l.broker)
}
