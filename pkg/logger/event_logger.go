package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
	LevelDebug   = "debug"
)

// DefaultEventCapacity is the number of entries kept in memory.
const DefaultEventCapacity = 200

type EventEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Source    string `json:"source"`
}

// Line renders the entry the way exported text logs are written.
func (e EventEntry) Line() string {
	return fmt.Sprintf("[%s] [%s] [%s] %s", e.Timestamp, strings.ToUpper(e.Level), e.Source, e.Message)
}

// EventLogger keeps a bounded ring of user-facing events, mirrors them to the
// console logger and appends them to an on-disk log file.
type EventLogger struct {
	*Logger
	mu       sync.Mutex
	entries  []EventEntry
	capacity int
	logPath  string
	logFile  *os.File
	sinks    []func(EventEntry)
}

// NewEventLogger creates an event logger. An empty logPath keeps events in memory only.
func NewEventLogger(logPath string, capacity int, level logrus.Level) (*EventLogger, error) {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}

	el := &EventLogger{
		Logger:   NewLogger(level),
		capacity: capacity,
		logPath:  logPath,
	}

	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create event log directory: %w", err)
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to create event log file: %w", err)
		}
		header := fmt.Sprintf("\n=== Event Log Started: %s ===\n", time.Now().Format(time.RFC3339))
		logFile.WriteString(header)
		el.logFile = logFile
	}

	return el, nil
}

// OnEntry registers a callback invoked for every new entry.
func (el *EventLogger) OnEntry(fn func(EventEntry)) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.sinks = append(el.sinks, fn)
}

func (el *EventLogger) Add(level, message, source string) EventEntry {
	entry := EventEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     normalizeLevel(level),
		Message:   message,
		Source:    source,
	}

	el.mu.Lock()
	el.entries = append(el.entries, entry)
	if len(el.entries) > el.capacity {
		el.entries = el.entries[len(el.entries)-el.capacity:]
	}
	if el.logFile != nil {
		el.logFile.WriteString(entry.Line() + "\n")
	}
	sinks := make([]func(EventEntry), len(el.sinks))
	copy(sinks, el.sinks)
	el.mu.Unlock()

	fields := Fields{"source": source}
	switch entry.Level {
	case LevelError:
		el.WithFields(fields).Error(message)
	case LevelWarning:
		el.WithFields(fields).Warn(message)
	case LevelDebug:
		el.WithFields(fields).Debug(message)
	default:
		el.WithFields(fields).Info(message)
	}

	for _, sink := range sinks {
		sink(entry)
	}
	return entry
}

func (el *EventLogger) Info(message, source string)    { el.Add(LevelInfo, message, source) }
func (el *EventLogger) Success(message, source string) { el.Add(LevelSuccess, message, source) }
func (el *EventLogger) Warning(message, source string) { el.Add(LevelWarning, message, source) }
func (el *EventLogger) Failure(message, source string) { el.Add(LevelError, message, source) }

// Entries returns a copy of all retained entries, oldest first.
func (el *EventLogger) Entries() []EventEntry {
	el.mu.Lock()
	defer el.mu.Unlock()
	out := make([]EventEntry, len(el.entries))
	copy(out, el.entries)
	return out
}

// Tail returns the last n entries.
func (el *EventLogger) Tail(n int) []EventEntry {
	entries := el.Entries()
	if n >= 0 && len(entries) > n {
		return entries[len(entries)-n:]
	}
	return entries
}

// Filter returns entries matching a level (empty or "all" matches any) and a
// case-insensitive substring of the message or source.
func (el *EventLogger) Filter(level, query string) []EventEntry {
	level = strings.ToLower(strings.TrimSpace(level))
	query = strings.ToLower(strings.TrimSpace(query))

	var out []EventEntry
	for _, entry := range el.Entries() {
		if level != "" && level != "all" && entry.Level != level {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(entry.Message), query) &&
			!strings.Contains(strings.ToLower(entry.Source), query) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func (el *EventLogger) Clear() {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.entries = nil
}

// Export writes the retained entries as plain text or indented JSON.
func (el *EventLogger) Export(w io.Writer, format string) error {
	entries := el.Entries()

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []EventEntry{}
		}
		return enc.Encode(entries)
	case "", "txt", "text":
		lines := make([]string, 0, len(entries))
		for _, entry := range entries {
			lines = append(lines, entry.Line())
		}
		_, err := io.WriteString(w, strings.Join(lines, "\n"))
		return err
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func (el *EventLogger) LogFilePath() string {
	return el.logPath
}

func (el *EventLogger) Close() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.logFile == nil {
		return nil
	}
	footer := fmt.Sprintf("=== Event Log Ended: %s ===\n", time.Now().Format(time.RFC3339))
	el.logFile.WriteString(footer)

	err := el.logFile.Close()
	el.logFile = nil
	if err != nil {
		return fmt.Errorf("failed to close event log file: %w", err)
	}
	return nil
}

func normalizeLevel(level string) string {
	switch strings.ToLower(level) {
	case LevelSuccess:
		return LevelSuccess
	case "warn", LevelWarning:
		return LevelWarning
	case LevelError:
		return LevelError
	case LevelDebug:
		return LevelDebug
	default:
		return LevelInfo
	}
}
