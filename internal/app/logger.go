package app

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"
)

type Logger struct {
	out io.Writer
}

type LogEvent struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func NewLogger(out io.Writer) *Logger {
	return &Logger{out: out}
}

// NewFileLogger appends to <root>/mitra.log. Logging is best-effort: if the
// file cannot be opened the logger discards everything.
func NewFileLogger(root string) *Logger {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return NewLogger(io.Discard)
	}
	f, err := os.OpenFile(filepath.Join(root, "mitra.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return NewLogger(io.Discard)
	}
	return NewLogger(f)
}

func NopLogger() *Logger {
	return NewLogger(io.Discard)
}

func (l *Logger) Info(message string, fields map[string]interface{}) {
	l.write("info", message, fields)
}

func (l *Logger) Warn(message string, fields map[string]interface{}) {
	l.write("warn", message, fields)
}

func (l *Logger) Error(message string, fields map[string]interface{}) {
	l.write("error", message, fields)
}

func (l *Logger) write(level, message string, fields map[string]interface{}) {
	evt := LogEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   message,
		Fields:    fields,
	}
	payload, _ := json.Marshal(evt)
	payload = append(payload, '\n')
	_, _ = l.out.Write(payload)
}
