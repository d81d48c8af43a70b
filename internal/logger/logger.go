package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPath is the log file used when none is configured, relative to the working directory.
const DefaultPath = "logs/globe.log"

// maxLines caps the in-memory history shown by the console.
const maxLines = 500

// Logger writes structured JSON lines to a file and keeps a human-readable copy of every line in
// memory for the on-screen console.
type Logger struct {
	zerolog.Logger
	lines *lineBuffer
	file  *os.File
}

// New opens (or creates) the log file at path and returns a Logger at the given level
// ("debug", "info", ...). An empty path keeps logs in memory only.
func New(path, level string) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	buf := &lineBuffer{}
	console := zerolog.ConsoleWriter{Out: buf, NoColor: true, TimeFormat: time.TimeOnly}
	writers := []io.Writer{console}

	var f *os.File
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		f, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		writers = append(writers, f)
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(lvl).With().Timestamp().Logger()
	return &Logger{Logger: zl, lines: buf, file: f}, nil
}

// Log records a plain line typed into or echoed by the console.
func (l *Logger) Log(line string) {
	l.Info().Msg(line)
}

// Lines returns a copy of the console lines, oldest first.
func (l *Logger) Lines() []string {
	return l.lines.snapshot()
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// lineBuffer collects console-formatted lines.
type lineBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *lineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		b.lines = append(b.lines, line)
	}
	if over := len(b.lines) - maxLines; over > 0 {
		b.lines = append(b.lines[:0], b.lines[over:]...)
	}
	return len(p), nil
}

func (b *lineBuffer) snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}
