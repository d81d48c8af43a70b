package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_FileAndLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "globe.log")
	l, err := New(path, "debug")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	l.Log("hello console")
	l.Warn().Str("city", "Paris").Msg("lookup failed")

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "hello console")
	assert.Contains(t, lines[1], "WRN")
	assert.Contains(t, lines[1], "city=Paris")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fileLines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, fileLines, 2)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(fileLines[1]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "Paris", entry["city"])
}

func TestLevelFilter(t *testing.T) {
	l, err := New("", "warn")
	require.NoError(t, err)
	l.Info().Msg("hidden")
	l.Error().Msg("shown")
	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "shown")
}

func TestBadLevelDefaultsToInfo(t *testing.T) {
	l, err := New("", "loud")
	require.NoError(t, err)
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")
	assert.Len(t, l.Lines(), 1)
}

func TestLinesCapped(t *testing.T) {
	l, err := New("", "info")
	require.NoError(t, err)
	for i := 0; i < maxLines+20; i++ {
		l.Log("x")
	}
	assert.Len(t, l.Lines(), maxLines)
}
