package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuietEventLogger(t *testing.T, path string, capacity int) *EventLogger {
	t.Helper()
	el, err := NewEventLogger(path, capacity, logrus.PanicLevel)
	require.NoError(t, err)
	el.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { el.Close() })
	return el
}

func TestEventLogger_RingIsBounded(t *testing.T) {
	el := newQuietEventLogger(t, "", 200)

	for i := 0; i < 250; i++ {
		el.Info(fmt.Sprintf("message %d", i), "Test")
	}

	entries := el.Entries()
	assert.Len(t, entries, 200)
	assert.Equal(t, "message 50", entries[0].Message)
	assert.Equal(t, "message 249", entries[len(entries)-1].Message)

	tail := el.Tail(50)
	assert.Len(t, tail, 50)
	assert.Equal(t, "message 200", tail[0].Message)
}

func TestEventLogger_Filter(t *testing.T) {
	el := newQuietEventLogger(t, "", 0)

	el.Info("Connect request received", "IPC")
	el.Success("VPN connection established successfully", "WireGuard")
	el.Failure("Monitoring error: timeout", "Monitor")
	el.Add("warn", "Script error: access denied", "PowerShell")

	tests := []struct {
		name     string
		level    string
		query    string
		expected int
	}{
		{name: "all levels", level: "all", expected: 4},
		{name: "empty level", level: "", expected: 4},
		{name: "errors only", level: "ERROR", expected: 1},
		{name: "warn normalised", level: "warning", expected: 1},
		{name: "query on message", query: "vpn", expected: 1},
		{name: "query on source", query: "monitor", expected: 1},
		{name: "level and query", level: "info", query: "connect", expected: 1},
		{name: "no match", level: "success", query: "timeout", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, el.Filter(tt.level, tt.query), tt.expected)
		})
	}
}

func TestEventLogger_ExportFormats(t *testing.T) {
	el := newQuietEventLogger(t, "", 0)
	el.Success("Config imported successfully: home.conf", "Import")
	el.Failure("Server deletion failed: missing", "Delete")

	var txt bytes.Buffer
	require.NoError(t, el.Export(&txt, "txt"))
	lines := strings.Split(txt.String(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[SUCCESS] [Import] Config imported successfully: home.conf")
	assert.True(t, strings.HasPrefix(lines[1], "["))

	var js bytes.Buffer
	require.NoError(t, el.Export(&js, "json"))
	var decoded []EventEntry
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "error", decoded[1].Level)

	assert.Error(t, el.Export(&bytes.Buffer{}, "xml"))
}

func TestEventLogger_SinksAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "vpn.log")
	el := newQuietEventLogger(t, path, 0)

	var received []EventEntry
	el.OnEntry(func(e EventEntry) { received = append(received, e) })

	el.Info("KNOX Shield VPN application started", "App")
	require.Len(t, received, 1)
	assert.NotEmpty(t, received[0].ID)

	el.Clear()
	assert.Empty(t, el.Entries())

	require.NoError(t, el.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] [App] KNOX Shield VPN application started")
	assert.Equal(t, path, el.LogFilePath())
}
