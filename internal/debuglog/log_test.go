package debuglog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARNING", LevelWarn},
		{" error ", LevelError},
		{"off", LevelOff},
		{"INVALID", LevelInfo},
		{"", LevelInfo},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, ParseLogLevel(test.input), "input %q", test.input)
	}
}

func TestSetupWritesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "wallr.log")
	require.NoError(t, Setup(LevelInfo, logPath))
	t.Cleanup(func() { Close() })

	Debugf("hidden %d", 1)
	Infof("visible %d", 2)
	WithFields(map[string]any{"page": 3}).With("gen", "abc").Warnf("with fields")
	require.NoError(t, Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "hidden 1")
	assert.Contains(t, content, `"message":"visible 2"`)
	assert.Contains(t, content, `"page":3`)
	assert.Contains(t, content, `"gen":"abc"`)
	assert.Contains(t, content, `"level":"warn"`)
}

func TestLevelOffIsSilent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, LevelDebug)
	t.Cleanup(func() { Close() })

	Debugf("one")
	SetLevel(LevelOff)
	Errorf("two")

	assert.Contains(t, buf.String(), "one")
	assert.NotContains(t, buf.String(), "two")
	assert.Equal(t, LevelOff, GetLevel())

	require.NoError(t, Setup(LevelOff))
	Errorf("three")
	assert.NotContains(t, buf.String(), "three")
}
