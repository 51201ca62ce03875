package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestConfigureLevelAndOutput(t *testing.T) {
	defer func() {
		require.NoError(t, Configure(Options{}))
	}()
	var buf bytes.Buffer
	require.NoError(t, Configure(Options{Level: "warn", Format: "json", Output: &buf}))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	l := New("calculator")
	l.Infof("hidden")
	l.Warnf("houses %d", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "calculator", entry["component"])
	assert.Equal(t, "houses 3", entry["message"])
	assert.Equal(t, "warn", entry["level"])
}

func TestConfigureRejectsBadValues(t *testing.T) {
	assert.Error(t, Configure(Options{Level: "loud"}))
	assert.Error(t, Configure(Options{Format: "xml"}))
	require.NoError(t, Configure(Options{}))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestDebugwFields(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(prev)

	var buf bytes.Buffer
	NewWithWriter(&buf, "scheduler").Debugw("week", map[string]any{"index": 4})
	assert.Contains(t, buf.String(), `"index":4`)

	var nop NopLogger
	nop.Infof("ignored")
}
