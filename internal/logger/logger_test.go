package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "production", "")

	log.Debug("hidden")
	log.Info("snippet created", "id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug is off in production by default")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "snippet created", entry["msg"])
	assert.Equal(t, "abc", entry["id"])
}

func TestNew_DevelopmentIsTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "development", "")

	log.Debug("visible")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestNew_LevelOverride(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		level     string
		wantWarn  bool
		wantInfo  bool
		wantDebug bool
	}{
		{"warn in development", "development", "warn", true, false, false},
		{"debug in production", "production", "DEBUG", true, true, true},
		{"unknown level falls back", "production", "verbose", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := newWithWriter(&buf, tt.env, tt.level)

			log.Warn("w")
			log.Info("i")
			log.Debug("d")

			out := buf.String()
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "WARN"))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "INFO"))
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "DEBUG"))
		})
	}
}
