package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	defer Init(Config{})

	Init(Config{Level: "debug", Format: "json", Output: &buf})

	Info().Str("query", "chicken").Msg("[SEARCH] started")

	output := buf.String()
	assert.Contains(t, output, "[SEARCH] started")
	assert.Contains(t, output, `"level":"info"`)
	assert.Contains(t, output, `"query":"chicken"`)
}

func TestInit_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	defer Init(Config{})

	Init(Config{Level: "warn", Output: &buf})

	Debug().Msg("hidden")
	Info().Msg("hidden too")
	Warn().Msg("shown")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "shown")
}

func TestInit_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	defer Init(Config{})

	Init(Config{Level: "info", Format: "console", Output: &buf})
	Info().Msg("console line")

	output := buf.String()
	assert.Contains(t, output, "console line")
	assert.False(t, strings.HasPrefix(output, "{"), "console output should not be JSON")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	original := Logger()
	defer SetLogger(original)

	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Error().Msg("captured")
	assert.Contains(t, buf.String(), "captured")
}
