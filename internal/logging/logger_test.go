package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json output honours level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "atr2git", Options{Level: "warn", JSON: true})
		require.NoError(t, err)

		logger.Info().Msg("hidden")
		logger.Warn().Str("step", "ExtractATR").Msg("action failed")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "warn", line["level"])
		assert.Equal(t, "atr2git", line["app"])
		assert.Equal(t, "ExtractATR", line["step"])
		assert.Equal(t, "action failed", line["message"])
	})

	t.Run("console output without color", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "atr2git", Options{NoColor: true})
		require.NoError(t, err)

		logger.Info().Str("tick", "abc").Msg("tick finished")
		out := buf.String()
		assert.Contains(t, out, "tick finished")
		assert.Contains(t, out, "tick=abc")
		assert.NotContains(t, out, "\x1b[")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, "atr2git", Options{Level: "loud"})
		assert.Error(t, err)
	})
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvNoColor, "1")

	o := OptionsFromEnv(Options{Level: "info"})
	assert.Equal(t, "debug", o.Level)
	assert.True(t, o.NoColor)

	t.Setenv(EnvLevel, "")
	t.Setenv(EnvNoColor, "false")
	o = OptionsFromEnv(Options{Level: "warn"})
	assert.Equal(t, "warn", o.Level)
	assert.False(t, o.NoColor)
}
