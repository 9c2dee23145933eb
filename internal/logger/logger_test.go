package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFallback(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New(Options{Level: "nonsense"}).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, New(Options{Level: "debug"}).GetLevel())
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	log := Component(New(Options{Level: "info", File: path}), "router")

	log.Info().Str("command", "info").Msg("Routed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"router"`)
	assert.Contains(t, string(data), `"command":"info"`)
}
