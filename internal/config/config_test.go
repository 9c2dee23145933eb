package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "https://awedtan.ca/api", cfg.APIURL)
	assert.Equal(t, "CC#13", cfg.StatusText)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.False(t, cfg.SkipRegister)
	assert.True(t, cfg.LogPretty)
	assert.Empty(t, cfg.DisabledCmds)
}

func TestParse_DisabledCommandsAreLowercased(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISABLED_COMMANDS", "Info:true,cc:false")
	t.Setenv("API_URL", "http://localhost:3000/api/")
	t.Setenv("SKIP_REGISTER", "true")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"info": true, "cc": false}, cfg.DisabledCmds)
	assert.Equal(t, "http://localhost:3000/api", cfg.APIURL)
	assert.True(t, cfg.SkipRegister)
}

func TestParse_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Parse()
	assert.ErrorIs(t, err, ErrMissingToken)
}
