package bot

import (
	"testing"

	"hellabot/internal/api/apitest"
	"hellabot/pkg/cmd"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(d Deps) []string {
	var out []string
	for _, desc := range Commands(d).Descriptors() {
		out = append(out, desc.Name)
	}
	return out
}

func TestCommands_RegistersEverything(t *testing.T) {
	assert.Equal(t, []string{"cc", "help", "info"}, names(Deps{Source: apitest.New(), Log: zerolog.Nop()}))
}

func TestCommands_SkipsDisabled(t *testing.T) {
	got := names(Deps{Source: apitest.New(), Disabled: map[string]bool{"cc": true}, Log: zerolog.Nop()})
	assert.Equal(t, []string{"help", "info"}, got)
}

func TestCommands_HandlersAreReachable(t *testing.T) {
	reg := Commands(Deps{Source: apitest.New(), Log: zerolog.Nop()})
	for _, name := range []string{"help", "info", "cc"} {
		h, ok := reg.Handler(name)
		require.True(t, ok, name)
		assert.Equal(t, name, h.Descriptor().Name)
	}
	assert.Len(t, reg.Definitions(), 3)

	c, ok := reg.Lookup("info")
	require.True(t, ok)
	assert.Equal(t, []string{"log", "recover"}, cmd.Layers(c))
}
