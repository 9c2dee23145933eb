package help

import (
	"context"
	"testing"

	"hellabot/internal/command"
	"hellabot/internal/command/commandtest"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct{ name string }

func (s stub) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        s.name,
		Definition:  &discordgo.ApplicationCommand{Name: s.name, Description: "does " + s.name},
		Description: []string{"Long " + s.name + " help."},
		Usage:       []string{"`/" + s.name + "`"},
	}
}

func (s stub) Execute(ctx context.Context, ic *command.Interaction) error { return nil }

func newRegistry(t *testing.T) *command.Registry {
	t.Helper()
	reg := command.NewRegistry(map[string]bool{"cc": true}, zerolog.Nop())
	reg.Register(stub{name: "info"})
	reg.Register(stub{name: "cc"})
	require.True(t, reg.Register(New(reg)))
	return reg
}

func execute(t *testing.T, c *Command, opts ...*discordgo.ApplicationCommandInteractionDataOption) *commandtest.Responder {
	t.Helper()
	resp := &commandtest.Responder{}
	require.NoError(t, c.Execute(context.Background(), command.NewInteraction(resp, commandtest.Command("help", opts...))))
	return resp
}

func TestHelp_ListsEnabledCommands(t *testing.T) {
	c := New(newRegistry(t))

	resp := execute(t, c)

	calls := resp.Responses()
	require.Len(t, calls, 2)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, calls[0].Type)
	fields := calls[1].Data.Embeds[0].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "Help", fields[0].Name)
	assert.Equal(t, "Info", fields[1].Name)
}

func TestHelp_OneCommand(t *testing.T) {
	c := New(newRegistry(t))

	resp := execute(t, c, commandtest.Option("command", "INFO"))

	e := resp.Last().Data.Embeds[0]
	assert.Equal(t, "Info", e.Title)
	assert.Equal(t, "Long info help.", e.Description)
	assert.Equal(t, "`/info`", e.Fields[0].Value)
}

func TestHelp_UnknownOrDisabledCommand(t *testing.T) {
	c := New(newRegistry(t))

	for _, name := range []string{"cc", "nope"} {
		resp := execute(t, c, commandtest.Option("command", name))
		require.Len(t, resp.Responses(), 1)
		assert.Equal(t, NotFound, resp.Last().Data.Content)
		assert.True(t, resp.Last().Ephemeral())
	}
}

func TestHelp_AutocompletesCommandNames(t *testing.T) {
	c := New(newRegistry(t))

	choices, err := c.Autocomplete(context.Background(), nil, "in")
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, "info", choices[0].Value)

	choices, err = c.Autocomplete(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Len(t, choices, 2)
}
