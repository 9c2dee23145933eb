// Package help implements /help.
package help

import (
	"context"
	"strings"

	"hellabot/internal/autocomplete"
	"hellabot/internal/command"
	"hellabot/internal/render"

	"github.com/bwmarrin/discordgo"
)

// NotFound is the reply for an unknown command name.
const NotFound = "That command doesn't exist!"

var (
	_ command.Handler       = (*Command)(nil)
	_ command.Autocompleter = (*Command)(nil)
)

// Catalog lists the commands help describes.
type Catalog interface {
	Descriptors() []command.Descriptor
}

type Command struct {
	catalog Catalog
}

func New(catalog Catalog) *Command {
	return &Command{catalog: catalog}
}

func (c *Command) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:  "help",
		Title: "Help",
		Definition: &discordgo.ApplicationCommand{
			Name:        "help",
			Description: "Show help info",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "command",
				Description:  "Command name",
				Autocomplete: true,
			}},
		},
		Description: []string{"Show information on commands. If no command is specified, show a list of all commands."},
		Usage: []string{
			"`/help`",
			"`/help [command]`",
		},
	}
}

func (c *Command) Autocomplete(ctx context.Context, ic *command.Interaction, focused string) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	var cands []autocomplete.Candidate
	for _, d := range c.catalog.Descriptors() {
		cands = append(cands, autocomplete.Candidate{Name: d.Name, Value: d.Name})
	}
	return autocomplete.Choices(autocomplete.Rank(focused, cands, autocomplete.MaxChoices)), nil
}

func (c *Command) Execute(ctx context.Context, ic *command.Interaction) error {
	name, _ := ic.StringOption("command")
	name = strings.ToLower(strings.TrimSpace(name))

	if name == "" {
		if err := ic.Defer(); err != nil {
			return err
		}
		return ic.EditReply(render.HelpList(c.catalog.Descriptors()))
	}

	for _, d := range c.catalog.Descriptors() {
		if strings.ToLower(d.Name) == name {
			if err := ic.Defer(); err != nil {
				return err
			}
			return ic.EditReply(render.HelpCommand(d))
		}
	}
	return ic.ReplyEphemeral(NotFound)
}
