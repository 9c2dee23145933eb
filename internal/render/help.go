package render

import (
	"fmt"
	"strings"

	"hellabot/internal/command"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
)

// HelpList renders the overview of every registered command.
func HelpList(descs []command.Descriptor) *discordgo.InteractionResponseData {
	e := embed.NewEmbed().
		SetColor(EmbedColor).
		SetTitle("Help").
		SetDescription("Use `/help [command]` for details on a command.")
	for _, d := range descs {
		e = e.AddField(helpTitle(d), orDash(summary(d)))
	}
	return message(e.MessageEmbed)
}

// HelpCommand renders the help page of one command.
func HelpCommand(d command.Descriptor) *discordgo.InteractionResponseData {
	e := embed.NewEmbed().
		SetColor(EmbedColor).
		SetTitle(helpTitle(d)).
		SetDescription(orDash(strings.Join(d.Description, "\n")))
	if len(d.Usage) > 0 {
		e = e.AddField("Usage", strings.Join(d.Usage, "\n"))
	}
	return message(e.MessageEmbed)
}

func helpTitle(d command.Descriptor) string {
	if d.Title != "" {
		return d.Title
	}
	return TitleCase(d.Name)
}

func summary(d command.Descriptor) string {
	if d.Definition != nil && d.Definition.Description != "" {
		return fmt.Sprintf("`/%s` %s", d.Name, d.Definition.Description)
	}
	if len(d.Description) > 0 {
		return d.Description[0]
	}
	return ""
}
