// Package render builds the embeds and message components the commands reply
// with. Every continuation control carries a token encoding the full state
// needed to draw the next step.
package render

import (
	"fmt"
	"strings"

	"hellabot/internal/command"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
)

// EmbedColor is the accent color of every embed.
const EmbedColor = 0x0d7ae5

// Emojis formats cached emojis for message text. Misses return "".
type Emojis interface {
	Operator(id string) string
	Item(iconID string) string
}

// NoEmojis renders no emojis at all.
type NoEmojis struct{}

func (NoEmojis) Operator(string) string { return "" }
func (NoEmojis) Item(string) string     { return "" }

// Tab is one entry of a button row or select menu.
type Tab struct {
	Label string
	Desc  string
	// Fields are appended to the command name to form the control's token.
	Fields []any
	Active bool
}

// Buttons renders tabs as one row of buttons. The active tab is disabled.
func Buttons(cmd string, tabs []Tab) (discordgo.ActionsRow, error) {
	row := discordgo.ActionsRow{}
	for _, t := range tabs {
		id, err := command.EncodeToken(cmd, t.Fields...)
		if err != nil {
			return row, fmt.Errorf("button %q: %w", t.Label, err)
		}
		style := discordgo.SecondaryButton
		if t.Active {
			style = discordgo.PrimaryButton
		}
		row.Components = append(row.Components, discordgo.Button{
			Label:    t.Label,
			Style:    style,
			CustomID: id,
			Disabled: t.Active,
		})
	}
	return row, nil
}

// Select renders tabs as a string select whose token is cmd plus fields. One
// of fields should be command.TokenSelect; each tab's single Fields value
// becomes its option value.
func Select(placeholder, cmd string, fields []any, tabs []Tab) (discordgo.ActionsRow, error) {
	id, err := command.EncodeToken(cmd, fields...)
	if err != nil {
		return discordgo.ActionsRow{}, fmt.Errorf("select %q: %w", placeholder, err)
	}
	opts := make([]discordgo.SelectMenuOption, 0, len(tabs))
	for _, t := range tabs {
		value := ""
		if len(t.Fields) > 0 {
			value = fmt.Sprint(t.Fields[0])
		}
		opts = append(opts, discordgo.SelectMenuOption{
			Label:       t.Label,
			Value:       value,
			Description: t.Desc,
			Default:     t.Active,
		})
	}
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    id,
			Placeholder: placeholder,
			Options:     opts,
		},
	}}, nil
}

// Clamp limits n to [0, size-1]; an empty range yields 0.
func Clamp(n, size int) int {
	if n < 0 || size <= 0 {
		return 0
	}
	if n >= size {
		return size - 1
	}
	return n
}

// Discord embed limits, in characters.
const (
	maxDescription = 4096
	maxFieldValue  = 1024
)

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func inline(e *embed.Embed) {
	for _, f := range e.Fields {
		f.Inline = true
	}
}

func message(e *discordgo.MessageEmbed, rows ...discordgo.ActionsRow) *discordgo.InteractionResponseData {
	comps := make([]discordgo.MessageComponent, 0, len(rows))
	for _, r := range rows {
		if len(r.Components) > 0 {
			comps = append(comps, r)
		}
	}
	return &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{e},
		Components: comps,
	}
}
