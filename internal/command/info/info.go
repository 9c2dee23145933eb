// Package info implements /info: an operator's stats, skills and talents,
// navigated with buttons and select menus.
package info

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hellabot/internal/api"
	"hellabot/internal/autocomplete"
	"hellabot/internal/command"
	"hellabot/internal/render"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// NotFound is the reply for an unknown operator.
const NotFound = "That operator doesn't exist!"

var (
	_ command.Handler         = (*Command)(nil)
	_ command.Autocompleter   = (*Command)(nil)
	_ command.ButtonResponder = (*Command)(nil)
	_ command.SelectResponder = (*Command)(nil)
)

type Command struct {
	src    api.Source
	emojis render.Emojis
	names  *autocomplete.Index
	log    zerolog.Logger
}

func New(src api.Source, emojis render.Emojis, log zerolog.Logger) *Command {
	if emojis == nil {
		emojis = render.NoEmojis{}
	}
	return &Command{
		src:    src,
		emojis: emojis,
		names:  autocomplete.NewIndex(autocomplete.Operators(src), 10*time.Minute),
		log:    log,
	}
}

func (c *Command) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:  "info",
		Title: "Info",
		Definition: &discordgo.ApplicationCommand{
			Name:        "info",
			Description: "Show an operator's information and attributes",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "name",
				Description:  "Operator name",
				Required:     true,
				Autocomplete: true,
			}},
		},
		Description: []string{"Show information on an operator, including stats, skills and talents."},
		Usage:       []string{"`/info [operator]`"},
	}
}

func (c *Command) Autocomplete(ctx context.Context, ic *command.Interaction, focused string) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	cands, err := c.names.Search(ctx, focused)
	if err != nil {
		return nil, err
	}
	return autocomplete.Choices(cands), nil
}

func (c *Command) Execute(ctx context.Context, ic *command.Interaction) error {
	name, _ := ic.StringOption("name")
	name = strings.ToLower(strings.TrimSpace(name))

	doc, err := c.fetch(ctx, name, "paradox")
	if err != nil {
		return err
	}
	if doc == nil {
		return ic.ReplyEphemeral(NotFound)
	}

	if err := ic.Defer(); err != nil {
		return err
	}
	data, err := render.InfoMessage(doc, render.InfoState{}, c.emojis)
	if err != nil {
		return err
	}
	return ic.EditReply(data)
}

func (c *Command) ButtonResponse(ctx context.Context, ic *command.Interaction, tok command.Token) error {
	return c.respond(ctx, ic, tok)
}

func (c *Command) SelectResponse(ctx context.Context, ic *command.Interaction, tok command.Token) error {
	return c.respond(ctx, ic, tok)
}

// respond redraws the message from tok: infoඞ<id>ඞ<view>ඞ<level>ඞ<extras...>.
func (c *Command) respond(ctx context.Context, ic *command.Interaction, tok command.Token) error {
	id := tok.Field(1)
	doc, err := c.fetch(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return ic.ReplyEphemeral(NotFound)
	}

	st := render.InfoState{
		View:   tok.IntOr(2, 0),
		Level:  tok.IntOr(3, 0),
		Extras: tok.Ints(4),
	}
	data, err := render.InfoMessage(doc, st, c.emojis)
	if err != nil {
		return err
	}
	return ic.Update(data)
}

// fetch returns nil, nil when no valid operator matches query.
func (c *Command) fetch(ctx context.Context, query string, exclude ...string) (*api.Document[api.Operator], error) {
	doc, err := api.Single[api.Operator](ctx, c.src, api.EntityOperator, api.SingleQuery{
		Query:   query,
		Exclude: exclude,
	})
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch operator %q: %w", query, err)
	}
	if !api.Valid(doc) {
		return nil, nil
	}
	return doc, nil
}
