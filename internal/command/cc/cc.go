// Package cc implements /cc: Contingency Contract stages and seasons.
package cc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hellabot/internal/api"
	"hellabot/internal/autocomplete"
	"hellabot/internal/command"
	"hellabot/internal/gamedata"
	"hellabot/internal/render"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	StageNotFound  = "That stage data doesn't exist!"
	SeasonNotFound = "That season doesn't exist!"
)

var (
	_ command.Handler         = (*Command)(nil)
	_ command.Autocompleter   = (*Command)(nil)
	_ command.ButtonResponder = (*Command)(nil)
	_ command.SelectResponder = (*Command)(nil)
)

type Command struct {
	src       api.Source
	seasons   *gamedata.Seasons
	stages    *autocomplete.Index
	assetBase string
	log       zerolog.Logger
}

func New(src api.Source, seasons *gamedata.Seasons, assetBase string, log zerolog.Logger) *Command {
	if seasons == nil {
		seasons = gamedata.DefaultSeasons()
	}
	return &Command{
		src:       src,
		seasons:   seasons,
		stages:    autocomplete.NewIndex(autocomplete.Stages(src), 10*time.Minute),
		assetBase: assetBase,
		log:       log,
	}
}

func (c *Command) Descriptor() command.Descriptor {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, s := range c.seasons.All() {
		label := s.Index
		if s.Index == "beta" {
			label = "Beta"
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: label, Value: s.Index})
	}

	return command.Descriptor{
		Name:  "cc",
		Title: "CC",
		Definition: &discordgo.ApplicationCommand{
			Name:        "cc",
			Description: "Show information on a CC stage or season",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stage",
					Description: "Show information on a CC stage",
					Options: []*discordgo.ApplicationCommandOption{{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "name",
						Description:  "Stage name",
						Required:     true,
						Autocomplete: true,
					}},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "season",
					Description: "Show information on a CC season",
					Options: []*discordgo.ApplicationCommandOption{{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "index",
						Description: "Season #",
						Required:    true,
						Choices:     choices,
					}},
				},
			},
		},
		Description: []string{
			"Show information on a Contingency Contract stage.",
			"`stage`: show the enemy list, image preview, and stage diagram for a stage.",
			"`season`: show the list of stages for a season.",
		},
		Usage: []string{
			"`/cc stage [stage]`",
			"`/cc season [season]`",
		},
	}
}

func (c *Command) Autocomplete(ctx context.Context, ic *command.Interaction, focused string) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	if ic.Subcommand() != "stage" {
		return nil, nil
	}
	cands, err := c.stages.Search(ctx, focused)
	if err != nil {
		return nil, err
	}
	return autocomplete.Choices(cands), nil
}

func (c *Command) Execute(ctx context.Context, ic *command.Interaction) error {
	switch sub := ic.Subcommand(); sub {
	case "stage":
		name, _ := ic.StringOption("name")
		return c.stage(ctx, ic, strings.ToLower(strings.TrimSpace(name)))
	case "season":
		index, _ := ic.StringOption("index")
		return c.season(ic, index)
	default:
		return fmt.Errorf("cc: unknown subcommand %q", sub)
	}
}

func (c *Command) stage(ctx context.Context, ic *command.Interaction, name string) error {
	doc, err := c.fetch(ctx, name)
	if err != nil {
		return err
	}
	if doc == nil {
		return ic.ReplyEphemeral(StageNotFound)
	}

	if err := ic.Defer(); err != nil {
		return err
	}
	data, err := render.StageMessage(doc, render.PageEnemies, c.assetBase)
	if err != nil {
		return err
	}
	return ic.EditReply(data)
}

func (c *Command) season(ic *command.Interaction, index string) error {
	s, ok := c.seasons.Get(index)
	if !ok {
		return ic.ReplyEphemeral(SeasonNotFound)
	}

	if err := ic.Defer(); err != nil {
		return err
	}
	data, err := render.SeasonMessage(s)
	if err != nil {
		return err
	}
	return ic.EditReply(data)
}

// ButtonResponse turns pages: ccඞstageඞ<key>ඞ<page>.
func (c *Command) ButtonResponse(ctx context.Context, ic *command.Interaction, tok command.Token) error {
	return c.respond(ctx, ic, tok)
}

// SelectResponse opens the stage picked from a season list: the key field
// holds the select sentinel.
func (c *Command) SelectResponse(ctx context.Context, ic *command.Interaction, tok command.Token) error {
	return c.respond(ctx, ic, tok)
}

func (c *Command) respond(ctx context.Context, ic *command.Interaction, tok command.Token) error {
	if sub := tok.Field(1); sub != render.StageSubcommand {
		return fmt.Errorf("cc: unknown continuation %q", tok.String())
	}

	doc, err := c.fetch(ctx, tok.Field(2))
	if err != nil {
		return err
	}
	if doc == nil {
		return ic.ReplyEphemeral(StageNotFound)
	}
	data, err := render.StageMessage(doc, tok.IntOr(3, render.PageEnemies), c.assetBase)
	if err != nil {
		return err
	}
	return ic.Update(data)
}

// fetch returns nil, nil when no valid stage matches query.
func (c *Command) fetch(ctx context.Context, query string) (*api.Document[api.CCStage], error) {
	doc, err := api.Single[api.CCStage](ctx, c.src, api.EntityCC, api.SingleQuery{Query: query})
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch cc stage %q: %w", query, err)
	}
	if !api.Valid(doc) {
		return nil, nil
	}
	return doc, nil
}
