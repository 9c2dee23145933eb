// Package bot assembles the command set shared by the bot and the README
// generator.
package bot

import (
	"hellabot/internal/api"
	"hellabot/internal/command"
	"hellabot/internal/command/cc"
	"hellabot/internal/command/help"
	"hellabot/internal/command/info"
	"hellabot/internal/gamedata"
	"hellabot/internal/logger"
	"hellabot/internal/render"
	"hellabot/pkg/cmd"

	"github.com/rs/zerolog"
)

// Deps are the collaborators the commands need.
type Deps struct {
	Source    api.Source
	Emojis    render.Emojis
	Seasons   *gamedata.Seasons
	AssetBase string
	Disabled  map[string]bool
	Log       zerolog.Logger
}

// Commands builds the registry with every command wrapped in the standard
// middleware chain. Disabled commands are skipped by the registry.
func Commands(d Deps) *command.Registry {
	if d.Emojis == nil {
		d.Emojis = render.NoEmojis{}
	}
	if d.Seasons == nil {
		d.Seasons = gamedata.DefaultSeasons()
	}

	log := logger.Component(d.Log, "commands")
	reg := command.NewRegistry(d.Disabled, log)
	mw := cmd.Chain(command.WithRecover(), command.WithCommandLogger(log))

	reg.Register(help.New(reg), mw)
	reg.Register(info.New(d.Source, d.Emojis, log), mw)
	reg.Register(cc.New(d.Source, d.Seasons, d.AssetBase, log), mw)
	return reg
}
