package discord

import (
	"context"
	"fmt"
	"maps"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// CommandPublisher replaces an application's slash commands in one call.
type CommandPublisher interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// CommandSync publishes slash command schemas, skipping the request when the
// schema is unchanged since the last successful publish.
type CommandSync struct {
	pub      CommandPublisher
	dataPath string
	log      zerolog.Logger
}

// NewCommandSync caches published hashes under dataPath/commands.
func NewCommandSync(pub CommandPublisher, dataPath string, log zerolog.Logger) *CommandSync {
	return &CommandSync{pub: pub, dataPath: dataPath, log: log}
}

// Sync publishes defs globally, or to one guild when guildID is set. It
// reports whether a request was made.
func (s *CommandSync) Sync(ctx context.Context, appID, guildID string, defs []*discordgo.ApplicationCommand) (bool, error) {
	scope := "global"
	if guildID != "" {
		scope = guildID
	}
	path := commandCachePath(s.dataPath, scope)

	wanted := hashCommands(defs)
	if maps.Equal(wanted, loadCommandHashes(path)) {
		s.log.Info().Str("scope", scope).Int("commands", len(defs)).Msg("slash commands unchanged, not publishing")
		return false, nil
	}

	if defs == nil {
		defs = []*discordgo.ApplicationCommand{}
	}
	if _, err := s.pub.ApplicationCommandBulkOverwrite(appID, guildID, defs, discordgo.WithContext(ctx)); err != nil {
		return true, fmt.Errorf("publish commands to %s: %w", scope, err)
	}
	if err := saveCommandHashes(path, wanted); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to save command hashes")
	}
	s.log.Info().Str("scope", scope).Int("commands", len(defs)).Msg("slash commands published")
	return true, nil
}
