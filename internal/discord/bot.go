package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hellabot/internal/command"
	"hellabot/internal/config"
	"hellabot/internal/emoji"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Bot connects the command router and emoji cache to a Discord session.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	registry *command.Registry
	router   *command.Router
	emojis   *emoji.Cache
	warmer   *emoji.Warmer
	sync     *CommandSync
	cron     *cron.Cron
	log      zerolog.Logger

	ctx   context.Context
	ready sync.Once
}

// NewSession creates an unopened session that only needs guild events.
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds
	return dg, nil
}

// New wires a bot. The registry must be complete: it is read-only once the
// session opens.
func New(dg *discordgo.Session, cfg *config.Config, registry *command.Registry, emojis *emoji.Cache, warmer *emoji.Warmer, log zerolog.Logger) *Bot {
	return &Bot{
		dg:       dg,
		cfg:      cfg,
		registry: registry,
		router:   command.NewRouter(registry, log.With().Str("component", "router").Logger()),
		emojis:   emojis,
		warmer:   warmer,
		sync:     NewCommandSync(dg, cfg.DataPath, log),
		cron:     cron.New(),
		log:      log,
		ctx:      context.Background(),
	}
}

// Run opens the session and blocks until ctx ends.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	if b.cfg.EmojiResyncCron != "" && !b.cfg.SkipEmojis {
		if _, err := b.warmer.Schedule(ctx, b.cron, b.cfg.EmojiResyncCron); err != nil {
			return err
		}
		b.cron.Start()
		defer func() { <-b.cron.Stop().Done() }()
	}

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, cleaning up")
	b.emojis.Wait()
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("discord session ready")

	if err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{{Name: b.cfg.StatusText, Type: discordgo.ActivityTypeCompeting}},
	}); err != nil {
		b.log.Warn().Err(err).Msg("failed to set presence")
	}

	// Ready fires again after every reconnect.
	b.ready.Do(func() {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.registerCommands(b.ctx)
		}()
		go func() {
			defer wg.Done()
			b.startEmojis(b.ctx)
		}()
		go func() {
			wg.Wait()
			b.log.Info().Str("user", r.User.String()).Msg("ready")
		}()
	})
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(s, i)
}

func (b *Bot) handleInteraction(r command.Responder, i *discordgo.InteractionCreate) {
	b.router.Route(b.ctx, command.NewInteraction(r, i))
}

// registerCommands publishes the enabled commands. Failures are logged only.
func (b *Bot) registerCommands(ctx context.Context) {
	if b.cfg.SkipRegister {
		b.log.Info().Msg("skipped command registration")
		return
	}
	appID, err := AppID(b.dg, b.cfg.ClientID)
	if err != nil {
		b.log.Error().Err(err).Msg("failed to resolve application id")
		return
	}
	if _, err := b.sync.Sync(ctx, appID, b.cfg.CommandGuildID, b.registry.Definitions()); err != nil {
		b.log.Error().Err(err).Msg("failed to register commands")
	}
}

// startEmojis fills the emoji cache, warming it unless disabled.
func (b *Bot) startEmojis(ctx context.Context) {
	if b.cfg.SkipEmojis || b.cfg.SkipRegister {
		b.log.Info().Msg("skipped emoji registration")
		if err := b.emojis.Load(ctx); err != nil {
			b.log.Error().Err(err).Msg("failed to load emojis")
		}
		return
	}
	if err := b.warmer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		b.log.Error().Err(err).Msg("failed to start emoji warm")
	}
}
