package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hellabot/internal/api"
	"hellabot/internal/bot"
	"hellabot/internal/config"
	"hellabot/internal/discord"
	"hellabot/internal/emoji"
	"hellabot/internal/gamedata"
	"hellabot/internal/logger"
	"hellabot/pkg/jobmgr"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	skipRegister bool
	skipEmojis   bool
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:           "hellabot",
	Short:         "HellaBot serves Arknights game data on Discord",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("hellabot", version)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&skipRegister, "skip-register", false, "do not publish slash commands or register emojis")
	rootCmd.Flags().BoolVar(&skipEmojis, "skip-emojis", false, "do not register missing emojis")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "[ERR]", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, dotenv, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("skip-register") {
		cfg.SkipRegister = skipRegister
	}
	if cmd.Flags().Changed("skip-emojis") {
		cfg.SkipEmojis = skipEmojis
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, File: cfg.LogFile})
	log.Info().Str("version", version).Bool("dotenv", dotenv).Msg("starting HellaBot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dg, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}

	src := api.NewClient(cfg.APIURL, cfg.APITimeout, logger.Component(log, "api"))
	platform := discord.NewEmojiPlatform(dg, func() (string, error) {
		return discord.AppID(dg, cfg.ClientID)
	})
	emojis := emoji.NewCache(platform, emoji.NewAssets(cfg.AssetURL, nil), logger.Component(log, "emoji"))

	jobs := jobmgr.NewManager(func(s string) { log.Debug().Str("component", "jobs").Msg(s) })
	warmer := emoji.NewWarmer(emojis, src, jobs, logger.Component(log, "emoji"))

	seasons, err := gamedata.LoadSeasons(cfg.SeasonsFile)
	if err != nil {
		return err
	}

	registry := bot.Commands(bot.Deps{
		Source:    src,
		Emojis:    emojis,
		Seasons:   seasons,
		AssetBase: cfg.AssetURL,
		Disabled:  cfg.DisabledCmds,
		Log:       log,
	})
	log.Info().Int("commands", registry.Len()).Msg("commands registered")

	b := discord.New(dg, cfg, registry, emojis, warmer, logger.Component(log, "discord"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(ctx)
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		err = <-errCh
	case err = <-errCh:
		cancel()
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("discord bot error")
		return err
	}
	log.Info().Msg("discord bot exited cleanly")
	return nil
}
