package discord

import (
	"context"
	"fmt"

	"hellabot/internal/emoji"

	"github.com/bwmarrin/discordgo"
)

// EmojiAPI is the slice of *discordgo.Session that manages application emojis.
type EmojiAPI interface {
	ApplicationEmojis(appID string, options ...discordgo.RequestOption) ([]*discordgo.Emoji, error)
	ApplicationEmojiCreate(appID string, data *discordgo.EmojiParams, options ...discordgo.RequestOption) (*discordgo.Emoji, error)
}

// EmojiPlatform stores emojis on the bot application, so they are usable in
// every guild the bot is in.
type EmojiPlatform struct {
	api   EmojiAPI
	appID func() (string, error)
}

var _ emoji.Platform = (*EmojiPlatform)(nil)

// NewEmojiPlatform resolves the application id through appID on every call,
// since it may only be known once the session is ready.
func NewEmojiPlatform(api EmojiAPI, appID func() (string, error)) *EmojiPlatform {
	return &EmojiPlatform{api: api, appID: appID}
}

func (p *EmojiPlatform) ListEmojis(ctx context.Context) ([]*discordgo.Emoji, error) {
	id, err := p.appID()
	if err != nil {
		return nil, err
	}
	return p.api.ApplicationEmojis(id, discordgo.WithContext(ctx))
}

func (p *EmojiPlatform) CreateEmoji(ctx context.Context, name, image string) (*discordgo.Emoji, error) {
	id, err := p.appID()
	if err != nil {
		return nil, err
	}
	e, err := p.api.ApplicationEmojiCreate(id, &discordgo.EmojiParams{Name: name, Image: image}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("application emoji %s: %w", name, err)
	}
	return e, nil
}

// AppID returns the application id: the configured client id, else the
// logged-in bot user, fetched from Discord if the state is not ready.
func AppID(dg *discordgo.Session, clientID string) (string, error) {
	if clientID != "" {
		return clientID, nil
	}
	if dg.State != nil && dg.State.User != nil && dg.State.User.ID != "" {
		return dg.State.User.ID, nil
	}
	u, err := dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}
