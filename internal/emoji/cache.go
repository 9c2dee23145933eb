// Package emoji keeps the bot's application emojis: a process-wide cache of
// what is registered, lazy registration of misses, and a bulk warmer.
package emoji

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// lazyTimeout bounds one background registration.
const lazyTimeout = 30 * time.Second

// Platform lists and creates application emojis.
type Platform interface {
	ListEmojis(ctx context.Context) ([]*discordgo.Emoji, error)
	CreateEmoji(ctx context.Context, name, image string) (*discordgo.Emoji, error)
}

// ImageSource resolves an asset path to a data URI accepted by Discord.
type ImageSource interface {
	DataURI(ctx context.Context, path string) (string, error)
}

// OperatorAsset is the avatar path of an operator, relative to the asset host.
func OperatorAsset(id string) string { return "operator/avatars/" + id + ".png" }

// ItemAsset is the icon path of an item, relative to the asset host.
func ItemAsset(iconID string) string { return "items/" + iconID + ".png" }

// OperatorName maps an operator id to its emoji name. The second Amiya form
// was registered under a different name than its id.
func OperatorName(id string) string {
	if id == "char_1037_amiya3" {
		return "char_1037_amiya3_2"
	}
	return id
}

// Cache maps emoji names to registered emojis. It never evicts.
type Cache struct {
	platform Platform
	images   ImageSource
	log      zerolog.Logger

	mu     sync.RWMutex
	emojis map[string]*discordgo.Emoji

	flightMu sync.Mutex
	inflight map[string]bool
	wg       sync.WaitGroup
}

// NewCache returns an empty cache. Call Load to fill it.
func NewCache(p Platform, images ImageSource, log zerolog.Logger) *Cache {
	return &Cache{
		platform: p,
		images:   images,
		log:      log,
		emojis:   make(map[string]*discordgo.Emoji),
		inflight: make(map[string]bool),
	}
}

// Load fetches the application's emojis and merges them into the cache.
func (c *Cache) Load(ctx context.Context) error {
	list, err := c.platform.ListEmojis(ctx)
	if err != nil {
		return fmt.Errorf("list emojis: %w", err)
	}
	c.mu.Lock()
	for _, e := range list {
		if e != nil && e.Name != "" {
			c.emojis[e.Name] = e
		}
	}
	n := len(c.emojis)
	c.mu.Unlock()

	c.log.Debug().Int("count", n).Msg("emoji cache loaded")
	return nil
}

// Get returns the cached emoji named name.
func (c *Cache) Get(name string) (*discordgo.Emoji, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.emojis[name]
	return e, ok
}

// Len reports how many emojis are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.emojis)
}

// Lookup returns the message form of the emoji named name. On a miss it
// starts registering the image at path in the background and returns "".
func (c *Cache) Lookup(name, path string) string {
	if e, ok := c.Get(name); ok {
		return e.MessageFormat()
	}
	c.registerAsync(name, path)
	return ""
}

// Operator returns the emoji for an operator id, registering it lazily.
func (c *Cache) Operator(id string) string {
	name := OperatorName(id)
	return c.Lookup(name, OperatorAsset(name))
}

// Item returns the emoji for an item icon, registering it lazily.
func (c *Cache) Item(iconID string) string {
	return c.Lookup(iconID, ItemAsset(iconID))
}

// InFlight reports whether a registration of name is running.
func (c *Cache) InFlight(name string) bool {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()
	return c.inflight[name]
}

// Wait blocks until background registrations finish.
func (c *Cache) Wait() { c.wg.Wait() }

// claim marks name in flight. It reports false when another caller holds it.
func (c *Cache) claim(name string) bool {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()
	if c.inflight[name] {
		return false
	}
	c.inflight[name] = true
	return true
}

func (c *Cache) release(name string) {
	c.flightMu.Lock()
	delete(c.inflight, name)
	c.flightMu.Unlock()
}

func (c *Cache) registerAsync(name, path string) {
	if !c.claim(name) {
		return
	}
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		defer c.release(name)

		ctx, cancel := context.WithTimeout(context.Background(), lazyTimeout)
		defer cancel()
		if err := c.register(ctx, name, path); err != nil {
			c.log.Warn().Err(err).Str("emoji", name).Msg("lazy emoji registration failed")
		}
	}()
}

// Register uploads the image at path as emoji name and caches the result.
// It is a no-op when the emoji is already cached or another registration of
// the same name is running.
func (c *Cache) Register(ctx context.Context, name, path string) error {
	if !c.claim(name) {
		c.log.Debug().Str("emoji", name).Msg("emoji registration already running, skipped")
		return nil
	}
	defer c.release(name)
	return c.register(ctx, name, path)
}

func (c *Cache) register(ctx context.Context, name, path string) error {
	if _, ok := c.Get(name); ok {
		return nil
	}
	img, err := c.images.DataURI(ctx, path)
	if err != nil {
		return fmt.Errorf("emoji %s: %w", name, err)
	}
	e, err := c.platform.CreateEmoji(ctx, name, img)
	if err != nil {
		return fmt.Errorf("create emoji %s: %w", name, err)
	}
	if e == nil {
		return nil
	}

	c.mu.Lock()
	c.emojis[e.Name] = e
	c.mu.Unlock()
	c.log.Info().Str("emoji", e.Name).Msg("emoji registered")
	return nil
}
