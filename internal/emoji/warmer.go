package emoji

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"hellabot/internal/api"
	"hellabot/pkg/jobmgr"
	"hellabot/pkg/util"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// JobName identifies the warm run in the job manager.
const JobName = "emoji-warm"

// lmdItemID is the item id of LMD, the currency icon.
const lmdItemID = "4001"

// Target is one emoji the warmer makes sure exists.
type Target struct {
	Name string
	Path string
}

// Warmer registers every operator avatar and material icon the bot may
// render, so lazy registration is rarely needed.
type Warmer struct {
	cache   *Cache
	src     api.Source
	jobs    *jobmgr.Manager
	log     zerolog.Logger
	workers int
}

// NewWarmer returns a warmer filling cache from src. Runs are tracked in jobs.
func NewWarmer(cache *Cache, src api.Source, jobs *jobmgr.Manager, log zerolog.Logger) *Warmer {
	return &Warmer{
		cache:   cache,
		src:     src,
		jobs:    jobs,
		log:     log,
		workers: 4,
	}
}

// Start runs Warm in the background. It returns jobmgr.ErrRunning when a run
// is already in progress.
func (w *Warmer) Start(ctx context.Context) error {
	return w.jobs.StartAsync(ctx, JobName, w.Warm)
}

// Schedule re-runs the warmer on the cron spec. Ticks that overlap a
// running warm are skipped.
func (w *Warmer) Schedule(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		if err := w.Start(ctx); err != nil {
			if errors.Is(err, jobmgr.ErrRunning) {
				w.log.Debug().Msg("emoji warm still running, skipping tick")
				return
			}
			w.log.Error().Err(err).Msg("failed to start emoji warm")
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule emoji warm %q: %w", spec, err)
	}
	return id, nil
}

// Warm registers every missing target. Individual failures are logged and
// do not stop the batch; the cache is reloaded at the end.
func (w *Warmer) Warm(ctx context.Context) error {
	if err := w.cache.Load(ctx); err != nil {
		return err
	}

	var missing []Target
	for _, t := range w.Targets(ctx) {
		if _, ok := w.cache.Get(t.Name); !ok {
			missing = append(missing, t)
		}
	}
	w.log.Info().Int("missing", len(missing)).Msg("warming emojis")

	var failed atomic.Int64
	err := util.Parallel(ctx, missing, w.workers, func(ctx context.Context, t Target) error {
		if err := w.cache.Register(ctx, t.Name, t.Path); err != nil {
			failed.Add(1)
			w.log.Warn().Err(err).Str("emoji", t.Name).Msg("emoji registration failed")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := w.cache.Load(ctx); err != nil {
		return err
	}
	w.log.Info().
		Int("registered", len(missing)-int(failed.Load())).
		Int64("failed", failed.Load()).
		Int("cached", w.cache.Len()).
		Msg("emoji warm finished")
	return nil
}

// Targets lists operators, then materials by sort order, then LMD. A
// collection that cannot be fetched is logged and left out.
func (w *Warmer) Targets(ctx context.Context) []Target {
	var out []Target
	seen := make(map[string]bool)
	add := func(t Target) {
		if t.Name == "" || seen[t.Name] {
			return
		}
		seen[t.Name] = true
		out = append(out, t)
	}

	ops, err := api.All[api.Operator](ctx, w.src, api.EntityOperator, api.AllQuery{
		Include: []string{"id", "data.name"},
	})
	if err != nil {
		w.log.Error().Err(err).Msg("failed to list operators for emojis")
	}
	for _, op := range ops {
		name := OperatorName(op.ID)
		add(Target{Name: name, Path: OperatorAsset(name)})
	}

	items, err := api.SearchV2[api.Item](ctx, w.src, api.EntityItem, api.SearchQuery{
		Filter:  map[string]any{"data.itemType": map[string]any{"in": []string{"MATERIAL", "CARD_EXP"}}},
		Include: []string{"data"},
	})
	if err != nil {
		w.log.Error().Err(err).Msg("failed to list items for emojis")
	}
	items = filterItems(items)
	for _, it := range items {
		add(Target{Name: it.Data.IconID, Path: ItemAsset(it.Data.IconID)})
	}

	lmd, err := api.Single[api.Item](ctx, w.src, api.EntityItem, api.SingleQuery{Query: lmdItemID})
	switch {
	case err != nil:
		w.log.Error().Err(err).Msg("failed to fetch LMD for emojis")
	case lmd.Data.IconID != "":
		add(Target{Name: lmd.Data.IconID, Path: ItemAsset(lmd.Data.IconID)})
	}
	return out
}

func filterItems(items []api.Document[api.Item]) []api.Document[api.Item] {
	out := items[:0]
	for _, it := range items {
		if it.Data.IconID == "" || it.Data.IsToken() {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Data.SortID < out[j].Data.SortID })
	return out
}
