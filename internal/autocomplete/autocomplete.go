// Package autocomplete ranks option suggestions for partially typed names.
package autocomplete

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"hellabot/internal/api"

	"github.com/agnivade/levenshtein"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/singleflight"
)

// MaxChoices is the most suggestions Discord shows.
const MaxChoices = 25

// maxChoiceLength is Discord's limit on choice names and values.
const maxChoiceLength = 100

// Candidate is one suggestable entry: Name is shown, Value is submitted.
type Candidate struct {
	Name  string
	Value string
}

type scored struct {
	c     Candidate
	tier  int
	score float64
}

// Rank orders candidates against query: prefix matches first, then substring
// matches, then close misspellings. Candidates that match in no way are
// dropped. An empty query returns the first limit candidates by name.
func Rank(query string, cands []Candidate, limit int) []Candidate {
	query = strings.ToLower(strings.TrimSpace(query))
	if limit <= 0 || limit > MaxChoices {
		limit = MaxChoices
	}

	var out []scored
	for _, c := range cands {
		name := strings.ToLower(c.Name)
		switch {
		case query == "":
			out = append(out, scored{c: c})
		case strings.HasPrefix(name, query):
			out = append(out, scored{c: c, tier: 0, score: float64(len(name))})
		case strings.Contains(name, query):
			out = append(out, scored{c: c, tier: 1, score: float64(strings.Index(name, query))})
		default:
			if s := similarity(query, name); s >= 0.6 {
				out = append(out, scored{c: c, tier: 2, score: 1 - s})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].tier != out[j].tier {
			return out[i].tier < out[j].tier
		}
		if out[i].score != out[j].score {
			return out[i].score < out[j].score
		}
		return strings.ToLower(out[i].c.Name) < strings.ToLower(out[j].c.Name)
	})
	if len(out) > limit {
		out = out[:limit]
	}

	res := make([]Candidate, len(out))
	for i, s := range out {
		res[i] = s.c
	}
	return res
}

// similarity compares the query with the same-length head of name, so a
// short misspelled query still matches a long name.
func similarity(query, name string) float64 {
	head := name
	if n := utf8.RuneCountInString(query); utf8.RuneCountInString(name) > n {
		head = string([]rune(name)[:n])
	}
	dist := levenshtein.ComputeDistance(query, head)
	return 1 - float64(dist)/float64(max(utf8.RuneCountInString(query), utf8.RuneCountInString(head)))
}

// Choices converts candidates to Discord choices, trimming overlong text.
func Choices(cands []Candidate) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(cands))
	for _, c := range cands {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(c.Name),
			Value: truncate(c.Value),
		})
	}
	return out
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxChoiceLength {
		return s
	}
	return string([]rune(s)[:maxChoiceLength])
}

// Loader fetches the full candidate list for one kind of entity.
type Loader func(ctx context.Context) ([]Candidate, error)

// loadTimeout bounds one shared catalog fetch, independent of the caller
// that started it.
const loadTimeout = 10 * time.Second

// Index caches a Loader's result for ttl, so keystrokes don't each fetch a
// whole collection.
type Index struct {
	load  Loader
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	cands   []Candidate
	fetched time.Time
}

// NewIndex returns an index refreshed at most once per ttl.
func NewIndex(load Loader, ttl time.Duration) *Index {
	return &Index{load: load, ttl: ttl, now: time.Now}
}

// Search ranks the cached candidates against query. Concurrent refreshes
// share one load. A failed or slow refresh falls back to the previous list
// when there is one; otherwise Search fails once ctx ends.
func (x *Index) Search(ctx context.Context, query string) ([]Candidate, error) {
	x.mu.Lock()
	cands := x.cands
	fresh := cands != nil && x.now().Sub(x.fetched) < x.ttl
	x.mu.Unlock()

	if !fresh {
		loaded, err := x.refresh(ctx)
		switch {
		case err == nil:
			cands = loaded
		case cands == nil:
			return nil, err
		}
	}
	return Rank(query, cands, MaxChoices), nil
}

func (x *Index) refresh(ctx context.Context) ([]Candidate, error) {
	ch := x.group.DoChan("load", func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		cands, err := x.load(lctx)
		if err != nil {
			return nil, err
		}
		x.mu.Lock()
		x.cands = cands
		x.fetched = x.now()
		x.mu.Unlock()
		return cands, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Candidate), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Operators loads every operator as name → id.
func Operators(src api.Source) Loader {
	return func(ctx context.Context) ([]Candidate, error) {
		docs, err := api.All[api.Operator](ctx, src, api.EntityOperator, api.AllQuery{
			Include: []string{"id", "data.name"},
		})
		if err != nil {
			return nil, fmt.Errorf("load operators: %w", err)
		}
		out := make([]Candidate, 0, len(docs))
		for _, d := range docs {
			if d.ID == "" || d.Data.Name == "" {
				continue
			}
			out = append(out, Candidate{Name: d.Data.Name, Value: d.ID})
		}
		return out, nil
	}
}

// Stages loads every CC stage as name → lookup key.
func Stages(src api.Source) Loader {
	return func(ctx context.Context) ([]Candidate, error) {
		docs, err := api.All[api.CCStage](ctx, src, api.EntityCC, api.AllQuery{
			Include: []string{"keys", "data.const.name"},
		})
		if err != nil {
			return nil, fmt.Errorf("load cc stages: %w", err)
		}
		out := make([]Candidate, 0, len(docs))
		for _, d := range docs {
			name := d.Data.Const.Name
			if name == "" {
				continue
			}
			value := strings.ToLower(name)
			if len(d.Keys) > 0 {
				value = d.Keys[0]
			}
			out = append(out, Candidate{Name: name, Value: value})
		}
		return out, nil
	}
}
