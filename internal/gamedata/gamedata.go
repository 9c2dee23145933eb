// Package gamedata holds the static game constants the data API does not
// serve, loaded from an embedded YAML table.
package gamedata

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed seasons.yaml
var seasonsYAML []byte

// Season is one Contingency Contract season.
type Season struct {
	Index  string   `yaml:"-"`
	Name   string   `yaml:"name"`
	Stages []string `yaml:"stages"`
}

// Seasons indexes seasons by their lower-case index ("beta", "0".."12").
type Seasons struct {
	order  []string
	byName map[string]Season
}

type seasonsFile struct {
	Order   []string          `yaml:"order"`
	Seasons map[string]Season `yaml:"seasons"`
}

// ParseSeasons decodes a season table. Every index listed in order must have
// an entry and every entry must be listed.
func ParseSeasons(data []byte) (*Seasons, error) {
	var f seasonsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seasons: %w", err)
	}
	if len(f.Order) != len(f.Seasons) {
		return nil, fmt.Errorf("seasons: %d ordered, %d defined", len(f.Order), len(f.Seasons))
	}

	s := &Seasons{byName: make(map[string]Season, len(f.Seasons))}
	for _, idx := range f.Order {
		season, ok := f.Seasons[idx]
		if !ok {
			return nil, fmt.Errorf("seasons: %q listed but not defined", idx)
		}
		key := strings.ToLower(idx)
		season.Index = key
		s.order = append(s.order, key)
		s.byName[key] = season
	}
	return s, nil
}

var (
	defaultOnce    sync.Once
	defaultSeasons *Seasons
)

// DefaultSeasons returns the embedded table. It panics on a malformed
// embedded file since that can only be a build defect.
func DefaultSeasons() *Seasons {
	defaultOnce.Do(func() {
		s, err := ParseSeasons(seasonsYAML)
		if err != nil {
			panic(err)
		}
		defaultSeasons = s
	})
	return defaultSeasons
}

// LoadSeasons reads a season table from path. An empty path returns the
// embedded table.
func LoadSeasons(path string) (*Seasons, error) {
	if path == "" {
		return DefaultSeasons(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seasons: %w", err)
	}
	return ParseSeasons(data)
}

// Get returns the season for index.
func (s *Seasons) Get(index string) (Season, bool) {
	season, ok := s.byName[strings.ToLower(strings.TrimSpace(index))]
	return season, ok
}

// All returns seasons in display order.
func (s *Seasons) All() []Season {
	out := make([]Season, 0, len(s.order))
	for _, idx := range s.order {
		out = append(out, s.byName[idx])
	}
	return out
}
