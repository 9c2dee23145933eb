// Package apitest provides an in-memory api.Source for tests.
package apitest

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"hellabot/internal/api"
)

// Call records one lookup made against a Source.
type Call struct {
	Method string
	Entity string
	Query  string
}

// Source serves canned records. Single lookups match by lower-cased key;
// All and SearchV2 return whatever collection was set for the entity.
type Source struct {
	mu          sync.Mutex
	singles     map[string]map[string]any
	collections map[string]any
	searches    map[string]any
	calls       []Call
	Err         error
}

// New returns an empty Source.
func New() *Source {
	return &Source{
		singles:     make(map[string]map[string]any),
		collections: make(map[string]any),
		searches:    make(map[string]any),
	}
}

// AddSingle serves record for entity under every given key.
func (s *Source) AddSingle(entity string, record any, keys ...string) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.singles[entity] == nil {
		s.singles[entity] = make(map[string]any)
	}
	for _, k := range keys {
		s.singles[entity][strings.ToLower(k)] = record
	}
	return s
}

// SetAll serves records for All(entity).
func (s *Source) SetAll(entity string, records any) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[entity] = records
	return s
}

// SetSearch serves records for SearchV2(entity).
func (s *Source) SetSearch(entity string, records any) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches[entity] = records
	return s
}

// Calls returns a copy of the recorded calls.
func (s *Source) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Source) Single(ctx context.Context, entity string, q api.SingleQuery, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: "single", Entity: entity, Query: q.Query})
	if s.Err != nil {
		return s.Err
	}
	rec, ok := s.singles[entity][strings.ToLower(q.Query)]
	if !ok {
		return api.ErrNotFound
	}
	return convert(rec, out)
}

func (s *Source) All(ctx context.Context, entity string, q api.AllQuery, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: "all", Entity: entity})
	if s.Err != nil {
		return s.Err
	}
	return convert(s.collections[entity], out)
}

func (s *Source) SearchV2(ctx context.Context, entity string, q api.SearchQuery, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: "searchV2", Entity: entity})
	if s.Err != nil {
		return s.Err
	}
	return convert(s.searches[entity], out)
}

// convert round-trips through JSON so tests see exactly what a real
// response would decode into.
func convert(in, out any) error {
	if in == nil {
		in = []any{}
	}
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

var _ api.Source = (*Source)(nil)
