package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrDuplicate is returned when a second command claims a name. Discord
// rejects a bulk overwrite that repeats a command name.
var ErrDuplicate = errors.New("duplicate command name")

// Registry stores commands by lower-case name. Dispatch belongs to the
// adapters.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds c under its lower-cased name.
func (r *Registry) Register(c Command) error {
	name := strings.ToLower(c.Name())
	if name == "" {
		return errors.New("command has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.commands[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.commands[name] = c
	return nil
}

// Get returns the command registered as name, in any case.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[strings.ToLower(name)]
	return c, ok
}

// All returns every command sorted by lower-cased name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	list := make([]Command, len(names))
	for i, name := range names {
		list[i] = r.commands[name]
	}
	r.mu.RUnlock()
	return list
}

// Len reports how many commands are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
