// Package cmd is the transport-agnostic command core: a command has a name,
// a description and Run. The Discord adapter in internal/command registers
// slash commands on top of it, and the README generator reads the same
// registry without running anything.
package cmd

import (
	"context"
	"time"
)

// Invocation is one run of a command. The interaction router sets Data to
// the *command.Interaction being answered.
type Invocation struct {
	Command  string
	Data     any
	Received time.Time
}

// NewInvocation stamps an invocation of command with the current time.
func NewInvocation(command string, data any) *Invocation {
	return &Invocation{Command: command, Data: data, Received: time.Now()}
}

// Since reports how long ago the invocation was received, or zero when it
// was never stamped. Discord expects a first response within three seconds
// of that moment.
func (inv *Invocation) Since() time.Duration {
	if inv == nil || inv.Received.IsZero() {
		return 0
	}
	return time.Since(inv.Received)
}

// Command is what every registered command implements. Autocomplete,
// component continuations and slash schemas stay in the adapters.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
