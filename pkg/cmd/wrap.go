package cmd

import "context"

// RunFunc is the body of a middleware layer.
type RunFunc func(ctx context.Context, inv *Invocation) error

// Layered is implemented by middleware layers. Capability checks on the
// Discord handler beneath (autocomplete, buttons, selects) go through Root,
// so wrapping never hides them.
type Layered interface {
	Command
	Unwrap() Command
	Layer() string
}

type layer struct {
	Command
	name string
	run  RunFunc
}

func (l *layer) Run(ctx context.Context, inv *Invocation) error { return l.run(ctx, inv) }
func (l *layer) Unwrap() Command                                { return l.Command }
func (l *layer) Layer() string                                  { return l.name }

// Wrap returns c behind a layer called name that runs run. A nil run
// passes straight through to c.
func Wrap(c Command, name string, run RunFunc) Command {
	if run == nil {
		run = c.Run
	}
	return &layer{Command: c, name: name, run: run}
}

// Root strips every layer from c.
func Root(c Command) Command {
	for {
		l, ok := c.(Layered)
		if !ok {
			return c
		}
		c = l.Unwrap()
	}
}

// Layers lists the layer names around c, outermost first.
func Layers(c Command) []string {
	var names []string
	for {
		l, ok := c.(Layered)
		if !ok {
			return names
		}
		names = append(names, l.Layer())
		c = l.Unwrap()
	}
}
