package command

import (
	"strings"

	"hellabot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Registry holds the enabled Discord commands. It is filled during startup,
// before the session opens, and only read afterwards.
type Registry struct {
	cmds     *cmd.Registry
	disabled map[string]bool
	log      zerolog.Logger
}

// NewRegistry returns a registry that refuses names marked true in disabled.
func NewRegistry(disabled map[string]bool, log zerolog.Logger) *Registry {
	d := make(map[string]bool, len(disabled))
	for k, v := range disabled {
		d[strings.ToLower(k)] = v
	}
	return &Registry{
		cmds:     cmd.NewRegistry(),
		disabled: d,
		log:      log,
	}
}

// Register wraps h with mws and stores it. It returns false, without
// registering, when the command is disabled or its name is taken.
func (r *Registry) Register(h Handler, mws ...cmd.Middleware) bool {
	a := NewAdapter(h)
	name := strings.ToLower(a.Name())
	if r.disabled[name] {
		r.log.Info().Str("command", name).Msg("command disabled, skipping")
		return false
	}
	c := cmd.Apply(a, mws...)
	if err := r.cmds.Register(c); err != nil {
		r.log.Error().Err(err).Str("command", name).Msg("command not registered")
		return false
	}
	r.log.Debug().Str("command", name).Strs("middleware", cmd.Layers(c)).Msg("command registered")
	return true
}

// Lookup returns the middleware-wrapped command for name.
func (r *Registry) Lookup(name string) (cmd.Command, bool) {
	return r.cmds.Get(name)
}

// Handler returns the unwrapped handler for name, for capability checks.
func (r *Registry) Handler(name string) (Handler, bool) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}
	return HandlerOf(c)
}

// Descriptors returns the descriptors of all registered commands, sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	all := r.cmds.All()
	out := make([]Descriptor, 0, len(all))
	for _, c := range all {
		if a, ok := cmd.Root(c).(*Adapter); ok {
			out = append(out, a.Descriptor())
		}
	}
	return out
}

// Definitions returns the slash command schemas to publish.
func (r *Registry) Definitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, d := range r.Descriptors() {
		if d.Definition != nil {
			defs = append(defs, d.Definition)
		}
	}
	return defs
}

// Len reports how many commands are enabled.
func (r *Registry) Len() int { return r.cmds.Len() }
