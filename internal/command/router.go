package command

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"hellabot/pkg/cmd"

	"github.com/rs/zerolog"
)

// ErrorNotice is shown to the user when a command fails.
const ErrorNotice = "There was an error while executing this command!"

// AutocompleteTimeout bounds one autocomplete request. Discord drops
// suggestions that arrive after three seconds.
const AutocompleteTimeout = 2500 * time.Millisecond

// Router dispatches interactions to the handler that owns them.
type Router struct {
	reg *Registry
	log zerolog.Logger
}

// NewRouter returns a router backed by reg.
func NewRouter(reg *Registry, log zerolog.Logger) *Router {
	return &Router{reg: reg, log: log}
}

// Route handles one interaction. It never returns an error: failures are
// logged and, for slash commands, reported to the user.
func (r *Router) Route(ctx context.Context, ic *Interaction) {
	start := time.Now()
	kind := ic.Kind()
	log := r.log.With().Str("kind", kind.String()).Str("guild_id", ic.Event.GuildID).Logger()

	switch kind {
	case KindCommand:
		r.routeCommand(ctx, ic, log)
	case KindAutocomplete:
		r.routeAutocomplete(ctx, ic, log)
	case KindButton, KindSelect:
		r.routeComponent(ctx, ic, kind, log)
	default:
		log.Debug().Msg("ignoring interaction")
		return
	}
	log.Debug().Dur("took", time.Since(start)).Msg("interaction routed")
}

func (r *Router) routeCommand(ctx context.Context, ic *Interaction, log zerolog.Logger) {
	name := ic.CommandName()
	c, ok := r.reg.Lookup(name)
	if !ok {
		log.Warn().Str("command", name).Msg("no command matching interaction")
		return
	}

	err := safeRun(func() error {
		return c.Run(ctx, cmd.NewInvocation(name, ic))
	})
	if err == nil {
		return
	}
	log.Error().Err(err).Str("command", name).Msg("command failed")

	if ic.Acknowledged() {
		err = ic.Followup(ErrorNotice, true)
	} else {
		err = ic.ReplyEphemeral(ErrorNotice)
	}
	if err != nil {
		log.Error().Err(err).Str("command", name).Msg("failed to report command error")
	}
}

func (r *Router) routeAutocomplete(ctx context.Context, ic *Interaction, log zerolog.Logger) {
	name := ic.CommandName()
	h, ok := r.reg.Handler(name)
	if !ok {
		log.Warn().Str("command", name).Msg("no command matching autocomplete")
		return
	}
	ac, ok := h.(Autocompleter)
	if !ok {
		log.Warn().Str("command", name).Msg("command does not autocomplete")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, AutocompleteTimeout)
	defer cancel()

	err := safeRun(func() error {
		choices, err := ac.Autocomplete(ctx, ic, ic.Focused())
		if err != nil {
			return err
		}
		return ic.Suggest(choices)
	})
	if err != nil {
		log.Error().Err(err).Str("command", name).Msg("autocomplete failed")
	}
}

func (r *Router) routeComponent(ctx context.Context, ic *Interaction, kind Kind, log zerolog.Logger) {
	tok, err := ParseToken(ic.CustomID())
	if err != nil {
		log.Warn().Err(err).Str("custom_id", ic.CustomID()).Msg("malformed component id")
		return
	}
	name := tok.Command()
	h, ok := r.reg.Handler(name)
	if !ok {
		log.Warn().Str("command", name).Msg("no command matching component")
		return
	}

	var run func() error
	switch kind {
	case KindButton:
		br, ok := h.(ButtonResponder)
		if !ok {
			log.Warn().Str("command", name).Msg("command does not handle buttons")
			return
		}
		run = func() error { return br.ButtonResponse(ctx, ic, tok) }
	case KindSelect:
		sr, ok := h.(SelectResponder)
		if !ok {
			log.Warn().Str("command", name).Msg("command does not handle select menus")
			return
		}
		tok = tok.WithValues(ic.Values())
		run = func() error { return sr.SelectResponse(ctx, ic, tok) }
	}

	if err := safeRun(run); err != nil {
		log.Error().Err(err).Str("command", name).Str("custom_id", tok.String()).Msgf("%s response failed", kind)
	}
}

func safeRun(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn()
}
