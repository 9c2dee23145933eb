package command

import (
	"context"
	"fmt"

	"hellabot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// Descriptor is the immutable registration record of a command.
type Descriptor struct {
	// Name is the unique, lower-case routing key.
	Name string
	// Definition is the slash command schema published to Discord.
	Definition *discordgo.ApplicationCommand
	// Title is the display name used by /help.
	Title       string
	Description []string
	Usage       []string
}

// Handler is what every command implements: its descriptor and the
// initial slash command invocation.
type Handler interface {
	Descriptor() Descriptor
	Execute(ctx context.Context, ic *Interaction) error
}

// Autocompleter suggests option values while the user types. focused is the
// lower-cased partial value of the focused option.
type Autocompleter interface {
	Autocomplete(ctx context.Context, ic *Interaction, focused string) ([]*discordgo.ApplicationCommandOptionChoice, error)
}

// ButtonResponder continues a flow from a button rendered by the handler.
type ButtonResponder interface {
	ButtonResponse(ctx context.Context, ic *Interaction, tok Token) error
}

// SelectResponder continues a flow from a select menu rendered by the handler.
type SelectResponder interface {
	SelectResponse(ctx context.Context, ic *Interaction, tok Token) error
}

// Adapter adapts a Handler to cmd.Command so it can live in the generic
// registry and be wrapped by middleware. Optional capabilities are reached
// through cmd.Root.
type Adapter struct {
	Handler Handler
	desc    Descriptor
}

// NewAdapter snapshots the handler's descriptor.
func NewAdapter(h Handler) *Adapter {
	return &Adapter{Handler: h, desc: h.Descriptor()}
}

func (a *Adapter) Name() string { return a.desc.Name }

func (a *Adapter) Description() string {
	if a.desc.Definition != nil {
		return a.desc.Definition.Description
	}
	return ""
}

// Descriptor returns the descriptor captured at registration.
func (a *Adapter) Descriptor() Descriptor { return a.desc }

// Run executes the slash command. inv.Data must be a *Interaction.
func (a *Adapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	ic, ok := inv.Data.(*Interaction)
	if !ok {
		return fmt.Errorf("command %s: unexpected invocation payload %T", a.desc.Name, inv.Data)
	}
	return a.Handler.Execute(ctx, ic)
}

// HandlerOf returns the Handler beneath any middleware wrapping c.
func HandlerOf(c cmd.Command) (Handler, bool) {
	a, ok := cmd.Root(c).(*Adapter)
	if !ok {
		return nil, false
	}
	return a.Handler, true
}
