package command

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Responder is the slice of *discordgo.Session used to answer interactions.
type Responder interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(i *discordgo.Interaction, edit *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Kind classifies an inbound interaction.
type Kind int

const (
	KindUnknown Kind = iota
	KindCommand
	KindAutocomplete
	KindButton
	KindSelect
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindAutocomplete:
		return "autocomplete"
	case KindButton:
		return "button"
	case KindSelect:
		return "select"
	}
	return "unknown"
}

// Interaction wraps one inbound event and tracks whether it has been
// acknowledged, which decides how errors are reported.
type Interaction struct {
	Event *discordgo.InteractionCreate

	resp  Responder
	mu    sync.Mutex
	acked bool
}

// NewInteraction wraps e, answering through r.
func NewInteraction(r Responder, e *discordgo.InteractionCreate) *Interaction {
	return &Interaction{Event: e, resp: r}
}

func (ic *Interaction) commandData() (discordgo.ApplicationCommandInteractionData, bool) {
	d, ok := ic.Event.Data.(discordgo.ApplicationCommandInteractionData)
	return d, ok
}

func (ic *Interaction) componentData() (discordgo.MessageComponentInteractionData, bool) {
	d, ok := ic.Event.Data.(discordgo.MessageComponentInteractionData)
	return d, ok
}

// Kind reports what the user did.
func (ic *Interaction) Kind() Kind {
	switch ic.Event.Type {
	case discordgo.InteractionApplicationCommand:
		return KindCommand
	case discordgo.InteractionApplicationCommandAutocomplete:
		return KindAutocomplete
	case discordgo.InteractionMessageComponent:
		d, _ := ic.componentData()
		switch d.ComponentType {
		case discordgo.ButtonComponent:
			return KindButton
		case discordgo.SelectMenuComponent:
			return KindSelect
		}
	}
	return KindUnknown
}

// CommandName returns the slash command name, or "" for components.
func (ic *Interaction) CommandName() string {
	d, _ := ic.commandData()
	return d.Name
}

// CustomID returns the component identifier, or "" for commands.
func (ic *Interaction) CustomID() string {
	d, _ := ic.componentData()
	return d.CustomID
}

// Values returns the select menu selection.
func (ic *Interaction) Values() []string {
	d, _ := ic.componentData()
	return d.Values
}

// User returns the invoking user, from the guild member when present.
func (ic *Interaction) User() *discordgo.User {
	if ic.Event.Member != nil && ic.Event.Member.User != nil {
		return ic.Event.Member.User
	}
	if ic.Event.User != nil {
		return ic.Event.User
	}
	return &discordgo.User{ID: "unknown", Username: "unknown"}
}

func (ic *Interaction) options() []*discordgo.ApplicationCommandInteractionDataOption {
	d, _ := ic.commandData()
	if len(d.Options) == 1 && d.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return d.Options[0].Options
	}
	return d.Options
}

// Subcommand returns the invoked subcommand name, if any.
func (ic *Interaction) Subcommand() string {
	d, _ := ic.commandData()
	if len(d.Options) == 1 && d.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return d.Options[0].Name
	}
	return ""
}

// StringOption returns the named option value of the (sub)command.
func (ic *Interaction) StringOption(name string) (string, bool) {
	for _, o := range ic.options() {
		if o.Name == name && o.Value != nil {
			return fmt.Sprint(o.Value), true
		}
	}
	return "", false
}

// Focused returns the lower-cased partial value of the focused option.
func (ic *Interaction) Focused() string {
	for _, o := range ic.options() {
		if o.Focused && o.Value != nil {
			return strings.ToLower(fmt.Sprint(o.Value))
		}
	}
	return ""
}

// Acknowledged reports whether the interaction was replied to or deferred.
func (ic *Interaction) Acknowledged() bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.acked
}

func (ic *Interaction) respond(t discordgo.InteractionResponseType, data *discordgo.InteractionResponseData) error {
	err := ic.resp.InteractionRespond(ic.Event.Interaction, &discordgo.InteractionResponse{Type: t, Data: data})
	if err == nil {
		ic.mu.Lock()
		ic.acked = true
		ic.mu.Unlock()
	}
	return err
}

// Reply sends the initial public response.
func (ic *Interaction) Reply(data *discordgo.InteractionResponseData) error {
	return ic.respond(discordgo.InteractionResponseChannelMessageWithSource, data)
}

// ReplyEphemeral sends an initial response only the invoking user sees.
func (ic *Interaction) ReplyEphemeral(content string) error {
	return ic.respond(discordgo.InteractionResponseChannelMessageWithSource, &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// Defer acknowledges a command with a visible "thinking" state.
func (ic *Interaction) Defer() error {
	return ic.respond(discordgo.InteractionResponseDeferredChannelMessageWithSource, nil)
}

// DeferUpdate acknowledges a component without changing the message yet.
func (ic *Interaction) DeferUpdate() error {
	return ic.respond(discordgo.InteractionResponseDeferredMessageUpdate, nil)
}

// Update replaces the message the component belongs to.
func (ic *Interaction) Update(data *discordgo.InteractionResponseData) error {
	return ic.respond(discordgo.InteractionResponseUpdateMessage, data)
}

// EditReply replaces the original (possibly deferred) response.
func (ic *Interaction) EditReply(data *discordgo.InteractionResponseData) error {
	edit := &discordgo.WebhookEdit{
		Content:    &data.Content,
		Embeds:     &data.Embeds,
		Components: &data.Components,
	}
	if len(data.Files) > 0 {
		edit.Files = data.Files
	}
	_, err := ic.resp.InteractionResponseEdit(ic.Event.Interaction, edit)
	return err
}

// Followup sends an additional message after the initial response.
func (ic *Interaction) Followup(content string, ephemeral bool) error {
	params := &discordgo.WebhookParams{Content: content}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := ic.resp.FollowupMessageCreate(ic.Event.Interaction, true, params)
	return err
}

// Suggest answers an autocomplete request. Discord accepts at most 25 choices.
func (ic *Interaction) Suggest(choices []*discordgo.ApplicationCommandOptionChoice) error {
	if len(choices) > 25 {
		choices = choices[:25]
	}
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	return ic.respond(discordgo.InteractionApplicationCommandAutocompleteResult, &discordgo.InteractionResponseData{
		Choices: choices,
	})
}
