// Package commandtest provides a recording Discord responder and builders for
// inbound interaction events.
package commandtest

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Response is one outbound call recorded by Responder.
type Response struct {
	Method string
	Type   discordgo.InteractionResponseType
	Data   *discordgo.InteractionResponseData
}

// Responder records every response instead of calling Discord.
type Responder struct {
	// Err, when set, is returned by every call.
	Err error

	mu        sync.Mutex
	responses []Response
}

func (r *Responder) record(resp Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, resp)
	return r.Err
}

func (r *Responder) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	return r.record(Response{Method: "respond", Type: resp.Type, Data: resp.Data})
}

func (r *Responder) InteractionResponseEdit(i *discordgo.Interaction, edit *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	data := &discordgo.InteractionResponseData{Files: edit.Files}
	if edit.Content != nil {
		data.Content = *edit.Content
	}
	if edit.Embeds != nil {
		data.Embeds = *edit.Embeds
	}
	if edit.Components != nil {
		data.Components = *edit.Components
	}
	if err := r.record(Response{Method: "edit", Data: data}); err != nil {
		return nil, err
	}
	return &discordgo.Message{Content: data.Content, Embeds: data.Embeds, Components: data.Components}, nil
}

func (r *Responder) FollowupMessageCreate(i *discordgo.Interaction, wait bool, params *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	data := &discordgo.InteractionResponseData{
		Content:    params.Content,
		Embeds:     params.Embeds,
		Components: params.Components,
		Flags:      params.Flags,
	}
	if err := r.record(Response{Method: "followup", Data: data}); err != nil {
		return nil, err
	}
	return &discordgo.Message{Content: params.Content}, nil
}

// Responses returns a copy of the recorded calls in order.
func (r *Responder) Responses() []Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Response(nil), r.responses...)
}

// Last returns the most recent call, or a zero Response.
func (r *Responder) Last() Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.responses) == 0 {
		return Response{}
	}
	return r.responses[len(r.responses)-1]
}

// Ephemeral reports whether resp carries the ephemeral flag.
func (resp Response) Ephemeral() bool {
	return resp.Data != nil && resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0
}

// Option builds a string option.
func Option(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

// FocusedOption builds the string option being typed in an autocomplete.
func FocusedOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	o := Option(name, value)
	o.Focused = true
	return o
}

// Sub wraps opts in a subcommand option.
func Sub(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: opts,
	}
}

func event(t discordgo.InteractionType, data discordgo.InteractionData) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "interaction",
		Type:    t,
		Data:    data,
		GuildID: "guild",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "user", Username: "doctor"}},
	}}
}

// Command builds a slash command invocation.
func Command(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return event(discordgo.InteractionApplicationCommand, discordgo.ApplicationCommandInteractionData{
		Name:    name,
		Options: opts,
	})
}

// Autocomplete builds an autocomplete request.
func Autocomplete(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return event(discordgo.InteractionApplicationCommandAutocomplete, discordgo.ApplicationCommandInteractionData{
		Name:    name,
		Options: opts,
	})
}

// Button builds a button press carrying customID.
func Button(customID string) *discordgo.InteractionCreate {
	return event(discordgo.InteractionMessageComponent, discordgo.MessageComponentInteractionData{
		CustomID:      customID,
		ComponentType: discordgo.ButtonComponent,
	})
}

// Select builds a string select submission.
func Select(customID string, values ...string) *discordgo.InteractionCreate {
	return event(discordgo.InteractionMessageComponent, discordgo.MessageComponentInteractionData{
		CustomID:      customID,
		ComponentType: discordgo.SelectMenuComponent,
		Values:        values,
	})
}
