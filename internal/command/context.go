package command

import (
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Client is the part of *discordgo.Session that commands talk to.
type Client interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)

	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// InteractionContext is passed to slash command and context action handlers.
// It tracks whether the interaction has been answered so the dispatcher knows
// how to report a failure.
type InteractionContext struct {
	Client      Client
	Interaction *discordgo.InteractionCreate

	mu        sync.Mutex
	responded bool
	deferred  bool
}

func NewInteractionContext(c Client, i *discordgo.InteractionCreate) *InteractionContext {
	return &InteractionContext{Client: c, Interaction: i}
}

// ComponentContext is passed to component handlers. CustomID has the
// "<command>:" prefix removed.
type ComponentContext struct {
	*InteractionContext
	CustomID string
	Values   []string
}

// Responded reports whether an initial response has been sent.
func (ic *InteractionContext) Responded() bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.responded
}

// Deferred reports whether the initial response was a deferral.
func (ic *InteractionContext) Deferred() bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.deferred
}

func (ic *InteractionContext) respond(resp *discordgo.InteractionResponse) error {
	if err := ic.Client.InteractionRespond(ic.Interaction.Interaction, resp); err != nil {
		return err
	}
	ic.mu.Lock()
	ic.responded = true
	ic.deferred = resp.Type == discordgo.InteractionResponseDeferredChannelMessageWithSource ||
		resp.Type == discordgo.InteractionResponseDeferredMessageUpdate
	ic.mu.Unlock()
	return nil
}

// Respond sends a public text reply.
func (ic *InteractionContext) Respond(content string) error {
	return ic.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// RespondEphemeral sends a reply only the invoking user can see.
func (ic *InteractionContext) RespondEphemeral(content string) error {
	return ic.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// RespondEmbed sends an embed reply with optional components.
func (ic *InteractionContext) RespondEmbed(embed *discordgo.MessageEmbed, components ...discordgo.MessageComponent) error {
	return ic.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// Defer acknowledges the interaction; the reply follows through EditReply.
func (ic *InteractionContext) Defer(ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return ic.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// UpdateMessage replaces the message a component is attached to.
func (ic *InteractionContext) UpdateMessage(embed *discordgo.MessageEmbed, components ...discordgo.MessageComponent) error {
	return ic.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// EditReply edits the original response, typically after Defer.
func (ic *InteractionContext) EditReply(content string, embeds ...*discordgo.MessageEmbed) error {
	edit := &discordgo.WebhookEdit{Content: &content}
	if len(embeds) > 0 {
		edit.Embeds = &embeds
	}
	_, err := ic.Client.InteractionResponseEdit(ic.Interaction.Interaction, edit)
	return err
}

// ClearComponents removes every component from the original response.
func (ic *InteractionContext) ClearComponents() error {
	empty := []discordgo.MessageComponent{}
	_, err := ic.Client.InteractionResponseEdit(ic.Interaction.Interaction, &discordgo.WebhookEdit{Components: &empty})
	return err
}

// User returns the invoking user, in a guild or in DMs.
func (ic *InteractionContext) User() *discordgo.User {
	return interactionUser(ic.Interaction.Interaction)
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// DisplayName returns the invoking member's nickname, global name or username.
func (ic *InteractionContext) DisplayName() string {
	if m := ic.Interaction.Member; m != nil && m.Nick != "" {
		return m.Nick
	}
	return UserDisplayName(ic.User())
}

// UserDisplayName prefers the global name over the username.
func UserDisplayName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// IsAdministrator reports whether the invoking member has the Administrator permission.
func (ic *InteractionContext) IsAdministrator() bool {
	m := ic.Interaction.Member
	return m != nil && m.Permissions&discordgo.PermissionAdministrator != 0
}

// HasPermission reports whether the invoking member has every bit in perm.
// Administrators have every permission.
func (ic *InteractionContext) HasPermission(perm int64) bool {
	m := ic.Interaction.Member
	if m == nil {
		return false
	}
	return m.Permissions&discordgo.PermissionAdministrator != 0 || m.Permissions&perm == perm
}

func (ic *InteractionContext) options() map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := map[string]*discordgo.ApplicationCommandInteractionDataOption{}
	if ic.Interaction.Type != discordgo.InteractionApplicationCommand {
		return out
	}
	for _, o := range ic.Interaction.ApplicationCommandData().Options {
		out[o.Name] = o
	}
	return out
}

// StringOption returns a string option, or "" when absent.
func (ic *InteractionContext) StringOption(name string) string {
	if o, ok := ic.options()[name]; ok {
		if s, ok := o.Value.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// IntOption returns an integer or number option truncated to int.
func (ic *InteractionContext) IntOption(name string) (int, bool) {
	o, ok := ic.options()[name]
	if !ok {
		return 0, false
	}
	switch v := o.Value.(type) {
	case float64:
		return int(v), true
	case int64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// UserOption returns the user referenced by a user option, using resolved data when present.
func (ic *InteractionContext) UserOption(name string) *discordgo.User {
	o, ok := ic.options()[name]
	if !ok {
		return nil
	}
	id, _ := o.Value.(string)
	if id == "" {
		return nil
	}
	return ic.resolvedUser(id)
}

// ChannelOption returns the ID of a channel option, or "".
func (ic *InteractionContext) ChannelOption(name string) string {
	if o, ok := ic.options()[name]; ok {
		id, _ := o.Value.(string)
		return id
	}
	return ""
}

// TargetUser returns the user a user context action was invoked on.
func (ic *InteractionContext) TargetUser() *discordgo.User {
	if ic.Interaction.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	id := ic.Interaction.ApplicationCommandData().TargetID
	if id == "" {
		return nil
	}
	return ic.resolvedUser(id)
}

func (ic *InteractionContext) resolvedUser(id string) *discordgo.User {
	data := ic.Interaction.ApplicationCommandData()
	if data.Resolved != nil {
		if u, ok := data.Resolved.Users[id]; ok {
			return u
		}
	}
	return &discordgo.User{ID: id}
}

// ResolvedMember returns the guild member resolved for a user ID, if Discord sent it.
func (ic *InteractionContext) ResolvedMember(id string) *discordgo.Member {
	if ic.Interaction.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	data := ic.Interaction.ApplicationCommandData()
	if data.Resolved == nil {
		return nil
	}
	return data.Resolved.Members[id]
}

// MessageContext is passed to text trigger handlers.
type MessageContext struct {
	Client  Client
	Message *discordgo.MessageCreate
	Args    []string

	mu      sync.Mutex
	replied bool
}

func NewMessageContext(c Client, m *discordgo.MessageCreate, args []string) *MessageContext {
	return &MessageContext{Client: c, Message: m, Args: args}
}

// Reply answers the triggering message.
func (mc *MessageContext) Reply(content string) error {
	_, err := mc.Client.ChannelMessageSendReply(mc.Message.ChannelID, content, mc.Message.Reference())
	if err == nil {
		mc.mu.Lock()
		mc.replied = true
		mc.mu.Unlock()
	}
	return err
}

// Replied reports whether Reply succeeded at least once.
func (mc *MessageContext) Replied() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.replied
}
