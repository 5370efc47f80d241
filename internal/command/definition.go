// Package command defines the bot's commands: what they look like to Discord,
// how they are validated and discovered, and how they are looked up at dispatch time.
package command

import (
	"context"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Kind is the variant of a command definition.
type Kind int

const (
	KindText Kind = iota + 1
	KindSlash
	KindContext
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSlash:
		return "slash"
	case KindContext:
		return "context"
	}
	return "unknown"
}

// ParamType is the semantic type of a slash command parameter.
type ParamType int

const (
	ParamText ParamType = iota + 1
	ParamInteger
	ParamBoolean
	ParamUser
	ParamChannel
	ParamRole
	ParamMentionable
	ParamNumber
	ParamAttachment
)

var optionTypes = map[ParamType]discordgo.ApplicationCommandOptionType{
	ParamText:        discordgo.ApplicationCommandOptionString,
	ParamInteger:     discordgo.ApplicationCommandOptionInteger,
	ParamBoolean:     discordgo.ApplicationCommandOptionBoolean,
	ParamUser:        discordgo.ApplicationCommandOptionUser,
	ParamChannel:     discordgo.ApplicationCommandOptionChannel,
	ParamRole:        discordgo.ApplicationCommandOptionRole,
	ParamMentionable: discordgo.ApplicationCommandOptionMentionable,
	ParamNumber:      discordgo.ApplicationCommandOptionNumber,
	ParamAttachment:  discordgo.ApplicationCommandOptionAttachment,
}

// OptionType returns the Discord option type for t.
func (t ParamType) OptionType() (discordgo.ApplicationCommandOptionType, bool) {
	ot, ok := optionTypes[t]
	return ot, ok
}

// AllowsChoices reports whether a parameter of this type may carry choices.
func (t ParamType) AllowsChoices() bool {
	return t == ParamText || t == ParamNumber
}

// ContextKind is the entity a context action is attached to.
type ContextKind int

const (
	ContextUser ContextKind = iota + 1
	ContextMessage
)

// CommandType returns the Discord application command type for k.
func (k ContextKind) CommandType() discordgo.ApplicationCommandType {
	switch k {
	case ContextUser:
		return discordgo.UserApplicationCommand
	case ContextMessage:
		return discordgo.MessageApplicationCommand
	}
	return 0
}

type Choice struct {
	Name  string
	Value any
}

type Parameter struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
	Choices     []Choice
}

type (
	TextHandler        func(ctx context.Context, mc *MessageContext) error
	InteractionHandler func(ctx context.Context, ic *InteractionContext) error
	ComponentHandler   func(ctx context.Context, cc *ComponentContext) error
)

// Definition is one command. Text triggers carry Text, slash commands and
// context actions carry Interaction. Component handles message components
// whose custom ID starts with "<Name>:".
type Definition struct {
	Kind        Kind
	Name        string
	Description string
	Category    string

	// Permissions is a Discord permission bitmask required to run the command.
	Permissions int64
	GuildOnly   bool

	Parameters  []Parameter
	ContextKind ContextKind

	Text        TextHandler
	Interaction InteractionHandler
	Component   ComponentHandler
}

var slashName = regexp.MustCompile(`^[-_\p{Ll}\p{N}]{1,32}$`)

// Validate checks the definition's structure.
func (d *Definition) Validate() error {
	if d == nil {
		return &ValidationError{Reason: "definition is nil"}
	}
	invalid := func(reason string) error {
		return &ValidationError{Command: d.Name, Reason: reason}
	}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		return invalid("name is empty")
	}

	switch d.Kind {
	case KindText:
		if strings.ContainsAny(d.Name, " \t\n") {
			return invalid("text trigger name contains whitespace")
		}
		if d.Text == nil {
			return invalid("text trigger has no text handler")
		}
		if d.Interaction != nil {
			return invalid("text trigger has an interaction handler")
		}
		if d.ContextKind != 0 {
			return invalid("text trigger has a context kind")
		}
		if len(d.Parameters) > 0 {
			return invalid("text trigger declares parameters")
		}

	case KindSlash:
		if !slashName.MatchString(d.Name) {
			return invalid("slash command name must be 1-32 lowercase letters, digits, '-' or '_'")
		}
		if err := checkDescription(d.Description); err != "" {
			return invalid(err)
		}
		if d.Interaction == nil {
			return invalid("slash command has no interaction handler")
		}
		if d.Text != nil {
			return invalid("slash command has a text handler")
		}
		if d.ContextKind != 0 {
			return invalid("slash command has a context kind")
		}
		if len(d.Parameters) > 25 {
			return invalid("more than 25 parameters")
		}
		seen := make(map[string]bool, len(d.Parameters))
		optional := false
		for _, p := range d.Parameters {
			if err := checkParameter(p); err != "" {
				return invalid(err)
			}
			if seen[p.Name] {
				return invalid("duplicate parameter " + p.Name)
			}
			seen[p.Name] = true
			if p.Required && optional {
				return invalid("required parameter " + p.Name + " follows an optional one")
			}
			optional = optional || !p.Required
		}

	case KindContext:
		if len(d.Name) > 32 {
			return invalid("context action name longer than 32 characters")
		}
		if d.ContextKind != ContextUser && d.ContextKind != ContextMessage {
			return invalid("context action has no context kind")
		}
		if d.Interaction == nil {
			return invalid("context action has no interaction handler")
		}
		if d.Text != nil {
			return invalid("context action has a text handler")
		}
		if len(d.Parameters) > 0 {
			return invalid("context action declares parameters")
		}

	default:
		return invalid("unknown kind")
	}

	return nil
}

func checkDescription(s string) string {
	switch n := len([]rune(s)); {
	case n == 0:
		return "description is empty"
	case n > 100:
		return "description longer than 100 characters"
	}
	return ""
}

func checkParameter(p Parameter) string {
	if !slashName.MatchString(p.Name) {
		return "invalid parameter name " + p.Name
	}
	if msg := checkDescription(p.Description); msg != "" {
		return "parameter " + p.Name + ": " + msg
	}
	if _, ok := p.Type.OptionType(); !ok {
		return "parameter " + p.Name + " has an unsupported type"
	}
	if len(p.Choices) > 0 && !p.Type.AllowsChoices() {
		return "parameter " + p.Name + " cannot have choices"
	}
	if len(p.Choices) > 25 {
		return "parameter " + p.Name + " has more than 25 choices"
	}
	return ""
}
