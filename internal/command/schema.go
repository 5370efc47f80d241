package command

import (
	"github.com/bwmarrin/discordgo"
)

// BuildSchema converts definitions to Discord application commands.
// Text triggers are skipped. Choices are only attached to text and number parameters.
func BuildSchema(defs []*Definition) []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, 0, len(defs))
	for _, d := range defs {
		if ac := schemaFor(d); ac != nil {
			out = append(out, ac)
		}
	}
	return out
}

func schemaFor(d *Definition) *discordgo.ApplicationCommand {
	var ac *discordgo.ApplicationCommand
	switch d.Kind {
	case KindSlash:
		ac = &discordgo.ApplicationCommand{
			Type:        discordgo.ChatApplicationCommand,
			Name:        d.Name,
			Description: d.Description,
			Options:     make([]*discordgo.ApplicationCommandOption, 0, len(d.Parameters)),
		}
		for _, p := range d.Parameters {
			ac.Options = append(ac.Options, optionFor(p))
		}
	case KindContext:
		ac = &discordgo.ApplicationCommand{
			Type: d.ContextKind.CommandType(),
			Name: d.Name,
		}
	default:
		return nil
	}

	if d.Permissions != 0 {
		perm := d.Permissions
		ac.DefaultMemberPermissions = &perm
	}
	if d.GuildOnly {
		dm := false
		ac.DMPermission = &dm
	}
	return ac
}

func optionFor(p Parameter) *discordgo.ApplicationCommandOption {
	ot, _ := p.Type.OptionType()
	opt := &discordgo.ApplicationCommandOption{
		Type:        ot,
		Name:        p.Name,
		Description: p.Description,
		Required:    p.Required,
	}
	if p.Type.AllowsChoices() {
		for _, c := range p.Choices {
			opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  c.Name,
				Value: c.Value,
			})
		}
	}
	return opt
}
