package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strings"

	"teambot/internal/command"
	"teambot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// Outcome is the terminal state of one inbound event.
type Outcome int

const (
	Ignored Outcome = iota
	Completed
	Failed
	Unresolved
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Unresolved:
		return "unresolved"
	}
	return "ignored"
}

const (
	FailureNotice    = "Something went wrong while running this command."
	unresolvedNotice = "Unknown command `%s`. Ask an administrator to resync the bot's commands."
)

// Dispatcher resolves interactions and prefixed messages against the command
// registry and runs at most one handler per event. Handler errors and panics
// never escape it.
type Dispatcher struct {
	Commands *command.Registry
	Prefix   string
}

func NewDispatcher(commands *command.Registry, prefix string) *Dispatcher {
	return &Dispatcher{Commands: commands, Prefix: prefix}
}

// HandleInteraction dispatches application commands and message components.
func (d *Dispatcher) HandleInteraction(ctx context.Context, client command.Client, i *discordgo.InteractionCreate) Outcome {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		ic := command.NewInteractionContext(client, i)

		c, ok := d.resolve(name, command.KindSlash, command.KindContext)
		if !ok {
			d.logUnresolved("interaction", name)
			if err := ic.RespondEphemeral(fmt.Sprintf(unresolvedNotice, name)); err != nil {
				log.Printf("[WARN] Failed to send unknown command notice: %v", err)
			}
			return Unresolved
		}
		return d.finishInteraction(name, ic, d.run(ctx, c, ic))

	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		name, rest, _ := strings.Cut(data.CustomID, ":")
		ic := command.NewInteractionContext(client, i)

		c, ok := d.resolve(name, command.KindSlash, command.KindContext)
		if !ok || command.DefinitionOf(c).Component == nil {
			log.Printf("[WARN] No component handler for custom ID %q", data.CustomID)
			return Unresolved
		}
		cc := &command.ComponentContext{InteractionContext: ic, CustomID: rest, Values: data.Values}
		return d.finishInteraction(name, ic, d.run(ctx, c, cc))
	}

	return Ignored
}

// HandleMessage dispatches prefixed text triggers. Messages from selfID and
// from other bots are ignored.
func (d *Dispatcher) HandleMessage(ctx context.Context, client command.Client, selfID string, m *discordgo.MessageCreate) Outcome {
	if m.Author == nil || m.Author.ID == selfID || m.Author.Bot {
		return Ignored
	}
	if d.Prefix == "" || !strings.HasPrefix(m.Content, d.Prefix) {
		return Ignored
	}
	fields := strings.Fields(m.Content)
	if len(fields) == 0 {
		return Ignored
	}
	name, args := strings.TrimPrefix(fields[0], d.Prefix), fields[1:]
	if name == "" {
		return Ignored
	}

	c, ok := d.resolve(name, command.KindText)
	if !ok {
		d.logUnresolved("text", name)
		return Unresolved
	}

	mc := command.NewMessageContext(client, m, args)
	err := d.run(ctx, c, mc)
	if err == nil {
		return Completed
	}

	var verr *command.ValidationError
	if errors.As(err, &verr) {
		if _, rerr := client.ChannelMessageSendReply(m.ChannelID, verr.Reason, m.Reference()); rerr != nil {
			log.Printf("[WARN] Failed to reply to %s%s: %v", d.Prefix, name, rerr)
		}
		return Completed
	}

	log.Printf("[ERR] Text command %s failed: %v", name, err)
	if !mc.Replied() {
		if _, rerr := client.ChannelMessageSendReply(m.ChannelID, FailureNotice, m.Reference()); rerr != nil {
			log.Printf("[WARN] Failed to send failure notice for %s: %v", name, rerr)
		}
	}
	return Failed
}

// resolve looks a name up and checks the definition kind fits the event.
func (d *Dispatcher) resolve(name string, kinds ...command.Kind) (cmd.Command, bool) {
	c, ok := d.Commands.Lookup(name)
	if !ok {
		return nil, false
	}
	def := command.DefinitionOf(c)
	if def == nil {
		return nil, false
	}
	for _, k := range kinds {
		if def.Kind == k {
			return c, true
		}
	}
	return nil, false
}

func (d *Dispatcher) run(ctx context.Context, c cmd.Command, data any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERR] Command %s panicked: %v\n%s", c.Name(), r, debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.Run(ctx, &cmd.Invocation{Data: data})
}

func (d *Dispatcher) finishInteraction(name string, ic *command.InteractionContext, err error) Outcome {
	if err == nil {
		return Completed
	}

	var verr *command.ValidationError
	if errors.As(err, &verr) {
		notify(ic, verr.Reason)
		return Completed
	}

	log.Printf("[ERR] Command %s failed: %v", name, err)
	notify(ic, FailureNotice)
	return Failed
}

// notify tells the user about a failure: as the first response, by editing a
// deferred response, or not at all when a real response already went out.
func notify(ic *command.InteractionContext, msg string) {
	var err error
	switch {
	case ic.Deferred():
		err = ic.EditReply(msg)
	case ic.Responded():
		return
	default:
		err = ic.RespondEphemeral(msg)
	}
	if err != nil {
		log.Printf("[WARN] Failed to send failure notice: %v", err)
	}
}

func (d *Dispatcher) logUnresolved(kind, name string) {
	log.Printf("[WARN] Unknown %s command %q; registered: %s", kind, name, strings.Join(d.Commands.Names(), ", "))
}
