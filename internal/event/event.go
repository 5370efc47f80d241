// Package event binds gateway event handlers to the Discord session.
package event

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// Gateway event names.
const (
	Ready             = "READY"
	MessageCreate     = "MESSAGE_CREATE"
	InteractionCreate = "INTERACTION_CREATE"
	GuildCreate       = "GUILD_CREATE"
)

// Definition is one handler for one gateway event. Build it with the On*
// constructors so the handler signature matches the event.
type Definition struct {
	name    string
	handler any
	set     bool
}

func (d Definition) Name() string { return d.name }

// Handler returns the handler in the form discordgo's AddHandler expects.
func (d Definition) Handler() any { return d.handler }

func OnReady(h func(*discordgo.Session, *discordgo.Ready)) Definition {
	return Definition{name: Ready, handler: h, set: h != nil}
}

func OnMessageCreate(h func(*discordgo.Session, *discordgo.MessageCreate)) Definition {
	return Definition{name: MessageCreate, handler: h, set: h != nil}
}

func OnInteractionCreate(h func(*discordgo.Session, *discordgo.InteractionCreate)) Definition {
	return Definition{name: InteractionCreate, handler: h, set: h != nil}
}

func OnGuildCreate(h func(*discordgo.Session, *discordgo.GuildCreate)) Definition {
	return Definition{name: GuildCreate, handler: h, set: h != nil}
}

// DiscoveryError is an event definition that was skipped.
type DiscoveryError struct {
	Index  int
	Reason string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("event definition #%d: %s", e.Index, e.Reason)
}

// Discover drops definitions without a name or handler, logging each one.
func Discover(defs ...Definition) ([]Definition, []error) {
	var (
		out  []Definition
		errs []error
	)
	for i, d := range defs {
		var reason string
		switch {
		case d.name == "":
			reason = "no event name"
		case !d.set:
			reason = fmt.Sprintf("no handler for %s", d.name)
		}
		if reason != "" {
			err := &DiscoveryError{Index: i, Reason: reason}
			log.Printf("[ERR] Skipping event: %v", err)
			errs = append(errs, err)
			continue
		}
		out = append(out, d)
	}
	return out, errs
}

// Binder is the handler registration surface of *discordgo.Session.
type Binder interface {
	AddHandler(handler interface{}) func()
}

// Bind subscribes every definition in order and returns how many were bound.
// Several definitions may share an event; they all fire, in bind order.
func Bind(b Binder, defs []Definition) int {
	n := 0
	for _, d := range defs {
		if !d.set {
			continue
		}
		b.AddHandler(d.handler)
		n++
	}
	log.Printf("[INFO] Bound %d event handler(s)", n)
	return n
}
