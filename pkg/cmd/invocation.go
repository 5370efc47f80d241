// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is registered with a
// platform and how its payload is built are defined by adapters that wrap this.
package cmd

import "context"

// Invocation carries the minimal input any command runner can pass: raw argument
// tokens and an opaque payload. Adapters set Data to their own context type
// (for Discord: an interaction or message context).
type Invocation struct {
	Args []string
	Data any
}

// Command is the universal contract: identity plus execution.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
