package command

import (
	"context"
	"fmt"

	"teambot/pkg/cmd"
)

// Adapter lets a Definition live in a cmd.Registry and be wrapped by
// cmd.Middleware. The invocation data selects the handler.
type Adapter struct {
	Def *Definition
}

func (a *Adapter) Name() string        { return a.Def.Name }
func (a *Adapter) Description() string { return a.Def.Description }

func (a *Adapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	switch data := inv.Data.(type) {
	case *MessageContext:
		if a.Def.Text == nil {
			return fmt.Errorf("%s: not a text trigger", a.Def.Name)
		}
		return a.Def.Text(ctx, data)
	case *ComponentContext:
		if a.Def.Component == nil {
			return fmt.Errorf("%s: no component handler", a.Def.Name)
		}
		return a.Def.Component(ctx, data)
	case *InteractionContext:
		if a.Def.Interaction == nil {
			return fmt.Errorf("%s: no interaction handler", a.Def.Name)
		}
		return a.Def.Interaction(ctx, data)
	}
	return fmt.Errorf("%s: unsupported invocation data %T", a.Def.Name, inv.Data)
}

// DefinitionOf returns the Definition behind a possibly wrapped command.
func DefinitionOf(c cmd.Command) *Definition {
	if a, ok := cmd.Root(c).(*Adapter); ok {
		return a.Def
	}
	return nil
}
