package cmd

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicate is returned by Register when a name is already taken and the
// registry rejects duplicates.
var ErrDuplicate = errors.New("duplicate command name")

// DuplicatePolicy decides what happens when two commands share a name.
type DuplicatePolicy int

const (
	// DuplicateReject fails the second registration with ErrDuplicate.
	DuplicateReject DuplicatePolicy = iota
	// DuplicateOverride replaces the earlier command; its position in
	// registration order is kept.
	DuplicateOverride
)

// ParseDuplicatePolicy maps "reject" / "override" to a policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "reject":
		return DuplicateReject, nil
	case "override":
		return DuplicateOverride, nil
	default:
		return DuplicateReject, fmt.Errorf("unknown duplicate policy %q", s)
	}
}

func (p DuplicatePolicy) String() string {
	if p == DuplicateOverride {
		return "override"
	}
	return "reject"
}

// Registry stores commands by name. It does not perform dispatch; each adapter
// looks commands up and invokes them with its own payload. A Registry is not
// safe for concurrent mutation; adapters build one and publish it.
type Registry struct {
	policy   DuplicatePolicy
	commands map[string]Command
	order    []string
}

// NewRegistry returns an empty registry with the given duplicate policy.
func NewRegistry(policy DuplicatePolicy) *Registry {
	return &Registry{
		policy:   policy,
		commands: make(map[string]Command),
	}
}

// Register adds a command under its name.
func (r *Registry) Register(c Command) error {
	name := c.Name()
	if _, exists := r.commands[name]; exists {
		if r.policy == DuplicateReject {
			return fmt.Errorf("%w: %s", ErrDuplicate, name)
		}
		r.commands[name] = c
		return nil
	}
	r.commands[name] = c
	r.order = append(r.order, name)
	return nil
}

// Get returns the command with the given name.
func (r *Registry) Get(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Len returns the number of registered names.
func (r *Registry) Len() int { return len(r.order) }

// InOrder returns all commands in registration order.
func (r *Registry) InOrder() []Command {
	list := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.commands[name])
	}
	return list
}

// GetAll returns all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	list := r.InOrder()
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}
