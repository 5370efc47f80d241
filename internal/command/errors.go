package command

import (
	"fmt"
)

// ValidationError is a structural problem with a definition, or a rejected
// invocation that the user should be told about.
type ValidationError struct {
	Command string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Command == "" {
		return e.Reason
	}
	return fmt.Sprintf("command %q: %s", e.Command, e.Reason)
}

// Invalid returns a user-facing ValidationError.
func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// DiscoveryError is a definition that could not be loaded. It is skipped.
type DiscoveryError struct {
	Index int
	Name  string
	Err   error
}

func (e *DiscoveryError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("discovery: definition #%d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("discovery: definition #%d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// RegistrationError is a rejected bulk overwrite.
type RegistrationError struct {
	Scope string
	Count int
	Err   error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register %d command(s) in %s scope: %v", e.Count, e.Scope, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
