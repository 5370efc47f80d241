package command

import (
	"fmt"
	"log"
)

// Factory builds one definition. The bot's command set is a static list of factories.
type Factory func() (*Definition, error)

// Discover runs every factory and validates the result. Failing definitions
// are logged and skipped; the returned errors are all *DiscoveryError.
func Discover(factories []Factory) ([]*Definition, []error) {
	var (
		defs []*Definition
		errs []error
	)
	for i, f := range factories {
		def, err := build(f)
		if err == nil {
			err = def.Validate()
		}
		if err != nil {
			derr := &DiscoveryError{Index: i, Err: err}
			if def != nil {
				derr.Name = def.Name
			}
			log.Printf("[ERR] Skipping command: %v", derr)
			errs = append(errs, derr)
			continue
		}
		defs = append(defs, def)
	}
	return defs, errs
}

func build(f Factory) (def *Definition, err error) {
	if f == nil {
		return nil, fmt.Errorf("factory is nil")
	}
	defer func() {
		if r := recover(); r != nil {
			def, err = nil, fmt.Errorf("factory panicked: %v", r)
		}
	}()
	return f()
}
