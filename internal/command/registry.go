package command

import (
	"errors"
	"log"
	"sort"
	"sync"

	"teambot/pkg/cmd"
)

// Registry is the name-keyed lookup table used at dispatch time.
// Load swaps in a complete new table, so lookups never see a partial set.
type Registry struct {
	policy cmd.DuplicatePolicy
	mws    []cmd.Middleware

	mu    sync.RWMutex
	table *cmd.Registry
}

// NewRegistry returns an empty registry. Middlewares are applied to every
// loaded definition in order; the last one runs first.
func NewRegistry(policy cmd.DuplicatePolicy, mws ...cmd.Middleware) *Registry {
	return &Registry{
		policy: policy,
		mws:    mws,
		table:  cmd.NewRegistry(policy),
	}
}

// Load replaces the lookup table with defs. Definitions rejected by the
// duplicate policy are skipped and reported in the returned error; the rest
// are installed regardless.
func (r *Registry) Load(defs []*Definition) error {
	table := cmd.NewRegistry(r.policy)

	var errs []error
	for _, d := range defs {
		c := cmd.Apply(&Adapter{Def: d}, r.mws...)
		if err := table.Register(c); err != nil {
			log.Printf("[ERR] Skipping command %q: %v", d.Name, err)
			errs = append(errs, &DiscoveryError{Name: d.Name, Err: err})
			continue
		}
	}

	r.mu.Lock()
	r.table = table
	r.mu.Unlock()

	return errors.Join(errs...)
}

// Lookup returns the wrapped command registered under name.
func (r *Registry) Lookup(name string) (cmd.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table.Get(name)
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table.Names()
}

// Definitions returns the loaded definitions in load order.
func (r *Registry) Definitions() []*Definition {
	r.mu.RLock()
	cmds := r.table.InOrder()
	r.mu.RUnlock()

	defs := make([]*Definition, 0, len(cmds))
	for _, c := range cmds {
		if d := DefinitionOf(c); d != nil {
			defs = append(defs, d)
		}
	}
	return defs
}

// ByCategory groups definitions by Category, categories sorted by weight then name.
func (r *Registry) ByCategory(weights map[string]int) ([]string, map[string][]*Definition) {
	groups := map[string][]*Definition{}
	for _, d := range r.Definitions() {
		groups[d.Category] = append(groups[d.Category], d)
	}

	cats := make([]string, 0, len(groups))
	for c, defs := range groups {
		cats = append(cats, c)
		sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	}
	sort.Slice(cats, func(i, j int) bool {
		wi, wj := weights[cats[i]], weights[cats[j]]
		if wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})
	return cats, groups
}
