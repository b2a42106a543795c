package ephemeris

import "github.com/pkg/errors"

// Registry is an append-only lookup table of Ephemeris by name, per
// spec.md section 9's resolution of the "cyclic references in ephemeris
// composition" open question: a Composite may only reference
// sub-ephemerides already present in the Registry at the time it is
// built, so a cycle can never be constructed -- there is no way to name
// an ephemeris before it exists.
type Registry struct {
	byName map[string]Ephemeris
	order  []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Ephemeris)}
}

// Register adds e under name, which must not already be in use.
func (r *Registry) Register(name string, e Ephemeris) error {
	if _, exists := r.byName[name]; exists {
		return errors.Errorf("ephemeris: Registry: name %q already registered", name)
	}
	r.byName[name] = e
	r.order = append(r.order, name)
	return nil
}

// Get returns the Ephemeris registered under name, if any.
func (r *Registry) Get(name string) (Ephemeris, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Resolve looks up each of names in turn, failing on the first miss. Used
// to build a Composite's sub-ephemeris list only from entries already
// registered, preventing forward/cyclic references.
func (r *Registry) Resolve(names []string) ([]Ephemeris, error) {
	out := make([]Ephemeris, len(names))
	for i, name := range names {
		e, ok := r.byName[name]
		if !ok {
			return nil, errors.Errorf("ephemeris: Registry: %q is not registered (composites may only reference ephemerides defined earlier)", name)
		}
		out[i] = e
	}
	return out, nil
}
