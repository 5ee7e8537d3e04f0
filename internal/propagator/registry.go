package propagator

import "sort"

// Registry holds the state variables a propagator requires from the stepping
// engine: global scalars and per-dof vectors, each with a default initial
// value, plus the subset that must persist across integration steps.
//
// A nil Persistent set means the propagator is reset-transparent: none of its
// variables carry state between steps and the engine may track them natively.
type Registry struct {
	Global     map[string]float64
	PerDof     map[string]float64
	Persistent map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		Global: make(map[string]float64),
		PerDof: make(map[string]float64),
	}
}

// SetPersistent marks the named variables as surviving across steps.
func (r *Registry) SetPersistent(names ...string) {
	if r.Persistent == nil {
		r.Persistent = make(map[string]struct{}, len(names))
	}
	for _, name := range names {
		r.Persistent[name] = struct{}{}
	}
}

func (r *Registry) IsPersistent(name string) bool {
	_, ok := r.Persistent[name]
	return ok
}

func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for name, value := range r.Global {
		c.Global[name] = value
	}
	for name, value := range r.PerDof {
		c.PerDof[name] = value
	}
	if r.Persistent != nil {
		c.Persistent = make(map[string]struct{}, len(r.Persistent))
		for name := range r.Persistent {
			c.Persistent[name] = struct{}{}
		}
	}
	return c
}

// Merge absorbs other into r. A variable present in both with identical
// default and persistence collapses into one entry; any mismatch, including
// a name that is global on one side and per-dof on the other, fails with a
// *ConflictError. Merge is commutative and associative for conflict-free
// registries and runs eagerly at combinator construction.
func (r *Registry) Merge(other *Registry) error {
	for name, value := range other.Global {
		if existing, ok := r.Global[name]; ok && existing != value {
			return &ConflictError{Name: name}
		}
		if _, ok := r.PerDof[name]; ok {
			return &ConflictError{Name: name}
		}
	}
	for name, value := range other.PerDof {
		if existing, ok := r.PerDof[name]; ok && existing != value {
			return &ConflictError{Name: name}
		}
		if _, ok := r.Global[name]; ok {
			return &ConflictError{Name: name}
		}
	}
	for name := range shared(r, other) {
		if r.IsPersistent(name) != other.IsPersistent(name) {
			return &ConflictError{Name: name}
		}
	}
	for name, value := range other.Global {
		r.Global[name] = value
	}
	for name, value := range other.PerDof {
		r.PerDof[name] = value
	}
	if other.Persistent != nil {
		names := make([]string, 0, len(other.Persistent))
		for name := range other.Persistent {
			names = append(names, name)
		}
		r.SetPersistent(names...)
	}
	return nil
}

func shared(a, b *Registry) map[string]struct{} {
	names := make(map[string]struct{})
	for name := range b.Global {
		if _, ok := a.Global[name]; ok {
			names[name] = struct{}{}
		}
	}
	for name := range b.PerDof {
		if _, ok := a.PerDof[name]; ok {
			names[name] = struct{}{}
		}
	}
	return names
}

// declare registers every variable with the engine in sorted name order, so
// declaration is deterministic across runs.
func (r *Registry) declare(e Engine) error {
	for _, name := range sortedKeys(r.Global) {
		if err := e.AddGlobalVariable(name, r.Global[name]); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(r.PerDof) {
		if err := e.AddPerDofVariable(name, r.PerDof[name]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
