// Package bindings implements the variable substitution algebra the
// rewriter threads through every rule: applying a substitution to an
// atom, and composing or merging two substitutions.
package bindings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
)

// Set is an immutable map from variable name to the atom it is bound to.
// The zero value is not valid; use New.
type Set struct {
	values map[string]atom.Atom
}

// New returns the empty binding set.
func New() *Set {
	return &Set{values: make(map[string]atom.Atom)}
}

// Bind returns a new Set identical to s but with name additionally bound
// to value. It does not check for conflicts with an existing entry for
// name — callers that need conflict detection should go through Merge.
func (s *Set) Bind(name string, value atom.Atom) *Set {
	out := s.clone()
	out.values[name] = value
	return out
}

// Lookup returns the atom bound to name, if any.
func (s *Set) Lookup(name string) (atom.Atom, bool) {
	v, ok := s.values[name]
	return v, ok
}

// IsEmpty reports whether s binds no variables.
func (s *Set) IsEmpty() bool { return len(s.values) == 0 }

func (s *Set) clone() *Set {
	out := make(map[string]atom.Atom, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return &Set{values: out}
}

// Apply recursively substitutes every Variable in a for which s holds a
// binding, returning the resulting atom. Unbound variables are left as
// is, and Expression children are rebuilt bottom-up.
func Apply(a atom.Atom, s *Set) atom.Atom {
	switch t := a.(type) {
	case atom.Variable:
		if v, ok := s.Lookup(t.Name); ok {
			return Apply(v, s)
		}
		return t
	case atom.Expression:
		children := make([]atom.Atom, len(t.Children))
		for i, c := range t.Children {
			children[i] = Apply(c, s)
		}
		return atom.NewExpression(children...)
	default:
		return a
	}
}

// Apply is the method form of the package-level Apply, substituting into
// a using the receiver's bindings.
func (s *Set) Apply(a atom.Atom) atom.Atom { return Apply(a, s) }

// Compose substitutes the right-hand side of every binding in other by
// s, then unions in s's own bindings via Merge (mirroring the rewriter's
// match rule: a freshly produced substitution is composed into the
// bindings accumulated by the caller so far). Compose fails — returning
// ok=false — if, after substitution, a variable bound in both sets
// disagrees on its value.
func (s *Set) Compose(other *Set) (result *Set, ok bool) {
	composed := New()
	for name, value := range other.values {
		composed.values[name] = s.Apply(value)
	}
	return composed.Merge(s)
}

// Merge unions s and other. A variable bound in both must be bound to
// structurally Equal atoms, compared as stored (Merge does not apply
// either set to the other); otherwise Merge fails.
func (s *Set) Merge(other *Set) (result *Set, ok bool) {
	out := s.clone()
	for name, value := range other.values {
		if existing, present := out.values[name]; present {
			if !existing.Equal(value) {
				return nil, false
			}
			continue
		}
		out.values[name] = value
	}
	return out, true
}

// Remove returns a copy of s with name's binding, if any, dropped.
func (s *Set) Remove(name string) *Set {
	out := s.clone()
	delete(out.values, name)
	return out
}

// Names returns the bound variable names in sorted order, for
// deterministic iteration (logging, String, tests).
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the bindings as "{$x -> (foo), $y -> bar}", with
// variables in sorted order for deterministic output.
func (s *Set) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	names := s.Names()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("$%s -> %s", name, s.values[name].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
