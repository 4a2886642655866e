// Package atom defines the term representation the rewriter operates over:
// symbols, variables, expressions, and grounded (host-backed) values.
package atom

import (
	"fmt"
	"strings"
)

// Atom is the closed sum type every term in the system is built from.
// Implementations are immutable; a tree of Atoms can always be shared
// across branches without copying.
type Atom interface {
	// String renders the atom in its textual surface form.
	String() string
	// Equal reports whether other is structurally identical to this atom.
	Equal(other Atom) bool
	// IsExpression reports whether this atom is an Expression.
	IsExpression() bool
}

// Symbol is an opaque named constant, equal by name.
type Symbol struct {
	Name string
}

// NewSymbol constructs a Symbol atom.
func NewSymbol(name string) Symbol { return Symbol{Name: name} }

func (s Symbol) String() string { return s.Name }

func (s Symbol) Equal(other Atom) bool {
	o, ok := other.(Symbol)
	return ok && o.Name == s.Name
}

func (s Symbol) IsExpression() bool { return false }

// Variable is a named placeholder a Bindings set may substitute.
type Variable struct {
	Name string
}

// NewVariable constructs a Variable atom.
func NewVariable(name string) Variable { return Variable{Name: name} }

func (v Variable) String() string { return "$" + v.Name }

func (v Variable) Equal(other Atom) bool {
	o, ok := other.(Variable)
	return ok && o.Name == v.Name
}

func (v Variable) IsExpression() bool { return false }

// Expression is an ordered, possibly empty, sequence of child atoms.
type Expression struct {
	Children []Atom
}

// NewExpression constructs an Expression atom from its children.
func NewExpression(children ...Atom) Expression {
	return Expression{Children: children}
}

func (e Expression) String() string {
	parts := make([]string, len(e.Children))
	for i, c := range e.Children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (e Expression) Equal(other Atom) bool {
	o, ok := other.(Expression)
	if !ok || len(o.Children) != len(e.Children) {
		return false
	}
	for i := range e.Children {
		if !e.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

func (e Expression) IsExpression() bool { return true }

// IsPlain reports whether no child of this expression is itself an
// Expression — i.e. this is a single level of structure.
func (e Expression) IsPlain() bool {
	for _, c := range e.Children {
		if c.IsExpression() {
			return false
		}
	}
	return true
}

// Child returns the i-th child and whether i was in range.
func (e Expression) Child(i int) (Atom, bool) {
	if i < 0 || i >= len(e.Children) {
		return nil, false
	}
	return e.Children[i], true
}

// WithChild returns a copy of e with the i-th child replaced by next.
// Panics if i is out of range — callers are expected to have validated
// the index via Child first.
func (e Expression) WithChild(i int, next Atom) Expression {
	children := make([]Atom, len(e.Children))
	copy(children, e.Children)
	children[i] = next
	return Expression{Children: children}
}

// Grounded wraps a host-backed value — the bridge to grounded.Atom in
// package grounded. Kept as a thin, dependency-free handle here so that
// package atom has no import cycle with package grounded.
type Grounded struct {
	Value GroundedValue
}

// GroundedValue is the minimal contract a grounded atom's payload must
// satisfy to live inside an Atom tree. package grounded implements this
// with its executable operations; tests may implement it directly for
// opaque host values that are never executed.
type GroundedValue interface {
	fmt.Stringer
	// EqualValue reports whether other represents the same grounded value.
	EqualValue(other GroundedValue) bool
}

// NewGrounded wraps a GroundedValue as an Atom.
func NewGrounded(v GroundedValue) Grounded { return Grounded{Value: v} }

func (g Grounded) String() string { return g.Value.String() }

func (g Grounded) Equal(other Atom) bool {
	o, ok := other.(Grounded)
	return ok && g.Value.EqualValue(o.Value)
}

func (g Grounded) IsExpression() bool { return false }
