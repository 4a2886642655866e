// Package space implements the knowledge-base contract the rewriter's
// match rule queries: a store of equality axioms "(= lhs rhs)" that can
// be searched for axioms whose left-hand side unifies with a query atom.
package space

import (
	"fmt"
	"sync/atomic"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
	"github.com/OzCog/hyperon-experimental/pkg/bindings"
)

// KnowledgeBase is the external collaborator the rewriter's match rule
// depends on: given a query atom (conventionally "(= lhs X)" for some
// fresh variable X), it returns one binding set per axiom whose
// left-hand side unifies with lhs, each binding X (among whatever other
// query variables were free) to that axiom's right-hand side.
type KnowledgeBase interface {
	Query(pattern atom.Atom) []*bindings.Set
}

// Axiom is a single stored equality "(= LHS RHS)".
type Axiom struct {
	LHS atom.Atom
	RHS atom.Atom
}

// AsExpression renders the axiom as the Expression it is logically
// equivalent to: (= LHS RHS).
func (a Axiom) AsExpression() atom.Expression {
	return atom.NewExpression(atom.NewSymbol("="), a.LHS, a.RHS)
}

// EqSymbol is the functor every axiom and every query is built from.
const EqSymbol = "="

var freshCounter uint64

// freshen renames every Variable in a to a name not used anywhere else,
// preserving repeated-variable structure within a. This avoids variable
// capture between a freshly queried pattern and the variables recorded
// in a stored axiom.
func freshen(a atom.Atom, renames map[string]string) atom.Atom {
	switch t := a.(type) {
	case atom.Variable:
		if renamed, ok := renames[t.Name]; ok {
			return atom.NewVariable(renamed)
		}
		n := atomic.AddUint64(&freshCounter, 1)
		renamed := fmt.Sprintf("%s#%d", t.Name, n)
		renames[t.Name] = renamed
		return atom.NewVariable(renamed)
	case atom.Expression:
		children := make([]atom.Atom, len(t.Children))
		for i, c := range t.Children {
			children[i] = freshen(c, renames)
		}
		return atom.NewExpression(children...)
	default:
		return a
	}
}

// unify attempts to make a and b structurally identical by extending
// acc, returning the extended bindings or ok=false if no consistent
// extension exists.
func unify(a, b atom.Atom, acc *bindings.Set) (*bindings.Set, bool) {
	a = resolve(a, acc)
	b = resolve(b, acc)

	if va, ok := a.(atom.Variable); ok {
		if vb, ok := b.(atom.Variable); ok && vb.Name == va.Name {
			return acc, true
		}
		if occurs(va.Name, b, acc) {
			return acc, false
		}
		return acc.Bind(va.Name, b), true
	}
	if vb, ok := b.(atom.Variable); ok {
		if occurs(vb.Name, a, acc) {
			return acc, false
		}
		return acc.Bind(vb.Name, a), true
	}

	switch ta := a.(type) {
	case atom.Symbol:
		tb, ok := b.(atom.Symbol)
		return acc, ok && ta.Name == tb.Name
	case atom.Grounded:
		tb, ok := b.(atom.Grounded)
		return acc, ok && ta.Value.EqualValue(tb.Value)
	case atom.Expression:
		tb, ok := b.(atom.Expression)
		if !ok || len(ta.Children) != len(tb.Children) {
			return acc, false
		}
		cur := acc
		for i := range ta.Children {
			next, ok := unify(ta.Children[i], tb.Children[i], cur)
			if !ok {
				return acc, false
			}
			cur = next
		}
		return cur, true
	default:
		return acc, false
	}
}

// occurs reports whether variable name appears anywhere in a, after
// resolving a (and its sub-expressions) through acc. Without this check
// unify could bind a variable to a term containing itself, producing a
// binding that apply would never finish substituting.
func occurs(name string, a atom.Atom, acc *bindings.Set) bool {
	a = resolve(a, acc)
	switch t := a.(type) {
	case atom.Variable:
		return t.Name == name
	case atom.Expression:
		for _, c := range t.Children {
			if occurs(name, c, acc) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// resolve follows acc's bindings for a variable until it reaches an
// unbound variable or a non-variable atom; unlike bindings.Apply it does
// not recurse into sub-expressions, since unify re-resolves as it
// descends.
func resolve(a atom.Atom, acc *bindings.Set) atom.Atom {
	v, ok := a.(atom.Variable)
	if !ok {
		return a
	}
	if bound, ok := acc.Lookup(v.Name); ok {
		return resolve(bound, acc)
	}
	return a
}

// matchAxiom attempts to unify pattern's left-hand side against ax,
// after renaming ax's variables apart from pattern's. On success it
// returns the binding set restricted to pattern's free variables, with
// axiom variables substituted away.
func matchAxiom(pattern atom.Expression, ax Axiom) (*bindings.Set, bool) {
	if len(pattern.Children) != 3 {
		return nil, false
	}
	if sym, ok := pattern.Children[0].(atom.Symbol); !ok || sym.Name != EqSymbol {
		return nil, false
	}
	queryLHS := pattern.Children[1]
	queryRHS := pattern.Children[2]

	renames := make(map[string]string)
	freshLHS := freshen(ax.LHS, renames)
	freshRHS := freshen(ax.RHS, renames)

	unified, ok := unify(queryLHS, freshLHS, bindings.New())
	if !ok {
		return nil, false
	}
	result, ok := unify(queryRHS, unified.Apply(freshRHS), unified)
	if !ok {
		return nil, false
	}
	return stripInternal(result, renames), true
}

// stripInternal removes bindings for the variables freshen introduced for
// this axiom (the values of renames) and substitutes them away in the
// bindings that remain, leaving only bindings for the caller's own query
// variables.
func stripInternal(b *bindings.Set, renames map[string]string) *bindings.Set {
	internal := make(map[string]bool, len(renames))
	for _, renamed := range renames {
		internal[renamed] = true
	}
	out := bindings.New()
	for _, name := range b.Names() {
		if internal[name] {
			continue
		}
		v, _ := b.Lookup(name)
		out = out.Bind(name, b.Apply(v))
	}
	return out
}

func stripValue(a atom.Atom) atom.Atom {
	switch t := a.(type) {
	case atom.Variable:
		if containsHash(t.Name) {
			return t
		}
		return t
	case atom.Expression:
		children := make([]atom.Atom, len(t.Children))
		for i, c := range t.Children {
			children[i] = stripValue(c)
		}
		return atom.NewExpression(children...)
	default:
		return a
	}
}

func containsHash(name string) bool {
	for _, r := range name {
		if r == '#' {
			return true
		}
	}
	return false
}
