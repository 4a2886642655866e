// Package grounded implements the "execute" contract a host-backed atom
// satisfies, plus a small standard library of grounded operations —
// arithmetic, comparison, and a no-op (Nop) — that exercise it. Control constructs the rewriter resolves purely through
// equality axioms (the frog-reasoning "if"/"and"/"nop" symbols of the
// Testable Properties scenarios) are deliberately NOT grounded atoms:
// they are plain symbols a knowledge base's axioms rewrite, exactly as
// the scenario's axiom set defines them.
package grounded

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
)

// Atom is the contract a grounded value must satisfy to be executed:
// given the remaining children of the expression it headed, it either
// produces the atoms that expression reduces to, or fails with a
// message — the Go shape of the rewriter's execute rule (package
// interp's Execute).
type Atom interface {
	atom.GroundedValue
	Execute(args []atom.Atom) ([]atom.Atom, error)
}

// Int is a grounded machine integer, the numeric literal type sexpr and
// the arithmetic operations below share.
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func (i Int) EqualValue(other atom.GroundedValue) bool {
	o, ok := other.(Int)
	return ok && o == i
}

// Bool is a grounded boolean, distinct from the Symbol "True"/"False"
// the frog-reasoning axioms use — this is for grounded comparisons
// (Less, Greater) that need to produce a value rather than match one.
type Bool bool

func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}

func (b Bool) EqualValue(other atom.GroundedValue) bool {
	o, ok := other.(Bool)
	return ok && o == b
}

// operation is a named, arity-checked grounded function.
type operation struct {
	name string
	fn   func(args []atom.Atom) ([]atom.Atom, error)
}

func (o operation) String() string { return o.name }

func (o operation) EqualValue(other atom.GroundedValue) bool {
	oo, ok := other.(operation)
	return ok && oo.name == o.name
}

func (o operation) Execute(args []atom.Atom) ([]atom.Atom, error) {
	return o.fn(args)
}

func asInt(a atom.Atom) (Int, bool) {
	g, ok := a.(atom.Grounded)
	if !ok {
		return 0, false
	}
	i, ok := g.Value.(Int)
	return i, ok
}

func binaryIntOp(name string, fn func(a, b int64) int64) Atom {
	return operation{name: name, fn: func(args []atom.Atom) ([]atom.Atom, error) {
		if len(args) != 2 {
			return nil, errors.Errorf("%s: expected 2 arguments, found %d", name, len(args))
		}
		a, ok := asInt(args[0])
		if !ok {
			return nil, errors.Errorf("%s: expected grounded Int argument, found: %s", name, args[0])
		}
		b, ok := asInt(args[1])
		if !ok {
			return nil, errors.Errorf("%s: expected grounded Int argument, found: %s", name, args[1])
		}
		return []atom.Atom{atom.NewGrounded(Int(fn(int64(a), int64(b))))}, nil
	}}
}

func compareIntOp(name string, fn func(a, b int64) bool) Atom {
	return operation{name: name, fn: func(args []atom.Atom) ([]atom.Atom, error) {
		if len(args) != 2 {
			return nil, errors.Errorf("%s: expected 2 arguments, found %d", name, len(args))
		}
		a, ok := asInt(args[0])
		if !ok {
			return nil, errors.Errorf("%s: expected grounded Int argument, found: %s", name, args[0])
		}
		b, ok := asInt(args[1])
		if !ok {
			return nil, errors.Errorf("%s: expected grounded Int argument, found: %s", name, args[1])
		}
		return []atom.Atom{atom.NewGrounded(Bool(fn(int64(a), int64(b))))}, nil
	}}
}

// Add, Sub, and Mul are grounded binary integer arithmetic operations:
// executing (Add 1 2) yields [3].
var (
	Add = binaryIntOp("Add", func(a, b int64) int64 { return a + b })
	Sub = binaryIntOp("Sub", func(a, b int64) int64 { return a - b })
	Mul = binaryIntOp("Mul", func(a, b int64) int64 { return a * b })
)

// Less and Greater are grounded binary integer comparisons, producing a
// grounded Bool rather than matching against a "True"/"False" symbol.
var (
	Less    = compareIntOp("Less", func(a, b int64) bool { return a < b })
	Greater = compareIntOp("Greater", func(a, b int64) bool { return a > b })
)

// Nop is a grounded operation that always executes to no results:
// a host call producing nothing. Embedding (Nop) as an argument of a
// larger expression must not collapse that expression to an empty
// result — the rewriter's bottom-up search backs off this candidate and
// tries the next one instead of treating an empty execution as fatal.
var Nop = operation{name: "Nop", fn: func(args []atom.Atom) ([]atom.Atom, error) {
	return []atom.Atom{}, nil
}}
