package space

import (
	"testing"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
	"github.com/OzCog/hyperon-experimental/pkg/bindings"
)

func TestUnifyOccursCheck(t *testing.T) {
	t.Run("variable does not unify with a term containing itself", func(t *testing.T) {
		n := atom.NewVariable("n")
		term := atom.NewExpression(sym("plus"), atom.NewExpression(sym("S"), sym("Z")), n)

		_, ok := unify(n, term, bindings.New())
		if ok {
			t.Error("expected unify to fail the occurs check")
		}
	})

	t.Run("still unifies a variable with a term not containing it", func(t *testing.T) {
		n := atom.NewVariable("n")
		term := atom.NewExpression(sym("plus"), atom.NewExpression(sym("S"), sym("Z")), sym("y"))

		result, ok := unify(n, term, bindings.New())
		if !ok {
			t.Fatal("expected unify to succeed")
		}
		bound, ok := result.Lookup("n")
		if !ok || !bound.Equal(term) {
			t.Errorf("expected n bound to %s, got %v", term, bound)
		}
	})

	t.Run("occurs check applies through already-resolved bindings", func(t *testing.T) {
		n := atom.NewVariable("n")
		y := atom.NewVariable("y")
		acc, ok := unify(y, n, bindings.New())
		if !ok {
			t.Fatal("expected y/n unification to succeed")
		}
		term := atom.NewExpression(sym("plus"), sym("Z"), y)
		if _, ok := unify(n, term, acc); ok {
			t.Error("expected unify to fail once y resolves to n")
		}
	})
}

func TestMatchAxiomRejectsSelfReferentialBinding(t *testing.T) {
	// Mirrors spec.md's "(eq (plus (S Z) n) n)" scenario: an axiom
	// "(eq x x) = True" must not match here, since doing so would require
	// binding n to a term that contains n.
	ax := Axiom{
		LHS: atom.NewExpression(sym("eq"), atom.NewVariable("x"), atom.NewVariable("x")),
		RHS: sym("True"),
	}
	n := atom.NewVariable("n")
	query := atom.NewExpression(sym("="),
		atom.NewExpression(sym("eq"), atom.NewExpression(sym("plus"), atom.NewExpression(sym("S"), sym("Z")), n), n),
		atom.NewVariable("X"))

	if _, ok := matchAxiom(query, ax); ok {
		t.Error("expected matchAxiom to reject the self-referential binding")
	}
}
