package space

import (
	"testing"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
)

func sym(s string) atom.Atom { return atom.NewSymbol(s) }

func TestMemorySpaceQuery(t *testing.T) {
	t.Run("returns one binding per matching axiom", func(t *testing.T) {
		ms := NewMemorySpace()
		ms.Add(atom.NewExpression(sym("color")), sym("blue"))
		ms.Add(atom.NewExpression(sym("color")), sym("red"))
		ms.Add(atom.NewExpression(sym("color")), sym("green"))

		x := atom.NewVariable("X")
		query := atom.NewExpression(sym("="), atom.NewExpression(sym("color")), x)
		results := ms.Query(query)

		if len(results) != 3 {
			t.Fatalf("expected 3 matches, got %d", len(results))
		}
		var rhss []string
		for _, b := range results {
			v, ok := b.Lookup("X")
			if !ok {
				t.Fatal("expected every result to bind X")
			}
			rhss = append(rhss, v.String())
		}
		want := map[string]bool{"blue": true, "red": true, "green": true}
		for _, r := range rhss {
			if !want[r] {
				t.Errorf("unexpected result %q", r)
			}
		}
	})

	t.Run("binds query-side variables from the axiom's left-hand side", func(t *testing.T) {
		ms := NewMemorySpace()
		ms.Add(atom.NewExpression(sym("Fritz"), sym("croaks")), sym("True"))

		x := atom.NewVariable("x")
		resultVar := atom.NewVariable("X")
		query := atom.NewExpression(sym("="), atom.NewExpression(x, sym("croaks")), resultVar)
		results := ms.Query(query)

		if len(results) != 1 {
			t.Fatalf("expected 1 match, got %d", len(results))
		}
		bound, ok := results[0].Lookup("x")
		if !ok || !bound.Equal(sym("Fritz")) {
			t.Errorf("expected x bound to Fritz, got %v", bound)
		}
	})

	t.Run("no match yields an empty result", func(t *testing.T) {
		ms := NewMemorySpace()
		ms.Add(atom.NewExpression(sym("color")), sym("blue"))

		x := atom.NewVariable("X")
		query := atom.NewExpression(sym("="), atom.NewExpression(sym("shape")), x)
		if results := ms.Query(query); len(results) != 0 {
			t.Errorf("expected no matches, got %d", len(results))
		}
	})

	t.Run("Remove drops an axiom and its index entry", func(t *testing.T) {
		ms := NewMemorySpace()
		ms.Add(atom.NewExpression(sym("color")), sym("blue"))
		ms.Remove(atom.NewExpression(sym("color")), sym("blue"))

		x := atom.NewVariable("X")
		query := atom.NewExpression(sym("="), atom.NewExpression(sym("color")), x)
		if results := ms.Query(query); len(results) != 0 {
			t.Errorf("expected removed axiom to no longer match, got %d results", len(results))
		}
	})
}
