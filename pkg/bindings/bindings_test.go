package bindings

import (
	"testing"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
)

func TestApply(t *testing.T) {
	t.Run("substitutes a bound variable", func(t *testing.T) {
		b := New().Bind("x", atom.NewSymbol("Fritz"))
		got := Apply(atom.NewVariable("x"), b)
		if !got.Equal(atom.NewSymbol("Fritz")) {
			t.Errorf("expected Fritz, got %s", got)
		}
	})

	t.Run("leaves unbound variables untouched", func(t *testing.T) {
		b := New()
		got := Apply(atom.NewVariable("x"), b)
		if !got.Equal(atom.NewVariable("x")) {
			t.Errorf("expected $x unchanged, got %s", got)
		}
	})

	t.Run("recurses into expression children", func(t *testing.T) {
		b := New().Bind("x", atom.NewSymbol("Z"))
		expr := atom.NewExpression(atom.NewSymbol("plus"), atom.NewVariable("x"), atom.NewVariable("y"))
		got := Apply(expr, b)
		want := atom.NewExpression(atom.NewSymbol("plus"), atom.NewSymbol("Z"), atom.NewVariable("y"))
		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("follows chained bindings", func(t *testing.T) {
		b := New().Bind("x", atom.NewVariable("y")).Bind("y", atom.NewSymbol("True"))
		got := Apply(atom.NewVariable("x"), b)
		if !got.Equal(atom.NewSymbol("True")) {
			t.Errorf("expected True, got %s", got)
		}
	})
}

func TestMerge(t *testing.T) {
	t.Run("unions disjoint bindings", func(t *testing.T) {
		a := New().Bind("x", atom.NewSymbol("True"))
		b := New().Bind("y", atom.NewSymbol("False"))

		merged, ok := a.Merge(b)
		if !ok {
			t.Fatal("expected disjoint merge to succeed")
		}
		if v, _ := merged.Lookup("x"); !v.Equal(atom.NewSymbol("True")) {
			t.Error("merged set should keep x's binding")
		}
		if v, _ := merged.Lookup("y"); !v.Equal(atom.NewSymbol("False")) {
			t.Error("merged set should keep y's binding")
		}
	})

	t.Run("succeeds when overlapping keys agree", func(t *testing.T) {
		a := New().Bind("x", atom.NewSymbol("True"))
		b := New().Bind("x", atom.NewSymbol("True"))

		if _, ok := a.Merge(b); !ok {
			t.Error("expected agreeing overlap to merge")
		}
	})

	t.Run("fails when overlapping keys conflict", func(t *testing.T) {
		a := New().Bind("x", atom.NewSymbol("True"))
		b := New().Bind("x", atom.NewSymbol("False"))

		if _, ok := a.Merge(b); ok {
			t.Error("expected conflicting overlap to fail")
		}
	})
}

func TestCompose(t *testing.T) {
	t.Run("substitutes other's values by the receiver, then unions", func(t *testing.T) {
		// receiver binds x -> Fritz (freshly derived); other already has
		// a binding for some unrelated variable whose value mentions x.
		receiver := New().Bind("x", atom.NewSymbol("Fritz"))
		other := New().Bind("template", atom.NewExpression(atom.NewVariable("x"), atom.NewSymbol("frog")))

		composed, ok := receiver.Compose(other)
		if !ok {
			t.Fatal("expected compose to succeed")
		}
		tmpl, _ := composed.Lookup("template")
		want := atom.NewExpression(atom.NewSymbol("Fritz"), atom.NewSymbol("frog"))
		if !tmpl.Equal(want) {
			t.Errorf("expected template substituted to %s, got %s", want, tmpl)
		}
		if v, ok := composed.Lookup("x"); !ok || !v.Equal(atom.NewSymbol("Fritz")) {
			t.Error("expected composed set to also carry the receiver's own binding for x")
		}
	})

	t.Run("fails on conflicting bindings", func(t *testing.T) {
		receiver := New().Bind("x", atom.NewSymbol("True"))
		other := New().Bind("x", atom.NewSymbol("False"))

		if _, ok := receiver.Compose(other); ok {
			t.Error("expected conflicting compose to fail")
		}
	})
}

func TestRemove(t *testing.T) {
	b := New().Bind("x", atom.NewSymbol("True")).Bind("y", atom.NewSymbol("False"))
	without := b.Remove("x")

	if _, ok := without.Lookup("x"); ok {
		t.Error("expected x to be removed")
	}
	if _, ok := b.Lookup("x"); !ok {
		t.Error("Remove must not mutate the receiver")
	}
	if _, ok := without.Lookup("y"); !ok {
		t.Error("Remove should leave other bindings intact")
	}
}
