package atom

import "testing"

func TestSymbol(t *testing.T) {
	t.Run("equal by name", func(t *testing.T) {
		a := NewSymbol("blue")
		b := NewSymbol("blue")
		c := NewSymbol("red")

		if !a.Equal(b) {
			t.Error("symbols with the same name should be equal")
		}
		if a.Equal(c) {
			t.Error("symbols with different names should not be equal")
		}
	})

	t.Run("string representation", func(t *testing.T) {
		if NewSymbol("blue").String() != "blue" {
			t.Errorf("expected \"blue\", got %q", NewSymbol("blue").String())
		}
	})

	t.Run("is not an expression", func(t *testing.T) {
		if NewSymbol("blue").IsExpression() {
			t.Error("a symbol should never report IsExpression")
		}
	})
}

func TestVariable(t *testing.T) {
	t.Run("equal by name", func(t *testing.T) {
		if !NewVariable("x").Equal(NewVariable("x")) {
			t.Error("variables with the same name should be equal")
		}
		if NewVariable("x").Equal(NewVariable("y")) {
			t.Error("variables with different names should not be equal")
		}
	})

	t.Run("does not equal a symbol of the same name", func(t *testing.T) {
		if NewVariable("x").Equal(NewSymbol("x")) {
			t.Error("a variable should never equal a symbol")
		}
	})
}

func TestExpression(t *testing.T) {
	t.Run("IsPlain true when no child is an expression", func(t *testing.T) {
		e := NewExpression(NewSymbol("color"))
		if !e.IsPlain() {
			t.Error("expected expression with only symbol children to be plain")
		}
	})

	t.Run("IsPlain false when a child is an expression", func(t *testing.T) {
		e := NewExpression(NewSymbol("and"), NewExpression(NewSymbol("x"), NewSymbol("croaks")))
		if e.IsPlain() {
			t.Error("expected expression with an expression child to not be plain")
		}
	})

	t.Run("equal by structure", func(t *testing.T) {
		a := NewExpression(NewSymbol("eq"), NewVariable("x"), NewVariable("x"))
		b := NewExpression(NewSymbol("eq"), NewVariable("x"), NewVariable("x"))
		c := NewExpression(NewSymbol("eq"), NewVariable("x"), NewVariable("y"))

		if !a.Equal(b) {
			t.Error("structurally identical expressions should be equal")
		}
		if a.Equal(c) {
			t.Error("structurally different expressions should not be equal")
		}
	})

	t.Run("WithChild replaces a single child, leaving the rest", func(t *testing.T) {
		e := NewExpression(NewSymbol("plus"), NewSymbol("Z"), NewVariable("n"))
		replaced := e.WithChild(1, NewSymbol("S"))

		if got, _ := replaced.Child(1); !got.Equal(NewSymbol("S")) {
			t.Errorf("expected child 1 to be replaced, got %s", got)
		}
		if got, _ := replaced.Child(0); !got.Equal(NewSymbol("plus")) {
			t.Error("WithChild should not disturb other children")
		}
		if got, _ := e.Child(1); !got.Equal(NewSymbol("Z")) {
			t.Error("WithChild must not mutate the receiver")
		}
	})

	t.Run("String renders as parenthesized list", func(t *testing.T) {
		e := NewExpression(NewSymbol("Fritz"), NewSymbol("croaks"))
		if e.String() != "(Fritz croaks)" {
			t.Errorf("expected \"(Fritz croaks)\", got %q", e.String())
		}
	})
}

type stubGrounded struct{ tag string }

func (s stubGrounded) String() string { return s.tag }
func (s stubGrounded) EqualValue(other GroundedValue) bool {
	o, ok := other.(stubGrounded)
	return ok && o.tag == s.tag
}

func TestGrounded(t *testing.T) {
	t.Run("equal by wrapped value", func(t *testing.T) {
		a := NewGrounded(stubGrounded{"foo"})
		b := NewGrounded(stubGrounded{"foo"})
		c := NewGrounded(stubGrounded{"bar"})

		if !a.Equal(b) {
			t.Error("grounded atoms with equal values should be equal")
		}
		if a.Equal(c) {
			t.Error("grounded atoms with different values should not be equal")
		}
	})
}
