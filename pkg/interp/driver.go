package interp

import (
	"github.com/OzCog/hyperon-experimental/pkg/atom"
	"github.com/OzCog/hyperon-experimental/pkg/bindings"
	"github.com/OzCog/hyperon-experimental/pkg/plan"
	"github.com/OzCog/hyperon-experimental/pkg/space"
)

// InterpreterResult is the terminal outcome of a driver run: either the
// atoms a's interpretation reduced to, or the error that stopped it.
type InterpreterResult struct {
	Atoms []atom.Atom
	Err   error
}

// InterpretInit builds the initial StepResult for interpreting a against
// kb, starting from an empty binding set.
func InterpretInit(kb space.KnowledgeBase, a atom.Atom) plan.StepResult {
	return plan.Execute(InterpretOrDefault(kb, a, bindings.New()))
}

// InterpretStep advances step by exactly one call. Like the driver it
// wraps, it panics if step is already terminal — callers must check
// HasNext first.
func InterpretStep(step plan.StepResult) plan.StepResult {
	return plan.Step(step)
}

// HasNext reports whether step still has work to do.
func HasNext(step plan.StepResult) bool { return step.HasNext() }

// GetResult extracts the terminal outcome from step. ok is false if step
// is not yet terminal.
func GetResult(step plan.StepResult) (InterpreterResult, bool) {
	if v, isReturn := step.Value(); isReturn {
		result := v.(Result)
		atoms := make([]atom.Atom, len(result))
		for i, rb := range result {
			atoms[i] = rb.Atom
		}
		return InterpreterResult{Atoms: atoms}, true
	}
	if err, isError := step.Error(); isError {
		return InterpreterResult{Err: err}, true
	}
	return InterpreterResult{}, false
}

// Interpret runs the driver to completion on a single atom, returning
// the atoms it reduces to or the error that stopped interpretation.
func Interpret(kb space.KnowledgeBase, a atom.Atom) ([]atom.Atom, error) {
	step := InterpretInit(kb, a)
	for HasNext(step) {
		log.Debugf("current plan:\n%s", step)
		step = InterpretStep(step)
	}
	result, _ := GetResult(step)
	return result.Atoms, result.Err
}
