// Package plan implements the reified execution plan the rewriter
// builds instead of recursing: every rewrite rule returns a Plan rather
// than calling the next rule directly, so an external driver can advance
// the computation one step at a time, pause it, or inspect it mid-flight.
//
// This is deliberately not goroutine-based. A Plan's Step method does a
// fixed amount of work and returns; nothing here spawns concurrent
// execution. Parallel models interleaving multiple independent sub-plans
// by advancing exactly one of them per Step call, never by running them
// on separate threads.
package plan

import (
	"fmt"

	"github.com/pkg/errors"
)

// Value is the opaque payload threaded between plan steps — the
// argument tuple a rule closed over, an intermediate result, or a final
// answer. Concrete callers (package interp) know its real shape.
type Value interface{}

// Func is a rule body: given its argument tuple, it decides what to do
// next and returns a StepResult describing that decision.
type Func func(args Value) StepResult

// PartialFunc is a rule body that has already been bound to some context
// and is waiting on one more Value — typically the result produced by
// whatever plan precedes it in a Sequence.
type PartialFunc func(ctx Value, input Value) StepResult

// Plan is a single unit of suspendable computation. Calling Step performs
// one bounded slice of work and returns what to do next.
type Plan interface {
	Step(input Value) StepResult
	fmt.Stringer
}

type resultKind int

const (
	kindExecute resultKind = iota
	kindReturn
	kindError
)

// StepResult is the outcome of advancing a Plan by one Step: either more
// work remains (Execute), the plan finished with a value (Return), or it
// finished with a failure (Error).
type StepResult struct {
	kind  resultKind
	plan  Plan
	value Value
	err   error
}

// Execute wraps a Plan that still has work to do.
func Execute(p Plan) StepResult { return StepResult{kind: kindExecute, plan: p} }

// Return wraps a plan's final, successful value.
func Return(v Value) StepResult { return StepResult{kind: kindReturn, value: v} }

// Err wraps a plan's final failure.
func Err(err error) StepResult { return StepResult{kind: kindError, err: err} }

// Errf is a convenience wrapper building an Err from a formatted message.
func Errf(format string, args ...interface{}) StepResult {
	return Err(errors.Errorf(format, args...))
}

// HasNext reports whether the plan execution has more steps to take.
func (r StepResult) HasNext() bool { return r.kind == kindExecute }

// Plan returns the next plan to step, if r is an Execute result.
func (r StepResult) Plan() (Plan, bool) {
	if r.kind != kindExecute {
		return nil, false
	}
	return r.plan, true
}

// Value returns the final value, if r is a Return result.
func (r StepResult) Value() (Value, bool) {
	if r.kind != kindReturn {
		return nil, false
	}
	return r.value, true
}

// Error returns the failure, if r is an Error result.
func (r StepResult) Error() (error, bool) {
	if r.kind != kindError {
		return nil, false
	}
	return r.err, true
}

func (r StepResult) String() string {
	switch r.kind {
	case kindExecute:
		return "Execute(" + r.plan.String() + ")"
	case kindReturn:
		return fmt.Sprintf("Return(%v)", r.value)
	case kindError:
		return fmt.Sprintf("Error(%s)", r.err)
	default:
		return "<invalid StepResult>"
	}
}

// Step advances step by exactly one call into its wrapped plan. It
// panics if step is already terminal — mirroring the driver contract in
// package interp, which never calls Step on a Return or Error result.
func Step(step StepResult) StepResult {
	switch step.kind {
	case kindExecute:
		return step.plan.Step(nil)
	case kindReturn:
		panic("plan: Step called on a Return result")
	case kindError:
		panic("plan: Step called on an Error result")
	default:
		panic("plan: Step called on an invalid StepResult")
	}
}

// applyPlan is a one-shot plan: calling Step invokes fn(args) and
// returns whatever StepResult it produces, whether or not input is
// already resolved will ever be examined again.
type applyPlan struct {
	fn   Func
	args Value
	name string
}

// Apply builds a Plan that, when stepped, invokes fn with the fixed
// argument tuple args.
func Apply(fn Func, args Value, name string) Plan {
	return applyPlan{fn: fn, args: args, name: name}
}

func (p applyPlan) Step(Value) StepResult { return p.fn(p.args) }

func (p applyPlan) String() string {
	if p.name == "" {
		return fmt.Sprintf("Apply(%v)", p.args)
	}
	return fmt.Sprintf("Apply[%s](%v)", p.name, p.args)
}

// partialApplyPlan waits for one more Value — the input passed to Step —
// to combine with its bound context before invoking fn.
type partialApplyPlan struct {
	fn   PartialFunc
	ctx  Value
	name string
}

// PartialApply builds a Plan that, when stepped with some input, invokes
// fn with (ctx, input).
func PartialApply(fn PartialFunc, ctx Value, name string) Plan {
	return partialApplyPlan{fn: fn, ctx: ctx, name: name}
}

func (p partialApplyPlan) Step(input Value) StepResult { return p.fn(p.ctx, input) }

func (p partialApplyPlan) String() string {
	if p.name == "" {
		return fmt.Sprintf("PartialApply(%v, _)", p.ctx)
	}
	return fmt.Sprintf("PartialApply[%s](%v, _)", p.name, p.ctx)
}

// sequencePlan runs p to completion, then feeds its Return value into q
// as q's Step input. If p errors, the whole sequence errors. q is
// expected to already be a (possibly partially-applied) Plan built to
// accept that value — typically the result of PartialApply.
type sequencePlan struct {
	p Plan
	q Plan
}

// Sequence builds a Plan that runs p, then hands its result to q.
func Sequence(p Plan, q Plan) Plan {
	return sequencePlan{p: p, q: q}
}

func (s sequencePlan) Step(input Value) StepResult {
	inner := s.p.Step(input)
	switch {
	case inner.kind == kindError:
		return inner
	case inner.kind == kindReturn:
		return s.q.Step(inner.value)
	default:
		next, _ := inner.Plan()
		return Execute(sequencePlan{p: next, q: s.q})
	}
}

func (s sequencePlan) String() string {
	return fmt.Sprintf("Sequence(%s, %s)", s.p, s.q)
}

// orPlan runs p; if p succeeds or keeps running, orPlan mirrors that. If
// p errors, orPlan switches over to fallback instead — the mechanism
// behind "interpret this, or fall back to some other plan (possibly just
// returning the original atom unchanged) if no rule fires". fallback is
// itself a StepResult rather than a plain value so the fallback branch
// can be an arbitrarily long sub-computation, not only an immediate
// answer.
type orPlan struct {
	p        Plan
	fallback StepResult
}

// Or builds a Plan that runs p, switching to fallback for any Error.
func Or(p Plan, fallback StepResult) Plan {
	return orPlan{p: p, fallback: fallback}
}

func (o orPlan) Step(input Value) StepResult {
	inner := o.p.Step(input)
	switch {
	case inner.kind == kindError:
		return o.fallback
	case inner.kind == kindReturn:
		return inner
	default:
		next, _ := inner.Plan()
		return Execute(orPlan{p: next, fallback: o.fallback})
	}
}

func (o orPlan) String() string {
	return fmt.Sprintf("Or(%s, %s)", o.p, o.fallback)
}

// Combine merges one sub-plan's Return value into a running accumulator.
type Combine func(acc Value, result Value) Value

// parallelPlan advances its sub-plans one at a time — never
// concurrently — combining each one's result into an accumulator as it
// finishes. The first sub-plan to error aborts the whole parallel plan.
type parallelPlan struct {
	subplans []Plan // nil entry means that slot already finished
	acc      Value
	combine  Combine
}

// Parallel builds a Plan that spawns one sub-plan per item via spawn,
// then advances them in slice order — each outer Step call steps the
// first sub-plan that has not yet finished, once — folding each finished
// sub-plan's value into acc via combine, starting from zero.
func Parallel(items []Value, zero Value, spawn func(Value) Plan, combine Combine) Plan {
	subplans := make([]Plan, len(items))
	for i, item := range items {
		subplans[i] = spawn(item)
	}
	return parallelPlan{subplans: subplans, acc: zero, combine: combine}
}

func (pp parallelPlan) Step(Value) StepResult {
	for i, sp := range pp.subplans {
		if sp == nil {
			continue
		}
		inner := sp.Step(nil)
		next := append([]Plan(nil), pp.subplans...)
		switch {
		case inner.kind == kindError:
			return inner
		case inner.kind == kindReturn:
			next[i] = nil
			acc := pp.combine(pp.acc, inner.value)
			if allDone(next) {
				return Return(acc)
			}
			return Execute(parallelPlan{subplans: next, acc: acc, combine: pp.combine})
		default:
			n, _ := inner.Plan()
			next[i] = n
			return Execute(parallelPlan{subplans: next, acc: pp.acc, combine: pp.combine})
		}
	}
	return Return(pp.acc)
}

func allDone(subplans []Plan) bool {
	for _, sp := range subplans {
		if sp != nil {
			return false
		}
	}
	return true
}

func (pp parallelPlan) String() string {
	pending := 0
	for _, sp := range pp.subplans {
		if sp != nil {
			pending++
		}
	}
	return fmt.Sprintf("Parallel(%d pending, acc=%v)", pending, pp.acc)
}
