// Package interp implements the rewriter: a family of mutually recursive
// rules, each returning a plan.Plan instead of calling the next rule
// directly, so the whole rewrite of an atom can be driven one step at a
// time by package plan's single-threaded driver.
package interp

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
	"github.com/OzCog/hyperon-experimental/pkg/bindings"
	"github.com/OzCog/hyperon-experimental/pkg/grounded"
	"github.com/OzCog/hyperon-experimental/pkg/plan"
	"github.com/OzCog/hyperon-experimental/pkg/space"
	"github.com/OzCog/hyperon-experimental/pkg/subexpr"
)

// log is the package-level logger every rule traces through, mirroring
// the original's log::debug!/log::trace! call sites. Override it with
// SetLogger to route trace output elsewhere.
var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger rules trace through.
func SetLogger(l logrus.FieldLogger) { log = l }

// Sentinel errors a caller can compare against with errors.Is — the
// three failure conditions the rewriter treats as ordinary, recoverable
// outcomes rather than internal bugs.
var (
	ErrMatchNotFound     = errors.New("Match is not found")
	ErrNoReductedResults = errors.New("No results for reducted found")
	ErrNopSpecialCase    = errors.New("NOP special case")
)

// ResultBinding pairs one alternative result atom with the bindings that
// produced it.
type ResultBinding struct {
	Atom     atom.Atom
	Bindings *bindings.Set
}

// Result is the value every rule threads through plan.Return: the set of
// (atom, bindings) alternatives interpretation has produced so far.
type Result []ResultBinding

func mergeResults(acc plan.Value, r plan.Value) plan.Value {
	accR := acc.(Result)
	rR := r.(Result)
	out := make(Result, 0, len(accR)+len(rR))
	out = append(out, accR...)
	out = append(out, rR...)
	return out
}

func isGroundedExpr(expr atom.Expression) bool {
	if len(expr.Children) == 0 {
		return false
	}
	_, ok := expr.Children[0].(atom.Grounded)
	return ok
}

// ruleArgs is the argument tuple shared by every rule that closes over
// (knowledge base, atom, bindings): InterpretOrDefault, Interpret,
// InterpretReducted, ReductArgs, and Match.
type ruleArgs struct {
	KB       space.KnowledgeBase
	Atom     atom.Atom
	Bindings *bindings.Set
}

// InterpretOrDefault tries to Interpret a, falling back to a itself
// (substituted by bindings, but otherwise unchanged) if no rule applies.
// Every recursive call into the rewriter funnels through this rule,
// which is why it — not Interpret — is the one InterpretInit starts
// from.
func InterpretOrDefault(kb space.KnowledgeBase, a atom.Atom, b *bindings.Set) plan.Plan {
	return plan.Apply(interpretOrDefaultOp, ruleArgs{kb, a, b}, "interpret_or_default")
}

func interpretOrDefaultOp(v plan.Value) plan.StepResult {
	args := v.(ruleArgs)
	log.Debugf("interpret_or_default_op: %s, %s", args.Atom, args.Bindings)
	substituted := bindings.Apply(args.Atom, args.Bindings)
	fallback := plan.Return(Result{{Atom: substituted, Bindings: args.Bindings}})
	return plan.Execute(plan.Or(Interpret(args.KB, substituted, args.Bindings), fallback))
}

// Interpret dispatches on the shape of a: non-expressions are already in
// normal form; plain expressions (no expression children) go straight
// to InterpretReducted; expressions headed by a grounded atom reduct
// their arguments before executing; everything else tries a direct
// knowledge-base match, falling back to reducting one sub-expression at
// a time when no axiom matches outright.
func Interpret(kb space.KnowledgeBase, a atom.Atom, b *bindings.Set) plan.Plan {
	return plan.Apply(interpretOp, ruleArgs{kb, a, b}, "interpret")
}

func interpretOp(v plan.Value) plan.StepResult {
	args := v.(ruleArgs)
	log.Debugf("interpret_op: %s, %s", args.Atom, args.Bindings)
	expr, ok := args.Atom.(atom.Expression)
	if !ok {
		return plan.Return(Result{{Atom: args.Atom, Bindings: args.Bindings}})
	}
	if expr.IsPlain() {
		return plan.Execute(InterpretReducted(args.KB, args.Atom, args.Bindings))
	}
	if isGroundedExpr(expr) {
		return plan.Execute(ReductArgs(args.KB, args.Atom, args.Bindings))
	}
	fallback := reductArgByArgPlan(args.KB, args.Atom, args.Bindings)
	seq := plan.Sequence(
		plan.Or(Match(args.KB, args.Atom, args.Bindings), fallback),
		plan.PartialApply(interpretResultsFurtherOp, args.KB, "interpret_results_further"),
	)
	return plan.Execute(seq)
}

// InterpretReducted interprets an already-argument-reduced expression:
// grounded expressions are executed directly, everything else is
// matched against the knowledge base.
func InterpretReducted(kb space.KnowledgeBase, a atom.Atom, b *bindings.Set) plan.Plan {
	return plan.Apply(interpretReductedOp, ruleArgs{kb, a, b}, "interpret_reducted")
}

func interpretReductedOp(v plan.Value) plan.StepResult {
	args := v.(ruleArgs)
	substituted := bindings.Apply(args.Atom, args.Bindings)
	log.Debugf("interpret_reducted_op: %s", substituted)
	expr, ok := substituted.(atom.Expression)
	if !ok {
		return plan.Errf("Expression is expected")
	}
	if isGroundedExpr(expr) {
		seq := plan.Sequence(
			Execute(substituted, args.Bindings),
			plan.PartialApply(interpretResultsFurtherOp, args.KB, "interpret_results_further"),
		)
		return plan.Execute(seq)
	}
	seq := plan.Sequence(
		Match(args.KB, substituted, args.Bindings),
		plan.PartialApply(interpretResultsFurtherOp, args.KB, "interpret_results_further"),
	)
	return plan.Execute(seq)
}

// interpretResultsFurtherOp re-enters InterpretOrDefault on every
// alternative a prior step produced, in parallel (interleaved, not
// concurrently — see package plan), merging their results back together.
func interpretResultsFurtherOp(ctx plan.Value, input plan.Value) plan.StepResult {
	kb := ctx.(space.KnowledgeBase)
	result := input.(Result)
	items := make([]plan.Value, len(result))
	for i, rb := range result {
		items[i] = rb
	}
	return plan.Execute(plan.Parallel(items, Result{}, func(item plan.Value) plan.Plan {
		rb := item.(ResultBinding)
		return InterpretOrDefault(kb, rb.Atom, rb.Bindings)
	}, mergeResults))
}

// reductArgByArgArgs is the argument tuple of reductArgByArgOp, one step
// of the bottom-up search; reductArgByArgCtx is what its continuation,
// interpretAfterArgReductionOp, closes over.
type reductArgByArgArgs struct {
	KB       space.KnowledgeBase
	Iter     *subexpr.Stream
	Bindings *bindings.Set
}

type reductArgByArgCtx struct {
	KB   space.KnowledgeBase
	Iter *subexpr.Stream
}

// reductArgByArgPlan builds the bottom-up search used when neither a
// direct knowledge-base match nor a grounded reduction applies: try
// reducting each sub-expression of expr, deepest first, until one of
// them lets the whole expression interpret further.
func reductArgByArgPlan(kb space.KnowledgeBase, expr atom.Atom, b *bindings.Set) plan.StepResult {
	log.Debugf("reduct_arg_by_arg_plan: %s", expr)
	if _, ok := expr.(atom.Expression); !ok {
		panic(fmt.Sprintf("Atom::Expression is expected as an argument, found: %s", expr))
	}
	iter := subexpr.FromExpr(expr, subexpr.BottomUpDepthWalk)
	return reductArgByArgOp(reductArgByArgArgs{KB: kb, Iter: iter, Bindings: b})
}

func reductArgByArgOp(v plan.Value) plan.StepResult {
	args := v.(reductArgByArgArgs)
	working := args.Iter.Clone()
	next, ok := working.Next()
	if !ok {
		return plan.Err(ErrNoReductedResults)
	}
	ctx := reductArgByArgCtx{KB: args.KB, Iter: working}
	seq := plan.Sequence(
		InterpretReducted(args.KB, next, args.Bindings),
		plan.PartialApply(interpretAfterArgReductionOp, ctx, "interpret_after_arg_reduction"),
	)
	fallback := plan.Execute(plan.Apply(reductArgByArgOp,
		reductArgByArgArgs{KB: args.KB, Iter: working, Bindings: args.Bindings},
		"reduct_arg_by_arg"))
	return plan.Execute(plan.Or(seq, fallback))
}

func interpretAfterArgReductionOp(ctx plan.Value, input plan.Value) plan.StepResult {
	c := ctx.(reductArgByArgCtx)
	result := input.(Result)
	log.Debugf("interpret_after_arg_reduction_op: reduction_result: %v", result)
	if len(result) == 0 {
		// Reducting the next candidate instead of treating this as fatal
		// is what lets a grounded atom like NOP — which is not reducted
		// when it appears inside an expression, but returns nothing when
		// executed — flow through the rewriter without aborting it.
		return plan.Err(ErrNopSpecialCase)
	}
	items := make([]plan.Value, len(result))
	for i, rb := range result {
		items[i] = rb
	}
	return plan.Execute(plan.Parallel(items, Result{}, func(item plan.Value) plan.Plan {
		rb := item.(ResultBinding)
		iterCopy := c.Iter.Clone()
		iterCopy.Set(rb.Atom)
		return InterpretOrDefault(c.KB, iterCopy.IntoAtom(), rb.Bindings)
	}, mergeResults))
}

type reductNextArgCtx struct {
	KB   space.KnowledgeBase
	Iter *subexpr.Stream
}

// ReductArgs reducts the immediate expression-valued arguments of a
// grounded-headed expression one at a time, left to right, before the
// expression is executed.
func ReductArgs(kb space.KnowledgeBase, a atom.Atom, b *bindings.Set) plan.Plan {
	return plan.Apply(reductArgsOp, ruleArgs{kb, a, b}, "reduct_args")
}

func reductArgsOp(v plan.Value) plan.StepResult {
	args := v.(ruleArgs)
	log.Debugf("reduct_args_op: %s", args.Atom)
	expr, ok := args.Atom.(atom.Expression)
	if !ok {
		return plan.Errf("Atom::Expression is expected as an argument, found: %s", args.Atom)
	}
	walk := subexpr.FindNextSiblingWalk
	if len(expr.Children) > 0 {
		// TODO: remove this special case once atom types can express
		// that match's last argument is a template, not a value to reduct.
		if expr.Children[0].String() == "match" {
			if tl, ok := log.(logrus.Ext1FieldLogger); ok {
				tl.Trace("skip reducing the last argument of the match")
			}
			walk = subexpr.FindNextSiblingSkipLastWalk
		}
	}
	iter := subexpr.FromExpr(args.Atom, walk)
	sub, ok := iter.Next()
	if !ok {
		panic("Non plain expression expected")
	}
	seq := plan.Sequence(
		InterpretOrDefault(args.KB, sub, args.Bindings),
		plan.PartialApply(reductNextArgOp, reductNextArgCtx{KB: args.KB, Iter: iter}, "reduct_next_arg"),
	)
	return plan.Execute(seq)
}

func reductNextArgOp(ctx plan.Value, input plan.Value) plan.StepResult {
	c := ctx.(reductNextArgCtx)
	results := input.(Result)
	items := make([]plan.Value, len(results))
	for i, rb := range results {
		items[i] = rb
	}
	return plan.Execute(plan.Parallel(items, Result{}, func(item plan.Value) plan.Plan {
		rb := item.(ResultBinding)
		iterCopy := c.Iter.Clone()
		iterCopy.Set(rb.Atom)
		nextSub, hasNext := iterCopy.Next()
		if hasNext {
			return plan.Sequence(
				InterpretOrDefault(c.KB, nextSub, rb.Bindings),
				plan.PartialApply(reductNextArgOp, reductNextArgCtx{KB: c.KB, Iter: iterCopy}, "reduct_next_arg"),
			)
		}
		return InterpretReducted(c.KB, iterCopy.IntoAtom(), rb.Bindings)
	}, mergeResults))
}

type executeArgs struct {
	Atom     atom.Atom
	Bindings *bindings.Set
}

// Execute invokes the grounded operation heading expr with the
// remaining children as arguments.
func Execute(expr atom.Atom, b *bindings.Set) plan.Plan {
	return plan.Apply(executeOp, executeArgs{expr, b}, "execute")
}

func executeOp(v plan.Value) plan.StepResult {
	args := v.(executeArgs)
	log.Debugf("execute_op: %s", args.Atom)
	expr, ok := args.Atom.(atom.Expression)
	if !ok {
		return plan.Errf("Unexpected non expression argument: %s", args.Atom)
	}
	if len(expr.Children) == 0 {
		return plan.Errf("Trying to execute non grounded atom: %s", expr)
	}
	g, ok := expr.Children[0].(atom.Grounded)
	if !ok {
		return plan.Errf("Trying to execute non grounded atom: %s", expr)
	}
	op, ok := g.Value.(grounded.Atom)
	if !ok {
		return plan.Errf("Trying to execute non grounded atom: %s", expr)
	}
	results, err := op.Execute(expr.Children[1:])
	if err != nil {
		return plan.Err(err)
	}
	out := make(Result, len(results))
	for i, r := range results {
		out[i] = ResultBinding{Atom: r, Bindings: args.Bindings}
	}
	return plan.Return(out)
}

// Match queries kb for every axiom "(= expr X)" and returns one
// alternative per axiom whose left-hand side unifies with expr, X bound
// to that axiom's right-hand side and composed into prevBindings.
func Match(kb space.KnowledgeBase, expr atom.Atom, prevBindings *bindings.Set) plan.Plan {
	return plan.Apply(matchOp, ruleArgs{kb, expr, prevBindings}, "match")
}

func matchOp(v plan.Value) plan.StepResult {
	args := v.(ruleArgs)
	log.Debugf("match_op: %s", args.Atom)
	varX := atom.NewVariable("X")
	query := atom.NewExpression(atom.NewSymbol("="), args.Atom, varX)
	candidates := args.KB.Query(query)

	var results Result
	for _, binding := range candidates {
		resultRaw, ok := binding.Lookup("X")
		if !ok {
			continue
		}
		rest := binding.Remove("X")
		resultAtom := rest.Apply(resultRaw)
		composed, ok := rest.Compose(args.Bindings)
		if !ok {
			continue
		}
		log.Debugf("match_op: query: %s, binding: %s, result: %s", args.Atom, composed, resultAtom)
		results = append(results, ResultBinding{Atom: resultAtom, Bindings: composed})
	}
	if len(results) == 0 {
		return plan.Err(ErrMatchNotFound)
	}
	return plan.Return(results)
}
