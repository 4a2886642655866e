// Package subexpr implements a cursor over an expression tree that can
// focus on one sub-term at a time, replace it, and rebuild the whole
// tree — the mechanism the rewriter uses to reduct one argument of an
// expression without losing track of where that argument sits.
package subexpr

import "github.com/OzCog/hyperon-experimental/pkg/atom"

// WalkKind selects how a Stream enumerates candidate positions.
type WalkKind int

const (
	// BottomUpDepthWalk visits every Expression descendant of the root,
	// deepest first and left to right among siblings, excluding the
	// root itself. Used to search for any sub-expression that can be
	// reducted when no single top-level argument reduction succeeds.
	BottomUpDepthWalk WalkKind = iota
	// FindNextSiblingWalk visits the root's immediate Expression
	// children, left to right, skipping any child that is not itself
	// an Expression (symbols, variables, and grounded atoms are already
	// in normal form and never need reducting).
	FindNextSiblingWalk
	// FindNextSiblingSkipLastWalk is FindNextSiblingWalk restricted to
	// all but the last child — used so the rewriter never reducts the
	// final argument of a match expression, which is a template rather
	// than a value.
	FindNextSiblingSkipLastWalk
)

// Stream is a cursor over root that enumerates a sequence of focus
// positions according to its WalkKind, allows reading and replacing the
// atom at the current position, and can rebuild the whole (possibly
// edited) tree.
type Stream struct {
	root  atom.Atom
	paths [][]int
	idx   int
}

// FromExpr builds a Stream over root using the given walk strategy.
func FromExpr(root atom.Atom, walk WalkKind) *Stream {
	var paths [][]int
	switch walk {
	case BottomUpDepthWalk:
		paths = bottomUpPaths(root, nil)
	case FindNextSiblingWalk:
		paths = siblingPaths(root, false)
	case FindNextSiblingSkipLastWalk:
		paths = siblingPaths(root, true)
	}
	return &Stream{root: root, paths: paths, idx: -1}
}

// Clone returns an independent copy of s; since Stream's internal path
// list is only ever read after construction, the copy can share it.
func (s *Stream) Clone() *Stream {
	return &Stream{root: s.root, paths: s.paths, idx: s.idx}
}

// Next advances the cursor to the next candidate position and returns
// the atom found there. ok is false once every position has been
// visited.
func (s *Stream) Next() (atom.Atom, bool) {
	if s.idx+1 >= len(s.paths) {
		return nil, false
	}
	s.idx++
	return s.Get(), true
}

// Get returns the atom at the cursor's current position. Panics if
// called before a successful Next.
func (s *Stream) Get() atom.Atom {
	return getAt(s.root, s.paths[s.idx])
}

// Set replaces the atom at the cursor's current position with next,
// rebuilding every ancestor Expression on the path back to the root.
func (s *Stream) Set(next atom.Atom) {
	s.root = setAt(s.root, s.paths[s.idx], next)
}

// IntoAtom returns the (possibly edited) whole tree.
func (s *Stream) IntoAtom() atom.Atom { return s.root }

func getAt(root atom.Atom, path []int) atom.Atom {
	cur := root
	for _, i := range path {
		expr := cur.(atom.Expression)
		cur = expr.Children[i]
	}
	return cur
}

func setAt(root atom.Atom, path []int, next atom.Atom) atom.Atom {
	if len(path) == 0 {
		return next
	}
	expr := root.(atom.Expression)
	child := setAt(expr.Children[path[0]], path[1:], next)
	return expr.WithChild(path[0], child)
}

// bottomUpPaths collects the path to every Expression descendant of the
// node at prefix, deepest first and left to right, excluding prefix
// itself.
func bottomUpPaths(node atom.Atom, prefix []int) [][]int {
	expr, ok := node.(atom.Expression)
	if !ok {
		return nil
	}
	var out [][]int
	for i, child := range expr.Children {
		childPath := append(append([]int(nil), prefix...), i)
		out = append(out, bottomUpPaths(child, childPath)...)
		if _, isExpr := child.(atom.Expression); isExpr {
			out = append(out, childPath)
		}
	}
	return out
}

// siblingPaths collects the immediate Expression children of the root,
// left to right, optionally excluding the final child.
func siblingPaths(root atom.Atom, skipLast bool) [][]int {
	expr, ok := root.(atom.Expression)
	if !ok {
		return nil
	}
	limit := len(expr.Children)
	if skipLast && limit > 0 {
		limit--
	}
	var out [][]int
	for i := 0; i < limit; i++ {
		if _, isExpr := expr.Children[i].(atom.Expression); isExpr {
			out = append(out, []int{i})
		}
	}
	return out
}
