package space

import (
	"sync"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
	"github.com/OzCog/hyperon-experimental/pkg/bindings"
)

// MemorySpace is an in-memory KnowledgeBase: a copy-on-write list of
// axioms indexed by the head symbol of each axiom's left-hand side, the
// same heuristic the teacher's Database.Query uses to narrow a scan
// before falling back to checking every fact — here there is exactly one
// indexable position (the functor of the left-hand side) rather than an
// arbitrary column.
type MemorySpace struct {
	mu        sync.RWMutex
	axioms    []Axiom
	byFunctor map[string][]int
	unindexed []int
}

// NewMemorySpace returns an empty MemorySpace.
func NewMemorySpace() *MemorySpace {
	return &MemorySpace{byFunctor: make(map[string][]int)}
}

// Add records a new axiom "(= lhs rhs)". Add is copy-on-write: it
// replaces the internal axiom slice rather than mutating shared
// backing arrays, so a Query result taken before Add is unaffected.
func (m *MemorySpace) Add(lhs, rhs atom.Atom) {
	m.mu.Lock()
	defer m.mu.Unlock()

	axioms := make([]Axiom, len(m.axioms), len(m.axioms)+1)
	copy(axioms, m.axioms)
	idx := len(axioms)
	axioms = append(axioms, Axiom{LHS: lhs, RHS: rhs})
	m.axioms = axioms

	if functor, ok := headFunctor(lhs); ok {
		m.byFunctor[functor] = append(append([]int(nil), m.byFunctor[functor]...), idx)
	} else {
		m.unindexed = append(append([]int(nil), m.unindexed...), idx)
	}
}

// Remove deletes every axiom equal to "(= lhs rhs)".
func (m *MemorySpace) Remove(lhs, rhs atom.Atom) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []Axiom
	for _, ax := range m.axioms {
		if ax.LHS.Equal(lhs) && ax.RHS.Equal(rhs) {
			continue
		}
		kept = append(kept, ax)
	}
	m.axioms = kept
	m.reindexLocked()
}

func (m *MemorySpace) reindexLocked() {
	m.byFunctor = make(map[string][]int)
	m.unindexed = nil
	for i, ax := range m.axioms {
		if functor, ok := headFunctor(ax.LHS); ok {
			m.byFunctor[functor] = append(m.byFunctor[functor], i)
		} else {
			m.unindexed = append(m.unindexed, i)
		}
	}
}

// headFunctor returns the name of lhs's leading Symbol, when lhs is an
// Expression whose first child is a Symbol — the one case MemorySpace
// can index on.
func headFunctor(lhs atom.Atom) (string, bool) {
	expr, ok := lhs.(atom.Expression)
	if !ok || len(expr.Children) == 0 {
		return "", false
	}
	sym, ok := expr.Children[0].(atom.Symbol)
	if !ok {
		return "", false
	}
	return sym.Name, true
}

// Query implements KnowledgeBase: it narrows to axioms whose indexed
// functor matches pattern's left-hand side when that is possible, and
// otherwise — the query's left-hand side begins with a Variable, or the
// axiom itself was stored unindexed — falls back to every remaining
// axiom.
func (m *MemorySpace) Query(pattern atom.Atom) []*bindings.Set {
	patternExpr, ok := pattern.(atom.Expression)
	if !ok {
		return nil
	}

	m.mu.RLock()
	axioms := m.axioms
	candidates := m.candidateIndicesLocked(patternExpr)
	m.mu.RUnlock()

	var out []*bindings.Set
	for _, i := range candidates {
		if b, ok := matchAxiom(patternExpr, axioms[i]); ok {
			out = append(out, b)
		}
	}
	return out
}

func (m *MemorySpace) candidateIndicesLocked(pattern atom.Expression) []int {
	if len(pattern.Children) != 3 {
		return allIndices(len(m.axioms))
	}
	functor, ok := headFunctor(pattern.Children[1])
	if !ok {
		return allIndices(len(m.axioms))
	}
	indices := append([]int(nil), m.byFunctor[functor]...)
	indices = append(indices, m.unindexed...)
	return indices
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
