package space

import (
	"bytes"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
	"github.com/OzCog/hyperon-experimental/pkg/bindings"
	"github.com/OzCog/hyperon-experimental/pkg/sexpr"
)

// BadgerSpace is a KnowledgeBase backed by an embedded badger database,
// for axiom sets too large to keep comfortably in memory, or that should
// persist across runs. It answers the interpreter's open design question
// about sharing a knowledge base: rather than copying axioms by value
// into every call, callers share one *BadgerSpace handle and every Query
// opens its own short-lived read-only transaction, so nothing Query does
// can observe — or cause — a write made concurrently by another part of
// the program.
//
// Keys are "<functor>\x00<seq>" so a query with a known left-hand-side
// functor can prefix-scan instead of reading every axiom, mirroring
// MemorySpace's in-memory functor index. Axioms whose left-hand side
// does not start with a Symbol are stored under the reserved functor
// "\x01unindexed" and are always scanned.
type BadgerSpace struct {
	db  *badger.DB
	seq *badger.Sequence
}

const unindexedFunctor = "\x01unindexed"

// OpenBadgerSpace opens (creating if necessary) a badger database at
// dir to back a BadgerSpace.
func OpenBadgerSpace(dir string) (*BadgerSpace, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "space: opening badger database")
	}
	seq, err := db.GetSequence([]byte("metta-axiom-seq"), 100)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "space: allocating axiom sequence")
	}
	return &BadgerSpace{db: db, seq: seq}, nil
}

// Close releases the database handle.
func (b *BadgerSpace) Close() error {
	if err := b.seq.Release(); err != nil {
		return errors.Wrap(err, "space: releasing axiom sequence")
	}
	return b.db.Close()
}

// Add persists a new axiom "(= lhs rhs)".
func (b *BadgerSpace) Add(lhs, rhs atom.Atom) error {
	n, err := b.seq.Next()
	if err != nil {
		return errors.Wrap(err, "space: allocating axiom key")
	}
	functor, ok := headFunctor(lhs)
	if !ok {
		functor = unindexedFunctor
	}
	key := []byte(fmt.Sprintf("%s\x00%020d", functor, n))
	value := []byte(lhs.String() + "\x00" + rhs.String())
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Query implements KnowledgeBase. It opens one read-only transaction,
// prefix-scans the functor bucket implied by pattern's left-hand side
// (falling back to scanning every axiom when that is not determinable),
// and unifies each candidate before the transaction is discarded.
func (b *BadgerSpace) Query(pattern atom.Atom) []*bindings.Set {
	patternExpr, ok := pattern.(atom.Expression)
	if !ok || len(patternExpr.Children) != 3 {
		return nil
	}

	var out []*bindings.Set
	_ = b.db.View(func(txn *badger.Txn) error {
		prefixes := b.candidatePrefixes(patternExpr)
		seen := make(map[string]bool)
		for _, prefix := range prefixes {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				key := string(it.Item().KeyCopy(nil))
				if seen[key] {
					continue
				}
				seen[key] = true
				err := it.Item().Value(func(val []byte) error {
					ax, ok := decodeAxiom(val)
					if !ok {
						return nil
					}
					if binds, ok := matchAxiom(patternExpr, ax); ok {
						out = append(out, binds)
					}
					return nil
				})
				if err != nil {
					it.Close()
					return err
				}
			}
			it.Close()
		}
		return nil
	})
	return out
}

func (b *BadgerSpace) candidatePrefixes(pattern atom.Expression) [][]byte {
	if functor, ok := headFunctor(pattern.Children[1]); ok {
		return [][]byte{
			[]byte(functor + "\x00"),
			[]byte(unindexedFunctor + "\x00"),
		}
	}
	return [][]byte{nil} // empty prefix matches every key
}

func decodeAxiom(val []byte) (Axiom, bool) {
	parts := bytes.SplitN(val, []byte("\x00"), 2)
	if len(parts) != 2 {
		return Axiom{}, false
	}
	lhs, err := sexpr.Read(string(parts[0]))
	if err != nil {
		return Axiom{}, false
	}
	rhs, err := sexpr.Read(string(parts[1]))
	if err != nil {
		return Axiom{}, false
	}
	return Axiom{LHS: lhs, RHS: rhs}, true
}
