// Package sexpr reads the textual surface syntax used by axiom files and
// the CLI into atom.Atom values. The production atom representation
// (package atom) has no notion of syntax; parsing real MeTTa source is
// explicitly an external concern the rewriter never touches, but
// something has to turn text into atoms for the axiom files and REPL
// input this repository ships, so this is the minimal reader for that —
// the same role the teacher's test helpers (NewAtom/NewPair/List) play
// for building terms by hand, reshaped into something that reads them
// from text instead.
package sexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
	"github.com/OzCog/hyperon-experimental/pkg/grounded"
)

// Read parses exactly one atom from s. Variables are written with a
// leading '$' (e.g. "$x"); bare integers become grounded numbers;
// anything else not starting with '(' is a Symbol.
func Read(s string) (atom.Atom, error) {
	toks := tokenize(s)
	if len(toks) == 0 {
		return nil, fmt.Errorf("sexpr: empty input")
	}
	p := &parser{toks: toks}
	a, err := p.readAtom()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("sexpr: trailing input after %q", p.toks[p.pos])
	}
	return a, nil
}

// ReadAll parses every top-level atom in s, e.g. the contents of an
// axiom file containing one expression per line.
func ReadAll(s string) ([]atom.Atom, error) {
	var out []atom.Atom
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		a, err := Read(line)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func tokenize(s string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) readAtom() (atom.Atom, error) {
	if p.pos >= len(p.toks) {
		return nil, fmt.Errorf("sexpr: unexpected end of input")
	}
	tok := p.toks[p.pos]
	switch tok {
	case "(":
		p.pos++
		var children []atom.Atom
		for {
			if p.pos >= len(p.toks) {
				return nil, fmt.Errorf("sexpr: unterminated expression")
			}
			if p.toks[p.pos] == ")" {
				p.pos++
				return atom.NewExpression(children...), nil
			}
			child, err := p.readAtom()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
	case ")":
		return nil, fmt.Errorf("sexpr: unexpected ')'")
	default:
		p.pos++
		return leaf(tok), nil
	}
}

func leaf(tok string) atom.Atom {
	if strings.HasPrefix(tok, "$") && len(tok) > 1 {
		return atom.NewVariable(tok[1:])
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return atom.NewGrounded(grounded.Int(n))
	}
	return atom.NewSymbol(tok)
}
