package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
)

func writeAxiomFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "axioms.metta")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAxiomsInto(t *testing.T) {
	t.Run("empty path is a no-op", func(t *testing.T) {
		var got []atom.Atom
		add := axiomAdder(func(lhs, rhs atom.Atom) error {
			got = append(got, lhs, rhs)
			return nil
		})
		require.NoError(t, loadAxiomsInto(add, ""))
		require.Empty(t, got)
	})

	t.Run("loads every (= lhs rhs) line into add", func(t *testing.T) {
		path := writeAxiomFile(t, "(= (color) blue)\n; comment\n(= (color) red)\n")
		var lhss, rhss []string
		add := axiomAdder(func(lhs, rhs atom.Atom) error {
			lhss = append(lhss, lhs.String())
			rhss = append(rhss, rhs.String())
			return nil
		})
		require.NoError(t, loadAxiomsInto(add, path))
		require.Equal(t, []string{"(color)", "(color)"}, lhss)
		require.Equal(t, []string{"blue", "red"}, rhss)
	})

	t.Run("rejects an axiom not headed by =", func(t *testing.T) {
		path := writeAxiomFile(t, "(color blue red)\n")
		err := loadAxiomsInto(axiomAdder(func(lhs, rhs atom.Atom) error { return nil }), path)
		require.Error(t, err)
	})

	t.Run("rejects an axiom with the wrong arity", func(t *testing.T) {
		path := writeAxiomFile(t, "(= (color))\n")
		err := loadAxiomsInto(axiomAdder(func(lhs, rhs atom.Atom) error { return nil }), path)
		require.Error(t, err)
	})

	t.Run("surfaces a missing file as an error", func(t *testing.T) {
		err := loadAxiomsInto(axiomAdder(func(lhs, rhs atom.Atom) error { return nil }), filepath.Join(t.TempDir(), "missing.metta"))
		require.Error(t, err)
	})
}

func TestLoadSpace(t *testing.T) {
	t.Run("defaults to an in-memory space fed from --axioms", func(t *testing.T) {
		axiomsPath = writeAxiomFile(t, "(= (color) blue)\n")
		badgerDir = ""
		defer func() { axiomsPath, badgerDir = "", "" }()

		kb, closeFn, err := loadSpace()
		require.NoError(t, err)
		defer closeFn()

		x := atom.NewVariable("X")
		query := atom.NewExpression(atom.NewSymbol("="), atom.NewExpression(atom.NewSymbol("color")), x)
		require.Len(t, kb.Query(query), 1)
	})

	t.Run("uses a badger-backed space when --badger-dir is set", func(t *testing.T) {
		axiomsPath = writeAxiomFile(t, "(= (color) blue)\n")
		badgerDir = t.TempDir()
		defer func() { axiomsPath, badgerDir = "", "" }()

		kb, closeFn, err := loadSpace()
		require.NoError(t, err)
		defer closeFn()

		x := atom.NewVariable("X")
		query := atom.NewExpression(atom.NewSymbol("="), atom.NewExpression(atom.NewSymbol("color")), x)
		require.Len(t, kb.Query(query), 1)
	})
}
