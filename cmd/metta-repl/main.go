// Package main provides a small command-line front end for the
// rewriter: load a file of equality axioms into a knowledge base, then
// interpret one or more expressions against it.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/OzCog/hyperon-experimental/pkg/atom"
	"github.com/OzCog/hyperon-experimental/pkg/interp"
	"github.com/OzCog/hyperon-experimental/pkg/sexpr"
	"github.com/OzCog/hyperon-experimental/pkg/space"
)

var (
	axiomsPath string
	badgerDir  string
	trace      bool
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "metta-repl",
		Short: "Interpret s-expressions against a knowledge base of equality axioms",
	}
	root.PersistentFlags().StringVar(&axiomsPath, "axioms", "", "path to a file of (= lhs rhs) axioms, one per line")
	root.PersistentFlags().StringVar(&badgerDir, "badger-dir", "", "use a persistent badger-backed knowledge base at this directory instead of in-memory")
	root.PersistentFlags().BoolVar(&trace, "trace", false, "print the plan shape after every driver step")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newEvalCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newAxiomsCmd())
	return root
}

func configureLogging() {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	interp.SetLogger(logrus.StandardLogger())
}

func loadSpace() (space.KnowledgeBase, func(), error) {
	if badgerDir != "" {
		bs, err := space.OpenBadgerSpace(badgerDir)
		if err != nil {
			return nil, nil, err
		}
		if err := loadAxiomsInto(axiomAdder(bs.Add), axiomsPath); err != nil {
			bs.Close()
			return nil, nil, err
		}
		return bs, func() { bs.Close() }, nil
	}

	ms := space.NewMemorySpace()
	if err := loadAxiomsInto(axiomAdder(func(lhs, rhs atom.Atom) error {
		ms.Add(lhs, rhs)
		return nil
	}), axiomsPath); err != nil {
		return nil, nil, err
	}
	return ms, func() {}, nil
}

type axiomAdder func(lhs, rhs atom.Atom) error

func loadAxiomsInto(add axiomAdder, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading axiom file: %w", err)
	}
	atoms, err := sexpr.ReadAll(string(data))
	if err != nil {
		return fmt.Errorf("parsing axiom file: %w", err)
	}
	for _, a := range atoms {
		expr, ok := a.(atom.Expression)
		if !ok || len(expr.Children) != 3 {
			return fmt.Errorf("axiom file: expected (= lhs rhs), found: %s", a)
		}
		if sym, ok := expr.Children[0].(atom.Symbol); !ok || sym.Name != space.EqSymbol {
			return fmt.Errorf("axiom file: expected '=' head, found: %s", a)
		}
		if err := add(expr.Children[1], expr.Children[2]); err != nil {
			return err
		}
	}
	return nil
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval [expression]",
		Short: "Interpret a single expression and print its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging()
			kb, closeFn, err := loadSpace()
			if err != nil {
				return err
			}
			defer closeFn()

			expr, err := sexpr.Read(args[0])
			if err != nil {
				return err
			}
			return evalAndPrint(kb, expr)
		},
	}
}

func evalAndPrint(kb space.KnowledgeBase, expr atom.Atom) error {
	var results []atom.Atom
	var interpErr error
	if trace {
		step := interp.InterpretInit(kb, expr)
		for interp.HasNext(step) {
			fmt.Println(color.CyanString(step.String()))
			step = interp.InterpretStep(step)
		}
		res, _ := interp.GetResult(step)
		results, interpErr = res.Atoms, res.Err
	} else {
		results, interpErr = interp.Interpret(kb, expr)
	}
	if interpErr != nil {
		return interpErr
	}
	printResults(results)
	return nil
}

func printResults(results []atom.Atom) {
	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"#", "Result"})
	for i, r := range results {
		table.Append([]string{fmt.Sprintf("%d", i+1), r.String()})
	}
	table.Render()
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read expressions from stdin, one per line, and print their interpretation",
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging()
			kb, closeFn, err := loadSpace()
			if err != nil {
				return err
			}
			defer closeFn()

			scanner := bufio.NewScanner(os.Stdin)
			fmt.Println(color.GreenString("metta-repl ready (Ctrl-D to exit)"))
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := scanner.Text()
				if line == "" {
					continue
				}
				expr, err := sexpr.Read(line)
				if err != nil {
					fmt.Fprintln(os.Stderr, color.RedString("parse error: %v", err))
					continue
				}
				if err := evalAndPrint(kb, expr); err != nil {
					fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
				}
			}
		},
	}
}

func newAxiomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "axioms",
		Short: "Print every axiom loaded from the --axioms file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if axiomsPath == "" {
				return fmt.Errorf("--axioms is required")
			}
			data, err := os.ReadFile(axiomsPath)
			if err != nil {
				return err
			}
			atoms, err := sexpr.ReadAll(string(data))
			if err != nil {
				return err
			}
			table := tablewriter.NewTable(os.Stdout)
			table.Header([]string{"LHS", "RHS"})
			for _, a := range atoms {
				expr, ok := a.(atom.Expression)
				if !ok || len(expr.Children) != 3 {
					continue
				}
				table.Append([]string{expr.Children[1].String(), expr.Children[2].String()})
			}
			table.Render()
			return nil
		},
	}
}
