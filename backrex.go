// Package backrex compiles parsed regex syntax trees into immutable,
// flattened transition graphs for a backtracking matcher.
//
// The pipeline has three stages:
//
//	parser (external) -> ast.Tree + ast.Analysis
//	nfa.Compile       -> *nfa.Builder (half-compiled, growable)
//	nfa.Finalize[S]   -> *nfa.Machine[S] (immutable, flat, width S)
//
// The automaton is an NFA extended with zero-width control transitions:
// captures, backreferences, atomic groups, lookaround, conditionals,
// subroutine calls and recursion, and backtracking-control verbs. Executing
// it against input is the matcher's job and out of scope here; nfa.Condition
// documents the contract each transition kind imposes on a matcher.
//
// Basic usage:
//
//	tree := ast.NewTree()
//	tree.SetRoot(tree.AddCapture(tree.AddString("abc"), "word"))
//	m, err := backrex.Compile(tree, ast.Analyze(tree))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range m.Transitions(m.StartState()) {
//	    fmt.Println(t.Cond)
//	}
//
// Machines are safe for concurrent use by any number of matchers; distinct
// compilations share no state and may run on separate goroutines.
package backrex

import (
	"errors"

	"github.com/coregx/backrex/ast"
	"github.com/coregx/backrex/nfa"
)

// ErrTooLarge indicates a pattern whose automaton does not fit the compact
// index width.
var ErrTooLarge = errors.New("automaton too large for compact index width")

// Compile compiles a tree into a machine at the default 32-bit index width.
func Compile(tree *ast.Tree, analysis ast.Analysis) (*nfa.Machine[uint32], error) {
	b, err := nfa.Compile(tree, analysis)
	if err != nil {
		return nil, err
	}
	return nfa.Finalize[uint32](b)
}

// CompileCompact compiles a tree into a machine at 16-bit index width,
// trading maximum automaton size for memory and cache footprint. Patterns
// whose automaton exceeds the width fail with ErrTooLarge.
func CompileCompact(tree *ast.Tree, analysis ast.Analysis) (*nfa.Machine[uint16], error) {
	b, err := nfa.Compile(tree, analysis)
	if err != nil {
		return nil, err
	}
	if !nfa.FitsIn[uint16](b) {
		return nil, ErrTooLarge
	}
	return nfa.Finalize[uint16](b)
}
