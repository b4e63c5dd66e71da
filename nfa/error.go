// Package nfa provides the automaton representation and compiler of a
// backtracking regex engine.
//
// The compiler walks a parsed ast.Tree and emits states and transitions into
// a Builder, the growable half-compiled automaton. Finalize then flattens the
// builder into an immutable Machine at a caller-chosen index width. Each
// transition carries a Condition — one of a closed set of kinds covering
// consuming matches, zero-width assertions, captures, backreferences,
// subroutine calls, atomic and lookaround brackets, loop guards and
// backtracking-control verbs — which together define the contract an
// external backtracking matcher executes.
package nfa

import (
	"errors"
	"fmt"

	"github.com/coregx/backrex/ast"
)

// Common compilation errors
var (
	// ErrUnresolvedName indicates a named backreference, subroutine call or
	// condition whose name was never declared by a capture group.
	ErrUnresolvedName = errors.New("unresolved capture name")

	// ErrUnresolvedReference indicates a reference to a capture group number
	// that does not exist in the pattern.
	ErrUnresolvedReference = errors.New("unresolved group reference")

	// ErrDanglingSubroutine indicates a subroutine call whose target group
	// never occurs anywhere in the pattern, detected after the whole tree
	// has been walked (forward references are legal during the walk).
	ErrDanglingSubroutine = errors.New("dangling subroutine reference")

	// ErrNoRoot indicates the tree has no root node to compile.
	ErrNoRoot = errors.New("syntax tree has no root")

	// ErrTooComplex indicates compilation exceeded a configured limit
	// (nesting depth or automaton size).
	ErrTooComplex = errors.New("pattern too complex")
)

// CompileError wraps a compilation failure with the offending AST node.
type CompileError struct {
	Node  ast.NodeRef
	Name  string // referenced name, if any
	Group int    // referenced 1-based group number, if any
	Err   error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("compile error at node %d: %v: %q", e.Node, e.Err, e.Name)
	case e.Group != 0:
		return fmt.Sprintf("compile error at node %d: %v: group %d", e.Node, e.Err, e.Group)
	default:
		return fmt.Sprintf("compile error at node %d: %v", e.Node, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents a malformed half-compiled automaton detected by
// Builder.Validate.
type BuildError struct {
	Message string
	State   StateID[uint32]
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if !e.State.IsNone() {
		return fmt.Sprintf("automaton build error at %s: %s", e.State, e.Message)
	}
	return fmt.Sprintf("automaton build error: %s", e.Message)
}
