package nfa

import (
	"github.com/coregx/backrex/ast"
)

// statePair is a capture group's first-occurrence sub-graph: the states the
// group's body was compiled between, used as subroutine jump targets.
type statePair struct {
	start, end StateID[uint32]
}

// pendingJump is a subroutine call emitted before its target group was
// compiled. The jump's callee target is patched when the group records its
// first occurrence; entries still pending after the whole tree has been
// walked are dangling references.
type pendingJump struct {
	transition TransitionID[uint32]
	capture    CaptureID[uint32] // invalid for named calls not yet resolved
	name       NameID[uint32]    // invalid for numbered calls
	node       ast.NodeRef
	group      int
	nameStr    string
}

// CompilerConfig configures compilation limits.
type CompilerConfig struct {
	// MaxRecursionDepth limits AST nesting during compilation to prevent
	// stack overflow. Default: 100.
	MaxRecursionDepth int

	// MaxStates aborts compilation when the automaton grows past it;
	// bounded repetitions expand to one copy per count, so hostile bounds
	// can otherwise exhaust memory. Default: 1 << 20.
	MaxStates int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults.
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRecursionDepth: 100,
		MaxStates:         1 << 20,
	}
}

// Compiler turns a parsed ast.Tree into a half-compiled automaton. One
// compiler processes one tree per Compile call; independent compilations
// share nothing and may run concurrently on separate goroutines.
type Compiler struct {
	config   CompilerConfig
	tree     *ast.Tree
	analysis ast.Analysis
	builder  *Builder
	depth    int

	// first holds each capture's first-occurrence states, indexed by capture.
	first []statePair

	// captureOf memoizes the capture assigned to a group node, so a node
	// compiled more than once (repetition expansion) keeps its index.
	captureOf   map[ast.NodeRef]CaptureID[uint32]
	nextCapture int

	pending []pendingJump

	// fail is the shared failure sink, materialized by the first fail verb
	// or negative lookaround.
	fail StateID[uint32]

	// end is the overall end state, the target of accept verbs.
	end StateID[uint32]
}

// NewCompiler creates a compiler with the given configuration.
// Zero-valued limits are replaced by their defaults.
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = 100
	}
	if config.MaxStates == 0 {
		config.MaxStates = 1 << 20
	}
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a compiler with the default configuration.
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile walks the tree and produces the half-compiled automaton. Any
// accepted path from the builder's start state to its end state corresponds
// exactly to the pattern matching. The failure modes are unresolved names,
// dangling subroutine references and exceeded compilation limits; every
// other well-formed node has a total compilation strategy.
func Compile(tree *ast.Tree, analysis ast.Analysis) (*Builder, error) {
	return NewDefaultCompiler().Compile(tree, analysis)
}

// Compile implements the package-level Compile on a reusable compiler value.
func (c *Compiler) Compile(tree *ast.Tree, analysis ast.Analysis) (*Builder, error) {
	if tree == nil || tree.Root().IsNone() {
		return nil, ErrNoRoot
	}

	c.tree = tree
	c.analysis = analysis
	c.builder = NewBuilder()
	c.first = make([]statePair, 0, analysis.CaptureCount)
	c.captureOf = make(map[ast.NodeRef]CaptureID[uint32])
	c.nextCapture = 0
	c.pending = nil
	c.fail = NoState[uint32]()
	c.depth = 0

	names, markers := collectTables(tree)
	c.builder.SetNameTable(names)
	c.builder.SetMarkerNames(markers)

	start := c.builder.CreateState()
	end := c.builder.CreateState()
	c.builder.SetStarts(start, end)
	c.end = end

	if err := c.compileNode(tree.Root(), start, end); err != nil {
		return nil, err
	}

	// Forward references were legal during the walk; whatever is still
	// unresolved now references a group that never occurs.
	if len(c.pending) > 0 {
		p := c.pending[0]
		return nil, &CompileError{
			Node:  p.node,
			Name:  p.nameStr,
			Group: p.group,
			Err:   ErrDanglingSubroutine,
		}
	}
	return c.builder, nil
}

// collectTables walks the tree once before compilation, gathering every
// capture name and marker name. Both tables are sorted so handles issued
// during compilation are stable binary-search indices.
func collectTables(tree *ast.Tree) (names, markers []string) {
	seen := make(map[ast.NodeRef]bool)
	var walk func(ref ast.NodeRef)
	walk = func(ref ast.NodeRef) {
		n := tree.Node(ref)
		if n == nil || seen[ref] {
			return
		}
		seen[ref] = true
		switch n.Kind() {
		case ast.KindGroup:
			if n.Capturing() && n.Name() != "" {
				names = append(names, n.Name())
			}
		case ast.KindVerb:
			if n.Marker() != "" {
				markers = append(markers, n.Marker())
			}
		}
		for _, child := range n.Children() {
			walk(child)
		}
		walk(n.Child())
		walk(n.Cond())
		yes, no := n.Branches()
		walk(yes)
		walk(no)
	}
	walk(tree.Root())
	return names, markers
}

// compileNode emits transitions between start and end so that any accepted
// path from start to end corresponds exactly to the node matching.
func (c *Compiler) compileNode(ref ast.NodeRef, start, end StateID[uint32]) error {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.config.MaxRecursionDepth {
		return &CompileError{Node: ref, Err: ErrTooComplex}
	}
	if c.builder.StateCount() > c.config.MaxStates {
		return &CompileError{Node: ref, Err: ErrTooComplex}
	}

	n := c.tree.Node(ref)
	if n == nil {
		// Absent subtree matches the empty string.
		c.epsilon(start, end)
		return nil
	}

	switch n.Kind() {
	case ast.KindError, ast.KindFeature:
		// The parser already reported the problem; keep the graph connected
		// so the rest of the pattern stays compilable.
		c.epsilon(start, end)
		return nil

	case ast.KindLiteral:
		c.builder.CreateTransition(start, end, Literal[uint32](n.Runes(), n.FoldCase()))
		return nil

	case ast.KindCharClass:
		c.builder.CreateTransition(start, end, CharClass[uint32](n.Class(), n.Negate(), n.FoldCase()))
		return nil

	case ast.KindSequence:
		return c.compileSequence(n.Children(), start, end)

	case ast.KindAlternative:
		return c.compileAlternative(n.Children(), start, end)

	case ast.KindRepetition:
		return c.compileRepetition(n, start, end)

	case ast.KindGroup:
		return c.compileGroup(ref, n, start, end)

	case ast.KindAtomicGroup:
		inner := c.builder.CreateState()
		exit := c.builder.CreateState()
		c.builder.CreateTransition(start, inner, ZeroWidth[uint32](KindPushAtomic))
		if err := c.compileNode(n.Child(), inner, exit); err != nil {
			return err
		}
		c.builder.CreateTransition(exit, end, ZeroWidth[uint32](KindPopAtomic))
		return nil

	case ast.KindSimpleAssertion:
		c.builder.CreateTransition(start, end, SimpleAssertion[uint32](n.Assertion()))
		return nil

	case ast.KindClassAssertion:
		c.builder.CreateTransition(start, end, ClassAssertion[uint32](n.Class(), !n.Negate()))
		return nil

	case ast.KindLookaround:
		return c.compileLookaround(n.Child(), n.Behind(), n.Width(), n.Negate(), start, end)

	case ast.KindBackreference:
		return c.compileBackreference(ref, n, start, end)

	case ast.KindSubroutineCall:
		return c.compileSubroutineCall(ref, n, start, end)

	case ast.KindConditional:
		return c.compileConditional(ref, n, start, end)

	case ast.KindVerb:
		return c.compileVerb(n, start, end)

	case ast.KindResetMatchStart:
		c.builder.CreateTransition(start, end, ZeroWidth[uint32](KindResetMatchStart))
		return nil

	default:
		// Unknown kinds behave like feature placeholders.
		c.epsilon(start, end)
		return nil
	}
}

// epsilon emits the always-succeeding zero-width transition.
func (c *Compiler) epsilon(start, end StateID[uint32]) {
	c.builder.CreateTransition(start, end, Epsilon[uint32]())
}

func (c *Compiler) compileSequence(children []ast.NodeRef, start, end StateID[uint32]) error {
	if len(children) == 0 {
		c.epsilon(start, end)
		return nil
	}
	cur := start
	for i, child := range children {
		next := end
		if i < len(children)-1 {
			next = c.builder.CreateState()
		}
		if err := c.compileNode(child, cur, next); err != nil {
			return err
		}
		cur = next
	}
	return nil
}

// compileAlternative compiles every branch between the same shared start and
// end, in source order. Branch preference falls out of transition order: the
// first branch's transitions attach to start first.
func (c *Compiler) compileAlternative(branches []ast.NodeRef, start, end StateID[uint32]) error {
	if len(branches) == 0 {
		c.epsilon(start, end)
		return nil
	}
	for _, branch := range branches {
		if err := c.compileNode(branch, start, end); err != nil {
			return err
		}
	}
	return nil
}

// compileRepetition expands a {min,max} quantifier. A possessive quantifier
// is the greedy expansion inside an implicit atomic bracket.
func (c *Compiler) compileRepetition(n *ast.Node, start, end StateID[uint32]) error {
	min, max := n.Bounds()
	if n.Quantifier() == ast.Possessive {
		inner := c.builder.CreateState()
		exit := c.builder.CreateState()
		c.builder.CreateTransition(start, inner, ZeroWidth[uint32](KindPushAtomic))
		if err := c.compileRepetitionCore(n.Child(), min, max, true, inner, exit); err != nil {
			return err
		}
		c.builder.CreateTransition(exit, end, ZeroWidth[uint32](KindPopAtomic))
		return nil
	}
	return c.compileRepetitionCore(n.Child(), min, max, n.Quantifier() == ast.Greedy, start, end)
}

// compileRepetitionCore chains min mandatory copies of the body, then either
// a bounded tail of optional copies (each with an enter/skip choice ordered
// by greediness) or an open-ended loop. The loop body sits between a
// push_position/check_infinite_loop pair so a zero-width iteration cannot
// spin forever.
func (c *Compiler) compileRepetitionCore(body ast.NodeRef, min, max int, greedy bool, start, end StateID[uint32]) error {
	cur := start
	for i := 0; i < min; i++ {
		next := end
		if !(max == min && i == min-1) {
			next = c.builder.CreateState()
		}
		if err := c.compileNode(body, cur, next); err != nil {
			return err
		}
		cur = next
	}

	if max == min {
		if min == 0 {
			c.epsilon(start, end)
		}
		return nil
	}

	if max == ast.Unbounded {
		loop := c.builder.CreateState()
		c.epsilon(cur, loop)
		bodyStart := c.builder.CreateState()
		bodyEnd := c.builder.CreateState()
		if greedy {
			c.builder.CreateTransition(loop, bodyStart, ZeroWidth[uint32](KindPushPosition))
			c.epsilon(loop, end)
		} else {
			c.epsilon(loop, end)
			c.builder.CreateTransition(loop, bodyStart, ZeroWidth[uint32](KindPushPosition))
		}
		if err := c.compileNode(body, bodyStart, bodyEnd); err != nil {
			return err
		}
		c.builder.CreateTransition(bodyEnd, loop, ZeroWidth[uint32](KindCheckInfiniteLoop))
		return nil
	}

	// Optional copies. Skipping one jumps straight to end, so a later copy
	// can never run without every earlier one having matched.
	for i := min; i < max; i++ {
		next := end
		if i < max-1 {
			next = c.builder.CreateState()
		}
		if greedy {
			if err := c.compileNode(body, cur, next); err != nil {
				return err
			}
			c.epsilon(cur, end)
		} else {
			c.epsilon(cur, end)
			if err := c.compileNode(body, cur, next); err != nil {
				return err
			}
		}
		cur = next
	}
	return nil
}

func (c *Compiler) compileGroup(ref ast.NodeRef, n *ast.Node, start, end StateID[uint32]) error {
	if !n.Capturing() {
		return c.compileNode(n.Child(), start, end)
	}

	capture := c.captureFor(ref, n.Name())
	inner := c.builder.CreateState()
	exit := c.builder.CreateState()
	c.builder.CreateTransition(start, inner, CaptureBegin(capture))
	if err := c.compileNode(n.Child(), inner, exit); err != nil {
		return err
	}
	c.builder.CreateTransition(exit, end, CaptureEnd[uint32]())
	c.recordFirstOccurrence(capture, inner, exit)
	return nil
}

// captureFor assigns (or recalls) the dense capture index of a group node
// and registers it with the name registry on first assignment.
func (c *Compiler) captureFor(ref ast.NodeRef, name string) CaptureID[uint32] {
	if capture, ok := c.captureOf[ref]; ok {
		return capture
	}
	capture := MakeCaptureID[uint32](c.nextCapture)
	c.nextCapture++
	c.captureOf[ref] = capture

	nameID := NoName[uint32]()
	if name != "" {
		nameID = c.builder.Names().Lookup(name)
	}
	c.builder.RegisterCapture(capture, nameID)
	return capture
}

// recordFirstOccurrence stores a capture's first-occurrence states and
// retargets every deferred jump that was waiting for them. A named call
// resolves only against the lowest-numbered capture bearing its name.
func (c *Compiler) recordFirstOccurrence(capture CaptureID[uint32], start, end StateID[uint32]) {
	for len(c.first) <= capture.Index() {
		c.first = append(c.first, statePair{start: NoState[uint32](), end: NoState[uint32]()})
	}
	if !c.first[capture.Index()].start.IsNone() {
		return
	}
	c.first[capture.Index()] = statePair{start: start, end: end}

	remaining := c.pending[:0]
	for _, p := range c.pending {
		if c.resolvesPending(p, capture) {
			t := c.builder.Transition(p.transition)
			t.Cond.Capture = capture
			t.Cond.Target = start
			continue
		}
		remaining = append(remaining, p)
	}
	c.pending = remaining
}

func (c *Compiler) resolvesPending(p pendingJump, capture CaptureID[uint32]) bool {
	if !p.capture.IsNone() {
		return p.capture == capture
	}
	if p.name.IsNone() {
		// A numbered call past the pattern's group count; stays dangling.
		return false
	}
	names := c.builder.Names()
	if names.NameFor(capture) != p.name {
		return false
	}
	// Several groups may share the name; the call binds the lowest-numbered.
	return names.CapturesFor(p.name)[0] == capture
}

func (c *Compiler) compileBackreference(ref ast.NodeRef, n *ast.Node, start, end StateID[uint32]) error {
	if n.Name() != "" {
		nameID := c.builder.Names().Lookup(n.Name())
		if nameID.IsNone() {
			return &CompileError{Node: ref, Name: n.Name(), Err: ErrUnresolvedName}
		}
		c.builder.CreateTransition(start, end, NamedBackreference(nameID, n.FoldCase()))
		return nil
	}
	capture, err := c.captureForGroupNumber(ref, n.Group())
	if err != nil {
		return err
	}
	c.builder.CreateTransition(start, end, Backreference(capture, n.FoldCase()))
	return nil
}

// captureForGroupNumber maps a 1-based pattern group number to its capture
// handle. Group numbers are assigned by the parser in source order, which is
// also first-compile order, so the mapping is a plain offset.
func (c *Compiler) captureForGroupNumber(ref ast.NodeRef, group int) (CaptureID[uint32], error) {
	if group < 1 || group > c.analysis.CaptureCount {
		return NoCapture[uint32](), &CompileError{Node: ref, Group: group, Err: ErrUnresolvedReference}
	}
	return MakeCaptureID[uint32](group - 1), nil
}

func (c *Compiler) compileSubroutineCall(ref ast.NodeRef, n *ast.Node, start, end StateID[uint32]) error {
	capture := NoCapture[uint32]()
	nameID := NoName[uint32]()

	if n.Name() != "" {
		nameID = c.builder.Names().Lookup(n.Name())
		if nameID.IsNone() {
			return &CompileError{Node: ref, Name: n.Name(), Err: ErrUnresolvedName}
		}
		if caps := c.builder.Names().CapturesFor(nameID); len(caps) > 0 {
			capture = caps[0]
		}
	} else {
		if n.Group() < 1 || n.Group() > c.analysis.CaptureCount {
			// The walk may still prove this group exists; report it as
			// dangling only once the whole tree is done.
			capture = NoCapture[uint32]()
		} else {
			capture = MakeCaptureID[uint32](n.Group() - 1)
		}
	}

	target := NoState[uint32]()
	if !capture.IsNone() && capture.Index() < len(c.first) {
		target = c.first[capture.Index()].start
	}
	tid := c.builder.CreateTransition(start, end, Jump(capture, target, end))
	if target.IsNone() {
		c.pending = append(c.pending, pendingJump{
			transition: tid,
			capture:    capture,
			name:       nameID,
			node:       ref,
			group:      n.Group(),
			nameStr:    n.Name(),
		})
	}
	return nil
}

func (c *Compiler) compileConditional(ref ast.NodeRef, n *ast.Node, start, end StateID[uint32]) error {
	yes, no := n.Branches()

	switch n.CondKind() {
	case ast.CondDefine:
		// The body is reachable only through subroutine calls; compile it
		// between detached states so its groups become jump targets.
		detachedStart := c.builder.CreateState()
		detachedEnd := c.builder.CreateState()
		if err := c.compileNode(yes, detachedStart, detachedEnd); err != nil {
			return err
		}
		c.epsilon(start, end)
		return nil

	case ast.CondCaptureTest, ast.CondRecursionTest:
		cond, err := c.predicate(ref, n, false)
		if err != nil {
			return err
		}
		negated, err := c.predicate(ref, n, true)
		if err != nil {
			return err
		}
		if err := c.compileBranch(cond, yes, start, end); err != nil {
			return err
		}
		return c.compileBranch(negated, no, start, end)

	case ast.CondAssertion:
		la := c.tree.Node(n.Cond())
		if la == nil || la.Kind() != ast.KindLookaround {
			// Malformed conditional; the parser already reported it.
			c.epsilon(start, end)
			return nil
		}
		yesEntry := c.builder.CreateState()
		if err := c.compileLookaround(la.Child(), la.Behind(), la.Width(), la.Negate(), start, yesEntry); err != nil {
			return err
		}
		if err := c.compileNode(yes, yesEntry, end); err != nil {
			return err
		}
		// The no branch is guarded by the assertion's logical negation, so
		// exactly one branch is enterable and the choice is committed.
		noEntry := c.builder.CreateState()
		if err := c.compileLookaround(la.Child(), la.Behind(), la.Width(), !la.Negate(), start, noEntry); err != nil {
			return err
		}
		if no.IsNone() {
			c.epsilon(noEntry, end)
			return nil
		}
		return c.compileNode(no, noEntry, end)

	default:
		c.epsilon(start, end)
		return nil
	}
}

// compileBranch emits a predicate transition into a conditional branch.
// An absent branch matches empty, so the predicate goes straight to end.
func (c *Compiler) compileBranch(cond Condition[uint32], branch ast.NodeRef, start, end StateID[uint32]) error {
	if branch.IsNone() {
		c.builder.CreateTransition(start, end, cond)
		return nil
	}
	entry := c.builder.CreateState()
	c.builder.CreateTransition(start, entry, cond)
	return c.compileNode(branch, entry, end)
}

// predicate builds the zero-width test condition of a conditional node.
func (c *Compiler) predicate(ref ast.NodeRef, n *ast.Node, negate bool) (Condition[uint32], error) {
	switch n.CondKind() {
	case ast.CondCaptureTest:
		if n.Name() != "" {
			nameID := c.builder.Names().Lookup(n.Name())
			if nameID.IsNone() {
				return Condition[uint32]{}, &CompileError{Node: ref, Name: n.Name(), Err: ErrUnresolvedName}
			}
			return NamedCaptureTest(nameID, negate), nil
		}
		capture, err := c.captureForGroupNumber(ref, n.Group())
		if err != nil {
			return Condition[uint32]{}, err
		}
		return CaptureTest(capture, negate), nil

	default: // ast.CondRecursionTest
		if n.Name() != "" {
			nameID := c.builder.Names().Lookup(n.Name())
			if nameID.IsNone() {
				return Condition[uint32]{}, &CompileError{Node: ref, Name: n.Name(), Err: ErrUnresolvedName}
			}
			return NamedRecursion(nameID, negate), nil
		}
		if n.Group() == 0 {
			return AnyRecursion[uint32](negate), nil
		}
		capture, err := c.captureForGroupNumber(ref, n.Group())
		if err != nil {
			return Condition[uint32]{}, err
		}
		return Recursion(capture, negate), nil
	}
}

// compileLookaround emits a lookaround sub-graph between start and end. The
// body runs between a checkpoint push and restore so its consumption never
// escapes; look-behind first rewinds the cursor by the body's fixed width.
//
// A negative lookaround wraps the positive form in an atomic bracket whose
// success path dead-ends in the failure sink:
//
//	push_atomic ( lookaround pop_atomic FAIL | epsilon pop_atomic )
//
// If the body matches, pop_atomic discards both the body's choice points and
// the branch choice, so the dead end fails the whole bracket. If the body
// cannot match, only the second branch survives and the bracket succeeds.
func (c *Compiler) compileLookaround(body ast.NodeRef, behind bool, width int, negate bool, start, end StateID[uint32]) error {
	if !negate {
		entry := c.builder.CreateState()
		c.builder.CreateTransition(start, entry, ZeroWidth[uint32](KindPushCheckpoint))
		if behind {
			rewound := c.builder.CreateState()
			c.builder.CreateTransition(entry, rewound, Rewind[uint32](width))
			entry = rewound
		}
		exit := c.builder.CreateState()
		if err := c.compileNode(body, entry, exit); err != nil {
			return err
		}
		c.builder.CreateTransition(exit, end, ZeroWidth[uint32](KindRestoreCheckpoint))
		return nil
	}

	alt := c.builder.CreateState()
	c.builder.CreateTransition(start, alt, ZeroWidth[uint32](KindPushAtomic))

	matched := c.builder.CreateState()
	if err := c.compileLookaround(body, behind, width, false, alt, matched); err != nil {
		return err
	}
	c.builder.CreateTransition(matched, c.failSink(), ZeroWidth[uint32](KindPopAtomic))

	c.builder.CreateTransition(alt, end, ZeroWidth[uint32](KindPopAtomic))
	return nil
}

func (c *Compiler) compileVerb(n *ast.Node, start, end StateID[uint32]) error {
	switch n.Verb() {
	case ast.VerbFail:
		from := start
		if n.Marker() != "" {
			marked := c.builder.CreateState()
			c.builder.CreateTransition(start, marked, Mark(c.builder.LookupMarker(n.Marker())))
			from = marked
		}
		c.epsilon(from, c.failSink())
		return nil

	case ast.VerbMark:
		c.builder.CreateTransition(start, end, Mark(c.builder.LookupMarker(n.Marker())))
		return nil

	case ast.VerbAccept:
		// Immediate overall success: jump straight to the machine's end
		// state, bypassing whatever pattern remains.
		c.epsilon(start, c.end)
		return nil

	default:
		c.epsilon(start, end)
		return nil
	}
}

// failSink returns the shared failure state, creating it on first use.
// It has no outgoing transitions; reaching it forces backtracking.
func (c *Compiler) failSink() StateID[uint32] {
	if c.fail.IsNone() {
		c.fail = c.builder.CreateState()
	}
	return c.fail
}
