package ast

import "github.com/coregx/backrex/charclass"

// Node is a single AST node. The Kind tag determines which fields are valid;
// everything is read through accessors so the parser keeps sole write access.
type Node struct {
	kind Kind

	// Literal
	runes    []rune
	foldCase bool

	// CharClass, ClassAssertion
	class  charclass.Set
	negate bool // class negation; Lookaround negation; ClassAssertion sense

	// Sequence, Alternative
	children []NodeRef

	// Repetition, Group, AtomicGroup, Lookaround: single child
	child NodeRef

	// Repetition
	min, max int
	quant    Quantifier

	// Group
	capturing bool
	name      string // Group name, Backreference/SubroutineCall/Conditional name

	// SimpleAssertion
	assert Assertion

	// Lookaround
	behind bool
	width  int // fixed look-behind width in codepoints

	// Backreference, SubroutineCall, Conditional: 1-based group number
	group int

	// Conditional
	condKind CondKind
	cond     NodeRef // lookaround node for CondAssertion
	yes, no  NodeRef

	// Verb
	verb   Verb
	marker string
}

// Kind returns the node's type.
func (n *Node) Kind() Kind { return n.kind }

// Runes returns the literal's codepoint sequence.
func (n *Node) Runes() []rune { return n.runes }

// FoldCase reports whether the literal or backreference matches case-insensitively.
func (n *Node) FoldCase() bool { return n.foldCase }

// Class returns the character class of a CharClass or ClassAssertion node.
func (n *Node) Class() charclass.Set { return n.class }

// Negate reports class negation, lookaround negation, or the \B sense of a
// class assertion, depending on the node kind.
func (n *Node) Negate() bool { return n.negate }

// Children returns the ordered children of a Sequence or Alternative.
func (n *Node) Children() []NodeRef { return n.children }

// Child returns the single child of a Repetition, Group, AtomicGroup or Lookaround.
func (n *Node) Child() NodeRef { return n.child }

// Bounds returns the repetition bounds; max is Unbounded for open-ended repeats.
func (n *Node) Bounds() (min, max int) { return n.min, n.max }

// Quantifier returns the repetition's backtracking preference.
func (n *Node) Quantifier() Quantifier { return n.quant }

// Capturing reports whether a Group node captures.
func (n *Node) Capturing() bool { return n.capturing }

// Name returns the group, backreference, subroutine or conditional name.
// Empty means numbered/unnamed.
func (n *Node) Name() string { return n.name }

// Assertion returns the kind of a SimpleAssertion node.
func (n *Node) Assertion() Assertion { return n.assert }

// Behind reports whether a Lookaround looks behind rather than ahead.
func (n *Node) Behind() bool { return n.behind }

// Width returns the fixed codepoint width of a look-behind body.
func (n *Node) Width() int { return n.width }

// Group returns the 1-based group number of a Backreference, SubroutineCall
// or Conditional node. Zero means named or absent.
func (n *Node) Group() int { return n.group }

// CondKind returns what a Conditional node tests.
func (n *Node) CondKind() CondKind { return n.condKind }

// Cond returns the lookaround node of a CondAssertion conditional.
func (n *Node) Cond() NodeRef { return n.cond }

// Branches returns the yes and no branches of a Conditional.
// The no branch may be None.
func (n *Node) Branches() (yes, no NodeRef) { return n.yes, n.no }

// Verb returns the verb of a Verb node.
func (n *Node) Verb() Verb { return n.verb }

// Marker returns the marker name of a (*MARK:name) or tagged (*FAIL) verb.
func (n *Node) Marker() string { return n.marker }

// Tree is arena-backed node storage plus a root reference. Nodes are
// append-only; a NodeRef stays valid for the life of the tree.
type Tree struct {
	nodes []Node
	root  NodeRef
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{root: None}
}

// Node returns the node for a reference, or nil if the reference is invalid.
func (t *Tree) Node(ref NodeRef) *Node {
	if ref == None || int(ref) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[ref]
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the root reference, or None if unset.
func (t *Tree) Root() NodeRef { return t.root }

// SetRoot designates the root node.
func (t *Tree) SetRoot(ref NodeRef) { t.root = ref }

func (t *Tree) add(n Node) NodeRef {
	ref := NodeRef(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return ref
}

// AddError appends an error placeholder node.
func (t *Tree) AddError() NodeRef {
	return t.add(Node{kind: KindError, child: None, cond: None, yes: None, no: None})
}

// AddFeature appends an unsupported-feature placeholder node.
func (t *Tree) AddFeature() NodeRef {
	return t.add(Node{kind: KindFeature, child: None, cond: None, yes: None, no: None})
}

// AddLiteral appends a literal node for the given codepoint sequence.
func (t *Tree) AddLiteral(runes []rune, foldCase bool) NodeRef {
	rs := make([]rune, len(runes))
	copy(rs, runes)
	return t.add(Node{kind: KindLiteral, runes: rs, foldCase: foldCase,
		child: None, cond: None, yes: None, no: None})
}

// AddString appends a case-sensitive literal node for a string.
func (t *Tree) AddString(s string) NodeRef {
	return t.AddLiteral([]rune(s), false)
}

// AddCharClass appends a character class node.
func (t *Tree) AddCharClass(class charclass.Set, negate, foldCase bool) NodeRef {
	return t.add(Node{kind: KindCharClass, class: class, negate: negate,
		foldCase: foldCase, child: None, cond: None, yes: None, no: None})
}

// AddSequence appends a sequence node over the given children.
func (t *Tree) AddSequence(children ...NodeRef) NodeRef {
	cs := make([]NodeRef, len(children))
	copy(cs, children)
	return t.add(Node{kind: KindSequence, children: cs,
		child: None, cond: None, yes: None, no: None})
}

// AddAlternative appends an alternation node over the given branches,
// in preference order.
func (t *Tree) AddAlternative(branches ...NodeRef) NodeRef {
	bs := make([]NodeRef, len(branches))
	copy(bs, branches)
	return t.add(Node{kind: KindAlternative, children: bs,
		child: None, cond: None, yes: None, no: None})
}

// AddRepetition appends a {min,max} repetition of child.
// Pass Unbounded as max for open-ended repeats.
func (t *Tree) AddRepetition(child NodeRef, min, max int, quant Quantifier) NodeRef {
	return t.add(Node{kind: KindRepetition, child: child, min: min, max: max,
		quant: quant, cond: None, yes: None, no: None})
}

// AddGroup appends a non-capturing group around child.
func (t *Tree) AddGroup(child NodeRef) NodeRef {
	return t.add(Node{kind: KindGroup, child: child,
		cond: None, yes: None, no: None})
}

// AddCapture appends a capturing group around child. name may be empty.
func (t *Tree) AddCapture(child NodeRef, name string) NodeRef {
	return t.add(Node{kind: KindGroup, child: child, capturing: true, name: name,
		cond: None, yes: None, no: None})
}

// AddAtomicGroup appends a (?>...) group around child.
func (t *Tree) AddAtomicGroup(child NodeRef) NodeRef {
	return t.add(Node{kind: KindAtomicGroup, child: child,
		cond: None, yes: None, no: None})
}

// AddSimpleAssertion appends a zero-width structural assertion.
func (t *Tree) AddSimpleAssertion(a Assertion) NodeRef {
	return t.add(Node{kind: KindSimpleAssertion, assert: a,
		child: None, cond: None, yes: None, no: None})
}

// AddClassAssertion appends a generalized word-boundary assertion.
// boundary true is \b-like, false is \B-like.
func (t *Tree) AddClassAssertion(class charclass.Set, boundary bool) NodeRef {
	return t.add(Node{kind: KindClassAssertion, class: class, negate: !boundary,
		child: None, cond: None, yes: None, no: None})
}

// AddLookahead appends a look-ahead assertion around child.
func (t *Tree) AddLookahead(child NodeRef, negate bool) NodeRef {
	return t.add(Node{kind: KindLookaround, child: child, negate: negate,
		cond: None, yes: None, no: None})
}

// AddLookbehind appends a fixed-width look-behind assertion around child.
// width is the body's length in codepoints, computed by the parser.
func (t *Tree) AddLookbehind(child NodeRef, negate bool, width int) NodeRef {
	return t.add(Node{kind: KindLookaround, child: child, negate: negate,
		behind: true, width: width, cond: None, yes: None, no: None})
}

// AddBackreference appends a numbered backreference (\1, \2, ...).
func (t *Tree) AddBackreference(group int, foldCase bool) NodeRef {
	return t.add(Node{kind: KindBackreference, group: group, foldCase: foldCase,
		child: None, cond: None, yes: None, no: None})
}

// AddNamedBackreference appends a named backreference (\k<name>).
func (t *Tree) AddNamedBackreference(name string, foldCase bool) NodeRef {
	return t.add(Node{kind: KindBackreference, name: name, foldCase: foldCase,
		child: None, cond: None, yes: None, no: None})
}

// AddSubroutineCall appends a numbered subroutine call ((?1), (?2), ...).
func (t *Tree) AddSubroutineCall(group int) NodeRef {
	return t.add(Node{kind: KindSubroutineCall, group: group,
		child: None, cond: None, yes: None, no: None})
}

// AddNamedSubroutineCall appends a named subroutine call ((?&name)).
func (t *Tree) AddNamedSubroutineCall(name string) NodeRef {
	return t.add(Node{kind: KindSubroutineCall, name: name,
		child: None, cond: None, yes: None, no: None})
}

// AddConditional appends a conditional testing a capture or recursion state.
// For CondCaptureTest and CondRecursionTest, group/name select the capture;
// both zero-valued on a recursion test means "inside any call". no may be None.
func (t *Tree) AddConditional(kind CondKind, group int, name string, yes, no NodeRef) NodeRef {
	return t.add(Node{kind: KindConditional, condKind: kind, group: group,
		name: name, yes: yes, no: no, child: None, cond: None})
}

// AddAssertionConditional appends a conditional gated on a lookaround node.
func (t *Tree) AddAssertionConditional(cond, yes, no NodeRef) NodeRef {
	return t.add(Node{kind: KindConditional, condKind: CondAssertion, cond: cond,
		yes: yes, no: no, child: None})
}

// AddDefine appends a (?(DEFINE)...) conditional. Its body contributes no
// transitions where it appears; its groups exist only as subroutine targets.
func (t *Tree) AddDefine(body NodeRef) NodeRef {
	return t.add(Node{kind: KindConditional, condKind: CondDefine, yes: body,
		no: None, child: None, cond: None})
}

// AddVerb appends a backtracking-control verb. marker may be empty; it tags
// (*MARK:name) and named (*FAIL) verbs.
func (t *Tree) AddVerb(v Verb, marker string) NodeRef {
	return t.add(Node{kind: KindVerb, verb: v, marker: marker,
		child: None, cond: None, yes: None, no: None})
}

// AddResetMatchStart appends a \K node.
func (t *Tree) AddResetMatchStart() NodeRef {
	return t.add(Node{kind: KindResetMatchStart,
		child: None, cond: None, yes: None, no: None})
}
