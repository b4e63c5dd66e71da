// Package gen exports a finalized machine as Go source, so frequently used
// patterns can be compiled ahead of time and embedded in a binary instead of
// being rebuilt from their syntax tree at startup.
//
// The generated file declares one package-level variable initialized by a
// build function that replays the machine's construction through the public
// nfa Builder API and finalizes it. Only the automaton data is generated;
// executing it still requires a matcher.
package gen

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/coregx/backrex/ast"
	"github.com/coregx/backrex/nfa"
)

const (
	nfaPath       = "github.com/coregx/backrex/nfa"
	astPath       = "github.com/coregx/backrex/ast"
	charclassPath = "github.com/coregx/backrex/charclass"
)

// File builds the generated source for a machine as a jennifer file.
// pkgName is the target package; varName is the declared variable, which
// must be a valid exported or unexported Go identifier.
func File(m *nfa.Machine[uint32], pkgName, varName string) *jen.File {
	f := jen.NewFile(pkgName)
	f.HeaderComment("Code generated by backrex/gen. DO NOT EDIT.")

	buildName := "build" + titleFirst(varName)

	f.Var().Id(varName).Op("=").Id(buildName).Call()
	f.Line()
	f.Func().Id(buildName).Params().Op("*").Qual(nfaPath, "Machine").Index(jen.Id("uint32")).Block(
		buildBody(m)...,
	)
	return f
}

// Source renders the generated file as formatted Go source.
func Source(m *nfa.Machine[uint32], pkgName, varName string) ([]byte, error) {
	var buf bytes.Buffer
	if err := File(m, pkgName, varName).Render(&buf); err != nil {
		return nil, fmt.Errorf("gen: rendering machine source: %w", err)
	}
	return buf.Bytes(), nil
}

func buildBody(m *nfa.Machine[uint32]) []jen.Code {
	var body []jen.Code

	body = append(body,
		jen.Id("b").Op(":=").Qual(nfaPath, "NewBuilder").Call(),
		jen.Id("b").Dot("SetNameTable").Call(stringSlice(nameTable(m))),
		jen.Id("b").Dot("SetMarkerNames").Call(stringSlice(markerTable(m))),
	)

	// States first: transitions and jump targets index into this slice.
	body = append(body,
		jen.Id("states").Op(":=").Make(
			jen.Index().Qual(nfaPath, "StateID").Index(jen.Id("uint32")),
			jen.Lit(m.StateCount()),
		),
		jen.For(jen.Id("i").Op(":=").Range().Id("states")).Block(
			jen.Id("states").Index(jen.Id("i")).Op("=").Id("b").Dot("CreateState").Call(),
		),
		jen.Id("b").Dot("SetStarts").Call(
			stateExpr(m.StartState()),
			stateExpr(m.EndState()),
		),
	)

	names := m.NamedCaptures()
	for i := 0; i < names.CaptureCount(); i++ {
		capture := nfa.MakeCaptureID[uint32](i)
		nameID := names.NameFor(capture)
		nameArg := jen.Qual(nfaPath, "NoName").Index(jen.Id("uint32")).Call()
		if !nameID.IsNone() {
			nameArg = jen.Id("b").Dot("Names").Call().Dot("Lookup").Call(jen.Lit(names.Name(nameID)))
		}
		body = append(body, jen.Id("b").Dot("RegisterCapture").Call(captureExpr(capture), nameArg))
	}

	for s := 0; s < m.StateCount(); s++ {
		id := nfa.MakeStateID[uint32](s)
		for _, t := range m.Transitions(id) {
			body = append(body, jen.Id("b").Dot("CreateTransition").Call(
				stateExpr(id),
				stateExpr(t.Target),
				conditionExpr(t.Cond),
			))
		}
	}

	body = append(body,
		jen.List(jen.Id("m"), jen.Err()).Op(":=").
			Qual(nfaPath, "Finalize").Index(jen.Id("uint32")).Call(jen.Id("b")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Panic(jen.Err())),
		jen.Return(jen.Id("m")),
	)
	return body
}

// conditionExpr renders the constructor call reproducing a condition.
func conditionExpr(c nfa.Condition[uint32]) *jen.Statement {
	switch c.Kind {
	case nfa.KindLiteral:
		if len(c.Runes) == 0 {
			return jen.Qual(nfaPath, "Epsilon").Index(jen.Id("uint32")).Call()
		}
		return jen.Qual(nfaPath, "Literal").Index(jen.Id("uint32")).Call(
			jen.Index().Rune().Parens(jen.Lit(string(c.Runes))),
			jen.Lit(c.FoldCase),
		)
	case nfa.KindCharClass:
		return jen.Qual(nfaPath, "CharClass").Index(jen.Id("uint32")).Call(
			classExpr(c), jen.Lit(c.Negate), jen.Lit(c.FoldCase),
		)
	case nfa.KindSimpleAssertion:
		return jen.Qual(nfaPath, "SimpleAssertion").Index(jen.Id("uint32")).Call(assertionExpr(c.Assert))
	case nfa.KindClassAssertion:
		return jen.Qual(nfaPath, "ClassAssertion").Index(jen.Id("uint32")).Call(
			classExpr(c), jen.Lit(!c.Negate),
		)
	case nfa.KindCaptureBegin:
		return jen.Qual(nfaPath, "CaptureBegin").Call(captureExpr(c.Capture))
	case nfa.KindCaptureEnd:
		return jen.Qual(nfaPath, "CaptureEnd").Index(jen.Id("uint32")).Call()
	case nfa.KindBackreference:
		return jen.Qual(nfaPath, "Backreference").Call(captureExpr(c.Capture), jen.Lit(c.FoldCase))
	case nfa.KindNamedBackreference:
		return jen.Qual(nfaPath, "NamedBackreference").Call(nameExpr(c.Name), jen.Lit(c.FoldCase))
	case nfa.KindJump:
		return jen.Qual(nfaPath, "Jump").Call(
			captureExpr(c.Capture), stateExpr(c.Target), stateExpr(c.Return),
		)
	case nfa.KindRewind:
		return jen.Qual(nfaPath, "Rewind").Index(jen.Id("uint32")).Call(jen.Lit(c.Count))
	case nfa.KindAnyRecursion:
		return jen.Qual(nfaPath, "AnyRecursion").Index(jen.Id("uint32")).Call(jen.Lit(c.Negate))
	case nfa.KindRecursion:
		return jen.Qual(nfaPath, "Recursion").Call(captureExpr(c.Capture), jen.Lit(c.Negate))
	case nfa.KindNamedRecursion:
		return jen.Qual(nfaPath, "NamedRecursion").Call(nameExpr(c.Name), jen.Lit(c.Negate))
	case nfa.KindCaptureTest:
		return jen.Qual(nfaPath, "CaptureTest").Call(captureExpr(c.Capture), jen.Lit(c.Negate))
	case nfa.KindNamedCaptureTest:
		return jen.Qual(nfaPath, "NamedCaptureTest").Call(nameExpr(c.Name), jen.Lit(c.Negate))
	case nfa.KindMark:
		return jen.Qual(nfaPath, "Mark").Call(markerExpr(c.Marker))
	case nfa.KindResetMatchStart, nfa.KindPushAtomic, nfa.KindPopAtomic,
		nfa.KindPushCheckpoint, nfa.KindRestoreCheckpoint,
		nfa.KindPushPosition, nfa.KindCheckInfiniteLoop:
		return jen.Qual(nfaPath, "ZeroWidth").Index(jen.Id("uint32")).Call(
			jen.Qual(nfaPath, "Kind"+kindName(c.Kind)),
		)
	default:
		panic(fmt.Sprintf("gen: unhandled condition kind %v", c.Kind))
	}
}

func kindName(k nfa.ConditionKind) string {
	return k.String()
}

func classExpr(c nfa.Condition[uint32]) *jen.Statement {
	var args []jen.Code
	for _, r := range c.Class.Ranges() {
		args = append(args, jen.Qual(charclassPath, "Range").Values(jen.Dict{
			jen.Id("Lo"): jen.Id(strconv.QuoteRune(r.Lo)),
			jen.Id("Hi"): jen.Id(strconv.QuoteRune(r.Hi)),
		}))
	}
	return jen.Qual(charclassPath, "New").Call(args...)
}

func assertionExpr(a ast.Assertion) *jen.Statement {
	var name string
	switch a {
	case ast.AssertSubjectStart:
		name = "AssertSubjectStart"
	case ast.AssertSubjectEnd:
		name = "AssertSubjectEnd"
	case ast.AssertSubjectEndOrNewline:
		name = "AssertSubjectEndOrNewline"
	case ast.AssertLineStart:
		name = "AssertLineStart"
	case ast.AssertLineEnd:
		name = "AssertLineEnd"
	case ast.AssertPriorMatchEnd:
		name = "AssertPriorMatchEnd"
	default:
		panic(fmt.Sprintf("gen: unhandled assertion %v", a))
	}
	return jen.Qual(astPath, name)
}

func stateExpr(id nfa.StateID[uint32]) *jen.Statement {
	if id.IsNone() {
		return jen.Qual(nfaPath, "NoState").Index(jen.Id("uint32")).Call()
	}
	return jen.Id("states").Index(jen.Lit(id.Index()))
}

func captureExpr(id nfa.CaptureID[uint32]) *jen.Statement {
	if id.IsNone() {
		return jen.Qual(nfaPath, "NoCapture").Index(jen.Id("uint32")).Call()
	}
	return jen.Qual(nfaPath, "MakeCaptureID").Index(jen.Id("uint32")).Call(jen.Lit(id.Index()))
}

func nameExpr(id nfa.NameID[uint32]) *jen.Statement {
	if id.IsNone() {
		return jen.Qual(nfaPath, "NoName").Index(jen.Id("uint32")).Call()
	}
	return jen.Qual(nfaPath, "MakeNameID").Index(jen.Id("uint32")).Call(jen.Lit(id.Index()))
}

func markerExpr(id nfa.MarkerID[uint32]) *jen.Statement {
	if id.IsNone() {
		return jen.Qual(nfaPath, "NoMarker").Index(jen.Id("uint32")).Call()
	}
	return jen.Qual(nfaPath, "MakeMarkerID").Index(jen.Id("uint32")).Call(jen.Lit(id.Index()))
}

func stringSlice(ss []string) *jen.Statement {
	var args []jen.Code
	for _, s := range ss {
		args = append(args, jen.Lit(s))
	}
	return jen.Index().String().Values(args...)
}

// nameTable recovers the unique capture names of a machine.
func nameTable(m *nfa.Machine[uint32]) []string {
	names := m.NamedCaptures()
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < names.CaptureCount(); i++ {
		id := names.NameFor(nfa.MakeCaptureID[uint32](i))
		if id.IsNone() {
			continue
		}
		if n := names.Name(id); !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func markerTable(m *nfa.Machine[uint32]) []string {
	out := make([]string, 0, m.MarkerCount())
	for i := 0; i < m.MarkerCount(); i++ {
		out = append(out, m.MarkerName(nfa.MakeMarkerID[uint32](i)))
	}
	return out
}

// titleFirst upper-cases the first byte of an ASCII identifier.
func titleFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
