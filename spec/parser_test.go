package spec

import (
	"errors"
	"strings"
	"testing"

	verr "github.com/wavelang/lrgen/error"
)

func TestParse(t *testing.T) {
	id := func(id string) *IDNode {
		return &IDNode{
			ID: id,
		}
	}
	alternative := func(elems ...string) *AlternativeNode {
		alt := &AlternativeNode{}
		for _, e := range elems {
			alt.Elements = append(alt.Elements, id(e))
		}
		return alt
	}
	withPrec := func(alt *AlternativeNode, prec string) *AlternativeNode {
		alt.Prec = id(prec)
		return alt
	}
	production := func(lhs string, alts ...*AlternativeNode) *ProductionNode {
		return &ProductionNode{
			LHS: lhs,
			RHS: alts,
		}
	}

	tests := []struct {
		caption string
		src     string
		ast     *RootNode
		synErr  *SyntaxError
	}{
		{
			caption: "a single rule is a valid grammar",
			src: `
name: test
terminals:
  - name: a
    literal: a
rules:
  s:
    - [a]
`,
			ast: &RootNode{
				Name: "test",
				Terminals: []*TerminalNode{
					{Name: "a", Pattern: "a", Literally: true},
				},
				Productions: []*ProductionNode{
					production("s", alternative("a")),
				},
			},
		},
		{
			caption: "alternatives can be written as sequences, scalars, and mappings",
			src: `
name: expr
start: expr
terminals:
  - name: add
    literal: "+"
  - name: sub
    literal: "-"
  - name: num
    pattern: "[0-9]+"
  - name: uminus
skip:
  - name: ws
    pattern: "[ ]+"
precedence:
  - assoc: left
    terminals: [add, sub]
  - assoc: right
    terminals: uminus
rules:
  expr:
    - expr add expr
    - [expr, sub, expr]
    - {rhs: [sub, expr], prec: uminus}
    - num
`,
			ast: &RootNode{
				Name:  "expr",
				Start: id("expr"),
				Terminals: []*TerminalNode{
					{Name: "add", Pattern: "+", Literally: true},
					{Name: "sub", Pattern: "-", Literally: true},
					{Name: "num", Pattern: "[0-9]+"},
					{Name: "uminus"},
				},
				Skip: []*TerminalNode{
					{Name: "ws", Pattern: "[ ]+"},
				},
				Precedence: []*PrecedenceNode{
					{Associativity: "left", Terminals: []*IDNode{id("add"), id("sub")}},
					{Associativity: "right", Terminals: []*IDNode{id("uminus")}},
				},
				Productions: []*ProductionNode{
					production("expr",
						alternative("expr", "add", "expr"),
						alternative("expr", "sub", "expr"),
						withPrec(alternative("sub", "expr"), "uminus"),
						alternative("num"),
					),
				},
			},
		},
		{
			caption: "rules can contain the empty alternative",
			src: `
name: test
terminals:
  - name: a
    literal: a
rules:
  s:
    - [a, s]
    - []
  t:
    - ""
`,
			ast: &RootNode{
				Name: "test",
				Terminals: []*TerminalNode{
					{Name: "a", Pattern: "a", Literally: true},
				},
				Productions: []*ProductionNode{
					production("s", alternative("a", "s"), alternative()),
					production("t", alternative()),
				},
			},
		},
		{
			caption: "an empty description is an error",
			src:     ``,
			synErr:  synErrEmptyDescription,
		},
		{
			caption: "the top level must be a mapping",
			src:     `foo`,
			synErr:  synErrRootNotMapping,
		},
		{
			caption: "an unknown key is an error",
			src: `
name: test
foo: bar
rules:
  s:
    - []
`,
			synErr: synErrUnknownKey,
		},
		{
			caption: "a grammar must have at least one rule",
			src: `
name: test
`,
			synErr: synErrNoRules,
		},
		{
			caption: "a rule must have at least one alternative",
			src: `
name: test
rules:
  s: []
`,
			synErr: synErrNoAlternative,
		},
		{
			caption: "a terminal must have a name",
			src: `
name: test
terminals:
  - pattern: a
rules:
  s:
    - []
`,
			synErr: synErrNoName,
		},
		{
			caption: "a terminal cannot have both a pattern and a literal",
			src: `
name: test
terminals:
  - name: a
    pattern: a
    literal: a
rules:
  s:
    - []
`,
			synErr: synErrPatternAndLiteral,
		},
		{
			caption: "an alternative written as a mapping needs rhs",
			src: `
name: test
terminals:
  - name: a
rules:
  s:
    - {prec: a}
`,
			synErr: synErrNoRHS,
		},
		{
			caption: "a precedence level needs an associativity",
			src: `
name: test
terminals:
  - name: a
precedence:
  - terminals: [a]
rules:
  s:
    - [a]
`,
			synErr: synErrNoAssociativity,
		},
		{
			caption: "terminals must be a sequence",
			src: `
name: test
terminals: a
rules:
  s:
    - []
`,
			synErr: synErrSequenceExpected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := Parse(strings.NewReader(tt.src))
			if tt.synErr != nil {
				if !hasCause(err, tt.synErr) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, err)
				}
				if ast != nil {
					t.Fatalf("AST must be nil")
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if ast == nil {
					t.Fatalf("AST must be non-nil")
				}
				testRootNode(t, ast, tt.ast)
			}
		})
	}
}

func TestParse_Position(t *testing.T) {
	src := `name: test
terminals:
  - name: a
rules:
  s:
    - [a, b]
`
	ast, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	prod := ast.Productions[0]
	if prod.Pos.Row != 5 || prod.Pos.Col != 3 {
		t.Fatalf("unexpected position of the rule: %+v", prod.Pos)
	}
	elem := prod.RHS[0].Elements[1]
	if elem.Pos.Row != 6 || elem.Pos.Col != 11 {
		t.Fatalf("unexpected position of an element: %+v", elem.Pos)
	}
}

func hasCause(err error, cause error) bool {
	var specErrs verr.SpecErrors
	if !errors.As(err, &specErrs) {
		return false
	}
	for _, e := range specErrs {
		if e.Cause == cause {
			return true
		}
	}
	return false
}

func testRootNode(t *testing.T, root, expected *RootNode) {
	t.Helper()
	if root.Name != expected.Name {
		t.Fatalf("unexpected name; want: %v, got: %v", expected.Name, root.Name)
	}
	if (root.Start == nil) != (expected.Start == nil) || (root.Start != nil && root.Start.ID != expected.Start.ID) {
		t.Fatalf("unexpected start symbol; want: %+v, got: %+v", expected.Start, root.Start)
	}
	testTerminalNodes(t, root.Terminals, expected.Terminals)
	testTerminalNodes(t, root.Skip, expected.Skip)
	if len(root.Precedence) != len(expected.Precedence) {
		t.Fatalf("unexpected precedence level count; want: %v, got: %v", len(expected.Precedence), len(root.Precedence))
	}
	for i, level := range root.Precedence {
		if level.Associativity != expected.Precedence[i].Associativity {
			t.Fatalf("unexpected associativity; want: %v, got: %v", expected.Precedence[i].Associativity, level.Associativity)
		}
		testIDNodes(t, level.Terminals, expected.Precedence[i].Terminals)
	}
	if len(root.Productions) != len(expected.Productions) {
		t.Fatalf("unexpected rule count; want: %v, got: %v", len(expected.Productions), len(root.Productions))
	}
	for i, prod := range root.Productions {
		testProductionNode(t, prod, expected.Productions[i])
	}
}

func testTerminalNodes(t *testing.T, terms, expected []*TerminalNode) {
	t.Helper()
	if len(terms) != len(expected) {
		t.Fatalf("unexpected terminal count; want: %v, got: %v", len(expected), len(terms))
	}
	for i, term := range terms {
		e := expected[i]
		if term.Name != e.Name || term.Pattern != e.Pattern || term.Literally != e.Literally {
			t.Fatalf("unexpected terminal; want: %+v, got: %+v", e, term)
		}
	}
}

func testProductionNode(t *testing.T, prod, expected *ProductionNode) {
	t.Helper()
	if prod.LHS != expected.LHS {
		t.Fatalf("unexpected LHS; want: %v, got: %v", expected.LHS, prod.LHS)
	}
	if len(prod.RHS) != len(expected.RHS) {
		t.Fatalf("unexpected alternative count; want: %v, got: %v", len(expected.RHS), len(prod.RHS))
	}
	for i, alt := range prod.RHS {
		testIDNodes(t, alt.Elements, expected.RHS[i].Elements)
		e := expected.RHS[i].Prec
		if (alt.Prec == nil) != (e == nil) || (e != nil && alt.Prec.ID != e.ID) {
			t.Fatalf("unexpected precedence; want: %+v, got: %+v", e, alt.Prec)
		}
	}
}

func testIDNodes(t *testing.T, ids, expected []*IDNode) {
	t.Helper()
	if len(ids) != len(expected) {
		t.Fatalf("unexpected ID count; want: %v, got: %v", len(expected), len(ids))
	}
	for i, id := range ids {
		if id.ID != expected[i].ID {
			t.Fatalf("unexpected ID; want: %v, got: %v", expected[i].ID, id.ID)
		}
	}
}
