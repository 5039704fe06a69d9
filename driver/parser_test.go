package driver

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/wavelang/lrgen/grammar"
	lrspec "github.com/wavelang/lrgen/spec"
	spec "github.com/wavelang/lrgen/spec/grammar"
)

const exprGrammarSrc = `
name: expr
terminals:
  - name: add
    literal: "+"
  - name: mul
    literal: "*"
  - name: l_paren
    literal: "("
  - name: r_paren
    literal: ")"
  - name: num
    pattern: "[0-9]+"
skip:
  - name: white_space
    pattern: '[\u{0009}\u{0020}]+'
precedence:
  - assoc: left
    terminals: [add]
  - assoc: left
    terminals: [mul]
rules:
  expr:
    - expr add expr
    - expr mul expr
    - l_paren expr r_paren
    - num
`

func compileGrammar(t *testing.T, src string, opts ...grammar.CompileOption) *spec.CompiledGrammar {
	t.Helper()

	ast, err := lrspec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	cg, _, err := grammar.Compile(g, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return cg
}

func TestParser_Parse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.driver")
	defer teardown()

	tests := []struct {
		caption string
		specSrc string
		src     string
		actLog  []string
	}{
		{
			caption: "multiplication binds tighter than addition",
			specSrc: exprGrammarSrc,
			src:     `2 + 3 * 4`,
			actLog: []string{
				"shift/num",
				"reduce/expr",
				"shift/add",
				"shift/num",
				"reduce/expr",
				"shift/mul",
				"shift/num",
				"reduce/expr",
				"reduce/expr",
				"reduce/expr",
				"accept",
			},
		},
		{
			caption: "a product is reduced before the following addition",
			specSrc: exprGrammarSrc,
			src:     `2 * 3 + 4`,
			actLog: []string{
				"shift/num",
				"reduce/expr",
				"shift/mul",
				"shift/num",
				"reduce/expr",
				"reduce/expr",
				"shift/add",
				"shift/num",
				"reduce/expr",
				"reduce/expr",
				"accept",
			},
		},
		{
			caption: "left associative operators reduce eagerly",
			specSrc: exprGrammarSrc,
			src:     `1 + 2 + 3`,
			actLog: []string{
				"shift/num",
				"reduce/expr",
				"shift/add",
				"shift/num",
				"reduce/expr",
				"reduce/expr",
				"shift/add",
				"shift/num",
				"reduce/expr",
				"reduce/expr",
				"accept",
			},
		},
		{
			caption: "parentheses group an expression",
			specSrc: exprGrammarSrc,
			src:     `(1)`,
			actLog: []string{
				"shift/l_paren",
				"shift/num",
				"reduce/expr",
				"shift/r_paren",
				"reduce/expr",
				"accept",
			},
		},
		{
			caption: "the parser reduces empty productions",
			specSrc: `
name: parens
terminals:
  - name: l_paren
    literal: "("
  - name: r_paren
    literal: ")"
rules:
  list:
    - l_paren list r_paren list
    - []
`,
			src: `()`,
			actLog: []string{
				"shift/l_paren",
				"reduce/list",
				"shift/r_paren",
				"reduce/list",
				"reduce/list",
				"accept",
			},
		},
	}
	for _, tt := range tests {
		for _, lv := range []int{grammar.CompressionLevelMin, 1, grammar.CompressionLevelMax} {
			t.Run(fmt.Sprintf("%v (compression level %v)", tt.caption, lv), func(t *testing.T) {
				cg := compileGrammar(t, tt.specSrc, grammar.CompressionLevel(lv))
				toks, err := NewTokenStream(cg, strings.NewReader(tt.src))
				if err != nil {
					t.Fatal(err)
				}
				gram := NewGrammar(cg)
				semAct := NewTraceActionSet(gram)
				p, err := NewParser(gram, toks, SemanticAction(semAct))
				if err != nil {
					t.Fatal(err)
				}
				err = p.Parse()
				if err != nil {
					t.Fatal(err)
				}
				if len(p.SyntaxErrors()) > 0 {
					t.Fatalf("unexpected syntax errors: %v", p.SyntaxErrors()[0])
				}

				log := semAct.Log()
				if len(log) != len(tt.actLog) {
					t.Fatalf("unexpected action log; want: %q, got: %q", tt.actLog, log)
				}
				for i, e := range tt.actLog {
					if log[i] != e {
						t.Fatalf("unexpected action log; want: %q, got: %q", tt.actLog, log)
					}
				}
			})
		}
	}
}

func TestParser_SyntaxError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.driver")
	defer teardown()

	cg := compileGrammar(t, exprGrammarSrc)
	tests := []struct {
		caption  string
		src      string
		message  string
		row      int
		col      int
		expected []string
	}{
		{
			caption:  "an operator cannot follow an operator",
			src:      `1 + * 2`,
			message:  "unexpected token",
			row:      1,
			col:      5,
			expected: []string{"l_paren", "num"},
		},
		{
			caption:  "a parenthesis must be closed",
			src:      `(1 + 2`,
			message:  "unexpected token",
			expected: []string{"add", "mul", "r_paren"},
		},
		{
			caption:  "an unknown character is an invalid token",
			src:      `1 ? 2`,
			message:  "invalid token",
			row:      1,
			col:      3,
			expected: []string{"add", "mul", "<eof>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			toks, err := NewTokenStream(cg, strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			gram := NewGrammar(cg)
			semAct := NewSyntaxTreeActionSet(gram)
			p, err := NewParser(gram, toks, SemanticAction(semAct))
			if err != nil {
				t.Fatal(err)
			}
			err = p.Parse()
			if err != nil {
				t.Fatal(err)
			}

			synErrs := p.SyntaxErrors()
			if len(synErrs) != 1 {
				t.Fatalf("a single syntax error must occur; got: %v", len(synErrs))
			}
			synErr := synErrs[0]
			if synErr.Message != tt.message {
				t.Fatalf("unexpected message; want: %v, got: %v", tt.message, synErr.Message)
			}
			if tt.row != 0 && (synErr.Row != tt.row || synErr.Col != tt.col) {
				t.Fatalf("unexpected position; want: %v:%v, got: %v:%v", tt.row, tt.col, synErr.Row, synErr.Col)
			}
			if strings.Join(synErr.ExpectedTerminals, ",") != strings.Join(tt.expected, ",") {
				t.Fatalf("unexpected expected terminals; want: %v, got: %v", tt.expected, synErr.ExpectedTerminals)
			}
			if semAct.CST() != nil {
				t.Fatalf("a rejected input must not have a tree")
			}
		})
	}
}

func TestParser_TerminalStream(t *testing.T) {
	cg := compileGrammar(t, exprGrammarSrc, grammar.CompressionLevel(grammar.CompressionLevelMax))
	gram := NewGrammar(cg)
	term := func(name string) int {
		for i, n := range cg.Syntactic.Terminals {
			if n == name {
				return i
			}
		}
		t.Fatalf("terminal not found: %v", name)
		return -1
	}

	t.Run("a valid sequence is accepted", func(t *testing.T) {
		semAct := NewTraceActionSet(gram)
		p, err := NewParser(gram, NewTerminalStream(gram, []int{term("num"), term("mul"), term("num")}), SemanticAction(semAct))
		if err != nil {
			t.Fatal(err)
		}
		err = p.Parse()
		if err != nil {
			t.Fatal(err)
		}
		log := semAct.Log()
		if len(p.SyntaxErrors()) > 0 || log[len(log)-1] != "accept" {
			t.Fatalf("the input must be accepted; log: %v", log)
		}
	})

	t.Run("an out-of-range terminal is invalid", func(t *testing.T) {
		p, err := NewParser(gram, NewTerminalStream(gram, []int{term("num"), 100}))
		if err != nil {
			t.Fatal(err)
		}
		err = p.Parse()
		if err != nil {
			t.Fatal(err)
		}
		synErrs := p.SyntaxErrors()
		if len(synErrs) != 1 || synErrs[0].Message != "invalid token" || synErrs[0].Col != 2 {
			t.Fatalf("unexpected syntax errors: %v", synErrs)
		}
	})

	t.Run("an empty input is rejected", func(t *testing.T) {
		p, err := NewParser(gram, NewTerminalStream(gram, nil))
		if err != nil {
			t.Fatal(err)
		}
		err = p.Parse()
		if err != nil {
			t.Fatal(err)
		}
		synErrs := p.SyntaxErrors()
		if len(synErrs) != 1 || synErrs[0].State != gram.InitialState() {
			t.Fatalf("unexpected syntax errors: %v", synErrs)
		}
	})
}
