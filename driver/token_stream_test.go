package driver

import (
	"strings"
	"testing"
)

func TestTokenStream_Next(t *testing.T) {
	cg := compileGrammar(t, exprGrammarSrc)
	gram := NewGrammar(cg)

	type token struct {
		kind    string
		lexeme  string
		row     int
		col     int
		invalid bool
	}
	tests := []struct {
		caption string
		src     string
		toks    []token
	}{
		{
			caption: "white spaces are skipped and positions are 1-based",
			src:     "12 +\t(3)",
			toks: []token{
				{kind: "num", lexeme: "12", row: 1, col: 1},
				{kind: "add", lexeme: "+", row: 1, col: 4},
				{kind: "l_paren", lexeme: "(", row: 1, col: 6},
				{kind: "num", lexeme: "3", row: 1, col: 7},
				{kind: "r_paren", lexeme: ")", row: 1, col: 8},
			},
		},
		{
			caption: "an unknown character is an invalid token",
			src:     `1 ?`,
			toks: []token{
				{kind: "num", lexeme: "1", row: 1, col: 1},
				{lexeme: "?", row: 1, col: 3, invalid: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			toks, err := NewTokenStream(cg, strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range tt.toks {
				tok, err := toks.Next()
				if err != nil {
					t.Fatal(err)
				}
				if tok.Invalid() != e.invalid {
					t.Fatalf("unexpected validity; want: %v, got: %v", e.invalid, tok.Invalid())
				}
				if !e.invalid && gram.Terminal(tok.TerminalID()) != e.kind {
					t.Fatalf("unexpected terminal; want: %v, got: %v", e.kind, gram.Terminal(tok.TerminalID()))
				}
				if string(tok.Lexeme()) != e.lexeme {
					t.Fatalf("unexpected lexeme; want: %#v, got: %#v", e.lexeme, string(tok.Lexeme()))
				}
				row, col := tok.Position()
				if row != e.row || col != e.col {
					t.Fatalf("unexpected position; want: %v:%v, got: %v:%v", e.row, e.col, row, col)
				}
			}
			if tt.toks[len(tt.toks)-1].invalid {
				return
			}
			tok, err := toks.Next()
			if err != nil {
				t.Fatal(err)
			}
			if !tok.EOF() || tok.TerminalID() != gram.EOF() {
				t.Fatalf("the stream must end with the end-of-input terminal")
			}
		})
	}
}
