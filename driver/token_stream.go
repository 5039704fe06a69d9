package driver

import (
	"fmt"
	"io"

	mldriver "github.com/nihei9/maleeni/driver"
	spec "github.com/wavelang/lrgen/spec/grammar"
)

// VToken is a token the parser consumes. Positions are 1-based.
type VToken interface {
	// TerminalID returns a terminal number. It is meaningless when the token is EOF or invalid.
	TerminalID() int
	Lexeme() []byte
	EOF() bool
	Invalid() bool
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	terminalID int
	tok        *mldriver.Token
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) Lexeme() []byte {
	return t.tok.Lexeme
}

func (t *vToken) EOF() bool {
	return t.tok.EOF
}

func (t *vToken) Invalid() bool {
	return t.tok.Invalid || t.terminalID < 0
}

func (t *vToken) Position() (int, int) {
	return t.tok.Row + 1, t.tok.Col + 1
}

type tokenStream struct {
	lex            *mldriver.Lexer
	kindToTerminal []int
	skip           []int
	eof            int
}

// NewTokenStream lexes src with the lexical spec of a compiled grammar. Tokens of skipped kinds never
// reach the parser.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	if g.Lexical == nil || g.Lexical.Maleeni == nil {
		return nil, fmt.Errorf("grammar '%v' has no lexical spec", g.Name)
	}
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(g.Lexical.Maleeni.Spec), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:            lex,
		kindToTerminal: g.Lexical.Maleeni.KindToTerminal,
		skip:           g.Lexical.Maleeni.Skip,
		eof:            g.Syntactic.EOFSymbol,
	}, nil
}

func (l *tokenStream) Next() (VToken, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return &vToken{
				terminalID: l.eof,
				tok:        tok,
			}, nil
		}
		if tok.Invalid {
			return &vToken{
				terminalID: -1,
				tok:        tok,
			}, nil
		}
		if l.skip[tok.KindID] > 0 {
			continue
		}
		return &vToken{
			terminalID: l.kindToTerminal[tok.KindID],
			tok:        tok,
		}, nil
	}
}

type terminalToken struct {
	terminalID int
	eof        bool
	col        int
}

func (t *terminalToken) TerminalID() int {
	return t.terminalID
}

func (t *terminalToken) Lexeme() []byte {
	return nil
}

func (t *terminalToken) EOF() bool {
	return t.eof
}

func (t *terminalToken) Invalid() bool {
	return false
}

func (t *terminalToken) Position() (int, int) {
	return 1, t.col
}

type terminalStream struct {
	terms []int
	eof   int
	pos   int
}

// NewTerminalStream feeds terminal numbers to the parser without lexing. The end-of-input terminal
// follows the last one. A token's column is its index plus one.
func NewTerminalStream(g Grammar, terms []int) TokenStream {
	return &terminalStream{
		terms: terms,
		eof:   g.EOF(),
	}
}

func (s *terminalStream) Next() (VToken, error) {
	if s.pos >= len(s.terms) {
		return &terminalToken{
			terminalID: s.eof,
			eof:        true,
			col:        len(s.terms) + 1,
		}, nil
	}
	s.pos++
	return &terminalToken{
		terminalID: s.terms[s.pos-1],
		col:        s.pos,
	}, nil
}
