package driver

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/schuko/tracing"
	spec "github.com/wavelang/lrgen/spec/grammar"
)

// tracer traces with key 'lrgen.driver'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.driver")
}

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             VToken
	State             int
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v:%v: %v", e.Row, e.Col, e.Message)
}

type ParserOption func(p *Parser) error

// SemanticAction registers a set of callbacks the parser calls on each action.
func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

// Parser is a table-driven LR parser. It stops at the first syntax error.
type Parser struct {
	toks       TokenStream
	gram       Grammar
	stateStack *arraystack.Stack
	semAct     SemanticActionSet
	synErrs    []*SyntaxError
}

func NewParser(gram Grammar, toks TokenStream, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks:       toks,
		gram:       gram,
		stateStack: arraystack.New(),
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse consumes the token stream until it is accepted or a syntax error occurs. A syntax error is not
// returned as an error; call SyntaxErrors to get it.
func (p *Parser) Parse() error {
	p.stateStack.Clear()
	p.push(p.gram.InitialState())
	tok, err := p.toks.Next()
	if err != nil {
		return err
	}

	for {
		if tok.Invalid() || !p.inTerminalRange(tok.TerminalID()) {
			p.addSyntaxError(tok, "invalid token")
			return nil
		}

		act, err := p.gram.Action(p.top(), tok.TerminalID())
		if err != nil {
			return err
		}
		if act == spec.ActionEntryEmpty {
			p.addSyntaxError(tok, "unexpected token")
			return nil
		}

		shift, num := spec.DecodeActionEntry(act)
		if shift {
			tracer().Debugf("shift %v; state: %v -> %v", p.gram.Terminal(tok.TerminalID()), p.top(), num)
			p.push(num)
			if p.semAct != nil {
				p.semAct.Shift(tok)
			}

			tok, err = p.toks.Next()
			if err != nil {
				return err
			}
			continue
		}

		if num == p.gram.StartProduction() {
			tracer().Debugf("accept; state: %v", p.top())
			if p.semAct != nil {
				p.semAct.Accept()
			}
			return nil
		}

		err = p.reduce(num)
		if err != nil {
			return err
		}
		if p.semAct != nil {
			p.semAct.Reduce(num)
		}
	}
}

func (p *Parser) reduce(prodNum int) error {
	n := p.gram.AlternativeSymbolCount(prodNum)
	p.pop(n)
	lhs := p.gram.LHS(prodNum)
	next, err := p.gram.GoTo(p.top(), lhs)
	if err != nil {
		return err
	}
	if next == spec.GoToEntryEmpty {
		return fmt.Errorf("a goto entry is empty; state: %v, non-terminal: %v", p.top(), p.gram.NonTerminal(lhs))
	}
	tracer().Debugf("reduce %v (production #%v); goto: %v -> %v", p.gram.NonTerminal(lhs), prodNum, p.top(), next)
	p.push(next)
	return nil
}

func (p *Parser) inTerminalRange(term int) bool {
	return term >= 0 && term < p.gram.TerminalCount()
}

func (p *Parser) addSyntaxError(tok VToken, msg string) {
	row, col := tok.Position()
	synErr := &SyntaxError{
		Row:               row,
		Col:               col,
		Message:           msg,
		Token:             tok,
		State:             p.top(),
		ExpectedTerminals: p.searchLookahead(p.top()),
	}
	tracer().Infof("syntax error: %v; state: %v, expected: %v", synErr, synErr.State, synErr.ExpectedTerminals)
	p.synErrs = append(p.synErrs, synErr)
}

func (p *Parser) searchLookahead(state int) []string {
	terms := []string{}
	for term := 0; term < p.gram.TerminalCount(); term++ {
		act, err := p.gram.Action(state, term)
		if err != nil || act == spec.ActionEntryEmpty {
			continue
		}
		terms = append(terms, p.gram.Terminal(term))
	}

	return terms
}

func (p *Parser) top() int {
	v, _ := p.stateStack.Peek()
	return v.(int)
}

func (p *Parser) push(state int) {
	p.stateStack.Push(state)
}

func (p *Parser) pop(n int) {
	for i := 0; i < n; i++ {
		p.stateStack.Pop()
	}
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}
