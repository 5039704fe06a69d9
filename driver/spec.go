package driver

import spec "github.com/wavelang/lrgen/spec/grammar"

// Grammar is the view of a parsing table the driver needs. Action and GoTo return encoded entries of
// the compiled grammar.
type Grammar interface {
	InitialState() int
	StartProduction() int
	Action(state int, terminal int) (int, error)
	GoTo(state int, lhs int) (int, error)
	AlternativeSymbolCount(prod int) int
	LHS(prod int) int
	TerminalCount() int
	EOF() int
	Terminal(terminal int) string
	NonTerminal(nonTerminal int) string
}

var _ Grammar = &grammarImpl{}

type grammarImpl struct {
	g *spec.CompiledGrammar
}

func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	return &grammarImpl{
		g: g,
	}
}

func (g *grammarImpl) InitialState() int {
	return g.g.Syntactic.InitialState
}

func (g *grammarImpl) StartProduction() int {
	return g.g.Syntactic.StartProduction
}

func (g *grammarImpl) Action(state int, terminal int) (int, error) {
	return g.g.Syntactic.LookupAction(state, terminal)
}

func (g *grammarImpl) GoTo(state int, lhs int) (int, error) {
	return g.g.Syntactic.LookupGoTo(state, lhs)
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.g.Syntactic.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.Syntactic.LHSSymbols[prod]
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.Syntactic.TerminalCount
}

func (g *grammarImpl) EOF() int {
	return g.g.Syntactic.EOFSymbol
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.Syntactic.Terminals[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.Syntactic.NonTerminals[nonTerminal]
}
