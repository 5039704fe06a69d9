package grammar

import (
	"testing"

	"github.com/wavelang/lrgen/grammar/symbol"
)

// testGrammarBuilder builds a grammar from symbol names. Terminals and non-terminals are numbered in the
// order they are declared, and the first non-terminal is the start symbol.
type testGrammarBuilder struct {
	t        *testing.T
	g        *Grammar
	terms    map[string]int
	nonTerms map[string]int
}

func newTestGrammarBuilder(t *testing.T, terms []string, nonTerms []string) *testGrammarBuilder {
	t.Helper()

	b := &testGrammarBuilder{
		t: t,
		g: &Grammar{
			Name: "test",
		},
		terms:    map[string]int{},
		nonTerms: map[string]int{},
	}
	for i, name := range terms {
		b.terms[name] = i
		b.g.Terminals = append(b.g.Terminals, &Terminal{
			Name:       name,
			Pattern:    name,
			Precedence: PrecNil,
		})
	}
	for i, name := range nonTerms {
		b.nonTerms[name] = i
		b.g.NonTerminals = append(b.g.NonTerminals, &NonTerminal{
			Name: name,
		})
	}
	return b
}

func (b *testGrammarBuilder) sym(name string) symbol.Symbol {
	b.t.Helper()

	if n, ok := b.terms[name]; ok {
		return symbol.NewTerminal(n)
	}
	if n, ok := b.nonTerms[name]; ok {
		return symbol.NewNonTerminal(n)
	}
	b.t.Fatalf("symbol was not found: %v", name)
	return symbol.Epsilon
}

func (b *testGrammarBuilder) prec(term string, prec int, assoc Associativity) *testGrammarBuilder {
	b.t.Helper()

	t := b.g.Terminals[b.sym(term).Num()]
	t.Precedence = prec
	t.Associativity = assoc
	return b
}

func (b *testGrammarBuilder) rule(lhs string, rhs ...string) *testGrammarBuilder {
	b.t.Helper()

	return b.ruleWithPrec("", lhs, rhs...)
}

// ruleWithPrec adds a rule whose precedence is overridden by the terminal `prec`.
func (b *testGrammarBuilder) ruleWithPrec(prec string, lhs string, rhs ...string) *testGrammarBuilder {
	b.t.Helper()

	r := &Rule{
		LHS: b.sym(lhs).Num(),
	}
	for _, name := range rhs {
		r.RHS = append(r.RHS, b.sym(name))
	}
	if prec != "" {
		r.Prec = b.sym(prec)
	}
	b.g.Rules = append(b.g.Rules, r)
	return b
}

func (b *testGrammarBuilder) grammar() *Grammar {
	return b.g
}

func genTable(t *testing.T, g *Grammar) *ParsingTable {
	t.Helper()

	tab, err := Generate(g)
	if err != nil {
		t.Fatalf("failed to generate a parsing table: %v", err)
	}
	return tab
}

// parseStep is an action a table-driven parser takes. Num is the production of a reduce action.
type parseStep struct {
	act ActionType
	num int
}

// simulate runs the consumer contract of a parsing table over terminal numbers and returns the actions
// taken. The end-of-input terminal is appended to `input`.
func simulate(tab *ParsingTable, input []int) ([]parseStep, bool) {
	input = append(append([]int{}, input...), tab.EOF().Num())
	stack := []int{InitialState}
	var steps []parseStep
	pos := 0
	for {
		act := tab.Action(stack[len(stack)-1], input[pos])
		switch act.Type {
		case ActionTypeShift:
			steps = append(steps, parseStep{act: ActionTypeShift, num: input[pos]})
			stack = append(stack, act.Num)
			pos++
		case ActionTypeReduce:
			steps = append(steps, parseStep{act: ActionTypeReduce, num: act.Num})
			prod := tab.Productions().Production(act.Num)
			stack = stack[:len(stack)-prod.RHSLen()]
			next, ok := tab.GoTo(stack[len(stack)-1], prod.LHS.Num())
			if !ok {
				return steps, false
			}
			stack = append(stack, next)
		case ActionTypeAccept:
			steps = append(steps, parseStep{act: ActionTypeAccept})
			return steps, true
		default:
			return steps, false
		}
	}
}
