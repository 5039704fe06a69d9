package grammar

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/wavelang/lrgen/grammar/symbol"
)

// tracer traces with key 'lrgen.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.grammar")
}

const (
	// EOFName is the name of the end-of-input terminal added by augmentation.
	EOFName = "<eof>"

	// StartName is the name of the start non-terminal added by augmentation.
	StartName = "<start>"
)

// Terminal is a terminal of a grammar. Pattern is a maleeni regular expression and may be empty for
// terminals the lexer never produces, such as precedence markers.
type Terminal struct {
	Name          string
	Pattern       string
	Precedence    int
	Associativity Associativity
}

type NonTerminal struct {
	Name string
}

// Rule is a production of a user grammar. An empty RHS derives the empty string.
// Prec optionally names a terminal whose precedence overrides the precedence of the rule;
// Epsilon means no override.
type Rule struct {
	LHS  int
	RHS  []symbol.Symbol
	Prec symbol.Symbol
}

// SkipKind is a lexical kind the lexer recognizes and the parser never sees.
type SkipKind struct {
	Name    string
	Pattern string
}

// Grammar is a context-free grammar whose symbols are already resolved into indexes.
type Grammar struct {
	Name         string
	Terminals    []*Terminal
	NonTerminals []*NonTerminal
	Rules        []*Rule
	Skip         []*SkipKind

	// Start is the index of the start non-terminal.
	Start int
}

// Validate checks that every symbol referenced by the grammar is in range. Generate returns the error of
// this check instead of building a table.
func (g *Grammar) Validate() error {
	if len(g.NonTerminals) == 0 {
		return fmt.Errorf("a grammar must have at least one non-terminal")
	}
	if g.Start < 0 || g.Start >= len(g.NonTerminals) {
		return fmt.Errorf("the start non-terminal is out of range: %v", g.Start)
	}
	for _, t := range g.Terminals {
		if t.Associativity != AssocNone && t.Precedence < 0 {
			return fmt.Errorf("precedence of terminal '%v' must be >= 0: %v", t.Name, t.Precedence)
		}
	}
	checkSym := func(rule int, sym symbol.Symbol) error {
		switch {
		case sym.IsTerminal() && sym.Num() >= len(g.Terminals):
			return fmt.Errorf("rule #%v refers to an undefined terminal: %v", rule, sym)
		case sym.IsNonTerminal() && sym.Num() >= len(g.NonTerminals):
			return fmt.Errorf("rule #%v refers to an undefined non-terminal: %v", rule, sym)
		}
		return nil
	}
	for i, r := range g.Rules {
		if r.LHS < 0 || r.LHS >= len(g.NonTerminals) {
			return fmt.Errorf("LHS of rule #%v is out of range: %v", i, r.LHS)
		}
		for _, sym := range r.RHS {
			if sym.IsEpsilon() {
				return fmt.Errorf("RHS of rule #%v must not contain epsilon explicitly", i)
			}
			if err := checkSym(i, sym); err != nil {
				return err
			}
		}
		if !r.Prec.IsEpsilon() {
			if !r.Prec.IsTerminal() {
				return fmt.Errorf("precedence of rule #%v must refer to a terminal: %v", i, r.Prec)
			}
			if err := checkSym(i, r.Prec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Grammar) TerminalName(num int) string {
	if num == len(g.Terminals) {
		return EOFName
	}
	if num < 0 || num > len(g.Terminals) {
		return fmt.Sprintf("<t%v>", num)
	}
	return g.Terminals[num].Name
}

func (g *Grammar) NonTerminalName(num int) string {
	if num == len(g.NonTerminals) {
		return StartName
	}
	if num < 0 || num > len(g.NonTerminals) {
		return fmt.Sprintf("<n%v>", num)
	}
	return g.NonTerminals[num].Name
}

func (g *Grammar) SymbolName(sym symbol.Symbol) string {
	switch {
	case sym.IsTerminal():
		return g.TerminalName(sym.Num())
	case sym.IsNonTerminal():
		return g.NonTerminalName(sym.Num())
	}
	return "ε"
}

// augmentedGrammar is a grammar extended with the end-of-input terminal and the start production.
type augmentedGrammar struct {
	prods *ProductionSet

	// eof is the end-of-input terminal. Its number equals the number of user terminals.
	eof symbol.Symbol

	// start is the augmented start non-terminal. Its number equals the number of user non-terminals.
	start symbol.Symbol

	// startProd is the number of the production `start → S`, which is the last production.
	startProd int
}

// augment builds the production set of the augmented grammar. Rules keep their indexes as production
// numbers, and the start production follows them.
func augment(g *Grammar) *augmentedGrammar {
	termCount := len(g.Terminals) + 1
	nonTermCount := len(g.NonTerminals) + 1
	prods := NewProductionSet(termCount, nonTermCount)

	for i, t := range g.Terminals {
		prods.SetTerminalPrecedence(symbol.NewTerminal(i), t.Precedence, t.Associativity)
	}

	for _, r := range g.Rules {
		prec := PrecNil
		if !r.Prec.IsEpsilon() {
			if prods.precedenceDeclared(r.Prec) {
				prec, _ = prods.TerminalPrecedence(r.Prec)
			}
		} else {
			// The leftmost terminal with a declared associativity determines the precedence.
			for _, sym := range r.RHS {
				if !sym.IsTerminal() || !prods.precedenceDeclared(sym) {
					continue
				}
				prec, _ = prods.TerminalPrecedence(sym)
				break
			}
		}

		rhs := r.RHS
		if len(rhs) == 0 {
			rhs = []symbol.Symbol{symbol.Epsilon}
		}
		prods.AddProduction(&Production{
			LHS:        symbol.NewNonTerminal(r.LHS),
			RHS:        rhs,
			Precedence: prec,
		})
	}

	start := symbol.NewNonTerminal(len(g.NonTerminals))
	startProd := prods.AddProduction(&Production{
		LHS:        start,
		RHS:        []symbol.Symbol{symbol.NewNonTerminal(g.Start)},
		Precedence: PrecNil,
	})

	return &augmentedGrammar{
		prods:     prods,
		eof:       symbol.NewTerminal(len(g.Terminals)),
		start:     start,
		startProd: startProd,
	}
}
