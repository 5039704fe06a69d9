package grammar

import (
	"fmt"
	"strings"

	"github.com/wavelang/lrgen/grammar/symbol"
)

// Associativity of a terminal. Only terminals whose associativity is not AssocNone take part in
// conflict resolution.
type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
	AssocNonAssoc
)

func (a Associativity) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	case AssocNonAssoc:
		return "nonassoc"
	}
	return "none"
}

// ParseAssociativity converts a textual associativity into an Associativity. An empty string means AssocNone.
func ParseAssociativity(s string) (Associativity, bool) {
	switch s {
	case "", "none":
		return AssocNone, true
	case "left":
		return AssocLeft, true
	case "right":
		return AssocRight, true
	case "nonassoc":
		return AssocNonAssoc, true
	}
	return AssocNone, false
}

// PrecNil means that a terminal or a production has no precedence.
const PrecNil = -1

type Production struct {
	LHS        symbol.Symbol
	RHS        []symbol.Symbol
	Precedence int
}

func (p *Production) HasPrecedence() bool {
	return p.Precedence != PrecNil
}

// IsEmpty reports whether the RHS is the empty string.
func (p *Production) IsEmpty() bool {
	return len(p.RHS) == 1 && p.RHS[0].IsEpsilon()
}

// RHSLen returns the number of states a parser pops when it reduces the production.
func (p *Production) RHSLen() int {
	if p.IsEmpty() {
		return 0
	}
	return len(p.RHS)
}

func (p *Production) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", p.LHS)
	for _, sym := range p.RHS {
		fmt.Fprintf(&b, " %v", sym)
	}
	return b.String()
}

type terminalPrec struct {
	prec  int
	assoc Associativity
}

// ProductionSet holds productions and terminal precedence. Productions are numbered in insertion order.
type ProductionSet struct {
	termCount    int
	nonTermCount int
	prods        []*Production
	lhs2Prods    [][]int
	termPrec     []terminalPrec
}

func NewProductionSet(termCount, nonTermCount int) *ProductionSet {
	if termCount < 0 || nonTermCount < 0 {
		panic(fmt.Sprintf("symbol counts must be >= 0; terminals: %v, non-terminals: %v", termCount, nonTermCount))
	}
	termPrec := make([]terminalPrec, termCount)
	for i := range termPrec {
		termPrec[i] = terminalPrec{
			prec:  PrecNil,
			assoc: AssocNone,
		}
	}
	return &ProductionSet{
		termCount:    termCount,
		nonTermCount: nonTermCount,
		lhs2Prods:    make([][]int, nonTermCount),
		termPrec:     termPrec,
	}
}

func (ps *ProductionSet) TerminalCount() int {
	return ps.termCount
}

func (ps *ProductionSet) NonTerminalCount() int {
	return ps.nonTermCount
}

// SymbolCount returns the size of the unified symbol index space, which includes epsilon.
func (ps *ProductionSet) SymbolCount() int {
	return 1 + ps.termCount + ps.nonTermCount
}

// SymbolIndex maps a symbol into the unified index space: epsilon is 0, terminals follow it,
// and non-terminals follow the terminals.
func (ps *ProductionSet) SymbolIndex(sym symbol.Symbol) int {
	switch {
	case sym.IsTerminal():
		return 1 + sym.Num()
	case sym.IsNonTerminal():
		return 1 + ps.termCount + sym.Num()
	}
	return 0
}

func (ps *ProductionSet) inRange(sym symbol.Symbol) bool {
	switch {
	case sym.IsTerminal():
		return sym.Num() < ps.termCount
	case sym.IsNonTerminal():
		return sym.Num() < ps.nonTermCount
	}
	return true
}

// AddProduction appends a production and returns its number. An empty RHS must be given as a single
// epsilon. It panics when the production is malformed.
func (ps *ProductionSet) AddProduction(prod *Production) int {
	if !prod.LHS.IsNonTerminal() || !ps.inRange(prod.LHS) {
		panic(fmt.Sprintf("LHS must be a non-terminal in range: %v", prod.LHS))
	}
	if len(prod.RHS) == 0 {
		panic(fmt.Sprintf("RHS must not be empty; use epsilon for an empty production: %v", prod))
	}
	for _, sym := range prod.RHS {
		if !ps.inRange(sym) {
			panic(fmt.Sprintf("a symbol of RHS is out of range: %v", prod))
		}
		if sym.IsEpsilon() && len(prod.RHS) > 1 {
			panic(fmt.Sprintf("epsilon must be the only symbol of RHS: %v", prod))
		}
	}

	num := len(ps.prods)
	ps.prods = append(ps.prods, &Production{
		LHS:        prod.LHS,
		RHS:        append([]symbol.Symbol{}, prod.RHS...),
		Precedence: prod.Precedence,
	})
	ps.lhs2Prods[prod.LHS.Num()] = append(ps.lhs2Prods[prod.LHS.Num()], num)
	return num
}

func (ps *ProductionSet) Production(num int) *Production {
	if num < 0 || num >= len(ps.prods) {
		panic(fmt.Sprintf("a production number is out of range: %v", num))
	}
	return ps.prods[num]
}

func (ps *ProductionSet) Len() int {
	return len(ps.prods)
}

// ProductionsOf returns the numbers of productions whose LHS is `lhs`.
func (ps *ProductionSet) ProductionsOf(lhs symbol.Symbol) []int {
	if !lhs.IsNonTerminal() || !ps.inRange(lhs) {
		panic(fmt.Sprintf("a non-terminal in range is required: %v", lhs))
	}
	return ps.lhs2Prods[lhs.Num()]
}

func (ps *ProductionSet) SetTerminalPrecedence(term symbol.Symbol, prec int, assoc Associativity) {
	if !term.IsTerminal() || !ps.inRange(term) {
		panic(fmt.Sprintf("a terminal in range is required: %v", term))
	}
	ps.termPrec[term.Num()] = terminalPrec{
		prec:  prec,
		assoc: assoc,
	}
}

func (ps *ProductionSet) TerminalPrecedence(term symbol.Symbol) (int, Associativity) {
	if !term.IsTerminal() || !ps.inRange(term) {
		panic(fmt.Sprintf("a terminal in range is required: %v", term))
	}
	p := ps.termPrec[term.Num()]
	return p.prec, p.assoc
}

// precedenceDeclared reports whether a terminal takes part in conflict resolution.
func (ps *ProductionSet) precedenceDeclared(term symbol.Symbol) bool {
	_, assoc := ps.TerminalPrecedence(term)
	return assoc != AssocNone
}
