package grammar

import (
	"fmt"
	"testing"

	"github.com/wavelang/lrgen/grammar/symbol"
)

func TestProductionSet_RoundTrip(t *testing.T) {
	ps := NewProductionSet(3, 2)
	prods := []*Production{
		{
			LHS:        symbol.NewNonTerminal(0),
			RHS:        []symbol.Symbol{symbol.NewNonTerminal(0), symbol.NewTerminal(0), symbol.NewNonTerminal(1)},
			Precedence: 1,
		},
		{
			LHS:        symbol.NewNonTerminal(0),
			RHS:        []symbol.Symbol{symbol.NewNonTerminal(1)},
			Precedence: PrecNil,
		},
		{
			LHS:        symbol.NewNonTerminal(1),
			RHS:        []symbol.Symbol{symbol.Epsilon},
			Precedence: PrecNil,
		},
		{
			LHS:        symbol.NewNonTerminal(1),
			RHS:        []symbol.Symbol{symbol.NewTerminal(2)},
			Precedence: 7,
		},
	}
	for i, p := range prods {
		num := ps.AddProduction(p)
		if num != i {
			t.Fatalf("unexpected production number; want: %v, got: %v", i, num)
		}
	}
	if ps.Len() != len(prods) {
		t.Fatalf("unexpected production count; want: %v, got: %v", len(prods), ps.Len())
	}
	for i, want := range prods {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			got := ps.Production(i)
			if got.LHS != want.LHS {
				t.Fatalf("unexpected LHS; want: %v, got: %v", want.LHS, got.LHS)
			}
			if len(got.RHS) != len(want.RHS) {
				t.Fatalf("unexpected RHS; want: %v, got: %v", want.RHS, got.RHS)
			}
			for j := range want.RHS {
				if got.RHS[j] != want.RHS[j] {
					t.Fatalf("unexpected RHS; want: %v, got: %v", want.RHS, got.RHS)
				}
			}
			if got.Precedence != want.Precedence {
				t.Fatalf("unexpected precedence; want: %v, got: %v", want.Precedence, got.Precedence)
			}
		})
	}

	if !ps.Production(2).IsEmpty() || ps.Production(2).RHSLen() != 0 {
		t.Fatalf("an epsilon production must be empty")
	}
	lhs1 := ps.ProductionsOf(symbol.NewNonTerminal(1))
	if len(lhs1) != 2 || lhs1[0] != 2 || lhs1[1] != 3 {
		t.Fatalf("unexpected productions of n1: %v", lhs1)
	}
}

func TestProductionSet_SymbolIndex(t *testing.T) {
	ps := NewProductionSet(2, 3)
	tests := []struct {
		sym   symbol.Symbol
		index int
	}{
		{sym: symbol.Epsilon, index: 0},
		{sym: symbol.NewTerminal(0), index: 1},
		{sym: symbol.NewTerminal(1), index: 2},
		{sym: symbol.NewNonTerminal(0), index: 3},
		{sym: symbol.NewNonTerminal(2), index: 5},
	}
	for _, tt := range tests {
		if got := ps.SymbolIndex(tt.sym); got != tt.index {
			t.Errorf("unexpected index of %v; want: %v, got: %v", tt.sym, tt.index, got)
		}
	}
	if ps.SymbolCount() != 6 {
		t.Errorf("unexpected symbol count; want: 6, got: %v", ps.SymbolCount())
	}
}

func TestProductionSet_Precondition(t *testing.T) {
	tests := []struct {
		caption string
		prod    *Production
	}{
		{
			caption: "LHS must be a non-terminal",
			prod: &Production{
				LHS: symbol.NewTerminal(0),
				RHS: []symbol.Symbol{symbol.NewTerminal(0)},
			},
		},
		{
			caption: "RHS must not be empty",
			prod: &Production{
				LHS: symbol.NewNonTerminal(0),
			},
		},
		{
			caption: "a symbol must be in range",
			prod: &Production{
				LHS: symbol.NewNonTerminal(0),
				RHS: []symbol.Symbol{symbol.NewTerminal(5)},
			},
		},
		{
			caption: "epsilon must be the only symbol",
			prod: &Production{
				LHS: symbol.NewNonTerminal(0),
				RHS: []symbol.Symbol{symbol.NewTerminal(0), symbol.Epsilon},
			},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %s", i, tt.caption), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("AddProduction must panic")
				}
			}()
			NewProductionSet(1, 1).AddProduction(tt.prod)
		})
	}
}

func TestAugment_LeftmostTerminalPrecedence(t *testing.T) {
	b := newTestGrammarBuilder(t, []string{"add", "mul", "id", "neg"}, []string{"E"}).
		prec("add", 1, AssocLeft).
		prec("mul", 2, AssocLeft).
		prec("neg", 3, AssocRight).
		rule("E", "E", "add", "E", "mul", "E").
		rule("E", "id", "mul", "E").
		ruleWithPrec("neg", "E", "E", "add", "E").
		rule("E", "id")
	aug := augment(b.grammar())

	tests := []struct {
		prod int
		prec int
	}{
		// The leftmost terminal with associativity decides, not the rightmost one.
		{prod: 0, prec: 1},
		// `id` has no associativity and is skipped.
		{prod: 1, prec: 2},
		{prod: 2, prec: 3},
		{prod: 3, prec: PrecNil},
	}
	for _, tt := range tests {
		got := aug.prods.Production(tt.prod).Precedence
		if got != tt.prec {
			t.Errorf("unexpected precedence of production %v; want: %v, got: %v", tt.prod, tt.prec, got)
		}
	}

	start := aug.prods.Production(aug.startProd)
	if aug.startProd != 4 || start.LHS != symbol.NewNonTerminal(1) || start.RHS[0] != b.sym("E") {
		t.Fatalf("the start production must be appended last: %v", start)
	}
	if aug.eof != symbol.NewTerminal(4) {
		t.Fatalf("unexpected end-of-input terminal: %v", aug.eof)
	}
}

func TestAugment_OverrideTerminalPrecedence(t *testing.T) {
	b := newTestGrammarBuilder(t, []string{"sub", "num", "uminus", "marker"}, []string{"E"}).
		prec("sub", 1, AssocLeft).
		prec("uminus", 2, AssocRight).
		rule("E", "E", "sub", "E").
		ruleWithPrec("uminus", "E", "sub", "E").
		ruleWithPrec("marker", "E", "sub", "num").
		rule("E", "num")
	b.g.Terminals[b.sym("marker").Num()].Precedence = 5
	aug := augment(b.grammar())

	tests := []struct {
		caption string
		prod    int
		prec    int
	}{
		{caption: "no override", prod: 0, prec: 1},
		{caption: "an override terminal replaces the leftmost terminal", prod: 1, prec: 2},
		// A precedence without associativity is not declared, so it never takes part in resolution.
		{caption: "an override terminal without associativity", prod: 2, prec: PrecNil},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			got := aug.prods.Production(tt.prod).Precedence
			if got != tt.prec {
				t.Fatalf("unexpected precedence of production %v; want: %v, got: %v", tt.prod, tt.prec, got)
			}
		})
	}
}
