package grammar

import (
	"github.com/wavelang/lrgen/grammar/symbol"
)

type symbolProperty struct {
	nullable bool
	first    *symbol.Set
}

// symbolProperties holds nullability and FIRST sets of all symbols, indexed by the unified symbol index.
type symbolProperties struct {
	prods *ProductionSet
	props []*symbolProperty
}

func genSymbolProperties(prods *ProductionSet) *symbolProperties {
	props := make([]*symbolProperty, prods.SymbolCount())
	for i := range props {
		props[i] = &symbolProperty{
			first: symbol.NewSet(),
		}
	}
	sp := &symbolProperties{
		prods: prods,
		props: props,
	}

	sp.props[0].nullable = true
	sp.props[0].first.Add(symbol.Epsilon)
	for t := 0; t < prods.TerminalCount(); t++ {
		term := symbol.NewTerminal(t)
		sp.of(term).first.Add(term)
	}

	sp.computeNullable()
	sp.computeFirst()

	return sp
}

func (sp *symbolProperties) of(sym symbol.Symbol) *symbolProperty {
	return sp.props[sp.prods.SymbolIndex(sym)]
}

func (sp *symbolProperties) nullable(sym symbol.Symbol) bool {
	return sp.of(sym).nullable
}

func (sp *symbolProperties) first(sym symbol.Symbol) *symbol.Set {
	return sp.of(sym).first
}

func (sp *symbolProperties) computeNullable() {
	for {
		changed := false
		for i := 0; i < sp.prods.Len(); i++ {
			prod := sp.prods.Production(i)
			lhs := sp.of(prod.LHS)
			if lhs.nullable {
				continue
			}
			allNullable := true
			for _, sym := range prod.RHS {
				if !sp.nullable(sym) {
					allNullable = false
					break
				}
			}
			if allNullable {
				lhs.nullable = true
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func (sp *symbolProperties) computeFirst() {
	for {
		changed := false
		for i := 0; i < sp.prods.Len(); i++ {
			prod := sp.prods.Production(i)
			lhs := sp.of(prod.LHS)
			for _, sym := range prod.RHS {
				if lhs.first.Union(sp.first(sym), true) {
					changed = true
				}
				if !sp.nullable(sym) {
					break
				}
			}
			if lhs.nullable && lhs.first.Add(symbol.Epsilon) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// firstOfString returns FIRST of a symbol string. The result contains epsilon only when every
// symbol of the string is nullable.
func (sp *symbolProperties) firstOfString(syms ...symbol.Symbol) *symbol.Set {
	result := symbol.NewSet()
	for _, sym := range syms {
		result.Union(sp.first(sym), true)
		if !sp.nullable(sym) {
			return result
		}
	}
	result.Add(symbol.Epsilon)
	return result
}
