package grammar

import (
	"github.com/wavelang/lrgen/grammar/symbol"
)

type lr1State struct {
	num   int
	items *itemSet
}

// lr1Collection is a canonical collection of LR(1) item sets under construction.
type lr1Collection struct {
	prods     *ProductionSet
	props     *symbolProperties
	startProd int
	states    []*lr1State

	// hash2States maps the hash of an item set to the states having that hash. Item sets with the same hash
	// are compared member by member before a state is reused.
	hash2States map[string][]int
}

func newLR1Collection(prods *ProductionSet, props *symbolProperties, startProd int) *lr1Collection {
	return &lr1Collection{
		prods:       prods,
		props:       props,
		startProd:   startProd,
		hash2States: map[string][]int{},
	}
}

// closure returns the closure of `items`. Every item added to the result is expanded exactly once.
func (c *lr1Collection) closure(items *itemSet) *itemSet {
	result := newItemSet(items.items...)
	for i := 0; i < len(result.items); i++ {
		item := result.items[i]
		sym := item.dottedSymbol(c.prods)
		if !sym.IsNonTerminal() {
			continue
		}

		// [A → α・B β, a] adds [B → ・γ, b] for every b in FIRST(β a).
		prod := c.prods.Production(item.prod)
		rest := prod.RHS[item.dot+1 : prod.RHSLen()]
		str := make([]symbol.Symbol, 0, len(rest)+1)
		str = append(str, rest...)
		str = append(str, item.lookAhead)
		lookAheads := c.props.firstOfString(str...).Symbols()

		for _, p := range c.prods.ProductionsOf(sym) {
			for _, la := range lookAheads {
				if la.IsEpsilon() {
					continue
				}
				result.add(lrItem{
					prod:      p,
					dot:       0,
					lookAhead: la,
				})
			}
		}
	}
	return result
}

// goTo returns the closure of the items of `items` with the dot advanced over `sym`. It returns an empty
// set when no item has `sym` after the dot.
func (c *lr1Collection) goTo(items *itemSet, sym symbol.Symbol) *itemSet {
	moved := newItemSet()
	for _, item := range items.items {
		if item.complete(c.prods) || item.dottedSymbol(c.prods) != sym {
			continue
		}
		moved.add(item.advance())
	}
	if moved.len() == 0 {
		return moved
	}
	return c.closure(moved)
}

// lookupOrAdd returns the number of the state whose items equal `items`, adding a new state when none exists.
func (c *lr1Collection) lookupOrAdd(items *itemSet) (int, bool) {
	h := items.hash(c.prods)
	for _, num := range c.hash2States[h] {
		if c.states[num].items.equals(items) {
			return num, false
		}
	}
	num := len(c.states)
	c.states = append(c.states, &lr1State{
		num:   num,
		items: items,
	})
	c.hash2States[h] = append(c.hash2States[h], num)
	return num, true
}

// alphabet returns all symbols in the order a builder visits them: terminals first, then non-terminals,
// each in ascending order.
func (c *lr1Collection) alphabet() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, c.prods.TerminalCount()+c.prods.NonTerminalCount())
	for t := 0; t < c.prods.TerminalCount(); t++ {
		syms = append(syms, symbol.NewTerminal(t))
	}
	for n := 0; n < c.prods.NonTerminalCount(); n++ {
		syms = append(syms, symbol.NewNonTerminal(n))
	}
	return syms
}
