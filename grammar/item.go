package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"github.com/wavelang/lrgen/grammar/symbol"
)

// lrItem is an LR(1) item.
//
// E → E + T
//
// Dot | Dotted Symbol | Item
// ----+---------------+------------
// 0   | E             | E →・E + T
// 1   | +             | E → E・+ T
// 2   | T             | E → E +・T
// 3   | ε             | E → E + T・
//
// The dot of an item of an empty production is always 0, and the item is complete.
type lrItem struct {
	prod      int
	dot       int
	lookAhead symbol.Symbol
}

func (item lrItem) dottedSymbol(prods *ProductionSet) symbol.Symbol {
	p := prods.Production(item.prod)
	if item.dot >= p.RHSLen() {
		return symbol.Epsilon
	}
	return p.RHS[item.dot]
}

func (item lrItem) complete(prods *ProductionSet) bool {
	return item.dot >= prods.Production(item.prod).RHSLen()
}

func (item lrItem) advance() lrItem {
	return lrItem{
		prod:      item.prod,
		dot:       item.dot + 1,
		lookAhead: item.lookAhead,
	}
}

func (item lrItem) kernel(startProd int) bool {
	return item.dot > 0 || item.prod == startProd
}

func compareItems(a, b lrItem) int {
	if a.prod != b.prod {
		return a.prod - b.prod
	}
	if a.dot != b.dot {
		return a.dot - b.dot
	}
	return symbol.Compare(a.lookAhead, b.lookAhead)
}

// itemSet is a set of LR(1) items that remembers insertion order. Equality ignores the order.
type itemSet struct {
	items   []lrItem
	members map[lrItem]struct{}
}

func newItemSet(items ...lrItem) *itemSet {
	s := &itemSet{
		members: map[lrItem]struct{}{},
	}
	for _, item := range items {
		s.add(item)
	}
	return s
}

func (s *itemSet) add(item lrItem) bool {
	if _, ok := s.members[item]; ok {
		return false
	}
	s.members[item] = struct{}{}
	s.items = append(s.items, item)
	return true
}

func (s *itemSet) contains(item lrItem) bool {
	_, ok := s.members[item]
	return ok
}

func (s *itemSet) len() int {
	return len(s.items)
}

func (s *itemSet) equals(t *itemSet) bool {
	if s.len() != t.len() {
		return false
	}
	for _, item := range t.items {
		if !s.contains(item) {
			return false
		}
	}
	return true
}

func (s *itemSet) sorted() []lrItem {
	items := append([]lrItem{}, s.items...)
	sort.Slice(items, func(i, j int) bool {
		return compareItems(items[i], items[j]) < 0
	})
	return items
}

type itemKey struct {
	Prod      int
	Dot       int
	LookAhead int
}

// hash returns a key that is equal for item sets with the same members.
func (s *itemSet) hash(prods *ProductionSet) string {
	items := s.sorted()
	keys := make([]itemKey, len(items))
	for i, item := range items {
		keys[i] = itemKey{
			Prod:      item.prod,
			Dot:       item.dot,
			LookAhead: prods.SymbolIndex(item.lookAhead),
		}
	}
	h, err := structhash.Hash(keys, 1)
	if err != nil {
		panic(fmt.Sprintf("failed to hash an item set: %v", err))
	}
	return h
}

func (s *itemSet) describe(g *Grammar, prods *ProductionSet) string {
	var b strings.Builder
	for i, item := range s.items {
		if i > 0 {
			fmt.Fprintf(&b, "\n")
		}
		p := prods.Production(item.prod)
		fmt.Fprintf(&b, "%v →", g.SymbolName(p.LHS))
		for j := 0; j < p.RHSLen(); j++ {
			if j == item.dot {
				fmt.Fprintf(&b, " ・")
			}
			fmt.Fprintf(&b, " %v", g.SymbolName(p.RHS[j]))
		}
		if item.complete(prods) {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, ", %v", g.SymbolName(item.lookAhead))
	}
	return b.String()
}
