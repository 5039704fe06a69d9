package symbol

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

type symbolKind int

const (
	symbolKindEpsilon symbolKind = iota
	symbolKindTerminal
	symbolKindNonTerminal
)

func (k symbolKind) String() string {
	switch k {
	case symbolKindTerminal:
		return "terminal"
	case symbolKindNonTerminal:
		return "non-terminal"
	}
	return "epsilon"
}

// Symbol is a grammar symbol: the empty string, a terminal, or a non-terminal.
// Terminals and non-terminals are numbered independently from 0. The zero value is Epsilon.
type Symbol struct {
	kind symbolKind
	num  int
}

// Epsilon represents the empty string.
var Epsilon = Symbol{}

// NewTerminal returns a terminal symbol numbered `num`.
func NewTerminal(num int) Symbol {
	if num < 0 {
		panic(fmt.Sprintf("a terminal number must be >= 0: %v", num))
	}
	return Symbol{
		kind: symbolKindTerminal,
		num:  num,
	}
}

// NewNonTerminal returns a non-terminal symbol numbered `num`.
func NewNonTerminal(num int) Symbol {
	if num < 0 {
		panic(fmt.Sprintf("a non-terminal number must be >= 0: %v", num))
	}
	return Symbol{
		kind: symbolKindNonTerminal,
		num:  num,
	}
}

func (s Symbol) IsEpsilon() bool {
	return s.kind == symbolKindEpsilon
}

func (s Symbol) IsTerminal() bool {
	return s.kind == symbolKindTerminal
}

func (s Symbol) IsNonTerminal() bool {
	return s.kind == symbolKindNonTerminal
}

// Num returns the number of a symbol within its kind. Epsilon has no number and returns 0.
func (s Symbol) Num() int {
	return s.num
}

func (s Symbol) String() string {
	switch s.kind {
	case symbolKindTerminal:
		return fmt.Sprintf("t%v", s.num)
	case symbolKindNonTerminal:
		return fmt.Sprintf("n%v", s.num)
	}
	return "ε"
}

// Compare orders symbols as epsilon < terminals < non-terminals, and by number within a kind.
// It returns a negative value when a < b, 0 when a == b, and a positive value otherwise.
func Compare(a, b Symbol) int {
	if a.kind != b.kind {
		return int(a.kind) - int(b.kind)
	}
	return a.num - b.num
}

func comparator(a, b interface{}) int {
	return Compare(a.(Symbol), b.(Symbol))
}

var _ utils.Comparator = comparator

// Set is an ordered set of symbols without duplicates.
type Set struct {
	set *treeset.Set
}

// NewSet returns a set containing `syms`.
func NewSet(syms ...Symbol) *Set {
	s := &Set{
		set: treeset.NewWith(comparator),
	}
	for _, sym := range syms {
		s.set.Add(sym)
	}
	return s
}

// Add inserts `sym` and reports whether the set changed.
func (s *Set) Add(sym Symbol) bool {
	if s.set.Contains(sym) {
		return false
	}
	s.set.Add(sym)
	return true
}

// Union inserts every member of `other` and reports whether the set changed.
// When `ignoreEpsilon` is true, Epsilon in `other` is skipped.
func (s *Set) Union(other *Set, ignoreEpsilon bool) bool {
	changed := false
	it := other.set.Iterator()
	for it.Next() {
		sym := it.Value().(Symbol)
		if ignoreEpsilon && sym.IsEpsilon() {
			continue
		}
		if s.Add(sym) {
			changed = true
		}
	}
	return changed
}

func (s *Set) Contains(sym Symbol) bool {
	return s.set.Contains(sym)
}

func (s *Set) Len() int {
	return s.set.Size()
}

// Symbols returns the members in ascending order.
func (s *Set) Symbols() []Symbol {
	syms := make([]Symbol, 0, s.set.Size())
	it := s.set.Iterator()
	for it.Next() {
		syms = append(syms, it.Value().(Symbol))
	}
	return syms
}

// Equal reports whether two sets have the same members.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	it := other.set.Iterator()
	for it.Next() {
		if !s.set.Contains(it.Value()) {
			return false
		}
	}
	return true
}

func (s *Set) String() string {
	return fmt.Sprintf("%v", s.Symbols())
}
