package grammar

import (
	"fmt"
	"strings"

	"github.com/wavelang/lrgen/grammar/symbol"
)

type ActionType int

const (
	ActionTypeInvalid ActionType = iota
	ActionTypeShift
	ActionTypeReduce
	ActionTypeAccept
)

func (t ActionType) String() string {
	switch t {
	case ActionTypeShift:
		return "shift"
	case ActionTypeReduce:
		return "reduce"
	case ActionTypeAccept:
		return "accept"
	}
	return "invalid"
}

// Action is an entry of an action table. Num is the next state of a shift action and the production
// number of a reduce action. Invalid and accept actions ignore Num.
type Action struct {
	Type ActionType
	Num  int
}

func shiftAction(state int) Action {
	return Action{Type: ActionTypeShift, Num: state}
}

func reduceAction(prod int) Action {
	return Action{Type: ActionTypeReduce, Num: prod}
}

func acceptAction() Action {
	return Action{Type: ActionTypeAccept}
}

func (a Action) String() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("shift %v", a.Num)
	case ActionTypeReduce:
		return fmt.Sprintf("reduce %v", a.Num)
	}
	return a.Type.String()
}

type conflictResolutionMethod int

func (m conflictResolutionMethod) Int() int {
	return int(m)
}

func (m conflictResolutionMethod) String() string {
	switch m {
	case ResolvedByPrec:
		return "precedence"
	case ResolvedByAssoc:
		return "associativity"
	case ResolvedByProdPrec:
		return "production precedence"
	}
	return "unresolved"
}

const (
	ResolvedByPrec     conflictResolutionMethod = 1
	ResolvedByAssoc    conflictResolutionMethod = 2
	ResolvedByProdPrec conflictResolutionMethod = 3
)

// Conflict is a conflict that precedence and associativity cannot resolve. A grammar having a conflict
// has no deterministic parsing table.
type Conflict interface {
	error
	ConflictState() int
	ConflictTerminal() symbol.Symbol
}

var (
	_ Conflict = &ShiftReduceConflict{}
	_ Conflict = &ReduceReduceConflict{}
)

type ShiftReduceConflict struct {
	State      int
	Terminal   symbol.Symbol
	Production int
}

func (c *ShiftReduceConflict) Error() string {
	return fmt.Sprintf("shift/reduce conflict in state %v on %v: shifting competes with reducing production %v", c.State, c.Terminal, c.Production)
}

func (c *ShiftReduceConflict) ConflictState() int {
	return c.State
}

func (c *ShiftReduceConflict) ConflictTerminal() symbol.Symbol {
	return c.Terminal
}

// ReduceReduceConflict is a conflict between two productions. Production1 is the production whose reduce
// action was being written, and Production2 is the production already in the table.
type ReduceReduceConflict struct {
	State       int
	Terminal    symbol.Symbol
	Production1 int
	Production2 int
}

func (c *ReduceReduceConflict) Error() string {
	return fmt.Sprintf("reduce/reduce conflict in state %v on %v: productions %v and %v", c.State, c.Terminal, c.Production1, c.Production2)
}

func (c *ReduceReduceConflict) ConflictState() int {
	return c.State
}

func (c *ReduceReduceConflict) ConflictTerminal() symbol.Symbol {
	return c.Terminal
}

// DescribeConflict renders a conflict using the names of the symbols of a grammar.
func (g *Grammar) DescribeConflict(c Conflict) string {
	switch c := c.(type) {
	case *ShiftReduceConflict:
		return fmt.Sprintf("shift/reduce conflict in state %v on '%v': shift '%v' or reduce '%v'",
			c.State, g.SymbolName(c.Terminal), g.SymbolName(c.Terminal), g.DescribeProduction(c.Production))
	case *ReduceReduceConflict:
		return fmt.Sprintf("reduce/reduce conflict in state %v on '%v': reduce '%v' or reduce '%v'",
			c.State, g.SymbolName(c.Terminal), g.DescribeProduction(c.Production1), g.DescribeProduction(c.Production2))
	}
	return c.Error()
}

// DescribeProduction renders a production of the augmented grammar. Production numbers equal rule indexes,
// and the number following the last rule is the start production.
func (g *Grammar) DescribeProduction(num int) string {
	var b strings.Builder
	switch {
	case num >= 0 && num < len(g.Rules):
		r := g.Rules[num]
		fmt.Fprintf(&b, "%v →", g.NonTerminalName(r.LHS))
		if len(r.RHS) == 0 {
			fmt.Fprintf(&b, " ε")
		}
		for _, sym := range r.RHS {
			fmt.Fprintf(&b, " %v", g.SymbolName(sym))
		}
	case num == len(g.Rules):
		fmt.Fprintf(&b, "%v → %v", StartName, g.NonTerminalName(g.Start))
	default:
		fmt.Fprintf(&b, "#%v", num)
	}
	return b.String()
}

// ResolvedConflict is a conflict that precedence or associativity resolved.
type ResolvedConflict struct {
	State    int
	Terminal symbol.Symbol

	// Shift is the shift action of a shift/reduce conflict. It is invalid in a reduce/reduce conflict.
	Shift Action

	// Reduce holds the productions that competed. It has one element in a shift/reduce conflict and two
	// elements in a reduce/reduce conflict.
	Reduce []int

	Adopted    Action
	ResolvedBy conflictResolutionMethod
}

// InitialState is the state a parser starts in.
const InitialState = 0

// ParsingTable is an action table and a goto table of a canonical LR(1) automaton. Terminal and
// non-terminal numbers include the symbols added by augmentation.
type ParsingTable struct {
	actionTable      []Action
	goToTable        []int
	stateCount       int
	terminalCount    int
	nonTerminalCount int

	prods     *ProductionSet
	eof       symbol.Symbol
	start     symbol.Symbol
	startProd int
	kernels   [][]lrItem
	resolved  []*ResolvedConflict
}

func (t *ParsingTable) Action(state int, term int) Action {
	return t.actionTable[state*t.terminalCount+term]
}

// GoTo returns the state a parser enters after reducing to `nonTerm` in `state`.
func (t *ParsingTable) GoTo(state int, nonTerm int) (int, bool) {
	next := t.goToTable[state*t.nonTerminalCount+nonTerm]
	if next == goToNil {
		return 0, false
	}
	return next, true
}

func (t *ParsingTable) StateCount() int {
	return t.stateCount
}

func (t *ParsingTable) TerminalCount() int {
	return t.terminalCount
}

func (t *ParsingTable) NonTerminalCount() int {
	return t.nonTerminalCount
}

// EOF returns the end-of-input terminal.
func (t *ParsingTable) EOF() symbol.Symbol {
	return t.eof
}

// Start returns the augmented start non-terminal.
func (t *ParsingTable) Start() symbol.Symbol {
	return t.start
}

// StartProduction returns the number of the production `<start> → S`.
func (t *ParsingTable) StartProduction() int {
	return t.startProd
}

// Productions returns the productions of the augmented grammar.
func (t *ParsingTable) Productions() *ProductionSet {
	return t.prods
}

// ResolvedConflicts returns the conflicts precedence or associativity resolved, in the order they were found.
func (t *ParsingTable) ResolvedConflicts() []*ResolvedConflict {
	return t.resolved
}

// goToNil is an empty goto entry. The initial state is never a goto target.
const goToNil = 0

// lrTableBuilder grows the rows of a parsing table while a canonical collection grows.
type lrTableBuilder struct {
	prods    *ProductionSet
	actions  [][]Action
	goTos    [][]int
	resolved []*ResolvedConflict
}

func (b *lrTableBuilder) addRow() {
	b.actions = append(b.actions, make([]Action, b.prods.TerminalCount()))
	b.goTos = append(b.goTos, make([]int, b.prods.NonTerminalCount()))
}

func (b *lrTableBuilder) writeGoTo(state int, nonTerm symbol.Symbol, next int) {
	b.goTos[state][nonTerm.Num()] = next
}

// writeAction writes an action into a cell, resolving a conflict with the action already in it.
// It returns a Conflict when the conflict cannot be resolved.
func (b *lrTableBuilder) writeAction(state int, term symbol.Symbol, act Action) error {
	cur := b.actions[state][term.Num()]
	if cur == act {
		return nil
	}
	if cur.Type == ActionTypeInvalid {
		b.actions[state][term.Num()] = act
		return nil
	}

	switch {
	case cur.Type == ActionTypeShift && act.Type == ActionTypeReduce:
		return b.resolveSRConflict(state, term, cur, act)
	case cur.Type == ActionTypeReduce && act.Type == ActionTypeShift:
		return b.resolveSRConflict(state, term, act, cur)
	case cur.Type == ActionTypeReduce && act.Type == ActionTypeReduce:
		return b.resolveRRConflict(state, term, act, cur)
	}
	panic(fmt.Sprintf("unexpected actions in state %v on %v: %v and %v", state, term, cur, act))
}

func (b *lrTableBuilder) resolveSRConflict(state int, term symbol.Symbol, shift Action, reduce Action) error {
	termPrec, termAssoc := b.prods.TerminalPrecedence(term)
	if termAssoc == AssocNone {
		termPrec = PrecNil
	}
	prodPrec := b.prods.Production(reduce.Num).Precedence

	var adopted Action
	var method conflictResolutionMethod
	switch {
	case termPrec == PrecNil || prodPrec == PrecNil:
	case termPrec > prodPrec:
		adopted, method = shift, ResolvedByPrec
	case termPrec < prodPrec:
		adopted, method = reduce, ResolvedByPrec
	case termAssoc == AssocRight:
		adopted, method = shift, ResolvedByAssoc
	case termAssoc == AssocLeft:
		adopted, method = reduce, ResolvedByAssoc
	}
	if adopted.Type == ActionTypeInvalid {
		tracer().Errorf("unresolved shift/reduce conflict in state %v on %v; production: %v", state, term, reduce.Num)
		return &ShiftReduceConflict{
			State:      state,
			Terminal:   term,
			Production: reduce.Num,
		}
	}

	tracer().Debugf("shift/reduce conflict in state %v on %v resolved by %v: %v", state, term, method, adopted)
	b.actions[state][term.Num()] = adopted
	b.resolved = append(b.resolved, &ResolvedConflict{
		State:      state,
		Terminal:   term,
		Shift:      shift,
		Reduce:     []int{reduce.Num},
		Adopted:    adopted,
		ResolvedBy: method,
	})
	return nil
}

func (b *lrTableBuilder) resolveRRConflict(state int, term symbol.Symbol, act Action, cur Action) error {
	prodA := act.Num
	prodB := cur.Num
	precA := b.prods.Production(prodA).Precedence
	precB := b.prods.Production(prodB).Precedence
	if precA == PrecNil || precB == PrecNil || precA == precB {
		tracer().Errorf("unresolved reduce/reduce conflict in state %v on %v; productions: %v, %v", state, term, prodA, prodB)
		return &ReduceReduceConflict{
			State:       state,
			Terminal:    term,
			Production1: prodA,
			Production2: prodB,
		}
	}

	adopted := cur
	if precA > precB {
		adopted = act
	}
	tracer().Debugf("reduce/reduce conflict in state %v on %v resolved by production precedence: %v", state, term, adopted)
	b.actions[state][term.Num()] = adopted
	b.resolved = append(b.resolved, &ResolvedConflict{
		State:      state,
		Terminal:   term,
		Reduce:     []int{prodA, prodB},
		Adopted:    adopted,
		ResolvedBy: ResolvedByProdPrec,
	})
	return nil
}

func (b *lrTableBuilder) table(aug *augmentedGrammar, kernels [][]lrItem) *ParsingTable {
	stateCount := len(b.actions)
	termCount := b.prods.TerminalCount()
	nonTermCount := b.prods.NonTerminalCount()
	actionTable := make([]Action, 0, stateCount*termCount)
	goToTable := make([]int, 0, stateCount*nonTermCount)
	for state := 0; state < stateCount; state++ {
		actionTable = append(actionTable, b.actions[state]...)
		goToTable = append(goToTable, b.goTos[state]...)
	}
	return &ParsingTable{
		actionTable:      actionTable,
		goToTable:        goToTable,
		stateCount:       stateCount,
		terminalCount:    termCount,
		nonTerminalCount: nonTermCount,
		prods:            aug.prods,
		eof:              aug.eof,
		start:            aug.start,
		startProd:        aug.startProd,
		kernels:          kernels,
		resolved:         b.resolved,
	}
}
