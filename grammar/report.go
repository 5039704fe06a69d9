package grammar

import (
	"github.com/wavelang/lrgen/grammar/symbol"
	spec "github.com/wavelang/lrgen/spec/grammar"
)

// GenReport describes a parsing table for humans: symbols, productions, and states with their kernels,
// actions, and the conflicts precedence and associativity resolved.
func GenReport(g *Grammar, tab *ParsingTable) *spec.Report {
	prods := tab.Productions()

	terms := make([]*spec.Terminal, tab.TerminalCount())
	for i := range terms {
		term := &spec.Terminal{
			Number:     i,
			Name:       g.TerminalName(i),
			Precedence: PrecNil,
		}
		if i < len(g.Terminals) {
			t := g.Terminals[i]
			term.Pattern = t.Pattern
			if t.Associativity != AssocNone {
				term.Precedence = t.Precedence
				term.Associativity = t.Associativity.String()
			}
		}
		terms[i] = term
	}

	nonTerms := make([]*spec.NonTerminal, tab.NonTerminalCount())
	for i := range nonTerms {
		nonTerms[i] = &spec.NonTerminal{
			Number: i,
			Name:   g.NonTerminalName(i),
		}
	}

	reportProds := make([]*spec.Production, prods.Len())
	for i := 0; i < prods.Len(); i++ {
		p := prods.Production(i)
		rhs := []int{}
		for j := 0; j < p.RHSLen(); j++ {
			rhs = append(rhs, encodeRHSSymbol(p.RHS[j]))
		}
		reportProds[i] = &spec.Production{
			Number:     i,
			LHS:        p.LHS.Num(),
			RHS:        rhs,
			Precedence: p.Precedence,
		}
	}

	states := make([]*spec.State, tab.StateCount())
	for s := 0; s < tab.StateCount(); s++ {
		state := &spec.State{
			Number: s,
		}
		for _, item := range tab.kernelItems(s) {
			state.Kernel = append(state.Kernel, &spec.Item{
				Production: item.prod,
				Dot:        item.dot,
				LookAhead:  item.lookAhead.Num(),
			})
		}

		prod2LookAhead := map[int][]int{}
		var reduced []int
		for t := 0; t < tab.TerminalCount(); t++ {
			act := tab.Action(s, t)
			switch act.Type {
			case ActionTypeShift:
				state.Shift = append(state.Shift, &spec.Transition{
					Symbol: t,
					State:  act.Num,
				})
			case ActionTypeReduce:
				if _, ok := prod2LookAhead[act.Num]; !ok {
					reduced = append(reduced, act.Num)
				}
				prod2LookAhead[act.Num] = append(prod2LookAhead[act.Num], t)
			case ActionTypeAccept:
				state.Accept = true
			}
		}
		for _, p := range reduced {
			state.Reduce = append(state.Reduce, &spec.Reduce{
				LookAhead:  prod2LookAhead[p],
				Production: p,
			})
		}

		for n := 0; n < tab.NonTerminalCount(); n++ {
			next, ok := tab.GoTo(s, n)
			if !ok {
				continue
			}
			state.GoTo = append(state.GoTo, &spec.Transition{
				Symbol: n,
				State:  next,
			})
		}
		states[s] = state
	}

	for _, c := range tab.ResolvedConflicts() {
		state := states[c.State]
		if len(c.Reduce) == 1 {
			sr := &spec.SRConflict{
				Symbol:     c.Terminal.Num(),
				State:      c.Shift.Num,
				Production: c.Reduce[0],
				ResolvedBy: c.ResolvedBy.Int(),
			}
			if c.Adopted.Type == ActionTypeShift {
				st := c.Adopted.Num
				sr.AdoptedState = &st
			} else {
				p := c.Adopted.Num
				sr.AdoptedProduction = &p
			}
			state.SRConflict = append(state.SRConflict, sr)
			continue
		}

		state.RRConflict = append(state.RRConflict, &spec.RRConflict{
			Symbol:            c.Terminal.Num(),
			Production1:       c.Reduce[0],
			Production2:       c.Reduce[1],
			AdoptedProduction: c.Adopted.Num,
			ResolvedBy:        c.ResolvedBy.Int(),
		})
	}

	return &spec.Report{
		Name:         g.Name,
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  reportProds,
		States:       states,
	}
}

func encodeRHSSymbol(sym symbol.Symbol) int {
	if sym.IsTerminal() {
		return spec.EncodeRHSTerminal(sym.Num())
	}
	return spec.EncodeRHSNonTerminal(sym.Num())
}
