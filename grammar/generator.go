package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

type phase int

const (
	phaseInit phase = iota
	phaseAugment
	phaseAnalyzeFixpoints
	phaseBuildCanonicalCollection
	phaseAssignReduceAccept
	phaseDone
	phaseConflictAbort
)

func (p phase) String() string {
	switch p {
	case phaseAugment:
		return "augment"
	case phaseAnalyzeFixpoints:
		return "analyze fixpoints"
	case phaseBuildCanonicalCollection:
		return "build canonical collection"
	case phaseAssignReduceAccept:
		return "assign reduce/accept"
	case phaseDone:
		return "done"
	case phaseConflictAbort:
		return "conflict abort"
	}
	return "init"
}

// generator owns all intermediate state of one generation. A generator is used once.
type generator struct {
	gram  *Grammar
	phase phase

	aug   *augmentedGrammar
	props *symbolProperties
	coll  *lr1Collection
	b     *lrTableBuilder
}

func (gen *generator) enter(p phase) {
	gen.phase = p
	tracer().P("grammar", gen.gram.Name).Infof("phase: %v", p)
}

// Generate builds a canonical LR(1) parsing table of a grammar. When the grammar has a conflict that precedence
// and associativity cannot resolve, Generate returns a Conflict as the error.
func Generate(g *Grammar) (*ParsingTable, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	gen := &generator{
		gram: g,
	}
	return gen.run()
}

func (gen *generator) run() (*ParsingTable, error) {
	gen.enter(phaseInit)

	gen.enter(phaseAugment)
	gen.aug = augment(gen.gram)
	prods := gen.aug.prods

	gen.enter(phaseAnalyzeFixpoints)
	gen.props = genSymbolProperties(prods)

	gen.enter(phaseBuildCanonicalCollection)
	gen.coll = newLR1Collection(prods, gen.props, gen.aug.startProd)
	gen.b = &lrTableBuilder{
		prods: prods,
	}
	if err := gen.buildCanonicalCollection(); err != nil {
		gen.enter(phaseConflictAbort)
		return nil, err
	}

	gen.enter(phaseAssignReduceAccept)
	if err := gen.assignReduceAccept(); err != nil {
		gen.enter(phaseConflictAbort)
		return nil, err
	}

	kernels := make([][]lrItem, len(gen.coll.states))
	for i, s := range gen.coll.states {
		for _, item := range s.items.sorted() {
			if item.kernel(gen.aug.startProd) {
				kernels[i] = append(kernels[i], item)
			}
		}
	}

	gen.enter(phaseDone)
	tracer().Infof("%v states, %v resolved conflicts", len(gen.coll.states), len(gen.b.resolved))
	return gen.b.table(gen.aug, kernels), nil
}

func (gen *generator) buildCanonicalCollection() error {
	initial := gen.coll.closure(newItemSet(lrItem{
		prod:      gen.aug.startProd,
		dot:       0,
		lookAhead: gen.aug.eof,
	}))
	gen.coll.lookupOrAdd(initial)
	gen.b.addRow()

	alphabet := gen.coll.alphabet()
	for state := 0; state < len(gen.coll.states); state++ {
		items := gen.coll.states[state].items
		for _, sym := range alphabet {
			next := gen.coll.goTo(items, sym)
			if next.len() == 0 {
				continue
			}
			num, added := gen.coll.lookupOrAdd(next)
			if added {
				gen.b.addRow()
				if tracer().GetTraceLevel() >= tracing.LevelDebug {
					tracer().P("state", num).Debugf("reached from state %v by %v:\n%v", state, gen.gram.SymbolName(sym), next.describe(gen.gram, gen.aug.prods))
				}
			}
			if sym.IsTerminal() {
				if err := gen.b.writeAction(state, sym, shiftAction(num)); err != nil {
					return err
				}
			} else {
				gen.b.writeGoTo(state, sym, num)
			}
		}
	}
	return nil
}

func (gen *generator) assignReduceAccept() error {
	prods := gen.aug.prods
	for _, s := range gen.coll.states {
		for _, item := range s.items.items {
			if !item.complete(prods) {
				continue
			}
			var act Action
			if item.prod == gen.aug.startProd && item.lookAhead == gen.aug.eof {
				act = acceptAction()
			} else {
				act = reduceAction(item.prod)
			}
			if err := gen.b.writeAction(s.num, item.lookAhead, act); err != nil {
				return err
			}
		}
	}
	return nil
}

// kernelItems is used by reports. It returns the kernel items of a state in a deterministic order.
func (t *ParsingTable) kernelItems(state int) []lrItem {
	if state < 0 || state >= len(t.kernels) {
		return nil
	}
	return t.kernels[state]
}
