package grammar

import (
	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/wavelang/lrgen/error"
	"github.com/wavelang/lrgen/grammar/symbol"
	"github.com/wavelang/lrgen/spec"
)

// GrammarBuilder resolves the names of a parsed grammar description into a Grammar.
type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	if b.AST.Name == "" {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoGrammarName,
		})
	}

	g := &Grammar{
		Name: b.AST.Name,
	}
	syms := map[string]symbol.Symbol{}

	for _, t := range b.AST.Terminals {
		if !b.checkName(t.Name, t.Pos) {
			continue
		}
		if _, ok := syms[t.Name]; ok {
			b.addError(semErrDuplicateTerminal, t.Name, t.Pos)
			continue
		}
		pat := t.Pattern
		if t.Literally {
			pat = mlspec.EscapePattern(pat)
		}
		syms[t.Name] = symbol.NewTerminal(len(g.Terminals))
		g.Terminals = append(g.Terminals, &Terminal{
			Name:          t.Name,
			Pattern:       pat,
			Precedence:    PrecNil,
			Associativity: AssocNone,
		})
	}

	skipped := map[string]struct{}{}
	for _, s := range b.AST.Skip {
		if !b.checkName(s.Name, s.Pos) {
			continue
		}
		if _, ok := syms[s.Name]; ok {
			b.addError(semErrTermCannotBeSkipped, s.Name, s.Pos)
			continue
		}
		if _, ok := skipped[s.Name]; ok {
			b.addError(semErrDuplicateTerminal, s.Name, s.Pos)
			continue
		}
		skipped[s.Name] = struct{}{}
		pat := s.Pattern
		if s.Literally {
			pat = mlspec.EscapePattern(pat)
		}
		g.Skip = append(g.Skip, &SkipKind{
			Name:    s.Name,
			Pattern: pat,
		})
	}

	for _, p := range b.AST.Productions {
		if !b.checkName(p.LHS, p.Pos) {
			continue
		}
		if _, ok := skipped[p.LHS]; ok {
			b.addError(semErrDuplicateName, p.LHS, p.Pos)
			continue
		}
		if _, ok := syms[p.LHS]; ok {
			b.addError(semErrDuplicateName, p.LHS, p.Pos)
			continue
		}
		syms[p.LHS] = symbol.NewNonTerminal(len(g.NonTerminals))
		g.NonTerminals = append(g.NonTerminals, &NonTerminal{
			Name: p.LHS,
		})
	}

	b.applyPrecedence(g, syms)

	for _, p := range b.AST.Productions {
		lhs, ok := syms[p.LHS]
		if !ok || !lhs.IsNonTerminal() {
			continue
		}
		for _, alt := range p.RHS {
			rule := &Rule{
				LHS: lhs.Num(),
			}
			resolved := true
			for _, elem := range alt.Elements {
				sym, ok := syms[elem.ID]
				if !ok {
					b.addError(semErrUndefinedSym, elem.ID, elem.Pos)
					resolved = false
					continue
				}
				rule.RHS = append(rule.RHS, sym)
			}
			if alt.Prec != nil {
				sym, ok := syms[alt.Prec.ID]
				switch {
				case !ok:
					b.addError(semErrUndefinedSym, alt.Prec.ID, alt.Prec.Pos)
					resolved = false
				case !sym.IsTerminal():
					b.addError(semErrNonTermInPrec, alt.Prec.ID, alt.Prec.Pos)
					resolved = false
				default:
					rule.Prec = sym
				}
			}
			if resolved {
				g.Rules = append(g.Rules, rule)
			}
		}
	}

	if b.AST.Start != nil {
		sym, ok := syms[b.AST.Start.ID]
		switch {
		case !ok:
			b.addError(semErrUndefinedSym, b.AST.Start.ID, b.AST.Start.Pos)
		case !sym.IsNonTerminal():
			b.addError(semErrInvalidStart, b.AST.Start.ID, b.AST.Start.Pos)
		default:
			g.Start = sym.Num()
		}
	}

	if len(b.errs) == 0 {
		b.checkUnusedProductions(g)
	}
	if len(b.errs) > 0 {
		b.errs.Sort()
		return nil, b.errs
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	tracer().Infof("grammar '%v': %v terminals, %v non-terminals, %v rules", g.Name, len(g.Terminals), len(g.NonTerminals), len(g.Rules))

	return g, nil
}

// applyPrecedence numbers precedence levels by their position, so a later level binds tighter.
func (b *GrammarBuilder) applyPrecedence(g *Grammar, syms map[string]symbol.Symbol) {
	for prec, level := range b.AST.Precedence {
		assoc, ok := ParseAssociativity(level.Associativity)
		if !ok || assoc == AssocNone {
			b.addError(semErrInvalidAssoc, level.Associativity, level.Pos)
			continue
		}
		for _, id := range level.Terminals {
			sym, ok := syms[id.ID]
			if !ok {
				b.addError(semErrUndefinedSym, id.ID, id.Pos)
				continue
			}
			if !sym.IsTerminal() {
				b.addError(semErrNonTermInPrec, id.ID, id.Pos)
				continue
			}
			term := g.Terminals[sym.Num()]
			if term.Associativity != AssocNone {
				b.addError(semErrDuplicateAssoc, id.ID, id.Pos)
				continue
			}
			term.Precedence = prec
			term.Associativity = assoc
		}
	}
}

// checkUnusedProductions reports non-terminals the start symbol never derives.
func (b *GrammarBuilder) checkUnusedProductions(g *Grammar) {
	reached := make([]bool, len(g.NonTerminals))
	reached[g.Start] = true
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules {
			if !reached[r.LHS] {
				continue
			}
			for _, sym := range r.RHS {
				if sym.IsNonTerminal() && !reached[sym.Num()] {
					reached[sym.Num()] = true
					changed = true
				}
			}
		}
	}

	for _, p := range b.AST.Productions {
		for i, nonTerm := range g.NonTerminals {
			if nonTerm.Name == p.LHS && !reached[i] {
				b.addError(semErrUnusedProduction, p.LHS, p.Pos)
			}
		}
	}
}

func (b *GrammarBuilder) checkName(name string, pos spec.Position) bool {
	if isIdentifier(name) {
		return true
	}
	b.addError(semErrInvalidName, name, pos)
	return false
}

func (b *GrammarBuilder) addError(cause error, detail string, pos spec.Position) {
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  cause,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

// isIdentifier reports whether a name is usable as a maleeni kind name.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
