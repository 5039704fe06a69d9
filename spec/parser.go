package spec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	verr "github.com/wavelang/lrgen/error"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'lrgen.spec'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.spec")
}

// Position is a 1-based position in a grammar description.
type Position struct {
	Row int
	Col int
}

type RootNode struct {
	Name        string
	Start       *IDNode
	Terminals   []*TerminalNode
	Skip        []*TerminalNode
	Precedence  []*PrecedenceNode
	Productions []*ProductionNode
	Pos         Position
}

// TerminalNode defines a terminal or a skipped lexical kind. A terminal without a pattern is never produced
// by the lexer and only serves as a precedence marker.
type TerminalNode struct {
	Name      string
	Pattern   string
	Literally bool
	Pos       Position
}

// PrecedenceNode is a precedence level. Levels are declared from the lowest to the highest.
type PrecedenceNode struct {
	Associativity string
	Terminals     []*IDNode
	Pos           Position
}

type IDNode struct {
	ID  string
	Pos Position
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

// AlternativeNode is an RHS of a production. An alternative without elements derives the empty string.
type AlternativeNode struct {
	Elements []*IDNode
	Prec     *IDNode
	Pos      Position
}

// Parse reads a grammar description written in YAML.
//
//	name: expr
//	terminals:
//	  - name: add
//	    literal: "+"
//	  - name: num
//	    pattern: "[0-9]+"
//	skip:
//	  - name: white_space
//	    pattern: "[ \t]+"
//	precedence:
//	  - assoc: left
//	    terminals: [add]
//	rules:
//	  expr:
//	    - expr add expr
//	    - [num]
//	    - {rhs: [add, expr], prec: add}
func Parse(src io.Reader) (*RootNode, error) {
	var doc yaml.Node
	err := yaml.NewDecoder(src).Decode(&doc)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, verr.SpecErrors{
				{
					Cause: synErrEmptyDescription,
				},
			}
		}
		return nil, fmt.Errorf("failed to decode a grammar description: %w", err)
	}

	p := &parser{}
	root := p.parseRoot(&doc)
	if len(p.errs) > 0 {
		p.errs.Sort()
		return nil, p.errs
	}
	tracer().Debugf("parsed grammar '%v': %v terminals, %v rules", root.Name, len(root.Terminals), len(root.Productions))
	return root, nil
}

type parser struct {
	errs verr.SpecErrors
}

func posOf(n *yaml.Node) Position {
	return Position{
		Row: n.Line,
		Col: n.Column,
	}
}

func (p *parser) errorf(n *yaml.Node, cause error, format string, args ...interface{}) {
	p.errs = append(p.errs, &verr.SpecError{
		Cause:  cause,
		Detail: fmt.Sprintf(format, args...),
		Row:    n.Line,
		Col:    n.Column,
	})
}

func (p *parser) expect(n *yaml.Node, kind yaml.Kind) bool {
	if n.Kind == kind {
		return true
	}
	switch kind {
	case yaml.ScalarNode:
		p.errorf(n, synErrScalarExpected, "%v", n.Tag)
	case yaml.SequenceNode:
		p.errorf(n, synErrSequenceExpected, "%v", n.Tag)
	default:
		p.errorf(n, synErrMappingExpected, "%v", n.Tag)
	}
	return false
}

// fields iterates over the pairs of a mapping node and rejects keys outside of `known`.
func (p *parser) fields(n *yaml.Node, known []string, f func(key string, k *yaml.Node, v *yaml.Node)) {
	seen := map[string]struct{}{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if !p.expect(k, yaml.ScalarNode) {
			continue
		}
		if _, ok := seen[k.Value]; ok {
			p.errorf(k, synErrDuplicateKey, "%v", k.Value)
			continue
		}
		seen[k.Value] = struct{}{}
		isKnown := false
		for _, name := range known {
			if k.Value == name {
				isKnown = true
				break
			}
		}
		if !isKnown {
			p.errorf(k, synErrUnknownKey, "%v", k.Value)
			continue
		}
		f(k.Value, k, v)
	}
}

func (p *parser) parseRoot(doc *yaml.Node) *RootNode {
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	root := &RootNode{
		Pos: posOf(n),
	}
	if n.Kind != yaml.MappingNode {
		p.errorf(n, synErrRootNotMapping, "%v", n.Tag)
		return root
	}

	hasRules := false
	p.fields(n, []string{"name", "start", "terminals", "skip", "precedence", "rules"}, func(key string, k *yaml.Node, v *yaml.Node) {
		switch key {
		case "name":
			if p.expect(v, yaml.ScalarNode) {
				root.Name = v.Value
			}
		case "start":
			if p.expect(v, yaml.ScalarNode) {
				root.Start = &IDNode{
					ID:  v.Value,
					Pos: posOf(v),
				}
			}
		case "terminals":
			root.Terminals = p.parseTerminals(v)
		case "skip":
			root.Skip = p.parseTerminals(v)
		case "precedence":
			root.Precedence = p.parsePrecedence(v)
		case "rules":
			hasRules = true
			root.Productions = p.parseRules(v)
		}
	})
	if !hasRules || len(root.Productions) == 0 {
		p.errorf(n, synErrNoRules, "")
	}
	return root
}

func (p *parser) parseTerminals(n *yaml.Node) []*TerminalNode {
	if !p.expect(n, yaml.SequenceNode) {
		return nil
	}
	var terms []*TerminalNode
	for _, e := range n.Content {
		if !p.expect(e, yaml.MappingNode) {
			continue
		}
		term := &TerminalNode{
			Pos: posOf(e),
		}
		hasPattern := false
		hasLiteral := false
		p.fields(e, []string{"name", "pattern", "literal"}, func(key string, k *yaml.Node, v *yaml.Node) {
			if !p.expect(v, yaml.ScalarNode) {
				return
			}
			switch key {
			case "name":
				term.Name = v.Value
			case "pattern":
				hasPattern = true
				term.Pattern = v.Value
			case "literal":
				hasLiteral = true
				term.Pattern = v.Value
				term.Literally = true
			}
		})
		if term.Name == "" {
			p.errorf(e, synErrNoName, "")
			continue
		}
		if hasPattern && hasLiteral {
			p.errorf(e, synErrPatternAndLiteral, "%v", term.Name)
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

func (p *parser) parsePrecedence(n *yaml.Node) []*PrecedenceNode {
	if !p.expect(n, yaml.SequenceNode) {
		return nil
	}
	var levels []*PrecedenceNode
	for _, e := range n.Content {
		if !p.expect(e, yaml.MappingNode) {
			continue
		}
		level := &PrecedenceNode{
			Pos: posOf(e),
		}
		p.fields(e, []string{"assoc", "terminals"}, func(key string, k *yaml.Node, v *yaml.Node) {
			switch key {
			case "assoc":
				if p.expect(v, yaml.ScalarNode) {
					level.Associativity = v.Value
				}
			case "terminals":
				level.Terminals = p.parseIDs(v)
			}
		})
		if level.Associativity == "" {
			p.errorf(e, synErrNoAssociativity, "")
			continue
		}
		if len(level.Terminals) == 0 {
			p.errorf(e, synErrEmptyPrecLevel, "")
			continue
		}
		levels = append(levels, level)
	}
	return levels
}

// parseIDs reads symbol names from a sequence of scalars or from a scalar of space-separated names.
func (p *parser) parseIDs(n *yaml.Node) []*IDNode {
	var ids []*IDNode
	switch n.Kind {
	case yaml.ScalarNode:
		col := n.Column
		for _, f := range strings.Fields(n.Value) {
			ids = append(ids, &IDNode{
				ID: f,
				Pos: Position{
					Row: n.Line,
					Col: col,
				},
			})
		}
	case yaml.SequenceNode:
		for _, e := range n.Content {
			if !p.expect(e, yaml.ScalarNode) {
				continue
			}
			ids = append(ids, &IDNode{
				ID:  e.Value,
				Pos: posOf(e),
			})
		}
	default:
		p.errorf(n, synErrSequenceExpected, "%v", n.Tag)
	}
	return ids
}

func (p *parser) parseRules(n *yaml.Node) []*ProductionNode {
	if !p.expect(n, yaml.MappingNode) {
		return nil
	}
	var prods []*ProductionNode
	seen := map[string]struct{}{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if !p.expect(k, yaml.ScalarNode) {
			continue
		}
		if _, ok := seen[k.Value]; ok {
			p.errorf(k, synErrDuplicateKey, "%v", k.Value)
			continue
		}
		seen[k.Value] = struct{}{}
		if !p.expect(v, yaml.SequenceNode) {
			continue
		}
		prod := &ProductionNode{
			LHS: k.Value,
			Pos: posOf(k),
		}
		for _, e := range v.Content {
			alt := p.parseAlternative(e)
			if alt != nil {
				prod.RHS = append(prod.RHS, alt)
			}
		}
		if len(v.Content) == 0 {
			p.errorf(k, synErrNoAlternative, "%v", k.Value)
			continue
		}
		prods = append(prods, prod)
	}
	return prods
}

func (p *parser) parseAlternative(n *yaml.Node) *AlternativeNode {
	alt := &AlternativeNode{
		Pos: posOf(n),
	}
	switch n.Kind {
	case yaml.ScalarNode, yaml.SequenceNode:
		alt.Elements = p.parseIDs(n)
	case yaml.MappingNode:
		hasRHS := false
		p.fields(n, []string{"rhs", "prec"}, func(key string, k *yaml.Node, v *yaml.Node) {
			switch key {
			case "rhs":
				hasRHS = true
				alt.Elements = p.parseIDs(v)
			case "prec":
				if p.expect(v, yaml.ScalarNode) {
					alt.Prec = &IDNode{
						ID:  v.Value,
						Pos: posOf(v),
					}
				}
			}
		})
		if !hasRHS {
			p.errorf(n, synErrNoRHS, "")
			return nil
		}
	default:
		p.errorf(n, synErrSequenceExpected, "%v", n.Tag)
		return nil
	}
	return alt
}
