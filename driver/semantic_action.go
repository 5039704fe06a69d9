package driver

import (
	"fmt"
	"io"
)

type SemanticActionSet interface {
	// Shift runs when the driver shifts a symbol onto the state stack. `tok` is a token corresponding to
	// the symbol.
	Shift(tok VToken)

	// Reduce runs when the driver reduces an RHS of a production to its LHS. `prodNum` is a number of
	// the production.
	Reduce(prodNum int)

	// Accept runs when the driver accepts an input.
	Accept()
}

var (
	_ SemanticActionSet = &SyntaxTreeActionSet{}
	_ SemanticActionSet = &TraceActionSet{}
)

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// SyntaxTreeActionSet builds a concrete syntax tree.
type SyntaxTreeActionSet struct {
	gram     Grammar
	cst      *Node
	semStack []*Node
}

func NewSyntaxTreeActionSet(gram Grammar) *SyntaxTreeActionSet {
	return &SyntaxTreeActionSet{
		gram: gram,
	}
}

func (a *SyntaxTreeActionSet) Shift(tok VToken) {
	row, col := tok.Position()
	a.semStack = append(a.semStack, &Node{
		KindName: a.gram.Terminal(tok.TerminalID()),
		Text:     string(tok.Lexeme()),
		Row:      row,
		Col:      col,
	})
}

func (a *SyntaxTreeActionSet) Reduce(prodNum int) {
	// When an alternative is empty, `n` will be 0, and the node has no children.
	n := a.gram.AlternativeSymbolCount(prodNum)
	handle := a.semStack[len(a.semStack)-n:]
	children := make([]*Node, n)
	copy(children, handle)
	a.semStack = a.semStack[:len(a.semStack)-n]

	node := &Node{
		KindName: a.gram.NonTerminal(a.gram.LHS(prodNum)),
		Children: children,
	}
	if n > 0 {
		node.Row = children[0].Row
		node.Col = children[0].Col
	}
	a.semStack = append(a.semStack, node)
}

func (a *SyntaxTreeActionSet) Accept() {
	if len(a.semStack) == 0 {
		return
	}
	a.cst = a.semStack[len(a.semStack)-1]
	a.semStack = a.semStack[:len(a.semStack)-1]
}

func (a *SyntaxTreeActionSet) CST() *Node {
	return a.cst
}

// TraceActionSet records the actions of the driver, such as `shift/num`, `reduce/expr`, and `accept`.
type TraceActionSet struct {
	gram Grammar
	log  []string
}

func NewTraceActionSet(gram Grammar) *TraceActionSet {
	return &TraceActionSet{
		gram: gram,
	}
}

func (a *TraceActionSet) Shift(tok VToken) {
	a.log = append(a.log, fmt.Sprintf("shift/%v", a.gram.Terminal(tok.TerminalID())))
}

func (a *TraceActionSet) Reduce(prodNum int) {
	a.log = append(a.log, fmt.Sprintf("reduce/%v", a.gram.NonTerminal(a.gram.LHS(prodNum))))
}

func (a *TraceActionSet) Accept() {
	a.log = append(a.log, "accept")
}

func (a *TraceActionSet) Log() []string {
	return a.log
}
