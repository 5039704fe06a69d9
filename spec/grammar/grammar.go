package grammar

import (
	"fmt"

	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/wavelang/lrgen/compressor"
)

type CompiledGrammar struct {
	Name      string         `json:"name"`
	Lexical   *LexicalSpec   `json:"lexical"`
	Syntactic *SyntacticSpec `json:"syntactic"`
}

type LexicalSpec struct {
	Lexer   string   `json:"lexer"`
	Maleeni *Maleeni `json:"maleeni"`
}

type Maleeni struct {
	Spec *mlspec.CompiledLexSpec `json:"spec"`

	// KindToTerminal maps a kind ID of the lexer to a terminal number. Kinds without a terminal map to -1.
	KindToTerminal []int `json:"kind_to_terminal"`

	// TerminalToKind maps a terminal number to a kind ID of the lexer. Terminals the lexer never
	// produces map to 0.
	TerminalToKind []int `json:"terminal_to_kind"`

	// Skip[kindID] is 1 when the parser never sees tokens of the kind.
	Skip []int `json:"skip"`
}

// Action entries of a syntactic spec are encoded as follows.
//
// Entry | Action
// ------+----------------------------------------------------------------
// 0     | error
// n > 0 | shift and go to state n
// n < 0 | reduce production -(n+1), or accept when it is the start production
//
// GoTo entries are 0 when empty, otherwise the next state. The initial state is never a target of
// a shift action or a goto entry.
const (
	ActionEntryEmpty = 0
	GoToEntryEmpty   = 0
)

func ShiftEntry(state int) int {
	return state
}

func ReduceEntry(prod int) int {
	return -(prod + 1)
}

// DecodeActionEntry returns the next state of a shift entry or the production of a reduce entry.
func DecodeActionEntry(e int) (shift bool, num int) {
	if e > 0 {
		return true, e
	}
	return false, -e - 1
}

type SyntacticSpec struct {
	Action                  []int            `json:"action,omitempty"`
	GoTo                    []int            `json:"goto,omitempty"`
	CompressedAction        *CompressedTable `json:"compressed_action,omitempty"`
	CompressedGoTo          *CompressedTable `json:"compressed_goto,omitempty"`
	CompressionLevel        int              `json:"compression_level"`
	StateCount              int              `json:"state_count"`
	InitialState            int              `json:"initial_state"`
	StartProduction         int              `json:"start_production"`
	LHSSymbols              []int            `json:"lhs_symbols"`
	AlternativeSymbolCounts []int            `json:"alternative_symbol_counts"`
	Terminals               []string         `json:"terminals"`
	TerminalCount           int              `json:"terminal_count"`
	NonTerminals            []string         `json:"non_terminals"`
	NonTerminalCount        int              `json:"non_terminal_count"`
	EOFSymbol               int              `json:"eof_symbol"`
}

// LookupAction returns an encoded action entry regardless of the compression level.
func (s *SyntacticSpec) LookupAction(state, term int) (int, error) {
	if s.CompressedAction != nil {
		return s.CompressedAction.Lookup(state, term)
	}
	if state < 0 || state >= s.StateCount || term < 0 || term >= s.TerminalCount {
		return ActionEntryEmpty, fmt.Errorf("indexes are out of range: [%v, %v]", state, term)
	}
	return s.Action[state*s.TerminalCount+term], nil
}

// LookupGoTo returns an encoded goto entry regardless of the compression level.
func (s *SyntacticSpec) LookupGoTo(state, nonTerm int) (int, error) {
	if s.CompressedGoTo != nil {
		return s.CompressedGoTo.Lookup(state, nonTerm)
	}
	if state < 0 || state >= s.StateCount || nonTerm < 0 || nonTerm >= s.NonTerminalCount {
		return GoToEntryEmpty, fmt.Errorf("indexes are out of range: [%v, %v]", state, nonTerm)
	}
	return s.GoTo[state*s.NonTerminalCount+nonTerm], nil
}

// CompressedTable is a table whose duplicate rows are merged. At compression level 2 the merged rows
// are also compressed by row displacement.
type CompressedTable struct {
	UniqueEntries             *compressor.RowDisplacementTable `json:"unique_entries,omitempty"`
	UncompressedUniqueEntries []int                            `json:"uncompressed_unique_entries,omitempty"`
	RowNums                   []int                            `json:"row_nums"`
	OriginalRowCount          int                              `json:"original_row_count"`
	OriginalColCount          int                              `json:"original_col_count"`
}

func (t *CompressedTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= t.OriginalRowCount || col < 0 || col >= t.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	if t.UniqueEntries != nil {
		return t.UniqueEntries.Lookup(t.RowNums[row], col)
	}
	return t.UncompressedUniqueEntries[t.RowNums[row]*t.OriginalColCount+col], nil
}
