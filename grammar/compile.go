package grammar

import (
	"fmt"
	"io"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/wavelang/lrgen/compressor"
	spec "github.com/wavelang/lrgen/spec/grammar"
)

const (
	CompressionLevelMin = 0
	CompressionLevelMax = 2
)

type compileConfig struct {
	isReportingEnabled bool
	compressionLevel   int
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// CompressionLevel selects how a parsing table is stored. Level 0 keeps dense tables, level 1 merges
// duplicate rows, and level 2 also compresses the merged rows by row displacement.
func CompressionLevel(lv int) CompileOption {
	return func(config *compileConfig) {
		config.compressionLevel = lv
	}
}

// Compile generates a parsing table of a grammar and a lexical specification of its terminals, and encodes
// them into a form a driver can load. The report is nil unless reporting is enabled.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.compressionLevel < CompressionLevelMin || config.compressionLevel > CompressionLevelMax {
		return nil, nil, fmt.Errorf("compression level must be between %v and %v: %v", CompressionLevelMin, CompressionLevelMax, config.compressionLevel)
	}

	tab, err := Generate(gram)
	if err != nil {
		return nil, nil, err
	}

	lexical, err := compileLexicalSpec(gram, tab)
	if err != nil {
		return nil, nil, err
	}

	syntactic, err := encodeParsingTable(gram, tab, config.compressionLevel)
	if err != nil {
		return nil, nil, err
	}

	var report *spec.Report
	if config.isReportingEnabled {
		report = GenReport(gram, tab)
	}

	return &spec.CompiledGrammar{
		Name:      gram.Name,
		Lexical:   lexical,
		Syntactic: syntactic,
	}, report, nil
}

func compileLexicalSpec(gram *Grammar, tab *ParsingTable) (*spec.LexicalSpec, error) {
	entries := []*mlspec.LexEntry{}
	for _, t := range gram.Terminals {
		if t.Pattern == "" {
			continue
		}
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(t.Name),
			Pattern: mlspec.LexPattern(t.Pattern),
		})
	}
	for _, sk := range gram.Skip {
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(sk.Name),
			Pattern: mlspec.LexPattern(sk.Pattern),
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("grammar '%v' has no terminal with a pattern", gram.Name)
	}

	lexSpec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    gram.Name,
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}

	name2Term := map[string]int{}
	for i, t := range gram.Terminals {
		name2Term[t.Name] = i
	}
	skipNames := map[string]struct{}{}
	for _, sk := range gram.Skip {
		skipNames[sk.Name] = struct{}{}
	}

	kind2Term := make([]int, len(lexSpec.KindNames))
	term2Kind := make([]int, tab.TerminalCount())
	skip := make([]int, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		kind2Term[i] = -1
		if k == mlspec.LexKindNameNil {
			continue
		}
		if _, ok := skipNames[k.String()]; ok {
			skip[i] = 1
			continue
		}
		term, ok := name2Term[k.String()]
		if !ok {
			return nil, fmt.Errorf("terminal '%v' was not found", k)
		}
		kind2Term[i] = term
		term2Kind[term] = i
	}

	return &spec.LexicalSpec{
		Lexer: "maleeni",
		Maleeni: &spec.Maleeni{
			Spec:           lexSpec,
			KindToTerminal: kind2Term,
			TerminalToKind: term2Kind,
			Skip:           skip,
		},
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

func encodeParsingTable(gram *Grammar, tab *ParsingTable, compLv int) (*spec.SyntacticSpec, error) {
	action := make([]int, tab.StateCount()*tab.TerminalCount())
	for s := 0; s < tab.StateCount(); s++ {
		for t := 0; t < tab.TerminalCount(); t++ {
			act := tab.Action(s, t)
			var e int
			switch act.Type {
			case ActionTypeShift:
				e = spec.ShiftEntry(act.Num)
			case ActionTypeReduce:
				e = spec.ReduceEntry(act.Num)
			case ActionTypeAccept:
				e = spec.ReduceEntry(tab.StartProduction())
			default:
				e = spec.ActionEntryEmpty
			}
			action[s*tab.TerminalCount()+t] = e
		}
	}

	goTo := make([]int, tab.StateCount()*tab.NonTerminalCount())
	for s := 0; s < tab.StateCount(); s++ {
		for n := 0; n < tab.NonTerminalCount(); n++ {
			next, ok := tab.GoTo(s, n)
			if !ok {
				continue
			}
			goTo[s*tab.NonTerminalCount()+n] = next
		}
	}

	prods := tab.Productions()
	lhsSyms := make([]int, prods.Len())
	altSymCounts := make([]int, prods.Len())
	for i := 0; i < prods.Len(); i++ {
		p := prods.Production(i)
		lhsSyms[i] = p.LHS.Num()
		altSymCounts[i] = p.RHSLen()
	}

	terms := make([]string, tab.TerminalCount())
	for i := range terms {
		terms[i] = gram.TerminalName(i)
	}
	nonTerms := make([]string, tab.NonTerminalCount())
	for i := range nonTerms {
		nonTerms[i] = gram.NonTerminalName(i)
	}

	syn := &spec.SyntacticSpec{
		CompressionLevel:        compLv,
		StateCount:              tab.StateCount(),
		InitialState:            InitialState,
		StartProduction:         tab.StartProduction(),
		LHSSymbols:              lhsSyms,
		AlternativeSymbolCounts: altSymCounts,
		Terminals:               terms,
		TerminalCount:           tab.TerminalCount(),
		NonTerminals:            nonTerms,
		NonTerminalCount:        tab.NonTerminalCount(),
		EOFSymbol:               tab.EOF().Num(),
	}
	if compLv == CompressionLevelMin {
		syn.Action = action
		syn.GoTo = goTo
		return syn, nil
	}

	var err error
	syn.CompressedAction, err = compressTable(action, tab.TerminalCount(), compLv)
	if err != nil {
		return nil, fmt.Errorf("failed to compress the action table: %w", err)
	}
	syn.CompressedGoTo, err = compressTable(goTo, tab.NonTerminalCount(), compLv)
	if err != nil {
		return nil, fmt.Errorf("failed to compress the goto table: %w", err)
	}
	return syn, nil
}

func compressTable(entries []int, colCount int, compLv int) (*spec.CompressedTable, error) {
	orig, err := compressor.NewOriginalTable(entries, colCount)
	if err != nil {
		return nil, err
	}
	ueTab := compressor.NewUniqueEntriesTable()
	if err := ueTab.Compress(orig); err != nil {
		return nil, err
	}
	tab := &spec.CompressedTable{
		RowNums:          ueTab.RowNums,
		OriginalRowCount: ueTab.OriginalRowCount,
		OriginalColCount: ueTab.OriginalColCount,
	}
	if compLv < CompressionLevelMax {
		tab.UncompressedUniqueEntries = ueTab.UniqueEntries
		return tab, nil
	}

	ueOrig, err := compressor.NewOriginalTable(ueTab.UniqueEntries, colCount)
	if err != nil {
		return nil, err
	}
	rdTab := compressor.NewRowDisplacementTable(0)
	if err := rdTab.Compress(ueOrig); err != nil {
		return nil, err
	}
	tab.UniqueEntries = rdTab
	return tab, nil
}
