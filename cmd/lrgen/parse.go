package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/wavelang/lrgen/driver"
	gspec "github.com/wavelang/lrgen/spec/grammar"
)

var parseFlags = struct {
	source      *string
	onlyParse   *bool
	actions     *bool
	interactive *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <compiled grammar file path>",
		Short:   "Parse a text stream",
		Example: `  cat src | lrgen parse grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.onlyParse = cmd.Flags().Bool("only-parse", false, "when this option is enabled, the parser doesn't print a tree")
	parseFlags.actions = cmd.Flags().Bool("actions", false, "print the actions the parser performs instead of a tree")
	parseFlags.interactive = cmd.Flags().BoolP("interactive", "i", false, "parse each line entered at a prompt")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				err = fmt.Errorf("an unexpected error occurred: %v", v)
			}
			fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
			retErr = err
		}
	}()

	if *parseFlags.onlyParse && *parseFlags.actions {
		return fmt.Errorf("You cannot enable --only-parse and --actions at the same time")
	}

	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	if *parseFlags.interactive {
		return runREPL(cgram)
	}

	src := os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	ok, err := parseAndPrint(os.Stdout, os.Stderr, cgram, src)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("the input was rejected")
	}
	return nil
}

// runREPL parses each input line until EOF or an interrupt.
func runREPL(cgram *gspec.CompiledGrammar) error {
	rl, err := readline.New(fmt.Sprintf("%v> ", cgram.Name))
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Println("Quit with <ctrl>D")
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		var out strings.Builder
		var errOut strings.Builder
		ok, err := parseAndPrint(&out, &errOut, cgram, strings.NewReader(line))
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if !ok {
			pterm.Error.Print(errOut.String())
			continue
		}
		pterm.Success.Println("accepted")
		fmt.Fprint(rl.Stdout(), out.String())
	}
}

// parseAndPrint parses src and prints a tree or the actions to w and syntax errors to errW. It reports
// whether the input was accepted.
func parseAndPrint(w io.Writer, errW io.Writer, cgram *gspec.CompiledGrammar, src io.Reader) (bool, error) {
	gram := driver.NewGrammar(cgram)
	toks, err := driver.NewTokenStream(cgram, src)
	if err != nil {
		return false, err
	}

	var opts []driver.ParserOption
	var treeAct *driver.SyntaxTreeActionSet
	var traceAct *driver.TraceActionSet
	switch {
	case *parseFlags.actions:
		traceAct = driver.NewTraceActionSet(gram)
		opts = append(opts, driver.SemanticAction(traceAct))
	case !*parseFlags.onlyParse:
		treeAct = driver.NewSyntaxTreeActionSet(gram)
		opts = append(opts, driver.SemanticAction(treeAct))
	}

	p, err := driver.NewParser(gram, toks, opts...)
	if err != nil {
		return false, err
	}
	err = p.Parse()
	if err != nil {
		return false, err
	}

	synErrs := p.SyntaxErrors()
	for _, synErr := range synErrs {
		tok := synErr.Token

		var msg string
		switch {
		case tok.EOF():
			msg = "<eof>"
		case tok.Invalid():
			msg = fmt.Sprintf("'%v' (<invalid>)", string(tok.Lexeme()))
		default:
			msg = fmt.Sprintf("'%v' (%v)", string(tok.Lexeme()), gram.Terminal(tok.TerminalID()))
		}

		fmt.Fprintf(errW, "%v:%v: %v: %v", synErr.Row, synErr.Col, synErr.Message, msg)
		if len(synErr.ExpectedTerminals) > 0 {
			fmt.Fprintf(errW, "; expected: %v", strings.Join(synErr.ExpectedTerminals, ", "))
		}
		fmt.Fprintf(errW, "\n")
	}
	if len(synErrs) > 0 {
		return false, nil
	}

	switch {
	case traceAct != nil:
		for _, a := range traceAct.Log() {
			fmt.Fprintln(w, a)
		}
	case treeAct != nil:
		driver.PrintTree(w, treeAct.CST())
	}
	return true, nil
}

func readCompiledGrammar(path string) (*gspec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cgram := &gspec.CompiledGrammar{}
	err = json.Unmarshal(data, cgram)
	if err != nil {
		return nil, err
	}
	return cgram, nil
}
