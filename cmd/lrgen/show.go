package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/wavelang/lrgen/grammar"
	gspec "github.com/wavelang/lrgen/spec/grammar"
)

var showFlags = struct {
	noColor *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a report in a readable format",
		Example: `  lrgen show grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.noColor = cmd.Flags().Bool("no-color", false, "disable colors")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	if *showFlags.noColor {
		pterm.DisableColor()
	}

	return writeReport(os.Stdout, report)
}

func readReport(path string) (*gspec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &gspec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

type reportWriter struct {
	w      io.Writer
	report *gspec.Report
	err    error
}

func writeReport(w io.Writer, report *gspec.Report) error {
	rw := &reportWriter{
		w:      w,
		report: report,
	}
	rw.writeSummary()
	rw.writeTerminals()
	rw.writeProductions()
	rw.writeStates()
	return rw.err
}

func (rw *reportWriter) section(level int, title string) {
	fmt.Fprint(rw.w, pterm.DefaultSection.WithLevel(level).Sprintln(title))
}

func (rw *reportWriter) table(data pterm.TableData) {
	if rw.err != nil {
		return
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		rw.err = err
		return
	}
	fmt.Fprintln(rw.w, s)
}

func (rw *reportWriter) termName(sym int) string {
	return rw.report.Terminals[sym].Name
}

func (rw *reportWriter) nonTermName(sym int) string {
	return rw.report.NonTerminals[sym].Name
}

func (rw *reportWriter) rhsSymbolName(e int) string {
	isTerm, num := gspec.DecodeRHSSymbol(e)
	if isTerm {
		return rw.termName(num)
	}
	return rw.nonTermName(num)
}

func precText(prec int) string {
	if prec == grammar.PrecNil {
		return "-"
	}
	return fmt.Sprint(prec)
}

func (rw *reportWriter) writeSummary() {
	rw.section(1, fmt.Sprintf("Grammar %v", rw.report.Name))

	var sr, rr int
	for _, s := range rw.report.States {
		sr += len(s.SRConflict)
		rr += len(s.RRConflict)
	}
	fmt.Fprintf(rw.w, "%v states\n", len(rw.report.States))
	if sr == 0 && rr == 0 {
		fmt.Fprintf(rw.w, "No conflict\n")
		return
	}
	fmt.Fprintf(rw.w, "%v shift/reduce and %v reduce/reduce conflicts resolved\n", sr, rr)
}

func (rw *reportWriter) writeTerminals() {
	rw.section(2, "Terminals")
	data := pterm.TableData{
		{"Number", "Name", "Precedence", "Associativity", "Pattern"},
	}
	for _, t := range rw.report.Terminals {
		assoc := t.Associativity
		if assoc == "" {
			assoc = "-"
		}
		data = append(data, []string{fmt.Sprint(t.Number), t.Name, precText(t.Precedence), assoc, t.Pattern})
	}
	rw.table(data)
}

func (rw *reportWriter) production(num int) string {
	prod := rw.report.Productions[num]
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", rw.nonTermName(prod.LHS))
	if len(prod.RHS) == 0 {
		fmt.Fprintf(&b, " ε")
	}
	for _, e := range prod.RHS {
		fmt.Fprintf(&b, " %v", rw.rhsSymbolName(e))
	}
	return b.String()
}

func (rw *reportWriter) writeProductions() {
	rw.section(2, "Productions")
	data := pterm.TableData{
		{"Number", "Precedence", "Production"},
	}
	for _, p := range rw.report.Productions {
		data = append(data, []string{fmt.Sprint(p.Number), precText(p.Precedence), rw.production(p.Number)})
	}
	rw.table(data)
}

func (rw *reportWriter) item(item *gspec.Item) string {
	prod := rw.report.Productions[item.Production]
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", rw.nonTermName(prod.LHS))
	for i, e := range prod.RHS {
		if i == item.Dot {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", rw.rhsSymbolName(e))
	}
	if item.Dot >= len(prod.RHS) {
		fmt.Fprintf(&b, " ・")
	}
	fmt.Fprintf(&b, ", %v", rw.termName(item.LookAhead))
	return b.String()
}

func (rw *reportWriter) writeStates() {
	rw.section(2, "States")
	for _, s := range rw.report.States {
		rw.section(3, fmt.Sprintf("State %v", s.Number))
		for _, item := range s.Kernel {
			fmt.Fprintf(rw.w, "%4v %v\n", item.Production, rw.item(item))
		}
		fmt.Fprintln(rw.w)

		data := pterm.TableData{
			{"Symbol", "Action"},
		}
		for _, t := range s.Shift {
			data = append(data, []string{rw.termName(t.Symbol), fmt.Sprintf("shift %v", t.State)})
		}
		for _, r := range s.Reduce {
			var names []string
			for _, a := range r.LookAhead {
				names = append(names, rw.termName(a))
			}
			data = append(data, []string{strings.Join(names, ", "), fmt.Sprintf("reduce %v", r.Production)})
		}
		if s.Accept {
			data = append(data, []string{grammar.EOFName, "accept"})
		}
		for _, t := range s.GoTo {
			data = append(data, []string{rw.nonTermName(t.Symbol), fmt.Sprintf("goto %v", t.State)})
		}
		rw.table(data)

		for _, c := range s.SRConflict {
			var adopted string
			if c.AdoptedState != nil {
				adopted = fmt.Sprintf("shift %v", *c.AdoptedState)
			} else if c.AdoptedProduction != nil {
				adopted = fmt.Sprintf("reduce %v", *c.AdoptedProduction)
			}
			fmt.Fprintf(rw.w, "shift/reduce conflict (shift %v, reduce %v) on %v: %v adopted by %v\n",
				c.State, c.Production, rw.termName(c.Symbol), adopted, resolvedByText(c.ResolvedBy))
		}
		for _, c := range s.RRConflict {
			fmt.Fprintf(rw.w, "reduce/reduce conflict (%v, %v) on %v: reduce %v adopted by %v\n",
				c.Production1, c.Production2, rw.termName(c.Symbol), c.AdoptedProduction, resolvedByText(c.ResolvedBy))
		}
	}
}

func resolvedByText(m int) string {
	switch m {
	case grammar.ResolvedByPrec.Int():
		return grammar.ResolvedByPrec.String()
	case grammar.ResolvedByAssoc.Int():
		return grammar.ResolvedByAssoc.String()
	case grammar.ResolvedByProdPrec.Int():
		return grammar.ResolvedByProdPrec.String()
	}
	return "?"
}
