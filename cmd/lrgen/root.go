package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

var traceKeys = []string{
	"lrgen.spec",
	"lrgen.grammar",
	"lrgen.compressor",
	"lrgen.driver",
}

var rootFlags = struct {
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "lrgen",
	Short: "Generate a canonical LR(1) parsing table from a grammar",
	Long: `lrgen provides the following features:
- Generates a canonical LR(1) parsing table from a grammar written in YAML.
- Parses a text stream according to the compiled grammar.
  This feature is primarily aimed at debugging the grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setUpTracing(*rootFlags.trace)
	},
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
}

func setUpTracing(level string) {
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	lv := tracing.TraceLevelFromString(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(lv)
	}
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
