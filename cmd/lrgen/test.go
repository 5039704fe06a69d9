package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wavelang/lrgen/grammar"
	"github.com/wavelang/lrgen/tester"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Test a grammar",
		Example: `  lrgen test grammar.yaml test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	g, err := readGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}
	cg, _, err := grammar.Compile(g)
	if err != nil {
		var conflict grammar.Conflict
		if errors.As(err, &conflict) {
			return fmt.Errorf("Cannot compile the grammar: %v\n%v", err, g.DescribeConflict(conflict))
		}
		return fmt.Errorf("Cannot compile the grammar: %w", err)
	}

	cs := tester.ListTestCases(args[1])
	errOccurred := false
	for _, c := range cs {
		if c.Error != nil {
			fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
			errOccurred = true
		}
	}
	if errOccurred {
		return errors.New("Cannot run test")
	}

	t := &tester.Tester{
		Grammar: cg,
		Cases:   cs,
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
