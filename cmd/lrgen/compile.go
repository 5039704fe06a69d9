package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	verr "github.com/wavelang/lrgen/error"
	"github.com/wavelang/lrgen/grammar"
	"github.com/wavelang/lrgen/spec"
	gspec "github.com/wavelang/lrgen/spec/grammar"
)

var compileFlags = struct {
	output   *string
	compLv   *int
	noReport *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into a parsing table",
		Example: `  lrgen compile grammar.yaml -o grammar.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.compLv = cmd.Flags().Int("compression-level", grammar.CompressionLevelMax, fmt.Sprintf("compression level (%v-%v)", grammar.CompressionLevelMin, grammar.CompressionLevelMax))
	compileFlags.noReport = cmd.Flags().Bool("no-report", false, "don't write a report")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	defer func() {
		var specErrs verr.SpecErrors
		if retErr != nil && errors.As(retErr, &specErrs) {
			for _, err := range specErrs {
				err.FilePath = grmPath
				if grmPath != "" {
					err.SourceName = grmPath
				} else {
					err.SourceName = "stdin"
				}
			}
		}
	}()

	gram, err := readGrammar(grmPath)
	if err != nil {
		return err
	}

	opts := []grammar.CompileOption{
		grammar.CompressionLevel(*compileFlags.compLv),
	}
	if !*compileFlags.noReport {
		opts = append(opts, grammar.EnableReporting())
	}
	cgram, report, err := grammar.Compile(gram, opts...)
	if err != nil {
		var conflict grammar.Conflict
		if errors.As(err, &conflict) {
			return fmt.Errorf("%v\n%v", err, gram.DescribeConflict(conflict))
		}
		return err
	}

	err = writeCompiledGrammarAndReport(cgram, report, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot write an output files: %w", err)
	}

	if report != nil {
		resolved := 0
		for _, s := range report.States {
			resolved += len(s.SRConflict) + len(s.RRConflict)
		}
		if resolved > 0 {
			fmt.Fprintf(os.Stderr, "%v conflicts resolved by precedence and associativity\n", resolved)
		}
	}

	return nil
}

// readGrammar reads a grammar description from a file, or from stdin when the path is empty.
func readGrammar(path string) (*grammar.Grammar, error) {
	var src io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
		}
		defer f.Close()
		src = f
	}

	ast, err := spec.Parse(src)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	return b.Build()
}

// writeCompiledGrammarAndReport writes a compiled grammar and a report to files located at a specified path.
// This function selects one of the following output methods depending on how the path is specified.
//
//  1. When the path is a directory path, this function writes the compiled grammar and the report to
//     <path>/<grammar-name>.json and <path>/<grammar-name>-report.json files, respectively.
//  2. When the path is a file path or a non-existent path, this function assumes that the path represents a file
//     path for the compiled grammar. Then it also writes the report in the same directory as the compiled grammar.
//  3. When the path is an empty string, this function writes the compiled grammar to the stdout and writes
//     the report to a file named <current-directory>/<grammar-name>-report.json.
func writeCompiledGrammarAndReport(cgram *gspec.CompiledGrammar, report *gspec.Report, path string) error {
	cgramPath, reportPath, err := makeOutputFilePaths(cgram.Name, path)
	if err != nil {
		return err
	}

	{
		var cgramW io.Writer
		if cgramPath != "" {
			cgramFile, err := os.OpenFile(cgramPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return err
			}
			defer cgramFile.Close()
			cgramW = cgramFile
		} else {
			cgramW = os.Stdout
		}

		b, err := json.Marshal(cgram)
		if err != nil {
			return err
		}
		fmt.Fprintf(cgramW, "%v\n", string(b))
	}

	if report == nil {
		return nil
	}

	{
		reportFile, err := os.OpenFile(reportPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer reportFile.Close()

		b, err := json.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(reportFile, "%v\n", string(b))
	}

	return nil
}

func makeOutputFilePaths(gramName string, path string) (string, string, error) {
	reportFileName := gramName + "-report.json"

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return "", filepath.Join(wd, reportFileName), nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		dir, _ := filepath.Split(path)
		return path, filepath.Join(dir, reportFileName), nil
	}

	return filepath.Join(path, gramName+".json"), filepath.Join(path, reportFileName), nil
}
