package tester

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/wavelang/lrgen/driver"
	gspec "github.com/wavelang/lrgen/spec/grammar"
	"gopkg.in/yaml.v3"
)

// TestCase describes an input and how the parser must handle it. Actions is a trace such as
// `shift/num` or `reduce/expr`, and Tree is a tree in the format of driver.PrintTree.
// Both are optional.
type TestCase struct {
	Name    string   `yaml:"name"`
	Source  string   `yaml:"source"`
	Reject  bool     `yaml:"reject"`
	Actions []string `yaml:"actions"`
	Tree    string   `yaml:"tree"`
}

// ParseTestCases reads a YAML sequence of test cases.
func ParseTestCases(r io.Reader) ([]*TestCase, error) {
	var cs []*TestCase
	err := yaml.NewDecoder(r).Decode(&cs)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("a test file has no test case")
		}
		return nil, err
	}
	for i, c := range cs {
		if c == nil {
			return nil, fmt.Errorf("test case #%v is empty", i)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("#%v", i)
		}
	}
	return cs, nil
}

type Diff struct {
	Message  string
	Expected string
	Actual   string
}

type TestResult struct {
	TestCasePath string
	TestCaseName string
	Error        error
	Diffs        []*Diff
}

func (r *TestResult) String() string {
	name := r.TestCaseName
	if r.TestCasePath != "" {
		name = fmt.Sprintf("%v %v", r.TestCasePath, r.TestCaseName)
	}
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", name, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vexpected: %v", indent1, diff.Expected))
			diffLines = append(diffLines, fmt.Sprintf("%vactual:   %v", indent1, diff.Actual))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", name)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads the test cases of a file, or of every YAML file under a directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		cs, err := parseTestCases(testPath)
		if err != nil {
			return []*TestCaseWithMetadata{
				{
					FilePath: testPath,
					Error:    err,
				},
			}
		}
		var cases []*TestCaseWithMetadata
		for _, c := range cs {
			cases = append(cases, &TestCaseWithMetadata{
				TestCase: c,
				FilePath: testPath,
			})
		}
		return cases
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && ext != ".yaml" && ext != ".yml" {
			continue
		}
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCases(testCasePath string) ([]*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCases(f)
}

type Tester struct {
	Grammar *gspec.CompiledGrammar
	Cases   []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(t.Grammar, c))
	}
	return rs
}

// traceAndTree runs a trace and a syntax tree builder side by side.
type traceAndTree struct {
	trace *driver.TraceActionSet
	tree  *driver.SyntaxTreeActionSet
}

func (a *traceAndTree) Shift(tok driver.VToken) {
	a.trace.Shift(tok)
	a.tree.Shift(tok)
}

func (a *traceAndTree) Reduce(prodNum int) {
	a.trace.Reduce(prodNum)
	a.tree.Reduce(prodNum)
}

func (a *traceAndTree) Accept() {
	a.trace.Accept()
	a.tree.Accept()
}

func runTest(g *gspec.CompiledGrammar, c *TestCaseWithMetadata) *TestResult {
	result := &TestResult{
		TestCasePath: c.FilePath,
	}
	if c.Error != nil {
		result.Error = c.Error
		return result
	}
	result.TestCaseName = c.TestCase.Name

	var p *driver.Parser
	semAct := &traceAndTree{}
	{
		gram := driver.NewGrammar(g)
		toks, err := driver.NewTokenStream(g, strings.NewReader(c.TestCase.Source))
		if err != nil {
			result.Error = err
			return result
		}
		semAct.trace = driver.NewTraceActionSet(gram)
		semAct.tree = driver.NewSyntaxTreeActionSet(gram)
		p, err = driver.NewParser(gram, toks, driver.SemanticAction(semAct))
		if err != nil {
			result.Error = err
			return result
		}
	}

	err := p.Parse()
	if err != nil {
		result.Error = err
		return result
	}

	synErrs := p.SyntaxErrors()
	if c.TestCase.Reject {
		if len(synErrs) == 0 {
			result.Error = fmt.Errorf("the input was accepted, but it must be rejected")
		}
		return result
	}
	if len(synErrs) > 0 {
		result.Error = fmt.Errorf("syntax error: %v", synErrs[0])
		return result
	}
	if semAct.tree.CST() == nil {
		// An accepted input always has a tree, so a missing tree is a bug of the driver.
		result.Error = fmt.Errorf("parse tree was not generated: no syntax error:\n%v", string(debug.Stack()))
		return result
	}

	var diffs []*Diff
	if c.TestCase.Actions != nil {
		diffs = append(diffs, diffLines("action", c.TestCase.Actions, semAct.trace.Log())...)
	}
	if c.TestCase.Tree != "" {
		var b strings.Builder
		driver.PrintTree(&b, semAct.tree.CST())
		diffs = append(diffs, diffLines("tree", splitLines(c.TestCase.Tree), splitLines(b.String()))...)
	}
	if len(diffs) > 0 {
		result.Error = fmt.Errorf("output mismatch")
		result.Diffs = diffs
	}
	return result
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// diffLines reports the first line where two sequences differ.
func diffLines(kind string, expected, actual []string) []*Diff {
	for i := 0; i < len(expected) || i < len(actual); i++ {
		var e, a string
		if i < len(expected) {
			e = expected[i]
		} else {
			e = "<none>"
		}
		if i < len(actual) {
			a = actual[i]
		} else {
			a = "<none>"
		}
		if e != a {
			return []*Diff{
				{
					Message:  fmt.Sprintf("unexpected %v at line %v", kind, i+1),
					Expected: e,
					Actual:   a,
				},
			}
		}
	}
	return nil
}
