package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	synErrEmptyDescription  = newSyntaxError("a grammar description is empty")
	synErrRootNotMapping    = newSyntaxError("the top level of a grammar description must be a mapping")
	synErrUnknownKey        = newSyntaxError("unknown key")
	synErrDuplicateKey      = newSyntaxError("duplicate key")
	synErrScalarExpected    = newSyntaxError("a scalar is expected")
	synErrSequenceExpected  = newSyntaxError("a sequence is expected")
	synErrMappingExpected   = newSyntaxError("a mapping is expected")
	synErrNoName            = newSyntaxError("a name is missing")
	synErrPatternAndLiteral = newSyntaxError("a terminal cannot have both a pattern and a literal")
	synErrNoRules           = newSyntaxError("a grammar must have at least one rule")
	synErrNoAlternative     = newSyntaxError("a rule must have at least one alternative")
	synErrNoRHS             = newSyntaxError("an alternative written as a mapping needs 'rhs'")
	synErrNoAssociativity   = newSyntaxError("a precedence level needs 'assoc'")
	synErrEmptyPrecLevel    = newSyntaxError("a precedence level needs at least one terminal")
)
