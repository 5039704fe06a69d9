package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoGrammarName       = newSemanticError("name is missing")
	semErrInvalidName         = newSemanticError("a name must consist of letters, digits, and underscores and must not begin with a digit")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrDuplicateTerminal   = newSemanticError("duplicate terminal")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrTermCannotBeSkipped = newSemanticError("a terminal cannot be skipped")
	semErrInvalidAssoc        = newSemanticError("associativity must be one of 'left', 'right', or 'nonassoc'")
	semErrDuplicateAssoc      = newSemanticError("a terminal cannot have multiple precedence levels")
	semErrNonTermInPrec       = newSemanticError("precedence can be given only to terminals")
	semErrInvalidStart        = newSemanticError("the start symbol must be a non-terminal")
	semErrUnusedProduction    = newSemanticError("unused production")
)
