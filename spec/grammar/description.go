package grammar

type Terminal struct {
	Number        int    `json:"number"`
	Name          string `json:"name"`
	Pattern       string `json:"pattern"`
	Precedence    int    `json:"prec"`
	Associativity string `json:"assoc"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Production is a production of an augmented grammar. An RHS element n is terminal n-1 when n > 0 and
// non-terminal -n-1 when n < 0. The RHS of an empty production is empty.
type Production struct {
	Number     int   `json:"number"`
	LHS        int   `json:"lhs"`
	RHS        []int `json:"rhs"`
	Precedence int   `json:"prec"`
}

func EncodeRHSTerminal(num int) int {
	return num + 1
}

func EncodeRHSNonTerminal(num int) int {
	return -(num + 1)
}

// DecodeRHSSymbol returns whether an RHS element is a terminal and its number.
func DecodeRHSSymbol(e int) (bool, int) {
	if e > 0 {
		return true, e - 1
	}
	return false, -e - 1
}

type Item struct {
	Production int `json:"production"`
	Dot        int `json:"dot"`
	LookAhead  int `json:"look_ahead"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

type SRConflict struct {
	Symbol            int  `json:"symbol"`
	State             int  `json:"state"`
	Production        int  `json:"production"`
	AdoptedState      *int `json:"adopted_state"`
	AdoptedProduction *int `json:"adopted_production"`
	ResolvedBy        int  `json:"resolved_by"`
}

type RRConflict struct {
	Symbol            int `json:"symbol"`
	Production1       int `json:"production_1"`
	Production2       int `json:"production_2"`
	AdoptedProduction int `json:"adopted_production"`
	ResolvedBy        int `json:"resolved_by"`
}

type State struct {
	Number     int           `json:"number"`
	Kernel     []*Item       `json:"kernel"`
	Shift      []*Transition `json:"shift"`
	Reduce     []*Reduce     `json:"reduce"`
	Accept     bool          `json:"accept"`
	GoTo       []*Transition `json:"goto"`
	SRConflict []*SRConflict `json:"sr_conflict"`
	RRConflict []*RRConflict `json:"rr_conflict"`
}

type Report struct {
	Name         string         `json:"name"`
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states"`
}
