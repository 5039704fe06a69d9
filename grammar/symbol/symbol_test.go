package symbol

import (
	"fmt"
	"testing"
)

func TestSymbol(t *testing.T) {
	tests := []struct {
		sym           Symbol
		isEpsilon     bool
		isTerminal    bool
		isNonTerminal bool
		num           int
		text          string
	}{
		{
			sym:       Epsilon,
			isEpsilon: true,
			text:      "ε",
		},
		{
			sym:        NewTerminal(0),
			isTerminal: true,
			num:        0,
			text:       "t0",
		},
		{
			sym:        NewTerminal(3),
			isTerminal: true,
			num:        3,
			text:       "t3",
		},
		{
			sym:           NewNonTerminal(2),
			isNonTerminal: true,
			num:           2,
			text:          "n2",
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			if tt.sym.IsEpsilon() != tt.isEpsilon {
				t.Errorf("unexpected epsilon flag; want: %v, got: %v", tt.isEpsilon, tt.sym.IsEpsilon())
			}
			if tt.sym.IsTerminal() != tt.isTerminal {
				t.Errorf("unexpected terminal flag; want: %v, got: %v", tt.isTerminal, tt.sym.IsTerminal())
			}
			if tt.sym.IsNonTerminal() != tt.isNonTerminal {
				t.Errorf("unexpected non-terminal flag; want: %v, got: %v", tt.isNonTerminal, tt.sym.IsNonTerminal())
			}
			if tt.sym.Num() != tt.num {
				t.Errorf("unexpected number; want: %v, got: %v", tt.num, tt.sym.Num())
			}
			if tt.sym.String() != tt.text {
				t.Errorf("unexpected text; want: %v, got: %v", tt.text, tt.sym.String())
			}
		})
	}
}

func TestSymbol_Equality(t *testing.T) {
	if NewTerminal(1) != NewTerminal(1) {
		t.Fatalf("terminals with the same number must be equal")
	}
	if NewTerminal(1) == NewNonTerminal(1) {
		t.Fatalf("a terminal and a non-terminal must not be equal")
	}
	if (Symbol{}) != Epsilon {
		t.Fatalf("the zero value must be epsilon")
	}
}

func TestCompare(t *testing.T) {
	ordered := []Symbol{
		Epsilon,
		NewTerminal(0),
		NewTerminal(1),
		NewTerminal(10),
		NewNonTerminal(0),
		NewNonTerminal(4),
	}
	for i := 0; i < len(ordered); i++ {
		for j := 0; j < len(ordered); j++ {
			c := Compare(ordered[i], ordered[j])
			switch {
			case i < j && c >= 0:
				t.Errorf("%v must be less than %v", ordered[i], ordered[j])
			case i == j && c != 0:
				t.Errorf("%v must be equal to itself", ordered[i])
			case i > j && c <= 0:
				t.Errorf("%v must be greater than %v", ordered[i], ordered[j])
			}
		}
	}
}

func TestSet(t *testing.T) {
	s := NewSet()
	if !s.Add(NewTerminal(2)) {
		t.Fatalf("adding a new member must change the set")
	}
	if s.Add(NewTerminal(2)) {
		t.Fatalf("adding an existing member must not change the set")
	}
	s.Add(Epsilon)
	s.Add(NewTerminal(0))

	want := []Symbol{Epsilon, NewTerminal(0), NewTerminal(2)}
	got := s.Symbols()
	if len(got) != len(want) {
		t.Fatalf("unexpected members; want: %v, got: %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected members; want: %v, got: %v", want, got)
		}
	}

	t.Run("union ignoring epsilon", func(t *testing.T) {
		dst := NewSet(NewTerminal(0))
		if !dst.Union(s, true) {
			t.Fatalf("union must change the set")
		}
		if dst.Contains(Epsilon) {
			t.Fatalf("epsilon must be ignored")
		}
		if dst.Len() != 2 {
			t.Fatalf("unexpected size; want: 2, got: %v", dst.Len())
		}
		if dst.Union(s, true) {
			t.Fatalf("a second union must not change the set")
		}
	})

	t.Run("union including epsilon", func(t *testing.T) {
		dst := NewSet()
		dst.Union(s, false)
		if !dst.Equal(s) {
			t.Fatalf("unexpected members; want: %v, got: %v", s, dst)
		}
	})
}
