package table

import (
	"testing"

	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
	"github.com/dekarrin/ll1gen/internal/ll1/sets"
)

func arithmeticGrammar() grammar.Grammar {
	return grammar.MustBuild([]grammar.RuleSpec{
		{'E', "TH"},
		{'H', "+TH"},
		{'H', ""},
		{'T', "FG"},
		{'G', "*FG"},
		{'G', ""},
		{'F', "(E)"},
		{'F', "0"},
	})
}

func buildTable(t *testing.T, g grammar.Grammar) *Table {
	t.Helper()
	first, err := sets.BuildFirstSets(g)
	if err != nil {
		t.Fatalf("FIRST: %v", err)
	}
	follow, err := sets.BuildFollowSets(g, first)
	if err != nil {
		t.Fatalf("FOLLOW: %v", err)
	}
	tbl, err := Build(g, first, follow)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tbl
}

func TestBuild_ArithmeticGrammar(t *testing.T) {
	g := arithmeticGrammar()
	tbl := buildTable(t, g)

	cases := []struct {
		nt, term rune
		want     string
	}{
		{'E', '(', "E -> T H"},
		{'E', '0', "E -> T H"},
		{'H', '+', "H -> + T H"},
		{'H', ')', "H -> ε"},
		{'H', grammar.EndOfInput, "H -> ε"},
		{'T', '(', "T -> F G"},
		{'T', '0', "T -> F G"},
		{'G', '*', "G -> * F G"},
		{'G', '+', "G -> ε"},
		{'G', ')', "G -> ε"},
		{'G', grammar.EndOfInput, "G -> ε"},
		{'F', '(', "F -> ( E )"},
		{'F', '0', "F -> 0"},
	}

	for _, c := range cases {
		r, ok := tbl.Get(c.nt, c.term)
		if !ok {
			t.Errorf("table[%q,%q]: missing entry, want %q", c.nt, grammar.Term(c.term), c.want)
			continue
		}
		if r.String() != c.want {
			t.Errorf("table[%q,%q] = %q, want %q", c.nt, grammar.Term(c.term), r.String(), c.want)
		}
	}
}

func TestBuild_ConflictDetected(t *testing.T) {
	// A -> a | a b   : both alternatives start with 'a', so table[A,a] is
	// ambiguous between them.
	g := grammar.MustBuild([]grammar.RuleSpec{{'A', "a"}, {'A', "ab"}})

	first, err := sets.BuildFirstSets(g)
	if err != nil {
		t.Fatalf("FIRST: %v", err)
	}
	follow, err := sets.BuildFollowSets(g, first)
	if err != nil {
		t.Fatalf("FOLLOW: %v", err)
	}

	_, err = Build(g, first, follow)
	if err == nil {
		t.Fatal("expected an LL1Conflict error")
	}
}
