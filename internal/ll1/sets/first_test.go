package sets

import (
	"testing"

	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
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

func assertSet(t *testing.T, name string, got map[rune]bool, want ...rune) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: got %d elements (%v), want %d (%v)", name, len(got), got, len(want), want)
		return
	}
	for _, w := range want {
		if !got[w] {
			t.Errorf("%s: missing expected member %q", name, w)
		}
	}
}

func toBoolMap(ks interface{ Elements() []rune }) map[rune]bool {
	m := map[rune]bool{}
	for _, e := range ks.Elements() {
		m[e] = true
	}
	return m
}

func TestBuildFirstSets_ArithmeticGrammar(t *testing.T) {
	g := arithmeticGrammar()
	first, err := BuildFirstSets(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSet(t, "FIRST(F)", toBoolMap(first.Get('F')), '(', '0')
	assertSet(t, "FIRST(T)", toBoolMap(first.Get('T')), '(', '0')
	assertSet(t, "FIRST(G)", toBoolMap(first.Get('G')), '*', grammar.Epsilon)
	assertSet(t, "FIRST(E)", toBoolMap(first.Get('E')), '(', '0')
	assertSet(t, "FIRST(H)", toBoolMap(first.Get('H')), '+', grammar.Epsilon)
}

func TestBuildFirstSets_ChainedEpsilon(t *testing.T) {
	// A -> B, B -> ε, B -> b  =>  FIRST(A) = FIRST(B) = {b, ε}
	g := grammar.MustBuild([]grammar.RuleSpec{
		{'A', "B"},
		{'B', ""},
		{'B', "b"},
	})

	first, err := BuildFirstSets(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSet(t, "FIRST(A)", toBoolMap(first.Get('A')), 'b', grammar.Epsilon)
	assertSet(t, "FIRST(B)", toBoolMap(first.Get('B')), 'b', grammar.Epsilon)
}

func TestBuildFirstSets_NullableSequenceWithLeadingTerminal(t *testing.T) {
	// A -> B C, B -> a | ε, C -> ε   (resolves Open Question 2: the
	// production is fully nullable even though it also contributes 'a'.)
	g := grammar.MustBuild([]grammar.RuleSpec{
		{'A', "BC"},
		{'B', "a"},
		{'B', ""},
		{'C', ""},
	})

	first, err := BuildFirstSets(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSet(t, "FIRST(A)", toBoolMap(first.Get('A')), 'a', grammar.Epsilon)
}

func TestBuildFirstSets_CyclicDependency(t *testing.T) {
	// A -> B, B -> A  (never grounds in a terminal or epsilon)
	g := grammar.Grammar{
		Start: grammar.NonTerm('A'),
		Rules: []grammar.Rule{
			{LHS: grammar.NonTerm('A'), RHS: []grammar.Symbol{grammar.NonTerm('B')}},
			{LHS: grammar.NonTerm('B'), RHS: []grammar.Symbol{grammar.NonTerm('A')}},
		},
	}

	_, err := BuildFirstSets(g)
	if err == nil {
		t.Fatal("expected a cyclic FIRST dependency error")
	}
}
