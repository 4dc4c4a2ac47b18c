package sets

import (
	"testing"

	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
)

func TestBuildFollowSets_ArithmeticGrammar(t *testing.T) {
	g := arithmeticGrammar()
	first, err := BuildFirstSets(g)
	if err != nil {
		t.Fatalf("FIRST: unexpected error: %v", err)
	}
	follow, err := BuildFollowSets(g, first)
	if err != nil {
		t.Fatalf("FOLLOW: unexpected error: %v", err)
	}

	assertSet(t, "FOLLOW(E)", toBoolMap(follow.Get('E')), ')', grammar.EndOfInput)
	assertSet(t, "FOLLOW(H)", toBoolMap(follow.Get('H')), ')', grammar.EndOfInput)
	assertSet(t, "FOLLOW(T)", toBoolMap(follow.Get('T')), '+', ')', grammar.EndOfInput)
	assertSet(t, "FOLLOW(G)", toBoolMap(follow.Get('G')), '+', ')', grammar.EndOfInput)
	assertSet(t, "FOLLOW(F)", toBoolMap(follow.Get('F')), '*', '+', ')', grammar.EndOfInput)
}

func TestBuildFollowSets_CyclicDependency(t *testing.T) {
	// A -> B a, B -> A   with nothing ever grounding FOLLOW(A) vs FOLLOW(B)
	// independent of the other.
	g := grammar.Grammar{
		Start: grammar.NonTerm('A'),
		Rules: []grammar.Rule{
			{LHS: grammar.NonTerm('A'), RHS: []grammar.Symbol{grammar.NonTerm('B')}},
			{LHS: grammar.NonTerm('B'), RHS: []grammar.Symbol{grammar.NonTerm('A')}},
		},
	}
	first, err := BuildFirstSets(g)
	if err != nil {
		t.Fatalf("FIRST: unexpected error: %v", err)
	}

	_, err = BuildFollowSets(g, first)
	if err == nil {
		t.Fatal("expected a cyclic FOLLOW dependency error")
	}
}
