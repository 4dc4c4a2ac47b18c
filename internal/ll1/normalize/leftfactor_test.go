package normalize

import (
	"testing"

	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
)

func TestLeftFactor_NestedCommonPrefixes(t *testing.T) {
	// A -> b c | b d | b c e | b c f
	g := grammar.MustBuild([]grammar.RuleSpec{
		{'A', "bc"},
		{'A', "bd"},
		{'A', "bce"},
		{'A', "bcf"},
	})

	got := LeftFactor(g)

	want := []string{
		"A -> b c B",
		"B -> ε",
		"B -> e",
		"B -> f",
		"A -> b d",
	}
	if gotS := ruleStrings(got.Rules); !equalStrs(gotS, want) {
		t.Fatalf("got %v, want %v", gotS, want)
	}
}

func TestLeftFactor_NoSharedPrefixLeavesRulesAlone(t *testing.T) {
	g := grammar.MustBuild([]grammar.RuleSpec{{'A', "b"}, {'A', "c"}})

	got := LeftFactor(g)

	want := []string{"A -> b", "A -> c"}
	if gotS := ruleStrings(got.Rules); !equalStrs(gotS, want) {
		t.Fatalf("got %v, want %v", gotS, want)
	}
}

func TestNormalize_RemovesRecursionThenFactors(t *testing.T) {
	// A -> A a | a b | a c  (left-recursive AND needs factoring once split)
	g := grammar.MustBuild([]grammar.RuleSpec{{'A', "Aa"}, {'A', "ab"}, {'A', "ac"}})

	got := Normalize(g)

	if err := got.Validate(); err != nil {
		t.Fatalf("normalized grammar invalid: %v", err)
	}
	// the grammar must no longer contain any immediately left-recursive rule.
	for _, r := range got.Rules {
		if r.IsLeftRecursive() {
			t.Fatalf("normalized grammar still left-recursive: %v", r)
		}
	}
}
