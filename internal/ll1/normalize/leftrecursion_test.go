package normalize

import (
	"testing"

	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
)

func ruleStrings(rules []grammar.Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.String()
	}
	return out
}

func TestRemoveLeftRecursion_AllRulesRecursive(t *testing.T) {
	// A -> A b, with no non-recursive alternative at all.
	g := grammar.MustBuild([]grammar.RuleSpec{{'A', "Ab"}})

	got := RemoveLeftRecursion(g)

	want := []string{"A -> B", "B -> b B"}
	if gotS := ruleStrings(got.Rules); !equalStrs(gotS, want) {
		t.Fatalf("got %v, want %v", gotS, want)
	}
}

func TestRemoveLeftRecursion_MixedRules(t *testing.T) {
	// A -> A b | c
	g := grammar.MustBuild([]grammar.RuleSpec{{'A', "Ab"}, {'A', "c"}})

	got := RemoveLeftRecursion(g)

	want := []string{"A -> c B", "B -> b B", "B -> ε"}
	if gotS := ruleStrings(got.Rules); !equalStrs(gotS, want) {
		t.Fatalf("got %v, want %v", gotS, want)
	}
}

func TestRemoveLeftRecursion_DropsTrivialUnitRule(t *testing.T) {
	g := grammar.MustBuild([]grammar.RuleSpec{{'A', "A"}, {'A', "b"}})

	got := RemoveLeftRecursion(g)

	want := []string{"A -> b"}
	if gotS := ruleStrings(got.Rules); !equalStrs(gotS, want) {
		t.Fatalf("got %v, want %v", gotS, want)
	}
}

func TestRemoveLeftRecursion_LeavesNonRecursiveRulesAlone(t *testing.T) {
	g := grammar.MustBuild([]grammar.RuleSpec{{'A', "b"}, {'A', "B"}, {'B', "c"}})

	got := RemoveLeftRecursion(g)

	want := []string{"A -> b", "A -> B", "B -> c"}
	if gotS := ruleStrings(got.Rules); !equalStrs(gotS, want) {
		t.Fatalf("got %v, want %v", gotS, want)
	}
}

func equalStrs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
