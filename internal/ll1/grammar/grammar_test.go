package grammar

import "testing"

func arithmeticGrammar() Grammar {
	return MustBuild([]RuleSpec{
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

func TestBuild_ClassifiesByLHSMembership(t *testing.T) {
	g := arithmeticGrammar()

	if g.Start.Char != 'E' {
		t.Fatalf("start = %q, want E", g.Start)
	}

	for _, r := range g.Rules {
		if r.LHS.Char == 'F' && len(r.RHS) == 3 {
			if !r.RHS[0].IsTerminal() || r.RHS[0].Char != '(' {
				t.Errorf("F -> ( E ) : expected leading terminal '(', got %v", r.RHS[0])
			}
			if !r.RHS[1].IsNonterminal() || r.RHS[1].Char != 'E' {
				t.Errorf("F -> ( E ) : expected nonterminal E in middle, got %v", r.RHS[1])
			}
		}
	}
}

func TestBuild_EpsilonProduction(t *testing.T) {
	g := arithmeticGrammar()
	for _, r := range g.RulesFor('H') {
		if len(r.RHS) == 1 && r.RHS[0].IsEpsilon() {
			if !r.IsEpsilonRule() {
				t.Error("expected IsEpsilonRule to be true for H -> ε")
			}
			return
		}
	}
	t.Fatal("expected to find H -> ε among H's rules")
}

func TestBuild_RejectsUnknownStart(t *testing.T) {
	_, err := Build(nil)
	if err == nil {
		t.Fatal("expected error for empty rule set")
	}
}

func TestFreshNames_SeedsAboveExistingNonterminals(t *testing.T) {
	g := MustBuild([]RuleSpec{{'A', "Ab"}, {'A', "c"}})
	fn := NewFreshNames(g)
	first := fn.Next()
	if first <= 'A' {
		t.Fatalf("fresh name %q collides with existing nonterminal range", first)
	}
	second := fn.Next()
	if second == first {
		t.Fatal("expected distinct successive names")
	}
}

func TestNonterminals_FirstAppearanceOrder(t *testing.T) {
	g := arithmeticGrammar()
	nts := g.Nonterminals()
	want := []rune{'E', 'H', 'T', 'G', 'F'}
	if len(nts) != len(want) {
		t.Fatalf("got %d nonterminals, want %d", len(nts), len(want))
	}
	for i := range want {
		if nts[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, nts[i], want[i])
		}
	}
}
