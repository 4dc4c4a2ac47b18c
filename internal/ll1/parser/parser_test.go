package parser

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

func TestParser_ArithmeticGrammar_Accepts(t *testing.T) {
	p, err := New(arithmeticGrammar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	accepted := []string{
		"0",
		"0+0",
		"0+0*0",
		"(0)",
		"(0+0)*0",
		"0*0+0",
	}

	for _, s := range accepted {
		if !p.Parse([]rune(s)) {
			t.Errorf("Parse(%q) = false, want true", s)
		}
	}
}

func TestParser_ArithmeticGrammar_Rejects(t *testing.T) {
	p, err := New(arithmeticGrammar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rejected := []string{
		"",
		"+",
		"0+",
		"((0)",
		"0 0",
		"0+0*",
	}

	for _, s := range rejected {
		if p.Parse([]rune(s)) {
			t.Errorf("Parse(%q) = true, want false", s)
		}
	}
}

func TestParser_NormalizesLeftRecursiveGrammar(t *testing.T) {
	// E -> E + T | T ; T -> 0
	g := grammar.MustBuild([]grammar.RuleSpec{
		{'E', "E+T"},
		{'E', "T"},
		{'T', "0"},
	})

	p, err := New(g)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !p.Parse([]rune("0+0+0")) {
		t.Error("expected 0+0+0 to be accepted after left-recursion removal")
	}
	if p.Parse([]rune("+0")) {
		t.Error("expected +0 to be rejected")
	}
}

func TestParser_ConflictSurfacesAsError(t *testing.T) {
	// A -> a | B ; B -> a : two distinct productions of A both predict on
	// 'a', and neither left-recursion removal nor left-factoring can fix
	// that (the first symbols aren't even the same kind of symbol).
	g := grammar.MustBuild([]grammar.RuleSpec{{'A', "a"}, {'A', "B"}, {'B', "a"}})

	if _, err := New(g); err == nil {
		t.Fatal("expected LL1Conflict error from non-LL(1) grammar")
	}
}
