// Package grammar holds the data model for context-free grammars used
// throughout ll1gen: symbols, rules, and the Grammar type itself, along with
// the textual authoring convention used by tests and the CLI.
package grammar

import "fmt"

// Epsilon is the sentinel rune used as the sole RHS symbol of an
// epsilon-production (a production whose body is the empty string). It is
// never a valid character for a terminal or nonterminal supplied by a caller.
const Epsilon rune = 0

// EndOfInput is the sentinel rune pushed onto the bottom of the parser's
// stack and appended to the end of every token stream, standing in for the
// traditional "$" end marker.
const EndOfInput rune = -1

// Symbol is a single element of a production body: either a terminal or a
// nonterminal, distinguished by Kind. Two symbols with the same Char but
// different Kind are never equal.
type Symbol struct {
	Kind Kind
	Char rune
}

// Kind distinguishes the two variants a Symbol may take.
type Kind int

const (
	Terminal Kind = iota
	Nonterminal
)

// Term builds a terminal Symbol for the given character.
func Term(c rune) Symbol {
	return Symbol{Kind: Terminal, Char: c}
}

// NonTerm builds a nonterminal Symbol for the given character.
func NonTerm(c rune) Symbol {
	return Symbol{Kind: Nonterminal, Char: c}
}

// EpsilonSymbol is the terminal Symbol that represents the empty string. It
// is only ever valid as the sole member of a production's RHS.
func EpsilonSymbol() Symbol {
	return Term(Epsilon)
}

// EndSymbol is the terminal Symbol standing in for the end-of-input marker.
func EndSymbol() Symbol {
	return Term(EndOfInput)
}

func (s Symbol) IsTerminal() bool {
	return s.Kind == Terminal
}

func (s Symbol) IsNonterminal() bool {
	return s.Kind == Nonterminal
}

// IsEpsilon returns whether s is the distinguished epsilon terminal.
func (s Symbol) IsEpsilon() bool {
	return s.Kind == Terminal && s.Char == Epsilon
}

func (s Symbol) String() string {
	switch {
	case s.IsEpsilon():
		return "ε"
	case s.Char == EndOfInput:
		return "$"
	default:
		return string(s.Char)
	}
}

// Rule is a single production of a grammar: LHS -> RHS.
type Rule struct {
	LHS Symbol
	RHS []Symbol
}

// IsEpsilonRule returns whether r's body is exactly the epsilon production.
func (r Rule) IsEpsilonRule() bool {
	return len(r.RHS) == 1 && r.RHS[0].IsEpsilon()
}

// IsLeftRecursive returns whether r is immediately left-recursive, i.e. its
// RHS begins with its own LHS symbol.
func (r Rule) IsLeftRecursive() bool {
	return len(r.RHS) > 0 && r.RHS[0] == r.LHS
}

func (r Rule) String() string {
	s := string(r.LHS.Char) + " ->"
	for _, sym := range r.RHS {
		s += " " + sym.String()
	}
	return s
}

// Grammar is a context-free grammar: an ordered list of rules plus the
// nonterminal that sentences are derived from.
type Grammar struct {
	Rules []Rule
	Start Symbol
}

// Nonterminals returns the set of characters that appear as the LHS of some
// rule in g, in first-appearance order.
func (g Grammar) Nonterminals() []rune {
	seen := map[rune]bool{}
	var order []rune
	for _, r := range g.Rules {
		if !seen[r.LHS.Char] {
			seen[r.LHS.Char] = true
			order = append(order, r.LHS.Char)
		}
	}
	return order
}

// RulesFor returns, in grammar order, every rule whose LHS is nt.
func (g Grammar) RulesFor(nt rune) []Rule {
	var out []Rule
	for _, r := range g.Rules {
		if r.LHS.Char == nt {
			out = append(out, r)
		}
	}
	return out
}

func (g Grammar) String() string {
	s := ""
	for _, r := range g.Rules {
		s += r.String() + "\n"
	}
	return s
}

// MalformedGrammarError is returned by Validate when a grammar fails a
// structural check before analysis ever gets underway: an empty RHS, an
// undefined start symbol, or epsilon appearing somewhere other than alone.
type MalformedGrammarError struct {
	Reason string
}

func (e *MalformedGrammarError) Error() string {
	return "malformed grammar: " + e.Reason
}

// Validate checks the structural invariants a Grammar must hold: every rule
// has a nonempty RHS, epsilon only ever appears alone, and the start symbol
// is actually defined by some rule.
func (g Grammar) Validate() error {
	if len(g.Rules) == 0 {
		return &MalformedGrammarError{Reason: "grammar has no rules"}
	}
	startDefined := false
	for _, r := range g.Rules {
		if !r.LHS.IsNonterminal() {
			return &MalformedGrammarError{Reason: fmt.Sprintf("rule LHS %q is not a nonterminal", r.LHS)}
		}
		if len(r.RHS) == 0 {
			return &MalformedGrammarError{Reason: fmt.Sprintf("rule for %q has an empty RHS; use an explicit epsilon symbol instead", r.LHS)}
		}
		for _, sym := range r.RHS {
			if sym.IsEpsilon() && len(r.RHS) != 1 {
				return &MalformedGrammarError{Reason: fmt.Sprintf("rule %q: epsilon may only appear as the sole symbol of a production", r)}
			}
		}
		if r.LHS.Char == g.Start.Char {
			startDefined = true
		}
	}
	if !startDefined {
		return &MalformedGrammarError{Reason: fmt.Sprintf("start symbol %q is not defined by any rule", g.Start)}
	}
	return nil
}
