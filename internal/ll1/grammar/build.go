package grammar

import "fmt"

// RuleSpec is the textual authoring convention for a single production: LHS
// is the nonterminal character the rule is for, and RHS is a string of
// characters, each one a single symbol of the production body. An empty RHS
// string denotes an epsilon production.
//
// Whether a given character denotes a terminal or a nonterminal is not
// stated explicitly; it is derived from the full set of specs supplied to
// Build: any character that appears as some spec's LHS is a nonterminal
// everywhere it occurs, and every other character is a terminal. This means
// a character can never simultaneously be classified as both within a single
// Build call.
type RuleSpec struct {
	LHS rune
	RHS string
}

// Build assembles a Grammar from a sequence of RuleSpecs using the textual
// authoring convention described on RuleSpec. The nonterminal named by the
// first spec becomes the grammar's start symbol.
func Build(specs []RuleSpec) (Grammar, error) {
	if len(specs) == 0 {
		return Grammar{}, fmt.Errorf("no rules given")
	}

	nonterminals := map[rune]bool{}
	for _, s := range specs {
		nonterminals[s.LHS] = true
	}

	g := Grammar{Start: NonTerm(specs[0].LHS)}
	for _, s := range specs {
		rule := Rule{LHS: NonTerm(s.LHS)}
		if s.RHS == "" {
			rule.RHS = []Symbol{EpsilonSymbol()}
		} else {
			for _, c := range s.RHS {
				if nonterminals[c] {
					rule.RHS = append(rule.RHS, NonTerm(c))
				} else {
					rule.RHS = append(rule.RHS, Term(c))
				}
			}
		}
		g.Rules = append(g.Rules, rule)
	}

	if err := g.Validate(); err != nil {
		return Grammar{}, err
	}

	return g, nil
}

// MustBuild is like Build but panics on error. Intended for use with
// grammar literals known at compile time, such as in tests.
func MustBuild(specs []RuleSpec) Grammar {
	g, err := Build(specs)
	if err != nil {
		panic(err)
	}
	return g
}
