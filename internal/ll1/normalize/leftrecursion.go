// Package normalize rewrites a Grammar into a form a predictive parser can
// drive: first by eliminating immediate left recursion, then by left-
// factoring the remaining rules. Both transforms are grounded directly on the
// reference grammar-normalization routine they were distilled from, and each
// introduces any helper nonterminals it needs from its own
// grammar.FreshNames generator, seeded from whatever grammar it was handed.
package normalize

import "github.com/dekarrin/ll1gen/internal/ll1/grammar"

// RemoveLeftRecursion rewrites every immediately left-recursive nonterminal
// of g using the standard two-rule transform, processing nonterminals in
// first-appearance order and leaving all other rules untouched.
//
// Trivial unit rules of the form A -> A (a rule whose RHS is the single
// symbol A itself) are dropped before recursion is checked for, since they
// contribute nothing a parser could ever act on.
//
// If every rule for a nonterminal is left-recursive -- there is no
// non-recursive alternative to "seed" the rewritten nonterminal -- the
// rewritten helper is not given an epsilon alternative. This mirrors the
// reference implementation exactly: such a grammar denotes the empty
// language for that nonterminal, and introducing an ε alternative here would
// silently change what the grammar means rather than merely restructure it.
func RemoveLeftRecursion(g grammar.Grammar) grammar.Grammar {
	fresh := grammar.NewFreshNames(g)

	var out []grammar.Rule
	for _, nt := range g.Nonterminals() {
		out = append(out, splitSymbolRules(g.RulesFor(nt), fresh)...)
	}

	return grammar.Grammar{Rules: out, Start: g.Start}
}

func splitSymbolRules(rules []grammar.Rule, fresh *grammar.FreshNames) []grammar.Rule {
	filtered := make([]grammar.Rule, 0, len(rules))
	for _, r := range rules {
		if len(r.RHS) == 1 && r.RHS[0] == r.LHS {
			continue
		}
		filtered = append(filtered, r)
	}

	if len(filtered) == 0 {
		return filtered
	}

	anyRecursive := false
	for _, r := range filtered {
		if r.IsLeftRecursive() {
			anyRecursive = true
			break
		}
	}
	if !anyRecursive {
		return filtered
	}

	oldSym := filtered[0].LHS
	newSym := grammar.NonTerm(fresh.Next())

	var out []grammar.Rule
	foundNonRecursive := false

	for _, r := range filtered {
		if r.IsLeftRecursive() {
			tail := append(append([]grammar.Symbol{}, r.RHS[1:]...), newSym)
			out = append(out, grammar.Rule{LHS: newSym, RHS: tail})
		} else {
			foundNonRecursive = true
			body := append(append([]grammar.Symbol{}, r.RHS...), newSym)
			out = prepend(out, grammar.Rule{LHS: oldSym, RHS: body})
		}
	}

	if foundNonRecursive {
		out = append(out, grammar.Rule{LHS: newSym, RHS: []grammar.Symbol{grammar.EpsilonSymbol()}})
	} else {
		out = prepend(out, grammar.Rule{LHS: oldSym, RHS: []grammar.Symbol{newSym}})
	}

	return out
}

func prepend(rules []grammar.Rule, r grammar.Rule) []grammar.Rule {
	out := make([]grammar.Rule, 0, len(rules)+1)
	out = append(out, r)
	out = append(out, rules...)
	return out
}
