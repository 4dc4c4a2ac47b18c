// Package ll1err holds the typed errors returned by grammar normalization,
// FIRST/FOLLOW computation, and parse-table construction. Each identifies
// precisely which nonterminal or table cell triggered it so that a caller --
// a CLI, a test, or an HTTP handler -- can report something actionable
// rather than a bare "failed" message.
package ll1err

import (
	"fmt"

	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
)

// CyclicFirstDependencyError is returned when computing FIRST(N) for some
// nonterminal N requires FIRST(N) itself to already be known, with no
// terminal or epsilon production anywhere along the cycle to ground the
// recursion.
type CyclicFirstDependencyError struct {
	Nonterminal rune
}

func (e *CyclicFirstDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency computing FIRST(%s): no production grounds the recursion", grammar.NonTerm(e.Nonterminal))
}

// CyclicFollowDependencyError is returned when the FOLLOW dependency graph
// built during phase one of FOLLOW-set computation contains a cycle, so it
// cannot be topologically sorted.
type CyclicFollowDependencyError struct{}

func (e *CyclicFollowDependencyError) Error() string {
	return "cyclic dependency among FOLLOW sets: dependency graph is not a DAG"
}

// LL1ConflictError is returned when constructing the LL(1) parse table finds
// two distinct productions of the same nonterminal that would occupy the
// same (nonterminal, lookahead) cell, meaning the grammar is not LL(1) as
// given.
type LL1ConflictError struct {
	Nonterminal rune
	Terminal    rune
	Existing    grammar.Rule
	New         grammar.Rule
}

func (e *LL1ConflictError) Error() string {
	return fmt.Sprintf(
		"LL(1) conflict at (%s, %s): both %q and %q would apply",
		grammar.NonTerm(e.Nonterminal), lookaheadString(e.Terminal), e.Existing, e.New,
	)
}

func lookaheadString(t rune) string {
	if t == grammar.EndOfInput {
		return "$"
	}
	return string(t)
}

// MalformedGrammarError is returned when a grammar fails a structural check
// before analysis ever gets underway: an empty RHS, an undefined start
// symbol, or epsilon appearing somewhere other than alone. It is defined
// alongside the Validate method that returns it, in package grammar; this
// alias keeps it discoverable as part of the same error taxonomy as the
// other typed errors in this package.
type MalformedGrammarError = grammar.MalformedGrammarError
