package normalize

import "github.com/dekarrin/ll1gen/internal/ll1/grammar"

// Normalize applies the full rewrite pipeline a predictive parser needs:
// immediate left recursion is removed first, then the result is
// left-factored. Indirect left recursion -- a cycle of nonterminals that
// only becomes left-recursive after one or more substitutions -- is not
// detected or removed by either pass; a grammar containing it will still
// produce a table, but table construction or parsing with that table is not
// guaranteed to behave sensibly. See the LL1Conflict and
// CyclicFirstDependency error documentation for how such a grammar is most
// likely to be caught downstream instead.
func Normalize(g grammar.Grammar) grammar.Grammar {
	return LeftFactor(RemoveLeftRecursion(g))
}
