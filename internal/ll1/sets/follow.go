package sets

import (
	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
	"github.com/dekarrin/ll1gen/internal/util"
)

// FollowSets holds the computed FOLLOW set of every nonterminal in a
// grammar. The zero value is not usable; build one with BuildFollowSets.
type FollowSets struct {
	sets map[rune]util.KeySet[rune]
}

// Get returns the FOLLOW set of nonterminal nt.
func (fs *FollowSets) Get(nt rune) util.KeySet[rune] {
	return fs.sets[nt]
}

// BuildFollowSets computes the FOLLOW set of every nonterminal in g, given
// its already-computed FIRST sets.
//
// Phase one walks every rule A -> α looking at each nonterminal occurrence N
// within α, with β standing for whatever follows it in that production.
// FIRST(β)\{ε} is added directly to FOLLOW(N); if β is empty or nullable,
// FOLLOW(A) must eventually be absorbed into FOLLOW(N) too, so a dependency
// edge N -> A is recorded instead of attempting the union immediately, since
// FOLLOW(A) is not necessarily final yet. Self-edges (N == A) are dropped,
// since they would already be trivially satisfied once FOLLOW(A) converges
// on its own.
//
// Phase two topologically sorts that dependency graph and walks it in
// reverse, so that by the time a nonterminal's direct dependencies are
// unioned in, their own FOLLOW sets are already final. A cycle in the
// dependency graph -- FOLLOW sets that depend on each other with no
// terminal ever grounding the recursion -- is reported as
// CyclicFollowDependency.
func BuildFollowSets(g grammar.Grammar, first *FirstSets) (*FollowSets, error) {
	fs := &FollowSets{sets: map[rune]util.KeySet[rune]{}}
	for _, nt := range g.Nonterminals() {
		fs.sets[nt] = util.NewKeySet[rune]()
	}
	fs.sets[g.Start.Char].Add(grammar.EndOfInput)

	deps := map[rune]map[rune]bool{}
	noEnsure := func(rune) error { return nil }

	for _, r := range g.Rules {
		A := r.LHS.Char
		for i, sym := range r.RHS {
			if !sym.IsNonterminal() {
				continue
			}
			N := sym.Char
			beta := r.RHS[i+1:]

			betaFirst, betaNullable, err := first.firstOfSequence(beta, noEnsure)
			if err != nil {
				return nil, err
			}
			fs.sets[N].AddAll(betaFirst)

			if (len(beta) == 0 || betaNullable) && N != A {
				if deps[N] == nil {
					deps[N] = map[rune]bool{}
				}
				deps[N][A] = true
			}
		}
	}

	order, err := TopoSort(deps)
	if err != nil {
		return nil, err
	}

	for i := len(order) - 1; i >= 0; i-- {
		u := order[i]
		for dep := range deps[u] {
			fs.sets[u].AddAll(fs.sets[dep])
		}
	}

	return fs, nil
}
