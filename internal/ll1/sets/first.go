// Package sets computes the FIRST and FOLLOW sets of a normalized grammar,
// and the topological sort FOLLOW's dependency resolution relies on.
package sets

import (
	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
	"github.com/dekarrin/ll1gen/internal/ll1err"
	"github.com/dekarrin/ll1gen/internal/util"
)

// FirstSets holds the computed FIRST set of every nonterminal in a grammar.
// The zero value is not usable; build one with BuildFirstSets.
type FirstSets struct {
	sets map[rune]util.KeySet[rune]
}

// Get returns the FIRST set of nonterminal nt. The returned set includes
// grammar.Epsilon if nt is nullable.
func (fs *FirstSets) Get(nt rune) util.KeySet[rune] {
	return fs.sets[nt]
}

// Nullable returns whether nt's FIRST set contains epsilon, i.e. whether nt
// can derive the empty string.
func (fs *FirstSets) Nullable(nt rune) bool {
	return fs.sets[nt].Has(grammar.Epsilon)
}

// FirstOfSequence computes FIRST(seq) for an arbitrary sequence of symbols,
// such as the portion of a production body following a given symbol. It
// requires every nonterminal seq refers to to have already been computed.
// The returned set never contains grammar.Epsilon; use the second return
// value to test whether the sequence as a whole is nullable.
func (fs *FirstSets) FirstOfSequence(seq []grammar.Symbol) (util.KeySet[rune], bool) {
	acc, nullable, _ := fs.firstOfSequence(seq, func(rune) error { return nil })
	return acc, nullable
}

// BuildFirstSets computes the FIRST set of every nonterminal in g.
//
// A production's contribution to FIRST(N) is: scan its body left to right,
// unioning in FIRST(Xi)\{ε} for each symbol Xi, stopping at (and including)
// the first symbol that is not nullable. If every symbol in the body is
// nullable -- including the case of an explicit epsilon production -- the
// production also contributes ε. FIRST(N) is the union of every production's
// contribution. In particular, ε ends up in FIRST(N) if ANY production of N
// is nullable, not merely the last one processed; earlier-contributed
// terminals never suppress it. A grammar in which FIRST-set computation for
// some nonterminal depends on itself with no terminal or epsilon ever
// reached (a cycle with no base case) is reported as CyclicFirstDependency.
func BuildFirstSets(g grammar.Grammar) (*FirstSets, error) {
	fs := &FirstSets{sets: map[rune]util.KeySet[rune]{}}

	visiting := map[rune]bool{}
	computed := map[rune]bool{}

	var computeNT func(nt rune) error
	computeNT = func(nt rune) error {
		if computed[nt] {
			return nil
		}
		if visiting[nt] {
			return &ll1err.CyclicFirstDependencyError{Nonterminal: nt}
		}
		visiting[nt] = true

		acc := util.NewKeySet[rune]()
		nullableAny := false
		for _, r := range g.RulesFor(nt) {
			prodSet, nullable, err := fs.firstOfSequence(r.RHS, computeNT)
			if err != nil {
				delete(visiting, nt)
				return err
			}
			acc.AddAll(prodSet)
			if nullable {
				nullableAny = true
			}
		}
		if nullableAny {
			acc.Add(grammar.Epsilon)
		}

		fs.sets[nt] = acc
		computed[nt] = true
		delete(visiting, nt)
		return nil
	}

	for _, nt := range g.Nonterminals() {
		if err := computeNT(nt); err != nil {
			return nil, err
		}
	}

	return fs, nil
}

// firstOfSequence computes the FIRST contribution of a single symbol
// sequence, calling ensure to lazily (and recursively) compute the FIRST set
// of any nonterminal it has not yet seen. The returned set excludes epsilon;
// the bool return says whether the whole sequence is nullable.
func (fs *FirstSets) firstOfSequence(seq []grammar.Symbol, ensure func(rune) error) (util.KeySet[rune], bool, error) {
	acc := util.NewKeySet[rune]()

	for _, x := range seq {
		if x.IsTerminal() {
			if x.IsEpsilon() {
				return acc, true, nil
			}
			acc.Add(x.Char)
			return acc, false, nil
		}

		if err := ensure(x.Char); err != nil {
			return nil, false, err
		}
		s := fs.sets[x.Char]
		nullable := s.Has(grammar.Epsilon)
		for _, t := range s.Elements() {
			if t != grammar.Epsilon {
				acc.Add(t)
			}
		}
		if !nullable {
			return acc, false, nil
		}
	}

	return acc, true, nil
}
