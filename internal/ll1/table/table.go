// Package table builds and renders the LL(1) parse table: for each
// (nonterminal, lookahead terminal) pair, the single production to apply.
package table

import (
	"sort"

	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
	"github.com/dekarrin/ll1gen/internal/ll1/sets"
	"github.com/dekarrin/ll1gen/internal/ll1err"
	"github.com/dekarrin/rosed"
)

// cell identifies a single entry of the table.
type cell struct {
	nonterminal rune
	terminal    rune
}

// Table is the parse table driving an LL(1) recognizer: for every
// (nonterminal, lookahead) pair it has seen a production for, it holds that
// production.
type Table struct {
	cells map[cell]grammar.Rule
}

func newTable() *Table {
	return &Table{cells: map[cell]grammar.Rule{}}
}

// Get returns the production to apply when nt is on top of the stack and
// term is the current lookahead, if one was recorded.
func (t *Table) Get(nt, term rune) (grammar.Rule, bool) {
	r, ok := t.cells[cell{nt, term}]
	return r, ok
}

// Build constructs the LL(1) parse table for g, given its FIRST and FOLLOW
// sets.
//
// For every production A -> α: every terminal in FIRST(α) predicts it. If α
// is nullable, every terminal in FOLLOW(A) predicts it too (including the
// end-of-input marker, which FOLLOW sets may contain). A table cell that
// would end up predicting two distinct productions is an LL(1) conflict:
// the grammar as given is not LL(1), and Build reports which two
// productions collided so the caller can decide how to fix the grammar
// rather than guess.
func Build(g grammar.Grammar, first *sets.FirstSets, follow *sets.FollowSets) (*Table, error) {
	t := newTable()

	for _, r := range g.Rules {
		bodyFirst, nullable := first.FirstOfSequence(r.RHS)

		for _, term := range bodyFirst.Elements() {
			if err := t.set(r.LHS.Char, term, r); err != nil {
				return nil, err
			}
		}

		if nullable {
			for _, term := range follow.Get(r.LHS.Char).Elements() {
				if err := t.set(r.LHS.Char, term, r); err != nil {
					return nil, err
				}
			}
		}
	}

	return t, nil
}

func (t *Table) set(nt, term rune, r grammar.Rule) error {
	c := cell{nt, term}
	if existing, ok := t.cells[c]; ok {
		if !sameProduction(existing, r) {
			return &ll1err.LL1ConflictError{
				Nonterminal: nt,
				Terminal:    term,
				Existing:    existing,
				New:         r,
			}
		}
		return nil
	}
	t.cells[c] = r
	return nil
}

func sameProduction(a, b grammar.Rule) bool {
	if a.LHS != b.LHS || len(a.RHS) != len(b.RHS) {
		return false
	}
	for i := range a.RHS {
		if a.RHS[i] != b.RHS[i] {
			return false
		}
	}
	return true
}

// Render renders the table as a grid of nonterminals by terminals, suitable
// for printing to a terminal or log. Rows and columns are sorted for
// determinism: the end-of-input marker always sorts last.
func (t *Table) Render() string {
	nts := map[rune]bool{}
	terms := map[rune]bool{}
	for c := range t.cells {
		nts[c.nonterminal] = true
		terms[c.terminal] = true
	}

	ntList := sortedRunes(nts)
	termList := sortedRunes(terms)

	header := []string{""}
	for _, term := range termList {
		header = append(header, grammar.Term(term).String())
	}

	rows := [][]string{header}
	for _, nt := range ntList {
		row := []string{string(nt)}
		for _, term := range termList {
			if r, ok := t.Get(nt, term); ok {
				row = append(row, r.String())
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, rows, 100, rosed.Options{
			TableBorders: true,
		}).
		String()
}

func sortedRunes(s map[rune]bool) []rune {
	out := make([]rune, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i] == grammar.EndOfInput {
			return false
		}
		if out[j] == grammar.EndOfInput {
			return true
		}
		return out[i] < out[j]
	})
	return out
}
