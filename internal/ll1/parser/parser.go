// Package parser assembles a normalized grammar's parse table into a
// table-driven LL(1) recognizer.
package parser

import (
	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
	"github.com/dekarrin/ll1gen/internal/ll1/normalize"
	"github.com/dekarrin/ll1gen/internal/ll1/sets"
	"github.com/dekarrin/ll1gen/internal/ll1/table"
)

// Parser recognizes strings of terminal symbols against a grammar using a
// stack-driven LL(1) table walk.
type Parser struct {
	normalized   grammar.Grammar
	table        *table.Table
	first        *sets.FirstSets
	follow       *sets.FollowSets
	nonterminals map[rune]bool
}

// New normalizes g (removing immediate left recursion, then left-factoring)
// and builds its LL(1) parse table.
//
// The set of nonterminals the recognizer treats specially is taken from the
// normalized grammar, not the grammar the caller passed in. Deriving it from
// the pre-normalization grammar instead is a documented and deliberately
// avoided bug: normalization can both introduce nonterminals (the helper
// symbols left-recursion removal and left-factoring add) and, in principle,
// leave a character that used to be a nonterminal without any rule of its
// own, and a stale nonterminal set would cause the recognizer to either
// treat a helper nonterminal as a literal terminal to match, or the reverse,
// neither of which is predict-and-match behavior its table supports.
func New(g grammar.Grammar) (*Parser, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	normalized := normalize.Normalize(g)

	first, err := sets.BuildFirstSets(normalized)
	if err != nil {
		return nil, err
	}
	follow, err := sets.BuildFollowSets(normalized, first)
	if err != nil {
		return nil, err
	}
	tbl, err := table.Build(normalized, first, follow)
	if err != nil {
		return nil, err
	}

	nts := map[rune]bool{}
	for _, nt := range normalized.Nonterminals() {
		nts[nt] = true
	}

	return &Parser{
		normalized:   normalized,
		table:        tbl,
		first:        first,
		follow:       follow,
		nonterminals: nts,
	}, nil
}

// Grammar returns the normalized grammar the parser was built from.
func (p *Parser) Grammar() grammar.Grammar {
	return p.normalized
}

// Table returns the parser's underlying LL(1) parse table.
func (p *Parser) Table() *table.Table {
	return p.table
}

// Parse reports whether input, as a sequence of terminal characters, is a
// sentence of the parser's grammar.
//
// The driver follows the classical four rules, checked in order at each
// step: if the end marker is on top of the stack and input is exhausted,
// accept; if the terminal on top of the stack matches the current input
// symbol, pop the stack and advance the input; if a nonterminal is on top of
// the stack, consult the table for the production its lookahead predicts
// and replace it on the stack with that production's body (an empty
// production contributes nothing to the stack); otherwise, reject.
func (p *Parser) Parse(input []rune) bool {
	stack := []rune{grammar.EndOfInput, p.normalized.Start.Char}
	tokens := append(append([]rune{}, input...), grammar.EndOfInput)
	i := 0

	for i < len(tokens) {
		top := stack[len(stack)-1]

		if top == grammar.EndOfInput && tokens[i] == grammar.EndOfInput {
			return true
		}

		if !p.nonterminals[top] {
			if top == tokens[i] {
				stack = stack[:len(stack)-1]
				i++
				continue
			}
			return false
		}

		rule, ok := p.table.Get(top, tokens[i])
		if !ok {
			return false
		}

		stack = stack[:len(stack)-1]
		for j := len(rule.RHS) - 1; j >= 0; j-- {
			sym := rule.RHS[j]
			if sym.IsEpsilon() {
				continue
			}
			stack = append(stack, sym.Char)
		}
	}

	return false
}
