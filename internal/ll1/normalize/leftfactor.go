package normalize

import (
	"strings"

	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
)

// LeftFactor rewrites every nonterminal of g that has two or more
// productions sharing a common prefix, introducing a helper nonterminal per
// surviving prefix group so that no nonterminal's alternatives require more
// than one symbol of lookahead to distinguish between. Nonterminals are
// processed in first-appearance order; rules that do not participate in any
// factored group are carried through unchanged, after the factored rules for
// their nonterminal.
func LeftFactor(g grammar.Grammar) grammar.Grammar {
	fresh := grammar.NewFreshNames(g)

	var out []grammar.Rule
	for _, nt := range g.Nonterminals() {
		out = append(out, factorNonterminal(g.RulesFor(nt), fresh)...)
	}

	return grammar.Grammar{Rules: out, Start: g.Start}
}

type prefixGroup struct {
	key     string
	prefix  []grammar.Symbol
	indices map[int]bool
}

func factorNonterminal(rules []grammar.Rule, fresh *grammar.FreshNames) []grammar.Rule {
	n := len(rules)
	if n < 2 {
		return rules
	}

	groups := map[string]*prefixGroup{}
	var order []string

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			prefix := commonPrefix(rules[i].RHS, rules[j].RHS)
			if len(prefix) == 0 {
				continue
			}
			k := prefixKey(prefix)
			grp, ok := groups[k]
			if !ok {
				grp = &prefixGroup{key: k, prefix: prefix, indices: map[int]bool{}}
				groups[k] = grp
				order = append(order, k)
			}
			grp.indices[i] = true
			grp.indices[j] = true
		}
	}

	// an index participating in more than one candidate group keeps only
	// the longest prefix; ties cannot occur, since two candidate prefixes of
	// equal length for a fixed index are necessarily the same prefix.
	belongsTo := map[int][]string{}
	for _, k := range order {
		for idx := range groups[k].indices {
			belongsTo[idx] = append(belongsTo[idx], k)
		}
	}
	for idx, keys := range belongsTo {
		if len(keys) < 2 {
			continue
		}
		longest := keys[0]
		for _, k := range keys[1:] {
			if len(groups[k].prefix) > len(groups[longest].prefix) {
				longest = k
			}
		}
		for _, k := range keys {
			if k != longest {
				delete(groups[k].indices, idx)
			}
		}
	}

	var out []grammar.Rule
	participating := map[int]bool{}

	for _, k := range order {
		grp := groups[k]
		if len(grp.indices) < 2 {
			continue
		}

		newSym := grammar.NonTerm(fresh.Next())
		body := append(append([]grammar.Symbol{}, grp.prefix...), newSym)
		out = append(out, grammar.Rule{LHS: rules[0].LHS, RHS: body})

		for i := 0; i < n; i++ {
			if !grp.indices[i] {
				continue
			}
			participating[i] = true
			suffix := rules[i].RHS[len(grp.prefix):]
			if len(suffix) == 0 {
				suffix = []grammar.Symbol{grammar.EpsilonSymbol()}
			}
			out = append(out, grammar.Rule{LHS: newSym, RHS: suffix})
		}
	}

	for i := 0; i < n; i++ {
		if !participating[i] {
			out = append(out, rules[i])
		}
	}

	return out
}

func commonPrefix(a, b []grammar.Symbol) []grammar.Symbol {
	var prefix []grammar.Symbol
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			break
		}
		prefix = append(prefix, a[i])
	}
	return prefix
}

func prefixKey(prefix []grammar.Symbol) string {
	var sb strings.Builder
	for _, s := range prefix {
		sb.WriteRune(s.Char)
		if s.IsNonterminal() {
			sb.WriteByte('N')
		} else {
			sb.WriteByte('T')
		}
	}
	return sb.String()
}
