package sets

import (
	"sort"

	"github.com/dekarrin/ll1gen/internal/ll1err"
)

// TopoSort orders the nodes of graph such that for every edge u -> v
// present in graph, u precedes v in the returned order. Ties among nodes
// that become ready simultaneously are broken by rune value, so the result
// is fully deterministic. graph need not list every node as a key; any node
// that appears only as a successor is still included in the output.
//
// If graph contains a cycle, not every node can be ordered and a
// CyclicFollowDependencyError is returned.
func TopoSort(graph map[rune]map[rune]bool) ([]rune, error) {
	nodes := map[rune]bool{}
	for u, succs := range graph {
		nodes[u] = true
		for v := range succs {
			nodes[v] = true
		}
	}

	inDegree := make(map[rune]int, len(nodes))
	for n := range nodes {
		inDegree[n] = 0
	}
	for _, succs := range graph {
		for v := range succs {
			inDegree[v]++
		}
	}

	var ready []rune
	for n := range nodes {
		if inDegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	order := make([]rune, 0, len(nodes))
	for len(ready) > 0 {
		u := ready[0]
		ready = ready[1:]
		order = append(order, u)

		var freed []rune
		for v := range graph[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				freed = append(freed, v)
			}
		}
		sort.Slice(freed, func(i, j int) bool { return freed[i] < freed[j] })

		ready = append(ready, freed...)
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
	}

	if len(order) != len(nodes) {
		return nil, &ll1err.CyclicFollowDependencyError{}
	}

	return order, nil
}
