package sets

import "testing"

func TestTopoSort_SimpleChain(t *testing.T) {
	graph := map[rune]map[rune]bool{
		'A': {'B': true},
		'B': {'C': true},
	}

	got, err := TopoSort(graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []rune{'A', 'B', 'C'}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTopoSort_MultipleDependents(t *testing.T) {
	graph := map[rune]map[rune]bool{
		'A': {'B': true},
		'C': {'B': true},
	}

	order, err := TopoSort(graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := map[rune]int{}
	for i, n := range order {
		pos[n] = i
	}
	if pos['A'] >= pos['B'] {
		t.Errorf("expected A before B, got order %v", order)
	}
	if pos['C'] >= pos['B'] {
		t.Errorf("expected C before B, got order %v", order)
	}
}

func TestTopoSort_CycleIsRejected(t *testing.T) {
	graph := map[rune]map[rune]bool{
		'A': {'B': true},
		'B': {'A': true},
	}

	_, err := TopoSort(graph)
	if err == nil {
		t.Fatal("expected a cyclic dependency error")
	}
}
