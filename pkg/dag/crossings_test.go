package dag

import "testing"

func TestCountLayerCrossings(t *testing.T) {
	g, err := Build(boxes("a", "b", "x", "y"), []Edge{
		{From: "a", To: "y"},
		{From: "b", To: "x"},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	tests := []struct {
		name         string
		upper, lower []string
		want         int
	}{
		{"crossed", []string{"a", "b"}, []string{"x", "y"}, 1},
		{"uncrossed", []string{"a", "b"}, []string{"y", "x"}, 0},
		{"empty upper", nil, []string{"x", "y"}, 0},
		{"empty lower", []string{"a", "b"}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountLayerCrossings(g, tt.upper, tt.lower); got != tt.want {
				t.Errorf("CountLayerCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountCrossings_SumsLayerPairs(t *testing.T) {
	g, err := Build(boxes("a", "b", "c", "d", "e", "f"), []Edge{
		{From: "a", To: "d"},
		{From: "b", To: "c"},
		{From: "c", To: "f"},
		{From: "d", To: "e"},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	orders := [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}
	if got := CountCrossings(g, orders); got != 2 {
		t.Errorf("CountCrossings() = %d, want 2", got)
	}
}

func TestCountCrossingsIdx_MatchesBruteForce(t *testing.T) {
	edges := [][]int{{0, 2}, {1}, {0, 1, 3}, {2}}
	upper := []int{3, 0, 2, 1}
	lower := []int{1, 3, 0, 2}

	pos := make([]int, len(lower))
	for p, idx := range lower {
		pos[idx] = p
	}
	want := 0
	for i := 0; i < len(upper); i++ {
		for j := i + 1; j < len(upper); j++ {
			for _, a := range edges[upper[i]] {
				for _, b := range edges[upper[j]] {
					if pos[a] > pos[b] {
						want++
					}
				}
			}
		}
	}

	ws := NewCrossingWorkspace(1)
	if got := CountCrossingsIdx(edges, upper, lower, ws); got != want {
		t.Errorf("CountCrossingsIdx() = %d, want %d", got, want)
	}
	// A reused workspace must give the same answer.
	if got := CountCrossingsIdx(edges, upper, lower, ws); got != want {
		t.Errorf("CountCrossingsIdx() second call = %d, want %d", got, want)
	}
}
