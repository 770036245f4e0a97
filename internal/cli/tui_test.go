package cli

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iloginov/tasker/pkg/graph"
	"github.com/iloginov/tasker/pkg/layout"
)

// diamondDoc is design -> {backend, frontend} -> launch.
func diamondDoc() graph.LayoutDoc {
	return graph.LayoutDoc{
		Version:   graph.LayoutVersion,
		Direction: layout.TopToBottom,
		Nodes: []graph.Block{
			{ID: "launch", Rank: 2, Order: 0},
			{ID: "frontend", Label: "Frontend", Rank: 1, Order: 1},
			{ID: "backend", Label: "Backend", Rank: 1, Order: 0},
			{ID: "design", Rank: 0, Order: 0},
		},
		Edges: []layout.Route{
			{ID: "design->backend", From: "design", To: "backend"},
			{ID: "design->frontend", From: "design", To: "frontend"},
			{ID: "backend->launch", From: "backend", To: "launch"},
			{ID: "frontend->launch", From: "frontend", To: "launch"},
		},
		Ranks: [][]string{{"design"}, {"backend", "frontend"}, {"launch"}},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m RankBrowserModel, keys ...string) RankBrowserModel {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(RankBrowserModel)
	}
	return m
}

func TestGroupByRank(t *testing.T) {
	ranks := groupByRank(diamondDoc())
	if len(ranks) != 3 {
		t.Fatalf("got %d ranks, want 3", len(ranks))
	}
	if ranks[1][0].ID != "backend" || ranks[1][1].ID != "frontend" {
		t.Errorf("rank 1 = %v, want backend before frontend", ranks[1])
	}
}

func TestRankBrowserNavigation(t *testing.T) {
	m := NewRankBrowserModel("roadmap", diamondDoc())

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"start", nil, "design"},
		{"next rank", []string{"right"}, "backend"},
		{"within rank", []string{"l", "j"}, "frontend"},
		{"clamped at end of rank", []string{"l", "j", "j", "j"}, "frontend"},
		{"order clamped on rank change", []string{"l", "j", "l"}, "launch"},
		{"back", []string{"l", "j", "k", "h"}, "design"},
		{"no rank before first", []string{"left", "up"}, "design"},
		{"home", []string{"l", "l", "g"}, "design"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blk, ok := press(m, tt.keys...).Selected()
			if !ok || blk.ID != tt.want {
				t.Errorf("selected %q (%v), want %q", blk.ID, ok, tt.want)
			}
		})
	}
}

func TestRankBrowserQuit(t *testing.T) {
	m := NewRankBrowserModel("roadmap", diamondDoc())
	for _, k := range []string{"q", "esc"} {
		_, cmd := m.Update(keyMsg(k))
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command does not quit", k)
		}
	}

	_, cmd := NewRankBrowserModel("empty", graph.LayoutDoc{}).Update(keyMsg("q"))
	if cmd == nil {
		t.Error("q on an empty layout should quit")
	}
}

func TestRankBrowserView(t *testing.T) {
	m := press(NewRankBrowserModel("roadmap", diamondDoc()), "l")
	view := m.View()

	for _, want := range []string{"roadmap", "Rank", "backend", "frontend", "Backend", "after:", "before:", "design", "launch"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	empty := NewRankBrowserModel("empty", graph.LayoutDoc{}).View()
	if !strings.Contains(empty, "(empty graph)") {
		t.Errorf("empty view = %q", empty)
	}
}

func TestPrintRanks(t *testing.T) {
	var buf bytes.Buffer
	if err := printRanks(&buf, "roadmap", diamondDoc()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Rank 0", "Rank 1", "Rank 2", "launch"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
