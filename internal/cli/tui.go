package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/iloginov/tasker/pkg/graph"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle       = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// RankBrowserModel - Interactive layout inspection
// =============================================================================

// RankBrowserModel is the bubbletea model for browsing a layout rank by rank.
type RankBrowserModel struct {
	Title string
	Ranks [][]graph.Block
	Rank  int // Selected rank
	Order int // Selected block within the rank

	preds map[string][]string
	succs map[string][]string
}

// NewRankBrowserModel groups the blocks of doc by rank.
func NewRankBrowserModel(title string, doc graph.LayoutDoc) RankBrowserModel {
	m := RankBrowserModel{
		Title: title,
		Ranks: groupByRank(doc),
		preds: make(map[string][]string),
		succs: make(map[string][]string),
	}
	for _, e := range doc.Edges {
		m.succs[e.From] = append(m.succs[e.From], e.To)
		m.preds[e.To] = append(m.preds[e.To], e.From)
	}
	return m
}

// groupByRank returns the blocks of each rank in left-to-right order.
func groupByRank(doc graph.LayoutDoc) [][]graph.Block {
	ranks := make([][]graph.Block, len(doc.Ranks))
	for _, b := range doc.Nodes {
		if b.Rank >= 0 && b.Rank < len(ranks) {
			ranks[b.Rank] = append(ranks[b.Rank], b)
		}
	}
	for _, r := range ranks {
		slices.SortFunc(r, func(a, b graph.Block) int { return a.Order - b.Order })
	}
	return ranks
}

func (m RankBrowserModel) Init() tea.Cmd {
	return nil
}

func (m RankBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Ranks) == 0 {
		if ok && isQuit(key.String()) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch s := key.String(); {
	case isQuit(s):
		return m, tea.Quit
	case s == "right" || s == "l" || s == "tab":
		if m.Rank < len(m.Ranks)-1 {
			m.Rank++
			m.Order = min(m.Order, len(m.Ranks[m.Rank])-1)
		}
	case s == "left" || s == "h" || s == "shift+tab":
		if m.Rank > 0 {
			m.Rank--
			m.Order = min(m.Order, len(m.Ranks[m.Rank])-1)
		}
	case s == "down" || s == "j":
		if m.Order < len(m.Ranks[m.Rank])-1 {
			m.Order++
		}
	case s == "up" || s == "k":
		if m.Order > 0 {
			m.Order--
		}
	case s == "home" || s == "g":
		m.Rank, m.Order = 0, 0
	}
	return m, nil
}

func isQuit(s string) bool {
	return s == "q" || s == "ctrl+c" || s == "esc"
}

// Selected returns the highlighted block.
func (m RankBrowserModel) Selected() (graph.Block, bool) {
	if m.Rank >= len(m.Ranks) || m.Order >= len(m.Ranks[m.Rank]) {
		return graph.Block{}, false
	}
	return m.Ranks[m.Rank][m.Order], true
}

func (m RankBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ rank  ↑/↓ task  g first  q quit"))
	b.WriteString("\n\n")

	if len(m.Ranks) == 0 {
		b.WriteString(listDimStyle.Render("  (empty graph)"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Rank %s of %d\n",
		listSelectedStyle.Render(fmt.Sprint(m.Rank)), len(m.Ranks)))
	b.WriteString(rankTable(m.Ranks[m.Rank], m.Order).Render())
	b.WriteString("\n")

	if blk, ok := m.Selected(); ok {
		b.WriteString("\n")
		b.WriteString(m.details(blk))
	}
	return b.String()
}

func (m RankBrowserModel) details(blk graph.Block) string {
	var b strings.Builder
	label := blk.Label
	if label == "" {
		label = blk.ID
	}
	b.WriteString(listSelectedStyle.Render(label))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("after:  ") + joinOrDash(m.preds[blk.ID]) + "\n")
	b.WriteString(listDimStyle.Render("before: ") + joinOrDash(m.succs[blk.ID]) + "\n")
	return b.String()
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}

// rankTable renders the blocks of one rank. selected is highlighted; pass -1
// for none.
func rankTable(blocks []graph.Block, selected int) *table.Table {
	rows := make([][]string, 0, len(blocks))
	for i, blk := range blocks {
		cursor := "  "
		if i == selected {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprint(blk.Order),
			blk.ID,
			blk.Label,
			fmt.Sprintf("%g, %g", blk.X, blk.Y),
			fmt.Sprintf("%g × %g", blk.Width, blk.Height),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "ID", "Label", "Position", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == selected:
				return listSelectedStyle
			case col >= 4:
				return listDimStyle
			default:
				return lipgloss.NewStyle()
			}
		})
}
