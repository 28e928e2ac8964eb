package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/molpatch/pkg/core/mol"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listChosenStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// SiteListModel - Interactive match-site selection
// =============================================================================

// SiteListModel is the bubbletea model for choosing which match sites to patch.
type SiteListModel struct {
	Sites  []map[int]int
	Host   *mol.Graph
	Cursor int
	Chosen map[int]bool
	Done   bool // confirmed with enter rather than quit
	Height int
	Offset int
}

// NewSiteListModel creates a new site list model.
func NewSiteListModel(host *mol.Graph, sites []map[int]int) SiteListModel {
	return SiteListModel{
		Sites:  sites,
		Host:   host,
		Chosen: make(map[int]bool),
		Height: 15,
	}
}

// Selected returns the chosen site indexes in order, or nil if the picker was
// quit.
func (m SiteListModel) Selected() []int {
	if !m.Done {
		return nil
	}
	var out []int
	for i := range m.Sites {
		if m.Chosen[i] {
			out = append(out, i)
		}
	}
	return out
}

func (m SiteListModel) Init() tea.Cmd {
	return nil
}

func (m SiteListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Sites)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Sites) > 0 {
				m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
			}
		case "a":
			all := len(m.Sites) > 0 && m.countChosen() < len(m.Sites)
			for i := range m.Sites {
				m.Chosen[i] = all
			}
		case "enter":
			if len(m.Sites) == 0 {
				return m, tea.Quit
			}
			if m.countChosen() == 0 {
				m.Chosen[m.Cursor] = true
			}
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m SiteListModel) countChosen() int {
	n := 0
	for _, v := range m.Chosen {
		if v {
			n++
		}
	}
	return n
}

func (m SiteListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Match Sites"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ apply  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Sites))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Chosen[i] {
			mark = "[x]"
		}
		rows = append(rows, []string{cursor, mark, fmt.Sprint(i), fmtMapping(m.Sites[i]), fmtHostAtoms(m.Host, m.Sites[i])})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Site", "Mapping", "Host atoms").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			base := lipgloss.NewStyle()
			if m.Chosen[idx] {
				base = listChosenStyle
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			if !m.Chosen[idx] {
				return base.Foreground(colorGray)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected", m.Cursor+1, len(m.Sites), m.countChosen())))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// pickSites runs the site picker and returns the chosen indexes. A nil result
// means the user quit without choosing.
func pickSites(ctx context.Context, host *mol.Graph, sites []map[int]int) ([]int, error) {
	p := tea.NewProgram(NewSiteListModel(host, sites), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("site picker: %w", err)
	}
	return final.(SiteListModel).Selected(), nil
}

// fmtMapping formats a mapping as "1→4 2→7" in template id order.
func fmtMapping(m map[int]int) string {
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, fmt.Sprintf("%d%s%d", k, iconArrow, m[k]))
	}
	return strings.Join(parts, " ")
}

// fmtHostAtoms lists the element and id of every mapped host atom.
func fmtHostAtoms(host *mol.Graph, m map[int]int) string {
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		a, ok := host.Atom(m[k])
		if !ok {
			parts = append(parts, fmt.Sprintf("?%d", m[k]))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s%d", a.Symbol(), m[k]))
	}
	return strings.Join(parts, " ")
}
