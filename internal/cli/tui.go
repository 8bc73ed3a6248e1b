package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/fpminer/pkg/report"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ItemSetBrowser - Interactive itemset browsing
// =============================================================================

// ItemSetBrowser is the bubbletea model for browsing mined itemsets. The
// selected itemset is shown with the support after each of its items.
type ItemSetBrowser struct {
	Sets   []report.ItemSet
	Rows   int
	Cursor int
	Height int
	Offset int

	// Filter keeps only itemsets with an item containing it.
	Filter    string
	filtering bool
	visible   []int
}

// NewItemSetBrowser creates a browser over sets, which are shown in order.
func NewItemSetBrowser(sets []report.ItemSet, rows int) ItemSetBrowser {
	m := ItemSetBrowser{Sets: sets, Rows: rows, Height: 15}
	m.applyFilter()
	return m
}

func (m ItemSetBrowser) Init() tea.Cmd {
	return nil
}

func (m ItemSetBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.filtering = true
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ItemSetBrowser) updateFilter(msg tea.KeyMsg) ItemSetBrowser {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.filtering = false
	case tea.KeyBackspace:
		if m.Filter != "" {
			m.Filter = m.Filter[:len(m.Filter)-1]
		}
	case tea.KeyRunes:
		m.Filter += string(msg.Runes)
	}
	m.applyFilter()
	return m
}

func (m *ItemSetBrowser) applyFilter() {
	m.visible = m.visible[:0]
	needle := strings.ToLower(m.Filter)
	for i, s := range m.Sets {
		if needle == "" || containsItem(s, needle) {
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func containsItem(s report.ItemSet, needle string) bool {
	for _, it := range s.Items {
		if strings.Contains(strings.ToLower(it), needle) {
			return true
		}
	}
	return false
}

// Selected returns the itemset under the cursor.
func (m ItemSetBrowser) Selected() (report.ItemSet, bool) {
	if m.Cursor >= len(m.visible) {
		return report.ItemSet{}, false
	}
	return m.Sets[m.visible[m.Cursor]], true
}

func (m ItemSetBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Frequent Itemsets"))
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(listSelectedStyle.Render("filter: " + m.Filter + "▏"))
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  / filter  q quit"))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Sets[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, itemSetLabel(s), strconv.Itoa(s.Support), relativeSupport(s.Support, m.Rows)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Itemset", "Support", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if s, ok := m.Selected(); ok {
		b.WriteString("\n")
		b.WriteString(renderSupportChain(s, m.Rows))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))

	return b.String()
}

// renderSupportChain shows how support falls as the items of s are added.
func renderSupportChain(s report.ItemSet, rows int) string {
	var b strings.Builder
	for i, it := range s.Items {
		support := s.Support
		if i < len(s.Supports) {
			support = s.Supports[i]
		}
		prefix := "  "
		if i > 0 {
			prefix = "  " + iconArrow + " "
		}
		fmt.Fprintf(&b, "%s%s %s\n", listDimStyle.Render(prefix), listNormalStyle.Render(it),
			listDimStyle.Render(fmt.Sprintf("%d (%s)", support, relativeSupport(support, rows))))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
