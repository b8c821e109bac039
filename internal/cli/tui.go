package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PartListModel - Interactive part selection
// =============================================================================

// PartListModel is the bubbletea model for choosing a part from a decoded score.
type PartListModel struct {
	Parts    []score.Part
	Cursor   int
	Selected int // chosen part index, -1 until a selection is made
}

// NewPartListModel creates a part list model over the document's parts.
func NewPartListModel(parts []score.Part) PartListModel {
	return PartListModel{Parts: parts, Selected: -1}
}

func (m PartListModel) Init() tea.Cmd { return nil }

func (m PartListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.Selected = m.Cursor
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Parts)-1 {
			m.Cursor++
		}
	}
	return m, nil
}

func (m PartListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Part"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ select  esc cancel"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Parts))
	for i, p := range m.Parts {
		marker := "  "
		if i == m.Cursor {
			marker = "▸ "
		}
		rows[i] = []string{
			marker,
			p.Name,
			strconv.Itoa(p.StaffID),
			strconv.Itoa(len(p.Measures)),
			strconv.Itoa(countNotes(p)),
		}
	}

	t := newTable("", "Part", "Staff", "Measures", "Notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHeader
			case row == m.Cursor && col < 2:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case row == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			case col < 2:
				return lipgloss.NewStyle().Foreground(colorWhite)
			default:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Parts))))

	return b.String()
}

// countNotes returns the number of sounded events in a part across all voices.
func countNotes(p score.Part) int {
	n := 0
	for _, msr := range p.Measures {
		for _, e := range msr.Events {
			if e.Kind == score.EventNote {
				n++
			}
		}
	}
	return n
}
