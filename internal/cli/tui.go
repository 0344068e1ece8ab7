package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stacklayout/pkg/config"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// algorithmSummaries describes each entry of config.Algorithms in the picker.
var algorithmSummaries = map[string]string{
	config.AlgorithmFruchterman: "force-directed, cooling temperature",
	config.AlgorithmEades:       "spring embedder, logarithmic springs",
	config.AlgorithmBuchheim:    "tidy tree, requires a single root",
	config.AlgorithmGraphViz:    "external dot layout with spline edges",
	config.AlgorithmRandom:      "uniform positions in the unit square",
}

// =============================================================================
// AlgorithmListModel - Interactive algorithm selection
// =============================================================================

// AlgorithmListModel is the bubbletea model behind layout --pick.
type AlgorithmListModel struct {
	Algorithms []string
	Current    string
	Cursor     int
	Selected   string
}

// NewAlgorithmListModel creates a picker with the cursor on current.
func NewAlgorithmListModel(current string) AlgorithmListModel {
	m := AlgorithmListModel{Algorithms: config.Algorithms, Current: current}
	for i, name := range m.Algorithms {
		if name == current {
			m.Cursor = i
		}
	}
	return m
}

func (m AlgorithmListModel) Init() tea.Cmd {
	return nil
}

func (m AlgorithmListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Algorithms)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Algorithms[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m AlgorithmListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout Algorithm"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Algorithms))
	for i, name := range m.Algorithms {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := ""
		if name == m.Current {
			marker = "default"
		}
		rows[i] = []string{cursor, name, algorithmSummaries[name], marker}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Algorithm", "Description", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Algorithms))))

	return b.String()
}

// pickAlgorithm runs the picker and returns the chosen name, or "" if the
// user quit without choosing.
func pickAlgorithm(current string, opts ...tea.ProgramOption) (string, error) {
	final, err := tea.NewProgram(NewAlgorithmListModel(current), opts...).Run()
	if err != nil {
		return "", err
	}
	return final.(AlgorithmListModel).Selected, nil
}
