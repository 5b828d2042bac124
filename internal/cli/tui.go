package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/shadergraph/pkg/nodes"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// CatalogModel - Interactive node catalog
// =============================================================================

// CatalogModel is the bubbletea model for browsing node kinds.
type CatalogModel struct {
	Kinds  []nodes.Info
	Cursor int
	Height int
	Offset int
}

// NewCatalogModel creates a new catalog model.
func NewCatalogModel(kinds []nodes.Info) CatalogModel {
	return CatalogModel{
		Kinds:  kinds,
		Height: 15,
	}
}

func (m CatalogModel) Init() tea.Cmd {
	return nil
}

func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Kinds)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m CatalogModel) View() string {
	var list strings.Builder

	list.WriteString(StyleTitle.Render("Node Catalog"))
	list.WriteString("\n")
	list.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	list.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Kinds))
	for i := m.Offset; i < end; i++ {
		info := m.Kinds[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-16s %s", cursor, info.Kind, classStyle(info.Class).Render(string(info.Class)))
		if i == m.Cursor {
			list.WriteString(listSelectedStyle.Render(line))
		} else {
			list.WriteString(listNormalStyle.Render(line))
		}
		list.WriteString("\n")
	}
	list.WriteString("\n")
	list.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Kinds))))

	if len(m.Kinds) == 0 {
		return list.String()
	}
	detail := detailBoxStyle.Render(describeKind(m.Kinds[m.Cursor]))
	return lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "  ", detail)
}

// describeKind renders the detail pane for one kind.
func describeKind(info nodes.Info) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(info.Label))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("kind = %q", info.Kind)))
	b.WriteString("\n\n")

	section := func(title string, sockets []nodes.SocketInfo) {
		if len(sockets) == 0 {
			return
		}
		b.WriteString(StyleHighlight.Render(title))
		b.WriteString("\n")
		for i, s := range sockets {
			fmt.Fprintf(&b, "  %s %-10s %s\n", StyleNumber.Render(fmt.Sprint(i)), s.Label, listDimStyle.Render(s.Type))
		}
	}
	section("Inputs", info.Inputs)
	section("Outputs", info.Outputs)

	if len(info.Parameters) > 0 {
		b.WriteString(StyleHighlight.Render("Parameters"))
		b.WriteString("\n")
		for _, p := range info.Parameters {
			fmt.Fprintf(&b, "  %s = %s\n", p.Label, StyleValue.Render(p.Value))
			if len(p.ValidValues) > 0 {
				b.WriteString(listDimStyle.Render("    " + strings.Join(p.ValidValues, " | ")))
				b.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
