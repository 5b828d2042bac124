package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
)

// nodesCommand creates the nodes command listing the node catalog.
func (c *CLI) nodesCommand() *cobra.Command {
	var (
		class       string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the node kinds a document can use",
		Long: `List the node kinds a document can use, grouped by class.

Each row shows the kind (the value of "kind" in a document), its display
label and its sockets with their types. Use -i to browse the catalog
interactively, with parameters and their allowed values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := nodes.Builtin().Describe(graph.Class(class))
			if len(catalog) == 0 {
				return fmt.Errorf("no node kinds in class %q", class)
			}
			if interactive {
				_, err := tea.NewProgram(NewCatalogModel(catalog), tea.WithAltScreen()).Run()
				return err
			}
			renderCatalog(cmd.OutOrStdout(), catalog)
			return nil
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "only list one class: input, transform, math, color, texture")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the catalog interactively")

	return cmd
}

// renderCatalog writes the catalog as a table.
func renderCatalog(w io.Writer, catalog []nodes.Info) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(catalog))
	for _, info := range catalog {
		rows = append(rows, []string{
			string(info.Class),
			info.Kind,
			info.Label,
			formatSockets(info.Inputs),
			formatSockets(info.Outputs),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Class", "Kind", "Label", "Inputs", "Outputs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return classStyle(catalog[row].Class)
			case col == 1:
				return StyleHighlight
			default:
				return StyleValue
			}
		})

	fmt.Fprintln(w, t.Render())
}

// formatSockets renders sockets as "Label:Type" pairs.
func formatSockets(sockets []nodes.SocketInfo) string {
	if len(sockets) == 0 {
		return "—"
	}
	parts := make([]string, len(sockets))
	for i, s := range sockets {
		parts[i] = s.Label + ":" + s.Type
	}
	return strings.Join(parts, ", ")
}
