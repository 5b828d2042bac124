package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	sgio "github.com/matzehuels/shadergraph/pkg/io"
	"github.com/matzehuels/shadergraph/pkg/pipeline"
)

// graphCommand creates the graph command for drawing a document.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{Format: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "graph [doc.toml|doc.json]",
		Short: "Draw a graph document as a node-link diagram",
		Long: `Draw a graph document as a node-link diagram.

Nodes are labelled with their alias and kind and colored by class; edges are
labelled with the sockets they join. The document must compile.

Formats: svg (default) rendered in-process with Graphviz, or dot for the
Graphviz source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.Format); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "list parameters and literal inputs on nodes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runGraph loads the document and writes the diagram.
func (c *CLI) runGraph(ctx context.Context, stdout io.Writer, input string, opts pipeline.Options, output string, noCache bool) error {
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Loading %s...", filepath.Base(input)))
	spinner.Start()
	defer spinner.Stop()

	doc, err := sgio.Load(input)
	if err != nil {
		spinner.StopWithError("Loading failed")
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Document = doc
	opts.Logger = c.Logger

	spinner.Update(fmt.Sprintf("Rendering %s...", opts.Format))
	data, err := runner.Diagram(ctx, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("graph %s: %w", input, err)
	}
	spinner.Stop()

	if output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.Format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Diagram written")
	printFile(output)
	return nil
}
