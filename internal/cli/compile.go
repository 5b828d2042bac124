package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	sgio "github.com/matzehuels/shadergraph/pkg/io"
	"github.com/matzehuels/shadergraph/pkg/pipeline"
)

// compileCommand creates the compile command for turning a document into GLSL.
func (c *CLI) compileCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "compile [doc.toml|doc.json]",
		Short: "Compile a graph document to a GLSL fragment shader",
		Long: `Compile a graph document to a GLSL fragment shader.

The document is replayed node by node and link by link, so a link that would
create a cycle or join two incompatible sockets is reported with the alias
and socket it names. Only nodes that feed the output node are emitted.

Without -o the shader is written to stdout. Results are cached locally,
keyed by the document content and the uniform declarations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.Uniforms) == 0 {
				opts.Uniforms = c.Config.Uniforms
			}
			return c.runCompile(cmd.Context(), cmd.OutOrStdout(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompile even when cached")
	cmd.Flags().StringArrayVarP(&opts.Uniforms, "uniform", "u", nil, `uniform declaration, repeatable (e.g. -u "float uTime")`)

	return cmd
}

// runCompile loads the document, compiles it and writes the source.
func (c *CLI) runCompile(ctx context.Context, stdout io.Writer, input string, opts pipeline.Options, output string, noCache bool) error {
	prog := newProgress(loggerFromContext(ctx))

	doc, err := sgio.Load(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Document = doc
	opts.Logger = c.Logger
	res, err := runner.Compile(ctx, opts)
	if err != nil {
		return fmt.Errorf("compile %s: %w", input, err)
	}

	if output == "" {
		_, err := io.WriteString(stdout, res.Source)
		return err
	}
	if err := os.WriteFile(output, []byte(res.Source), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	prog.done("Compiled "+input, "nodes", res.Stats.Nodes, "cached", res.Cached)
	printSuccess("Shader written")
	printFile(output)
	printStats(res.Stats.Nodes, res.Stats.Definitions, res.Cached)
	printNextStep("Draw the graph", fmt.Sprintf("%s graph %s", appName, input))
	return nil
}
