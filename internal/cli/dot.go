package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tangle/pkg/graph"
	"github.com/matzehuels/tangle/pkg/pipeline"
)

// dotCommand creates the dot command for drawing the bundle graph.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   layoutFlags
	)
	opts := pipeline.Options{Format: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "dot [document]",
		Short: "Draw the bundle graph of a document",
		Long: `Draw the bundle graph of a document for debugging.

Nodes are grouped into one rank per level; each bundle is a point joining its
parents to its children. Output is Graphviz DOT text by default; svg is
rendered in-process, pdf and png need rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run := c.pipelineOptions()
			run.Format = opts.Format
			run.Detailed = opts.Detailed
			flags.apply(cmd, &run)
			return c.runDOT(cmd.Context(), args[0], output, noCache, run)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format: dot, svg, pdf, png")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodes with id, level and properties")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.<format>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// runDOT loads the document, renders its bundle graph, and writes output.
func (c *CLI) runDOT(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	if err := pipeline.ValidateFormat(opts.Format); err != nil {
		return err
	}
	doc, err := graph.ReadDocumentFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	art, err := runner.DOT(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("render bundle graph: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %s", art.Format))

	if output == stdoutPath {
		_, err := os.Stdout.Write(art.Data)
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = derivePath(input, art.Format)
	}
	if err := os.WriteFile(outputPath, art.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	printSuccess("Bundle graph written")
	printFile(outputPath)
	return nil
}
