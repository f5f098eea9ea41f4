package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tangle/pkg/graph"
	"github.com/matzehuels/tangle/pkg/pipeline"
)

// stdoutPath selects standard output for -o.
const stdoutPath = "-"

// layoutFlags are the geometry and key overrides shared by layout and dot.
type layoutFlags struct {
	nodeWidth   float64
	nodeSpacing float64
	linkRadius  float64
	bundleWidth float64

	entityKey string
	sourceKey string
	targetKey string
	relKey    string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.nodeWidth, "node-width", 0, "node width in pixels")
	cmd.Flags().Float64Var(&f.nodeSpacing, "node-spacing", 0, "vertical space per node")
	cmd.Flags().Float64Var(&f.linkRadius, "link-radius", 0, "link corner radius")
	cmd.Flags().Float64Var(&f.bundleWidth, "bundle-width", 0, "horizontal space per bundle")
	cmd.Flags().StringVar(&f.entityKey, "id-key", "", "entity id property (default \"id\")")
	cmd.Flags().StringVar(&f.sourceKey, "source-key", "", "relationship source property (default \"source\")")
	cmd.Flags().StringVar(&f.targetKey, "target-key", "", "relationship target property (default \"target\")")
	cmd.Flags().StringVar(&f.relKey, "relationship-key", "", "relationship id property (default \"id\")")
}

// apply overrides opts with the flags the user set.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("node-width") {
		opts.Config.NodeWidth = f.nodeWidth
	}
	if changed("node-spacing") {
		opts.Config.NodeSpacing = f.nodeSpacing
	}
	if changed("link-radius") {
		opts.Config.LinkRadius = f.linkRadius
	}
	if changed("bundle-width") {
		opts.Config.BundleWidth = f.bundleWidth
	}
	if f.entityKey != "" {
		opts.Keys.EntityID = f.entityKey
	}
	if f.sourceKey != "" {
		opts.Keys.Source = f.sourceKey
	}
	if f.targetKey != "" {
		opts.Keys.Target = f.targetKey
	}
	if f.relKey != "" {
		opts.Keys.RelationshipID = f.relKey
	}
}

// layoutCommand creates the layout command for computing payloads.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [document]",
		Short: "Compute the tangled-tree layout of a document",
		Long: `Compute the tangled-tree layout of a document.

The input lists entities and relationships as JSON, YAML or TOML (chosen by
file extension). The output is the layout payload: node positions, bundles
with their links, and the rendering constants.

Results are cached; use --refresh to recompute or --no-cache to bypass.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			opts.Refresh = refresh
			flags.apply(cmd, &opts)
			return c.runLayout(cmd.Context(), args[0], output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	flags.register(cmd)

	return cmd
}

// runLayout loads the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	doc, err := graph.ReadDocumentFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, "Computing layout...")
	spinner.Start()

	result, err := runner.Layout(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if output == stdoutPath {
		_, err := os.Stdout.Write(append(result.Payload, '\n'))
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = derivePath(input, "layout.json")
	}
	if err := graph.WritePayloadFile(result.Payload, outputPath); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats, result.CacheHit)
	printNewline()
	printNextStep("Inspect bundles", appName+" dot -f svg "+input)

	return nil
}

// derivePath replaces the extension of input with ext.
func derivePath(input, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + ext
}
