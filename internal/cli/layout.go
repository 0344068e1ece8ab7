package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/config"
	"github.com/matzehuels/stacklayout/pkg/document"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// layoutFlags holds the raw flag values of the layout command.
type layoutFlags struct {
	output    string
	prior     string
	algorithm string
	seed      uint64
	curved    bool
	curvature float64
	refresh   bool
	noCache   bool
	pick      bool
}

// layoutCommand creates the layout command for computing graph layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [graph-file]",
		Short: "Compute vertex coordinates and edge paths for a graph",
		Long: `Compute vertex coordinates and edge paths for a graph.

The layout command reads a graph document (.json, .yaml or .toml) and writes a
layout document next to it (graph.layout.json) unless -o is given.

Settings are layered: config file, then the document's algorithm block, then
flags. A previous layout passed with --prior pins the vertices it shares with
the graph.

Results are cached; --refresh recomputes and --no-cache skips the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd, f)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if a cached layout exists")

	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", "layout algorithm: fr (default), eades, buchheim, graphviz, random")
	cmd.Flags().BoolVar(&f.pick, "pick", false, "choose the algorithm interactively")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for initial positions")
	cmd.Flags().BoolVar(&f.curved, "curved", false, "draw edges as quadratic curves")
	cmd.Flags().Float64Var(&f.curvature, "curvature", 0, "control point offset for curved edges")
	cmd.Flags().StringVar(&f.prior, "prior", "", "layout document whose positions are kept")

	_ = cmd.RegisterFlagCompletionFunc("algorithm", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return algorithmNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// layoutOptions converts the flags that were actually set into overrides.
func (c *CLI) layoutOptions(cmd *cobra.Command, f layoutFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		Algorithm: f.algorithm,
		Refresh:   f.refresh,
		Logger:    c.Logger,
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		opts.Seed = &f.seed
	}
	if flags.Changed("curved") {
		opts.Curved = &f.curved
	}
	if flags.Changed("curvature") {
		opts.Curvature = &f.curvature
	}

	if f.pick {
		cfg, err := c.config()
		if err != nil {
			return opts, err
		}
		current := cfg.Layout.Algorithm
		if opts.Algorithm != "" {
			current = opts.Algorithm
		}
		name, err := pickAlgorithm(current)
		if err != nil {
			return opts, fmt.Errorf("algorithm picker: %w", err)
		}
		if name == "" {
			return opts, context.Canceled
		}
		opts.Algorithm = name
	}

	if f.prior != "" {
		prior, err := document.ReadLayoutFile(f.prior)
		if err != nil {
			return opts, err
		}
		opts.Prior = prior
	}
	return opts, nil
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, f layoutFlags) error {
	g, err := document.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, c.Err, "Computing layout...")
	spinner.Start()

	res, err := runner.Layout(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := f.output
	if outputPath == "" {
		outputPath = document.OutputPath(input)
	}
	if err := document.WriteLayoutFile(res.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess(c.Out, "Layout complete")
	printFile(c.Out, outputPath)
	printStats(c.Out, res.Layout.Algorithm, res.Stats.Vertices, res.Stats.Edges, res.CacheHit)
	if res.Layout.Loops > 0 {
		printWarning(c.Out, "%d self-loop edges left as zero-length paths", res.Layout.Loops)
	}
	printNextStep(c.Out, "Reuse as prior", appName+" layout --prior "+outputPath+" "+input)

	return nil
}

// algorithmNames lists canonical names for shell completion.
func algorithmNames() []string {
	return append([]string(nil), config.Algorithms...)
}
