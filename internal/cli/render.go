package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reasongraph/pkg/graph"
	"github.com/matzehuels/reasongraph/pkg/pipeline"
	"github.com/matzehuels/reasongraph/pkg/render"
)

// defaultSeed is the jiggle seed used unless --seed is given.
const defaultSeed = 42

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string
	engine   string
	formats  []string
	labels   bool
	strict   bool
	width    float64
	height   float64
	seed     uint64
	maxTicks int
	scale    float64
	noCache  bool
	refresh  bool
	heading  string
	caption  string
	titled   bool
}

// renderCommand creates the render command for generating static drawings.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		engine: pipeline.EngineForce,
		seed:   defaultSeed,
		scale:  pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Lay out a graph and write SVG, PNG, PDF, DOT or JSON",
		Long: `Render runs the layout to rest and writes the drawing.

Without an argument the built-in seed graph is rendered. Use "-" to read the
graph from standard input. Links whose endpoints are unknown are skipped
unless --strict is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if err := pipeline.ValidateEngine(opts.engine); err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, cmd.InOrStdin(), &opts)
		},
	}

	cfg := c.config
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.engine, "engine", "e", opts.engine, "layout engine: force, graphviz")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "print node ids next to nodes (graphviz)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject graphs with unknown link endpoints")
	cmd.Flags().Float64Var(&opts.width, "width", 0, fmt.Sprintf("canvas width (default %v)", cfg.Canvas.Width))
	cmd.Flags().Float64Var(&opts.height, "height", 0, fmt.Sprintf("canvas height (default %v)", cfg.Canvas.Height))
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "seed for the jiggle that separates coincident nodes")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", pipeline.DefaultMaxTicks, "upper bound on simulation steps")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().StringVar(&opts.heading, "heading", "", "heading drawn above the graph")
	cmd.Flags().StringVar(&opts.caption, "caption", "", "caption drawn below the graph")
	cmd.Flags().BoolVar(&opts.titled, "titled", false, "use the page heading and caption unless set explicitly")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, stdin io.Reader, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, err := loadGraph(input, stdin, opts.strict)
	if err != nil {
		return err
	}
	logger.Debug("loaded graph", "source", sourceName(input), "nodes", g.NodeCount(), "links", g.LinkCount())

	fopts := c.config.ForceOptions()
	if opts.width > 0 {
		fopts.Width = opts.width
	}
	if opts.height > 0 {
		fopts.Height = opts.height
	}

	heading, caption := opts.heading, opts.caption
	if opts.titled {
		if heading == "" {
			heading = render.DefaultHeading
		}
		if caption == "" {
			caption = render.DefaultCaption
		}
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering "+sourceName(input)+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, g, pipeline.Options{
		Engine:   opts.engine,
		Formats:  opts.formats,
		Force:    fopts,
		Seed:     opts.seed,
		MaxTicks: opts.maxTicks,
		Labels:   opts.labels,
		Scale:    opts.scale,
		TTL:      c.config.Cache.TTL.Duration,
		Refresh:  opts.refresh,
		Heading:  heading,
		Caption:  caption,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	var written []string
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	prog.done(fmt.Sprintf("Rendered %s", sourceName(input)))
	printSuccess(c.Out, "Rendered %s", sourceName(input))
	printStats(c.Out, result.Stats.NodeCount, result.Stats.LinkCount, result.CacheInfo.RenderHit)
	if result.Stats.SkippedLinks > 0 {
		printWarning(c.Out, "Skipped %d link(s) with unknown endpoints", result.Stats.SkippedLinks)
	}
	for _, p := range written {
		printFile(c.Out, p)
	}
	return nil
}

// loadGraph reads the graph named by input: the seed when empty, standard
// input for "-", otherwise a JSON file.
func loadGraph(input string, stdin io.Reader, strict bool) (*graph.Graph, error) {
	var (
		data []byte
		err  error
	)
	switch input {
	case "":
		return graph.Seed(), nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sourceName(input), err)
	}
	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		return nil, err
	}
	if strict {
		if err := graph.Validate(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func sourceName(input string) string {
	switch input {
	case "":
		return "seed graph"
	case "-":
		return "stdin"
	default:
		return input
	}
}

// basePath derives the output path without extension. The seed and stdin
// render to "reasongraph" in the working directory.
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input == "" || input == "-" {
		return appName
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
