package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/iloginov/tasker/pkg/graph"
	"github.com/iloginov/tasker/pkg/pipeline"
)

type layoutFlags struct {
	output   string
	formats  string
	noCache  bool
	refresh  bool
	detailed bool
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags layoutFlags
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout <graph.json|graph.yaml>",
		Short: "Compute a layout for a task dependency graph",
		Long: `Compute a layout for a task dependency graph.

The graph file holds either generic nodes and edges or tasks and dependencies
(JSON or YAML, chosen by extension; "-" reads JSON from stdin). The layout is
written as JSON by default; DOT and SVG previews pin every node at its
computed position.

Results are cached, so laying out an unchanged graph again is instant.`,
		Example: `  tasker layout roadmap.yaml
  tasker layout roadmap.yaml -d LR --format json,svg -o out/roadmap
  cat roadmap.json | tasker layout - -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := c.layoutOptions(cmd.Flags(), opts)
			o.Formats = parseFormats(flags.formats)
			o.Refresh = flags.refresh
			o.Detailed = flags.detailed
			if err := o.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], o, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", `output file or base path ("-" for stdout; default: <input>.layout.<ext>)`)
	cmd.Flags().StringVarP(&flags.formats, "format", "f", pipeline.FormatJSON, "output format(s): json, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even if a cached layout exists")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show rank and order in DOT/SVG labels")
	addLayoutFlags(cmd.Flags(), &opts)

	return cmd
}

// runLayout loads the graph, computes the layout and writes each format.
func (c *CLI) runLayout(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, input string, opts pipeline.Options, flags layoutFlags) error {
	toStdout := flags.output == "-"
	if toStdout && len(opts.Formats) > 1 {
		return fmt.Errorf("--output - needs exactly one format, got %d", len(opts.Formats))
	}
	status := stdout
	if toStdout {
		status = stderr
	}

	doc, err := readGraph(stdin, input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, stderr, "Computing layout...")
	spinner.Start()
	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	prog.done("Laid out " + input)

	if toStdout {
		_, err := stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	base := basePath(flags.output, input)
	printSuccess(status, "Layout complete")
	for _, format := range opts.Formats {
		path := outputPath(base, flags.output, format, len(opts.Formats))
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(status, path)
	}
	printStats(status, result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.RankCount, result.CacheInfo.LayoutHit)
	if input != "-" {
		printNextStep(status, "Browse", appName+" inspect "+input)
	}
	return nil
}

// outputPath names the file for one format. A single format written to an
// explicit output keeps that exact name.
func outputPath(base, output, format string, formatCount int) string {
	if output != "" && formatCount == 1 && basePath(output, "") != output {
		return output
	}
	if output == "" {
		return base + ".layout." + format
	}
	return base + "." + format
}

// readGraph reads a graph file, or JSON from stdin when path is "-".
func readGraph(stdin io.Reader, path string) (*graph.Document, error) {
	if path == "-" {
		return graph.Read(stdin, graph.FormatJSON)
	}
	return graph.ReadFile(path)
}
