package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/iloginov/tasker/pkg/graph"
	"github.com/iloginov/tasker/pkg/pipeline"
)

// layoutFileSuffix marks files written by "tasker layout" in JSON format.
const layoutFileSuffix = ".layout.json"

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain bool
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "inspect <graph.json|graph.yaml|graph.layout.json>",
		Short: "Browse a layout rank by rank",
		Long: `Browse a layout rank by rank.

The input is either a graph file, which is laid out first, or a layout
previously written by "tasker layout". On a terminal an interactive browser
opens; otherwise (or with --plain) every rank is printed as a table.`,
		Example: `  tasker inspect roadmap.yaml
  tasker inspect roadmap.layout.json --plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := c.layoutOptions(cmd.Flags(), opts)
			if err := o.ValidateAndSetDefaults(); err != nil {
				return err
			}
			doc, err := c.loadLayout(cmd.Context(), cmd.InOrStdin(), args[0], o)
			if err != nil {
				return err
			}

			title := filepath.Base(args[0])
			out := cmd.OutOrStdout()
			if plain || !isTerminal(out) {
				return printRanks(out, title, doc)
			}
			_, err = tea.NewProgram(NewRankBrowserModel(title, doc),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(out),
			).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print ranks as tables instead of the interactive browser")
	addLayoutFlags(cmd.Flags(), &opts)

	return cmd
}

// loadLayout reads a layout file, or lays out a graph file through the cache.
func (c *CLI) loadLayout(ctx context.Context, stdin io.Reader, path string, opts pipeline.Options) (graph.LayoutDoc, error) {
	if strings.HasSuffix(path, layoutFileSuffix) {
		data, err := os.ReadFile(path)
		if err != nil {
			return graph.LayoutDoc{}, err
		}
		doc, err := graph.UnmarshalLayout(data)
		if err != nil {
			return graph.LayoutDoc{}, fmt.Errorf("%s: %w", path, err)
		}
		return doc, nil
	}

	in, err := readGraph(stdin, path)
	if err != nil {
		return graph.LayoutDoc{}, err
	}
	runner := c.newRunner(ctx, false)
	defer runner.Close()

	result, err := runner.LayoutWithCacheInfo(ctx, in, opts)
	if err != nil {
		return graph.LayoutDoc{}, err
	}
	return graph.Export(result.Layout, result.GraphHash, result.Labels), nil
}

// printRanks writes every rank of doc as a table.
func printRanks(w io.Writer, title string, doc graph.LayoutDoc) error {
	fmt.Fprintln(w, StyleTitle.Render(title))
	fmt.Fprintf(w, "%s %gx%g, direction %s\n", StyleDim.Render("size"), doc.Width, doc.Height, doc.Direction)

	for i, blocks := range groupByRank(doc) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Rank %d\n", i)
		if _, err := fmt.Fprintln(w, rankTable(blocks, -1).Render()); err != nil {
			return err
		}
	}
	return nil
}
