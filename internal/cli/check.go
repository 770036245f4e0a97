package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	terrors "github.com/iloginov/tasker/pkg/errors"
	"github.com/iloginov/tasker/pkg/pipeline"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var edges []string

	cmd := &cobra.Command{
		Use:   "check <graph.json|graph.yaml>",
		Short: "Validate a graph or test new dependencies for cycles",
		Long: `Validate a graph or test new dependencies for cycles.

Without --edge, check reports whether the graph is a valid acyclic dependency
graph. Each --edge from:to asks whether adding "from must finish before to"
keeps it acyclic; a rejected dependency prints the cycle it would close.
Edges are checked independently against the graph as given.`,
		Example: `  tasker check roadmap.yaml
  tasker check roadmap.yaml --edge launch:design --edge qa:launch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], edges)
		},
	}

	cmd.Flags().StringArrayVarP(&edges, "edge", "e", nil, "proposed dependency as from:to (repeatable)")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, stdin io.Reader, out io.Writer, input string, edges []string) error {
	doc, err := readGraph(stdin, input)
	if err != nil {
		return err
	}
	runner := c.newRunner(ctx, true)

	if len(edges) == 0 {
		opts := c.Config.PipelineOptions()
		opts.Orderer = pipeline.OrdererStable
		result, err := runner.LayoutWithCacheInfo(ctx, doc, opts)
		if err != nil {
			printError(out, "%s is not a valid dependency graph", input)
			printCycle(out, terrors.CycleNodes(err))
			return err
		}
		printSuccess(out, "%s is a valid dependency graph", input)
		printStats(out, result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.RankCount, false)
		return nil
	}

	rejected, cycles := 0, 0
	for _, arg := range edges {
		from, to, err := parseEdge(arg)
		if err != nil {
			return err
		}
		err = runner.CheckDependency(ctx, doc, from, to)
		switch {
		case err == nil:
			printSuccess(out, "%s %s %s can be added", from, iconArrow, to)
		case terrors.Is(err, terrors.ErrCodeCycleDetected):
			rejected++
			cycles++
			printError(out, "%s %s %s would create a cycle", from, iconArrow, to)
			printCycle(out, terrors.CycleNodes(err))
		case terrors.Is(err, terrors.ErrCodeInvalidGraph):
			rejected++
			printError(out, "%s %s %s is invalid: %s", from, iconArrow, to, terrors.UserMessage(err))
		default:
			return err
		}
	}
	if rejected > 0 {
		code := terrors.ErrCodeInvalidGraph
		if cycles > 0 {
			code = terrors.ErrCodeCycleDetected
		}
		return terrors.New(code, "%d of %d dependencies rejected", rejected, len(edges))
	}
	return nil
}

// parseEdge splits "from:to" at the first colon.
func parseEdge(s string) (from, to string, err error) {
	from, to, ok := strings.Cut(s, ":")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !ok || from == "" || to == "" {
		return "", "", terrors.New(terrors.ErrCodeInvalidInput, "invalid edge %q (want from:to)", s)
	}
	return from, to, nil
}
