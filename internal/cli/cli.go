package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iloginov/tasker/pkg/buildinfo"
	"github.com/iloginov/tasker/pkg/cache"
	"github.com/iloginov/tasker/pkg/config"
	terrors "github.com/iloginov/tasker/pkg/errors"
	"github.com/iloginov/tasker/pkg/observability"
	"github.com/iloginov/tasker/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completion scripts.
const appName = "tasker"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before every command runs; flags override it.
	Config     *config.Config
	ConfigPath string

	configFlag string
	envFiles   []string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "tasker lays out task dependency graphs",
		Long: `tasker computes layered layouts for task dependency graphs: tasks are
ranked so every prerequisite comes before its dependents, ordered to reduce
edge crossings, and placed on a non-overlapping grid.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFlag, "config", "", "config file (default: $TASKER_CONFIG, ./tasker.toml, ~/.config/tasker/config.toml)")
	root.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", nil, "load environment variables from these files (default: .env)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the environment and config file, then attaches the logger to
// the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(c.envFiles...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if c.configFlag != "" {
		cfg, path, err = config.LoadFromPath(c.configFlag)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	c.Config, c.ConfigPath = cfg, path
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetLayoutHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	var cch cache.Cache = cache.NewNullCache()
	if !noCache {
		cch = c.openCache(ctx)
	}
	runner := pipeline.NewRunner(cch, nil, c.Logger)
	runner.TTL = c.Config.Cache.TTL
	return runner
}

// openCache opens the configured backend, falling back to no caching when it
// is unavailable.
func (c *CLI) openCache(ctx context.Context) cache.Cache {
	opts, err := c.Config.CacheOptions()
	if err == nil {
		var cch cache.Cache
		if cch, err = cache.Open(ctx, opts); err == nil {
			return cch
		}
	}
	c.Logger.Warn("cache disabled", "backend", c.Config.Cache.Backend, "err", err)
	return cache.NewNullCache()
}

// =============================================================================
// Options Helpers
// =============================================================================

// addLayoutFlags registers layout and sizing flags bound to opts.
func addLayoutFlags(fs *pflag.FlagSet, opts *pipeline.Options) {
	fs.StringVarP(&opts.Direction, "direction", "d", pipeline.DefaultDirection, "layout direction: TB, LR, BT, RL")
	fs.Float64Var(&opts.NodeSep, "node-sep", pipeline.DefaultNodeSep, "gap between neighbours in a rank")
	fs.Float64Var(&opts.RankSep, "rank-sep", pipeline.DefaultRankSep, "gap between ranks")
	fs.Float64Var(&opts.Margin, "margin", 0, "padding around the drawing")
	fs.StringVar(&opts.Align, "align", pipeline.DefaultAlign, "node alignment within a rank band: center, start")
	fs.StringVar(&opts.RankAlign, "rank-align", pipeline.DefaultRankAlign, "rank assignment: top (sources first), bottom (sinks last)")
	fs.StringVar(&opts.Orderer, "orderer", pipeline.DefaultOrderer, "crossing reduction: barycentric, stable")
	fs.IntVar(&opts.Passes, "passes", pipeline.DefaultPasses, "ordering sweeps")
	fs.StringVar(&opts.Heuristic, "heuristic", pipeline.DefaultHeuristic, "ordering heuristic: median, mean")
	fs.BoolVar(&opts.NoTranspose, "no-transpose", false, "skip adjacent-swap refinement")
	fs.Float64Var(&opts.NodeWidth, "node-width", 0, "width of tasks without an explicit size (default 200)")
	fs.Float64Var(&opts.BaseHeight, "base-height", 0, "height of a task with no description (default 100)")
	fs.Float64Var(&opts.LineHeight, "line-height", 0, "height added per description line (default 20)")
	fs.Float64Var(&opts.MaxHeight, "max-height", 0, "cap on computed task heights (0 = uncapped)")
}

// layoutOptions starts from the configured options and applies every flag
// the user set explicitly.
func (c *CLI) layoutOptions(fs *pflag.FlagSet, flags pipeline.Options) pipeline.Options {
	opts := c.Config.PipelineOptions()
	overrides := map[string]func(){
		"direction":    func() { opts.Direction = flags.Direction },
		"node-sep":     func() { opts.NodeSep = flags.NodeSep },
		"rank-sep":     func() { opts.RankSep = flags.RankSep },
		"margin":       func() { opts.Margin = flags.Margin },
		"align":        func() { opts.Align = flags.Align },
		"rank-align":   func() { opts.RankAlign = flags.RankAlign },
		"orderer":      func() { opts.Orderer = flags.Orderer },
		"passes":       func() { opts.Passes = flags.Passes },
		"heuristic":    func() { opts.Heuristic = flags.Heuristic },
		"no-transpose": func() { opts.NoTranspose = flags.NoTranspose },
		"node-width":   func() { opts.NodeWidth = flags.NodeWidth },
		"base-height":  func() { opts.BaseHeight = flags.BaseHeight },
		"line-height":  func() { opts.LineHeight = flags.LineHeight },
		"max-height":   func() { opts.MaxHeight = flags.MaxHeight },
	}
	for name, apply := range overrides {
		if fs.Changed(name) {
			apply()
		}
	}
	opts.Logger = c.Logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// basePath derives the base output path from the output and input paths.
// A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "graph"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// ErrorMessage formats err for the terminal: coded errors show their user
// message, anything else its full text.
func ErrorMessage(err error) string {
	var coded *terrors.Error
	if errors.As(err, &coded) {
		return "Error: " + terrors.UserMessage(err)
	}
	return "Error: " + err.Error()
}
