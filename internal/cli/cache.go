package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iloginov/tasker/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			opts, err := c.Config.CacheOptions()
			if err != nil {
				return err
			}
			cch, err := cache.Open(ctx, opts)
			if err != nil {
				return fmt.Errorf("open %s cache: %w", opts.Backend, err)
			}
			defer cch.Close()

			clearer, ok := cch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", opts.Backend)
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			if count == 0 {
				printInfo(out, "Cache is empty")
				return nil
			}
			printSuccess(out, "Cleared %d cached entries", count)
			printDetail(out, "Location: %s", cacheLocation(opts))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.Config.CacheOptions()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.Backend == cache.BackendFile {
				fmt.Fprintln(out, opts.Dir)
				return nil
			}
			printKeyValue(out, "Backend", string(opts.Backend))
			printKeyValue(out, "Location", cacheLocation(opts))
			return nil
		},
	}
}

// cacheLocation describes where a backend stores entries.
func cacheLocation(opts cache.Options) string {
	switch opts.Backend {
	case cache.BackendFile:
		return opts.Dir
	case cache.BackendRedis:
		return opts.RedisURL + " (prefix " + opts.RedisPrefix + ")"
	case cache.BackendMongo:
		return opts.MongoURI + " (" + opts.MongoDatabase + "." + opts.MongoCollection + ")"
	default:
		return "none"
	}
}
