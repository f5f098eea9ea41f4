package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tangle/pkg/cache"
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
		Short: "Remove all cached layouts from a file cache",
		Long: `Remove all cached layouts from a file cache.

Shared caches (Redis, MongoDB) expire entries on their own and are not
cleared by this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := c.resolveCacheSpec(false)
			if cache.Describe(spec) != "file" {
				printWarning("Cache %q is not a directory; nothing to clear", spec)
				return nil
			}

			fc, err := cache.NewFileCache(spec)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := fc.Clear(cmd.Context())
			if err != nil {
				return err
			}

			if count == 0 {
				printInfo("Cache is empty")
			} else {
				printSuccess("Cleared %d cached entries", count)
			}
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the active cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), describeCache(c.resolveCacheSpec(false)))
			return nil
		},
	}
}

// describeCache names a cache spec for display without leaking credentials.
func describeCache(spec string) string {
	switch kind := cache.Describe(spec); kind {
	case "file":
		return spec
	default:
		return kind
	}
}
