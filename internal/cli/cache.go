package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockplan/pkg/cache"
	"github.com/matzehuels/blockplan/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the plan and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached plans and rendered outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}
			store, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			count, err := cache.Clear(cmd.Context(), store)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Backend: %s", c.cacheLocation(store))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory or backend address",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(c.cacheLocation(nil))
			return nil
		},
	}
}

// cacheLocation describes where the configured backend stores entries.
func (c *CLI) cacheLocation(store cache.Cache) string {
	cc := c.Config.Cache
	switch cc.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", cc.RedisAddr, cc.RedisDB)
	case config.BackendMongo:
		if u, err := url.Parse(cc.MongoURI); err == nil {
			return u.Redacted()
		}
		return "mongo"
	case config.BackendNone:
		return "none"
	}
	if fc, ok := store.(*cache.FileCache); ok {
		return fc.Dir()
	}
	if cc.Dir != "" {
		return cc.Dir
	}
	dir, err := cacheDir()
	if err != nil {
		return ""
	}
	return dir
}
