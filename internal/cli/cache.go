package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/backoffice/internal/adapters/cli"
	"github.com/example/backoffice/internal/config"
	"github.com/example/backoffice/internal/wire"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the sqlite session cache",
	Long: `Maintain the sqlite cache holding sessions, submission crumbs and the
auth-mode switch. Redis expires entries itself, so these commands only act
when cache.backend is sqlite.`,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired sessions and submission crumbs",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, closer, err := openSQLiteCache(cmd)
		if err != nil || adapter == nil {
			return err
		}
		defer closer.Close()
		return adapter.Purge(cmd.Context())
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count live cache entries per segment",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, closer, err := openSQLiteCache(cmd)
		if err != nil || adapter == nil {
			return err
		}
		defer closer.Close()
		return adapter.Stats(cmd.Context())
	},
}

// openSQLiteCache returns a nil adapter when the configured backend is redis.
func openSQLiteCache(cmd *cobra.Command) (*cliadapter.CacheAdapter, io.Closer, error) {
	cfg, err := wire.Config()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Cache.Backend != config.CacheSQLite {
		fmt.Fprintf(cmd.OutOrStdout(), "Cache backend is %s; nothing to do\n", cfg.Cache.Backend)
		return nil, nil, nil
	}
	return wire.CacheAdapter(cmd.OutOrStdout())
}

// CacheCmd returns the cache command.
func CacheCmd() *cobra.Command {
	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheStatsCmd)

	return cacheCmd
}
