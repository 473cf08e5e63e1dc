package cli

import (
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/backoffice/internal/adapters/web"
	"github.com/example/backoffice/internal/version"
	"github.com/example/backoffice/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the backoffice web server",
	Long: `Start the backoffice web server.

Configuration comes from the optional --config YAML file, overridden by
environment variables (PORT, AHWR_APPLICATION_BACKEND_URL, COOKIE_PASSWORD, ...).
The server stops gracefully on SIGINT or SIGTERM.

Examples:
  backoffice serve
  backoffice serve --config backoffice.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := wire.Config()
		if err != nil {
			return err
		}
		logger := wire.Logger()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := wire.Build(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to start backoffice: %w", err)
		}
		defer application.Close()

		logger.Info("starting backoffice",
			"version", version.String(),
			"port", cfg.Port,
			"cache", cfg.Cache.Backend,
			"auth_enabled", cfg.Auth.Enabled,
			"perf_test_enabled", cfg.Auth.PerfTestEnabled,
		)
		return web.Listen(ctx, web.ListenConfig{
			Address: net.JoinHostPort("", strconv.Itoa(cfg.Port)),
			Handler: application.Handler,
			Logger:  logger,
		})
	},
}

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	return serveCmd
}
