package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/backoffice/internal/cli"
	"github.com/example/backoffice/internal/version"
	"github.com/example/backoffice/internal/wire"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "backoffice",
		Short:   "AHWR backoffice - claim and agreement review for caseworkers",
		Version: version.String(),
		Long: `backoffice serves the caseworker web application for reviewing animal
health and welfare claims and agreements, and offers tools to inspect the
status workflow and maintain the session cache.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.SetConfigPath(configPath)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("BACKOFFICE_CONFIG"), "Path to a YAML config file")

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.ViewStateCmd())
	rootCmd.AddCommand(cli.TransitionsCmd())
	rootCmd.AddCommand(cli.CacheCmd())
	rootCmd.AddCommand(cli.VersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
