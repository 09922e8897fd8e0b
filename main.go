package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-authgate/eventgate/internal/bootstrap"
	"github.com/go-authgate/eventgate/internal/config"
	"github.com/go-authgate/eventgate/internal/logging"
	"github.com/go-authgate/eventgate/internal/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eventgate",
	Short: "Event listings with local accounts",
	Long: `EventGate serves public event pages, account sign-up and login,
password recovery by email, and an account area for organisers.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		logging.Setup(os.Stderr, cfg.IsProduction, cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return bootstrap.Run(ctx, cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		version.Print(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.AddCommand(serverCmd, versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
