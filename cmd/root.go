// Package cmd holds the boleteria command line: the HTTP server plus a few
// maintenance commands that share its configuration.
package cmd

import (
	"fmt"
	"os"

	"boleteria/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "boleteria",
	Short:         "Ticket sales back end",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := godotenv.Load()
		cfg = config.LoadConfig()

		z, err := NewLogger(cfg)
		if err != nil {
			return err
		}
		logger = z
		if envErr != nil {
			logger.Info("no .env file found, using environment variables")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, userCmd, seedCmd)
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewLogger returns a development logger unless running in production.
func NewLogger(c *config.Config) (*zap.Logger, error) {
	if c.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
