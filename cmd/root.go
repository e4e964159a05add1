package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bikesafety-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bikesafety-cli",
	Short: "Bike-share and crash proximity analysis",
	Long:  "Fetches bike-share station feeds and traffic-crash records, normalizes them, and analyzes how close cyclist crashes happen to stations.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
