package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/latspace/mapping-agent/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mapping-agent",
	Short: "Plant data ingestion and parameter mapping",
	Long:  "Locates headers in messy plant spreadsheets, maps columns onto the canonical parameter registry, and emits normalized observations.",
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
