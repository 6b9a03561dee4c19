package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/latspace/mapping-agent/internal/samples"
)

var samplesDir string

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Write demonstration plant logs for manual testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := samples.WriteAll(samplesDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	samplesCmd.Flags().StringVar(&samplesDir, "dir", "samples", "output directory")
	rootCmd.AddCommand(samplesCmd)
}
