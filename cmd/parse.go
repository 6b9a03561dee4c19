package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/latspace/mapping-agent/internal/model"
)

var (
	parseOutput  string
	parseOffline bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a single spreadsheet and print the result JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := initEngine(cfg, "parse", parseOffline)
		if err != nil {
			return err
		}

		result, err := engine.Process(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if parseOutput == "" {
			return writeResult(cmd.OutOrStdout(), result)
		}
		if err := writeResultFile(parseOutput, result); err != nil {
			return err
		}
		zap.L().Info("parse: wrote result", zap.String("output", parseOutput))
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "write the result to a file instead of stdout")
	parseCmd.Flags().BoolVar(&parseOffline, "offline", false, "map headers with the exact registry matcher instead of the API")
	rootCmd.AddCommand(parseCmd)
}

// writeResult encodes result as indented JSON.
func writeResult(w io.Writer, result *model.ParseResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return eris.Wrap(err, "encode result")
	}
	return nil
}

func writeResultFile(path string, result *model.ParseResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := writeResult(f, result); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "close %s", path)
	}
	return nil
}
