package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/latspace/mapping-agent/internal/model"
	"github.com/latspace/mapping-agent/internal/resilience"
)

var (
	batchOutDir  string
	batchOffline bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Parse many spreadsheets in parallel, one result JSON per input",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, err := initEngine(cfg, "batch", batchOffline)
		if err != nil {
			return err
		}

		opts := batchOptions{
			OutDir:      batchOutDir,
			Concurrency: cfg.Batch.Concurrency,
			MaxAttempts: cfg.Batch.MaxAttempts,
			BackoffMs:   cfg.Batch.InitialBackoff,
		}
		return processBatch(ctx, args, opts, engine.Process)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "results", "directory for result JSON files")
	batchCmd.Flags().BoolVar(&batchOffline, "offline", false, "map headers with the exact registry matcher instead of the API")
	rootCmd.AddCommand(batchCmd)
}

// processFunc is the callback signature for parsing one file.
type processFunc func(ctx context.Context, path string) (*model.ParseResult, error)

type batchOptions struct {
	OutDir      string
	Concurrency int
	MaxAttempts int
	BackoffMs   int
}

// processBatch parses paths concurrently, retrying transient failures, and
// writes each result to OutDir. A failed file does not stop the others; the
// returned error reports how many failed.
func processBatch(ctx context.Context, paths []string, opts batchOptions, process processFunc) error {
	if len(paths) == 0 {
		zap.L().Info("no input files")
		return nil
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return eris.Wrapf(err, "batch: create output dir %s", opts.OutDir)
	}

	zap.L().Info("processing batch",
		zap.Int("files", len(paths)),
		zap.Int("concurrency", opts.Concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	var succeeded, failed atomic.Int64
	outputs := outputNames(paths, opts.OutDir)

	for i, path := range paths {
		out := outputs[i]
		g.Go(func() error {
			log := zap.L().With(zap.String("path", path))

			policy := resilience.NewPolicy(opts.MaxAttempts, opts.BackoffMs)
			policy.OnRetry = resilience.LogRetry(path)

			result, err := resilience.Do(gctx, policy, func(ctx context.Context) (*model.ParseResult, error) {
				return process(ctx, path)
			})
			if err != nil {
				failed.Add(1)
				log.Error("parse failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			if err := writeResultFile(out, result); err != nil {
				failed.Add(1)
				log.Error("write result failed", zap.String("output", out), zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("parse complete",
				zap.String("output", out),
				zap.Int("observations", len(result.Observations)),
				zap.Int("unmapped", len(result.UnmappedColumns)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	if n := failed.Load(); n > 0 {
		return eris.Errorf("batch: %d of %d files failed", n, len(paths))
	}
	return nil
}

// outputNames derives one result path per input. Inputs sharing a base
// name get a numeric suffix so results never overwrite each other.
func outputNames(paths []string, dir string) []string {
	used := make(map[string]bool, len(paths))
	names := make([]string, len(paths))
	for i, p := range paths {
		base := filepath.Base(p)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		name := stem
		for n := 1; used[name]; n++ {
			name = stem + "." + strconv.Itoa(n)
		}
		used[name] = true
		names[i] = filepath.Join(dir, name+".json")
	}
	return names
}
