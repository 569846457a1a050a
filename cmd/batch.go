package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/elgrid-dk/calc-cli/internal/engine"
)

var batchOutputDir string

var batchCmd = &cobra.Command{
	Use:   "batch <project-file>...",
	Short: "Calculate several projects concurrently",
	Long:  "Runs the full estimate for each given project file and writes one JSON result per input next to it (or into --out-dir). Files are processed concurrently up to the configured limit; a failing file does not stop the rest.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		eng := buildEngine(ctx)

		var succeeded, failed atomic.Int64
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrentProjects)

		for _, path := range args {
			path := path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				if err := processProjectFile(eng, path); err != nil {
					failed.Add(1)
					zap.L().Error("project failed", zap.String("file", path), zap.Error(err))
					return nil
				}
				succeeded.Add(1)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch interrupted")
		}

		zap.L().Info("batch complete",
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
		)
		if failed.Load() > 0 {
			return eris.Errorf("batch: %d of %d projects failed", failed.Load(), len(args))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchOutputDir, "out-dir", "", "directory for result files (default: next to each input)")
	rootCmd.AddCommand(batchCmd)
}

func processProjectFile(eng *engine.Engine, path string) error {
	input, err := readProjectInput(path)
	if err != nil {
		return err
	}

	estimate := eng.CalculateProject(input)

	out := resultPath(path)
	raw, err := json.MarshalIndent(estimate, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "encode result for %s", path)
	}
	if err := os.WriteFile(out, raw, 0644); err != nil {
		return eris.Wrapf(err, "write result %s", out)
	}

	zap.L().Info("project calculated",
		zap.String("file", path),
		zap.String("result", out),
		zap.Float64("final_amount", estimate.Price.FinalAmount),
	)
	return nil
}

// resultPath derives the output file for one input: villa.yaml becomes
// villa.estimate.json, in --out-dir when set.
func resultPath(input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".estimate.json"
	if batchOutputDir != "" {
		return filepath.Join(batchOutputDir, base)
	}
	return filepath.Join(filepath.Dir(input), base)
}
