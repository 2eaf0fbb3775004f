package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/caremesh/caremesh-cli/internal/engine"
	"github.com/caremesh/caremesh-cli/internal/ingest"
	"github.com/caremesh/caremesh-cli/internal/model"
	"github.com/caremesh/caremesh-cli/internal/store"
)

var (
	optFacilities  string
	optRegions     string
	optOut         string
	optLabel       string
	optSave        bool
	optInputDir    string
	optConcurrency int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run network optimization over a facility dataset",
	Long:  "Reads geocoded facility and region CSVs, builds the proximity graph, and reports hubs, coverage gaps, and recommendations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if optInputDir != "" {
			return optimizeBatch(ctx, optInputDir, optConcurrency)
		}

		if optFacilities == "" {
			return eris.New("--facilities is required (or use --input-dir)")
		}

		eng, err := initEngine()
		if err != nil {
			return err
		}

		result, fc, rc, err := optimizeOne(eng, optFacilities, optRegions)
		if err != nil {
			return err
		}

		if optSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run, err := st.CreateRun(ctx, optLabel, fc, rc)
			if err != nil {
				return err
			}
			if err := st.CompleteRun(ctx, run.ID, result); err != nil {
				return err
			}
			zap.L().Info("run saved", zap.String("run_id", run.ID))
		}

		if optOut != "" {
			if err := writeResult(result, optOut); err != nil {
				return err
			}
		}

		printSummary(result)
		return nil
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&optFacilities, "facilities", "", "facility CSV path")
	optimizeCmd.Flags().StringVar(&optRegions, "regions", "", "region summary CSV path (optional)")
	optimizeCmd.Flags().StringVar(&optOut, "out", "", "write full result JSON to this path")
	optimizeCmd.Flags().StringVar(&optLabel, "label", "", "label for the saved run")
	optimizeCmd.Flags().BoolVar(&optSave, "save", false, "persist the run to the store")
	optimizeCmd.Flags().StringVar(&optInputDir, "input-dir", "", "batch mode: directory of datasets, one subdirectory each")
	optimizeCmd.Flags().IntVar(&optConcurrency, "concurrency", 4, "max concurrent datasets in batch mode")
	rootCmd.AddCommand(optimizeCmd)
}

// optimizeOne runs a single dataset through the engine and returns the
// result plus input counts for run bookkeeping.
func optimizeOne(eng *engine.Engine, facilitiesPath, regionsPath string) (*model.OptimizationResult, int, int, error) {
	facilities, err := ingest.ReadFacilities(facilitiesPath)
	if err != nil {
		return nil, 0, 0, err
	}

	var regions []model.RegionSummary
	if regionsPath != "" {
		regions, err = ingest.ReadRegions(regionsPath)
		if err != nil {
			return nil, 0, 0, err
		}
	}

	zap.L().Info("optimizing network",
		zap.Int("facilities", len(facilities)),
		zap.Int("regions", len(regions)),
	)

	return eng.Optimize(facilities, regions), len(facilities), len(regions), nil
}

// optimizeBatch processes every dataset subdirectory under dir
// concurrently. Each subdirectory must contain facilities.csv and may
// contain regions.csv; the result lands next to them as result.json.
// Individual dataset failures are logged and do not abort the batch.
func optimizeBatch(ctx context.Context, dir string, concurrency int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return eris.Wrap(err, "read input dir")
	}

	eng, err := initEngine()
	if err != nil {
		return err
	}

	var st store.Store
	if optSave {
		st, err = initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dataset := filepath.Join(dir, entry.Name())
		label := entry.Name()

		g.Go(func() error {
			log := zap.L().With(zap.String("dataset", label))

			regionsPath := filepath.Join(dataset, "regions.csv")
			if _, err := os.Stat(regionsPath); err != nil {
				regionsPath = ""
			}

			result, fc, rc, err := optimizeOne(eng, filepath.Join(dataset, "facilities.csv"), regionsPath)
			if err != nil {
				failed.Add(1)
				log.Error("dataset failed", zap.Error(err))
				return nil // keep processing the rest
			}

			if st != nil {
				if err := saveRun(gctx, st, label, fc, rc, result); err != nil {
					failed.Add(1)
					log.Error("save failed", zap.Error(err))
					return nil
				}
			}

			if err := writeResult(result, filepath.Join(dataset, "result.json")); err != nil {
				failed.Add(1)
				log.Error("write failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("dataset complete",
				zap.Int("nodes", result.Metrics.TotalNodes),
				zap.Int("gaps", result.Metrics.GapCount),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch optimize")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

func saveRun(ctx context.Context, st store.Store, label string, fc, rc int, result *model.OptimizationResult) error {
	run, err := st.CreateRun(ctx, label, fc, rc)
	if err != nil {
		return err
	}
	return st.CompleteRun(ctx, run.ID, result)
}

// printSummary writes the headline numbers to stdout. Population figures
// get thousands separators; everything else prints as computed.
func printSummary(result *model.OptimizationResult) {
	p := message.NewPrinter(language.English)
	m := result.Metrics

	p.Printf("Facilities:         %d\n", m.TotalNodes)
	p.Printf("Connections:        %d\n", m.TotalEdges)
	p.Printf("Avg response time:  %.1f min\n", m.AvgResponseTimeMin)
	p.Printf("Coverage:           %.1f%%\n", m.CoveragePercent)
	p.Printf("Network efficiency: %.2f%%\n", m.NetworkEfficiency)
	p.Printf("Coverage gaps:      %d\n", m.GapCount)
	p.Printf("Pareto score:       %d\n", m.ParetoScore)

	if len(result.Insights.HubLocations) > 0 {
		p.Printf("\nTop hubs:\n")
		for i, h := range result.Insights.HubLocations {
			p.Printf("  %d. %s (%s): score %.2f, serves ~%d people\n",
				i+1, h.Name, h.Region, h.Score, h.PopulationServed)
		}
	}

	if len(result.Gaps) > 0 {
		p.Printf("\nCoverage gaps:\n")
		for _, g := range result.Gaps {
			p.Printf("  %s: %.1f min avg travel, ~%d people, action: %s\n",
				g.Region, g.AvgTravelTimeMin, g.EstimatedPopulation, g.RecommendedAction)
		}
	}
}
