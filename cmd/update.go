package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
	"github.com/ridgeline-data/rtb-cli/internal/forbes"
	"github.com/ridgeline-data/rtb-cli/internal/ingest"
	"github.com/ridgeline-data/rtb-cli/internal/repair"
	"github.com/ridgeline-data/rtb-cli/internal/storage"
)

var updateDryRun bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch today's snapshot and merge it into the archive",
	Long:  "Fetches the current real-time billionaires snapshot, replaces any rows already stored for today, and runs an incremental repair scoped to the people in the snapshot.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		runDate := time.Now().UTC()

		client := forbes.NewClient(cfg.Forbes.URLs,
			forbes.WithUserAgent(cfg.Forbes.UserAgent),
			forbes.WithTimeout(time.Duration(cfg.Forbes.TimeoutSecs)*time.Second),
			forbes.WithMaxRetries(cfg.Forbes.MaxRetries),
			forbes.WithRateLimit(cfg.Forbes.RateLimit),
		)

		records, err := client.Fetch(ctx)
		if err != nil {
			return err
		}
		people, assets := forbes.ToRows(records, runDate)
		touched := ingest.TouchedPeople(people)

		patterns, err := cfg.UnknownPatterns()
		if err != nil {
			return err
		}
		opts := repair.DefaultOptions()
		opts.UnknownPatterns = patterns
		opts.PeopleFilter = touched

		zap.L().Info("update: snapshot fetched",
			zap.Time("runDate", dataset.Date(runDate)),
			zap.Int("people", len(people)),
			zap.Int("assets", len(assets)),
		)

		// The two tables share nothing, so they merge and repair in parallel.
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			return updateBillionaires(people, runDate, opts)
		})
		g.Go(func() error {
			return updateAssets(assets, runDate, opts)
		})
		return g.Wait()
	},
}

func updateBillionaires(incoming []dataset.Billionaire, runDate time.Time, opts repair.Options) error {
	path := cfg.BillionairesPath()

	existing, firstRun, err := loadBillionairesOrEmpty(path)
	if err != nil {
		return err
	}

	merged := ingest.MergeBillionaires(existing, incoming, runDate)
	repaired, err := repair.Billionaires(merged, opts)
	if err != nil {
		return err
	}

	if updateDryRun {
		zap.L().Info("dry run, billionaires not written", zap.Int("rows", len(repaired)))
		return nil
	}
	if !firstRun {
		if _, err := storage.Backup(path, cfg.ResolvedBackupDir()); err != nil {
			return err
		}
	}
	return storage.SaveBillionaires(repaired, path)
}

func updateAssets(incoming []dataset.Asset, runDate time.Time, opts repair.Options) error {
	path := cfg.AssetsPath()

	existing, firstRun, err := loadAssetsOrEmpty(path)
	if err != nil {
		return err
	}

	merged := ingest.MergeAssets(existing, incoming, runDate)
	repaired, err := repair.Assets(merged, opts)
	if err != nil {
		return err
	}

	if updateDryRun {
		zap.L().Info("dry run, assets not written", zap.Int("rows", len(repaired)))
		return nil
	}
	if !firstRun {
		if _, err := storage.Backup(path, cfg.ResolvedBackupDir()); err != nil {
			return err
		}
	}
	return storage.SaveAssets(repaired, path)
}

// loadBillionairesOrEmpty treats a missing file as an empty table; the
// first ever update bootstraps the archive.
func loadBillionairesOrEmpty(path string) ([]dataset.Billionaire, bool, error) {
	rows, err := storage.LoadBillionaires(path)
	if err != nil {
		if eris.Is(err, storage.ErrNotFound) {
			zap.L().Info("update: no existing table, starting fresh", zap.String("path", path))
			return nil, true, nil
		}
		return nil, false, err
	}
	return rows, false, nil
}

func loadAssetsOrEmpty(path string) ([]dataset.Asset, bool, error) {
	rows, err := storage.LoadAssets(path)
	if err != nil {
		if eris.Is(err, storage.ErrNotFound) {
			zap.L().Info("update: no existing table, starting fresh", zap.String("path", path))
			return nil, true, nil
		}
		return nil, false, err
	}
	return rows, false, nil
}

func init() {
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "fetch and repair without writing")
	rootCmd.AddCommand(updateCmd)
}
