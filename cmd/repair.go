package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ridgeline-data/rtb-cli/internal/repair"
	"github.com/ridgeline-data/rtb-cli/internal/report"
	"github.com/ridgeline-data/rtb-cli/internal/storage"
)

var (
	repairDataDir      string
	repairDataset      string
	repairSkipWS       bool
	repairSkipIdentity bool
	repairSkipFill     bool
	repairSkipDedup    bool
	repairDryRun       bool
	repairOutputSuffix string
	repairBackupDir    string
	repairNoBackup     bool
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Run the repair pipeline over the stored tables",
	Long:  "Applies whitespace/sentinel normalization, identity resolution, temporal gap filling and deduplication to the stored tables, in that order.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if repairDataDir != "" {
			cfg.Data.Dir = repairDataDir
		}
		if repairBackupDir != "" {
			cfg.Data.BackupDir = repairBackupDir
		}

		sel, err := parseSelection(repairDataset)
		if err != nil {
			return err
		}

		patterns, err := cfg.UnknownPatterns()
		if err != nil {
			return err
		}
		opts := repair.DefaultOptions()
		opts.UnknownPatterns = patterns
		opts.Stages = stagesFromSkips(repairSkipWS, repairSkipIdentity, repairSkipFill, repairSkipDedup)

		out := cmd.OutOrStdout()
		if sel.billionaires {
			if err := repairBillionaires(out, opts, patterns); err != nil {
				return err
			}
		}
		if sel.assets {
			if err := repairAssets(out, opts, patterns); err != nil {
				return err
			}
		}
		return nil
	},
}

func repairBillionaires(out io.Writer, opts repair.Options, patterns patternSet) error {
	path := cfg.BillionairesPath()
	rows, err := storage.LoadBillionaires(path)
	if err != nil {
		return eris.Wrap(err, "repair billionaires")
	}

	report.CollectBillionaires(rows, patterns).Render(out, "billionaires before")
	repaired, err := repair.Billionaires(rows, opts)
	if err != nil {
		return err
	}
	report.CollectBillionaires(repaired, patterns).Render(out, "billionaires after")

	if repairDryRun {
		zap.L().Info("dry run, billionaires not written", zap.Int("rows", len(repaired)))
		return nil
	}
	if err := backupUnlessDisabled(path); err != nil {
		return err
	}
	return storage.SaveBillionaires(repaired, outputPath(path, repairOutputSuffix))
}

func repairAssets(out io.Writer, opts repair.Options, patterns patternSet) error {
	path := cfg.AssetsPath()
	rows, err := storage.LoadAssets(path)
	if err != nil {
		return eris.Wrap(err, "repair assets")
	}

	report.CollectAssets(rows, patterns).Render(out, "assets before")
	repaired, err := repair.Assets(rows, opts)
	if err != nil {
		return err
	}
	report.CollectAssets(repaired, patterns).Render(out, "assets after")

	if repairDryRun {
		zap.L().Info("dry run, assets not written", zap.Int("rows", len(repaired)))
		return nil
	}
	if err := backupUnlessDisabled(path); err != nil {
		return err
	}
	return storage.SaveAssets(repaired, outputPath(path, repairOutputSuffix))
}

// backupUnlessDisabled snapshots the source file before an in-place
// rewrite. Writing to a suffixed copy leaves the source alone, so no
// backup is taken then either.
func backupUnlessDisabled(path string) error {
	if repairNoBackup || repairOutputSuffix != "" {
		return nil
	}
	_, err := storage.Backup(path, cfg.ResolvedBackupDir())
	return err
}

func init() {
	repairCmd.Flags().StringVar(&repairDataDir, "data-dir", "", "override the configured data directory")
	repairCmd.Flags().StringVar(&repairDataset, "dataset", "both", "dataset to repair: billionaires, assets or both")
	repairCmd.Flags().BoolVar(&repairSkipWS, "skip-0th", false, "skip whitespace/sentinel normalization")
	repairCmd.Flags().BoolVar(&repairSkipIdentity, "skip-1st", false, "skip identity resolution")
	repairCmd.Flags().BoolVar(&repairSkipFill, "skip-2nd", false, "skip temporal gap filling")
	repairCmd.Flags().BoolVar(&repairSkipDedup, "skip-3rd", false, "skip deduplication")
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "report what would change without writing")
	repairCmd.Flags().StringVar(&repairOutputSuffix, "output-suffix", "", "write repaired tables to <stem><suffix>.parquet instead of in place")
	repairCmd.Flags().StringVar(&repairBackupDir, "backup-dir", "", "override the backup directory")
	repairCmd.Flags().BoolVar(&repairNoBackup, "no-backup", false, "skip the pre-write backup")
	rootCmd.AddCommand(repairCmd)
}
