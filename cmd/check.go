package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ridgeline-data/rtb-cli/internal/report"
	"github.com/ridgeline-data/rtb-cli/internal/storage"
)

var (
	checkDataDir string
	checkDataset string
	checkStrict  bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report data-quality issues without modifying anything",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if checkDataDir != "" {
			cfg.Data.Dir = checkDataDir
		}

		sel, err := parseSelection(checkDataset)
		if err != nil {
			return err
		}
		patterns, err := cfg.UnknownPatterns()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		clean := true

		if sel.billionaires {
			rows, err := storage.LoadBillionaires(cfg.BillionairesPath())
			if err != nil {
				return eris.Wrap(err, "check billionaires")
			}
			stats := report.CollectBillionaires(rows, patterns)
			stats.Render(out, "billionaires")
			clean = clean && stats.Clean()
		}
		if sel.assets {
			rows, err := storage.LoadAssets(cfg.AssetsPath())
			if err != nil {
				return eris.Wrap(err, "check assets")
			}
			stats := report.CollectAssets(rows, patterns)
			stats.Render(out, "assets")
			clean = clean && stats.Clean()
		}

		if checkStrict && !clean {
			return eris.New("check: data-quality issues found")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkDataDir, "data-dir", "", "override the configured data directory")
	checkCmd.Flags().StringVar(&checkDataset, "dataset", "both", "dataset to check: billionaires, assets or both")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit non-zero when issues are found")
	rootCmd.AddCommand(checkCmd)
}
