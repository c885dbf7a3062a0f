// Package ingest merges freshly fetched snapshot rows into the existing
// tables. Re-running a fetch on the same day replaces that day's rows
// instead of stacking duplicates.
package ingest

import (
	"time"

	"go.uber.org/zap"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

// MergeBillionaires drops existing rows stamped with runDate and appends the
// incoming snapshot. Neither input slice is mutated.
func MergeBillionaires(existing, incoming []dataset.Billionaire, runDate time.Time) []dataset.Billionaire {
	date := dataset.Date(runDate)

	merged := make([]dataset.Billionaire, 0, len(existing)+len(incoming))
	dropped := 0
	for _, row := range existing {
		if row.Date.Equal(date) {
			dropped++
			continue
		}
		merged = append(merged, row)
	}
	merged = append(merged, incoming...)

	if dropped > 0 {
		zap.L().Info("ingest: replaced same-day billionaire rows",
			zap.Time("date", date),
			zap.Int("dropped", dropped),
		)
	}
	return merged
}

// MergeAssets drops existing rows stamped with runDate and appends the
// incoming snapshot. Neither input slice is mutated.
func MergeAssets(existing, incoming []dataset.Asset, runDate time.Time) []dataset.Asset {
	date := dataset.Date(runDate)

	merged := make([]dataset.Asset, 0, len(existing)+len(incoming))
	dropped := 0
	for _, row := range existing {
		if row.Date.Equal(date) {
			dropped++
			continue
		}
		merged = append(merged, row)
	}
	merged = append(merged, incoming...)

	if dropped > 0 {
		zap.L().Info("ingest: replaced same-day asset rows",
			zap.Time("date", date),
			zap.Int("dropped", dropped),
		)
	}
	return merged
}

// TouchedPeople returns the distinct non-missing person names in the
// incoming snapshot, in first-seen order. Incremental repairs scope their
// work to this set.
func TouchedPeople(incoming []dataset.Billionaire) []string {
	seen := make(map[string]struct{}, len(incoming))
	var names []string
	for _, row := range incoming {
		if dataset.Missing(row.PersonName) {
			continue
		}
		if _, ok := seen[*row.PersonName]; ok {
			continue
		}
		seen[*row.PersonName] = struct{}{}
		names = append(names, *row.PersonName)
	}
	return names
}
