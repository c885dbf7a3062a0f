// Package report summarises dataset health: row counts, normalization
// issues, identity conflicts, fillable gaps and duplicate groups.
package report

import (
	"io"
	"regexp"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
	"github.com/ridgeline-data/rtb-cli/internal/repair"
)

// BillionaireStats is a point-in-time health summary of the person table.
type BillionaireStats struct {
	Rows              int
	Days              int
	People            int
	Normalization     repair.NormalizationIssues
	IdentityConflicts map[string]int
	Gaps              map[string]repair.GapStats
	Duplicates        repair.DuplicateStats
}

// AssetStats is a point-in-time health summary of the asset table.
type AssetStats struct {
	Rows          int
	Days          int
	People        int
	Normalization repair.NormalizationIssues
	Duplicates    repair.DuplicateStats
}

// CollectBillionaires computes the full diagnostic set for the person
// table. patterns defaults to the standard sentinel set when nil.
func CollectBillionaires(rows []dataset.Billionaire, patterns []*regexp.Regexp) BillionaireStats {
	days := make(map[time.Time]struct{})
	people := make(map[string]struct{})
	for _, r := range rows {
		days[r.Date] = struct{}{}
		if !dataset.Missing(r.PersonName) {
			people[*r.PersonName] = struct{}{}
		}
	}
	return BillionaireStats{
		Rows:              len(rows),
		Days:              len(days),
		People:            len(people),
		Normalization:     repair.CountBillionaireIssues(rows, patterns),
		IdentityConflicts: repair.CountIdentityConflicts(rows),
		Gaps:              repair.CountFillableGaps(rows),
		Duplicates:        repair.CountBillionaireDuplicates(rows),
	}
}

// CollectAssets computes the diagnostic set for the asset table.
func CollectAssets(rows []dataset.Asset, patterns []*regexp.Regexp) AssetStats {
	days := make(map[time.Time]struct{})
	people := make(map[string]struct{})
	for _, r := range rows {
		days[r.Date] = struct{}{}
		if !dataset.Missing(r.PersonName) {
			people[*r.PersonName] = struct{}{}
		}
	}
	return AssetStats{
		Rows:          len(rows),
		Days:          len(days),
		People:        len(people),
		Normalization: repair.CountAssetIssues(rows, patterns),
		Duplicates:    repair.CountAssetDuplicates(rows),
	}
}

// Clean reports whether the table has no outstanding issues any repair
// stage could address.
func (s BillionaireStats) Clean() bool {
	if s.Normalization.Whitespace > 0 || s.Normalization.Unknown > 0 {
		return false
	}
	for _, n := range s.IdentityConflicts {
		if n > 0 {
			return false
		}
	}
	for _, g := range s.Gaps {
		if g.FillablePeople > 0 {
			return false
		}
	}
	return s.Duplicates.DuplicateGroups == 0
}

// Clean reports whether the asset table has no outstanding issues.
func (s AssetStats) Clean() bool {
	return s.Normalization.Whitespace == 0 &&
		s.Normalization.Unknown == 0 &&
		s.Duplicates.DuplicateGroups == 0
}

// Render writes the person-table summary under the given heading. Counts
// use thousands separators.
func (s BillionaireStats) Render(w io.Writer, heading string) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%s\n", heading)
	p.Fprintf(w, "  rows: %d across %d days, %d people\n", s.Rows, s.Days, s.People)
	p.Fprintf(w, "  whitespace issues: %d, unknown sentinels: %d\n",
		s.Normalization.Whitespace, s.Normalization.Unknown)

	for _, field := range dataset.StaticFields {
		if n := s.IdentityConflicts[field]; n > 0 {
			p.Fprintf(w, "  identity conflicts in %s: %d people\n", field, n)
		}
	}
	for _, field := range dataset.SlowFields {
		g := s.Gaps[field]
		if g.TotalMissing > 0 {
			p.Fprintf(w, "  gaps in %s: %d missing, %d people fillable\n",
				field, g.TotalMissing, g.FillablePeople)
		}
	}
	p.Fprintf(w, "  duplicate groups: %d (%d extra rows)\n",
		s.Duplicates.DuplicateGroups, s.Duplicates.TotalDuplicates)
}

// Render writes the asset-table summary under the given heading.
func (s AssetStats) Render(w io.Writer, heading string) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%s\n", heading)
	p.Fprintf(w, "  rows: %d across %d days, %d people\n", s.Rows, s.Days, s.People)
	p.Fprintf(w, "  whitespace issues: %d, unknown sentinels: %d\n",
		s.Normalization.Whitespace, s.Normalization.Unknown)
	p.Fprintf(w, "  duplicate groups: %d (%d extra rows)\n",
		s.Duplicates.DuplicateGroups, s.Duplicates.TotalDuplicates)
}
