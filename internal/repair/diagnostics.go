package repair

import (
	"regexp"
	"strings"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

// NormalizationIssues counts 0th-order defects: values carrying surrounding
// whitespace and values matching an "unknown" sentinel.
type NormalizationIssues struct {
	Whitespace int
	Unknown    int
}

// GapStats describes 2nd-order fillable gaps for one slowly-changing field.
type GapStats struct {
	// TotalMissing counts rows where the field is missing.
	TotalMissing int
	// FillablePeople counts persons that have the field on some rows but
	// not all, i.e. persons the temporal filler can actually help.
	FillablePeople int
}

// DuplicateStats describes 3rd-order duplication.
type DuplicateStats struct {
	// DuplicateGroups counts dedup keys shared by more than one row.
	DuplicateGroups int
	// TotalDuplicates counts all rows belonging to such groups.
	TotalDuplicates int
}

// CountBillionaireIssues counts 0th-order defects in a person-snapshot
// table without mutating it.
func CountBillionaireIssues(rows []dataset.Billionaire, patterns []*regexp.Regexp) NormalizationIssues {
	if len(patterns) == 0 {
		patterns = DefaultUnknownPatterns()
	}
	var issues NormalizationIssues
	for i := range rows {
		row := rows[i] // copy; EachText must not touch the input
		row.EachText(func(_ string, v *string) *string {
			tallyIssue(&issues, v, patterns)
			return v
		})
	}
	return issues
}

// CountAssetIssues counts 0th-order defects in an asset-snapshot table
// without mutating it.
func CountAssetIssues(rows []dataset.Asset, patterns []*regexp.Regexp) NormalizationIssues {
	if len(patterns) == 0 {
		patterns = DefaultUnknownPatterns()
	}
	var issues NormalizationIssues
	for i := range rows {
		row := rows[i]
		row.EachText(func(_ string, v *string) *string {
			tallyIssue(&issues, v, patterns)
			return v
		})
	}
	return issues
}

func tallyIssue(issues *NormalizationIssues, v *string, patterns []*regexp.Regexp) {
	if v == nil {
		return
	}
	if *v != strings.TrimSpace(*v) {
		issues.Whitespace++
	}
	for _, p := range patterns {
		if p.MatchString(*v) {
			issues.Unknown++
			break
		}
	}
}

// CountIdentityConflicts reports, per static identity field, how many
// persons carry more than one distinct non-missing value — the rows the
// 1st-order resolver would rewrite. Read-only.
func CountIdentityConflicts(rows []dataset.Billionaire) map[string]int {
	type valueSet map[string]struct{}
	perField := map[string]map[string]valueSet{}
	for _, f := range dataset.StaticFields {
		perField[f] = map[string]valueSet{}
	}

	observe := func(field, person string, v *string) {
		if dataset.Missing(v) {
			return
		}
		set, ok := perField[field][person]
		if !ok {
			set = valueSet{}
			perField[field][person] = set
		}
		set[*v] = struct{}{}
	}

	for i := range rows {
		person := keyOrMissing(rows[i].PersonName)
		observe("lastName", person, rows[i].LastName)
		observe("gender", person, rows[i].Gender)
		if rows[i].BirthDate != nil {
			s := rows[i].BirthDate.Format("2006-01-02")
			observe("birthDate", person, &s)
		}
	}

	conflicts := make(map[string]int, len(dataset.StaticFields))
	for field, persons := range perField {
		n := 0
		for _, set := range persons {
			if len(set) > 1 {
				n++
			}
		}
		conflicts[field] = n
	}
	return conflicts
}

// CountFillableGaps reports, per slowly-changing field, how much the
// 2nd-order filler could repair. Read-only.
func CountFillableGaps(rows []dataset.Billionaire) map[string]GapStats {
	stats := make(map[string]GapStats, len(dataset.SlowFields))

	for _, field := range dataset.SlowFields {
		totals := map[string]int{}
		missing := map[string]int{}
		totalMissing := 0

		for i := range rows {
			person := keyOrMissing(rows[i].PersonName)
			totals[person]++
			if dataset.Missing(rows[i].Slow(field)) {
				missing[person]++
				totalMissing++
			}
		}

		fillable := 0
		for person, miss := range missing {
			if miss > 0 && miss < totals[person] {
				fillable++
			}
		}
		stats[field] = GapStats{TotalMissing: totalMissing, FillablePeople: fillable}
	}
	return stats
}

// CountBillionaireDuplicates reports how many (date, personName) groups
// hold more than one row. Read-only.
func CountBillionaireDuplicates(rows []dataset.Billionaire) DuplicateStats {
	counts := map[string]int{}
	for i := range rows {
		k := rows[i].Date.Format("2006-01-02") + "|" + dataset.Value(rows[i].PersonName)
		counts[k]++
	}
	return duplicateStats(counts)
}

// CountAssetDuplicates reports how many full-holding-key groups hold more
// than one row. Read-only.
func CountAssetDuplicates(rows []dataset.Asset) DuplicateStats {
	counts := map[string]int{}
	for i := range rows {
		counts[assetDedupKey(&rows[i])]++
	}
	return duplicateStats(counts)
}

func duplicateStats(counts map[string]int) DuplicateStats {
	var stats DuplicateStats
	for _, n := range counts {
		if n > 1 {
			stats.DuplicateGroups++
			stats.TotalDuplicates += n
		}
	}
	return stats
}
