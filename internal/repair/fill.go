package repair

import (
	"slices"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

// FillTimeline is the 2nd-order repair. For every person, each
// slowly-changing field is filled along the chronologically sorted timeline:
// the last seen non-missing value propagates forward, then values before
// the first known observation propagate backward. A field stays missing
// only when the person never reported it.
//
// When peopleFilter is non-empty, rows for other persons pass through
// untouched. Row count and ordering are unchanged; only slowly-changing
// fields are written.
func FillTimeline(rows []dataset.Billionaire, peopleFilter []string) []dataset.Billionaire {
	out := make([]dataset.Billionaire, len(rows))
	copy(out, rows)

	inScope := scopeFunc(peopleFilter)

	// Timelines are keyed by personName regardless of any compound identity
	// key: gap filling follows a person's dated history.
	groups := make(map[string][]int)
	for i := range out {
		if !inScope(out[i].PersonName) {
			continue
		}
		groups[keyOrMissing(out[i].PersonName)] = append(groups[keyOrMissing(out[i].PersonName)], i)
	}

	for _, idxs := range groups {
		timeline := slices.Clone(idxs)
		slices.SortStableFunc(timeline, func(a, b int) int {
			return out[a].Date.Compare(out[b].Date)
		})

		for _, field := range dataset.SlowFields {
			fillField(out, timeline, field)
		}
	}

	return out
}

// fillField forward-fills then backward-fills one field along a timeline of
// row indexes. Empty strings are normalized to missing on the way, matching
// the behavior when the 2nd order runs without a prior 0th order pass.
func fillField(rows []dataset.Billionaire, timeline []int, field string) {
	// Forward pass.
	var last *string
	for _, i := range timeline {
		v := rows[i].Slow(field)
		if dataset.Missing(v) {
			rows[i].SetSlow(field, last)
		} else {
			last = v
		}
	}

	// Backward pass for leading gaps.
	var next *string
	for j := len(timeline) - 1; j >= 0; j-- {
		i := timeline[j]
		v := rows[i].Slow(field)
		if dataset.Missing(v) {
			rows[i].SetSlow(field, next)
		} else {
			next = v
		}
	}
}

func keyOrMissing(v *string) string {
	if v == nil {
		return "\x00"
	}
	return *v
}
