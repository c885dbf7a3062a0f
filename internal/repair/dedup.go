package repair

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

// keyed pairs a row with its dedup key and tie-break measure.
type keyed[R any] struct {
	key     string
	measure decimal.Decimal
	row     R
}

// DeduplicateBillionaires is the 3rd-order repair for person snapshots.
// Rows missing both personName and lastName are dropped first: they cannot
// be attributed to anyone. The rest are grouped by (date, personName) and
// exactly one row per group survives — the one with the highest finalWorth,
// missing worth ranking as zero. Ties keep the earliest input row.
func DeduplicateBillionaires(rows []dataset.Billionaire) []dataset.Billionaire {
	candidates := make([]keyed[dataset.Billionaire], 0, len(rows))
	for _, r := range rows {
		if dataset.Missing(r.PersonName) && dataset.Missing(r.LastName) {
			continue
		}
		candidates = append(candidates, keyed[dataset.Billionaire]{
			key:     r.Date.Format("2006-01-02") + "|" + dataset.Value(r.PersonName),
			measure: measureOrZero(r.FinalWorth),
			row:     r,
		})
	}
	return collapse(candidates)
}

// DeduplicateAssets is the 3rd-order repair for asset snapshots. Rows with
// a missing personName are dropped, then groups share the full holding key
// plus date, and the row with the highest numberOfShares survives.
func DeduplicateAssets(rows []dataset.Asset) []dataset.Asset {
	candidates := make([]keyed[dataset.Asset], 0, len(rows))
	for _, r := range rows {
		if dataset.Missing(r.PersonName) {
			continue
		}
		candidates = append(candidates, keyed[dataset.Asset]{
			key:     assetDedupKey(&r),
			measure: measureOrZero(r.NumberOfShares),
			row:     r,
		})
	}
	return collapse(candidates)
}

// collapse stable-sorts candidates by (key asc, measure desc) and keeps the
// first row of each key group.
func collapse[R any](candidates []keyed[R]) []R {
	slices.SortStableFunc(candidates, func(a, b keyed[R]) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}
		return b.measure.Cmp(a.measure)
	})

	out := make([]R, 0, len(candidates))
	prev := ""
	for i, c := range candidates {
		if i == 0 || c.key != prev {
			out = append(out, c.row)
			prev = c.key
		}
	}
	return out
}

// assetDedupKey joins every holding component with missing values rendered
// as empty strings, matching how the archive has historically keyed assets.
func assetDedupKey(a *dataset.Asset) string {
	interactive := ""
	if a.Interactive != nil {
		if *a.Interactive {
			interactive = "true"
		} else {
			interactive = "false"
		}
	}
	return strings.Join([]string{
		a.Date.Format("2006-01-02"),
		dataset.Value(a.PersonName),
		dataset.Value(a.Ticker),
		dataset.Value(a.CompanyName),
		dataset.Value(a.CurrencyCode),
		dataset.Value(a.Exchange),
		interactive,
		decimalKeyPart(a.ExchangeRate),
		decimalKeyPart(a.ExerciseOptionPrice),
	}, "|")
}

func decimalKeyPart(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func measureOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
