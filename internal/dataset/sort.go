package dataset

import (
	"slices"
	"strings"
	"time"
)

// SortBillionaires orders rows by (personName, date), the canonical
// persisted order. Missing values sort first.
func SortBillionaires(rows []Billionaire) {
	slices.SortStableFunc(rows, func(a, b Billionaire) int {
		if c := compareStrPtr(a.PersonName, b.PersonName); c != 0 {
			return c
		}
		return compareDate(a.Date, b.Date)
	})
}

// SortAssets orders rows by (personName, companyName, interactive, date).
func SortAssets(rows []Asset) {
	slices.SortStableFunc(rows, func(a, b Asset) int {
		if c := compareStrPtr(a.PersonName, b.PersonName); c != 0 {
			return c
		}
		if c := compareStrPtr(a.CompanyName, b.CompanyName); c != 0 {
			return c
		}
		if c := compareBoolPtr(a.Interactive, b.Interactive); c != 0 {
			return c
		}
		return compareDate(a.Date, b.Date)
	})
}

func compareStrPtr(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return strings.Compare(*a, *b)
}

func compareBoolPtr(a, b *bool) int {
	rank := func(v *bool) int {
		switch {
		case v == nil:
			return 0
		case !*v:
			return 1
		default:
			return 2
		}
	}
	return rank(a) - rank(b)
}

func compareDate(a, b time.Time) int {
	return a.Compare(b)
}
