package repair

import (
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

// canonicalIdentity is the resolved static-identity record for one person.
type canonicalIdentity struct {
	lastName  *string
	birthDate *time.Time
	gender    *string
}

// ResolveIdentities is the 1st-order repair. For every identity-key
// partition it computes one canonical value per static identity field (the
// most recently observed non-missing value) and overwrites the field on
// every row of the partition, including rows that carried a different
// non-missing value.
//
// keyFields defaults to personName; compound keys may add lastName,
// birthDate or gender. When peopleFilter is non-empty, rows for other
// persons pass through untouched.
//
// Row count, ordering, dates and numeric fields are unchanged.
func ResolveIdentities(rows []dataset.Billionaire, keyFields, peopleFilter []string) ([]dataset.Billionaire, error) {
	if len(keyFields) == 0 {
		keyFields = []string{"personName"}
	}
	for _, f := range keyFields {
		switch f {
		case "personName", "lastName", "birthDate", "gender":
		default:
			return nil, eris.Errorf("unsupported identity key field %q", f)
		}
	}

	out := make([]dataset.Billionaire, len(rows))
	copy(out, rows)

	inScope := scopeFunc(peopleFilter)

	// Partition row indexes by identity key.
	groups := make(map[string][]int)
	for i := range out {
		if !inScope(out[i].PersonName) {
			continue
		}
		k := identityKey(&out[i], keyFields)
		groups[k] = append(groups[k], i)
	}

	for _, idxs := range groups {
		// Most recent observation first; stable so equal dates keep input
		// order and the tie-break stays deterministic.
		sorted := slices.Clone(idxs)
		slices.SortStableFunc(sorted, func(a, b int) int {
			return out[b].Date.Compare(out[a].Date)
		})

		var canon canonicalIdentity
		for _, i := range sorted {
			if canon.lastName == nil && !dataset.Missing(out[i].LastName) {
				canon.lastName = out[i].LastName
			}
			if canon.birthDate == nil && out[i].BirthDate != nil {
				canon.birthDate = out[i].BirthDate
			}
			if canon.gender == nil && !dataset.Missing(out[i].Gender) {
				canon.gender = out[i].Gender
			}
		}

		// Broadcast unconditionally: non-canonical values are noise.
		for _, i := range idxs {
			out[i].LastName = canon.lastName
			out[i].BirthDate = canon.birthDate
			out[i].Gender = canon.gender
		}
	}

	return out, nil
}

// identityKey builds the partition key for a row. Missing components use a
// sentinel byte so a missing value never collides with a real one.
func identityKey(b *dataset.Billionaire, fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		var v *string
		switch f {
		case "personName":
			v = b.PersonName
		case "lastName":
			v = b.LastName
		case "gender":
			v = b.Gender
		case "birthDate":
			if b.BirthDate != nil {
				s := b.BirthDate.Format("2006-01-02")
				v = &s
			}
		}
		if dataset.Missing(v) {
			parts = append(parts, "\x00")
		} else {
			parts = append(parts, *v)
		}
	}
	return strings.Join(parts, "\x1f")
}

// scopeFunc returns a predicate for the people filter; an empty filter
// keeps everything in scope.
func scopeFunc(peopleFilter []string) func(*string) bool {
	if len(peopleFilter) == 0 {
		return func(*string) bool { return true }
	}
	set := make(map[string]struct{}, len(peopleFilter))
	for _, p := range peopleFilter {
		set[p] = struct{}{}
	}
	return func(name *string) bool {
		if name == nil {
			return false
		}
		_, ok := set[*name]
		return ok
	}
}
