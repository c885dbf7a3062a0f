// Package dataset defines the two fixed record schemas of the Forbes
// real-time billionaires archive: one person-snapshot row per (person,
// observation date) and one asset-snapshot row per (person, holding,
// observation date).
package dataset

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// Type identifies one of the two supported dataset schemas.
type Type string

const (
	Billionaires Type = "billionaires"
	Assets       Type = "assets"
)

// ParseType validates a dataset selector. Anything other than the two
// supported schemas is an operator error and is rejected outright.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Billionaires, Assets:
		return Type(s), nil
	default:
		return "", eris.Errorf("unknown dataset type %q (want %q or %q)", s, Billionaires, Assets)
	}
}

// Billionaire is one person-snapshot row. String fields are nil when the
// value is missing; the empty string only appears in raw, unrepaired data.
//
// The fields fall into three behavioral classes:
//   - static identity (LastName, BirthDate, Gender): the true value never
//     changes, observed variation is upstream noise
//   - slowly changing (CountryOfCitizenship..Industries): the true value
//     can change but rarely
//   - time-varying numerics (FinalWorth..PrivateAssetsWorth): change every
//     observation and are never repaired
type Billionaire struct {
	Date       time.Time
	PersonName *string

	LastName  *string
	BirthDate *time.Time
	Gender    *string

	CountryOfCitizenship *string
	City                 *string
	State                *string
	Source               *string
	Industries           *string

	FinalWorth         decimal.NullDecimal
	EstWorthPrev       decimal.NullDecimal
	ArchivedWorth      decimal.NullDecimal
	PrivateAssetsWorth decimal.NullDecimal
}

// Asset is one asset-snapshot row. A holding is identified by the
// combination of CompanyName, Ticker, CurrencyCode, Exchange, Interactive,
// ExchangeRate and ExerciseOptionPrice.
type Asset struct {
	Date       time.Time
	PersonName *string

	CompanyName         *string
	CurrencyCode        *string
	CurrentPrice        decimal.NullDecimal
	Exchange            *string
	ExchangeRate        decimal.NullDecimal
	ExerciseOptionPrice decimal.NullDecimal
	Interactive         *bool
	NumberOfShares      decimal.NullDecimal
	SharePrice          decimal.NullDecimal
	Ticker              *string
}

// SlowFields lists the slowly-changing person attributes in schema order.
var SlowFields = []string{"countryOfCitizenship", "city", "state", "source", "industries"}

// StaticFields lists the static identity attributes in schema order.
var StaticFields = []string{"lastName", "birthDate", "gender"}

// Slow returns the named slowly-changing field. Unknown names return nil;
// callers iterate SlowFields so this does not happen in practice.
func (b *Billionaire) Slow(name string) *string {
	switch name {
	case "countryOfCitizenship":
		return b.CountryOfCitizenship
	case "city":
		return b.City
	case "state":
		return b.State
	case "source":
		return b.Source
	case "industries":
		return b.Industries
	}
	return nil
}

// SetSlow overwrites the named slowly-changing field.
func (b *Billionaire) SetSlow(name string, v *string) {
	switch name {
	case "countryOfCitizenship":
		b.CountryOfCitizenship = v
	case "city":
		b.City = v
	case "state":
		b.State = v
	case "source":
		b.Source = v
	case "industries":
		b.Industries = v
	}
}

// EachText applies fn to every string-valued field of the row, replacing
// each field with fn's return value. Used by the normalizer so the cleaning
// policy lives in one place.
func (b *Billionaire) EachText(fn func(field string, v *string) *string) {
	b.PersonName = fn("personName", b.PersonName)
	b.LastName = fn("lastName", b.LastName)
	b.Gender = fn("gender", b.Gender)
	b.CountryOfCitizenship = fn("countryOfCitizenship", b.CountryOfCitizenship)
	b.City = fn("city", b.City)
	b.State = fn("state", b.State)
	b.Source = fn("source", b.Source)
	b.Industries = fn("industries", b.Industries)
}

// EachText applies fn to every string-valued field of the row.
func (a *Asset) EachText(fn func(field string, v *string) *string) {
	a.PersonName = fn("personName", a.PersonName)
	a.CompanyName = fn("companyName", a.CompanyName)
	a.CurrencyCode = fn("currencyCode", a.CurrencyCode)
	a.Exchange = fn("exchange", a.Exchange)
	a.Ticker = fn("ticker", a.Ticker)
}

// TextFields returns the string-valued column names of the given dataset type.
func TextFields(t Type) []string {
	switch t {
	case Billionaires:
		return []string{"personName", "lastName", "gender", "countryOfCitizenship", "city", "state", "source", "industries"}
	case Assets:
		return []string{"personName", "companyName", "currencyCode", "exchange", "ticker"}
	}
	return nil
}

// Missing reports whether a string field carries no usable value. The empty
// string counts as missing because upstream snapshots routinely record
// absent attributes as "".
func Missing(v *string) bool {
	return v == nil || *v == ""
}

// String returns a heap copy of s, or nil when s is empty. The inverse of
// Value for building rows from raw records.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Value returns the string carried by v, or "" when missing.
func Value(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// Date truncates t to a UTC calendar date, the only time resolution the
// archive stores.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
