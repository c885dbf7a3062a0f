package repair

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

func strp(s string) *string { return &s }

func boolp(b bool) *bool { return &b }

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d.UTC()
}

func dec(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func snapshot(t *testing.T, date, name string) dataset.Billionaire {
	t.Helper()
	return dataset.Billionaire{Date: day(t, date), PersonName: strp(name)}
}

func holding(t *testing.T, date, name, ticker string) dataset.Asset {
	t.Helper()
	return dataset.Asset{Date: day(t, date), PersonName: strp(name), Ticker: strp(ticker)}
}
