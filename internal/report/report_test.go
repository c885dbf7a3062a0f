package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

func strp(s string) *string { return &s }

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d.UTC()
}

func TestCollectBillionaires(t *testing.T) {
	rows := []dataset.Billionaire{
		{Date: day(t, "2024-01-01"), PersonName: strp("A"), LastName: strp("Smith"), City: strp("Miami")},
		{Date: day(t, "2024-01-02"), PersonName: strp("A"), LastName: strp("Smithe")},
		{Date: day(t, "2024-01-02"), PersonName: strp("A"), LastName: strp("Smithe")},
		{Date: day(t, "2024-01-02"), PersonName: strp("B"), Source: strp("  unknown ")},
	}

	stats := CollectBillionaires(rows, nil)

	assert.Equal(t, 4, stats.Rows)
	assert.Equal(t, 2, stats.Days)
	assert.Equal(t, 2, stats.People)
	assert.Equal(t, 1, stats.Normalization.Whitespace)
	assert.Equal(t, 1, stats.Normalization.Unknown)
	assert.Equal(t, 1, stats.IdentityConflicts["lastName"])
	assert.Equal(t, 1, stats.Gaps["city"].FillablePeople)
	assert.Equal(t, 1, stats.Duplicates.DuplicateGroups)
	assert.False(t, stats.Clean())
}

func TestCleanTable(t *testing.T) {
	rows := []dataset.Billionaire{
		{
			Date: day(t, "2024-01-01"), PersonName: strp("A"), LastName: strp("Smith"),
			Gender: strp("F"), CountryOfCitizenship: strp("US"), City: strp("Miami"),
			State: strp("FL"), Source: strp("Tech"), Industries: strp("Technology"),
		},
	}
	bd := day(t, "1955-10-28")
	rows[0].BirthDate = &bd

	stats := CollectBillionaires(rows, nil)
	assert.True(t, stats.Clean())
}

func TestCollectAssets(t *testing.T) {
	rows := []dataset.Asset{
		{Date: day(t, "2024-01-01"), PersonName: strp("A"), Ticker: strp("ACME")},
		{Date: day(t, "2024-01-01"), PersonName: strp("A"), Ticker: strp("ACME")},
	}

	stats := CollectAssets(rows, nil)

	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 1, stats.Duplicates.DuplicateGroups)
	assert.False(t, stats.Clean())
}

func TestRenderFormatsThousands(t *testing.T) {
	rows := make([]dataset.Billionaire, 2500)
	date := day(t, "2024-01-01")
	for i := range rows {
		rows[i] = dataset.Billionaire{Date: date, PersonName: strp("A")}
	}

	var b strings.Builder
	CollectBillionaires(rows, nil).Render(&b, "before repair")
	out := b.String()

	assert.Contains(t, out, "before repair")
	assert.Contains(t, out, "2,500")
	assert.Contains(t, out, "duplicate groups: 1 (2,499 extra rows)")
}

func TestRenderAssets(t *testing.T) {
	var b strings.Builder
	CollectAssets(nil, nil).Render(&b, "assets")

	out := b.String()
	assert.Contains(t, out, "assets")
	assert.Contains(t, out, "rows: 0")
}
