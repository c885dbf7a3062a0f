package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

func TestDeduplicateBillionaires_KeepsHighestWorth(t *testing.T) {
	rows := []dataset.Billionaire{
		{Date: day(t, "2024-01-01"), PersonName: strp("Jane Doe"), FinalWorth: dec(t, "5.0")},
		{Date: day(t, "2024-01-01"), PersonName: strp("Jane Doe"), FinalWorth: dec(t, "7.0")},
	}

	out := DeduplicateBillionaires(rows)

	require.Len(t, out, 1)
	assert.True(t, out[0].FinalWorth.Decimal.Equal(dec(t, "7.0").Decimal))
}

func TestDeduplicateBillionaires_MissingWorthRanksAsZero(t *testing.T) {
	rows := []dataset.Billionaire{
		{Date: day(t, "2024-01-01"), PersonName: strp("Jane Doe")},
		{Date: day(t, "2024-01-01"), PersonName: strp("Jane Doe"), FinalWorth: dec(t, "0.01")},
	}

	out := DeduplicateBillionaires(rows)

	require.Len(t, out, 1)
	assert.True(t, out[0].FinalWorth.Valid)
}

func TestDeduplicateBillionaires_DifferentDatesSurvive(t *testing.T) {
	rows := []dataset.Billionaire{
		{Date: day(t, "2024-01-01"), PersonName: strp("Jane Doe"), FinalWorth: dec(t, "5")},
		{Date: day(t, "2024-01-02"), PersonName: strp("Jane Doe"), FinalWorth: dec(t, "5")},
	}

	out := DeduplicateBillionaires(rows)
	assert.Len(t, out, 2)
}

func TestDeduplicateBillionaires_DropsUnattributableRows(t *testing.T) {
	rows := []dataset.Billionaire{
		{Date: day(t, "2024-01-01")}, // neither personName nor lastName
		{Date: day(t, "2024-01-01"), LastName: strp("Doe")},
		{Date: day(t, "2024-01-01"), PersonName: strp("Jane Doe")},
	}

	out := DeduplicateBillionaires(rows)

	require.Len(t, out, 2)
	for _, row := range out {
		assert.False(t, dataset.Missing(row.PersonName) && dataset.Missing(row.LastName))
	}
}

func TestDeduplicateBillionaires_TieBrokenDeterministically(t *testing.T) {
	rows := []dataset.Billionaire{
		{Date: day(t, "2024-01-01"), PersonName: strp("Jane Doe"), FinalWorth: dec(t, "5"), City: strp("First")},
		{Date: day(t, "2024-01-01"), PersonName: strp("Jane Doe"), FinalWorth: dec(t, "5"), City: strp("Second")},
	}

	out := DeduplicateBillionaires(rows)

	require.Len(t, out, 1)
	// Stable sort keeps the earlier input row on equal measures.
	assert.Equal(t, "First", *out[0].City)
}

func TestDeduplicateBillionaires_UniquenessInvariant(t *testing.T) {
	rows := []dataset.Billionaire{
		{Date: day(t, "2024-01-01"), PersonName: strp("A"), FinalWorth: dec(t, "1")},
		{Date: day(t, "2024-01-01"), PersonName: strp("A"), FinalWorth: dec(t, "2")},
		{Date: day(t, "2024-01-01"), PersonName: strp("B")},
		{Date: day(t, "2024-01-02"), PersonName: strp("A"), FinalWorth: dec(t, "3")},
		{Date: day(t, "2024-01-02"), PersonName: strp("A")},
	}

	out := DeduplicateBillionaires(rows)

	seen := map[string]bool{}
	for _, row := range out {
		k := row.Date.Format("2006-01-02") + "|" + dataset.Value(row.PersonName)
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
	assert.LessOrEqual(t, len(out), len(rows))
}

func TestDeduplicateBillionaires_Idempotent(t *testing.T) {
	rows := []dataset.Billionaire{
		{Date: day(t, "2024-01-01"), PersonName: strp("A"), FinalWorth: dec(t, "1")},
		{Date: day(t, "2024-01-01"), PersonName: strp("A"), FinalWorth: dec(t, "2")},
		{Date: day(t, "2024-01-02"), PersonName: strp("B")},
	}

	once := DeduplicateBillionaires(rows)
	twice := DeduplicateBillionaires(once)

	assert.Equal(t, once, twice)
}

func TestDeduplicateAssets_KeepsMostShares(t *testing.T) {
	rows := []dataset.Asset{
		{Date: day(t, "2024-01-01"), PersonName: strp("Jane Doe"), Ticker: strp("ACME"), NumberOfShares: dec(t, "100")},
		{Date: day(t, "2024-01-01"), PersonName: strp("Jane Doe"), Ticker: strp("ACME"), NumberOfShares: dec(t, "250")},
	}

	out := DeduplicateAssets(rows)

	require.Len(t, out, 1)
	assert.True(t, out[0].NumberOfShares.Decimal.Equal(dec(t, "250").Decimal))
}

func TestDeduplicateAssets_HoldingKeyComponentsSeparateGroups(t *testing.T) {
	rows := []dataset.Asset{
		{Date: day(t, "2024-01-01"), PersonName: strp("J"), Ticker: strp("ACME"), Exchange: strp("NYSE")},
		{Date: day(t, "2024-01-01"), PersonName: strp("J"), Ticker: strp("ACME"), Exchange: strp("LSE")},
		{Date: day(t, "2024-01-01"), PersonName: strp("J"), Ticker: strp("ACME"), Exchange: strp("NYSE"), Interactive: boolp(true)},
		{Date: day(t, "2024-01-01"), PersonName: strp("J"), Ticker: strp("ACME"), Exchange: strp("NYSE"), ExchangeRate: dec(t, "1.5")},
	}

	out := DeduplicateAssets(rows)
	assert.Len(t, out, 4, "distinct holding keys must all survive")
}

func TestDeduplicateAssets_DropsRowsWithoutPerson(t *testing.T) {
	rows := []dataset.Asset{
		{Date: day(t, "2024-01-01"), Ticker: strp("ACME")},
		holding(t, "2024-01-01", "Jane Doe", "ACME"),
	}

	out := DeduplicateAssets(rows)

	require.Len(t, out, 1)
	assert.Equal(t, "Jane Doe", *out[0].PersonName)
}

func TestDeduplicateAssets_MissingComponentsKeyAsEmpty(t *testing.T) {
	// Two rows with the same missing components are the same holding.
	rows := []dataset.Asset{
		{Date: day(t, "2024-01-01"), PersonName: strp("J"), NumberOfShares: dec(t, "1")},
		{Date: day(t, "2024-01-01"), PersonName: strp("J"), NumberOfShares: dec(t, "2")},
	}

	out := DeduplicateAssets(rows)

	require.Len(t, out, 1)
	assert.True(t, out[0].NumberOfShares.Decimal.Equal(dec(t, "2").Decimal))
}
