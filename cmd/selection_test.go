package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	sel, err := parseSelection("both")
	require.NoError(t, err)
	assert.True(t, sel.billionaires)
	assert.True(t, sel.assets)

	sel, err = parseSelection("billionaires")
	require.NoError(t, err)
	assert.True(t, sel.billionaires)
	assert.False(t, sel.assets)

	sel, err = parseSelection("assets")
	require.NoError(t, err)
	assert.False(t, sel.billionaires)
	assert.True(t, sel.assets)

	_, err = parseSelection("portfolios")
	assert.Error(t, err)
}

func TestStagesFromSkips(t *testing.T) {
	all := stagesFromSkips(false, false, false, false)
	assert.True(t, all.Normalize)
	assert.True(t, all.Identity)
	assert.True(t, all.Fill)
	assert.True(t, all.Dedup)

	partial := stagesFromSkips(true, false, true, false)
	assert.False(t, partial.Normalize)
	assert.True(t, partial.Identity)
	assert.False(t, partial.Fill)
	assert.True(t, partial.Dedup)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/data/billionaires.parquet", outputPath("/data/billionaires.parquet", ""))
	assert.Equal(t, "/data/billionaires_repaired.parquet", outputPath("/data/billionaires.parquet", "_repaired"))
}
