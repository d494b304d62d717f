package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeightFlags(t *testing.T) {
	weights, err := parseWeightFlags([]string{"distance=0.3", "cost = 0.25"})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, weights["distance"], 0.0001)
	assert.InDelta(t, 0.25, weights["cost"], 0.0001)
}

func TestParseWeightFlags_Invalid(t *testing.T) {
	_, err := parseWeightFlags([]string{"distance"})
	require.Error(t, err)

	_, err = parseWeightFlags([]string{"distance=high"})
	require.Error(t, err)
}

func TestLoadRegionalTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regional.yaml")
	content := `buckets:
  Nordic:
    points: 6
    description: Nordic grid region with strong fundamentals
countries:
  Finland: Nordic
  Sweden: Nordic
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := loadRegionalTable(path)
	require.NoError(t, err)
	assert.InDelta(t, 6, table.Buckets["Nordic"].Points, 0.0001)
	assert.Equal(t, "Nordic", table.Countries["Finland"])
}

func TestLoadRegionalTable_UndefinedBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regional.yaml")
	content := `buckets:
  Nordic:
    points: 5
    description: Nordic
countries:
  Germany: Central Europe
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := loadRegionalTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined bucket")
}

func TestLoadRegionalTable_MissingFile(t *testing.T) {
	_, err := loadRegionalTable(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
