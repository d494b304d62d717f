package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRegionalNordic(t *testing.T) {
	table := DefaultRegionalTable()

	for _, country := range []string{"Finland", "Sweden", "Norway", "Denmark", "Iceland"} {
		t.Run(country, func(t *testing.T) {
			adj := resolveRegional(country, table)
			assert.Greater(t, adj.Points, 0.0, "Nordic adjustment must be strictly positive")
			assert.Contains(t, adj.Description, "Nordic")
		})
	}
}

func TestResolveRegionalCentralEurope(t *testing.T) {
	table := DefaultRegionalTable()

	for _, country := range []string{"Germany", "Poland", "Austria"} {
		t.Run(country, func(t *testing.T) {
			adj := resolveRegional(country, table)
			assert.Less(t, adj.Points, 0.0, "Central European adjustment must be negative")
			assert.Contains(t, adj.Description, "Central Europe")
		})
	}
}

func TestResolveRegionalDefaults(t *testing.T) {
	table := DefaultRegionalTable()

	t.Run("unmapped country yields explicit zero", func(t *testing.T) {
		adj := resolveRegional("Brazil", table)
		assert.Zero(t, adj.Points)
		assert.Equal(t, noAdjustmentDescription, adj.Description)
	})

	t.Run("case insensitive lookup", func(t *testing.T) {
		adj := resolveRegional("finland", table)
		assert.Greater(t, adj.Points, 0.0)
	})

	t.Run("bucket without table row is zero", func(t *testing.T) {
		table := RegionalTable{
			Buckets:   map[string]RegionalBucket{},
			Countries: map[string]string{"Finland": "Nordic"},
		}
		adj := resolveRegional("Finland", table)
		assert.Zero(t, adj.Points)
		assert.Equal(t, "Nordic", adj.Region)
	})
}
