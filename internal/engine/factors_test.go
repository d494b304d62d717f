package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/preluded103/gridintel-cli/internal/model"
)

func TestScoreDistanceBands(t *testing.T) {
	tests := []struct {
		name string
		km   float64
		want float64
	}{
		{"at substation", 0, 100},
		{"excellent 1.5km", 1.5, 94},
		{"band edge 2km", 2, 92},
		{"good 5km", 5, 68},
		{"fair 10km", 10, 52},
		{"poor 12km", 12, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreDistance(tt.km)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}

	t.Run("excellent band scores at least 90", func(t *testing.T) {
		assert.GreaterOrEqual(t, scoreDistance(1.5), 90.0)
	})
	t.Run("poor band scores below 50", func(t *testing.T) {
		assert.Less(t, scoreDistance(12), 50.0)
	})
}

func TestScoreDistanceMonotone(t *testing.T) {
	// Strictly non-increasing across the full curve.
	prev := scoreDistance(0)
	for km := 0.25; km <= 40; km += 0.25 {
		cur := scoreDistance(km)
		assert.LessOrEqual(t, cur, prev, "distance score increased at %.2f km", km)
		prev = cur
	}
}

func TestScoreCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity float64
		required float64
		want     float64
	}{
		{"triple buffer maximal", 300, 100, 100},
		{"double buffer", 200, 100, 85},
		{"half extra", 150, 100, 70},
		{"exactly required", 100, 100, 50},
		{"below requirement", 50, 100, 25},
		{"no requirement neutral", 200, 0, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreCapacity(tt.capacity, tt.required)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}

	t.Run("monotone in available capacity", func(t *testing.T) {
		prev := scoreCapacity(0, 100)
		for mw := 10.0; mw <= 500; mw += 10 {
			cur := scoreCapacity(mw, 100)
			assert.GreaterOrEqual(t, cur, prev, "capacity score decreased at %.0f MW", mw)
			prev = cur
		}
	})
}

func TestScoreTimeline(t *testing.T) {
	tests := []struct {
		name   string
		months int
		want   float64
	}{
		{"immediate", 0, 100},
		{"half year", 6, 94},
		{"one year", 12, 70},
		{"two years", 24, 52},
		{"four years", 48, 4},
		{"five years floors at zero", 60, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scoreTimeline(tt.months), 0.01)
		})
	}

	t.Run("monotone in months", func(t *testing.T) {
		prev := scoreTimeline(0)
		for m := 1; m <= 72; m++ {
			cur := scoreTimeline(m)
			assert.LessOrEqual(t, cur, prev, "timeline score increased at %d months", m)
			prev = cur
		}
	})
}

func TestScoreCost(t *testing.T) {
	tests := []struct {
		name string
		eur  float64
		want float64
	}{
		{"free", 0, 100},
		{"one million", 1_000_000, 92},
		{"one and a half million", 1_500_000, 86.5},
		{"three million", 3_000_000, 70},
		{"eight million", 8_000_000, 50},
		{"nine million", 9_000_000, 47},
		{"thirty million floors at zero", 30_000_000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scoreCost(tt.eur), 0.01)
		})
	}

	t.Run("monotone in cost", func(t *testing.T) {
		prev := scoreCost(0)
		for eur := 250_000.0; eur <= 40_000_000; eur += 250_000 {
			cur := scoreCost(eur)
			assert.LessOrEqual(t, cur, prev, "cost score increased at EUR %.0f", eur)
			prev = cur
		}
	})
}

func TestScoreReliability(t *testing.T) {
	tests := []struct {
		name string
		rel  *model.Reliability
		want float64
	}{
		{"missing record neutral", nil, 50},
		{"perfect", &model.Reliability{OutageHoursPerYear: 0, RedundantPaths: 3, EmergencyResponseHrs: 0.5}, 100},
		{"worst case", &model.Reliability{OutageHoursPerYear: 100, RedundantPaths: 0, EmergencyResponseHrs: 10}, 2},
		{"middling", &model.Reliability{OutageHoursPerYear: 50, RedundantPaths: 1, EmergencyResponseHrs: 2}, 46},
		{"extra paths capped", &model.Reliability{OutageHoursPerYear: 0, RedundantPaths: 6, EmergencyResponseHrs: 0.5}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scoreReliability(tt.rel), 0.01)
		})
	}
}

func TestScoreTSOQuality(t *testing.T) {
	tests := []struct {
		name string
		tso  string
		want float64
	}{
		{"fingrid", "Fingrid", 95},
		{"case insensitive", "fingrid", 95},
		{"statnett", "Statnett", 90},
		{"unknown operator neutral", "Unknown Grid Co", 70},
		{"empty neutral", "", 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scoreTSOQuality(tt.tso), 0.01)
		})
	}
}

func TestScoreRisk(t *testing.T) {
	allLow := &model.RiskProfile{
		Permitting: model.RiskLow, Technical: model.RiskLow,
		Environmental: model.RiskLow, Commercial: model.RiskLow,
	}
	allHigh := &model.RiskProfile{
		Permitting: model.RiskHigh, Technical: model.RiskHigh,
		Environmental: model.RiskHigh, Commercial: model.RiskHigh,
	}
	mixed := &model.RiskProfile{
		Permitting: model.RiskLow, Technical: model.RiskMedium,
		Environmental: model.RiskHigh, Commercial: model.RiskMedium,
	}

	tests := []struct {
		name string
		risk *model.RiskProfile
		want float64
	}{
		{"missing record neutral", nil, 60},
		{"all low", allLow, 100},
		{"all high", allHigh, 20},
		{"mixed", mixed, 60},
		{"unrecognized level treated medium", &model.RiskProfile{}, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scoreRisk(tt.risk), 0.01)
		})
	}
}

func TestFactorScoreUnknownFactor(t *testing.T) {
	c := model.ConnectionOpportunity{DistanceKM: 1}
	cfg := DefaultConfig()
	_, ok := factorScore("voltage_harmonics", &c, nil, &cfg)
	assert.False(t, ok)
}
