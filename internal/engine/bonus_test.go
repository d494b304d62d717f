package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/preluded103/gridintel-cli/internal/model"
)

func fptr(v float64) *float64 { return &v }

func TestComputeBonusesAllZeroStillReported(t *testing.T) {
	b := computeBonuses(&model.ConnectionOpportunity{})

	assert.Len(t, b, 3)
	assert.Zero(t, b[BonusExpansion])
	assert.Zero(t, b[BonusRenewable])
	assert.Zero(t, b[BonusStrategic])
}

func TestExpansionBonus(t *testing.T) {
	tests := []struct {
		name     string
		headroom *float64
		want     float64
	}{
		{"absent", nil, 0},
		{"below floor", fptr(20), 0},
		{"at floor", fptr(50), 1},
		{"scales with headroom", fptr(150), 3},
		{"bounded", fptr(1000), expansionMaxBonus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := computeBonuses(&model.ConnectionOpportunity{ExpansionHeadroomMW: tt.headroom})
			assert.InDelta(t, tt.want, b[BonusExpansion], 0.01)
		})
	}
}

func TestRenewableBonus(t *testing.T) {
	tests := []struct {
		name     string
		affinity *float64
		want     float64
	}{
		{"absent", nil, 0},
		{"below floor", fptr(50), 0},
		{"at floor", fptr(70), 0},
		{"high affinity", fptr(90), 2},
		{"bounded", fptr(100), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := computeBonuses(&model.ConnectionOpportunity{RenewableAffinity: tt.affinity})
			assert.InDelta(t, tt.want, b[BonusRenewable], 0.01)
		})
	}

	t.Run("high affinity is strictly positive", func(t *testing.T) {
		b := computeBonuses(&model.ConnectionOpportunity{RenewableAffinity: fptr(92)})
		assert.Greater(t, b[BonusRenewable], 0.0)
	})
}

func TestStrategicBonus(t *testing.T) {
	high := computeBonuses(&model.ConnectionOpportunity{StrategicValue: model.StrategicHigh})
	assert.InDelta(t, strategicBonus, high[BonusStrategic], 0.01)

	for _, v := range []model.StrategicValue{model.StrategicMedium, model.StrategicLow, ""} {
		b := computeBonuses(&model.ConnectionOpportunity{StrategicValue: v})
		assert.Zero(t, b[BonusStrategic], "strategic bonus for %q", v)
	}
}
