package engine

import (
	"math"

	"github.com/preluded103/gridintel-cli/internal/model"
)

// Bonus names used as keys in the bonus breakdown.
const (
	BonusExpansion = "expansion"
	BonusRenewable = "renewable"
	BonusStrategic = "strategic"
)

const (
	expansionFloorMW  = 50.0
	expansionMaxBonus = 5.0
	renewableFloor    = 70.0
	renewableMaxBonus = 3.0
	strategicBonus    = 3.0
)

// computeBonuses returns the additive bonus breakdown for a candidate.
// Every bonus source appears in the map even when zero so consumers can
// explain a score. Bonuses are summed by the aggregator, never averaged.
func computeBonuses(c *model.ConnectionOpportunity) map[string]float64 {
	b := map[string]float64{
		BonusExpansion: 0,
		BonusRenewable: 0,
		BonusStrategic: 0,
	}

	// Expansion headroom above the floor earns 1 point plus 1 per
	// additional 50 MW, bounded.
	if h := c.ExpansionHeadroomMW; h != nil && *h >= expansionFloorMW {
		b[BonusExpansion] = math.Min(expansionMaxBonus, 1+(*h-expansionFloorMW)/50)
	}

	// Renewable-integration affinity above the floor earns a point per
	// 10 affinity points, bounded.
	if a := c.RenewableAffinity; a != nil && *a > renewableFloor {
		b[BonusRenewable] = math.Min(renewableMaxBonus, (*a-renewableFloor)/10)
	}

	if c.StrategicValue == model.StrategicHigh {
		b[BonusStrategic] = strategicBonus
	}

	return b
}
