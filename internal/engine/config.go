// Package engine implements the multi-criteria scoring and recommendation
// engine that ranks candidate grid-connection opportunities for a site.
package engine

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Factor names used as keys in the weight map and factor-score output.
const (
	FactorDistance    = "distance"
	FactorCapacity    = "capacity"
	FactorTimeline    = "timeline"
	FactorCost        = "cost"
	FactorReliability = "reliability"
	FactorTSOQuality  = "tso_quality"
	FactorRisk        = "risk"
)

// factorOrder fixes the iteration order for deterministic output.
var factorOrder = []string{
	FactorDistance, FactorCapacity, FactorTimeline, FactorCost,
	FactorReliability, FactorTSOQuality, FactorRisk,
}

// Thresholds are the hard eligibility limits applied before scoring.
type Thresholds struct {
	MinCapacityMW     float64 `json:"min_capacity_mw" yaml:"min_capacity_mw" mapstructure:"min_capacity_mw"`
	MaxDistanceKM     float64 `json:"max_distance_km" yaml:"max_distance_km" mapstructure:"max_distance_km"`
	MaxTimelineMonths int     `json:"max_timeline_months" yaml:"max_timeline_months" mapstructure:"max_timeline_months"`
}

// TierBreakpoints are the minimum final scores for tiers 1-3. Anything
// below Tier3Min is tier 4.
type TierBreakpoints struct {
	Tier1Min float64 `json:"tier1_min" yaml:"tier1_min" mapstructure:"tier1_min"`
	Tier2Min float64 `json:"tier2_min" yaml:"tier2_min" mapstructure:"tier2_min"`
	Tier3Min float64 `json:"tier3_min" yaml:"tier3_min" mapstructure:"tier3_min"`
}

// RegionalBucket is one row of the regional adjustment table.
type RegionalBucket struct {
	Points      float64 `json:"points" yaml:"points"`
	Description string  `json:"description" yaml:"description"`
}

// RegionalTable maps jurisdictions to adjustment buckets. Countries not
// present in the Countries map resolve to a zero adjustment.
type RegionalTable struct {
	Buckets   map[string]RegionalBucket `json:"buckets" yaml:"buckets"`
	Countries map[string]string         `json:"countries" yaml:"countries"`
}

// Config is the full engine configuration. Values of this type are
// treated as immutable snapshots once handed to a scoring run.
type Config struct {
	Weights    map[string]float64 `json:"weights"`
	Thresholds Thresholds         `json:"thresholds"`
	Tiers      TierBreakpoints    `json:"tiers"`
	Regional   RegionalTable      `json:"regional"`
}

// ConfigUpdate is a partial configuration change. Nil fields and absent
// weight keys leave current values untouched.
type ConfigUpdate struct {
	Weights           map[string]float64 `json:"weights,omitempty"`
	MinCapacityMW     *float64           `json:"min_capacity_mw,omitempty"`
	MaxDistanceKM     *float64           `json:"max_distance_km,omitempty"`
	MaxTimelineMonths *int               `json:"max_timeline_months,omitempty"`
	Tiers             *TierBreakpoints   `json:"tiers,omitempty"`
	Regional          *RegionalTable     `json:"regional,omitempty"`
}

// DefaultWeights returns the balanced weight map (sums to 1.0).
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		FactorDistance:    0.20,
		FactorCapacity:    0.20,
		FactorTimeline:    0.15,
		FactorCost:        0.15,
		FactorReliability: 0.10,
		FactorTSOQuality:  0.10,
		FactorRisk:        0.10,
	}
}

// DefaultConfig returns the engine defaults used at construction.
func DefaultConfig() Config {
	return Config{
		Weights: DefaultWeights(),
		Thresholds: Thresholds{
			MinCapacityMW:     100,
			MaxDistanceKM:     25,
			MaxTimelineMonths: 48,
		},
		Tiers: TierBreakpoints{
			Tier1Min: 80,
			Tier2Min: 60,
			Tier3Min: 40,
		},
		Regional: DefaultRegionalTable(),
	}
}

// DefaultRegionalTable returns the built-in jurisdiction adjustments.
func DefaultRegionalTable() RegionalTable {
	return RegionalTable{
		Buckets: map[string]RegionalBucket{
			"Nordic": {
				Points:      5,
				Description: "Nordic grid region: strong renewable generation mix, stable regulation, competitive industrial power pricing",
			},
			"Baltic": {
				Points:      2,
				Description: "Baltic grid region: improving interconnection with the Nordic synchronous area",
			},
			"Western Europe": {
				Points:      1,
				Description: "Western Europe: mature grid with liquid connection markets",
			},
			"Central Europe": {
				Points:      -3,
				Description: "Central Europe: congested transmission corridors and extended permitting lead times",
			},
		},
		Countries: map[string]string{
			"Finland": "Nordic",
			"Sweden":  "Nordic",
			"Norway":  "Nordic",
			"Denmark": "Nordic",
			"Iceland": "Nordic",

			"Estonia":   "Baltic",
			"Latvia":    "Baltic",
			"Lithuania": "Baltic",

			"Netherlands":    "Western Europe",
			"Belgium":        "Western Europe",
			"France":         "Western Europe",
			"United Kingdom": "Western Europe",
			"Ireland":        "Western Europe",

			"Germany":     "Central Europe",
			"Poland":      "Central Europe",
			"Czechia":     "Central Europe",
			"Austria":     "Central Europe",
			"Switzerland": "Central Europe",
			"Slovakia":    "Central Europe",
			"Hungary":     "Central Europe",
		},
	}
}

// presets are the named weight maps selectable via ApplyPreset. Each
// replaces the weight map wholesale and sums to 1.0.
var presets = map[string]map[string]float64{
	"balanced": DefaultWeights(),
	"aggressive": {
		FactorDistance:    0.15,
		FactorCapacity:    0.25,
		FactorTimeline:    0.25,
		FactorCost:        0.10,
		FactorReliability: 0.05,
		FactorTSOQuality:  0.10,
		FactorRisk:        0.10,
	},
	"conservative": {
		FactorDistance:    0.10,
		FactorCapacity:    0.10,
		FactorTimeline:    0.05,
		FactorCost:        0.10,
		FactorReliability: 0.25,
		FactorTSOQuality:  0.15,
		FactorRisk:        0.25,
	},
	"cost-optimized": {
		FactorDistance:    0.10,
		FactorCapacity:    0.15,
		FactorTimeline:    0.10,
		FactorCost:        0.40,
		FactorReliability: 0.10,
		FactorTSOQuality:  0.05,
		FactorRisk:        0.10,
	},
}

// PresetNames lists the available presets in display order.
func PresetNames() []string {
	return []string{"balanced", "aggressive", "conservative", "cost-optimized"}
}

// PresetWeights returns a copy of the named preset's weight map. The
// name is case-insensitive.
func PresetWeights(name string) (map[string]float64, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, eris.Errorf("engine: unknown preset %q (available: %s)",
			name, strings.Join(PresetNames(), ", "))
	}
	out := make(map[string]float64, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out, nil
}

// Clone deep-copies a Config so callers can hold an immutable snapshot.
func (c Config) Clone() Config {
	out := c
	out.Weights = make(map[string]float64, len(c.Weights))
	for k, v := range c.Weights {
		out.Weights[k] = v
	}
	out.Regional = c.Regional.clone()
	return out
}

func (t RegionalTable) clone() RegionalTable {
	out := RegionalTable{
		Buckets:   make(map[string]RegionalBucket, len(t.Buckets)),
		Countries: make(map[string]string, len(t.Countries)),
	}
	for k, v := range t.Buckets {
		out.Buckets[k] = v
	}
	for k, v := range t.Countries {
		out.Countries[k] = v
	}
	return out
}

// WeightSum returns the sum of all weights in the map.
func WeightSum(weights map[string]float64) float64 {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	return sum
}
