package engine

import (
	"strings"

	"github.com/preluded103/gridintel-cli/internal/model"
)

// Neutral defaults applied when an optional attribute is absent.
const (
	neutralReliabilityScore = 50.0
	neutralTSOScore         = 70.0
	neutralRiskScore        = 60.0
)

// tsoQualityMatrix is the static quality score per transmission system
// operator, keyed by lowercased operator name. Unknown operators receive
// the neutral default.
var tsoQualityMatrix = map[string]float64{
	"fingrid":          95,
	"svenska kraftnät": 92,
	"statnett":         90,
	"energinet":        88,
	"tennet":           82,
	"national grid":    80,
	"elering":          80,
	"rte":              78,
	"litgrid":          76,
	"ast":              75,
	"50hertz":          74,
	"amprion":          74,
	"transnetbw":       73,
	"elia":             78,
	"pse":              68,
}

// scoreDistance converts distance to the site into a 0-100 score.
// Strictly non-increasing: under 2 km is excellent (>=90), beyond 10 km
// the score drops below 50 within a couple of kilometers.
func scoreDistance(km float64) float64 {
	switch {
	case km <= 0:
		return 100
	case km <= 2:
		return 100 - 4*km
	case km <= 5:
		return 92 - 8*(km-2)
	case km <= 10:
		return 68 - 3.2*(km-5)
	default:
		return clamp(0, 100, 52-2*(km-10))
	}
}

// scoreCapacity scores available capacity against the required minimum.
// A 3x buffer or more is maximal; exactly meeting the requirement is a
// middling 50. requiredMW <= 0 yields a neutral score.
func scoreCapacity(capacityMW, requiredMW float64) float64 {
	if requiredMW <= 0 {
		return 75
	}
	r := capacityMW / requiredMW
	switch {
	case r >= 3:
		return 100
	case r >= 2:
		return 85 + 15*(r-2)
	case r >= 1.5:
		return 70 + 30*(r-1.5)
	case r >= 1:
		return 50 + 40*(r-1)
	default:
		return clamp(0, 100, 50*r)
	}
}

// scoreTimeline scores the estimated connection timeline in months,
// non-increasing: half a year or less is excellent, beyond two years
// the score falls toward the reject band.
func scoreTimeline(months int) float64 {
	m := float64(months)
	switch {
	case m <= 0:
		return 100
	case m <= 6:
		return 100 - m
	case m <= 12:
		return 94 - 4*(m-6)
	case m <= 24:
		return 70 - 1.5*(m-12)
	default:
		return clamp(0, 100, 52-2*(m-24))
	}
}

// scoreCost scores the estimated connection cost in EUR, non-increasing.
func scoreCost(costEUR float64) float64 {
	m := costEUR / 1_000_000
	switch {
	case m <= 0:
		return 100
	case m <= 1:
		return 100 - 8*m
	case m <= 3:
		return 92 - 11*(m-1)
	case m <= 8:
		return 70 - 4*(m-3)
	default:
		return clamp(0, 100, 50-3*(m-8))
	}
}

// scoreReliability derives a 0-100 score from historical outage hours,
// redundant path count, and emergency response time. A missing record
// resolves to the neutral default rather than failing.
func scoreReliability(r *model.Reliability) float64 {
	if r == nil {
		return neutralReliabilityScore
	}

	// Outage history contributes up to 60 points, zeroing out at 100 h/yr.
	outage := clamp(0, 100, r.OutageHoursPerYear)
	score := 60 * (1 - outage/100)

	// Redundant paths contribute up to 30 points at three or more paths.
	paths := float64(r.RedundantPaths)
	if paths > 3 {
		paths = 3
	}
	if paths < 0 {
		paths = 0
	}
	score += 30 * paths / 3

	// Emergency response contributes up to 10 points.
	switch {
	case r.EmergencyResponseHrs <= 1:
		score += 10
	case r.EmergencyResponseHrs <= 4:
		score += 6
	default:
		score += 2
	}

	return clamp(0, 100, score)
}

// scoreTSOQuality looks up the operating entity in the static quality
// matrix; unknown entities receive the neutral default.
func scoreTSOQuality(tsoName string) float64 {
	if s, ok := tsoQualityMatrix[strings.ToLower(strings.TrimSpace(tsoName))]; ok {
		return s
	}
	return neutralTSOScore
}

// riskLevelScore maps one qualitative risk axis to its contribution.
// Unrecognized levels are treated as medium.
func riskLevelScore(l model.RiskLevel) float64 {
	switch l {
	case model.RiskLow:
		return 100
	case model.RiskMedium:
		return 60
	case model.RiskHigh:
		return 20
	default:
		return 60
	}
}

// scoreRisk averages the four qualitative risk axes; a missing record
// resolves to the neutral default.
func scoreRisk(r *model.RiskProfile) float64 {
	if r == nil {
		return neutralRiskScore
	}
	sum := riskLevelScore(r.Permitting) +
		riskLevelScore(r.Technical) +
		riskLevelScore(r.Environmental) +
		riskLevelScore(r.Commercial)
	return sum / 4
}

// requiredCapacity resolves the minimum capacity requirement for a
// candidate: the analysis context wins, then the candidate's own
// technical requirements, then the eligibility threshold.
func requiredCapacity(c *model.ConnectionOpportunity, actx *model.AnalysisContext, cfg *Config) float64 {
	if actx != nil && actx.Requirements.MinCapacityMW > 0 {
		return actx.Requirements.MinCapacityMW
	}
	if c.Requirements.MinCapacityMW > 0 {
		return c.Requirements.MinCapacityMW
	}
	return cfg.Thresholds.MinCapacityMW
}

// factorScore dispatches a weighted factor name to its scorer. The
// second return is false for factor names the engine does not know,
// which then contribute nothing to the weighted sum.
func factorScore(name string, c *model.ConnectionOpportunity, actx *model.AnalysisContext, cfg *Config) (float64, bool) {
	switch name {
	case FactorDistance:
		return scoreDistance(c.DistanceKM), true
	case FactorCapacity:
		return scoreCapacity(c.CapacityMW, requiredCapacity(c, actx, cfg)), true
	case FactorTimeline:
		return scoreTimeline(c.TimelineMonths), true
	case FactorCost:
		return scoreCost(c.EstimatedCostEUR), true
	case FactorReliability:
		return scoreReliability(c.Reliability), true
	case FactorTSOQuality:
		return scoreTSOQuality(c.TSOName), true
	case FactorRisk:
		return scoreRisk(c.Risk), true
	default:
		return 0, false
	}
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
