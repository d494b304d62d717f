package engine

import (
	"fmt"

	"github.com/preluded103/gridintel-cli/internal/model"
)

// Factor score bands used when deriving strengths and concerns.
const (
	strengthThreshold = 80.0
	concernThreshold  = 50.0
)

// strengthLabel describes a high-scoring factor for the candidate.
func strengthLabel(factor string, c *model.ConnectionOpportunity) string {
	switch factor {
	case FactorDistance:
		return fmt.Sprintf("Close to connection point (%.1f km)", c.DistanceKM)
	case FactorCapacity:
		return fmt.Sprintf("Ample available capacity (%.0f MW)", c.CapacityMW)
	case FactorTimeline:
		return fmt.Sprintf("Short connection timeline (%d months)", c.TimelineMonths)
	case FactorCost:
		return fmt.Sprintf("Competitive connection cost (EUR %.1fM)", c.EstimatedCostEUR/1e6)
	case FactorReliability:
		return "Strong reliability track record"
	case FactorTSOQuality:
		return fmt.Sprintf("High-quality operator (%s)", c.TSOName)
	case FactorRisk:
		return "Low overall project risk"
	default:
		return fmt.Sprintf("Strong %s", factor)
	}
}

// concernLabel describes a low-scoring factor for the candidate.
func concernLabel(factor string, c *model.ConnectionOpportunity) string {
	switch factor {
	case FactorDistance:
		return fmt.Sprintf("Long interconnection distance (%.1f km)", c.DistanceKM)
	case FactorCapacity:
		return fmt.Sprintf("Limited capacity headroom (%.0f MW available)", c.CapacityMW)
	case FactorTimeline:
		return fmt.Sprintf("Extended connection timeline (%d months)", c.TimelineMonths)
	case FactorCost:
		return fmt.Sprintf("High connection cost (EUR %.1fM)", c.EstimatedCostEUR/1e6)
	case FactorReliability:
		return "Reliability history below expectations"
	case FactorTSOQuality:
		return fmt.Sprintf("Operator track record uncertain (%s)", c.TSOName)
	case FactorRisk:
		return "Elevated project risk profile"
	default:
		return fmt.Sprintf("Weak %s", factor)
	}
}

// deriveInsights builds the strengths and concerns lists from the
// per-factor scores in the fixed factor order, so output is stable.
func deriveInsights(scores map[string]float64, c *model.ConnectionOpportunity) (strengths, concerns []string) {
	for _, f := range factorOrder {
		s, ok := scores[f]
		if !ok {
			continue
		}
		switch {
		case s >= strengthThreshold:
			strengths = append(strengths, strengthLabel(f, c))
		case s < concernThreshold:
			concerns = append(concerns, concernLabel(f, c))
		}
	}
	return strengths, concerns
}

// nextSteps returns the recommended follow-up actions for a tier.
func nextSteps(tier int, c *model.ConnectionOpportunity, scores map[string]float64) []string {
	var steps []string
	switch tier {
	case 1:
		steps = append(steps,
			fmt.Sprintf("Initiate connection enquiry with %s", c.TSOName),
			"Commission detailed grid connection feasibility study",
			"Request binding capacity reservation terms",
		)
	case 2:
		steps = append(steps,
			fmt.Sprintf("Open preliminary discussions with %s", c.TSOName),
			"Scope mitigation options for the flagged concerns",
		)
	case 3:
		steps = append(steps,
			"Commission independent risk assessment",
			"Re-evaluate against alternative connection points",
		)
	default:
		steps = append(steps, "Monitor for grid reinforcement or capacity releases")
	}

	if s, ok := scores[FactorCost]; ok && s < concernThreshold && tier <= 3 {
		steps = append(steps, "Negotiate connection cost allocation with the TSO")
	}
	return steps
}
