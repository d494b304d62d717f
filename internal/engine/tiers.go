package engine

// Tier narratives attached to scored recommendations. The tier drives
// the narrative; callers treat the pairing as a contract.
const (
	tier1Narrative = "Proceed with detailed feasibility study and early TSO engagement"
	tier2Narrative = "Conditional proceed: resolve the flagged concerns before committing capital"
	tier3Narrative = "Detailed risk analysis required before pursuing this connection"
	tier4Narrative = "Not recommended under current assumptions; revisit if grid conditions change"
)

// classifyTier maps a final score to an ordinal tier (1 = best) and its
// templated recommendation narrative using the configured breakpoints.
func classifyTier(final float64, bp TierBreakpoints) (int, string) {
	switch {
	case final >= bp.Tier1Min:
		return 1, tier1Narrative
	case final >= bp.Tier2Min:
		return 2, tier2Narrative
	case final >= bp.Tier3Min:
		return 3, tier3Narrative
	default:
		return 4, tier4Narrative
	}
}
