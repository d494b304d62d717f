package engine

import "github.com/preluded103/gridintel-cli/internal/model"

// eligible reports whether a candidate passes the hard qualifying
// thresholds. Failing candidates are dropped before scoring with no
// diagnostic; an all-fail batch simply yields an empty result.
func eligible(c *model.ConnectionOpportunity, t Thresholds) bool {
	if c.CapacityMW < t.MinCapacityMW {
		return false
	}
	if c.DistanceKM > t.MaxDistanceKM {
		return false
	}
	if c.TimelineMonths > t.MaxTimelineMonths {
		return false
	}
	return true
}
