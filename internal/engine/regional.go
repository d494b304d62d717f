package engine

import (
	"strings"

	"github.com/preluded103/gridintel-cli/internal/model"
)

// noAdjustmentDescription is returned for jurisdictions absent from the
// regional table.
const noAdjustmentDescription = "No regional adjustment applied"

// resolveRegional maps a candidate's jurisdiction to its signed point
// adjustment. The lookup is total: unmapped countries resolve to an
// explicit zero adjustment, and a bucket name with no table row behaves
// the same way.
func resolveRegional(country string, table RegionalTable) model.RegionalAdjustment {
	region, ok := lookupRegion(country, table.Countries)
	if !ok {
		return model.RegionalAdjustment{Description: noAdjustmentDescription}
	}
	bucket, ok := table.Buckets[region]
	if !ok {
		return model.RegionalAdjustment{Region: region, Description: noAdjustmentDescription}
	}
	return model.RegionalAdjustment{
		Region:      region,
		Points:      bucket.Points,
		Description: bucket.Description,
	}
}

// lookupRegion finds the bucket for a country, case-insensitively.
func lookupRegion(country string, countries map[string]string) (string, bool) {
	if r, ok := countries[country]; ok {
		return r, true
	}
	for k, r := range countries {
		if strings.EqualFold(k, strings.TrimSpace(country)) {
			return r, true
		}
	}
	return "", false
}
