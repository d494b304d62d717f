package entsoe

import "time"

// CountryCodes maps supported countries to their ENTSO-E Energy
// Identification Codes (EIC areas).
var CountryCodes = map[string]string{
	"Finland":     "10YFI-1--------U",
	"Sweden":      "10YSE-1--------K",
	"Norway":      "10YNO-0--------C",
	"Denmark":     "10YDK-1--------W",
	"Germany":     "10Y1001A1001A83F",
	"Netherlands": "10YNL----------L",
	"Estonia":     "10Y1001A1001A39I",
}

// Document types used by the Transparency Platform API.
const (
	DocTypeTransferCapacity   = "A61" // estimated net transfer capacity
	DocTypeGridUnavailability = "A78" // unavailability of transmission infrastructure
	DocTypeGenUnavailability  = "A80" // unavailability of generation units
)

// Period is a half-open query time range.
type Period struct {
	Start time.Time
	End   time.Time
}

// CapacityPoint is one resolved transfer-capacity value.
type CapacityPoint struct {
	Position   int
	CapacityMW float64
}

// Outage is one transmission or generation unavailability interval.
type Outage struct {
	Start         time.Time
	End           time.Time
	UnavailableMW float64
}

// OutageStats summarizes outages over a query period, in the shape the
// proximity collector needs to build reliability records.
type OutageStats struct {
	Count      int
	TotalHours float64
}

// Summarize aggregates a set of outages.
func Summarize(outages []Outage) OutageStats {
	var stats OutageStats
	for _, o := range outages {
		if !o.End.After(o.Start) {
			continue
		}
		stats.Count++
		stats.TotalHours += o.End.Sub(o.Start).Hours()
	}
	return stats
}

// publicationDocument is the (trimmed) Publication_MarketDocument
// response carrying transfer-capacity time series.
type publicationDocument struct {
	TimeSeries []struct {
		Period struct {
			Points []xmlPoint `xml:"Point"`
		} `xml:"Period"`
	} `xml:"TimeSeries"`
}

type xmlPoint struct {
	Position int     `xml:"position"`
	Quantity float64 `xml:"quantity"`
}

// unavailabilityDocument is the (trimmed) Unavailability_MarketDocument
// response carrying outage time series.
type unavailabilityDocument struct {
	TimeSeries []unavailabilityTimeSeries `xml:"TimeSeries"`
}

type unavailabilityTimeSeries struct {
	StartDate       string `xml:"start_DateAndOrTime.date"`
	EndDate         string `xml:"end_DateAndOrTime.date"`
	AvailablePeriod struct {
		TimeInterval struct {
			Start string `xml:"start"`
			End   string `xml:"end"`
		} `xml:"timeInterval"`
		Points []xmlPoint `xml:"Point"`
	} `xml:"Available_Period"`
}

// acknowledgement is the error document the API returns with HTTP 200.
type acknowledgement struct {
	Reason struct {
		Code string `xml:"code"`
		Text string `xml:"text"`
	} `xml:"Reason"`
}
