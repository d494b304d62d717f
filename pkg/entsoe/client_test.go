package entsoe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const capacityXML = `<?xml version="1.0" encoding="UTF-8"?>
<Publication_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:0">
	<TimeSeries>
		<Period>
			<Point><position>1</position><quantity>1200</quantity></Point>
			<Point><position>2</position><quantity>1150</quantity></Point>
		</Period>
	</TimeSeries>
	<TimeSeries>
		<Period>
			<Point><position>1</position><quantity>900</quantity></Point>
		</Period>
	</TimeSeries>
</Publication_MarketDocument>`

const unavailabilityXML = `<?xml version="1.0" encoding="UTF-8"?>
<Unavailability_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:outagedocument:3:0">
	<TimeSeries>
		<Available_Period>
			<timeInterval>
				<start>2026-01-10T06:00:00Z</start>
				<end>2026-01-10T18:00:00Z</end>
			</timeInterval>
			<Point><position>1</position><quantity>400</quantity></Point>
		</Available_Period>
	</TimeSeries>
</Unavailability_MarketDocument>`

const ackXML = `<?xml version="1.0" encoding="UTF-8"?>
<Acknowledgement_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-1:acknowledgementdocument:8:1">
	<Reason>
		<code>999</code>
		<text>No matching data found</text>
	</Reason>
</Acknowledgement_MarketDocument>`

func testPeriod() Period {
	return Period{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransmissionCapacity(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"securityToken": q.Get("securityToken"),
			"documentType":  q.Get("documentType"),
			"in_Domain":     q.Get("in_Domain"),
			"out_Domain":    q.Get("out_Domain"),
			"periodStart":   q.Get("periodStart"),
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(capacityXML)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	points, err := c.TransmissionCapacity(context.Background(), "Finland", "Sweden", testPeriod())
	require.NoError(t, err)

	require.Len(t, points, 3)
	assert.InDelta(t, 1200.0, points[0].CapacityMW, 0.001)
	assert.Equal(t, 1, points[0].Position)
	assert.InDelta(t, 900.0, points[2].CapacityMW, 0.001)

	assert.Equal(t, "test-token", gotQuery["securityToken"])
	assert.Equal(t, DocTypeTransferCapacity, gotQuery["documentType"])
	assert.Equal(t, CountryCodes["Sweden"], gotQuery["in_Domain"])
	assert.Equal(t, CountryCodes["Finland"], gotQuery["out_Domain"])
	assert.Equal(t, "202601010000", gotQuery["periodStart"])
}

func TestGridOutages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DocTypeGridUnavailability, r.URL.Query().Get("documentType"))
		w.Write([]byte(unavailabilityXML)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	outages, err := c.GridOutages(context.Background(), "Finland", testPeriod())
	require.NoError(t, err)

	require.Len(t, outages, 1)
	assert.InDelta(t, 400.0, outages[0].UnavailableMW, 0.001)
	assert.InDelta(t, 12.0, outages[0].End.Sub(outages[0].Start).Hours(), 0.001)
}

// Some series omit the Available_Period time interval and only carry
// document-level start/end dates.
func TestGridOutagesDateFallback(t *testing.T) {
	const dateOnlyXML = `<?xml version="1.0" encoding="UTF-8"?>
<Unavailability_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:outagedocument:3:0">
	<TimeSeries>
		<start_DateAndOrTime.date>2026-01-10</start_DateAndOrTime.date>
		<end_DateAndOrTime.date>2026-01-12</end_DateAndOrTime.date>
		<Available_Period>
			<Point><position>1</position><quantity>250</quantity></Point>
		</Available_Period>
	</TimeSeries>
	<TimeSeries>
		<start_DateAndOrTime.date>2026-01-10</start_DateAndOrTime.date>
	</TimeSeries>
</Unavailability_MarketDocument>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(dateOnlyXML)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	outages, err := c.GridOutages(context.Background(), "Finland", testPeriod())
	require.NoError(t, err)

	// The series with neither an interval nor both dates is dropped.
	require.Len(t, outages, 1)
	assert.InDelta(t, 250.0, outages[0].UnavailableMW, 0.001)
	assert.InDelta(t, 48.0, outages[0].End.Sub(outages[0].Start).Hours(), 0.001)
}

func TestAcknowledgementBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ackXML)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	_, err := c.GridOutages(context.Background(), "Finland", testPeriod())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No matching data found")
}

func TestHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-token", WithBaseURL(srv.URL))
	_, err := c.GridOutages(context.Background(), "Finland", testPeriod())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTransientStatusIsRetried(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(unavailabilityXML)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	outages, err := c.GridOutages(context.Background(), "Finland", testPeriod())
	require.NoError(t, err)
	require.Len(t, outages, 1)
	assert.Equal(t, 2, hits)
}

func TestMissingToken(t *testing.T) {
	c := NewClient("")
	_, err := c.GridOutages(context.Background(), "Finland", testPeriod())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security token")
}

func TestUnknownCountry(t *testing.T) {
	c := NewClient("test-token")
	_, err := c.GridOutages(context.Background(), "Atlantis", testPeriod())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no EIC code")
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	stats := Summarize([]Outage{
		{Start: now, End: now.Add(4 * time.Hour)},
		{Start: now, End: now.Add(30 * time.Minute)},
		{Start: now, End: now}, // zero-length ignored
	})
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 4.5, stats.TotalHours, 0.001)
}
