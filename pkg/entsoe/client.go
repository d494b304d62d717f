// Package entsoe is a client for the ENTSO-E Transparency Platform
// REST API, covering the queries the grid analysis pipeline needs:
// cross-border transfer capacity and infrastructure unavailability.
package entsoe

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"

	"github.com/preluded103/gridintel-cli/internal/resilience"
)

const (
	defaultBaseURL = "https://web-api.tp.entsoe.eu/api"

	// periodLayout is the yyyyMMddHHmm format the API expects.
	periodLayout = "200601021504"

	maxResponseBytes = 8 * 1024 * 1024
)

// Client queries the Transparency Platform.
type Client interface {
	TransmissionCapacity(ctx context.Context, fromCountry, toCountry string, p Period) ([]CapacityPoint, error)
	GridOutages(ctx context.Context, country string, p Period) ([]Outage, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimit overrides the default request rate.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *httpClient) { c.limiter = rate.NewLimiter(rate.Limit(perSec), burst) }
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Transparency Platform client. The security token
// is required for all API calls.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(2, 2),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TransmissionCapacity returns estimated net transfer capacity points
// between two countries over the period.
func (c *httpClient) TransmissionCapacity(ctx context.Context, fromCountry, toCountry string, p Period) ([]CapacityPoint, error) {
	from, err := areaCode(fromCountry)
	if err != nil {
		return nil, err
	}
	to, err := areaCode(toCountry)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("documentType", DocTypeTransferCapacity)
	params.Set("contract_MarketAgreement.Type", "A01")
	params.Set("in_Domain", to)
	params.Set("out_Domain", from)
	params.Set("periodStart", p.Start.UTC().Format(periodLayout))
	params.Set("periodEnd", p.End.UTC().Format(periodLayout))

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, eris.Wrapf(err, "entsoe: transfer capacity %s -> %s", fromCountry, toCountry)
	}

	var doc publicationDocument
	if err := decodeXML(body, &doc); err != nil {
		return nil, eris.Wrap(err, "entsoe: parse capacity document")
	}

	var points []CapacityPoint
	for _, ts := range doc.TimeSeries {
		for _, pt := range ts.Period.Points {
			points = append(points, CapacityPoint{Position: pt.Position, CapacityMW: pt.Quantity})
		}
	}

	zap.L().Debug("entsoe: transfer capacity retrieved",
		zap.String("from", fromCountry),
		zap.String("to", toCountry),
		zap.Int("points", len(points)),
	)
	return points, nil
}

// GridOutages returns transmission infrastructure unavailability
// intervals for a country over the period.
func (c *httpClient) GridOutages(ctx context.Context, country string, p Period) ([]Outage, error) {
	area, err := areaCode(country)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("documentType", DocTypeGridUnavailability)
	params.Set("biddingZone_Domain", area)
	params.Set("periodStart", p.Start.UTC().Format(periodLayout))
	params.Set("periodEnd", p.End.UTC().Format(periodLayout))

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, eris.Wrapf(err, "entsoe: grid outages %s", country)
	}

	var doc unavailabilityDocument
	if err := decodeXML(body, &doc); err != nil {
		return nil, eris.Wrap(err, "entsoe: parse unavailability document")
	}

	var outages []Outage
	for _, ts := range doc.TimeSeries {
		start, end, ok := outageInterval(ts)
		if !ok {
			continue
		}
		var mw float64
		for _, pt := range ts.AvailablePeriod.Points {
			if pt.Quantity > mw {
				mw = pt.Quantity
			}
		}
		outages = append(outages, Outage{Start: start, End: end, UnavailableMW: mw})
	}

	zap.L().Debug("entsoe: outages retrieved",
		zap.String("country", country),
		zap.Int("outages", len(outages)),
	)
	return outages, nil
}

// outageInterval resolves a time series to an outage interval. The
// Available_Period time interval is authoritative; when a series omits
// it, the document-level start/end dates serve as a day-resolution
// fallback.
func outageInterval(ts unavailabilityTimeSeries) (start, end time.Time, ok bool) {
	start, serr := time.Parse(time.RFC3339, ts.AvailablePeriod.TimeInterval.Start)
	end, eerr := time.Parse(time.RFC3339, ts.AvailablePeriod.TimeInterval.End)
	if serr == nil && eerr == nil {
		return start, end, true
	}

	start, serr = time.Parse("2006-01-02", ts.StartDate)
	end, eerr = time.Parse("2006-01-02", ts.EndDate)
	if serr == nil && eerr == nil {
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

// get performs a rate-limited GET with retries on transient failures
// and returns the response body, or an error extracted from an
// acknowledgement document.
func (c *httpClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	if c.token == "" {
		return nil, eris.New("entsoe: security token is required")
	}

	params.Set("securityToken", c.token)

	policy := resilience.DefaultPolicy()
	policy.OnRetry = resilience.Logger("entsoe", "get")

	body, err := resilience.Do(ctx, policy, func(ctx context.Context) ([]byte, error) {
		return c.getOnce(ctx, params)
	})
	if err != nil {
		return nil, err
	}

	// The API signals query errors with an acknowledgement document on 200.
	if bytes.Contains(body, []byte("Acknowledgement_MarketDocument")) {
		var ack acknowledgement
		if err := decodeXML(body, &ack); err == nil && ack.Reason.Text != "" {
			return nil, eris.Errorf("entsoe: %s (code %s)", ack.Reason.Text, ack.Reason.Code)
		}
		return nil, eris.New("entsoe: request rejected")
	}

	return body, nil
}

func (c *httpClient) getOnce(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "entsoe: rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "entsoe: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "entsoe: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, eris.Wrap(err, "entsoe: read response")
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("entsoe: status %d: %s", resp.StatusCode, truncate(body, 200))
		if resilience.TransientStatus(resp.StatusCode) {
			return nil, resilience.MarkTransient(statusErr)
		}
		return nil, statusErr
	}

	return body, nil
}

// decodeXML unmarshals an API document, honoring declared charsets.
func decodeXML(body []byte, v any) error {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "entsoe: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}
	return decoder.Decode(v)
}

func areaCode(country string) (string, error) {
	code, ok := CountryCodes[country]
	if !ok {
		return "", eris.Errorf("entsoe: no EIC code for country %q", country)
	}
	return code, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
