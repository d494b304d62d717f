// Package proximity builds connection opportunity candidates for a site
// from stored substation records, optionally enriched with ENTSO-E outage
// history.
package proximity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/preluded103/gridintel-cli/internal/model"
	"github.com/preluded103/gridintel-cli/internal/store"
	"github.com/preluded103/gridintel-cli/pkg/entsoe"
)

const (
	earthRadiusKM = 6371.0

	defaultMaxDistanceKM = 50.0

	// Cost model: fixed interconnection works plus per-km line cost.
	baseCostEUR  = 1_200_000.0
	costPerKMEUR = 650_000.0
)

// countryTSO maps a jurisdiction to its transmission system operator,
// used when a substation record carries no operator attribute.
var countryTSO = map[string]string{
	"finland":     "Fingrid",
	"sweden":      "Svenska Kraftnät",
	"norway":      "Statnett",
	"denmark":     "Energinet",
	"germany":     "TenneT",
	"netherlands": "TenneT",
	"estonia":     "Elering",
}

// Collector derives candidates from the substation store.
type Collector struct {
	store         store.Store
	client        entsoe.Client
	maxDistanceKM float64
}

// Option configures a Collector.
type Option func(*Collector)

// WithENTSOE enables outage enrichment through the given client.
func WithENTSOE(client entsoe.Client) Option {
	return func(c *Collector) { c.client = client }
}

// WithMaxDistance overrides the candidate search radius in km.
func WithMaxDistance(km float64) Option {
	return func(c *Collector) {
		if km > 0 {
			c.maxDistanceKM = km
		}
	}
}

// New creates a Collector over the given store.
func New(st store.Store, opts ...Option) *Collector {
	c := &Collector{store: st, maxDistanceKM: defaultMaxDistanceKM}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect builds an AnalysisContext for the site: every stored substation
// within the search radius becomes a candidate, nearest first. When an
// ENTSO-E client is configured, candidates gain reliability records from
// the last twelve months of grid outages, fetched concurrently per country.
func (c *Collector) Collect(ctx context.Context, site model.Site, req model.TechnicalRequirements) (model.AnalysisContext, error) {
	out := model.AnalysisContext{Site: site, Requirements: req}

	subs, err := c.store.ListSubstations(ctx, "")
	if err != nil {
		return out, eris.Wrap(err, "proximity: list substations")
	}

	origin := geom.NewPointFlat(geom.XY, []float64{site.Lon, site.Lat}).SetSRID(4326)

	for _, sub := range subs {
		pt := geom.NewPointFlat(geom.XY, []float64{sub.Lon, sub.Lat}).SetSRID(4326)
		dist := haversineKM(origin, pt)
		if dist > c.maxDistanceKM {
			continue
		}
		out.Opportunities = append(out.Opportunities, c.candidate(sub, dist, req))
	}

	sort.SliceStable(out.Opportunities, func(i, j int) bool {
		return out.Opportunities[i].DistanceKM < out.Opportunities[j].DistanceKM
	})

	if c.client != nil && len(out.Opportunities) > 0 {
		if err := c.enrich(ctx, out.Opportunities); err != nil {
			// Enrichment is best-effort; candidates stay usable without it.
			zap.L().Warn("proximity: outage enrichment failed", zap.Error(err))
		}
	}

	zap.L().Debug("proximity: collected candidates",
		zap.String("site", site.Name),
		zap.Int("substations", len(subs)),
		zap.Int("candidates", len(out.Opportunities)),
	)

	return out, nil
}

func (c *Collector) candidate(sub model.Substation, distKM float64, req model.TechnicalRequirements) model.ConnectionOpportunity {
	tso := sub.Operator
	if tso == "" {
		tso = countryTSO[strings.ToLower(sub.Country)]
	}

	return model.ConnectionOpportunity{
		ID:               fmt.Sprintf("sub-%d", sub.ID),
		Name:             sub.Name,
		TSOName:          tso,
		Country:          sub.Country,
		DistanceKM:       distKM,
		CapacityMW:       sub.CapacityMW,
		VoltageKV:        sub.VoltageKV,
		TimelineMonths:   estimateTimeline(sub.VoltageKV),
		EstimatedCostEUR: baseCostEUR + distKM*costPerKMEUR,
		Requirements:     req,
	}
}

// enrich attaches reliability records derived from ENTSO-E grid outage
// history, one query per distinct country.
func (c *Collector) enrich(ctx context.Context, opps []model.ConnectionOpportunity) error {
	period := entsoe.Period{
		Start: time.Now().AddDate(-1, 0, 0),
		End:   time.Now(),
	}

	countries := make(map[string]struct{})
	for _, o := range opps {
		if _, ok := entsoe.CountryCodes[o.Country]; ok {
			countries[o.Country] = struct{}{}
		}
	}

	var mu sync.Mutex
	stats := make(map[string]entsoe.OutageStats, len(countries))

	g, gctx := errgroup.WithContext(ctx)
	for country := range countries {
		g.Go(func() error {
			outages, err := c.client.GridOutages(gctx, country, period)
			if err != nil {
				return eris.Wrapf(err, "proximity: outages for %s", country)
			}
			mu.Lock()
			stats[country] = entsoe.Summarize(outages)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range opps {
		s, ok := stats[opps[i].Country]
		if !ok {
			continue
		}
		opps[i].Reliability = &model.Reliability{
			OutageHoursPerYear: s.TotalHours,
			RedundantPaths:     redundantPaths(opps[i].VoltageKV),
		}
	}
	return nil
}

// estimateTimeline maps voltage class to a typical connection lead time.
// Transmission-level tie-ins carry longer TSO study and build phases.
func estimateTimeline(voltageKV float64) int {
	switch {
	case voltageKV >= 300:
		return 36
	case voltageKV >= 100:
		return 24
	default:
		return 18
	}
}

// redundantPaths assumes meshed operation at transmission voltages.
func redundantPaths(voltageKV float64) int {
	switch {
	case voltageKV >= 300:
		return 3
	case voltageKV >= 100:
		return 2
	default:
		return 1
	}
}

// haversineKM is the great-circle distance between two WGS84 points.
func haversineKM(a, b *geom.Point) float64 {
	lat1 := a.Y() * math.Pi / 180
	lat2 := b.Y() * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.X() - a.X()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
