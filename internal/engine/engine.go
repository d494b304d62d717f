package engine

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/preluded103/gridintel-cli/internal/model"
)

// Engine owns the mutable recommendation configuration and drives the
// scoring pipeline. It is safe for concurrent use: configuration access
// is guarded by a read/write lock, and each Recommend call scores
// against an immutable snapshot taken once at the top of the call, so a
// concurrent config update cannot change scoring mid-batch.
type Engine struct {
	mu  sync.RWMutex
	cfg Config
}

// New creates an Engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.Clone()}
}

// NewDefault creates an Engine with the default configuration.
func NewDefault() *Engine {
	return New(DefaultConfig())
}

// Config returns a read-only snapshot of the active configuration.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.Clone()
}

// UpdateConfig merges a partial update into the current configuration.
// Weight values are clamped to [0, 1]; the weight map is not required
// to sum to 1.0 (use NormalizeWeights to rescale). Unspecified fields
// are left untouched.
func (e *Engine) UpdateConfig(u ConfigUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for k, w := range u.Weights {
		e.cfg.Weights[k] = clamp(0, 1, w)
	}
	if u.MinCapacityMW != nil {
		e.cfg.Thresholds.MinCapacityMW = *u.MinCapacityMW
	}
	if u.MaxDistanceKM != nil {
		e.cfg.Thresholds.MaxDistanceKM = *u.MaxDistanceKM
	}
	if u.MaxTimelineMonths != nil {
		e.cfg.Thresholds.MaxTimelineMonths = *u.MaxTimelineMonths
	}
	if u.Tiers != nil {
		e.cfg.Tiers = *u.Tiers
	}
	if u.Regional != nil {
		e.cfg.Regional = u.Regional.clone()
	}
}

// ApplyPreset replaces the weight map wholesale with the named preset.
func (e *Engine) ApplyPreset(name string) error {
	weights, err := PresetWeights(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.cfg.Weights = weights
	e.mu.Unlock()

	zap.L().Debug("engine: preset applied", zap.String("preset", name))
	return nil
}

// NormalizeWeights rescales the current weight map so its components
// sum to 1.0, preserving relative proportions. A zero-sum map is left
// unchanged.
func (e *Engine) NormalizeWeights() {
	e.mu.Lock()
	defer e.mu.Unlock()

	sum := WeightSum(e.cfg.Weights)
	if sum == 0 {
		return
	}
	for k, w := range e.cfg.Weights {
		e.cfg.Weights[k] = w / sum
	}
}

// Recommend runs the full pipeline over a candidate batch: eligibility
// filter, factor scoring, regional adjustment, bonuses, aggregation,
// tier classification, and a stable sort by final score descending.
// Ineligible candidates are omitted silently; an empty or fully
// filtered batch yields an empty, non-error result.
func (e *Engine) Recommend(candidates []model.ConnectionOpportunity, actx model.AnalysisContext) []model.ScoredRecommendation {
	snapshot := e.Config()

	results := make([]model.ScoredRecommendation, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if !eligible(c, snapshot.Thresholds) {
			continue
		}
		results = append(results, scoreOne(c, &actx, &snapshot))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	zap.L().Debug("engine: recommendations generated",
		zap.Int("candidates", len(candidates)),
		zap.Int("eligible", len(results)),
	)

	return results
}

// scoreOne scores a single eligible candidate against a config snapshot.
func scoreOne(c *model.ConnectionOpportunity, actx *model.AnalysisContext, cfg *Config) model.ScoredRecommendation {
	scores := make(map[string]float64, len(cfg.Weights))
	var weighted float64
	for name, w := range cfg.Weights {
		s, ok := factorScore(name, c, actx, cfg)
		if !ok {
			continue
		}
		scores[name] = s
		weighted += w * s
	}

	regional := resolveRegional(c.Country, cfg.Regional)
	bonuses := computeBonuses(c)

	var bonusSum float64
	for _, b := range bonuses {
		bonusSum += b
	}

	// Clamping is the only upper-bound guarantee: factor scores, the
	// regional adjustment, and bonuses may jointly exceed 100 first.
	final := clamp(0, 100, weighted+regional.Points+bonusSum)

	tier, narrative := classifyTier(final, cfg.Tiers)
	strengths, concerns := deriveInsights(scores, c)

	return model.ScoredRecommendation{
		Opportunity:  *c,
		FactorScores: scores,
		Regional:     regional,
		Bonuses:      bonuses,
		FinalScore:   final,
		Tier:         tier,
		Narrative:    narrative,
		Strengths:    strengths,
		Concerns:     concerns,
		NextSteps:    nextSteps(tier, c, scores),
	}
}
