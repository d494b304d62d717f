// Package store persists substations, connection opportunities, and
// recommendation runs behind a driver-agnostic interface.
package store

import (
	"context"

	"github.com/preluded103/gridintel-cli/internal/model"
)

// Store defines the persistence interface for the grid analysis pipeline.
type Store interface {
	// Substations
	InsertSubstations(ctx context.Context, subs []model.Substation) (int64, error)
	ListSubstations(ctx context.Context, country string) ([]model.Substation, error)

	// Opportunities
	SaveOpportunities(ctx context.Context, siteName string, opps []model.ConnectionOpportunity) error
	ListOpportunities(ctx context.Context, siteName string) ([]model.ConnectionOpportunity, error)

	// Recommendation runs
	CreateRun(ctx context.Context, siteName, preset string) (*model.AnalysisRun, error)
	SaveRecommendations(ctx context.Context, runID string, recs []model.ScoredRecommendation) error
	ListRecommendations(ctx context.Context, runID string) ([]model.ScoredRecommendation, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
