package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/preluded103/gridintel-cli/internal/db"
	"github.com/preluded103/gridintel-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS substations (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	operator    TEXT NOT NULL,
	country     TEXT NOT NULL,
	voltage_kv  DOUBLE PRECISION NOT NULL,
	capacity_mw DOUBLE PRECISION NOT NULL,
	lat         DOUBLE PRECISION NOT NULL,
	lon         DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS opportunities (
	id        TEXT NOT NULL,
	site_name TEXT NOT NULL,
	payload   JSONB NOT NULL,
	PRIMARY KEY (site_name, id)
);

CREATE TABLE IF NOT EXISTS analysis_runs (
	id         UUID PRIMARY KEY,
	site_name  TEXT NOT NULL,
	preset     TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS recommendations (
	run_id      UUID NOT NULL REFERENCES analysis_runs(id),
	rank        INTEGER NOT NULL,
	final_score DOUBLE PRECISION NOT NULL,
	tier        INTEGER NOT NULL,
	payload     JSONB NOT NULL,
	PRIMARY KEY (run_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_substations_country ON substations(country);
CREATE INDEX IF NOT EXISTS idx_opportunities_site ON opportunities(site_name);
`

// Migrate applies the schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// substationColumns is the COPY column order for bulk substation loads.
var substationColumns = []string{"name", "operator", "country", "voltage_kv", "capacity_mw", "lat", "lon"}

// InsertSubstations bulk-loads substation records via COPY.
func (s *PostgresStore) InsertSubstations(ctx context.Context, subs []model.Substation) (int64, error) {
	rows := make([][]any, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, []any{
			sub.Name, sub.Operator, sub.Country, sub.VoltageKV, sub.CapacityMW, sub.Lat, sub.Lon,
		})
	}
	n, err := db.CopyFrom(ctx, s.pool, "substations", substationColumns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert substations")
	}
	return n, nil
}

// ListSubstations returns substations, optionally filtered by country.
func (s *PostgresStore) ListSubstations(ctx context.Context, country string) ([]model.Substation, error) {
	query := `SELECT id, name, operator, country, voltage_kv, capacity_mw, lat, lon FROM substations`
	var args []any
	if country != "" {
		query += ` WHERE country = $1`
		args = append(args, country)
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list substations")
	}
	defer rows.Close()

	var subs []model.Substation
	for rows.Next() {
		var sub model.Substation
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Operator, &sub.Country,
			&sub.VoltageKV, &sub.CapacityMW, &sub.Lat, &sub.Lon); err != nil {
			return nil, eris.Wrap(err, "postgres: scan substation")
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// SaveOpportunities upserts candidate records for a site.
func (s *PostgresStore) SaveOpportunities(ctx context.Context, siteName string, opps []model.ConnectionOpportunity) error {
	for _, o := range opps {
		payload, err := json.Marshal(o)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal opportunity %s", o.ID)
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO opportunities (id, site_name, payload) VALUES ($1, $2, $3)
			 ON CONFLICT (site_name, id) DO UPDATE SET payload = excluded.payload`,
			o.ID, siteName, payload,
		); err != nil {
			return eris.Wrapf(err, "postgres: save opportunity %s", o.ID)
		}
	}
	return nil
}

// ListOpportunities returns the candidate records stored for a site.
func (s *PostgresStore) ListOpportunities(ctx context.Context, siteName string) ([]model.ConnectionOpportunity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM opportunities WHERE site_name = $1 ORDER BY id`, siteName)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list opportunities")
	}
	defer rows.Close()

	var opps []model.ConnectionOpportunity
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan opportunity")
		}
		var o model.ConnectionOpportunity
		if err := json.Unmarshal(payload, &o); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal opportunity")
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

// CreateRun records a new analysis run and returns it.
func (s *PostgresStore) CreateRun(ctx context.Context, siteName, preset string) (*model.AnalysisRun, error) {
	run := &model.AnalysisRun{
		ID:       uuid.NewString(),
		SiteName: siteName,
		Preset:   preset,
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO analysis_runs (id, site_name, preset) VALUES ($1, $2, $3)`,
		run.ID, run.SiteName, run.Preset,
	); err != nil {
		return nil, eris.Wrap(err, "postgres: create run")
	}
	return run, nil
}

// SaveRecommendations stores a run's scored results, ranked by position.
func (s *PostgresStore) SaveRecommendations(ctx context.Context, runID string, recs []model.ScoredRecommendation) error {
	for i, rec := range recs {
		payload, err := json.Marshal(rec)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal recommendation %s", rec.Opportunity.ID)
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO recommendations (run_id, rank, final_score, tier, payload) VALUES ($1, $2, $3, $4, $5)`,
			runID, i+1, rec.FinalScore, rec.Tier, payload,
		); err != nil {
			return eris.Wrapf(err, "postgres: save recommendation %s", rec.Opportunity.ID)
		}
	}
	return nil
}

// ListRecommendations returns a run's results in rank order.
func (s *PostgresStore) ListRecommendations(ctx context.Context, runID string) ([]model.ScoredRecommendation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM recommendations WHERE run_id = $1 ORDER BY rank`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list recommendations")
	}
	defer rows.Close()

	var recs []model.ScoredRecommendation
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan recommendation")
		}
		var rec model.ScoredRecommendation
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal recommendation")
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}
