package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/preluded103/gridintel-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS substations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	operator    TEXT NOT NULL,
	country     TEXT NOT NULL,
	voltage_kv  REAL NOT NULL,
	capacity_mw REAL NOT NULL,
	lat         REAL NOT NULL,
	lon         REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS opportunities (
	id        TEXT NOT NULL,
	site_name TEXT NOT NULL,
	payload   TEXT NOT NULL,
	PRIMARY KEY (site_name, id)
);

CREATE TABLE IF NOT EXISTS analysis_runs (
	id         TEXT PRIMARY KEY,
	site_name  TEXT NOT NULL,
	preset     TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS recommendations (
	run_id      TEXT NOT NULL REFERENCES analysis_runs(id),
	rank        INTEGER NOT NULL,
	final_score REAL NOT NULL,
	tier        INTEGER NOT NULL,
	payload     TEXT NOT NULL,
	PRIMARY KEY (run_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_substations_country ON substations(country);
CREATE INDEX IF NOT EXISTS idx_opportunities_site ON opportunities(site_name);
CREATE INDEX IF NOT EXISTS idx_recommendations_run ON recommendations(run_id);
`

// Migrate applies the schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// InsertSubstations inserts substation records, returning the count.
func (s *SQLiteStore) InsertSubstations(ctx context.Context, subs []model.Substation) (int64, error) {
	if len(subs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin insert substations")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO substations (name, operator, country, voltage_kv, capacity_mw, lat, lon)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert substations")
	}
	defer stmt.Close()

	var n int64
	for _, sub := range subs {
		if _, err := stmt.ExecContext(ctx,
			sub.Name, sub.Operator, sub.Country, sub.VoltageKV, sub.CapacityMW, sub.Lat, sub.Lon,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert substation %s", sub.Name)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit substations")
	}
	return n, nil
}

// ListSubstations returns substations, optionally filtered by country.
func (s *SQLiteStore) ListSubstations(ctx context.Context, country string) ([]model.Substation, error) {
	query := `SELECT id, name, operator, country, voltage_kv, capacity_mw, lat, lon FROM substations`
	var args []any
	if country != "" {
		query += ` WHERE country = ?`
		args = append(args, country)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list substations")
	}
	defer rows.Close()

	var subs []model.Substation
	for rows.Next() {
		var sub model.Substation
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Operator, &sub.Country,
			&sub.VoltageKV, &sub.CapacityMW, &sub.Lat, &sub.Lon); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan substation")
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// SaveOpportunities upserts candidate records for a site as JSON payloads.
func (s *SQLiteStore) SaveOpportunities(ctx context.Context, siteName string, opps []model.ConnectionOpportunity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save opportunities")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, o := range opps {
		payload, err := json.Marshal(o)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal opportunity %s", o.ID)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO opportunities (id, site_name, payload) VALUES (?, ?, ?)
			 ON CONFLICT (site_name, id) DO UPDATE SET payload = excluded.payload`,
			o.ID, siteName, string(payload),
		); err != nil {
			return eris.Wrapf(err, "sqlite: save opportunity %s", o.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit opportunities")
}

// ListOpportunities returns the candidate records stored for a site.
func (s *SQLiteStore) ListOpportunities(ctx context.Context, siteName string) ([]model.ConnectionOpportunity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM opportunities WHERE site_name = ? ORDER BY id`, siteName)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list opportunities")
	}
	defer rows.Close()

	var opps []model.ConnectionOpportunity
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan opportunity")
		}
		var o model.ConnectionOpportunity
		if err := json.Unmarshal([]byte(payload), &o); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal opportunity")
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

// CreateRun records a new analysis run and returns it.
func (s *SQLiteStore) CreateRun(ctx context.Context, siteName, preset string) (*model.AnalysisRun, error) {
	run := &model.AnalysisRun{
		ID:       uuid.NewString(),
		SiteName: siteName,
		Preset:   preset,
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, site_name, preset) VALUES (?, ?, ?)`,
		run.ID, run.SiteName, run.Preset,
	); err != nil {
		return nil, eris.Wrap(err, "sqlite: create run")
	}
	return run, nil
}

// SaveRecommendations stores a run's scored results, ranked by position.
func (s *SQLiteStore) SaveRecommendations(ctx context.Context, runID string, recs []model.ScoredRecommendation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save recommendations")
	}
	defer tx.Rollback() //nolint:errcheck

	for i, rec := range recs {
		payload, err := json.Marshal(rec)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal recommendation %s", rec.Opportunity.ID)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recommendations (run_id, rank, final_score, tier, payload) VALUES (?, ?, ?, ?, ?)`,
			runID, i+1, rec.FinalScore, rec.Tier, string(payload),
		); err != nil {
			return eris.Wrapf(err, "sqlite: save recommendation %s", rec.Opportunity.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit recommendations")
}

// ListRecommendations returns a run's results in rank order.
func (s *SQLiteStore) ListRecommendations(ctx context.Context, runID string) ([]model.ScoredRecommendation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM recommendations WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list recommendations")
	}
	defer rows.Close()

	var recs []model.ScoredRecommendation
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan recommendation")
		}
		var rec model.ScoredRecommendation
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal recommendation")
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
