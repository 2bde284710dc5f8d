// Package snapshot persists one KPI snapshot per study load to Postgres so
// the API can show how a study's data quality moved between exports.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/summary"
)

// Snapshot is the persisted outcome of one study load
type Snapshot struct {
	LoadID     string                 `json:"loadId"`
	StudyID    string                 `json:"studyId"`
	StudyName  string                 `json:"studyName"`
	Seed       float64                `json:"seed"`
	LoadedAt   time.Time              `json:"loadedAt"`
	DurationMS int64                  `json:"durationMs"`
	Overview   contracts.Overview     `json:"overview"`
	Files      []contracts.FileReport `json:"files"`
}

// FromLoad builds the snapshot of a finished load
func FromLoad(data *contracts.StudyData) Snapshot {
	s := Snapshot{Overview: summary.Overview(data), Files: []contracts.FileReport{}}
	if r := data.Report; r != nil {
		s.LoadID = r.ID
		s.StudyID = r.StudyID
		s.StudyName = r.StudyName
		s.Seed = r.Seed
		s.LoadedAt = r.StartedAt
		s.DurationMS = r.Duration.Milliseconds()
		s.Files = r.Files
	}
	return s
}

// DB is the subset of pgxpool.Pool the repository uses
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository handles load snapshot persistence
type Repository struct {
	db DB
}

// NewRepository creates a new snapshot repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const schema = `
	CREATE TABLE IF NOT EXISTS load_snapshots (
		load_id          UUID PRIMARY KEY,
		study_id         TEXT NOT NULL,
		study_name       TEXT NOT NULL,
		seed             DOUBLE PRECISION NOT NULL,
		loaded_at        TIMESTAMPTZ NOT NULL,
		duration_ms      BIGINT NOT NULL,
		total_sites      INTEGER NOT NULL,
		total_open       INTEGER NOT NULL,
		avg_quality      INTEGER NOT NULL,
		critical_sites   INTEGER NOT NULL,
		overview         JSONB NOT NULL,
		files            JSONB NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS load_snapshots_study_idx ON load_snapshots (study_id, loaded_at DESC);
`

// EnsureSchema creates the snapshot table when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure snapshot schema: %w", err)
	}
	return nil
}

// Save stores a snapshot; saving the same load id twice is a no-op
func (r *Repository) Save(ctx context.Context, s Snapshot) error {
	overview, err := json.Marshal(s.Overview)
	if err != nil {
		return fmt.Errorf("encode overview: %w", err)
	}
	files, err := json.Marshal(s.Files)
	if err != nil {
		return fmt.Errorf("encode file reports: %w", err)
	}

	query := `
		INSERT INTO load_snapshots (
			load_id, study_id, study_name, seed, loaded_at, duration_ms,
			total_sites, total_open, avg_quality, critical_sites, overview, files
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (load_id) DO NOTHING
	`

	_, err = r.db.Exec(ctx, query,
		s.LoadID,
		s.StudyID,
		s.StudyName,
		s.Seed,
		s.LoadedAt,
		s.DurationMS,
		s.Overview.TotalSites,
		s.Overview.TotalOpenQueries,
		s.Overview.AvgDataQualityScore,
		s.Overview.CriticalSites,
		overview,
		files,
	)
	if err != nil {
		return fmt.Errorf("save load snapshot: %w", err)
	}
	return nil
}

// History returns the latest snapshots of a study, newest first
func (r *Repository) History(ctx context.Context, studyID string, limit int) ([]Snapshot, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := `
		SELECT load_id::text, study_id, study_name, seed, loaded_at, duration_ms, overview, files
		FROM load_snapshots
		WHERE study_id = $1
		ORDER BY loaded_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, studyID, limit)
	if err != nil {
		return nil, fmt.Errorf("query load snapshots: %w", err)
	}
	defer rows.Close()

	out := []Snapshot{}
	for rows.Next() {
		var (
			s                  Snapshot
			overview, fileJSON []byte
		)
		if err := rows.Scan(&s.LoadID, &s.StudyID, &s.StudyName, &s.Seed,
			&s.LoadedAt, &s.DurationMS, &overview, &fileJSON); err != nil {
			return nil, fmt.Errorf("scan load snapshot: %w", err)
		}
		if err := json.Unmarshal(overview, &s.Overview); err != nil {
			return nil, fmt.Errorf("decode overview: %w", err)
		}
		if err := json.Unmarshal(fileJSON, &s.Files); err != nil {
			return nil, fmt.Errorf("decode file reports: %w", err)
		}
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate load snapshots: %w", err)
	}
	return out, nil
}
