// Package sqlite persists sweep results in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BielJM1/MRTAOptima/internal/sim"
	"github.com/BielJM1/MRTAOptima/internal/sweep"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sweeps (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sweep_id TEXT NOT NULL,
	combo TEXT NOT NULL,
	seed INTEGER NOT NULL,
	status TEXT NOT NULL,
	ticks INTEGER NOT NULL,
	utility_pct REAL NOT NULL,
	lead_time REAL NOT NULL,
	distance REAL NOT NULL,
	work_done INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	UNIQUE(sweep_id, combo, seed),
	FOREIGN KEY(sweep_id) REFERENCES sweeps(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_runs_sweep_combo ON runs(sweep_id, combo);
`

type Store struct {
	db *sql.DB
}

// SweepInfo is one registered sweep with its run count.
type SweepInfo struct {
	ID        string
	Label     string
	CreatedAt time.Time
	Runs      int
}

// ComboAggregate is the per-combination summary computed in SQL.
type ComboAggregate struct {
	Combo          string
	Runs           int
	ForcedEnd      int
	MeanTicks      float64
	MeanUtilityPct float64
	MeanLeadTime   float64
	MeanDistance   float64
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set sqlite pragma %q: %w", stmt, err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *Store) CreateSweep(ctx context.Context, id, label string, createdAt time.Time) error {
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sweeps(id, label, created_at) VALUES(?, ?, ?)`,
		id, label, createdAt.UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("create sweep: %w", err)
	}
	return nil
}

func (s *Store) RecordRun(ctx context.Context, rec sweep.RunRecord) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs(
			sweep_id, combo, seed, status, ticks, utility_pct, lead_time, distance, work_done, created_at
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SweepID, rec.Combo, rec.Seed, string(rec.Status), rec.Ticks,
		rec.UtilityPercent, rec.LeadTime, rec.Distance, rec.WorkDone,
		time.Now().UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (s *Store) ListSweeps(ctx context.Context) ([]SweepInfo, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT s.id, s.label, s.created_at, COUNT(r.id)
		FROM sweeps s
		LEFT JOIN runs r ON r.sweep_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sweeps: %w", err)
	}
	defer rows.Close()

	result := make([]SweepInfo, 0)
	for rows.Next() {
		var info SweepInfo
		var created int64
		if err := rows.Scan(&info.ID, &info.Label, &created, &info.Runs); err != nil {
			return nil, fmt.Errorf("scan sweep: %w", err)
		}
		info.CreatedAt = time.Unix(created, 0).UTC()
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweeps: %w", err)
	}
	return result, nil
}

func (s *Store) ListRuns(ctx context.Context, sweepID string) ([]sweep.RunRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT sweep_id, combo, seed, status, ticks, utility_pct, lead_time, distance, work_done
		FROM runs
		WHERE sweep_id = ?
		ORDER BY combo ASC, seed ASC`,
		sweepID,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	result := make([]sweep.RunRecord, 0)
	for rows.Next() {
		var rec sweep.RunRecord
		var status string
		if err := rows.Scan(
			&rec.SweepID, &rec.Combo, &rec.Seed, &status, &rec.Ticks,
			&rec.UtilityPercent, &rec.LeadTime, &rec.Distance, &rec.WorkDone,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Status = sim.Status(status)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return result, nil
}

// AggregateByCombo summarizes one sweep's runs per combination.
func (s *Store) AggregateByCombo(ctx context.Context, sweepID string) ([]ComboAggregate, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT combo, COUNT(*),
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
			AVG(ticks), AVG(utility_pct), AVG(lead_time), AVG(distance)
		FROM runs
		WHERE sweep_id = ?
		GROUP BY combo
		ORDER BY AVG(utility_pct) DESC`,
		string(sim.StatusUnreasonableTime), sweepID,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate runs: %w", err)
	}
	defer rows.Close()

	result := make([]ComboAggregate, 0)
	for rows.Next() {
		var agg ComboAggregate
		if err := rows.Scan(
			&agg.Combo, &agg.Runs, &agg.ForcedEnd,
			&agg.MeanTicks, &agg.MeanUtilityPct, &agg.MeanLeadTime, &agg.MeanDistance,
		); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregates: %w", err)
	}
	return result, nil
}
