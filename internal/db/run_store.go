package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/veloforge/brakesim/internal/motion"
	"github.com/veloforge/brakesim/internal/recorder"
	"github.com/veloforge/brakesim/internal/session"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one row of the runs table. EjectDecel is non-nil only for
// ejected runs; the configured threshold lives in Params.
type RunRecord struct {
	RunID      string           `json:"run_id"`
	StopReason string           `json:"stop_reason"`
	EjectDecel *float64         `json:"eject_decel,omitempty"`
	Params     session.Params   `json:"params"`
	Summary    recorder.Summary `json:"summary"`
	CreatedAt  sql.NullString   `json:"created_at,omitempty"`
}

// RecordRun persists a terminal result and its buffered samples in one
// transaction.
func (db *DB) RecordRun(res session.Result, samples []recorder.Sample) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var ejectDecel interface{}
	if res.Stop.Eject != nil {
		ejectDecel = res.Stop.Eject.Decel
	}

	_, err = tx.Exec(`
		INSERT INTO runs (
			run_id, stop_reason, eject_decel, eject_threshold,
			mass_kg, mu, theta_rad, crr, obstacle_m, initial_speed_mps, timestep_s, time_scale,
			duration_s, travel_m, max_speed_mps,
			p50_speed_mps, p85_speed_mps, p95_speed_mps, max_decel_mps2, max_brake, steps
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Stop.Reason.String(), ejectDecel, res.Params.EjectThreshold,
		res.Params.Mass, res.Params.Mu, res.Params.Theta, res.Params.Crr,
		res.Params.Obstacle, res.Params.InitialSpeed, res.Params.DT, res.Params.TimeScale,
		res.Summary.Duration, res.Summary.Travel, res.Summary.MaxSpeedMps,
		res.Summary.P50SpeedMps, res.Summary.P85SpeedMps, res.Summary.P95SpeedMps,
		res.Summary.MaxDecel, res.Summary.MaxBrake, res.Summary.Steps,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", res.RunID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_samples (run_id, seq, t, x, v, a, brake, distance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing sample insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range samples {
		if _, err := stmt.Exec(res.RunID, i, s.T, s.X, s.V, s.A, s.Brake, s.Distance); err != nil {
			return fmt.Errorf("inserting sample %d of run %s: %w", i, res.RunID, err)
		}
	}

	return tx.Commit()
}

// GetRun loads one run row by id.
func (db *DB) GetRun(runID string) (*RunRecord, error) {
	row := db.QueryRow(`
		SELECT run_id, stop_reason, eject_decel, eject_threshold,
			mass_kg, mu, theta_rad, crr, obstacle_m, initial_speed_mps, timestep_s, time_scale,
			duration_s, travel_m, max_speed_mps,
			p50_speed_mps, p85_speed_mps, p95_speed_mps, max_decel_mps2, max_brake, steps,
			created_at
		FROM runs WHERE run_id = ?`, runID)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return rec, err
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT run_id, stop_reason, eject_decel, eject_threshold,
			mass_kg, mu, theta_rad, crr, obstacle_m, initial_speed_mps, timestep_s, time_scale,
			duration_s, travel_m, max_speed_mps,
			p50_speed_mps, p85_speed_mps, p95_speed_mps, max_decel_mps2, max_brake, steps,
			created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetSamples loads a run's samples ordered by step sequence.
func (db *DB) GetSamples(runID string) ([]recorder.Sample, error) {
	rows, err := db.Query(`
		SELECT t, x, v, a, brake, distance
		FROM run_samples WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading samples for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []recorder.Sample
	for rows.Next() {
		var s recorder.Sample
		if err := rows.Scan(&s.T, &s.X, &s.V, &s.A, &s.Brake, &s.Distance); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (*RunRecord, error) {
	var rec RunRecord
	err := sc.Scan(
		&rec.RunID, &rec.StopReason, &rec.EjectDecel, &rec.Params.EjectThreshold,
		&rec.Params.Mass, &rec.Params.Mu, &rec.Params.Theta, &rec.Params.Crr,
		&rec.Params.Obstacle, &rec.Params.InitialSpeed, &rec.Params.DT, &rec.Params.TimeScale,
		&rec.Summary.Duration, &rec.Summary.Travel, &rec.Summary.MaxSpeedMps,
		&rec.Summary.P50SpeedMps, &rec.Summary.P85SpeedMps, &rec.Summary.P95SpeedMps,
		&rec.Summary.MaxDecel, &rec.Summary.MaxBrake, &rec.Summary.Steps,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if _, perr := motion.ParseStopReason(rec.StopReason); perr != nil {
		return nil, fmt.Errorf("run %s: %w", rec.RunID, perr)
	}
	return &rec, nil
}
