// Package db persists simulation runs and their per-step samples in an
// embedded SQLite database.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL handle with run-store operations.
type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the database at path and bootstraps the schema.
// Schema changes beyond the bootstrap are applied with MigrateUp.
func NewDB(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = sqldb.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			stop_reason       TEXT NOT NULL,
			eject_decel       DOUBLE,
			eject_threshold   DOUBLE,
			mass_kg           DOUBLE,
			mu                DOUBLE,
			theta_rad         DOUBLE,
			crr               DOUBLE,
			obstacle_m        DOUBLE,
			initial_speed_mps DOUBLE,
			timestep_s        DOUBLE,
			time_scale        DOUBLE,
			duration_s        DOUBLE,
			travel_m          DOUBLE,
			max_speed_mps     DOUBLE,
			p50_speed_mps     DOUBLE,
			p85_speed_mps     DOUBLE,
			p95_speed_mps     DOUBLE,
			max_decel_mps2    DOUBLE,
			max_brake         DOUBLE,
			steps             BIGINT,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS run_samples (
			run_id            TEXT NOT NULL,
			seq               BIGINT NOT NULL,
			t                 DOUBLE,
			x                 DOUBLE,
			v                 DOUBLE,
			a                 DOUBLE,
			brake             DOUBLE,
			distance          DOUBLE,
			PRIMARY KEY (run_id, seq),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping schema: %w", err)
	}

	return &DB{sqldb}, nil
}
