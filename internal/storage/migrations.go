package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application
// expects. A database that cannot reach it is unusable.
const ExpectedSchemaVersion = 3

// Migration is one database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source TEXT NOT NULL,
					success INTEGER NOT NULL,
					record_count INTEGER NOT NULL,
					expected_count INTEGER NOT NULL,
					count_mismatch INTEGER NOT NULL,
					cardinality TEXT,
					classification_path TEXT,
					confidence REAL DEFAULT 0,
					cost_usd REAL DEFAULT 0,
					elapsed_ms INTEGER DEFAULT 0,
					error TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_runs_created ON runs(created_at)`,
				`CREATE INDEX idx_runs_source ON runs(source)`,

				`CREATE TABLE IF NOT EXISTS bookings (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					run_id INTEGER NOT NULL,
					customer TEXT,
					booked_by_name TEXT,
					booked_by_phone TEXT,
					booked_by_email TEXT,
					passenger_name TEXT,
					passenger_phone TEXT,
					passenger_email TEXT,
					from_location TEXT,
					to_location TEXT,
					vehicle_group TEXT,
					duty_type TEXT,
					start_date TEXT,
					end_date TEXT,
					reporting_time TEXT,
					reporting_address TEXT,
					drop_address TEXT,
					flight_train_number TEXT,
					dispatch_center TEXT,
					remarks TEXT,
					labels TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (run_id) REFERENCES runs(id)
				)`,
				`CREATE INDEX idx_bookings_run ON bookings(run_id)`,
				`CREATE INDEX idx_bookings_start_date ON bookings(start_date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index duty type for billing queries",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`CREATE INDEX idx_bookings_duty_type ON bookings(duty_type)`); err != nil {
				return fmt.Errorf("failed to execute query: %w", err)
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Record per-booking extraction provenance",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE bookings ADD COLUMN confidence REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE bookings ADD COLUMN extraction_method TEXT NOT NULL DEFAULT ''`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to ExpectedSchemaVersion.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("schema version %d does not match expected %d", finalVersion, ExpectedSchemaVersion)
	}

	return nil
}
