package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
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
				`CREATE TABLE IF NOT EXISTS campaigns (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					municipalities TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS parcels (
					campaign_id INTEGER NOT NULL,
					municipality TEXT NOT NULL,
					sheet_id TEXT NOT NULL,
					parcel_id TEXT NOT NULL,
					province TEXT,
					area_hectares REAL NOT NULL DEFAULT 0,
					PRIMARY KEY (campaign_id, municipality, sheet_id, parcel_id),
					FOREIGN KEY (campaign_id) REFERENCES campaigns(id)
				)`,

				`CREATE TABLE IF NOT EXISTS classified_addresses (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					campaign_id INTEGER NOT NULL,
					owner_id TEXT NOT NULL,
					owner_name TEXT,
					declared_address TEXT NOT NULL,
					normalized_address TEXT NOT NULL,
					declared_province TEXT,
					parcels TEXT NOT NULL,
					geocode_ok BOOLEAN NOT NULL,
					geo_normalized TEXT,
					street_name TEXT,
					street_number TEXT,
					street_suffix TEXT,
					postal_code TEXT,
					city TEXT,
					province TEXT,
					latitude REAL,
					longitude REAL,
					tier TEXT NOT NULL,
					channel TEXT NOT NULL,
					reasoning TEXT,
					completeness REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (campaign_id) REFERENCES campaigns(id)
				)`,
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
		Description: "Add funnel stages and quality distribution",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS funnel_stages (
					campaign_id INTEGER NOT NULL,
					funnel TEXT NOT NULL,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					count INTEGER NOT NULL,
					area_hectares REAL NOT NULL DEFAULT 0,
					conversion REAL NOT NULL DEFAULT 0,
					retention REAL NOT NULL DEFAULT 0,
					PRIMARY KEY (campaign_id, funnel, position),
					FOREIGN KEY (campaign_id) REFERENCES campaigns(id)
				)`,

				`CREATE TABLE IF NOT EXISTS quality_distribution (
					campaign_id INTEGER NOT NULL,
					position INTEGER NOT NULL,
					tier TEXT NOT NULL,
					count INTEGER NOT NULL,
					percentage REAL NOT NULL,
					PRIMARY KEY (campaign_id, position),
					FOREIGN KEY (campaign_id) REFERENCES campaigns(id)
				)`,
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
		Version:     3,
		Description: "Index classified addresses for tier and channel queries",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_addresses_campaign_tier ON classified_addresses(campaign_id, tier)`,
				`CREATE INDEX IF NOT EXISTS idx_addresses_campaign_channel ON classified_addresses(campaign_id, channel)`,
				`CREATE INDEX IF NOT EXISTS idx_addresses_owner ON classified_addresses(owner_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
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
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
