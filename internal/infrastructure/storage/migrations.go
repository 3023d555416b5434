package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "archive_tables",
		Up:      migration001ArchiveTables,
	},
	{
		Version: 2,
		Name:    "template_tables",
		Up:      migration002TemplateTables,
	},
	{
		Version: 3,
		Name:    "catalog_tables",
		Up:      migration003CatalogTables,
	},
	{
		Version: 4,
		Name:    "reference_tables",
		Up:      migration004ReferenceTables,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue // Already applied
		}

		log.Printf("Running migration %d: %s", migration.Version, migration.Name)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		_, err = tx.Exec(`
			INSERT INTO schema_migrations (version, name) VALUES (?, ?)
		`, migration.Version, migration.Name)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table
func (s *Storage) ensureMigrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := s.db.Exec(query)
	return err
}

// getAppliedMigrations returns a set of applied migration versions
func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func migration001ArchiveTables(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS saved_positions (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		service TEXT NOT NULL,
		position_number INTEGER NOT NULL,
		total_price REAL NOT NULL DEFAULT 0,
		total_income REAL NOT NULL DEFAULT 0,
		total_expense REAL NOT NULL DEFAULT 0,
		items_count INTEGER NOT NULL DEFAULT 0,
		export_date TIMESTAMP NOT NULL,
		counterparty_name TEXT,
		document_name TEXT,
		upd_status TEXT,
		url TEXT
	)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
	CREATE TABLE IF NOT EXISTS saved_position_items (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		position_id TEXT NOT NULL REFERENCES saved_positions(id) ON DELETE CASCADE,
		position_name TEXT NOT NULL,
		income_expense_type TEXT NOT NULL,
		item_json TEXT NOT NULL
	)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_saved_position_items_position ON saved_position_items(position_id)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_saved_positions_document ON saved_positions(document_name)`)
	return err
}

func migration002TemplateTables(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		name TEXT NOT NULL UNIQUE,
		description TEXT
	)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
	CREATE TABLE IF NOT EXISTS template_items (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		template_id TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
		item_json TEXT NOT NULL,
		original_position_id TEXT,
		original_service_name TEXT
	)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_template_items_template ON template_items(template_id)`)
	return err
}

func migration003CatalogTables(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS bearings (
		id TEXT PRIMARY KEY,
		designation TEXT NOT NULL UNIQUE,
		price_per_unit REAL NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
	CREATE TABLE IF NOT EXISTS motors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		power_kw REAL NOT NULL DEFAULT 0,
		rpm INTEGER NOT NULL DEFAULT 0,
		price_per_unit REAL NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
	CREATE TABLE IF NOT EXISTS wires (
		id TEXT PRIMARY KEY,
		brand TEXT NOT NULL,
		cross_section REAL NOT NULL DEFAULT 0,
		price_per_meter REAL NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(brand, cross_section)
	)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
	CREATE TABLE IF NOT EXISTS individual_employees (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		job_title TEXT,
		hourly_rate REAL NOT NULL DEFAULT 0,
		description TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func migration004ReferenceTables(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS counterparties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		inn TEXT,
		kpp TEXT,
		address TEXT,
		contact_person TEXT,
		phone TEXT,
		email TEXT,
		description TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_counterparties_inn ON counterparties(inn) WHERE inn IS NOT NULL AND inn != ''`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
	CREATE TABLE IF NOT EXISTS upd_documents (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		counterparty_name TEXT,
		document_name TEXT NOT NULL UNIQUE,
		document_date TEXT,
		status TEXT,
		is_active INTEGER NOT NULL DEFAULT 1
	)`)
	return err
}
