package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables loads the schema into the database at process start.
// Statements are idempotent, so restarting against an existing database
// is a no-op.
func createTables(db *sqlx.DB) error {
	// Create users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create tokens table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tokens (
			token VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create trips table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trips (
			id VARCHAR(36) PRIMARY KEY,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			origin VARCHAR(255) NOT NULL,
			destination VARCHAR(255) NOT NULL,
			owner_user_id VARCHAR(36) NOT NULL REFERENCES users(id),
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create trip_participants table. No uniqueness constraint on the
	// user/trip pair: duplicate rows are allowed and removal deletes
	// all of them.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trip_participants (
			id VARCHAR(36) PRIMARY KEY,
			trip_id VARCHAR(36) NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return err
	}

	// Create trip_events table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trip_events (
			id VARCHAR(36) PRIMARY KEY,
			trip_id VARCHAR(36) NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			event_time TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create expense_groups table. trip_id carries no foreign key on
	// purpose: expense history outlives trip deletion.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS expense_groups (
			id VARCHAR(36) PRIMARY KEY,
			trip_id VARCHAR(36) NOT NULL,
			paid_by VARCHAR(36) NOT NULL REFERENCES users(id),
			description TEXT,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create expense_shares table. No stored total anywhere: group
	// totals are always derived from these rows.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS expense_shares (
			id VARCHAR(36) PRIMARY KEY,
			expense_group_id VARCHAR(36) NOT NULL REFERENCES expense_groups(id) ON DELETE CASCADE,
			owed_by VARCHAR(36) NOT NULL REFERENCES users(id),
			amount BIGINT NOT NULL CHECK (amount >= 0)
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_trip_participants_trip_id ON trip_participants(trip_id)",
		"CREATE INDEX IF NOT EXISTS idx_trip_events_trip_id ON trip_events(trip_id)",
		"CREATE INDEX IF NOT EXISTS idx_expense_groups_trip_id ON expense_groups(trip_id)",
		"CREATE INDEX IF NOT EXISTS idx_expense_shares_group_id ON expense_shares(expense_group_id)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to create index")
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
