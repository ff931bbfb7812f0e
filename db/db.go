// Package db persists scrape runs to Postgres. Businesses are upserted
// on (name, address) so repeated runs deduplicate across time.
package db

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/Comba92/paginegialle-scraper/models"

	_ "github.com/lib/pq"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection. The DSN comes from
// DATABASE_URL or from the discrete DB_* environment variables.
func NewDB() (*DB, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		host := getEnvOrDefault("DB_HOST", "localhost")
		port := getEnvOrDefault("DB_PORT", "5432")
		user := getEnvOrDefault("DB_USER", "paginegialle")
		password := getEnvOrDefault("DB_PASSWORD", "")
		dbname := getEnvOrDefault("DB_NAME", "paginegialle")
		sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables if they don't exist
func (db *DB) initSchema() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS scrape_runs (
			id SERIAL PRIMARY KEY,
			region VARCHAR(100) NOT NULL,
			province VARCHAR(100) NOT NULL,
			category VARCHAR(255) NOT NULL,
			pages_requested INTEGER NOT NULL DEFAULT 0,
			records_kept INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create scrape_runs table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS businesses (
			id SERIAL PRIMARY KEY,
			run_id INTEGER REFERENCES scrape_runs(id),
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			phones TEXT NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT business_identity UNIQUE (name, address)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create businesses table: %w", err)
	}

	return nil
}

// SaveRun records a scrape run and returns its ID
func (db *DB) SaveRun(region, province, category string, pagesRequested int) (int64, error) {
	var id int64
	err := db.conn.QueryRow(`
		INSERT INTO scrape_runs (region, province, category, pages_requested)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, region, province, category, pagesRequested).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
}

// SaveBusiness upserts one business under a run
func (db *DB) SaveBusiness(runID int64, b models.Business) error {
	_, err := db.conn.Exec(`
		INSERT INTO businesses (run_id, name, address, phones, city)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT business_identity
		DO UPDATE SET phones = EXCLUDED.phones, run_id = EXCLUDED.run_id, updated_at = CURRENT_TIMESTAMP
	`, runID, b.Name, b.Address, b.Phones, b.City)
	if err != nil {
		return fmt.Errorf("failed to save business: %w", err)
	}
	return nil
}

// FinishRun records how many records a run kept
func (db *DB) FinishRun(runID int64, recordsKept int) error {
	_, err := db.conn.Exec(`
		UPDATE scrape_runs SET records_kept = $2 WHERE id = $1
	`, runID, recordsKept)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}
