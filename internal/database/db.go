// Package database provides a Postgres-backed record store with the same
// append-only semantics as the JSONL store: outcome updates are written as
// new snapshot rows and collapsed on load.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Alias1177/Forecaster/internal/storage"
	"github.com/Alias1177/Forecaster/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// New opens a Postgres connection from a lib/pq connection string or URL
// and creates the forecast table if it does not exist
func New(connStr string) (*DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS forecast_records (
			seq BIGSERIAL PRIMARY KEY,
			record_id TEXT NOT NULL,
			question TEXT NOT NULL,
			forecast_date TIMESTAMPTZ NOT NULL,
			probability DOUBLE PRECISION NOT NULL,
			timeframe TEXT NOT NULL,
			confidence TEXT NOT NULL,
			actual_outcome BOOLEAN,
			outcome_date TIMESTAMPTZ,
			notes TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

// Load replays all snapshot rows in append order. Later snapshots of the
// same record_id replace earlier ones, mirroring the JSONL replay policy.
func (db *DB) Load() ([]models.ForecastRecord, error) {
	rows, err := db.Query(`
		SELECT record_id, question, forecast_date, probability,
			timeframe, confidence, actual_outcome, outcome_date, notes
		FROM forecast_records
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []models.ForecastRecord

	for rows.Next() {
		var record models.ForecastRecord
		var actualOutcome sql.NullBool
		var outcomeDate sql.NullTime

		if err := rows.Scan(
			&record.ID, &record.Question, &record.ForecastDate, &record.Probability,
			&record.Timeframe, &record.Confidence, &actualOutcome, &outcomeDate, &record.Notes,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		if actualOutcome.Valid {
			record.ActualOutcome = &actualOutcome.Bool
		}
		if outcomeDate.Valid {
			record.OutcomeDate = &outcomeDate.Time
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return storage.CollapseSnapshots(records), nil
}

// Append inserts one snapshot row; existing rows are never updated
func (db *DB) Append(record models.ForecastRecord) error {
	var actualOutcome sql.NullBool
	if record.ActualOutcome != nil {
		actualOutcome = sql.NullBool{Bool: *record.ActualOutcome, Valid: true}
	}
	var outcomeDate sql.NullTime
	if record.OutcomeDate != nil {
		outcomeDate = sql.NullTime{Time: *record.OutcomeDate, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO forecast_records (
			record_id, question, forecast_date, probability,
			timeframe, confidence, actual_outcome, outcome_date, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		record.ID, record.Question, record.ForecastDate, record.Probability,
		record.Timeframe, record.Confidence, actualOutcome, outcomeDate, record.Notes)

	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}
