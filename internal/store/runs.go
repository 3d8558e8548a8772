// Package store persists completed pipeline runs so the CLI and gateways
// can show past comparisons.
package store

import (
	"database/sql"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/anish/priceguard/internal/pipeline"
)

// Run is one archived pipeline invocation.
type Run struct {
	ID         int64
	Query      string
	Report     string
	Confidence float64
	Error      string
	CreatedAt  time.Time
}

type RunStore struct {
	DB *sql.DB
}

func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if not exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT,
			report TEXT,
			confidence REAL,
			error TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS prices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER,
			platform TEXT,
			price REAL,
			title TEXT,
			url TEXT,
			availability TEXT,
			error TEXT
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return nil, err
		}
	}

	return &RunStore{DB: db}, nil
}

// SaveRun archives a finished pipeline state and its extraction records.
func (s *RunStore) SaveRun(st pipeline.State) (int64, error) {
	confidence := 0.0
	if st.Confidence != nil {
		confidence = *st.Confidence
	}

	res, err := s.DB.Exec(
		`INSERT INTO runs (query, report, confidence, error) VALUES (?, ?, ?, ?)`,
		st.ProductQuery, st.FinalReport, confidence, st.Error,
	)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, rec := range st.PriceData {
		var price any
		if rec.Price != nil {
			price = *rec.Price
		}
		_, err = s.DB.Exec(
			`INSERT INTO prices (run_id, platform, price, title, url, availability, error) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, string(rec.Platform), price, rec.Title, rec.URL, rec.Availability, rec.Err,
		)
		if err != nil {
			return 0, err
		}
	}

	return runID, nil
}

// Recent returns the newest runs, most recent first.
func (s *RunStore) Recent(limit int) ([]Run, error) {
	rows, err := s.DB.Query(
		`SELECT id, query, report, confidence, error, created_at FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Query, &r.Report, &r.Confidence, &r.Error, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Prices returns the extraction records archived for a run, in insertion
// order.
func (s *RunStore) Prices(runID int64) ([]pipeline.PriceRecord, error) {
	rows, err := s.DB.Query(
		`SELECT platform, price, title, url, availability, error FROM prices WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []pipeline.PriceRecord
	for rows.Next() {
		var rec pipeline.PriceRecord
		var platform string
		var price sql.NullFloat64
		if err := rows.Scan(&platform, &price, &rec.Title, &rec.URL, &rec.Availability, &rec.Err); err != nil {
			return nil, err
		}
		rec.Platform = pipeline.Platform(platform)
		if price.Valid {
			v := price.Float64
			rec.Price = &v
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *RunStore) Close() error {
	return s.DB.Close()
}
