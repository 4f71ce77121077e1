// Package sqlite serves the normalized detection table from a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS detections (
	date        TEXT    NOT NULL,
	latitude    REAL    NOT NULL,
	longitude   REAL    NOT NULL,
	brightness  REAL    NOT NULL,
	fire_origin INTEGER NOT NULL,
	fire_time   TEXT    NOT NULL,
	month       INTEGER NOT NULL,
	year        INTEGER NOT NULL
)`

// Store reads detections from a SQLite database. Every call to Detections
// re-reads the table, so storage failures surface on the cycle that hit them.
type Store struct {
	db *sql.DB
}

// Open connects to the database at path and verifies the connection.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(4)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate creates the detections table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create detections table: %w", err)
	}
	return nil
}

// Insert appends detections in a single transaction.
func (s *Store) Insert(ctx context.Context, rows []domain.Detection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO detections
		(date, latitude, longitude, brightness, fire_origin, fire_time, month, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range rows {
		if _, err := stmt.ExecContext(ctx, d.DayKey(), d.Latitude, d.Longitude, d.Brightness,
			int(d.Origin), string(d.Time), d.Month, d.Year); err != nil {
			return fmt.Errorf("insert detection: %w", err)
		}
	}
	return tx.Commit()
}

// Detections returns every row in insertion order.
func (s *Store) Detections(ctx context.Context) ([]domain.Detection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, latitude, longitude, brightness,
		fire_origin, fire_time, month, year FROM detections ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query detections: %w", err)
	}
	defer rows.Close()

	var out []domain.Detection
	for rows.Next() {
		var (
			d      domain.Detection
			date   string
			origin int
			ft     string
		)
		if err := rows.Scan(&date, &d.Latitude, &d.Longitude, &d.Brightness, &origin, &ft, &d.Month, &d.Year); err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}
		if d.Date, err = domain.ParseDate(date); err != nil {
			return nil, err
		}
		d.Origin = domain.FireOrigin(origin)
		d.Time = domain.FireTime(ft)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detections: %w", err)
	}
	return out, nil
}

// Count returns the number of stored detections.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM detections").Scan(&n); err != nil {
		return 0, fmt.Errorf("count detections: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
