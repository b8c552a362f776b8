package journal

import (
	"context"
	"database/sql"
	"time"
)

// Entry is one processed date's outcome as recorded in the journal.
type Entry struct {
	ID          int64
	Date        string
	Action      string
	CaloriesIn  int
	CaloriesOut int
	NetCalories int
	ProteinG    int
	CarbsG      int
	FatsG       int
	WaterML     int
	Error       string
	SyncedAt    time.Time
}

// Store handles persistence of run outcomes to SQLite. The journal is
// write-only from the pipeline's point of view; reconciliation never
// reads it.
type Store struct {
	db *sql.DB
}

// NewStore wraps an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves one date's outcome.
func (s *Store) Record(ctx context.Context, e Entry) error {
	ts := e.SyncedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_log (
			date, action, calories_in, calories_out, net_calories,
			protein_g, carbs_g, fats_g, water_ml, error, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Date, e.Action, e.CaloriesIn, e.CaloriesOut, e.NetCalories,
		e.ProteinG, e.CarbsG, e.FatsG, e.WaterML, e.Error, ts,
	)
	return err
}

// History returns the most recent journal entries, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, action, calories_in, calories_out, net_calories,
		       protein_g, carbs_g, fats_g, water_ml, error, synced_at
		FROM sync_log
		ORDER BY synced_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Date, &e.Action, &e.CaloriesIn, &e.CaloriesOut, &e.NetCalories,
			&e.ProteinG, &e.CarbsG, &e.FatsG, &e.WaterML, &e.Error, &e.SyncedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Cleanup removes journal rows older than the given number of days and
// returns how many were removed.
func (s *Store) Cleanup(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	res, err := s.db.ExecContext(ctx, `DELETE FROM sync_log WHERE synced_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
