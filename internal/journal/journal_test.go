package journal

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// A pooled :memory: database is a fresh database per connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE sync_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			action TEXT NOT NULL,
			calories_in INTEGER NOT NULL DEFAULT 0,
			calories_out INTEGER NOT NULL DEFAULT 0,
			net_calories INTEGER NOT NULL DEFAULT 0,
			protein_g INTEGER NOT NULL DEFAULT 0,
			carbs_g INTEGER NOT NULL DEFAULT 0,
			fats_g INTEGER NOT NULL DEFAULT 0,
			water_ml INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			synced_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		t.Fatal(err)
	}

	return NewStore(db)
}

func TestRecordAndHistory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := Entry{
		Date:        "2026-08-29",
		Action:      "create",
		CaloriesIn:  2000,
		CaloriesOut: 300,
		NetCalories: 1700,
		ProteinG:    90,
		CarbsG:      210,
		FatsG:       70,
		WaterML:     1500,
		SyncedAt:    time.Date(2026, 8, 29, 22, 0, 0, 0, time.UTC),
	}
	second := Entry{
		Date:     "2026-08-30",
		Action:   "skipped",
		Error:    "no diary data for date",
		SyncedAt: time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC),
	}

	if err := store.Record(ctx, first); err != nil {
		t.Fatalf("Failed to record first entry: %v", err)
	}
	if err := store.Record(ctx, second); err != nil {
		t.Fatalf("Failed to record second entry: %v", err)
	}

	entries, err := store.History(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	// Newest first.
	if entries[0].Date != "2026-08-30" || entries[1].Date != "2026-08-29" {
		t.Errorf("Expected newest-first ordering, got %s then %s", entries[0].Date, entries[1].Date)
	}
	if entries[0].Error != "no diary data for date" {
		t.Errorf("Expected error text to round-trip, got '%s'", entries[0].Error)
	}
	got := entries[1]
	if got.Action != "create" || got.CaloriesIn != 2000 || got.NetCalories != 1700 || got.WaterML != 1500 {
		t.Errorf("Entry did not round-trip: %+v", got)
	}
}

func TestRecordDefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Record(ctx, Entry{Date: "2026-08-30", Action: "no-op"}); err != nil {
		t.Fatalf("Failed to record entry: %v", err)
	}

	entries, err := store.History(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].SyncedAt.IsZero() {
		t.Error("Expected a default synced_at timestamp")
	}
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	old := Entry{Date: "2026-07-01", Action: "create", SyncedAt: time.Now().UTC().AddDate(0, 0, -40)}
	recent := Entry{Date: "2026-08-30", Action: "update", SyncedAt: time.Now().UTC().AddDate(0, 0, -1)}
	if err := store.Record(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, recent); err != nil {
		t.Fatal(err)
	}

	affected, err := store.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if affected != 1 {
		t.Errorf("Expected 1 row removed, got %d", affected)
	}

	entries, err := store.History(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Date != "2026-08-30" {
		t.Errorf("Expected only the recent entry to remain, got %+v", entries)
	}
}
