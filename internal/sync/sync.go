package sync

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/AdamSweetapple/garmin-to-notion/internal/myfitnesspal"
	"github.com/AdamSweetapple/garmin-to-notion/internal/notion"
)

// Source reads one day's data from the fitness provider.
type Source interface {
	DayTotals(ctx context.Context, date string) (*myfitnesspal.DayTotals, error)
	Water(ctx context.Context, date string) (float64, error)
}

// Syncer runs the per-date pipeline: read the provider, locate the
// stored record, reconcile, write.
type Syncer struct {
	source Source
	store  notion.Client
}

// NewSyncer creates a Syncer over a provider source and a store client.
func NewSyncer(source Source, store notion.Client) *Syncer {
	return &Syncer{source: source, store: store}
}

// DateResult records the outcome of one date's sync.
type DateResult struct {
	Date     string
	Action   Action
	Snapshot *Snapshot
	Skipped  bool // provider had no diary data for the date
	Err      error
}

// Report aggregates a run's per-date outcomes.
type Report struct {
	Results []DateResult
}

// Counts tallies the run's outcomes by category.
func (r Report) Counts() (created, updated, unchanged, skipped, failed int) {
	for _, res := range r.Results {
		switch {
		case res.Err != nil:
			failed++
		case res.Skipped:
			skipped++
		case res.Action == ActionCreate:
			created++
		case res.Action == ActionUpdate:
			updated++
		default:
			unchanged++
		}
	}
	return
}

// Run processes the dates strictly in order, one at a time. A failing date
// never aborts the run.
func (s *Syncer) Run(ctx context.Context, dates []string) Report {
	var report Report
	for _, date := range dates {
		report.Results = append(report.Results, s.SyncDate(ctx, date))
	}
	return report
}

// SyncDate synchronizes a single date. The store is not contacted when the
// provider has no data or fails for that date.
func (s *Syncer) SyncDate(ctx context.Context, date string) DateResult {
	res := DateResult{Date: date}

	log.Info().Str("date", date).Msg("Fetching MyFitnessPal data")
	totals, err := s.source.DayTotals(ctx, date)
	if err != nil {
		if errors.Is(err, myfitnesspal.ErrNoData) {
			log.Warn().Str("date", date).Msg("No diary data, skipping")
			res.Skipped = true
			return res
		}
		log.Error().Err(err).Str("date", date).Msg("Failed to fetch diary")
		res.Err = err
		return res
	}

	water, err := s.source.Water(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("Failed to fetch water intake")
		res.Err = err
		return res
	}

	snap := NewSnapshot(date, *totals, water)
	res.Snapshot = &snap
	log.Info().
		Str("date", date).
		Int("calories_in", snap.CaloriesIn).
		Int("calories_out", snap.CaloriesOut).
		Int("net", snap.NetCalories).
		Int("water_ml", snap.WaterML).
		Msg("Fetched day totals")

	rec, err := s.store.FindByDate(ctx, date)
	if err != nil {
		// Query failures fall through to a create; the date may end up
		// with a duplicate page.
		log.Error().Err(err).Str("date", date).Msg("Store query failed, assuming no existing entry")
		rec = nil
	}

	decision := Reconcile(rec, snap)
	res.Action = decision.Action

	switch decision.Action {
	case ActionCreate:
		log.Info().Str("date", date).Msg("No existing entry found, creating")
		if err := s.store.CreateEntry(ctx, snap.Entry()); err != nil {
			log.Error().Err(err).Str("date", date).
				Interface("payload", snap.Entry()).
				Msg("Failed to create entry")
			res.Err = err
			return res
		}
		log.Info().Str("date", date).Msg("Created entry")
	case ActionUpdate:
		log.Info().Str("date", date).Str("page_id", decision.PageID).Msg("Changes detected, updating entry")
		if err := s.store.UpdateEntry(ctx, decision.PageID, snap.Entry()); err != nil {
			log.Error().Err(err).Str("date", date).Str("page_id", decision.PageID).
				Interface("payload", snap.Entry()).
				Msg("Failed to update entry")
			res.Err = err
			return res
		}
		log.Info().Str("date", date).Msg("Updated entry")
	default:
		log.Info().Str("date", date).Msg("Entry is up to date")
	}

	return res
}
