package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AdamSweetapple/garmin-to-notion/internal/config"
	"github.com/AdamSweetapple/garmin-to-notion/internal/insights"
	"github.com/AdamSweetapple/garmin-to-notion/internal/journal"
	"github.com/AdamSweetapple/garmin-to-notion/internal/myfitnesspal"
	"github.com/AdamSweetapple/garmin-to-notion/internal/notify"
	"github.com/AdamSweetapple/garmin-to-notion/internal/notion"
	"github.com/AdamSweetapple/garmin-to-notion/internal/sync"
)

var (
	flagDate string
	flagDays int
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:           "mfp-notion-sync",
		Short:         "Sync daily MyFitnessPal nutrition totals into a Notion database",
		Long:          "Fetches one or more days of MyFitnessPal nutrition totals (calories, macros, water, exercise burn) and creates or updates the matching rows in a Notion database.",
		SilenceUsage:  true,
		RunE:          runSync,
	}
	rootCmd.Flags().StringVar(&flagDate, "date", "", "sync a single date (YYYY-MM-DD) instead of today")
	rootCmd.Flags().IntVar(&flagDays, "days", 0, "sync today back through N-1 days (overrides SYNC_DAYS)")

	cleanupDays := 30
	cleanupCmd := &cobra.Command{
		Use:   "journal-cleanup",
		Short: "Remove old sync journal rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournalCleanup(cleanupDays)
		},
	}
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 30, "keep journal rows for the last N days")
	rootCmd.AddCommand(cleanupCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dates, err := datesToSync(cfg)
	if err != nil {
		return err
	}

	source := myfitnesspal.NewClient(cfg.MFPBaseURL, cfg.MFPCookie)
	store := notion.NewClient(cfg)
	syncer := sync.NewSyncer(source, store)

	var journalStore *journal.Store
	if cfg.JournalPath != "" {
		journalStore, err = journal.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("failed to open sync journal: %w", err)
		}
		defer journalStore.Close()
	}

	var digester insights.Generator
	if cfg.GeminiAPIKey != "" {
		digester, err = insights.NewGeminiGenerator(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize digest generator, continuing without digests")
			digester = nil
		} else {
			defer digester.Close()
		}
	}

	log.Info().Strs("dates", dates).Msg("Starting MyFitnessPal to Notion sync")
	report := syncer.Run(ctx, dates)

	digests := map[string]string{}
	if digester != nil {
		for _, res := range report.Results {
			if res.Snapshot == nil {
				continue
			}
			digest, err := digester.DailyDigest(ctx, *res.Snapshot)
			if err != nil {
				log.Error().Err(err).Str("date", res.Date).Msg("Digest generation failed")
				continue
			}
			log.Info().Str("date", res.Date).Msg(digest)
			digests[res.Date] = digest
		}
	}

	if journalStore != nil {
		for _, res := range report.Results {
			if err := journalStore.Record(ctx, journalEntry(res)); err != nil {
				log.Error().Err(err).Str("date", res.Date).Msg("Failed to record journal entry")
			}
		}
	}

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		notifier, err := notify.NewTelegramNotifier(cfg)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize Telegram notifier")
		} else if err := notifier.SendReport(notify.FormatReport(report, digests)); err != nil {
			log.Error().Err(err).Msg("Failed to send run report")
		}
	}

	created, updated, unchanged, skipped, failed := report.Counts()
	log.Info().
		Int("created", created).
		Int("updated", updated).
		Int("unchanged", unchanged).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Sync finished")
	return nil
}

// datesToSync resolves the run's date list from flags and config: an
// explicit --date pins a single day, otherwise today back through N-1
// days in the configured local timezone.
func datesToSync(cfg *config.Config) ([]string, error) {
	if flagDate != "" {
		if _, err := time.Parse("2006-01-02", flagDate); err != nil {
			return nil, fmt.Errorf("invalid --date %q: %w", flagDate, err)
		}
		return []string{flagDate}, nil
	}

	days := cfg.SyncDays
	if flagDays > 0 {
		days = flagDays
	}
	return sync.DatesBack(time.Now(), cfg.Location, days), nil
}

func journalEntry(res sync.DateResult) journal.Entry {
	e := journal.Entry{Date: res.Date, Action: res.Action.String()}
	if res.Skipped {
		e.Action = "skipped"
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	if res.Snapshot != nil {
		e.CaloriesIn = res.Snapshot.CaloriesIn
		e.CaloriesOut = res.Snapshot.CaloriesOut
		e.NetCalories = res.Snapshot.NetCalories
		e.ProteinG = res.Snapshot.ProteinG
		e.CarbsG = res.Snapshot.CarbsG
		e.FatsG = res.Snapshot.FatsG
		e.WaterML = res.Snapshot.WaterML
	}
	return e
}

func runJournalCleanup(days int) error {
	path := os.Getenv("SYNC_JOURNAL_PATH")
	if path == "" {
		return fmt.Errorf("SYNC_JOURNAL_PATH environment variable not set")
	}

	store, err := journal.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open sync journal: %w", err)
	}
	defer store.Close()

	affected, err := store.Cleanup(context.Background(), days)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	fmt.Printf("Removed %d old journal rows.\n", affected)
	return nil
}
