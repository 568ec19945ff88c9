package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Forecaster/config"
	"github.com/Alias1177/Forecaster/internal/database"
	"github.com/Alias1177/Forecaster/internal/storage"
	"github.com/Alias1177/Forecaster/internal/tracker"
	"github.com/Alias1177/Forecaster/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}

	tr, err := tracker.New(store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load forecast history")
	}

	if len(os.Args) > 1 && os.Args[1] == "resolve" {
		resolveOutcomes(tr)
		return
	}

	printHistory(tr)
	printCalibrationReport(tr)
	printConfidenceReport(tr)
}

func newStore(cfg *config.Config) (models.RecordStore, error) {
	if cfg.DatabaseURL != "" {
		return database.New(cfg.DatabaseURL)
	}
	return storage.NewJSONLStore(cfg.StorageFile), nil
}

// resolveOutcomes interactively marks tracked forecasts as resolved
func resolveOutcomes(tr *tracker.Tracker) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Unresolved forecasts:")
	for _, r := range tr.Records() {
		if !r.Resolved() {
			fmt.Printf("  - %s (%.0f%%, %s)\n", r.Question, r.Probability*100, r.Confidence)
		}
	}

	for {
		fmt.Print("\nQuestion to resolve (or 'quit'): ")
		if !scanner.Scan() {
			return
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" || strings.EqualFold(question, "quit") {
			return
		}

		fmt.Print("Did it happen? (y/n): ")
		if !scanner.Scan() {
			return
		}
		actual := strings.EqualFold(strings.TrimSpace(scanner.Text()), "y")

		fmt.Print("Notes: ")
		notes := ""
		if scanner.Scan() {
			notes = strings.TrimSpace(scanner.Text())
		}

		updated, err := tr.UpdateOutcome(question, actual, notes)
		if err != nil {
			log.Error().Err(err).Msg("Failed to record outcome")
			continue
		}
		if !updated {
			fmt.Println("No unresolved forecast matches that question.")
			continue
		}
		fmt.Println("Outcome recorded.")
	}
}

func printHistory(tr *tracker.Tracker) {
	records := tr.Records()
	fmt.Printf("FORECAST HISTORY (%d records)\n", len(records))
	fmt.Println(strings.Repeat("=", 60))
	for _, r := range records {
		status := "pending"
		if r.Resolved() {
			if *r.ActualOutcome {
				status = "resolved: YES"
			} else {
				status = "resolved: NO"
			}
		}
		fmt.Printf("%.0f%% (%s) %s [%s]\n", r.Probability*100, r.Confidence, r.Question, status)
	}
	fmt.Println()
}

func printCalibrationReport(tr *tracker.Tracker) {
	fmt.Println("CALIBRATION")
	fmt.Println(strings.Repeat("=", 60))

	report := tr.CalibrationReport()
	if report == nil {
		fmt.Println("No resolved forecasts yet.")
		fmt.Println()
		return
	}

	fmt.Printf("Resolved forecasts: %d\n", report.TotalForecasts)
	fmt.Printf("Brier score: %.4f (0 = perfect, 0.25 = chance)\n\n", report.BrierScore)

	for _, name := range tracker.BucketNames {
		stats, ok := report.CalibrationByBucket[name]
		if !ok {
			continue
		}
		fmt.Printf("  %-8s predicted %.0f%%, observed %.0f%% (n=%d)\n",
			name, stats.PredictedFrequency*100, stats.ActualFrequency*100, stats.Count)
	}
	fmt.Println()
}

func printConfidenceReport(tr *tracker.Tracker) {
	fmt.Println("CONFIDENCE vs OUTCOMES")
	fmt.Println(strings.Repeat("=", 60))

	report := tr.ConfidenceReport()
	if len(report) == 0 {
		fmt.Println("No resolved forecasts yet.")
		return
	}

	for _, level := range []string{models.ConfidenceLow, models.ConfidenceMedium, models.ConfidenceHigh} {
		stats, ok := report[level]
		if !ok {
			continue
		}
		fmt.Printf("  %-6s resolved true %.0f%% of the time, avg stated %.0f%% (n=%d)\n",
			level, stats.Accuracy*100, stats.AverageProbability*100, stats.Count)
	}
}
