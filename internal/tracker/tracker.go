// Package tracker keeps a durable log of forecasts and their real-world
// resolutions, and derives calibration statistics over that history.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Forecaster/models"
)

// Tracker owns an in-memory view of the forecast history backed by an
// append-only record store. All methods are safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	store   models.RecordStore
	records []models.ForecastRecord
	logger  zerolog.Logger
}

// New loads the existing history from the store. A store with no backing
// file yet yields an empty history.
func New(store models.RecordStore) (*Tracker, error) {
	records, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading forecast history: %w", err)
	}

	return &Tracker{
		store:   store,
		records: records,
		logger:  log.With().Str("component", "tracker").Logger(),
	}, nil
}

// AddForecast records a completed forecast with the current wall-clock
// timestamp, appending it to both the in-memory history and the store.
func (t *Tracker) AddForecast(question string, forecast *models.Forecast, notes string) (models.ForecastRecord, error) {
	record := models.ForecastRecord{
		ID:           uuid.NewString(),
		Question:     question,
		ForecastDate: time.Now(),
		Probability:  forecast.Probability,
		Timeframe:    forecast.Timeframe,
		Confidence:   forecast.Confidence,
		Notes:        notes,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Append(record); err != nil {
		return models.ForecastRecord{}, fmt.Errorf("persisting forecast: %w", err)
	}
	t.records = append(t.records, record)

	t.logger.Info().
		Str("question", question).
		Float64("probability", record.Probability).
		Str("confidence", record.Confidence).
		Msg("Forecast recorded")

	return record, nil
}

// UpdateOutcome marks a forecast as resolved. It matches the first record
// (oldest, in append order) whose question equals the argument exactly and
// whose outcome is still unset, so repeated forecasts of the same question
// resolve oldest-first, one per call. The notes argument replaces any notes
// saved when the forecast was added. The updated snapshot is re-appended
// to the store. Returns false without error when nothing matched.
func (t *Tracker) UpdateOutcome(question string, actual bool, notes string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.records {
		if t.records[i].Question != question || t.records[i].Resolved() {
			continue
		}

		now := time.Now()
		t.records[i].ActualOutcome = &actual
		t.records[i].OutcomeDate = &now
		t.records[i].Notes = notes

		if err := t.store.Append(t.records[i]); err != nil {
			return false, fmt.Errorf("persisting outcome: %w", err)
		}

		t.logger.Info().
			Str("question", question).
			Bool("actual_outcome", actual).
			Msg("Outcome recorded")
		return true, nil
	}

	t.logger.Debug().Str("question", question).Msg("No unresolved forecast matches question")
	return false, nil
}

// Records returns a copy of the in-memory history
func (t *Tracker) Records() []models.ForecastRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.ForecastRecord, len(t.records))
	copy(out, t.records)
	return out
}

func (t *Tracker) resolved() []models.ForecastRecord {
	var out []models.ForecastRecord
	for _, r := range t.records {
		if r.Resolved() {
			out = append(out, r)
		}
	}
	return out
}
