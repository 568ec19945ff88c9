package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/Forecaster/models"
)

func testRecord(id, question string) models.ForecastRecord {
	return models.ForecastRecord{
		ID:           id,
		Question:     question,
		ForecastDate: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Probability:  0.66,
		Timeframe:    "12 months",
		Confidence:   models.ConfidenceMedium,
		Notes:        "initial",
	}
}

func TestLoadMissingFileIsEmptyHistory(t *testing.T) {
	store := NewJSONLStore(filepath.Join(t.TempDir(), "forecasts.jsonl"))

	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAppendLoadRoundTrip(t *testing.T) {
	store := NewJSONLStore(filepath.Join(t.TempDir(), "forecasts.jsonl"))

	outcome := true
	resolvedAt := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	record := testRecord("rec-1", "Will X happen?")
	record.ActualOutcome = &outcome
	record.OutcomeDate = &resolvedAt
	record.Notes = "resolved true"

	require.NoError(t, store.Append(record))

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
	assert.Equal(t, record.Question, records[0].Question)
	assert.Equal(t, record.Probability, records[0].Probability)
	assert.Equal(t, record.Timeframe, records[0].Timeframe)
	assert.Equal(t, record.Confidence, records[0].Confidence)
	assert.Equal(t, record.Notes, records[0].Notes)
	assert.True(t, record.ForecastDate.Equal(records[0].ForecastDate))
	require.NotNil(t, records[0].ActualOutcome)
	assert.True(t, *records[0].ActualOutcome)
	require.NotNil(t, records[0].OutcomeDate)
	assert.True(t, resolvedAt.Equal(*records[0].OutcomeDate))
}

func TestLoadCollapsesSnapshotsByID(t *testing.T) {
	store := NewJSONLStore(filepath.Join(t.TempDir(), "forecasts.jsonl"))

	record := testRecord("rec-1", "Will X happen?")
	require.NoError(t, store.Append(record))
	require.NoError(t, store.Append(testRecord("rec-2", "Will Y happen?")))

	outcome := false
	record.ActualOutcome = &outcome
	require.NoError(t, store.Append(record))

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec-1", records[0].ID)
	require.NotNil(t, records[0].ActualOutcome, "later snapshot must supersede the earlier one")
	assert.False(t, *records[0].ActualOutcome)
	assert.Nil(t, records[1].ActualOutcome)
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecasts.jsonl")
	store := NewJSONLStore(path)
	require.NoError(t, store.Append(testRecord("rec-1", "Will X happen?")))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, store.Append(testRecord("rec-2", "Will Y happen?")))

	records, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLoadKeepsIDLessLinesAsIndependentRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecasts.jsonl")
	legacy := `{"question": "Will Z happen?", "forecast_date": "2025-11-02T08:00:00Z", "probability": 0.3, "timeframe": "6 months", "confidence": "low", "actual_outcome": null, "outcome_date": null, "notes": ""}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy+legacy), 0o644))

	records, err := NewJSONLStore(path).Load()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
