package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubEstimateValidate(t *testing.T) {
	tests := []struct {
		name    string
		sub     SubEstimate
		wantErr bool
	}{
		{
			name: "valid",
			sub:  SubEstimate{Question: "q", Probability: 0.65, Rationale: "r", Confidence: ConfidenceMedium},
		},
		{
			name: "boundary probabilities are valid",
			sub:  SubEstimate{Question: "q", Probability: 1.0, Confidence: ConfidenceHigh},
		},
		{
			name:    "negative probability",
			sub:     SubEstimate{Question: "q", Probability: -0.1, Confidence: ConfidenceLow},
			wantErr: true,
		},
		{
			name:    "probability above one",
			sub:     SubEstimate{Question: "q", Probability: 1.01, Confidence: ConfidenceLow},
			wantErr: true,
		},
		{
			name:    "missing question",
			sub:     SubEstimate{Probability: 0.5, Confidence: ConfidenceLow},
			wantErr: true,
		},
		{
			name:    "unknown confidence",
			sub:     SubEstimate{Question: "q", Probability: 0.5, Confidence: "certain"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if tt.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestResearchSummaryValidate(t *testing.T) {
	rate := 0.45
	valid := ResearchSummary{BaseRate: &rate}
	assert.NoError(t, valid.Validate())

	assert.NoError(t, (&ResearchSummary{}).Validate(), "missing base rate is allowed")

	bad := 1.7
	invalid := ResearchSummary{BaseRate: &bad}
	var vErr *ValidationError
	require.ErrorAs(t, invalid.Validate(), &vErr)
}

func TestCalibrationError(t *testing.T) {
	record := ForecastRecord{Probability: 0.75}

	_, ok := record.CalibrationError()
	assert.False(t, ok, "unresolved records have no calibration error")

	outcome := true
	record.ActualOutcome = &outcome
	got, ok := record.CalibrationError()
	require.True(t, ok)
	assert.InDelta(t, 0.25, got, 1e-9)

	outcome = false
	got, ok = record.CalibrationError()
	require.True(t, ok)
	assert.InDelta(t, 0.75, got, 1e-9)
}

// The persisted line format keeps null outcome fields explicit so readers
// in other tooling can distinguish pending from resolved records.
func TestForecastRecordJSONShape(t *testing.T) {
	data, err := json.Marshal(ForecastRecord{Question: "Will X happen?", Probability: 0.66})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"actual_outcome":null`)
	assert.Contains(t, string(data), `"outcome_date":null`)
	assert.Contains(t, string(data), `"question":"Will X happen?"`)
}
