package models

import (
	"fmt"
	"time"
)

// Confidence levels used across sub-estimates, forecasts and records.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// ValidationError reports an entity constructed with invalid field values
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SubEstimate is one component of a decomposed forecast: a specific,
// testable sub-question with its own probability and confidence.
type SubEstimate struct {
	Question    string  `json:"question"`
	Probability float64 `json:"probability"`
	Rationale   string  `json:"rationale"`
	Confidence  string  `json:"confidence"`
}

// Validate checks the sub-estimate invariants
func (s *SubEstimate) Validate() error {
	if s.Question == "" {
		return &ValidationError{Field: "question", Reason: "must not be empty"}
	}
	if s.Probability < 0.0 || s.Probability > 1.0 {
		return &ValidationError{Field: "probability", Reason: fmt.Sprintf("%v is outside [0,1]", s.Probability)}
	}
	switch s.Confidence {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
	default:
		return &ValidationError{Field: "confidence", Reason: fmt.Sprintf("%q is not one of low/medium/high", s.Confidence)}
	}
	return nil
}

// Evidence groups findings by the direction they point in
type Evidence struct {
	Supporting    []string `json:"supporting"`
	Contradicting []string `json:"contradicting"`
}

// ResearchSummary holds the research findings for one forecast run
type ResearchSummary struct {
	BaseRate      *float64 `json:"base_rate"`
	CausalForces  []string `json:"causal_forces"`
	Evidence      Evidence `json:"evidence"`
	Uncertainties []string `json:"uncertainties"`
}

// Validate checks the research summary invariants
func (r *ResearchSummary) Validate() error {
	if r.BaseRate != nil && (*r.BaseRate < 0.0 || *r.BaseRate > 1.0) {
		return &ValidationError{Field: "base_rate", Reason: fmt.Sprintf("%v is outside [0,1]", *r.BaseRate)}
	}
	return nil
}

// Forecast is the final output of one forecasting run. Probability and
// Confidence are derived from Decompositions by the aggregation rules; the
// forecaster is the only place that assembles these.
type Forecast struct {
	Question       string          `json:"question"`
	Timeframe      string          `json:"timeframe"`
	Probability    float64         `json:"probability"`
	Confidence     string          `json:"confidence"`
	Decompositions []SubEstimate   `json:"decompositions"`
	Research       ResearchSummary `json:"research"`
	Reasoning      string          `json:"reasoning"`
}

// ForecastRecord is the persisted form of a forecast, flattened to the
// scalar fields needed for later scoring, plus the eventual outcome.
type ForecastRecord struct {
	ID            string     `json:"id,omitempty"`
	Question      string     `json:"question"`
	ForecastDate  time.Time  `json:"forecast_date"`
	Probability   float64    `json:"probability"`
	Timeframe     string     `json:"timeframe"`
	Confidence    string     `json:"confidence"`
	ActualOutcome *bool      `json:"actual_outcome"`
	OutcomeDate   *time.Time `json:"outcome_date"`
	Notes         string     `json:"notes"`
}

// Resolved reports whether the real-world outcome is known
func (r *ForecastRecord) Resolved() bool {
	return r.ActualOutcome != nil
}

// CalibrationError returns |probability - actual| for a resolved record.
// The second return value is false while the outcome is unknown.
func (r *ForecastRecord) CalibrationError() (float64, bool) {
	if r.ActualOutcome == nil {
		return 0, false
	}
	actual := 0.0
	if *r.ActualOutcome {
		actual = 1.0
	}
	err := r.Probability - actual
	if err < 0 {
		err = -err
	}
	return err, true
}
