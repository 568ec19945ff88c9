// Package aggregate reduces a set of sub-question estimates to a single
// probability and an overall confidence label. Both functions are pure and
// hold no state.
package aggregate

import (
	"github.com/Alias1177/Forecaster/models"
)

// Confidence weights for the weighted mean. Unknown labels weigh 1.0.
var confidenceWeights = map[string]float64{
	models.ConfidenceLow:    0.5,
	models.ConfidenceMedium: 1.0,
	models.ConfidenceHigh:   1.5,
}

// Calibration thresholds: fixed policy constants.
const (
	highRatioThreshold = 0.7
	lowRatioThreshold  = 0.4
)

// Combine returns the confidence-weighted mean of the sub-estimate
// probabilities, clamped to [0,1]. An empty list yields the uninformative
// prior 0.5. The result is invariant to input order and reduces to the
// arithmetic mean when all confidences are equal.
func Combine(subs []models.SubEstimate) float64 {
	if len(subs) == 0 {
		return 0.5
	}

	var weightedSum, weightTotal float64
	for _, sub := range subs {
		weight, ok := confidenceWeights[sub.Confidence]
		if !ok {
			weight = 1.0
		}
		weightedSum += sub.Probability * weight
		weightTotal += weight
	}

	return clamp01(weightedSum / weightTotal)
}

// Calibrate derives the overall confidence label from the distribution of
// sub-estimate confidences. High confidence requires at least 70% of the
// subs to be high; 40% low subs is enough to suppress the rating to low.
// An empty list yields "medium".
func Calibrate(subs []models.SubEstimate) string {
	if len(subs) == 0 {
		return models.ConfidenceMedium
	}

	var highCount, lowCount int
	for _, sub := range subs {
		switch sub.Confidence {
		case models.ConfidenceHigh:
			highCount++
		case models.ConfidenceLow:
			lowCount++
		}
	}

	n := float64(len(subs))
	switch {
	case float64(highCount)/n >= highRatioThreshold:
		return models.ConfidenceHigh
	case float64(lowCount)/n >= lowRatioThreshold:
		return models.ConfidenceLow
	default:
		return models.ConfidenceMedium
	}
}

// clamp01 guards against numerical drift in the weighted mean
func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
