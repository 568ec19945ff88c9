package tracker

import (
	"github.com/Alias1177/Forecaster/models"
)

// BucketNames lists the five fixed probability buckets in ascending order.
var BucketNames = []string{"0-20%", "20-40%", "40-60%", "60-80%", "80-100%"}

// bucket lower bounds, index-aligned with BucketNames. The last bucket is
// closed on both ends; the others are half-open.
var bucketLowerBounds = []float64{0.0, 0.2, 0.4, 0.6, 0.8}

// BucketStats describes calibration within one probability bucket
type BucketStats struct {
	Count              int       `json:"count"`
	PredictedFrequency float64   `json:"predicted_frequency"`
	ActualFrequency    float64   `json:"actual_frequency"`
	ForecastErrors     []float64 `json:"forecast_errors"`
}

// CalibrationReport summarizes calibration over all resolved forecasts
type CalibrationReport struct {
	TotalForecasts      int                    `json:"total_forecasts"`
	CalibrationByBucket map[string]BucketStats `json:"calibration_by_bucket"`
	BrierScore          float64                `json:"brier_score"`
}

// ConfidenceStats describes resolved forecasts at one confidence level.
// Accuracy is literally the fraction that resolved true, not the fraction
// of directionally correct calls.
type ConfidenceStats struct {
	Count              int     `json:"count"`
	Accuracy           float64 `json:"accuracy"`
	AverageProbability float64 `json:"average_probability"`
}

// CalibrationReport buckets all resolved records into five fixed
// probability ranges and compares each bucket's nominal frequency against
// the observed frequency of true outcomes, alongside an overall Brier
// score. It returns nil while no resolved records exist; callers must
// check before reading the numeric fields.
func (t *Tracker) CalibrationReport() *CalibrationReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	resolved := t.resolved()
	if len(resolved) == 0 {
		return nil
	}

	report := &CalibrationReport{
		TotalForecasts:      len(resolved),
		CalibrationByBucket: make(map[string]BucketStats),
	}

	buckets := make(map[string][]models.ForecastRecord)
	for _, r := range resolved {
		buckets[bucketFor(r.Probability)] = append(buckets[bucketFor(r.Probability)], r)
	}

	for i, name := range BucketNames {
		records := buckets[name]
		if len(records) == 0 {
			continue
		}

		stats := BucketStats{
			Count:              len(records),
			PredictedFrequency: bucketLowerBounds[i],
		}
		trueCount := 0
		for _, r := range records {
			if *r.ActualOutcome {
				trueCount++
			}
			calErr, _ := r.CalibrationError()
			stats.ForecastErrors = append(stats.ForecastErrors, calErr)
		}
		stats.ActualFrequency = float64(trueCount) / float64(len(records))
		report.CalibrationByBucket[name] = stats
	}

	var squaredSum float64
	for _, r := range resolved {
		calErr, _ := r.CalibrationError()
		squaredSum += calErr * calErr
	}
	report.BrierScore = squaredSum / float64(len(resolved))

	return report
}

// ConfidenceReport groups resolved records by stated confidence level.
// Levels with no resolved records are omitted from the result.
func (t *Tracker) ConfidenceReport() map[string]ConfidenceStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	resolved := t.resolved()
	report := make(map[string]ConfidenceStats)

	for _, level := range []string{models.ConfidenceLow, models.ConfidenceMedium, models.ConfidenceHigh} {
		var count, trueCount int
		var probabilitySum float64
		for _, r := range resolved {
			if r.Confidence != level {
				continue
			}
			count++
			probabilitySum += r.Probability
			if *r.ActualOutcome {
				trueCount++
			}
		}
		if count == 0 {
			continue
		}
		report[level] = ConfidenceStats{
			Count:              count,
			Accuracy:           float64(trueCount) / float64(count),
			AverageProbability: probabilitySum / float64(count),
		}
	}

	return report
}

func bucketFor(probability float64) string {
	switch {
	case probability < 0.2:
		return BucketNames[0]
	case probability < 0.4:
		return BucketNames[1]
	case probability < 0.6:
		return BucketNames[2]
	case probability < 0.8:
		return BucketNames[3]
	default:
		return BucketNames[4]
	}
}
