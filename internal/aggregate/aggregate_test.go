package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alias1177/Forecaster/models"
)

func sub(probability float64, confidence string) models.SubEstimate {
	return models.SubEstimate{
		Question:    "sub-question",
		Probability: probability,
		Rationale:   "test rationale",
		Confidence:  confidence,
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name     string
		subs     []models.SubEstimate
		expected float64
	}{
		{
			name:     "empty list returns uninformative prior",
			subs:     nil,
			expected: 0.5,
		},
		{
			name:     "single estimate passes through",
			subs:     []models.SubEstimate{sub(0.8, models.ConfidenceHigh)},
			expected: 0.8,
		},
		{
			name: "uniform confidence reduces to arithmetic mean",
			subs: []models.SubEstimate{
				sub(0.2, models.ConfidenceMedium),
				sub(0.4, models.ConfidenceMedium),
				sub(0.9, models.ConfidenceMedium),
			},
			expected: 0.5,
		},
		{
			name: "confidence-weighted mean",
			subs: []models.SubEstimate{
				sub(0.65, models.ConfidenceMedium),
				sub(0.55, models.ConfidenceLow),
				sub(0.70, models.ConfidenceHigh),
			},
			// (0.65*1.0 + 0.55*0.5 + 0.70*1.5) / 3.0
			expected: 1.975 / 3.0,
		},
		{
			name: "unrecognized confidence falls back to weight 1.0",
			subs: []models.SubEstimate{
				sub(0.3, "very high"),
				sub(0.5, models.ConfidenceMedium),
			},
			expected: 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Combine(tt.subs), 1e-9)
		})
	}
}

func TestCombineStaysInRange(t *testing.T) {
	levels := []string{models.ConfidenceLow, models.ConfidenceMedium, models.ConfidenceHigh}

	subs := make([]models.SubEstimate, 0, 30)
	for i := 0; i < 30; i++ {
		p := float64(i%11) / 10.0
		subs = append(subs, sub(p, levels[i%3]))
		got := Combine(subs)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestCombineOrderInvariant(t *testing.T) {
	subs := []models.SubEstimate{
		sub(0.1, models.ConfidenceLow),
		sub(0.65, models.ConfidenceMedium),
		sub(0.9, models.ConfidenceHigh),
		sub(0.45, models.ConfidenceHigh),
	}
	reversed := []models.SubEstimate{subs[3], subs[2], subs[1], subs[0]}
	shuffled := []models.SubEstimate{subs[2], subs[0], subs[3], subs[1]}

	want := Combine(subs)
	assert.InDelta(t, want, Combine(reversed), 1e-12)
	assert.InDelta(t, want, Combine(shuffled), 1e-12)
}

func TestCombineMonotonic(t *testing.T) {
	base := []models.SubEstimate{
		sub(0.3, models.ConfidenceLow),
		sub(0.5, models.ConfidenceMedium),
		sub(0.7, models.ConfidenceHigh),
	}

	prev := math.Inf(-1)
	for p := 0.0; p <= 1.0; p += 0.1 {
		raised := []models.SubEstimate{base[0], sub(p, models.ConfidenceMedium), base[2]}
		got := Combine(raised)
		assert.GreaterOrEqual(t, got, prev, "combined probability must not decrease when a sub-probability rises")
		prev = got
	}
}

func TestCalibrate(t *testing.T) {
	tests := []struct {
		name     string
		subs     []models.SubEstimate
		expected string
	}{
		{
			name:     "empty list defaults to medium",
			subs:     nil,
			expected: models.ConfidenceMedium,
		},
		{
			name: "three of four high crosses the 0.7 threshold",
			subs: []models.SubEstimate{
				sub(0.6, models.ConfidenceHigh),
				sub(0.7, models.ConfidenceHigh),
				sub(0.8, models.ConfidenceHigh),
				sub(0.5, models.ConfidenceLow),
			},
			expected: models.ConfidenceHigh,
		},
		{
			name: "two of five low hits the 0.4 threshold exactly",
			subs: []models.SubEstimate{
				sub(0.6, models.ConfidenceLow),
				sub(0.7, models.ConfidenceLow),
				sub(0.5, models.ConfidenceMedium),
				sub(0.5, models.ConfidenceMedium),
				sub(0.5, models.ConfidenceMedium),
			},
			expected: models.ConfidenceLow,
		},
		{
			name: "mixed minority signals stay medium",
			subs: []models.SubEstimate{
				sub(0.65, models.ConfidenceMedium),
				sub(0.55, models.ConfidenceLow),
				sub(0.70, models.ConfidenceHigh),
			},
			expected: models.ConfidenceMedium,
		},
		{
			name: "two of three high is below the threshold",
			subs: []models.SubEstimate{
				sub(0.8, models.ConfidenceHigh),
				sub(0.7, models.ConfidenceHigh),
				sub(0.5, models.ConfidenceMedium),
			},
			expected: models.ConfidenceMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Calibrate(tt.subs))
		})
	}
}

// Worked end-to-end example: three sub-estimates combine to ~0.658 and a
// split confidence distribution calibrates to medium.
func TestCombineAndCalibrateTogether(t *testing.T) {
	subs := []models.SubEstimate{
		sub(0.65, models.ConfidenceMedium),
		sub(0.55, models.ConfidenceLow),
		sub(0.70, models.ConfidenceHigh),
	}

	assert.InDelta(t, 0.6583, Combine(subs), 0.0001)
	assert.Equal(t, models.ConfidenceMedium, Calibrate(subs))
}
