package forecaster

import (
	"encoding/json"
	"strings"

	"github.com/Alias1177/Forecaster/models"
)

// The collaborator boundary: free-form model text is decoded and validated
// here, and nothing untyped crosses into the rest of the system. Any
// failure is a ValidationError.

// decodeSubEstimates extracts and validates the JSON array of sub-estimates
// from collaborator output
func decodeSubEstimates(text string) ([]models.SubEstimate, error) {
	payload, ok := extractJSON(text, '[', ']')
	if !ok {
		return nil, &models.ValidationError{Field: "decomposition", Reason: "no JSON array in collaborator output"}
	}

	var subs []models.SubEstimate
	if err := json.Unmarshal([]byte(payload), &subs); err != nil {
		return nil, &models.ValidationError{Field: "decomposition", Reason: err.Error()}
	}
	if len(subs) == 0 {
		return nil, &models.ValidationError{Field: "decomposition", Reason: "empty sub-question list"}
	}
	for i := range subs {
		if err := subs[i].Validate(); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

// decodeResearchSummary extracts and validates the research JSON object
// from collaborator output
func decodeResearchSummary(text string) (*models.ResearchSummary, error) {
	payload, ok := extractJSON(text, '{', '}')
	if !ok {
		return nil, &models.ValidationError{Field: "research", Reason: "no JSON object in collaborator output"}
	}

	var research models.ResearchSummary
	if err := json.Unmarshal([]byte(payload), &research); err != nil {
		return nil, &models.ValidationError{Field: "research", Reason: err.Error()}
	}
	if err := research.Validate(); err != nil {
		return nil, err
	}
	return &research, nil
}

// extractJSON cuts the outermost payload between the first opening and last
// closing delimiter, tolerating prose or code fences around it
func extractJSON(text string, opening, closing byte) (string, bool) {
	start := strings.IndexByte(text, opening)
	end := strings.LastIndexByte(text, closing)
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
