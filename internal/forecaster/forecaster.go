// Package forecaster sequences one forecasting run: decompose the question
// into sub-estimates, research base rates and evidence, then aggregate into
// a single calibrated forecast.
package forecaster

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Forecaster/internal/aggregate"
	"github.com/Alias1177/Forecaster/internal/tools"
	"github.com/Alias1177/Forecaster/models"
)

// Forecaster runs the three-stage forecast workflow against an external
// model collaborator. The search tools are optional research context
// providers; a nil tool is simply skipped.
type Forecaster struct {
	collaborator models.Collaborator
	web          *tools.WebSearch
	wiki         *tools.Wikipedia
	logger       zerolog.Logger
}

// New creates a Forecaster around a model collaborator and optional tools
func New(collaborator models.Collaborator, web *tools.WebSearch, wiki *tools.Wikipedia) *Forecaster {
	return &Forecaster{
		collaborator: collaborator,
		web:          web,
		wiki:         wiki,
		logger:       log.With().Str("component", "forecaster").Logger(),
	}
}

// Run produces a forecast for the question over the given timeframe. A
// collaborator failure in any stage aborts the run and propagates to the
// caller; no retry policy is applied here. Nothing is persisted, so a
// cancelled run leaves no partial record anywhere.
func (f *Forecaster) Run(ctx context.Context, question, timeframe string) (*models.Forecast, error) {
	// Stage 1: break the question into independent sub-questions.
	f.logger.Info().Str("question", question).Msg("Decomposing question")

	decompText, err := f.collaborator.Call(ctx, decompositionPrompt(question))
	if err != nil {
		return nil, fmt.Errorf("decomposition stage: %w", err)
	}
	decompositions, err := decodeSubEstimates(decompText)
	if err != nil {
		return nil, fmt.Errorf("decomposition stage: %w", err)
	}

	// Stage 2: gather base rates and evidence.
	f.logger.Info().Str("question", question).Msg("Researching question")

	researchText, err := f.collaborator.Call(ctx, researchPrompt(question, f.toolContext(ctx, question)))
	if err != nil {
		return nil, fmt.Errorf("research stage: %w", err)
	}
	research, err := decodeResearchSummary(researchText)
	if err != nil {
		return nil, fmt.Errorf("research stage: %w", err)
	}

	// Stage 3: combine and calibrate.
	probability := round2(aggregate.Combine(decompositions))
	confidence := aggregate.Calibrate(decompositions)

	forecast := &models.Forecast{
		Question:       question,
		Timeframe:      timeframe,
		Probability:    probability,
		Confidence:     confidence,
		Decompositions: decompositions,
		Research:       *research,
		Reasoning:      buildReasoning(decompositions, research, probability),
	}

	f.logger.Info().
		Float64("probability", forecast.Probability).
		Str("confidence", forecast.Confidence).
		Int("sub_questions", len(decompositions)).
		Msg("Forecast assembled")

	return forecast, nil
}

// toolContext runs the research tools for the question. Tool failures come
// back as advisory text and never abort the run.
func (f *Forecaster) toolContext(ctx context.Context, question string) string {
	var sections []string
	if f.web != nil {
		sections = append(sections, "Web search results:\n"+f.web.Search(ctx, question))
	}
	if f.wiki != nil {
		sections = append(sections, "Wikipedia background:\n"+f.wiki.Lookup(ctx, question))
	}
	return strings.Join(sections, "\n\n")
}

// buildReasoning assembles the human-readable explanation: sub-question
// count, base rate, leading causal forces, sub-probability range and the
// final rounded estimate.
func buildReasoning(subs []models.SubEstimate, research *models.ResearchSummary, probability float64) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Decomposed into %d independent factors. ", len(subs))

	if research.BaseRate != nil {
		fmt.Fprintf(&sb, "Base rate suggests %.0f%%. ", *research.BaseRate*100)
	} else {
		sb.WriteString("No reliable base rate found. ")
	}

	if len(research.CausalForces) > 0 {
		forces := research.CausalForces
		if len(forces) > 2 {
			forces = forces[:2]
		}
		fmt.Fprintf(&sb, "Key drivers: %s. ", strings.Join(forces, ", "))
	}

	if len(subs) > 0 {
		minP, maxP := subs[0].Probability, subs[0].Probability
		for _, s := range subs[1:] {
			if s.Probability < minP {
				minP = s.Probability
			}
			if s.Probability > maxP {
				maxP = s.Probability
			}
		}
		fmt.Fprintf(&sb, "Sub-question range: %.0f%%-%.0f%%. ", minP*100, maxP*100)
	}

	fmt.Fprintf(&sb, "Final estimate: %.0f%%.", probability*100)
	return sb.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
