package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Forecaster/config"
	"github.com/Alias1177/Forecaster/internal/api/openai"
	"github.com/Alias1177/Forecaster/internal/forecaster"
	"github.com/Alias1177/Forecaster/internal/storage"
	"github.com/Alias1177/Forecaster/internal/tools"
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

	collaborator := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	web := tools.NewWebSearch(tools.WebSearchOptions{
		APIKey:         cfg.TavilyAPIKey,
		RequestTimeout: cfg.RequestTimeout,
	})
	wiki := tools.NewWikipedia(tools.WikipediaOptions{
		RequestTimeout: cfg.RequestTimeout,
	})
	f := forecaster.New(collaborator, web, wiki)

	tr, err := tracker.New(storage.NewJSONLStore(cfg.StorageFile))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load forecast history")
	}

	fmt.Println("SUPERFORECASTER")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Probabilistic forecasts via question decomposition.")
	fmt.Println("Enter a question, 'batch <category>' (geopolitical, technology,")
	fmt.Println("economic, science), or 'quit'.")
	fmt.Println()

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("Question: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "quit") {
			break
		}

		if category, ok := strings.CutPrefix(input, "batch "); ok {
			runBatch(ctx, f, tr, cfg, strings.TrimSpace(category))
			continue
		}

		fmt.Print("Timeframe (default: " + cfg.DefaultTimeframe + "): ")
		timeframe := cfg.DefaultTimeframe
		if scanner.Scan() {
			if tf := strings.TrimSpace(scanner.Text()); tf != "" {
				timeframe = tf
			}
		}

		fmt.Println("\nForecasting...")
		result, err := f.Run(ctx, input, timeframe)
		if err != nil {
			log.Error().Err(err).Msg("Forecast failed")
			continue
		}

		printForecast(result)

		fmt.Print("Track this forecast? (y/N): ")
		if scanner.Scan() && strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			if _, err := tr.AddForecast(input, result, ""); err != nil {
				log.Error().Err(err).Msg("Failed to record forecast")
			} else {
				fmt.Printf("Recorded to %s\n", cfg.StorageFile)
			}
		}
		fmt.Println()
	}
}

// runBatch forecasts every example question in a category and tracks each
func runBatch(ctx context.Context, f *forecaster.Forecaster, tr *tracker.Tracker, cfg *config.Config, category string) {
	questions, ok := forecaster.ExampleQuestions[category]
	if !ok {
		fmt.Printf("Unknown category %q\n", category)
		return
	}

	for _, question := range questions {
		fmt.Printf("Forecasting: %s\n", question)
		result, err := f.Run(ctx, question, cfg.DefaultTimeframe)
		if err != nil {
			log.Error().Err(err).Str("question", question).Msg("Forecast failed")
			continue
		}
		if _, err := tr.AddForecast(question, result, "batch: "+category); err != nil {
			log.Error().Err(err).Msg("Failed to record forecast")
			continue
		}
		fmt.Printf("   -> %.0f%% (%s)\n", result.Probability*100, result.Confidence)
	}

	fmt.Printf("\nRecords tracked: %d\n", len(tr.Records()))
	fmt.Printf("Storage file: %s\n\n", cfg.StorageFile)
}

func printForecast(result *models.Forecast) {
	fmt.Printf("\nFORECAST: %.0f%% (%s confidence)\n", result.Probability*100, strings.ToUpper(result.Confidence))
	fmt.Printf("Timeframe: %s\n", result.Timeframe)
	fmt.Printf("\nReasoning:\n%s\n", result.Reasoning)

	fmt.Println("\nDecomposition:")
	for i, sub := range result.Decompositions {
		fmt.Printf("  %d. %s\n     %.0f%% - %s confidence\n     %s\n",
			i+1, sub.Question, sub.Probability*100, sub.Confidence, sub.Rationale)
	}

	if result.Research.BaseRate != nil {
		fmt.Printf("\nBase rate: %.0f%%\n", *result.Research.BaseRate*100)
	}
	if len(result.Research.CausalForces) > 0 {
		fmt.Println("Causal factors:")
		for _, force := range result.Research.CausalForces {
			fmt.Printf("  - %s\n", force)
		}
	}
	if len(result.Research.Uncertainties) > 0 {
		fmt.Println("Key uncertainties:")
		for _, u := range result.Research.Uncertainties {
			fmt.Printf("  - %s\n", u)
		}
	}
}
