package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Forecaster/config"
	"github.com/Alias1177/Forecaster/internal/api/openai"
	"github.com/Alias1177/Forecaster/internal/database"
	"github.com/Alias1177/Forecaster/internal/forecaster"
	"github.com/Alias1177/Forecaster/internal/storage"
	"github.com/Alias1177/Forecaster/internal/tools"
	"github.com/Alias1177/Forecaster/internal/tracker"
	"github.com/Alias1177/Forecaster/models"
)

var supportedTimeframes = []string{
	"3 months", "6 months", "12 months", "24 months",
}

// User state stages
const (
	StageAwaitingQuestion  = 0
	StageAwaitingTimeframe = 1
)

// UserState represents the current state of a user's interaction
type UserState struct {
	Stage        int
	Question     string // pending forecast question
	LastActivity time.Time
}

var userStates = make(map[int64]*UserState)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	if cfg.TelegramBotToken == "" {
		logger.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	logger.Info().Str("username", bot.Self.UserName).Msg("Authorized on Telegram")

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open record store")
	}
	tr, err := tracker.New(store)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load forecast history")
	}

	collaborator := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	web := tools.NewWebSearch(tools.WebSearchOptions{APIKey: cfg.TavilyAPIKey, RequestTimeout: cfg.RequestTimeout})
	wiki := tools.NewWikipedia(tools.WikipediaOptions{RequestTimeout: cfg.RequestTimeout})
	f := forecaster.New(collaborator, web, wiki)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	for update := range updates {
		if update.Message != nil {
			handleMessage(bot, update.Message, f, tr, &logger)
		}
	}
}

func newStore(cfg *config.Config) (models.RecordStore, error) {
	if cfg.DatabaseURL != "" {
		return database.New(cfg.DatabaseURL)
	}
	return storage.NewJSONLStore(cfg.StorageFile), nil
}

// handleMessage processes incoming text messages
func handleMessage(bot *tgbotapi.BotAPI, message *tgbotapi.Message, f *forecaster.Forecaster, tr *tracker.Tracker, logger *zerolog.Logger) {
	userID := message.From.ID
	chatID := message.Chat.ID

	state, exists := userStates[userID]
	if !exists || message.Text == "/start" {
		userStates[userID] = &UserState{
			Stage:        StageAwaitingQuestion,
			LastActivity: time.Now(),
		}
		msg := tgbotapi.NewMessage(chatID, "Welcome to the Forecaster Bot! Send me a yes/no question about the future, e.g. \"Will Bitcoin exceed $100,000 by end of 2026?\"")
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		bot.Send(msg)
		return
	}

	state.LastActivity = time.Now()

	switch state.Stage {
	case StageAwaitingQuestion:
		question := strings.TrimSpace(message.Text)
		if question == "" {
			bot.Send(tgbotapi.NewMessage(chatID, "Please send a forecasting question."))
			return
		}
		state.Question = question
		state.Stage = StageAwaitingTimeframe

		msg := tgbotapi.NewMessage(chatID, "Over what timeframe?")
		msg.ReplyMarkup = timeframeKeyboard()
		bot.Send(msg)

	case StageAwaitingTimeframe:
		timeframe := strings.TrimSpace(message.Text)
		if !isSupportedTimeframe(timeframe) {
			msg := tgbotapi.NewMessage(chatID, "Pick one of the suggested timeframes.")
			msg.ReplyMarkup = timeframeKeyboard()
			bot.Send(msg)
			return
		}

		question := state.Question
		state.Question = ""
		state.Stage = StageAwaitingQuestion

		progress := tgbotapi.NewMessage(chatID, "Forecasting, this can take a minute...")
		progress.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		bot.Send(progress)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		result, err := f.Run(ctx, question, timeframe)
		if err != nil {
			logger.Error().Err(err).Str("question", question).Msg("Forecast failed")
			bot.Send(tgbotapi.NewMessage(chatID, "Sorry, the forecast failed. Try again later."))
			return
		}

		if _, err := tr.AddForecast(question, result, fmt.Sprintf("telegram user %d", userID)); err != nil {
			logger.Error().Err(err).Msg("Failed to record forecast")
		}

		bot.Send(tgbotapi.NewMessage(chatID, formatForecast(result)))
	}
}

func timeframeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(supportedTimeframes))
	for _, tf := range supportedTimeframes {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(tf)))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func isSupportedTimeframe(timeframe string) bool {
	for _, tf := range supportedTimeframes {
		if tf == timeframe {
			return true
		}
	}
	return false
}

// formatForecast renders a forecast as a Telegram-friendly message
func formatForecast(result *models.Forecast) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "FORECAST: %.0f%% (%s confidence)\n", result.Probability*100, strings.ToUpper(result.Confidence))
	fmt.Fprintf(&sb, "Timeframe: %s\n\n", result.Timeframe)
	fmt.Fprintf(&sb, "%s\n", result.Reasoning)

	if len(result.Decompositions) > 0 {
		sb.WriteString("\nBreakdown:\n")
		for i, sub := range result.Decompositions {
			fmt.Fprintf(&sb, "%d. %s -> %.0f%% (%s)\n", i+1, sub.Question, sub.Probability*100, sub.Confidence)
		}
	}

	if len(result.Research.Uncertainties) > 0 {
		sb.WriteString("\nKey uncertainties:\n")
		for _, u := range result.Research.Uncertainties {
			fmt.Fprintf(&sb, "- %s\n", u)
		}
	}

	return sb.String()
}
