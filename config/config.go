package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY" envDefault:"-"`
	OpenAIModel      string        `env:"OPENAI_MODEL" envDefault:"gpt-4"`
	TavilyAPIKey     string        `env:"TAVILY_API_KEY" envDefault:"-"`
	StorageFile      string        `env:"STORAGE_FILE" envDefault:"forecasts.jsonl"`
	DatabaseURL      string        `env:"DATABASE_URL" envDefault:"-"`
	TelegramBotToken string        `env:"TELEGRAM_BOT_TOKEN" envDefault:"-"`
	DefaultTimeframe string        `env:"DEFAULT_TIMEFRAME" envDefault:"12 months"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnvWithDefault("OPENAI_MODEL", "gpt-4"),
		TavilyAPIKey:     os.Getenv("TAVILY_API_KEY"),
		StorageFile:      getEnvWithDefault("STORAGE_FILE", "forecasts.jsonl"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DefaultTimeframe: getEnvWithDefault("DEFAULT_TIMEFRAME", "12 months"),
		RequestTimeout:   time.Duration(getEnvIntWithDefault("REQUEST_TIMEOUT", 30)) * time.Second,
		LogLevel:         getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
