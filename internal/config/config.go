package config

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/camberhealth/clinsum/internal/platform/logger"
	"github.com/camberhealth/clinsum/internal/utils"
)

type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins string
}

type PromptConfig struct {
	Dir           string
	Watch         bool
	WatchDebounce time.Duration
}

type LLMConfig struct {
	APIKey          string
	Model           string
	MaxRetries      int
	Timeout         time.Duration
	RetryBase       time.Duration
	RetryMax        time.Duration
	MinSummaryChars int
}

type Config struct {
	Server ServerConfig
	Prompt PromptConfig
	LLM    LLMConfig
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load(log *logger.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded", "error", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           utils.GetEnv("PORT", "8000", log),
			GinMode:        utils.GetEnv("GIN_MODE", "debug", log),
			AllowedOrigins: utils.GetEnv("ALLOWED_ORIGINS", "*", log),
		},
		Prompt: PromptConfig{
			Dir:           utils.GetEnv("PROMPT_DIR", "prompts", log),
			Watch:         utils.GetEnvAsBool("PROMPT_WATCH", true, log),
			WatchDebounce: time.Duration(utils.GetEnvAsInt("PROMPT_WATCH_DEBOUNCE_MS", 500, log)) * time.Millisecond,
		},
		LLM: LLMConfig{
			APIKey:          utils.GetEnv("ANTHROPIC_API_KEY", "", log),
			Model:           utils.GetEnv("LLM_MODEL", "claude-sonnet-4-20250514", log),
			MaxRetries:      utils.GetEnvAsInt("LLM_MAX_RETRIES", 3, log),
			Timeout:         time.Duration(utils.GetEnvAsInt("LLM_TIMEOUT_SECONDS", 60, log)) * time.Second,
			RetryBase:       time.Duration(utils.GetEnvAsInt("LLM_RETRY_BASE_MS", 500, log)) * time.Millisecond,
			RetryMax:        time.Duration(utils.GetEnvAsInt("LLM_RETRY_MAX_MS", 8000, log)) * time.Millisecond,
			MinSummaryChars: utils.GetEnvAsInt("LLM_MIN_SUMMARY_CHARS", 20, log),
		},
	}
}
