// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	Environment  string
	JWTSecretKey string
	DatabasePath string
	LogFilePath  string

	// Completion provider configuration.
	LLMAPIKey      string
	LLMBaseURL     string
	LLMModel       string
	LLMTemperature float32

	// Upstream endpoint consumed by the suggestion orchestrator. Defaults
	// to the server's own completion proxy.
	CompletionURL string

	// Number of suggestion variants requested per user message.
	SuggestionVariants int
}

// Load reads configuration from environment variables or a .env file.
func Load() (*Config, error) {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Environment:        env,
		JWTSecretKey:       getEnv("JWT_SECRET_KEY", ""),
		DatabasePath:       getEnv("DATABASE_PATH", "eigo_coach.db"),
		LogFilePath:        getEnv("LOG_FILE_PATH", "logs/eigo_coach.log"),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:           getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTemperature:     getEnvAsFloat32("LLM_TEMPERATURE", 0.7),
		CompletionURL:      getEnv("COMPLETION_URL", ""),
		SuggestionVariants: getEnvAsInt("SUGGESTION_VARIANTS", 3),
	}
	if cfg.CompletionURL == "" {
		cfg.CompletionURL = fmt.Sprintf("http://localhost:%s/api/completion", cfg.ServerPort)
	}

	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.LLMAPIKey == "" {
			missing = append(missing, "LLM_API_KEY")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
		}
	}
	if cfg.JWTSecretKey == "" {
		// Development fallback so a fresh checkout runs out of the box.
		cfg.JWTSecretKey = "dev-only-insecure-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
