package config

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// LLM Configuration
	LLMProvider     string
	LLMModel        string
	GeminiAPIKey    string
	AnthropicAPIKey string
	// Drive Configuration
	GraphBaseURL        string
	OneDriveAccessToken string // Static bearer token, bypasses the connector when set
	ConnectorsHostname  string
	ReplIdentity        string
	WebReplRenewal      string
	HTTPTimeout         time.Duration
	// Transcript persistence (in-memory when DatabaseURL is empty)
	DatabaseURL string
	TablePrefix string
	SessionID   string
	// API bearer verification (disabled when empty)
	APIJWKSURL string
	LogDir     string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	provider := getEnv("LLM_PROVIDER", ProviderGemini)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// LLM Configuration
		LLMProvider:     provider,
		LLMModel:        getEnv("LLM_MODEL", defaultModel(provider)),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		// Drive Configuration
		GraphBaseURL:        getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
		OneDriveAccessToken: getEnv("ONEDRIVE_ACCESS_TOKEN", ""),
		ConnectorsHostname:  getEnv("REPLIT_CONNECTORS_HOSTNAME", ""),
		ReplIdentity:        getEnv("REPL_IDENTITY", ""),
		WebReplRenewal:      getEnv("WEB_REPL_RENEWAL", ""),
		HTTPTimeout:         getDuration("HTTP_TIMEOUT", 60*time.Second),
		// Transcript persistence
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		SessionID:   getEnv("SESSION_ID", ""),
		APIJWKSURL:  getEnv("API_JWKS_URL", ""),
		LogDir:      getEnv("LOG_DIR", ""),
	}
}

// Validate reports configuration that makes startup impossible.
// A missing API key for the selected provider is fatal.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LLMProvider,
			validation.Required,
			validation.In(ProviderGemini, ProviderAnthropic).Error("must be gemini or anthropic"),
		),
		validation.Field(&c.LLMModel, validation.Required),
		validation.Field(&c.GeminiAPIKey,
			validation.When(c.LLMProvider == ProviderGemini,
				validation.Required.Error("GEMINI_API_KEY environment variable is required")),
		),
		validation.Field(&c.AnthropicAPIKey,
			validation.When(c.LLMProvider == ProviderAnthropic,
				validation.Required.Error("ANTHROPIC_API_KEY environment variable is required")),
		),
		validation.Field(&c.GraphBaseURL, validation.Required),
		validation.Field(&c.HTTPTimeout, validation.Min(time.Second)),
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "claude-haiku-4-5"
	default:
		return "gemini-2.5-flash"
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
