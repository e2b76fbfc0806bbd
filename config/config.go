package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AppConfig holds the runtime configuration read from the environment.
type AppConfig struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseDriver Dialect
	DatabaseURL    string
	FrontendURL    string
	JWTSecret      string
	UnlockTokenTTL time.Duration

	ChatbotAPIURL   string
	AnthropicAPIKey string
	ChatTimeout     time.Duration
	MapsEmbedURL    string

	ResendAPIKey string
	FromEmail    string

	RateLimit  int
	RateWindow time.Duration
}

// Load reads the configuration from environment variables, applying defaults.
// Call godotenv.Load beforehand to pick up a local .env file.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		DatabaseDriver:  Dialect(getEnv("DATABASE_DRIVER", string(DialectPostgres))),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ChatbotAPIURL:   os.Getenv("CHATBOT_API_URL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		MapsEmbedURL:    getEnv("MAPS_EMBED_URL", "https://maps.google.com/maps?output=embed&q="),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		FromEmail:       getEnv("FROM_EMAIL", "Wedding Invitations <noreply@weddinginvite.app>"),
	}

	var err error
	if cfg.UnlockTokenTTL, err = getDuration("UNLOCK_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ChatTimeout, err = getDuration("CHAT_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = getDuration("RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getInt("RATE_LIMIT", 100); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations Load cannot default.
func (c *AppConfig) Validate() error {
	switch c.DatabaseDriver {
	case DialectPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case DialectSQLite:
		if c.DatabaseURL == "" {
			c.DatabaseURL = "file:wedding.db?_foreign_keys=on"
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	return nil
}

// IsProduction reports whether the API runs in production mode.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
