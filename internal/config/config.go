package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	LLMProvider  string

	Port      string
	DBPath    string
	JWTSecret string

	// Optional endpoint that receives a copy of every chosen trip.
	TripWebhookURL string

	AllowedOrigins []string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.5-flash"
	}

	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if provider == "groq" && groqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/trip-planner.db"
	}

	origins := []string{"*"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = nil
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		GeminiAPIKey:   geminiAPIKey,
		GeminiModel:    geminiModel,
		GroqAPIKey:     groqAPIKey,
		LLMProvider:    provider,
		Port:           port,
		DBPath:         dbPath,
		JWTSecret:      jwtSecret,
		TripWebhookURL: os.Getenv("TRIP_WEBHOOK_URL"),
		AllowedOrigins: origins,
	}, nil
}
