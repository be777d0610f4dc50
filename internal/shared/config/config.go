package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string

	RedisURL string
	CacheTTL time.Duration
	Timezone string

	OpenAIKey      string
	LLMProvider    string
	LLMModel       string
	LLMTemperature float32
	LLMMaxTokens   int
	LLMBaseURL     string
	EmbeddingModel string

	QdrantHost       string
	QdrantPort       int
	QdrantAPIKey     string
	QdrantUseTLS     bool
	QdrantCollection string

	JWTSecret string

	RefreshSchedule string
	ReindexSchedule string

	ForecastHorizonDays int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),

		RedisURL: os.Getenv("REDIS_URL"),
		CacheTTL: getDuration("CACHE_TTL", 10*time.Minute),
		Timezone: getEnv("TIMEZONE", "America/Sao_Paulo"),

		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		LLMProvider:    getEnv("LLM_PROVIDER", "openai"),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4"),
		LLMTemperature: float32(getFloat("LLM_TEMPERATURE", 0.4)),
		LLMMaxTokens:   getInt("LLM_MAX_TOKENS", 1500),
		LLMBaseURL:     os.Getenv("LLM_BASE_URL"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),

		QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:       getInt("QDRANT_PORT", 6334),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantUseTLS:     getBool("QDRANT_USE_TLS", false),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "allweather_kb"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 */10 * * * *"),
		ReindexSchedule: getEnv("REINDEX_SCHEDULE", "0 0 3 * * *"),

		ForecastHorizonDays: getInt("FORECAST_HORIZON_DAYS", 120),
	}

	return cfg
}

// Location resolves the configured timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.Timezone).Msg("Unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid integer, using default")
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid number, using default")
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid boolean, using default")
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid duration, using default")
		return fallback
	}
	return d
}
