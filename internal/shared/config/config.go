package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	DatabaseURL     string
	Env             string

	// Direct parsing provider.
	ParserBaseURL     string
	ParserKeyOverride string
	ParserAPIKey      string
	ParserFallbackKey string
	ParserCollection  string
	ParserTimeout     time.Duration

	// Server-side parse function (proxied path).
	EdgeParseURL string
	EdgeTimeout  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:       dbURL,
		Env:               env,
		ParserBaseURL:     getEnv("PARSER_BASE_URL", "https://api.parser.example.com"),
		ParserKeyOverride: getEnv("PARSER_API_KEY_OVERRIDE", ""),
		ParserAPIKey:      getEnv("PARSER_API_KEY", ""),
		ParserFallbackKey: getEnv("PARSER_FALLBACK_API_KEY", ""),
		ParserCollection:  getEnv("PARSER_COLLECTION", "resumes"),
		ParserTimeout:     getEnvDuration("PARSER_TIMEOUT", 30*time.Second),
		EdgeParseURL:      getEnv("EDGE_PARSE_URL", ""),
		EdgeTimeout:       getEnvDuration("EDGE_PARSE_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
		return parsed
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("config %s invalid duration %q, using default", key, raw)
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
