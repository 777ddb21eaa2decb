package config

import (
	"log"
	"os"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string

	GeminiAPIKey string
	GeminiModel  string

	OCREndpoint string
	OCRAPIKey   string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string

	SQSQueueURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	geminiKey := os.Getenv("GEMINI_API_KEY")

	if env == "production" {
		if dbURL == "" {
			log.Printf("DATABASE_URL is required in production")
		}
		if geminiKey == "" {
			log.Printf("GEMINI_API_KEY is required in production")
		}
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		DatabaseURL:     dbURL,
		GeminiAPIKey:    geminiKey,
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OCREndpoint:     getEnv("OCR_ENDPOINT", ""),
		OCRAPIKey:       getEnv("OCR_API_KEY", ""),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SQSQueueURL:     getEnv("AM_SQS_QUEUE_URL", ""),
	}
}

// AIConfigured reports whether the completion provider has credentials.
// Absence means every analysis takes the heuristic fallback path.
func (c Config) AIConfigured() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// OCRConfigured reports whether an OCR provider endpoint is set.
func (c Config) OCRConfigured() bool {
	return strings.TrimSpace(c.OCREndpoint) != ""
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
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
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
