package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	SchemaVersion    string
	SchemaCategories []string

	ClassifyTimeout  time.Duration
	ClassifyMaxPages int
	PDFRenderDPI     float64
	PDFMaxPages      int
	MaxUploadBytes   int64

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32

	APIRateLimitRPS     float64
	APIRateLimitBurst   int
	APIMaxConcurrent    int
	APIBackpressureWait time.Duration
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		OpenAIAPIKey:  mustEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: mustEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   mustEnv("OPENAI_MODEL", "gpt-4o-mini"),

		SchemaVersion:    mustEnv("SCHEMA_VERSION", "v1"),
		SchemaCategories: splitCSV(mustEnv("SCHEMA_CATEGORIES", "")),

		ClassifyTimeout:  time.Duration(mustEnvInt("CLASSIFY_TIMEOUT_SECONDS", 30)) * time.Second,
		ClassifyMaxPages: mustEnvInt("CLASSIFY_MAX_PAGES", 1),
		PDFRenderDPI:     mustEnvFloat("PDF_RENDER_DPI", 200),
		PDFMaxPages:      mustEnvInt("PDF_MAX_PAGES", 50),
		MaxUploadBytes:   int64(mustEnvInt("MAX_UPLOAD_BYTES", 20<<20)),

		RetryMaxAttempts:    mustEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialBackoff: time.Duration(mustEnvInt("RETRY_INITIAL_BACKOFF_MS", 250)) * time.Millisecond,
		RetryMaxBackoff:     time.Duration(mustEnvInt("RETRY_MAX_BACKOFF_MS", 2000)) * time.Millisecond,

		BreakerEnabled:          mustEnvBool("BREAKER_ENABLED", true),
		BreakerMinRequests:      uint32(mustEnvInt("BREAKER_MIN_REQUESTS", 10)),
		BreakerFailureRatio:     mustEnvFloat("BREAKER_FAILURE_RATIO", 0.5),
		BreakerOpenTimeout:      time.Duration(mustEnvInt("BREAKER_OPEN_TIMEOUT_SECONDS", 30)) * time.Second,
		BreakerHalfOpenMaxCalls: uint32(mustEnvInt("BREAKER_HALF_OPEN_MAX_CALLS", 2)),

		APIRateLimitRPS:     mustEnvFloat("API_RATE_LIMIT_RPS", 10),
		APIRateLimitBurst:   mustEnvInt("API_RATE_LIMIT_BURST", 20),
		APIMaxConcurrent:    mustEnvInt("API_MAX_CONCURRENT", 32),
		APIBackpressureWait: time.Duration(mustEnvInt("API_BACKPRESSURE_WAIT_MS", 200)) * time.Millisecond,
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
