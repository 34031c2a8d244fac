package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Blob storage. Backend is either "file" or "gcs".
	StorageBackend   string
	StoragePath      string
	GCSBucket        string
	PublicBaseURL    string
	StorageSecret    string
	SignedURLTTL     time.Duration
	StatusCacheTTL   time.Duration
	PanelConcurrency int
	MaxPanels        int

	// Image synthesis backend selected at worker startup: "openai",
	// "gemini" or "qwen".
	SynthProvider string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	QwenAPIKey  string
	QwenBaseURL string
	QwenModel   string

	FaceCheckURL string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	CORSOrigins      []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		StorageBackend:   getEnv("STORAGE_BACKEND", "file"),
		StoragePath:      getEnv("STORAGE_PATH", "./storage"),
		GCSBucket:        os.Getenv("GCS_BUCKET"),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		StorageSecret:    os.Getenv("STORAGE_SIGNING_SECRET"),
		SignedURLTTL:     time.Second * time.Duration(getEnvInt("SIGNED_URL_TTL_SECONDS", 300)),
		StatusCacheTTL:   time.Second * time.Duration(getEnvInt("STATUS_CACHE_TTL_SECONDS", 3)),
		PanelConcurrency: getEnvInt("PANEL_CONCURRENCY", 2),
		MaxPanels:        getEnvInt("MAX_PANELS", 6),

		SynthProvider: getEnv("SYNTH_PROVIDER", "openai"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		QwenAPIKey:  os.Getenv("QWEN_API_KEY"),
		QwenBaseURL: getEnv("QWEN_BASE_URL", "https://dashscope-intl.aliyuncs.com/api/v1"),
		QwenModel:   getEnv("QWEN_MODEL", "qwen-image-plus"),

		FaceCheckURL: os.Getenv("FACE_CHECK_URL"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSOrigins:      splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StorageBackend == "gcs" && cfg.GCSBucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is required when STORAGE_BACKEND=gcs")
	}
	if cfg.StorageSecret == "" {
		cfg.StorageSecret = cfg.JWTSecret
	}
	if cfg.PanelConcurrency < 1 {
		cfg.PanelConcurrency = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
