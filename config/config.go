package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort      string
	OrganizerAPIURL string
	RequestTimeout  time.Duration
	CacheTTL        time.Duration
	StoreBackend    string // "memory" или "minio"
	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOBucket     string
	MinIOUseSSL     bool
	AllowedOrigins  string
	Environment     string
}

func Load() *Config {
	cacheMinutes, _ := strconv.Atoi(getEnv("CACHE_TTL_MINUTES", "30"))
	timeoutSeconds, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "10"))
	useSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		OrganizerAPIURL: getEnv("ORGANIZER_API_URL", "http://localhost:8002"),
		RequestTimeout:  time.Duration(timeoutSeconds) * time.Second,
		CacheTTL:        time.Duration(cacheMinutes) * time.Minute,
		StoreBackend:    getEnv("STORE_BACKEND", "memory"),
		MinIOEndpoint:   getEnv("MINIO_ENDPOINT", "minio:9000"),
		MinIOAccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:     getEnv("MINIO_BUCKET", "organizer-cache"),
		MinIOUseSSL:     useSSL,
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		Environment:     getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
