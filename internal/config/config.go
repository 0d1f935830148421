package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	// Object storage
	BucketName       string
	BaseFolder       string
	ConversationsDir string
	BlocksDir        string
	ResponsesDir     string
	// Auth0
	Auth0Domain string
	APIAudience string
	// HTTP
	CORSOrigins string
	// Fetch cache
	CacheMaxEntries int
	CacheTTL        time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "dev"),
		BucketName:       os.Getenv("BUCKET_NAME"),
		BaseFolder:       os.Getenv("BUCKET_BASE_FOLDER_NAME"),
		ConversationsDir: getEnv("CONVERSATIONS_DIR_NAME", "conversations"),
		BlocksDir:        getEnv("BLOCKS_DIR_NAME", "blocks"),
		ResponsesDir:     getEnv("RESPONSES_DIR_NAME", "responses"),
		Auth0Domain:      os.Getenv("AUTH0_DOMAIN"),
		APIAudience:      os.Getenv("API_AUDIENCE"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "http://localhost:3000"),
		CacheMaxEntries:  getEnvInt("CACHE_MAX_ENTRIES", 2048),
		CacheTTL:         time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,
	}

	if cfg.BucketName == "" || cfg.BaseFolder == "" {
		return nil, errors.New("BUCKET_NAME and BUCKET_BASE_FOLDER_NAME must be set")
	}
	if cfg.Auth0Domain == "" || cfg.APIAudience == "" {
		return nil, errors.New("AUTH0_DOMAIN and API_AUDIENCE must be set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
