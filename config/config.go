package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port int
	Host string
	Env  string // "development" or "production"

	// Data directory
	DataDir string

	// Database
	DatabasePath string

	// External document-processing API
	DocAPIBaseURL string
	DocAPIKey     string

	// External speech-recognition gateway
	ASRGatewayURL string
	ASRAPIKey     string

	// Auth
	AuthSecret string
	BcryptCost int
	SessionTTL time.Duration

	// Debug settings
	DBLogQueries bool
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the global configuration (singleton)
func Get() *Config {
	once.Do(func() {
		cfg = load()
	})
	return cfg
}

// load reads configuration from environment variables
func load() *Config {
	dataDir := getEnv("MINDPATH_DATA_DIR", "./data")

	return &Config{
		// Server
		Port: getEnvInt("PORT", 8080),
		Host: getEnv("HOST", "0.0.0.0"),
		Env:  getEnv("ENV", "development"),

		// Data
		DataDir:      dataDir,
		DatabasePath: filepath.Join(dataDir, "mindpath.sqlite"),

		// Document API
		DocAPIBaseURL: getEnv("DOC_API_URL", "http://localhost:5000"),
		DocAPIKey:     getEnv("DOC_API_KEY", ""),

		// ASR gateway
		ASRGatewayURL: getEnv("ASR_GATEWAY_URL", ""),
		ASRAPIKey:     getEnv("ASR_API_KEY", ""),

		// Auth
		AuthSecret: getEnv("AUTH_SECRET", ""),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_HOURS", 30*24)) * time.Hour,

		// Debug
		DBLogQueries: getEnv("DB_LOG_QUERIES", "") == "1",
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
