package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// It is built once at startup and never mutated afterwards; every component
// receives the values it needs through its constructor.
type Config struct {
	DiaryBasePath string
	DatabasePath  string
	LLMBaseURL    string
	LLMModel      string
	LLMAPIKey     string
	APIPort       string
	LogLevel      slog.Level
	LogFormat     string
}

// Load reads configuration from environment variables and returns a Config struct.
// If a .env file exists in the current directory or an ancestor directory, it is
// loaded automatically; environment variables already set take precedence over
// .env file values. Missing required values are reported with remediation text.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up from the working directory looking for a .env file.
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		DiaryBasePath: os.Getenv("DIARY_BASE_PATH"),
		DatabasePath:  os.Getenv("DATABASE_PATH"),
		LLMBaseURL:    getEnv("LLM_BASE_URL", "http://127.0.0.1:1234"),
		LLMModel:      getEnv("LLM_MODEL", "gemma-3-12b-it"),
		LLMAPIKey:     getEnv("LLM_API_KEY", "dummy-key"),
		APIPort:       getEnv("API_PORT", "9000"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.DiaryBasePath == "" {
		return nil, fmt.Errorf("DIARY_BASE_PATH is required: copy .env.example to .env and set it to your diary root directory")
	}
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("DATABASE_PATH is required: copy .env.example to .env and set it to the SQLite database file path")
	}

	if info, err := os.Stat(cfg.DiaryBasePath); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("diary directory does not exist: %s", cfg.DiaryBasePath)
	}

	// Create the database directory if it doesn't exist yet.
	dataDir := filepath.Dir(cfg.DatabasePath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	return cfg, nil
}

// parseLogLevel converts a LOG_LEVEL string into a slog.Level.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (expected debug, info, warn or error)", s)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
