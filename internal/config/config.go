package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/SohamBorate/spot-dl-downloader/internal/constants"
)

// Config holds all application configuration
type Config struct {
	SpotifyID     string
	SpotifySecret string
	OutputDir     string
	Format        string
	Bitrate       int
	BatchSize     int
	DBPath        string
	Port          string
	LogLevel      string
	LogFormat     string
}

// Load loads configuration from the environment with defaults. A .env
// file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	cwd, _ := os.Getwd()

	return &Config{
		SpotifyID:     getEnv("SPOTIFY_ID", ""),
		SpotifySecret: getEnv("SPOTIFY_SECRET", ""),
		OutputDir:     getEnv("OUTPUT_DIR", cwd),
		Format:        getEnv("FORMAT", constants.DefaultFormat),
		Bitrate:       getEnvInt("BITRATE", constants.DefaultBitrate),
		BatchSize:     getEnvInt("BATCH_SIZE", constants.DefaultBatchSize),
		DBPath:        getEnv("DB_PATH", constants.DefaultDBPath),
		Port:          getEnv("PORT", constants.DefaultPort),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.SpotifyID == "" {
		errors = append(errors, "SPOTIFY_ID cannot be empty")
	}
	if c.SpotifySecret == "" {
		errors = append(errors, "SPOTIFY_SECRET cannot be empty")
	}
	if c.OutputDir == "" {
		errors = append(errors, "OUTPUT_DIR cannot be empty")
	}

	validFormats := map[string]bool{
		constants.FormatMP3:  true,
		constants.FormatFLAC: true,
	}
	if !validFormats[c.Format] {
		errors = append(errors, fmt.Sprintf("FORMAT must be one of: mp3, flac, got: %s", c.Format))
	}

	if c.Bitrate < 32 || c.Bitrate > 320 {
		errors = append(errors, fmt.Sprintf("BITRATE must be between 32 and 320, got: %d", c.Bitrate))
	}

	if c.BatchSize < 1 {
		errors = append(errors, fmt.Sprintf("BATCH_SIZE must be at least 1, got: %d", c.BatchSize))
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
