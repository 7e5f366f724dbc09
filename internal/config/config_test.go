package config

import (
	"os"
	"testing"

	"github.com/SohamBorate/spot-dl-downloader/internal/constants"
)

func TestLoad(t *testing.T) {
	// Test default values
	cfg := Load()

	if cfg.Port != constants.DefaultPort {
		t.Errorf("Expected Port to be %s, got %s", constants.DefaultPort, cfg.Port)
	}

	if cfg.DBPath != constants.DefaultDBPath {
		t.Errorf("Expected DBPath to be %s, got %s", constants.DefaultDBPath, cfg.DBPath)
	}

	if cfg.Format != constants.DefaultFormat {
		t.Errorf("Expected Format to be %s, got %s", constants.DefaultFormat, cfg.Format)
	}

	if cfg.Bitrate != constants.DefaultBitrate {
		t.Errorf("Expected Bitrate to be %d, got %d", constants.DefaultBitrate, cfg.Bitrate)
	}

	if cfg.BatchSize != constants.DefaultBatchSize {
		t.Errorf("Expected BatchSize to be %d, got %d", constants.DefaultBatchSize, cfg.BatchSize)
	}

	// Check OutputDir is not empty (defaults to the working directory)
	if cfg.OutputDir == "" {
		t.Error("Expected OutputDir to not be empty")
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DB_PATH", "/tmp/test.db")
	os.Setenv("FORMAT", "flac")
	os.Setenv("BITRATE", "192")
	os.Setenv("BATCH_SIZE", "4")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DB_PATH")
		os.Unsetenv("FORMAT")
		os.Unsetenv("BITRATE")
		os.Unsetenv("BATCH_SIZE")
	}()

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be 9090, got %s", cfg.Port)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected DBPath to be /tmp/test.db, got %s", cfg.DBPath)
	}

	if cfg.Format != "flac" {
		t.Errorf("Expected Format to be flac, got %s", cfg.Format)
	}

	if cfg.Bitrate != 192 {
		t.Errorf("Expected Bitrate to be 192, got %d", cfg.Bitrate)
	}

	if cfg.BatchSize != 4 {
		t.Errorf("Expected BatchSize to be 4, got %d", cfg.BatchSize)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		SpotifyID:     "id",
		SpotifySecret: "secret",
		OutputDir:     "/tmp/out",
		Format:        "mp3",
		Bitrate:       320,
		BatchSize:     1,
		DBPath:        "test.db",
		Port:          "8080",
		LogLevel:      "info",
		LogFormat:     "text",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"missing spotify id", func(c *Config) { c.SpotifyID = "" }, true},
		{"missing spotify secret", func(c *Config) { c.SpotifySecret = "" }, true},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"bad format", func(c *Config) { c.Format = "ogg" }, true},
		{"bitrate too low", func(c *Config) { c.Bitrate = 16 }, true},
		{"bitrate too high", func(c *Config) { c.Bitrate = 512 }, true},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, true},
		{"bad port", func(c *Config) { c.Port = "notaport" }, true},
		{"port out of range", func(c *Config) { c.Port = "70000" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"flac format", func(c *Config) { c.Format = "flac" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
