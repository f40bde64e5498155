// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"

	"github.com/usestring/schemainfer/internal/logging"
)

// Runner and validator defaults
const (
	DefaultRunnerWorkers      = 4
	DefaultValidatorCacheSize = 128
	DefaultMaxInputBytes      = 4_000_000
)

// Config holds all configuration for the CLI and the MCP server.
type Config struct {
	RunnerWorkers      int // RUNNER_WORKERS, default 4
	ValidatorCacheSize int // VALIDATOR_CACHE_SIZE, default 128
	MaxInputBytes      int // MAX_INPUT_BYTES, default 4_000_000

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		RunnerWorkers:      getEnvInt("RUNNER_WORKERS", DefaultRunnerWorkers),
		ValidatorCacheSize: getEnvInt("VALIDATOR_CACHE_SIZE", DefaultValidatorCacheSize),
		MaxInputBytes:      getEnvInt("MAX_INPUT_BYTES", DefaultMaxInputBytes),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Logging returns the logging section of the configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
