// Package config loads and validates the service configuration from
// environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port           string
	Address        string
	Env            string
	LogLevel       string
	LogDir         string
	DataDir        string // directory holding reference table files; empty = embedded defaults
	ReloadAt       string // daily reference reload time, HH:MM
	MaxRequestBody int64  // maximum request body size in bytes
	MaxHeaderSize  int64  // maximum header size in bytes
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnvWithDefault("PORT", "8000"),
		Address:        getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:            getEnvWithDefault("ENV", "dev"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		LogDir:         getEnvWithDefault("LOG_DIR", ""),
		DataDir:        getEnvWithDefault("DATA_DIR", ""),
		ReloadAt:       getEnvWithDefault("RELOAD_AT", "06:00"),
		MaxRequestBody: getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576), // 1MB default
		MaxHeaderSize:  getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),  // 1MB default
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateDataDir(cfg.DataDir); err != nil {
		return fmt.Errorf("invalid DATA_DIR: %w", err)
	}

	if err := validateReloadAt(cfg.ReloadAt); err != nil {
		return fmt.Errorf("invalid RELOAD_AT: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	// A clinical API should not bind a public interface directly.
	if !ip.IsLoopback() && !ip.IsPrivate() {
		return fmt.Errorf("ADDRESS %s is a public IP, use private network ranges behind a reverse proxy", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env string) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateDataDir validates the DATA_DIR environment variable.
// An empty value is valid: the embedded reference tables are used.
func validateDataDir(dataDir string) error {
	if dataDir == "" {
		return nil
	}

	info, err := os.Stat(dataDir)
	if err != nil {
		return fmt.Errorf("DATA_DIR %s is not accessible: %w", dataDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("DATA_DIR %s is not a directory", dataDir)
	}
	return nil
}

// validateReloadAt validates the RELOAD_AT environment variable (HH:MM)
func validateReloadAt(reloadAt string) error {
	if _, err := time.Parse("15:04", reloadAt); err != nil {
		return fmt.Errorf("RELOAD_AT must be HH:MM, got %q: %w", reloadAt, err)
	}
	return nil
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
