package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Output   OutputConfig
}

// DatabaseConfig holds connection settings for the student records store.
// The variable names mirror the deployment environment of the upstream
// education-records installation.
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// ServerConfig holds report server settings
type ServerConfig struct {
	Port string
}

// OutputConfig holds export settings
type OutputConfig struct {
	WorkbookPath string
}

// DSN builds the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode)
}

// Load reads configuration from the environment, with .env support for
// local development, and validates required fields.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DEI_SERVER", "localhost"),
			Port:     getEnvIntOrDefault("DEI_PORT", 5432),
			Name:     getEnvOrDefault("DEI_DATABASE", ""),
			User:     getEnvOrDefault("DEI_USERNAME", ""),
			Password: getEnvOrDefault("DEI_PASSWORD", ""),
			SSLMode:  getEnvOrDefault("DEI_SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Output: OutputConfig{
			WorkbookPath: getEnvOrDefault("OUTPUT_WORKBOOK", "equity_analysis.xlsx"),
		},
	}

	if cfg.Database.Name == "" {
		return nil, fmt.Errorf("DEI_DATABASE is required")
	}
	if cfg.Database.User == "" {
		return nil, fmt.Errorf("DEI_USERNAME is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
