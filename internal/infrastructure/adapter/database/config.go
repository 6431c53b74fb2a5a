package database

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents database configuration
type Config struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"`
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`
	LogLevel        string        `mapstructure:"logLevel"`
}

// DefaultConfig returns a Config populated from environment variables.
// No sensitive information is hardcoded - all must come from the environment.
func DefaultConfig() *Config {
	return &Config{
		Driver:          configEnvOrDefault("MPESA_DB_DRIVER", "postgres"),
		Host:            os.Getenv("MPESA_DB_HOST"),
		Port:            configEnvAsInt("MPESA_DB_PORT", 5432),
		Username:        os.Getenv("MPESA_DB_USERNAME"),
		Password:        os.Getenv("MPESA_DB_PASSWORD"),
		Database:        os.Getenv("MPESA_DB_NAME"),
		SSLMode:         configEnvOrDefault("MPESA_DB_SSL_MODE", "disable"),
		MaxOpenConns:    configEnvAsInt("MPESA_DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    configEnvAsInt("MPESA_DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime: time.Duration(configEnvAsInt("MPESA_DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute,
		ConnMaxIdleTime: time.Duration(configEnvAsInt("MPESA_DB_CONN_MAX_IDLE_TIME_MINUTES", 15)) * time.Minute,
		QueryTimeout:    time.Duration(configEnvAsInt("MPESA_DB_QUERY_TIMEOUT_SECONDS", 5)) * time.Second,
		LogLevel:        configEnvOrDefault("MPESA_LOGGER_LEVEL", "info"),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("database host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Port)
	}
	if c.Username == "" {
		return errors.New("database username is required")
	}
	if c.Password == "" {
		return errors.New("database password is required")
	}
	if c.Database == "" {
		return errors.New("database name is required")
	}

	if c.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
		"prefer":      true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
	}

	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got: %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns <= 0 {
		return fmt.Errorf("max idle connections must be positive, got: %d", c.MaxIdleConns)
	}
	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}

	return nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode,
	)
}

// configEnvOrDefault gets a value from environment variables with a default value
func configEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// configEnvAsInt gets an integer value from environment variables with a default
func configEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
