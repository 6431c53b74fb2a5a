package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./.env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
	"../../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Set environment variables to override config
	v.SetEnvPrefix("MPESA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env

	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	// Non-critical server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	// Database defaults for non-sensitive settings
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	// Gateway defaults
	v.SetDefault("mpesa.baseUrl", "https://sandbox.safaricom.co.ke")
	v.SetDefault("mpesa.requestTimeout", 30) // seconds
	v.SetDefault("mpesa.tokenSkew", 60)      // seconds

	// Callback security defaults. The allowed ranges are the provider's
	// published callback source subnets.
	v.SetDefault("callback.allowedRanges", []string{
		"196.201.212.0/24",
		"196.201.213.0/24",
		"196.201.214.0/24",
	})
	v.SetDefault("callback.allowDevelopment", false)
	v.SetDefault("callback.rateLimitMax", 100)
	v.SetDefault("callback.rateLimitWindow", 60) // seconds
}

// getEnvironment determines the environment to use based on MPESA_ENV
func getEnvironment() string {
	env := os.Getenv("MPESA_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures environment variables override config values.
// Secrets have no config-file fallback, so they only ever come through here.
func processEnvOverrides(v *viper.Viper) {
	// Database sensitive information
	if dbHost := os.Getenv("MPESA_DB_HOST"); dbHost != "" {
		v.Set("database.host", dbHost)
	}
	if dbPort := os.Getenv("MPESA_DB_PORT"); dbPort != "" {
		v.Set("database.port", dbPort)
	}
	if dbUser := os.Getenv("MPESA_DB_USERNAME"); dbUser != "" {
		v.Set("database.username", dbUser)
	}
	if dbPass := os.Getenv("MPESA_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}
	if dbName := os.Getenv("MPESA_DB_NAME"); dbName != "" {
		v.Set("database.database", dbName)
	}
	if sslMode := os.Getenv("MPESA_DB_SSL_MODE"); sslMode != "" {
		v.Set("database.sslMode", sslMode)
	}

	// Server settings
	if serverHost := os.Getenv("MPESA_SERVER_HOST"); serverHost != "" {
		v.Set("server.host", serverHost)
	}
	if serverPort := os.Getenv("MPESA_SERVER_PORT"); serverPort != "" {
		v.Set("server.port", serverPort)
	}

	// Logger settings
	if logLevel := os.Getenv("MPESA_LOGGER_LEVEL"); logLevel != "" {
		v.Set("logger.level", logLevel)
	}

	// Gateway credentials
	if consumerKey := os.Getenv("MPESA_DARAJA_CONSUMER_KEY"); consumerKey != "" {
		v.Set("mpesa.consumerKey", consumerKey)
	}
	if consumerSecret := os.Getenv("MPESA_DARAJA_CONSUMER_SECRET"); consumerSecret != "" {
		v.Set("mpesa.consumerSecret", consumerSecret)
	}
	if shortcode := os.Getenv("MPESA_DARAJA_SHORTCODE"); shortcode != "" {
		v.Set("mpesa.shortcode", shortcode)
	}
	if passkey := os.Getenv("MPESA_DARAJA_PASSKEY"); passkey != "" {
		v.Set("mpesa.passkey", passkey)
	}
	if baseURL := os.Getenv("MPESA_DARAJA_BASE_URL"); baseURL != "" {
		v.Set("mpesa.baseUrl", baseURL)
	}
	if callbackURL := os.Getenv("MPESA_DARAJA_CALLBACK_URL"); callbackURL != "" {
		v.Set("mpesa.callbackUrl", callbackURL)
	}

	// Callback security settings
	if secret := os.Getenv("MPESA_CALLBACK_SIGNATURE_SECRET"); secret != "" {
		v.Set("callback.signatureSecret", secret)
	}
	if rateLimitMax := getEnvInt("MPESA_CALLBACK_RATE_LIMIT_MAX", 0); rateLimitMax > 0 {
		v.Set("callback.rateLimitMax", rateLimitMax)
	}
	if rateLimitWindow := getEnvInt("MPESA_CALLBACK_RATE_LIMIT_WINDOW_SECONDS", 0); rateLimitWindow > 0 {
		v.Set("callback.rateLimitWindow", rateLimitWindow)
	}
}

// Helper function to get environment variable as int
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	// Convert seconds to time.Duration
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	// Convert minutes to time.Duration
	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute

	// Convert seconds to time.Duration
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Mpesa.RequestTimeout = time.Duration(config.Mpesa.RequestTimeout) * time.Second
	config.Mpesa.TokenSkew = time.Duration(config.Mpesa.TokenSkew) * time.Second
	config.Callback.RateLimitWindow = time.Duration(config.Callback.RateLimitWindow) * time.Second
}
