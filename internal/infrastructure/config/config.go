package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Mpesa       MpesaConfig    `mapstructure:"mpesa"`
	Callback    CallbackConfig `mapstructure:"callback"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	TrustedProxies    []string      `mapstructure:"trustedProxies"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// MpesaConfig contains payment provider gateway settings. Consumer
// credentials and the passkey never live in config files, only in the
// environment.
type MpesaConfig struct {
	BaseURL        string        `mapstructure:"baseUrl"`
	ConsumerKey    string        `mapstructure:"consumerKey"`
	ConsumerSecret string        `mapstructure:"consumerSecret"`
	Shortcode      string        `mapstructure:"shortcode"`
	Passkey        string        `mapstructure:"passkey"`
	CallbackURL    string        `mapstructure:"callbackUrl"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"` // seconds
	TokenSkew      time.Duration `mapstructure:"tokenSkew"`      // seconds
}

// CallbackConfig contains callback security pipeline settings
type CallbackConfig struct {
	AllowedRanges    []string      `mapstructure:"allowedRanges"`
	AllowDevelopment bool          `mapstructure:"allowDevelopment"`
	RateLimitMax     int           `mapstructure:"rateLimitMax"`
	RateLimitWindow  time.Duration `mapstructure:"rateLimitWindow"` // seconds
	SignatureSecret  string        `mapstructure:"signatureSecret"`
}
