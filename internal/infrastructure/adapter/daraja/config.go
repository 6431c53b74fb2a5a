package daraja

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Default endpoint paths on the provider API host
const (
	authPath     = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath  = "/mpesa/stkpush/v1/processrequest"
	stkQueryPath = "/mpesa/stkpushquery/v1/query"
)

// Config represents provider gateway configuration
type Config struct {
	BaseURL        string        `mapstructure:"baseUrl"`
	ConsumerKey    string        `mapstructure:"consumerKey"`
	ConsumerSecret string        `mapstructure:"consumerSecret"`
	Shortcode      string        `mapstructure:"shortcode"`
	Passkey        string        `mapstructure:"passkey"`
	CallbackURL    string        `mapstructure:"callbackUrl"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"` // seconds
	TokenSkew      time.Duration `mapstructure:"tokenSkew"`      // seconds
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("gateway base URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid gateway base URL: %w", err)
	}
	if c.ConsumerKey == "" {
		return errors.New("gateway consumer key is required")
	}
	if c.ConsumerSecret == "" {
		return errors.New("gateway consumer secret is required")
	}
	if c.Shortcode == "" {
		return errors.New("gateway shortcode is required")
	}
	if c.Passkey == "" {
		return errors.New("gateway passkey is required")
	}
	if c.CallbackURL == "" {
		return errors.New("gateway callback URL is required")
	}
	callback, err := url.Parse(c.CallbackURL)
	if err != nil {
		return fmt.Errorf("invalid callback URL: %w", err)
	}
	if callback.Scheme != "https" {
		return errors.New("callback URL must use https")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("gateway request timeout must be positive")
	}
	return nil
}
