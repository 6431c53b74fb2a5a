package daraja

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTokenSkew is subtracted from the advertised lifetime so a token
	// is refreshed before it can expire mid-request
	DefaultTokenSkew = 60 * time.Second

	// defaultTokenLifetime is assumed when the auth response omits expires_in
	defaultTokenLifetime = 3599 * time.Second
)

// CredentialCache caches the provider OAuth token and refreshes it through a
// single-flight group, so a burst of concurrent payment requests after expiry
// produces exactly one auth round trip.
type CredentialCache struct {
	authURL        string
	consumerKey    string
	consumerSecret string
	skew           time.Duration
	httpClient     *http.Client
	timeProvider   coreport.TimeProvider
	logger         coreport.Logger

	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	group singleflight.Group
}

// NewCredentialCache creates a token cache for the given consumer credentials
func NewCredentialCache(
	config *Config,
	httpClient *http.Client,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *CredentialCache {
	skew := config.TokenSkew
	if skew <= 0 {
		skew = DefaultTokenSkew
	}
	return &CredentialCache{
		authURL:        config.BaseURL + authPath,
		consumerKey:    config.ConsumerKey,
		consumerSecret: config.ConsumerSecret,
		skew:           skew,
		httpClient:     httpClient,
		timeProvider:   timeProvider,
		logger:         logger,
	}
}

// Token returns a cached access token, refreshing it when the remaining
// lifetime is inside the skew window. Callers blocked on the same refresh
// share one result.
func (c *CredentialCache) Token(ctx context.Context) (string, error) {
	if token, ok := c.cached(); ok {
		return token, nil
	}

	result, err, _ := c.group.Do("oauth", func() (any, error) {
		// Another waiter may have refreshed while this one queued
		if token, ok := c.cached(); ok {
			return token, nil
		}
		return c.refresh(ctx)
	})
	if err != nil {
		// Inside the skew window the previous token is stale but not yet
		// expired, so one failed refresh does not take payments down
		if token, ok := c.staleButUsable(); ok {
			c.logger.Warn("Token refresh failed, serving stale token", map[string]any{
				"error": err.Error(),
			})
			return token, nil
		}
		return "", err
	}
	return result.(string), nil
}

// cached returns the token when it is outside the skew window
func (c *CredentialCache) cached() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return "", false
	}
	if c.timeProvider.Now().After(c.expiresAt.Add(-c.skew)) {
		return "", false
	}
	return c.token, true
}

// staleButUsable returns the token when it is inside the skew window but has
// not reached its hard expiry
func (c *CredentialCache) staleButUsable() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" || c.timeProvider.Now().After(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

// refresh performs the client-credentials exchange and stores the result
func (c *CredentialCache) refresh(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errs.ErrCredentialRefreshFailed, err.Error())
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Token refresh request failed", map[string]any{
			"error": err.Error(),
		})
		return "", fmt.Errorf("%w: %s", errs.ErrCredentialRefreshFailed, err.Error())
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("%w: %s", errs.ErrCredentialRefreshFailed, err.Error())
	}

	if res.StatusCode != http.StatusOK {
		c.logger.Error("Token refresh rejected", map[string]any{
			"status_code": res.StatusCode,
		})
		return "", fmt.Errorf("%w: auth endpoint returned status %d", errs.ErrCredentialRefreshFailed, res.StatusCode)
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", fmt.Errorf("%w: %s", errs.ErrCredentialRefreshFailed, err.Error())
	}
	if auth.AccessToken == "" {
		return "", fmt.Errorf("%w: auth response missing access token", errs.ErrCredentialRefreshFailed)
	}

	lifetime := defaultTokenLifetime
	if seconds, err := strconv.ParseInt(auth.ExpiresIn.String(), 10, 64); err == nil && seconds > 0 {
		lifetime = time.Duration(seconds) * time.Second
	}

	now := c.timeProvider.Now()
	c.mu.Lock()
	c.token = auth.AccessToken
	c.expiresAt = now.Add(lifetime)
	c.mu.Unlock()

	c.logger.Debug("Access token refreshed", map[string]any{
		"lifetime_seconds": int64(lifetime.Seconds()),
	})
	return auth.AccessToken, nil
}

// Invalidate drops the cached token so the next caller forces a refresh
func (c *CredentialCache) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}
