// Package auth validates bearer tokens against the external auth service.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/adyela/payments/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUnavailable  = errors.New("auth service unavailable")
)

// Principal is the authenticated caller returned by the auth service.
type Principal struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(p.Roles, r) {
			return true
		}
	}
	return false
}

// TokenCache stores validated principals keyed by a token digest.
type TokenCache interface {
	Get(ctx context.Context, key string) (*Principal, bool)
	Set(ctx context.Context, key string, principal *Principal, ttl time.Duration)
}

type Client struct {
	validateURL string
	httpClient  *http.Client
	cache       TokenCache
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// NewClient builds a client for cfg. cache may be nil.
func NewClient(cfg config.AuthConfig, cache TokenCache, logger *slog.Logger) *Client {
	return &Client{
		validateURL: strings.TrimRight(cfg.ServiceURL, "/") + cfg.ValidateEndpoint,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
	}
}

// Validate resolves a bearer token to its principal. A non-2xx answer from
// the auth service yields ErrInvalidToken.
func (c *Client) Validate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	key := cacheKey(token)
	if c.cache != nil {
		if p, ok := c.cache.Get(ctx, key); ok {
			return p, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.validateURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("auth service request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrInvalidToken
	}

	var principal Principal
	if err := json.NewDecoder(resp.Body).Decode(&principal); err != nil {
		return nil, fmt.Errorf("%w: decode principal: %v", ErrUnavailable, err)
	}
	if principal.ID == "" {
		return nil, ErrInvalidToken
	}

	if c.cache != nil && c.cacheTTL > 0 {
		c.cache.Set(ctx, key, &principal, c.cacheTTL)
	}

	return &principal, nil
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
