package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"autoparts/content/internal/config"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// StorefrontClient tells the public site which cached pages to rebuild after
// an admin change.
type StorefrontClient interface {
	Revalidate(ctx context.Context, tags ...string) error
	Close() error
}

type revalidateRequest struct {
	Tags []string `json:"tags"`
}

type storefrontClient struct {
	rl         ratelimit.Limiter
	httpClient *resty.Client

	// Circuit breaker for an unreachable storefront
	circuitBreakerMutex sync.RWMutex
	disabledUntil       time.Time
	circuitBreakerDelay time.Duration
	failures            int
	maxFailures         int
}

// NewStorefrontClient returns a no-op client when no base URL is configured.
func NewStorefrontClient(cfg config.StorefrontConfig) StorefrontClient {
	if cfg.BaseURL == "" {
		log.Info("Storefront revalidation disabled: no base URL configured")
		return noopStorefrontClient{}
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Revalidate-Secret", cfg.RevalidateSecret)

	return &storefrontClient{
		rl:                  ratelimit.New(cfg.MaxRequestsPerSecond),
		httpClient:          client,
		circuitBreakerDelay: time.Minute,
		maxFailures:         3,
	}
}

func (c *storefrontClient) Revalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}

	if remaining := c.remainingCircuitBreakerTime(); remaining > 0 {
		log.Debugf("🚫 Revalidation blocked by circuit breaker. Remaining time: %v", remaining.Round(time.Second))
		return fmt.Errorf("circuit breaker is open - revalidation disabled for %v more", remaining.Round(time.Second))
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(revalidateRequest{Tags: tags}).
		Post("/api/revalidate")
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		c.recordFailure()
		return fmt.Errorf("failed to call storefront: %w", err)
	}

	if resp.IsError() {
		if resp.StatusCode() >= 500 {
			c.recordFailure()
		}
		return fmt.Errorf("storefront revalidation failed: %d %s", resp.StatusCode(), resp.Status())
	}

	c.recordSuccess()
	log.Debugf("Revalidated storefront tags %v", tags)
	return nil
}

func (c *storefrontClient) remainingCircuitBreakerTime() time.Duration {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()

	remaining := time.Until(c.disabledUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *storefrontClient) recordFailure() {
	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.failures++
	if c.failures >= c.maxFailures {
		c.disabledUntil = time.Now().Add(c.circuitBreakerDelay)
		c.failures = 0
		log.Warnf("🚫 Circuit breaker activated! Revalidation disabled until %v",
			c.disabledUntil.Format("15:04:05"))
	}
}

func (c *storefrontClient) recordSuccess() {
	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.failures = 0
}

func (c *storefrontClient) Close() error {
	return c.httpClient.Close()
}

type noopStorefrontClient struct{}

func (noopStorefrontClient) Revalidate(context.Context, ...string) error { return nil }
func (noopStorefrontClient) Close() error                                { return nil }
