// Package retrylimit paces REST calls with an adaptive rate limit and retries
// the ones Discord asks us to retry.
//
//	lim := retrylimit.NewAdaptiveLimiter(5, 1, 10, 1, 0.5)
//	err := retrylimit.Do(ctx, lim, retrylimit.DefaultConfig(), func() error {
//	    return s.ChannelMessageDelete(channelID, messageID)
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter is a token bucket whose rate grows slowly on success and
// drops sharply when the server pushes back. Safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	min, max  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter starts at initial requests per second, stays within
// [min, max], adds stepUp after a success and multiplies by stepDown after
// a rate limit.
func NewAdaptiveLimiter(initial, min, max, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if min <= 0 {
		min = 1
	}
	if max < min {
		max = min
	}
	if initial < min {
		initial = min
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		min:      min,
		max:      max,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a request may proceed.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success raises the rate, unless the last rate limit was recent.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 10*time.Second {
		a.set(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited lowers the rate.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.set(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// Limit returns the current requests per second.
func (a *AdaptiveLimiter) Limit() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) set(l rate.Limit) {
	if l > a.max {
		l = a.max
	}
	if l < a.min {
		l = a.min
	}
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
		a.limiter.SetBurst(burstFor(l))
	}
}

func burstFor(l rate.Limit) int {
	if l < 1 {
		return 1
	}
	return int(l)
}

// HTTPError is an error that carries an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusCode extracts the HTTP status of a Discord REST error, or 0.
func StatusCode(err error) int {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode
	}
	var h HTTPError
	if errors.As(err, &h) {
		return h.StatusCode()
	}
	return 0
}

// Retryable reports whether err is worth another attempt: 429, 5xx, or an
// error without a status (network failure).
func Retryable(err error) bool {
	code := StatusCode(err)
	return code == 0 || code == http.StatusTooManyRequests || code >= 500
}

type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:  4,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error, runs out
// of attempts, or ctx ends. lim may be nil.
func Do(ctx context.Context, lim *AdaptiveLimiter, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if lim != nil {
			if werr := lim.Wait(ctx); werr != nil {
				return werr
			}
		}

		if err = fn(); err == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}
		if !Retryable(err) {
			return err
		}

		code := StatusCode(err)
		if lim != nil && (code == http.StatusTooManyRequests || code >= 500) {
			lim.RateLimited()
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		log.Printf("[WARN] Request failed (attempt %d, status %d): %v. Retrying in %v", attempt, code, err, delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(jitter(delay)):
		}
		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", cfg.MaxAttempts, err)
}

// jitter adds up to 25% to d.
func jitter(d time.Duration) time.Duration {
	if d < 4 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d/4)))
}
