// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ratelimit enforces dual sliding-window request budgets for an
// upstream provider: a per-minute cap, a per-hour cap, and a minimum spacing
// between consecutive grants. Limits are evaluated over trailing windows, not
// fixed calendar buckets, so no trailing 60-second span ever exceeds the
// minute budget and no trailing 3600-second span exceeds the hour budget.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	minuteWindow = time.Minute
	hourWindow   = time.Hour
)

// Limiter grants request slots under the configured budgets. One Limiter is
// shared by all queries against the same provider; it is safe for concurrent
// use.
type Limiter struct {
	perMinute int
	perHour   int

	// spacing enforces the minimum gap between consecutive grants
	// (60s / perMinute), token bucket with burst 1.
	spacing *rate.Limiter

	mu     sync.Mutex
	minute []time.Time
	hour   []time.Time

	logger *log.Logger

	// Test hooks. Production values are set by New.
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New creates a Limiter with the given per-minute and per-hour budgets.
// Non-positive budgets disable the corresponding constraint. A nil logger
// falls back to log.Default().
func New(perMinute, perHour int, logger *log.Logger) *Limiter {
	if logger == nil {
		logger = log.Default()
	}

	spacing := rate.NewLimiter(rate.Inf, 1)
	if perMinute > 0 {
		spacing = rate.NewLimiter(rate.Every(minuteWindow/time.Duration(perMinute)), 1)
	}

	return &Limiter{
		perMinute: perMinute,
		perHour:   perHour,
		spacing:   spacing,
		logger:    logger,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// Acquire blocks the calling goroutine until a request slot is available,
// then records the grant. It returns a non-nil error only when ctx is
// cancelled during a wait; a cancelled caller leaves no half-recorded grant.
// Each suspension re-checks every constraint, since other callers may have
// taken slots while this one slept.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		// Minimum spacing first; the window checks below re-run after
		// every wait, so a grant is only recorded when all constraints
		// hold simultaneously.
		if err := l.spacing.Wait(ctx); err != nil {
			return err
		}

		l.mu.Lock()
		now := l.now()
		l.evict(now)

		wait := l.windowWait(now)
		if wait <= 0 {
			l.minute = append(l.minute, now)
			l.hour = append(l.hour, now)
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		l.logger.Warn("rate limit reached, waiting", "wait", wait)
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// windowWait returns how long the caller must wait before either window has
// room, or 0 if both have room now. Callers hold l.mu.
func (l *Limiter) windowWait(now time.Time) time.Duration {
	var wait time.Duration
	if l.perMinute > 0 && len(l.minute) >= l.perMinute {
		if w := minuteWindow - now.Sub(l.minute[0]); w > wait {
			wait = w
		}
	}
	if l.perHour > 0 && len(l.hour) >= l.perHour {
		if w := hourWindow - now.Sub(l.hour[0]); w > wait {
			wait = w
		}
	}
	return wait
}

// evict drops timestamps that have aged out of their windows. Callers hold l.mu.
func (l *Limiter) evict(now time.Time) {
	for len(l.minute) > 0 && now.Sub(l.minute[0]) >= minuteWindow {
		l.minute = l.minute[1:]
	}
	for len(l.hour) > 0 && now.Sub(l.hour[0]) >= hourWindow {
		l.hour = l.hour[1:]
	}
}

// Stats reports current window occupancy.
type Stats struct {
	MinuteUsed  int
	HourUsed    int
	MinuteLimit int
	HourLimit   int
}

// Stats returns the number of grants still counted against each window.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict(l.now())
	return Stats{
		MinuteUsed:  len(l.minute),
		HourUsed:    len(l.hour),
		MinuteLimit: l.perMinute,
		HourLimit:   l.perHour,
	}
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
