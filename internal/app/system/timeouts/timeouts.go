// Package timeouts provides centralized timeout values for network calls.
//
// The onboarding workflows themselves define no timeouts. Each store round
// trip and each payment-processor call is bounded here instead, so the
// policy lives with the clients that talk to the network.
//
//   - Probe: liveness and readiness checks run by the connection supervisor
//   - Store: a single document read, find or upsert
//   - Processor: a single payment-processor API call
//   - Shutdown: draining the public listener
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultProbe     = 2 * time.Second
	DefaultStore     = 5 * time.Second
	DefaultProcessor = 30 * time.Second
	DefaultShutdown  = 10 * time.Second
)

var mu sync.RWMutex

var (
	probe     = DefaultProbe
	store     = DefaultStore
	processor = DefaultProcessor
	shutdown  = DefaultShutdown
)

// Probe returns the timeout for supervisor liveness/readiness checks.
func Probe() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return probe
}

// Store returns the timeout for one document-store round trip.
func Store() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return store
}

// Processor returns the timeout for one payment-processor call.
func Processor() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return processor
}

// Shutdown returns how long the listener may take to drain.
func Shutdown() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return shutdown
}

// Config holds timeout values. Zero values are ignored.
type Config struct {
	Probe     time.Duration
	Store     time.Duration
	Processor time.Duration
	Shutdown  time.Duration
}

// Configure overrides the non-zero values in cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Probe > 0 {
		probe = cfg.Probe
	}
	if cfg.Store > 0 {
		store = cfg.Store
	}
	if cfg.Processor > 0 {
		processor = cfg.Processor
	}
	if cfg.Shutdown > 0 {
		shutdown = cfg.Shutdown
	}
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	probe = DefaultProbe
	store = DefaultStore
	processor = DefaultProcessor
	shutdown = DefaultShutdown
}

// ConfigureFromEnv reads TIMEOUT_PROBE, TIMEOUT_STORE, TIMEOUT_PROCESSOR and
// TIMEOUT_SHUTDOWN (Go durations, e.g. "2s"). Unset or invalid values are
// skipped. Returns how many values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	read := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				*dst = d
				n++
			}
		}
	}
	read("TIMEOUT_PROBE", &cfg.Probe)
	read("TIMEOUT_STORE", &cfg.Store)
	read("TIMEOUT_PROCESSOR", &cfg.Processor)
	read("TIMEOUT_SHUTDOWN", &cfg.Shutdown)
	Configure(cfg)
	return n
}

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Probe: probe, Store: store, Processor: processor, Shutdown: shutdown}
}

// WithTimeout wraps context.WithTimeout and logs a warning from the returned
// cancel func when the deadline was what ended the operation.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Processor(), log, "stripe: confirm intent")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
