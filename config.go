package queuectl

import (
	"context"
	"fmt"
	"strconv"
)

// Well-known configuration keys. Any key may be read or written through
// Configurator; these are the ones the engine itself consults.
const (
	ConfigBackoffBase        = "backoff_base"
	ConfigDefaultMaxRetries  = "default_max_retries"
	ConfigPollIntervalMillis = "poll_interval_ms"
)

// Default values used when a key has never been set.
const (
	DefaultBackoffBase        = 2.0
	DefaultMaxRetries         = 3
	DefaultPollIntervalMillis = 500
)

// Config provides typed access to operator-tunable settings stored in
// a Configurator, falling back to package defaults when a key is
// unset.
type Config struct {
	store Configurator
}

// NewConfig wraps a Configurator with typed accessors.
func NewConfig(store Configurator) *Config {
	return &Config{store: store}
}

// BackoffBase returns the configured exponential backoff base used by
// DecideRetry.
func (c *Config) BackoffBase(ctx context.Context) (float64, error) {
	v, err := c.store.GetConfig(ctx, ConfigBackoffBase)
	if err != nil {
		if err == ErrNotFound {
			return DefaultBackoffBase, nil
		}
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("queuectl: invalid %s: %w", ConfigBackoffBase, err)
	}
	return f, nil
}

// DefaultMaxRetries returns the configured default max_retries applied
// to jobs submitted without an explicit value.
func (c *Config) DefaultMaxRetries(ctx context.Context) (int, error) {
	v, err := c.store.GetConfig(ctx, ConfigDefaultMaxRetries)
	if err != nil {
		if err == ErrNotFound {
			return DefaultMaxRetries, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("queuectl: invalid %s: %w", ConfigDefaultMaxRetries, err)
	}
	return n, nil
}

// PollInterval returns the configured worker poll interval, in
// milliseconds.
func (c *Config) PollInterval(ctx context.Context) (int, error) {
	v, err := c.store.GetConfig(ctx, ConfigPollIntervalMillis)
	if err != nil {
		if err == ErrNotFound {
			return DefaultPollIntervalMillis, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("queuectl: invalid %s: %w", ConfigPollIntervalMillis, err)
	}
	return n, nil
}

// Get returns the raw string value for an arbitrary key.
func (c *Config) Get(ctx context.Context, key string) (string, error) {
	return c.store.GetConfig(ctx, key)
}

// Set stores the raw string value for an arbitrary key.
func (c *Config) Set(ctx context.Context, key, value string) error {
	return c.store.SetConfig(ctx, key, value)
}
