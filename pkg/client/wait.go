package client

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// WaitConfig tunes WaitReady.
type WaitConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	// MaxAttempts caps the number of probes; zero means no cap.
	MaxAttempts uint64
	// OnRetry is called after each failed probe, before sleeping.
	OnRetry func(attempt uint64, err error, delay time.Duration)
}

// DefaultWaitConfig polls for up to 90 seconds.
func DefaultWaitConfig() *WaitConfig {
	return &WaitConfig{
		InitialInterval: 250 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  90 * time.Second,
	}
}

// WaitReady polls /status with exponential backoff until it reports "ok",
// the elapsed time runs out or ctx is done.
func (c *Client) WaitReady(ctx context.Context, config *WaitConfig) error {
	if config == nil {
		config = DefaultWaitConfig()
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = config.InitialInterval
	expBackoff.MaxInterval = config.MaxInterval
	expBackoff.Reset()

	var attempt uint64
	startTime := time.Now()

	for {
		attempt++
		status, err := c.Status(ctx)
		if err == nil && status == "ok" {
			return nil
		}
		if err == nil {
			err = fmt.Errorf("status %q", status)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if config.MaxAttempts > 0 && attempt >= config.MaxAttempts {
			return fmt.Errorf("server not ready after %d attempts: %w", attempt, err)
		}
		if config.MaxElapsedTime > 0 && time.Since(startTime) >= config.MaxElapsedTime {
			return fmt.Errorf("server not ready after %v: %w", config.MaxElapsedTime, err)
		}

		delay := expBackoff.NextBackOff()
		if delay == backoff.Stop {
			return fmt.Errorf("server not ready: %w", err)
		}
		if config.OnRetry != nil {
			config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
