package connector

import (
	"context"
	"time"
)

// retryConnect retries connectFn with exponential backoff until it
// succeeds, the retry budget is spent, or ctx is cancelled.
func retryConnect(ctx context.Context, cfg *RetryConfig, connectFn func(context.Context) error) error {
	var err error
	delay := cfg.BaseDelay
	if delay == 0 {
		delay = time.Second
	}

	for i := 0; i <= cfg.MaxRetries; i++ {
		err = connectFn(ctx)
		if err == nil {
			return nil
		}
		if i == cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}
	return err
}
