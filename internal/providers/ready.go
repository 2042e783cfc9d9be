package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
)

// WaitReady polls the embedder's health check until it succeeds or attempts
// run out. Local embedding servers often need a while to load their model.
func WaitReady(ctx context.Context, e Embedder, attempts uint, delay time.Duration, logger *slog.Logger) error {
	if attempts == 0 {
		attempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	err := retry.Do(
		func() error {
			return e.HealthCheck(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("embedding provider not ready", "provider", e.Name(), "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("%s embedder not ready after %d attempts: %w", e.Name(), attempts, err)
	}
	return nil
}
