// Package bootstrap holds the connect-with-backoff helper shared by every
// binary that has to wait for an external dependency at startup.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
)

// WaitFor runs op up to attempts times with a fixed delay between tries.
// Every failure short of exhaustion is logged and retried; the final error
// is returned once the budget runs out.
func WaitFor(ctx context.Context, attempts int, delay time.Duration, op func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	try := 0
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		try++
		if err := op(ctx); err != nil {
			log.Printf("bootstrap: attempt %d/%d failed: %v", try, attempts, err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
	}
	return nil
}
