// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"time"
)

// RetryWithBackoff runs op up to maxAttempts times, doubling the pause
// between tries starting from baseBackoff. Engine invocations that fail
// transiently (slow daemon startup, registry hiccups) go through here.
//
// op reports (retry, err): a false retry stops the loop immediately and
// returns err as-is, nil meaning success. When attempts run out, the last
// error is returned. Cancellation is checked between attempts so an
// abandoned operation never sleeps toward another try.
func RetryWithBackoff(
	ctx context.Context,
	maxAttempts int,
	baseBackoff time.Duration,
	op func(attempt int) (retry bool, err error),
) error {
	var lastErr error
	backoff := baseBackoff
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("retry aborted: %w", err)
			}
			time.Sleep(backoff)
			backoff *= 2
		}

		retry, err := op(attempt)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return lastErr
}
