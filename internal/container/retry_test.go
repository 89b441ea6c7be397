// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRetryWithBackoff(t *testing.T) {
	t.Parallel()

	t.Run("succeeds first attempt", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(attempt int) (bool, error) {
			attempts++
			return false, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(attempt int) (bool, error) {
			attempts++
			if attempts < 3 {
				return true, errors.New("flaky")
			}
			return false, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("permanent failure stops immediately", func(t *testing.T) {
		t.Parallel()

		permanent := errors.New("permanent")
		attempts := 0
		err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(attempt int) (bool, error) {
			attempts++
			return false, permanent
		})
		if !errors.Is(err, permanent) {
			t.Errorf("error = %v, want the permanent error", err)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("exhaustion returns last error", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(attempt int) (bool, error) {
			attempts++
			return true, errors.New("still flaky")
		})
		if err == nil || !strings.Contains(err.Error(), "still flaky") {
			t.Errorf("error = %v, want the last attempt's error", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("cancellation aborts between retries", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		err := RetryWithBackoff(ctx, 5, time.Millisecond, func(attempt int) (bool, error) {
			attempts++
			cancel()
			return true, errors.New("flaky")
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want wrapped context.Canceled", err)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("attempt index passed through", func(t *testing.T) {
		t.Parallel()

		var seen []int
		_ = RetryWithBackoff(context.Background(), 2, time.Millisecond, func(attempt int) (bool, error) {
			seen = append(seen, attempt)
			return true, errors.New("flaky")
		})
		if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
			t.Errorf("attempt indices = %v, want [0 1]", seen)
		}
	})
}
