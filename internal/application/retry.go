package app

import (
	"context"
	"fmt"
	"log"
	"time"
)

// retry вызывает fn до attempts раз с паузой delay между попытками.
// Отмена контекста прерывает ожидание.
func retry(ctx context.Context, what string, attempts int, delay time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		log.Printf("[RETRY %d/%d] %s: %v", attempt, attempts, what, err)
		if attempt == attempts {
			break
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
	}
	return fmt.Errorf("%s: %d attempts failed: %w", what, attempts, err)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
