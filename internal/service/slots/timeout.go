package slots

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// withTimeout выполняет fn с ограничением по времени
// Возвращает ошибку по истечении таймаута, даже если fn не реагирует на отмену контекста.
// Ограничивает только ожидание: fn, игнорирующая ctx, может завершить запись уже после отката.
func withTimeout(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: after %s: %v", ErrHoldWriteTimeout, timeout, err)
	}
	return err
}
