package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	apperrors "locatrajes/internal/errors"
)

// retryBackoff is the base wait before the second attempt; later attempts
// wait proportionally longer.
var retryBackoff = 100 * time.Millisecond

// withDeadlockRetry runs fn again when MySQL reports a deadlock or a lock
// wait timeout. Any other error is returned immediately.
func withDeadlockRetry(ctx context.Context, logger *zap.Logger, maxAttempts int, op string, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isDeadlockError(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		base := retryBackoff * time.Duration(attempt)
		// ±20% jitter
		wait := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
		logger.Warn("deadlock detected, retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Duration("backoff", wait),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
