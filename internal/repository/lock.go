package repository

import (
	"context"
	"fmt"
	"hash/fnv"

	vendora_errors "vendora/pkg/errors"
)

// lockKey maps a semantic key string onto the 64-bit advisory lock space.
func lockKey(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64())
}

// acquireAdvisoryLock takes pg_advisory_xact_lock for key inside the current
// transaction. The lock releases automatically at commit or rollback.
// timeoutMillis > 0 bounds the wait via lock_timeout; expiry surfaces as
// ErrLockTimeout.
func acquireAdvisoryLock(ctx context.Context, tx DBTX, key string, timeoutMillis int) error {
	if timeoutMillis > 0 {
		// SET LOCAL does not accept bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeoutMillis)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey(key)); err != nil {
		if isLockNotAvailable(err) {
			return vendora_errors.ErrLockTimeout
		}
		return err
	}
	return nil
}
