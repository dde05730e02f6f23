package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
)

const migrationLockKey = "pokedex:migrate"

// advisoryLockID derives a stable pg advisory lock id from a string key.
func advisoryLockID(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64())
}

// withAdvisoryLock runs fn while holding a session-scoped advisory lock.
// The lock lives on a dedicated connection so it is released with that
// connection if the process dies mid-run.
func withAdvisoryLock(ctx context.Context, db *sql.DB, key string, fn func(context.Context) error) (err error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("reserving lock connection: %w", err)
	}
	defer conn.Close()

	id := advisoryLockID(key)
	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", id); err != nil {
		return fmt.Errorf("acquiring lock %s: %w", key, err)
	}
	defer func() {
		// ctx may already be cancelled; the unlock still has to go out.
		if _, uerr := conn.ExecContext(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", id); uerr != nil && err == nil {
			err = fmt.Errorf("releasing lock %s: %w", key, uerr)
		}
	}()

	return fn(ctx)
}
