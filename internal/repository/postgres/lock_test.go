package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lockSQL   = regexp.QuoteMeta(`SELECT pg_advisory_lock($1)`)
	unlockSQL = regexp.QuoteMeta(`SELECT pg_advisory_unlock($1)`)
)

func TestWithAdvisoryLock(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	id := advisoryLockID(migrationLockKey)

	mock.ExpectExec(lockSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(unlockSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

	called := false
	err := withAdvisoryLock(context.Background(), db, migrationLockKey, func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithAdvisoryLock_ReleasesOnError(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	id := advisoryLockID(migrationLockKey)

	mock.ExpectExec(lockSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(unlockSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

	boom := errors.New("boom")
	err := withAdvisoryLock(context.Background(), db, migrationLockKey, func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithAdvisoryLock_AcquireFails(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec(lockSQL).WillReturnError(errors.New("connection reset"))

	err := withAdvisoryLock(context.Background(), db, migrationLockKey, func(context.Context) error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquiring lock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvisoryLockID_Stable(t *testing.T) {
	assert.Equal(t, advisoryLockID("pokedex:migrate"), advisoryLockID("pokedex:migrate"))
	assert.NotEqual(t, advisoryLockID("pokedex:migrate"), advisoryLockID("pokedex:other"))
}
