package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserByEmail(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE "email" = \$1`).
		WithArgs("ana@vitum.test").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "ana@vitum.test", "Ana Souza", "$argon2id$...", true, int64(2), nil, nil, fixedNow, fixedNow))

	u, err := s.GetUserByEmail(context.Background(), "Ana@Vitum.TEST")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, 2, u.FailedLoginAttempts)
	assert.Nil(t, u.LockedUntil)
	assert.False(t, u.Locked(fixedNow))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeSession(t *testing.T) {
	t.Run("first revocation", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectExec(`UPDATE "user_sessions" SET "revoked_at" = \$1 WHERE "id" = \$2 AND "revoked_at" IS NULL`).
			WithArgs(fixedNow, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.RevokeSession(context.Background(), uuid.New(), fixedNow))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already revoked is not an error", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectExec(`UPDATE "user_sessions"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, s.RevokeSession(context.Background(), uuid.New(), fixedNow))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordLoginSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "users" SET .*"locked_until" = NULL.* WHERE "id" = \$4`).
		WithArgs(int64(0), fixedNow, fixedNow, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.RecordLoginSuccess(context.Background(), uuid.New(), fixedNow))
	require.NoError(t, mock.ExpectationsWereMet())
}
