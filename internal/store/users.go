package store

import (
	"context"
	stdsql "database/sql"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const (
	tableUsers    = "users"
	tableSessions = "user_sessions"
)

var userColumns = []string{
	"id", "email", "full_name", "password_hash", "is_active", "failed_login_attempts", "locked_until", "last_login_at", "created_at", "updated_at",
}

var sessionColumns = []string{"id", "user_id", "expires_at", "revoked_at", "created_at"}

func scanUser(rows *entsql.Rows, u *model.User) error {
	var locked, lastLogin stdsql.NullTime
	if err := rows.Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsActive, &u.FailedLoginAttempts, &locked, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return err
	}
	u.LockedUntil = timePtr(locked)
	u.LastLoginAt = timePtr(lastLogin)
	return nil
}

// CreateUser stores u with its email lower-cased; a taken email surfaces as
// a unique violation.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	now := s.now()
	u.ID = newID()
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt, u.UpdatedAt = now, now

	q := s.sql().Insert(tableUsers).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.FullName, u.PasswordHash, u.IsActive, u.FailedLoginAttempts, u.LockedUntil, u.LastLoginAt, u.CreatedAt, u.UpdatedAt)
	_, err := s.exec(ctx, q)
	return wrap("create user", err)
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.getUser(ctx, "get user", entsql.EQ("id", id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, "get user by email", entsql.EQ("email", strings.ToLower(email)))
}

func (s *Store) getUser(ctx context.Context, op string, where *entsql.Predicate) (*model.User, error) {
	q := s.sql().Select(userColumns...).
		From(entsql.Table(tableUsers)).
		Where(where)

	var u model.User
	if err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return scanUser(rows, &u) }); err != nil {
		return nil, wrap(op, err)
	}
	return &u, nil
}

// RecordLoginFailure stores the new failure count and, once the threshold
// is reached, the lockout end.
func (s *Store) RecordLoginFailure(ctx context.Context, id uuid.UUID, attempts int, lockedUntil *time.Time) error {
	q := s.sql().Update(tableUsers).
		Set("failed_login_attempts", attempts).
		Set("locked_until", lockedUntil).
		Set("updated_at", s.now()).
		Where(entsql.EQ("id", id))
	return wrap("record login failure", s.execOne(ctx, q))
}

func (s *Store) RecordLoginSuccess(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := s.sql().Update(tableUsers).
		Set("failed_login_attempts", 0).
		SetNull("locked_until").
		Set("last_login_at", at).
		Set("updated_at", s.now()).
		Where(entsql.EQ("id", id))
	return wrap("record login success", s.execOne(ctx, q))
}

func (s *Store) CreateSession(ctx context.Context, sess *model.UserSession) error {
	sess.CreatedAt = s.now()
	q := s.sql().Insert(tableSessions).
		Columns(sessionColumns...).
		Values(sess.ID, sess.UserID, sess.ExpiresAt, sess.RevokedAt, sess.CreatedAt)
	_, err := s.exec(ctx, q)
	return wrap("create session", err)
}

func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*model.UserSession, error) {
	q := s.sql().Select(sessionColumns...).
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ("id", id))

	var (
		sess    model.UserSession
		revoked stdsql.NullTime
	)
	err := s.queryOne(ctx, q, func(rows *entsql.Rows) error {
		return rows.Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &revoked, &sess.CreatedAt)
	})
	if err != nil {
		return nil, wrap("get session", err)
	}
	sess.RevokedAt = timePtr(revoked)
	return &sess, nil
}

// RevokeSession is idempotent: revoking an already revoked session keeps
// the first revocation time.
func (s *Store) RevokeSession(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := s.sql().Update(tableSessions).
		Set("revoked_at", at).
		Where(entsql.And(entsql.EQ("id", id), entsql.IsNull("revoked_at")))
	_, err := s.exec(ctx, q)
	return wrap("revoke session", err)
}

func (s *Store) SetUserPassword(ctx context.Context, id uuid.UUID, hash string) error {
	q := s.sql().Update(tableUsers).
		Set("password_hash", hash).
		Set("updated_at", s.now()).
		Where(entsql.EQ("id", id))
	return wrap("set user password", s.execOne(ctx, q))
}
