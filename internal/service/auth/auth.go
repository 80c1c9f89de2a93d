package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	pasetotoken "github.com/Alijeyrad/vitum_backend/pkg/paseto"
	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

const (
	maxLoginAttempts = 5
	accountLockMins  = 15
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds until the access token expires
}

// ---------------------------------------------------------------------------
// Interfaces
// ---------------------------------------------------------------------------

type Repository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	SetUserPassword(ctx context.Context, id uuid.UUID, hash string) error
	RecordLoginFailure(ctx context.Context, id uuid.UUID, attempts int, lockedUntil *time.Time) error
	RecordLoginSuccess(ctx context.Context, id uuid.UUID, at time.Time) error
	CreateSession(ctx context.Context, sess *model.UserSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*model.UserSession, error)
	RevokeSession(ctx context.Context, id uuid.UUID, at time.Time) error
}

type Hasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) error
	NeedsRehash(encoded string) bool
}

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error)
	Login(ctx context.Context, req LoginRequest) (*Tokens, error)
	// Refresh exchanges a refresh token for a new pair within the same
	// session.
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	repo   Repository
	hasher Hasher
	tokens *pasetotoken.Manager
	now    func() time.Time
}

func New(repo Repository, hasher Hasher, tokens *pasetotoken.Manager, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &authService{repo: repo, hasher: hasher, tokens: tokens, now: now}
}

func (s *authService) CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*Tokens, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	now := s.now()
	matched := s.hasher.Verify(u.PasswordHash, req.Password) == nil

	// A locked account answers exactly like a wrong password, and guesses
	// made while it is locked neither count nor reveal a match.
	if u.Locked(now) {
		return nil, ErrInvalidCredentials
	}
	if !matched {
		s.recordFailedLogin(ctx, u, now)
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountInactive
	}

	if err := s.repo.RecordLoginSuccess(ctx, u.ID, now); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	if s.hasher.NeedsRehash(u.PasswordHash) {
		s.rehash(ctx, u.ID, req.Password)
	}

	return s.createSession(ctx, u.ID)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	claims, err := s.tokens.VerifyAs(refreshToken, pasetotoken.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sess, err := s.repo.GetSession(ctx, claims.SessionID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !sess.Live(s.now()) || sess.UserID != claims.UserID {
		return nil, ErrSessionNotFound
	}

	u, err := s.repo.GetUser(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !u.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issue(u.ID, sess.ID)
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.repo.RevokeSession(ctx, sessionID, s.now()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if store.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *authService) createSession(ctx context.Context, userID uuid.UUID) (*Tokens, error) {
	sess := &model.UserSession{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.tokens.RefreshTTL()),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s.issue(userID, sess.ID)
}

func (s *authService) issue(userID, sessionID uuid.UUID) (*Tokens, error) {
	access, _, err := s.tokens.IssueAccess(userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, _, err := s.tokens.IssueRefresh(userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func (s *authService) recordFailedLogin(ctx context.Context, u *model.User, now time.Time) {
	attempts := u.FailedLoginAttempts + 1
	var lockedUntil *time.Time
	if attempts >= maxLoginAttempts {
		until := now.Add(accountLockMins * time.Minute)
		lockedUntil = &until
		attempts = 0
	}
	if err := s.repo.RecordLoginFailure(ctx, u.ID, attempts, lockedUntil); err != nil {
		slog.WarnContext(ctx, "failed to record login failure", "user_id", u.ID, "error", err)
	}
}

func (s *authService) rehash(ctx context.Context, userID uuid.UUID, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.repo.SetUserPassword(ctx, userID, hash)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "failed to upgrade password hash", "user_id", userID, "error", err)
	}
}
