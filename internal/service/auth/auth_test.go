package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	pasetotoken "github.com/Alijeyrad/vitum_backend/pkg/paseto"
	"github.com/Alijeyrad/vitum_backend/pkg/password"
	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

type mockRepo struct {
	users    map[uuid.UUID]*model.User
	sessions map[uuid.UUID]*model.UserSession
	rehashed int
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: map[uuid.UUID]*model.User{}, sessions: map[uuid.UUID]*model.UserSession{}}
}

func (m *mockRepo) CreateUser(_ context.Context, u *model.User) error {
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return &pq.Error{Code: "23505", Constraint: "user_email"}
		}
	}
	u.ID = uuid.New()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockRepo) GetUser(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockRepo) SetUserPassword(_ context.Context, id uuid.UUID, hash string) error {
	m.users[id].PasswordHash = hash
	m.rehashed++
	return nil
}

func (m *mockRepo) RecordLoginFailure(_ context.Context, id uuid.UUID, attempts int, lockedUntil *time.Time) error {
	u := m.users[id]
	u.FailedLoginAttempts = attempts
	u.LockedUntil = lockedUntil
	return nil
}

func (m *mockRepo) RecordLoginSuccess(_ context.Context, id uuid.UUID, at time.Time) error {
	u := m.users[id]
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &at
	return nil
}

func (m *mockRepo) CreateSession(_ context.Context, sess *model.UserSession) error {
	cp := *sess
	m.sessions[sess.ID] = &cp
	return nil
}

func (m *mockRepo) GetSession(_ context.Context, id uuid.UUID) (*model.UserSession, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (m *mockRepo) RevokeSession(_ context.Context, id uuid.UUID, at time.Time) error {
	if sess, ok := m.sessions[id]; ok && sess.RevokedAt == nil {
		sess.RevokedAt = &at
	}
	return nil
}

var cheapParams = password.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type fixture struct {
	svc  Service
	repo *mockRepo
	now  *time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	now := time.Date(2025, 3, 12, 13, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	keys := pasetotoken.NewLocalKeys()
	tokens, err := pasetotoken.New(pasetotoken.Config{
		Mode: keys.Mode, Issuer: "vitum", Audience: "vitum-api",
		AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour,
	}, keys)
	if err != nil {
		t.Fatalf("pasetotoken.New() error = %v", err)
	}
	tokens.WithClock(clock)

	repo := newMockRepo()
	svc := New(repo, password.NewHasher(cheapParams), tokens, clock)
	return fixture{svc: svc, repo: repo, now: &now}
}

func (f fixture) createUser(t *testing.T) *model.User {
	t.Helper()
	u, err := f.svc.CreateUser(context.Background(), CreateUserRequest{
		Email: "ana@vitum.test", FullName: "Ana Souza", Password: "pilates-2025",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return u
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t)

	if u.PasswordHash == "pilates-2025" || !strings.HasPrefix(u.PasswordHash, "$argon2id$") {
		t.Errorf("password stored as %q", u.PasswordHash)
	}
	if !u.IsActive {
		t.Error("new user should be active")
	}

	_, err := f.svc.CreateUser(context.Background(), CreateUserRequest{
		Email: "ANA@vitum.test", FullName: "Other", Password: "long-enough",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}

	_, err = f.svc.CreateUser(context.Background(), CreateUserRequest{
		Email: "bia@vitum.test", FullName: "Bia", Password: "short",
	})
	if !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("short password error = %v, want validation error", err)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success opens a session", func(t *testing.T) {
		f := newFixture(t)
		u := f.createUser(t)

		tokens, err := f.svc.Login(ctx, LoginRequest{Email: "Ana@Vitum.test", Password: "pilates-2025"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if tokens.AccessToken == "" || tokens.RefreshToken == "" || tokens.ExpiresIn != 900 {
			t.Errorf("tokens = %+v", tokens)
		}
		if len(f.repo.sessions) != 1 {
			t.Errorf("sessions = %d, want 1", len(f.repo.sessions))
		}
		if f.repo.users[u.ID].LastLoginAt == nil {
			t.Error("last login not recorded")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(ctx, LoginRequest{Email: "nobody@vitum.test", Password: "whatever"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("locks after repeated failures", func(t *testing.T) {
		f := newFixture(t)
		u := f.createUser(t)

		for i := 0; i < maxLoginAttempts; i++ {
			_, err := f.svc.Login(ctx, LoginRequest{Email: "ana@vitum.test", Password: "wrong-password"})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("attempt %d error = %v", i+1, err)
			}
		}
		lockedUntil := f.repo.users[u.ID].LockedUntil
		if lockedUntil == nil {
			t.Fatal("account not locked")
		}

		_, err := f.svc.Login(ctx, LoginRequest{Email: "ana@vitum.test", Password: "pilates-2025"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Login() while locked error = %v, want ErrInvalidCredentials", err)
		}
		if _, err := f.svc.Login(ctx, LoginRequest{Email: "ana@vitum.test", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("wrong password while locked error = %v", err)
		}
		if got := f.repo.users[u.ID].LockedUntil; got == nil || !got.Equal(*lockedUntil) {
			t.Errorf("lock moved to %v while locked, want %v", got, lockedUntil)
		}

		*f.now = f.now.Add(accountLockMins*time.Minute + time.Second)
		if _, err := f.svc.Login(ctx, LoginRequest{Email: "ana@vitum.test", Password: "pilates-2025"}); err != nil {
			t.Errorf("Login() after lockout error = %v", err)
		}
	})

	t.Run("account state stays hidden without the password", func(t *testing.T) {
		tests := []struct {
			name     string
			setup    func(u *model.User, now time.Time)
			password string
			wantErr  error
		}{
			{
				name:     "inactive, wrong password",
				setup:    func(u *model.User, _ time.Time) { u.IsActive = false },
				password: "wrong-password",
				wantErr:  ErrInvalidCredentials,
			},
			{
				name:     "inactive, right password",
				setup:    func(u *model.User, _ time.Time) { u.IsActive = false },
				password: "pilates-2025",
				wantErr:  ErrAccountInactive,
			},
			{
				name: "locked, wrong password",
				setup: func(u *model.User, now time.Time) {
					until := now.Add(time.Minute)
					u.LockedUntil = &until
				},
				password: "wrong-password",
				wantErr:  ErrInvalidCredentials,
			},
			{
				name: "locked and inactive, right password",
				setup: func(u *model.User, now time.Time) {
					until := now.Add(time.Minute)
					u.LockedUntil = &until
					u.IsActive = false
				},
				password: "pilates-2025",
				wantErr:  ErrInvalidCredentials,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				u := f.createUser(t)
				tt.setup(f.repo.users[u.ID], *f.now)

				_, err := f.svc.Login(ctx, LoginRequest{Email: "ana@vitum.test", Password: tt.password})
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
				}
				if len(f.repo.sessions) != 0 {
					t.Errorf("sessions = %d, want 0", len(f.repo.sessions))
				}
			})
		}
	})

	t.Run("upgrades stale hashes", func(t *testing.T) {
		f := newFixture(t)
		u := f.createUser(t)

		stale := cheapParams
		stale.Iterations = 2
		hash, err := password.NewHasher(stale).Hash("pilates-2025")
		if err != nil {
			t.Fatal(err)
		}
		f.repo.users[u.ID].PasswordHash = hash

		if _, err := f.svc.Login(ctx, LoginRequest{Email: "ana@vitum.test", Password: "pilates-2025"}); err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if f.repo.rehashed != 1 {
			t.Errorf("rehashed = %d, want 1", f.repo.rehashed)
		}
	})
}

func TestRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createUser(t)

	tokens, err := f.svc.Login(ctx, LoginRequest{Email: "ana@vitum.test", Password: "pilates-2025"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := f.svc.Refresh(ctx, tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh(access token) error = %v, want ErrInvalidToken", err)
	}

	refreshed, err := f.svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("Refresh() returned no access token")
	}

	var sessionID uuid.UUID
	for id := range f.repo.sessions {
		sessionID = id
	}
	if err := f.svc.Logout(ctx, sessionID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := f.svc.Refresh(ctx, tokens.RefreshToken); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Refresh() after logout error = %v, want ErrSessionNotFound", err)
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t)

	got, err := f.svc.Me(context.Background(), u.ID)
	if err != nil || got.Email != "ana@vitum.test" {
		t.Errorf("Me() = %+v, %v", got, err)
	}
	if _, err := f.svc.Me(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Me(unknown) error = %v, want ErrUserNotFound", err)
	}
}
