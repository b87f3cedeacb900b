package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bodymetrics/internal/domain"
)

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, username, passwordHash string) (*domain.User, error)
	countFn         func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, s domain.Session) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) Create(ctx context.Context, s domain.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	password := "testpass123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: "testuser", PasswordHash: string(hash)}, nil
		},
	}

	var created domain.Session
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, s domain.Session) error {
			created = s
			return nil
		},
	}

	svc := NewAuthService(users, sessions, WithSessionTTL(2*time.Hour))
	svc.now = func() time.Time { return now }
	token, err := svc.Login(ctx, "testuser", password, "test-agent")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" || created.Token != token {
		t.Errorf("expected stored token %q, got %q", token, created.Token)
	}
	if created.UserID != 1 || created.UserAgent != "test-agent" {
		t.Errorf("unexpected session %+v", created)
	}
	if !created.ExpiresAt.Equal(now.Add(2 * time.Hour)) {
		t.Errorf("expected expiry %v, got %v", now.Add(2*time.Hour), created.ExpiresAt)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.MinCost)

	tests := []struct {
		name string
		user *domain.User
	}{
		{"wrong password", &domain.User{ID: 1, Username: "testuser", PasswordHash: string(hash)}},
		{"unknown user", nil},
		{"sso-only user", &domain.User{ID: 2, Username: "testuser"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := &mockUserRepo{
				getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
					return tc.user, nil
				},
			}
			svc := NewAuthService(users, &mockSessionRepo{})
			_, err := svc.Login(ctx, "testuser", "wrongpass", "ua")
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_ValidateSession_Valid(t *testing.T) {
	ctx := context.Background()
	token := "validtoken"

	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{
				Token:     token,
				UserID:    1,
				UserAgent: "ua",
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}, nil
		},
	}
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: 1, Username: "testuser"}, nil
		},
	}

	svc := NewAuthService(users, sessions)
	user, err := svc.ValidateSession(ctx, token, "ua")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %s", user.Username)
	}
}

func TestAuthService_ValidateSession_Rejected(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		session   *domain.Session
		userAgent string
		want      error
		deleted   bool
	}{
		{"unknown token", nil, "ua", ErrSessionNotFound, false},
		{"expired", &domain.Session{UserID: 1, UserAgent: "ua", ExpiresAt: time.Now().Add(-time.Hour)}, "ua", ErrSessionExpired, true},
		{"other browser", &domain.Session{UserID: 1, UserAgent: "ua", ExpiresAt: time.Now().Add(time.Hour)}, "curl", ErrSessionExpired, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deleted := false
			sessions := &mockSessionRepo{
				getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
					return tc.session, nil
				},
				deleteFn: func(ctx context.Context, tok string) error {
					deleted = true
					return nil
				},
			}
			svc := NewAuthService(&mockUserRepo{}, sessions)
			_, err := svc.ValidateSession(ctx, "tok", tc.userAgent)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if deleted != tc.deleted {
				t.Errorf("expected deleted=%v, got %v", tc.deleted, deleted)
			}
		})
	}
}

func TestAuthService_CreateInitialUser_Success(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		countFn: func(ctx context.Context) (int, error) { return 0, nil },
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			if username != "admin" {
				t.Errorf("expected username 'admin', got %s", username)
			}
			if passwordHash == "" {
				t.Error("password hash should not be empty")
			}
			return &domain.User{ID: 1, Username: username}, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{})
	if err := svc.CreateInitialUser(ctx, "admin", "password123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestAuthService_CreateInitialUser_Rejected(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepo{
		countFn: func(ctx context.Context) (int, error) { return 1, nil },
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	if err := svc.CreateInitialUser(ctx, "admin", "password123"); !errors.Is(err, ErrUsersExist) {
		t.Errorf("expected ErrUsersExist, got %v", err)
	}
	if err := svc.CreateInitialUser(ctx, "admin", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_ValidateForwardAuth_ExistingUser(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: "ssouser"}, nil
		},
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			t.Error("existing user must not be recreated")
			return nil, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{})
	user, err := svc.ValidateForwardAuth(ctx, "ssouser")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "ssouser" {
		t.Errorf("expected username 'ssouser', got %s", user.Username)
	}
}

func TestAuthService_ValidateForwardAuth_NewUser(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepo{
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			if passwordHash != "" {
				t.Error("forward-auth users must not get a password")
			}
			return &domain.User{ID: 2, Username: username}, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{})
	user, err := svc.ValidateForwardAuth(ctx, "newssouser")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "newssouser" {
		t.Errorf("expected username 'newssouser', got %s", user.Username)
	}

	if _, err := svc.ValidateForwardAuth(ctx, ""); err == nil {
		t.Error("expected error for empty header")
	}
}

func TestAuthService_LoginWithUser_CreateRace(t *testing.T) {
	ctx := context.Background()
	calls := 0
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			calls++
			if calls == 1 {
				return nil, nil
			}
			return &domain.User{ID: 5, Username: username}, nil
		},
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			return nil, errors.New("duplicate key")
		},
	}
	var userID int64
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, s domain.Session) error {
			userID = s.UserID
			return nil
		},
	}

	svc := NewAuthService(users, sessions)
	if _, err := svc.LoginWithUser(ctx, "racer@example.com", "ua"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if userID != 5 {
		t.Errorf("expected session for user 5, got %d", userID)
	}
}
