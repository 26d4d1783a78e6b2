package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/njprem/storefront/internal/domain"
	"github.com/njprem/storefront/internal/util"
)

type fakeUserRepo struct {
	createEmail       string
	createDisplayName *string
	createRole        string
	createHash        []byte
	createSalt        []byte
	createResult      *domain.User
	createErr         error

	findByEmailInput  string
	findByEmailResult *domain.User
	findByEmailErr    error

	findByIDInput  uuid.UUID
	findByIDResult *domain.User
	findByIDErr    error
}

func (f *fakeUserRepo) Create(ctx context.Context, email string, displayName *string, role string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	f.createEmail = email
	f.createDisplayName = displayName
	f.createRole = role
	f.createHash = passwordHash
	f.createSalt = passwordSalt
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	return &domain.User{ID: uuid.New(), Email: email, DisplayName: displayName, Role: role}, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.findByEmailInput = email
	return f.findByEmailResult, f.findByEmailErr
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.findByIDInput = id
	return f.findByIDResult, f.findByIDErr
}

type fakeSessionRepo struct {
	createdSessions []struct {
		userID    uuid.UUID
		token     string
		expiresAt time.Time
	}
	createErr error

	findActiveToken  string
	findActiveResult *domain.Session
	findActiveErr    error

	deactivatedToken string
	deactivateErr    error

	prunedUser uuid.UUID
	prunedAt   time.Time
	pruneErr   error
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	f.createdSessions = append(f.createdSessions, struct {
		userID    uuid.UUID
		token     string
		expiresAt time.Time
	}{userID: userID, token: token, expiresAt: expiresAt})
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Session{ID: 1, UserID: userID, Token: token, ExpiresAt: expiresAt, IsActive: true}, nil
}

func (f *fakeSessionRepo) DeactivateSession(ctx context.Context, token string) error {
	f.deactivatedToken = token
	return f.deactivateErr
}

func (f *fakeSessionRepo) FindActiveSession(ctx context.Context, token string) (*domain.Session, error) {
	f.findActiveToken = token
	if f.findActiveErr != nil {
		return nil, f.findActiveErr
	}
	if f.findActiveResult != nil {
		return f.findActiveResult, nil
	}
	return &domain.Session{ID: 1, Token: token, IsActive: true, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeSessionRepo) PruneExpired(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	f.prunedUser = userID
	f.prunedAt = now
	if f.pruneErr != nil {
		return 0, f.pruneErr
	}
	return 1, nil
}

func newAuthServiceForTests(users *fakeUserRepo, sessions *fakeSessionRepo) *AuthService {
	return NewAuthService(users, sessions, util.NewJWTManager("test-secret", time.Hour))
}

func TestRegisterSuccess(t *testing.T) {
	userRepo := &fakeUserRepo{}
	sessionRepo := &fakeSessionRepo{}
	svc := newAuthServiceForTests(userRepo, sessionRepo)

	name := "  Ada  "
	result, err := svc.Register(context.Background(), "Ada@Example.com ", "SuperSecret1!", &name, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if userRepo.createEmail != "ada@example.com" {
		t.Fatalf("email should be normalized, got %q", userRepo.createEmail)
	}
	if userRepo.createRole != domain.RoleCustomer {
		t.Fatalf("expected default role customer, got %q", userRepo.createRole)
	}
	if userRepo.createDisplayName == nil || *userRepo.createDisplayName != "Ada" {
		t.Fatalf("expected trimmed display name, got %v", userRepo.createDisplayName)
	}
	if len(userRepo.createHash) == 0 || len(userRepo.createSalt) == 0 {
		t.Fatal("expected password hash and salt to be set")
	}
	if len(sessionRepo.createdSessions) != 1 {
		t.Fatalf("expected session to be created, got %d", len(sessionRepo.createdSessions))
	}
	if result.Token == "" || sessionRepo.createdSessions[0].token != result.Token {
		t.Fatal("expected JWT token stored with the session")
	}
	if !result.ExpiresAt.Equal(sessionRepo.createdSessions[0].expiresAt) {
		t.Fatal("expected session expiry to match token expiry")
	}
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		role     string
		want     error
	}{
		{name: "weak password", email: "weak@example.com", password: "weakpass", want: ErrPasswordTooWeak},
		{name: "no digit", email: "weak@example.com", password: "onlyletters!", want: ErrPasswordTooWeak},
		{name: "bad email", email: "not-an-email", password: "SuperSecret1!", want: ErrInvalidEmail},
		{name: "empty email", email: "   ", password: "SuperSecret1!", want: ErrInvalidEmail},
		{name: "unknown role", email: "a@example.com", password: "SuperSecret1!", role: "admin", want: ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			userRepo := &fakeUserRepo{}
			svc := newAuthServiceForTests(userRepo, &fakeSessionRepo{})

			_, err := svc.Register(context.Background(), tc.email, tc.password, nil, tc.role)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(userRepo.createHash) != 0 {
				t.Fatal("expected no user to be created")
			}
		})
	}
}

func TestRegisterEmailExists(t *testing.T) {
	userRepo := &fakeUserRepo{createErr: &pgconn.PgError{Code: "23505"}}
	sessionRepo := &fakeSessionRepo{}
	svc := newAuthServiceForTests(userRepo, sessionRepo)

	_, err := svc.Register(context.Background(), "duplicate@example.com", "ValidPass123!", nil, domain.RoleSeller)
	if !errors.Is(err, ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
	if len(sessionRepo.createdSessions) != 0 {
		t.Fatal("expected no session to be created on error")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		userRepo := &fakeUserRepo{findByEmailErr: sql.ErrNoRows}
		svc := newAuthServiceForTests(userRepo, &fakeSessionRepo{})

		_, err := svc.Login(context.Background(), "none@example.com", "password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("password mismatch", func(t *testing.T) {
		hash, salt, _ := util.DerivePassword("different1")
		user := &domain.User{ID: uuid.New(), Email: "test@example.com", PasswordHash: hash, PasswordSalt: salt}
		userRepo := &fakeUserRepo{findByEmailResult: user}
		svc := newAuthServiceForTests(userRepo, &fakeSessionRepo{})

		_, err := svc.Login(context.Background(), "test@example.com", "password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestLoginSuccess(t *testing.T) {
	hash, salt, _ := util.DerivePassword("right-password1")
	user := &domain.User{ID: uuid.New(), Email: "test@example.com", Role: domain.RoleCustomer, PasswordHash: hash, PasswordSalt: salt}
	userRepo := &fakeUserRepo{findByEmailResult: user}
	sessionRepo := &fakeSessionRepo{}
	svc := newAuthServiceForTests(userRepo, sessionRepo)

	result, err := svc.Login(context.Background(), " TEST@example.com", "right-password1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if userRepo.findByEmailInput != "test@example.com" {
		t.Fatalf("expected normalized lookup, got %q", userRepo.findByEmailInput)
	}
	if len(sessionRepo.createdSessions) != 1 {
		t.Fatalf("expected session to be created, got %d", len(sessionRepo.createdSessions))
	}
	if result.User == nil || result.User.ID != user.ID {
		t.Fatal("unexpected user in response")
	}
}

func TestLoginPrunesExpiredSessions(t *testing.T) {
	hash, salt, _ := util.DerivePassword("right-password1")
	user := &domain.User{ID: uuid.New(), Email: "test@example.com", Role: domain.RoleCustomer, PasswordHash: hash, PasswordSalt: salt}
	sessionRepo := &fakeSessionRepo{}
	svc := newAuthServiceForTests(&fakeUserRepo{findByEmailResult: user}, sessionRepo)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.Login(context.Background(), "test@example.com", "right-password1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sessionRepo.prunedUser != user.ID || !sessionRepo.prunedAt.Equal(now) {
		t.Fatalf("expected prune for %s at %s, got %s at %s", user.ID, now, sessionRepo.prunedUser, sessionRepo.prunedAt)
	}
}

func TestLoginFailsWhenPruneFails(t *testing.T) {
	hash, salt, _ := util.DerivePassword("right-password1")
	user := &domain.User{ID: uuid.New(), Email: "test@example.com", PasswordHash: hash, PasswordSalt: salt}
	pruneErr := errors.New("db down")
	sessionRepo := &fakeSessionRepo{pruneErr: pruneErr}
	svc := newAuthServiceForTests(&fakeUserRepo{findByEmailResult: user}, sessionRepo)

	if _, err := svc.Login(context.Background(), "test@example.com", "right-password1"); !errors.Is(err, pruneErr) {
		t.Fatalf("expected prune error, got %v", err)
	}
	if len(sessionRepo.createdSessions) != 0 {
		t.Fatal("expected no session to be created")
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "auth@example.com", Role: domain.RoleCustomer}
	userRepo := &fakeUserRepo{findByIDResult: user}
	sessionRepo := &fakeSessionRepo{}
	svc := newAuthServiceForTests(userRepo, sessionRepo)

	token, _, err := svc.jwt.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	authenticated, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if authenticated == nil || authenticated.ID != user.ID {
		t.Fatal("expected user to be returned")
	}
	if sessionRepo.findActiveToken != token {
		t.Fatal("expected session lookup with token")
	}
	if userRepo.findByIDInput != user.ID {
		t.Fatal("expected user lookup by id")
	}
}

func TestAuthenticateRejectsInactiveSession(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "auth@example.com"}

	t.Run("no session row", func(t *testing.T) {
		svc := newAuthServiceForTests(&fakeUserRepo{findByIDResult: user}, &fakeSessionRepo{findActiveErr: sql.ErrNoRows})
		token, _, _ := svc.jwt.Generate(user.ID, user.Email, domain.RoleCustomer)

		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrSessionInactive) {
			t.Fatalf("expected ErrSessionInactive, got %v", err)
		}
	})

	t.Run("session expired", func(t *testing.T) {
		sessionRepo := &fakeSessionRepo{findActiveResult: &domain.Session{IsActive: true, ExpiresAt: time.Now().Add(-time.Minute)}}
		svc := newAuthServiceForTests(&fakeUserRepo{findByIDResult: user}, sessionRepo)
		token, _, _ := svc.jwt.Generate(user.ID, user.Email, domain.RoleCustomer)

		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrSessionInactive) {
			t.Fatalf("expected ErrSessionInactive, got %v", err)
		}
	})

	t.Run("expired by the service clock", func(t *testing.T) {
		expiresAt := time.Now().Add(time.Hour)
		sessionRepo := &fakeSessionRepo{findActiveResult: &domain.Session{IsActive: true, ExpiresAt: expiresAt}}
		svc := newAuthServiceForTests(&fakeUserRepo{findByIDResult: user}, sessionRepo)
		token, _, _ := svc.jwt.Generate(user.ID, user.Email, domain.RoleCustomer)
		svc.now = func() time.Time { return expiresAt.Add(time.Second) }

		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrSessionInactive) {
			t.Fatalf("expected ErrSessionInactive, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		sessionRepo := &fakeSessionRepo{}
		svc := newAuthServiceForTests(&fakeUserRepo{}, sessionRepo)

		if _, err := svc.Authenticate(context.Background(), "not-a-jwt"); !errors.Is(err, util.ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
		if sessionRepo.findActiveToken != "" {
			t.Fatal("expected no session lookup for an unparseable token")
		}
	})
}

func TestLogoutDeactivatesSession(t *testing.T) {
	sessionRepo := &fakeSessionRepo{}
	svc := newAuthServiceForTests(&fakeUserRepo{}, sessionRepo)

	if err := svc.Logout(context.Background(), "token123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionRepo.deactivatedToken != "token123" {
		t.Fatal("expected session to be deactivated with token123")
	}
}
