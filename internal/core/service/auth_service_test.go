package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamportal/identity-service/internal/core/domain"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by email
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("id-%d", r.nextID)
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	return users, nil
}

type stubAudit struct {
	events []*domain.AuthEvent
}

func (s *stubAudit) Record(event *domain.AuthEvent) {
	s.events = append(s.events, event)
}

func newAuthService(repo *stubUserRepo, audit AuditSink) *AuthService {
	return NewAuthService(repo, NewTokenService("secret", time.Hour), audit, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	audit := &stubAudit{}
	svc := newAuthService(repo, audit)

	token, user, err := svc.Register(context.Background(), "Ann", "ann@x.com", "secret123", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}
	if user.PasswordHash == "secret123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(audit.events) != 1 || audit.events[0].Action != domain.ActionRegister {
		t.Fatalf("expected one register audit event, got %+v", audit.events)
	}
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	_, user, err := svc.Register(context.Background(), "Ann", "  Ann@X.Com ", "pw", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "ann@x.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), nil)

	cases := [][3]string{
		{"", "a@x.com", "pw"},
		{"Ann", "", "pw"},
		{"Ann", "a@x.com", ""},
	}
	for _, tc := range cases {
		if _, _, err := svc.Register(context.Background(), tc[0], tc[1], tc[2], ""); err != domain.ErrMissingFields {
			t.Fatalf("expected ErrMissingFields for %v, got %v", tc, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	if _, _, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "Other", "ann@x.com", "pw2", ""); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(repo.users))
	}
}

func TestAuthService_Register_ExplicitAdmin(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), nil)

	_, user, err := svc.Register(context.Background(), "Bo", "admin@x.com", "p", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	audit := &stubAudit{}
	svc := newAuthService(repo, audit)

	_, created, err := svc.Register(context.Background(), "Carol", "carol@x.com", "s3cret", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@x.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	// The issued token must name the user as subject.
	sub, err := NewTokenService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if sub != created.ID {
		t.Fatalf("expected subject %s, got %s", created.ID, sub)
	}

	last := audit.events[len(audit.events)-1]
	if last.Action != domain.ActionLogin || !last.Success {
		t.Fatalf("expected successful login audit event, got %+v", last)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmail(t *testing.T) {
	repo := newStubUserRepo()
	audit := &stubAudit{}
	svc := newAuthService(repo, audit)

	_, _, _ = svc.Register(context.Background(), "Dave", "dave@x.com", "goodpass", "")

	// Wrong password and unknown email must be indistinguishable.
	if _, _, err := svc.Login(context.Background(), "dave@x.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@x.com", "goodpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	for _, ev := range audit.events[1:] {
		if ev.Action != domain.ActionLoginFailed || ev.Success {
			t.Fatalf("expected failed login audit events, got %+v", ev)
		}
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), nil)

	if _, _, err := svc.Login(context.Background(), "", "pw"); err != domain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@x.com", ""); err != domain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}
