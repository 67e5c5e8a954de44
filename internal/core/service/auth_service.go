package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rs/zerolog"

	"github.com/teamportal/identity-service/internal/core/domain"
	"github.com/teamportal/identity-service/internal/core/ports"
)

// AuditSink receives auth events; implementations must never block the
// request path.
type AuditSink interface {
	Record(event *domain.AuthEvent)
}

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	audit  AuditSink
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, audit AuditSink, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, audit: audit, log: log}
}

// Register creates a user and issues a session token for it. The email
// is the unique key, compared case-insensitively by storing it
// lowercased. A duplicate surfaces as domain.ErrUserExists whether it is
// caught by the pre-check or by the store's unique index at create time.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (string, *domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return "", nil, domain.ErrMissingFields
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if err != domain.ErrUserNotFound {
		return "", nil, err
	}

	if role == "" {
		role = domain.RoleUser
	}
	if role == domain.RoleAdmin {
		// Privilege escalation surface: the public endpoint accepts an
		// explicit admin role.
		s.log.Warn().Str("email", email).Msg("admin role requested at registration")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", nil, err
	}

	s.record(domain.ActionRegister, created.Email, created.ID, true)
	return token, created, nil
}

// Login verifies credentials and issues a session token. Unknown email
// and wrong password are indistinguishable to the caller: both return
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrMissingFields
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			s.record(domain.ActionLoginFailed, email, "", false)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.record(domain.ActionLoginFailed, email, user.ID, false)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.record(domain.ActionLogin, user.Email, user.ID, true)
	return token, user, nil
}

func (s *AuthService) record(action domain.AuthAction, email, userID string, success bool) {
	if s.audit == nil {
		return
	}
	s.audit.Record(&domain.AuthEvent{
		Action:  action,
		Email:   email,
		UserID:  userID,
		Success: success,
		At:      time.Now().UTC(),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
