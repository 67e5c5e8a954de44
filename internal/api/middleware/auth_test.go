package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/teamportal/identity-service/internal/api/session"
	"github.com/teamportal/identity-service/internal/core/domain"
	"github.com/teamportal/identity-service/internal/core/service"
)

type stubUserRepo struct {
	byID map[string]*domain.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	return nil, nil
}

func newAuthFixture() (echo.MiddlewareFunc, *service.TokenService, *stubUserRepo) {
	tokens := service.NewTokenService("secret", time.Hour)
	repo := &stubUserRepo{byID: map[string]*domain.User{
		"user-1": {ID: "user-1", Name: "Ann", Email: "ann@x.com", PasswordHash: "hash", Role: domain.RoleUser},
	}}
	cookies := session.NewTransport(time.Hour, false)
	return Auth(tokens, repo, cookies), tokens, repo
}

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	return req
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	mw, tokens, _ := newAuthFixture()

	signed, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(request(signed), rec)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		user, ok := Identity(c)
		if !ok {
			t.Fatalf("identity not attached")
		}
		if user.ID != "user-1" || user.Email != "ann@x.com" {
			t.Fatalf("unexpected identity: %+v", user)
		}
		if user.PasswordHash != "" {
			t.Fatalf("identity must not carry the password hash")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingCookie(t *testing.T) {
	e := echo.New()
	mw, _, _ := newAuthFixture()

	rec := httptest.NewRecorder()
	c := e.NewContext(request(""), rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	mw, _, _ := newAuthFixture()

	rec := httptest.NewRecorder()
	c := e.NewContext(request("not-a-token"), rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	e := echo.New()
	mw, _, _ := newAuthFixture()

	claims := jwt.MapClaims{
		"sub": "user-1",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(request(signed), rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ForeignSecret(t *testing.T) {
	e := echo.New()
	mw, _, _ := newAuthFixture()

	signed, err := service.NewTokenService("other-secret", time.Hour).Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(request(signed), rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign signature, got %d", rec.Code)
	}
}

func TestAuthMiddleware_SubjectGone(t *testing.T) {
	e := echo.New()
	mw, tokens, _ := newAuthFixture()

	signed, err := tokens.Issue("deleted-user")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(request(signed), rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for vanished subject, got %d", rec.Code)
	}
}
