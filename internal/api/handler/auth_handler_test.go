package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/contactbook/contacts-api/internal/api/middleware"
	"github.com/contactbook/contacts-api/internal/core/domain"
	"github.com/contactbook/contacts-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn      func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn         func(ctx context.Context, username, password string) (string, error)
	confirmFn       func(ctx context.Context, tokenString string) (bool, error)
	requestEmailFn  func(ctx context.Context, email string) (bool, error)
	sendResetFn     func(ctx context.Context, email string) error
	validateResetFn func(tokenString string) error
	resetPasswordFn func(ctx context.Context, tokenString, newPassword string) error
	updateAvatarFn  func(ctx context.Context, email, url string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) ResolveBearer(ctx context.Context, tokenString string) (*domain.User, error) {
	panic("not used")
}

func (s *stubAuthService) ConfirmEmail(ctx context.Context, tokenString string) (bool, error) {
	return s.confirmFn(ctx, tokenString)
}

func (s *stubAuthService) RequestConfirmationEmail(ctx context.Context, email string) (bool, error) {
	return s.requestEmailFn(ctx, email)
}

func (s *stubAuthService) SendResetToken(ctx context.Context, email string) error {
	return s.sendResetFn(ctx, email)
}

func (s *stubAuthService) ValidateResetToken(tokenString string) error {
	return s.validateResetFn(tokenString)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	return s.resetPasswordFn(ctx, tokenString, newPassword)
}

func (s *stubAuthService) UpdateAvatar(ctx context.Context, email, url string) (*domain.User, error) {
	return s.updateAvatarFn(ctx, email, url)
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Username != "alice" || input.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u1", Username: input.Username, Email: input.Email, Role: domain.RoleUser, HashedPassword: "$2a$hash"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["hashed_password"]; leaked {
		t.Fatal("password hash leaked in response")
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatal("password hash leaked in response body")
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`)

	err := h.Register(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(t, http.MethodPost, "/auth/register", `{"username":"al"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, error) {
			if username != "alice" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"secret1"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "token123" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_Unconfirmed(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, error) {
			return "", domain.ErrEmailNotConfirmed
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"secret1"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrEmailNotConfirmed) {
		t.Fatalf("expected ErrEmailNotConfirmed, got %v", err)
	}
}

func TestAuthHandler_ConfirmEmail(t *testing.T) {
	stub := &stubAuthService{
		confirmFn: func(ctx context.Context, tokenString string) (bool, error) {
			if tokenString != "tok" {
				t.Fatalf("unexpected token: %s", tokenString)
			}
			return false, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(t, http.MethodGet, "/auth/confirmed_email/tok", "")
	c.SetParamNames("token")
	c.SetParamValues("tok")

	if err := h.ConfirmEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "email confirmed") {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_ConfirmEmail_Already(t *testing.T) {
	stub := &stubAuthService{
		confirmFn: func(ctx context.Context, tokenString string) (bool, error) {
			return true, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(t, http.MethodGet, "/auth/confirmed_email/tok", "")
	c.SetParamNames("token")
	c.SetParamValues("tok")

	if err := h.ConfirmEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "already confirmed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_RequestEmail_UnknownAccount(t *testing.T) {
	stub := &stubAuthService{
		requestEmailFn: func(ctx context.Context, email string) (bool, error) {
			return false, domain.ErrUserNotFound
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(t, http.MethodPost, "/auth/request_email",
		`{"email":"ghost@example.com"}`)

	if err := h.RequestEmail(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthHandler_ResetPasswordForm_RendersToken(t *testing.T) {
	stub := &stubAuthService{
		validateResetFn: func(tokenString string) error {
			if tokenString != "tok123" {
				t.Fatalf("unexpected token: %s", tokenString)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(t, http.MethodGet, "/auth/reset-password?token=tok123", "")

	if err := h.ResetPasswordForm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `value="tok123"`) {
		t.Fatalf("form does not carry the token: %s", rec.Body.String())
	}
}

func TestAuthHandler_ResetPasswordForm_BadToken(t *testing.T) {
	stub := &stubAuthService{
		validateResetFn: func(tokenString string) error {
			return domain.ErrInvalidToken
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(t, http.MethodGet, "/auth/reset-password?token=bad", "")

	if err := h.ResetPasswordForm(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthHandler_ResetPassword_Success(t *testing.T) {
	var gotToken, gotPassword string
	stub := &stubAuthService{
		resetPasswordFn: func(ctx context.Context, tokenString, newPassword string) error {
			gotToken, gotPassword = tokenString, newPassword
			return nil
		},
	}
	h := NewAuthHandler(stub)

	form := url.Values{"token": {"tok123"}, "new_password": {"newsecret"}}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotToken != "tok123" || gotPassword != "newsecret" {
		t.Fatalf("unexpected args: %s %s", gotToken, gotPassword)
	}
}

func TestAuthHandler_ResetPassword_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/reset-password", "")

	err := h.ResetPassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(t, http.MethodGet, "/api/users/me", "")
	c.Set(middleware.UserContextKey, &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"alice"`) {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_Me_NoUser(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(t, http.MethodGet, "/api/users/me", "")

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_UpdateAvatar(t *testing.T) {
	stub := &stubAuthService{
		updateAvatarFn: func(ctx context.Context, email, avatarURL string) (*domain.User, error) {
			if email != "alice@example.com" || avatarURL != "https://cdn.example.com/a.png" {
				t.Fatalf("unexpected args: %s %s", email, avatarURL)
			}
			return &domain.User{ID: "u1", Username: "alice", Email: email, Avatar: avatarURL, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(t, http.MethodPatch, "/api/users/avatar",
		`{"email":"alice@example.com","avatar":"https://cdn.example.com/a.png"}`)

	if err := h.UpdateAvatar(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "a.png") {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}
