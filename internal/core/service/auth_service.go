package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/contactbook/contacts-api/internal/core/domain"
	"github.com/contactbook/contacts-api/internal/core/ports"
	"github.com/contactbook/contacts-api/internal/core/token"
)

// AuthService implements registration, login, bearer resolution and the
// email-confirmation / password-reset token flows.
type AuthService struct {
	users     ports.UserRepository
	cache     ports.UserCache
	codec     *token.Codec
	emails    ports.EmailDispatcher
	accessTTL time.Duration
	baseURL   string
	logger    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	cache ports.UserCache,
	codec *token.Codec,
	emails ports.EmailDispatcher,
	accessTTL time.Duration,
	baseURL string,
	logger zerolog.Logger,
) *AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &AuthService{
		users:     users,
		cache:     cache,
		codec:     codec,
		emails:    emails,
		accessTTL: accessTTL,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// Register creates an unconfirmed account and enqueues the confirmation
// email. The duplicate pre-checks give a precise conflict message; the
// storage unique indexes remain the authority, so a lost check-then-act race
// still surfaces as ErrUserExists from Create.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if existing, err := s.users.GetByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUserExists
	}
	if existing, err := s.users.GetByUsername(ctx, input.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: string(hash),
		Role:           role,
		Confirmed:      false,
		Avatar:         input.Avatar,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.sendConfirmationEmail(created.Email, created.Username)
	s.logger.Info().Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login authenticates by username and password and returns an access token
// with the username as subject. The same ErrInvalidCredentials covers both
// unknown user and wrong password; an unconfirmed email is a distinct error
// that the API still maps to 401.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}
	if !user.Confirmed {
		return "", domain.ErrEmailNotConfirmed
	}
	return s.codec.Issue(user.Username, token.PurposeAccess, s.accessTTL)
}

// ResolveBearer verifies an access token and resolves its subject to the
// current user record: cache first, directory on miss, cache refill best
// effort. Safe to call concurrently for the same subject; the refill is an
// idempotent overwrite, so racing requests settle last-write-wins.
func (s *AuthService) ResolveBearer(ctx context.Context, tokenString string) (*domain.User, error) {
	username, err := s.codec.Verify(tokenString, token.PurposeAccess)
	if err != nil {
		return nil, err
	}

	if user, ok := s.cache.Get(ctx, username); ok {
		return user, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Valid signature but the subject no longer exists.
		return nil, domain.ErrInvalidCredentials
	}

	s.cache.Set(ctx, user)
	return user, nil
}

// ConfirmEmail consumes a confirmation token. Confirming an already
// confirmed address is a success-with-no-change, reported by the flag.
func (s *AuthService) ConfirmEmail(ctx context.Context, tokenString string) (bool, error) {
	email, err := s.codec.Verify(tokenString, token.PurposeEmail)
	if err != nil {
		return false, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, domain.ErrInvalidToken
	}
	if user.Confirmed {
		return true, nil
	}

	if err := s.users.ConfirmEmail(ctx, email); err != nil {
		return false, err
	}
	s.logger.Info().Str("username", user.Username).Msg("email confirmed")
	return false, nil
}

// RequestConfirmationEmail re-sends the confirmation email for an
// unconfirmed account. An unknown email is an explicit ErrUserNotFound.
func (s *AuthService) RequestConfirmationEmail(ctx context.Context, email string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, domain.ErrUserNotFound
	}
	if user.Confirmed {
		return true, nil
	}
	s.sendConfirmationEmail(user.Email, user.Username)
	return false, nil
}

// SendResetToken emails a password-reset link to a known address.
func (s *AuthService) SendResetToken(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	resetToken, err := s.codec.Issue(user.Email, token.PurposeReset, token.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/reset-password?token=%s", s.baseURL, resetToken)
	s.emails.Enqueue(ports.EmailMessage{
		To:      user.Email,
		Subject: "Reset your password",
		HTML: fmt.Sprintf(
			`<p>Hello %s,</p><p>Follow <a href="%s">this link</a> to reset your password. The link expires in one hour.</p>`,
			user.Username, link,
		),
	})
	return nil
}

// ValidateResetToken checks a reset token without consuming it.
func (s *AuthService) ValidateResetToken(tokenString string) error {
	_, err := s.codec.Verify(tokenString, token.PurposeReset)
	return err
}

// ResetPassword consumes a reset token and replaces the user's password.
func (s *AuthService) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	email, err := s.codec.Verify(tokenString, token.PurposeReset)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.UpdatePassword(ctx, email, string(hash))
	if err != nil {
		return err
	}
	s.logger.Info().Str("username", user.Username).Msg("password reset")
	return nil
}

// UpdateAvatar replaces the avatar URL and returns the refreshed record.
func (s *AuthService) UpdateAvatar(ctx context.Context, email, url string) (*domain.User, error) {
	return s.users.UpdateAvatar(ctx, email, url)
}

func (s *AuthService) sendConfirmationEmail(email, username string) {
	confirmToken, err := s.codec.Issue(email, token.PurposeEmail, token.EmailTokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to issue confirmation token")
		return
	}

	link := fmt.Sprintf("%s/auth/confirmed_email/%s", s.baseURL, confirmToken)
	s.emails.Enqueue(ports.EmailMessage{
		To:      email,
		Subject: "Confirm your email",
		HTML: fmt.Sprintf(
			`<p>Hello %s,</p><p>Please <a href="%s">confirm your email address</a> to activate your account.</p>`,
			username, link,
		),
	})
}
