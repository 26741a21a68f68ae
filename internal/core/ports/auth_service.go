package ports

import (
	"context"

	"github.com/contactbook/contacts-api/internal/core/domain"
)

// RegisterInput is the data needed to create an account. Password is the
// plaintext credential; hashing happens inside the service.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
	Avatar   string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Login returns a bearer access token. Unknown username, wrong password
	// and an unconfirmed email all fail with 401-class errors.
	Login(ctx context.Context, username, password string) (string, error)

	// ResolveBearer maps a bearer token to its current user record,
	// cache-first with directory fallback and best-effort cache refill.
	ResolveBearer(ctx context.Context, tokenString string) (*domain.User, error)

	// ConfirmEmail consumes an email-confirmation token. The returned flag
	// is true when the address was already confirmed (idempotent no-op).
	ConfirmEmail(ctx context.Context, tokenString string) (bool, error)

	// RequestConfirmationEmail re-sends the confirmation email, or reports
	// alreadyConfirmed without sending.
	RequestConfirmationEmail(ctx context.Context, email string) (bool, error)

	// SendResetToken emails a password-reset link.
	SendResetToken(ctx context.Context, email string) error

	// ValidateResetToken checks a reset token without consuming it, for
	// rendering the reset form.
	ValidateResetToken(tokenString string) error

	ResetPassword(ctx context.Context, tokenString, newPassword string) error

	UpdateAvatar(ctx context.Context, email, url string) (*domain.User, error)
}
