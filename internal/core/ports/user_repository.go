package ports

import (
	"context"

	"github.com/contactbook/contacts-api/internal/core/domain"
)

// UserRepository owns user records. Lookups return (nil, nil) when no user
// matches: absence is a normal result at this layer and callers decide
// whether it is fatal. Mutations on an absent user fail with
// domain.ErrUserNotFound.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create persists user and returns the stored record including the
	// generated id. Uniqueness of username and email is enforced by the
	// storage layer; a violation returns domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// ConfirmEmail marks the user's email confirmed.
	ConfirmEmail(ctx context.Context, email string) error

	UpdateAvatar(ctx context.Context, email, url string) (*domain.User, error)
	UpdatePassword(ctx context.Context, email, hashedPassword string) (*domain.User, error)
}
