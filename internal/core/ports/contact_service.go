package ports

import (
	"context"
	"time"

	"github.com/contactbook/contacts-api/internal/core/domain"
)

// CreateContactInput is the data needed to create a contact. The owner is
// supplied separately by the caller from the resolved bearer user.
type CreateContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  time.Time
	ExtraInfo string
}

type ContactService interface {
	List(ctx context.Context, user *domain.User, offset, limit int) ([]domain.Contact, error)
	Get(ctx context.Context, id string, user *domain.User) (*domain.Contact, error)
	Create(ctx context.Context, input CreateContactInput, user *domain.User) (*domain.Contact, error)
	Update(ctx context.Context, id string, patch domain.ContactPatch, user *domain.User) (*domain.Contact, error)
	Delete(ctx context.Context, id string, user *domain.User) (*domain.Contact, error)
	Search(ctx context.Context, user *domain.User, query ContactSearch) ([]domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, user *domain.User, horizonDays int) ([]domain.Contact, error)
}
