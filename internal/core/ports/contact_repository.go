package ports

import (
	"context"
	"time"

	"github.com/contactbook/contacts-api/internal/core/domain"
)

// ContactSearch carries the optional case-insensitive substring filters for
// Search. Empty fields are not applied.
type ContactSearch struct {
	FirstName string
	LastName  string
	Email     string
}

// ContactRepository owns contact records. Every method is scoped by the
// owning user id; an id that exists but belongs to another user behaves
// exactly like a missing id (domain.ErrContactNotFound).
type ContactRepository interface {
	// List returns the user's contacts in stable id-ascending order so
	// repeated calls with incrementing offsets neither skip nor repeat rows.
	List(ctx context.Context, userID string, offset, limit int) ([]domain.Contact, error)

	Get(ctx context.Context, id, userID string) (*domain.Contact, error)

	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)

	// Update applies the non-nil fields of patch and returns the refreshed
	// record. The write is a single atomic operation; on a constraint
	// violation nothing is mutated.
	Update(ctx context.Context, id, userID string, patch domain.ContactPatch) (*domain.Contact, error)

	// Delete removes the contact and returns its prior value.
	Delete(ctx context.Context, id, userID string) (*domain.Contact, error)

	Search(ctx context.Context, userID string, query ContactSearch) ([]domain.Contact, error)

	// BirthdaysWithin returns contacts whose recurring birthday falls in
	// [today, today+horizonDays], wrapping across the year boundary.
	BirthdaysWithin(ctx context.Context, userID string, today time.Time, horizonDays int) ([]domain.Contact, error)
}
