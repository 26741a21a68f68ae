package ports

import (
	"context"

	"github.com/contactbook/contacts-api/internal/core/domain"
)

// UserCache is a best-effort side cache mapping username to a serialized
// user snapshot. It is never authoritative: a stale entry may serve an
// outdated role or confirmed flag until its TTL expires.
//
// Implementations must collapse backend unavailability to a miss on Get and
// to a silent no-op on Set; a failing cache must never fail the request path.
type UserCache interface {
	Get(ctx context.Context, username string) (*domain.User, bool)
	Set(ctx context.Context, user *domain.User)
}
