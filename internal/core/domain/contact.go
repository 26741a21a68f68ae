package domain

import "time"

// Contact is an address-book entry owned by exactly one user. UserID is
// immutable after creation; every query touching contacts must be scoped by
// it so one user can never observe another's rows.
type Contact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  time.Time `json:"birthday"`
	ExtraInfo string    `json:"extra_info,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactPatch carries a partial update: nil fields are left untouched.
type ContactPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Birthday  *time.Time
	ExtraInfo *string
}
