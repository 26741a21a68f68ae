package handler

import (
	"time"

	"github.com/contactbook/contacts-api/internal/core/domain"
	"github.com/contactbook/contacts-api/internal/core/ports"
)

type createContactRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,max=30"`
	Birthday  string `json:"birthday" validate:"required"`
	ExtraInfo string `json:"extra_info,omitempty" validate:"max=500"`
}

// updateContactRequest is a partial patch: absent (null) fields leave the
// stored value untouched.
type updateContactRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Birthday  *string `json:"birthday"`
	ExtraInfo *string `json:"extra_info" validate:"omitempty,max=500"`
}

type contactResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Birthday  string `json:"birthday"`
	ExtraInfo string `json:"extra_info,omitempty"`
}

// birthdayLayout is the wire format for contact birthdays.
const birthdayLayout = "2006-01-02"

func toContactResponse(c *domain.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Birthday:  c.Birthday.Format(birthdayLayout),
		ExtraInfo: c.ExtraInfo,
	}
}

func toContactResponses(contacts []domain.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, toContactResponse(&contacts[i]))
	}
	return out
}

func toCreateInput(req createContactRequest, birthday time.Time) ports.CreateContactInput {
	return ports.CreateContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Birthday:  birthday,
		ExtraInfo: req.ExtraInfo,
	}
}

func toPatch(req updateContactRequest, birthday *time.Time) domain.ContactPatch {
	return domain.ContactPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Birthday:  birthday,
		ExtraInfo: req.ExtraInfo,
	}
}
