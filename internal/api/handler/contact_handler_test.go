package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/contactbook/contacts-api/internal/api/middleware"
	"github.com/contactbook/contacts-api/internal/core/domain"
	"github.com/contactbook/contacts-api/internal/core/ports"
)

type stubContactService struct {
	listFn      func(ctx context.Context, user *domain.User, offset, limit int) ([]domain.Contact, error)
	getFn       func(ctx context.Context, id string, user *domain.User) (*domain.Contact, error)
	createFn    func(ctx context.Context, input ports.CreateContactInput, user *domain.User) (*domain.Contact, error)
	updateFn    func(ctx context.Context, id string, patch domain.ContactPatch, user *domain.User) (*domain.Contact, error)
	deleteFn    func(ctx context.Context, id string, user *domain.User) (*domain.Contact, error)
	searchFn    func(ctx context.Context, user *domain.User, query ports.ContactSearch) ([]domain.Contact, error)
	birthdaysFn func(ctx context.Context, user *domain.User, horizonDays int) ([]domain.Contact, error)
}

func (s *stubContactService) List(ctx context.Context, user *domain.User, offset, limit int) ([]domain.Contact, error) {
	return s.listFn(ctx, user, offset, limit)
}

func (s *stubContactService) Get(ctx context.Context, id string, user *domain.User) (*domain.Contact, error) {
	return s.getFn(ctx, id, user)
}

func (s *stubContactService) Create(ctx context.Context, input ports.CreateContactInput, user *domain.User) (*domain.Contact, error) {
	return s.createFn(ctx, input, user)
}

func (s *stubContactService) Update(ctx context.Context, id string, patch domain.ContactPatch, user *domain.User) (*domain.Contact, error) {
	return s.updateFn(ctx, id, patch, user)
}

func (s *stubContactService) Delete(ctx context.Context, id string, user *domain.User) (*domain.Contact, error) {
	return s.deleteFn(ctx, id, user)
}

func (s *stubContactService) Search(ctx context.Context, user *domain.User, query ports.ContactSearch) ([]domain.Contact, error) {
	return s.searchFn(ctx, user, query)
}

func (s *stubContactService) UpcomingBirthdays(ctx context.Context, user *domain.User, horizonDays int) ([]domain.Contact, error) {
	return s.birthdaysFn(ctx, user, horizonDays)
}

var testUser = &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}

func TestContactHandler_List_PassesPaging(t *testing.T) {
	stub := &stubContactService{
		listFn: func(ctx context.Context, user *domain.User, offset, limit int) ([]domain.Contact, error) {
			if user.ID != "u1" || offset != 10 || limit != 5 {
				t.Fatalf("unexpected args: %s %d %d", user.ID, offset, limit)
			}
			return []domain.Contact{{ID: "c1", FirstName: "Bob"}}, nil
		},
	}
	h := NewContactHandler(stub)

	c, rec := newJSONContext(t, http.MethodGet, "/api/contacts?offset=10&limit=5", "")
	c.Set(middleware.UserContextKey, testUser)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []contactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "c1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestContactHandler_List_NoUser(t *testing.T) {
	h := NewContactHandler(&stubContactService{})

	c, _ := newJSONContext(t, http.MethodGet, "/api/contacts", "")

	err := h.List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestContactHandler_Create_Success(t *testing.T) {
	stub := &stubContactService{
		createFn: func(ctx context.Context, input ports.CreateContactInput, user *domain.User) (*domain.Contact, error) {
			want := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
			if !input.Birthday.Equal(want) {
				t.Fatalf("birthday not parsed: %v", input.Birthday)
			}
			return &domain.Contact{
				ID:        "c1",
				UserID:    user.ID,
				FirstName: input.FirstName,
				LastName:  input.LastName,
				Email:     input.Email,
				Phone:     input.Phone,
				Birthday:  input.Birthday,
			}, nil
		},
	}
	h := NewContactHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/api/contacts",
		`{"first_name":"Bob","last_name":"Jones","email":"bob@example.com","phone":"555-0100","birthday":"1990-06-15"}`)
	c.Set(middleware.UserContextKey, testUser)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp contactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Birthday != "1990-06-15" {
		t.Fatalf("unexpected birthday format: %s", resp.Birthday)
	}
}

func TestContactHandler_Create_BadBirthday(t *testing.T) {
	stub := &stubContactService{
		createFn: func(ctx context.Context, input ports.CreateContactInput, user *domain.User) (*domain.Contact, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	h := NewContactHandler(stub)

	c, _ := newJSONContext(t, http.MethodPost, "/api/contacts",
		`{"first_name":"Bob","last_name":"Jones","email":"bob@example.com","phone":"555-0100","birthday":"15/06/1990"}`)
	c.Set(middleware.UserContextKey, testUser)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestContactHandler_Update_PartialPatch(t *testing.T) {
	stub := &stubContactService{
		updateFn: func(ctx context.Context, id string, patch domain.ContactPatch, user *domain.User) (*domain.Contact, error) {
			if id != "c1" {
				t.Fatalf("unexpected id: %s", id)
			}
			if patch.Phone == nil || *patch.Phone != "555-0200" {
				t.Fatalf("phone not patched: %+v", patch)
			}
			if patch.FirstName != nil || patch.Birthday != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return &domain.Contact{ID: id, Phone: *patch.Phone}, nil
		},
	}
	h := NewContactHandler(stub)

	c, rec := newJSONContext(t, http.MethodPatch, "/api/contacts/c1", `{"phone":"555-0200"}`)
	c.SetParamNames("id")
	c.SetParamValues("c1")
	c.Set(middleware.UserContextKey, testUser)

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestContactHandler_Get_NotFound(t *testing.T) {
	stub := &stubContactService{
		getFn: func(ctx context.Context, id string, user *domain.User) (*domain.Contact, error) {
			return nil, domain.ErrContactNotFound
		},
	}
	h := NewContactHandler(stub)

	c, _ := newJSONContext(t, http.MethodGet, "/api/contacts/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	c.Set(middleware.UserContextKey, testUser)

	if err := h.Get(c); !errors.Is(err, domain.ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}

func TestContactHandler_Delete_ReturnsRemoved(t *testing.T) {
	stub := &stubContactService{
		deleteFn: func(ctx context.Context, id string, user *domain.User) (*domain.Contact, error) {
			return &domain.Contact{ID: id, FirstName: "Bob"}, nil
		},
	}
	h := NewContactHandler(stub)

	c, rec := newJSONContext(t, http.MethodDelete, "/api/contacts/c1", "")
	c.SetParamNames("id")
	c.SetParamValues("c1")
	c.Set(middleware.UserContextKey, testUser)

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp contactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "c1" || resp.FirstName != "Bob" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestContactHandler_Search_MapsQuery(t *testing.T) {
	stub := &stubContactService{
		searchFn: func(ctx context.Context, user *domain.User, query ports.ContactSearch) ([]domain.Contact, error) {
			if query.FirstName != "ali" || query.Email != "example.com" || query.LastName != "" {
				t.Fatalf("unexpected query: %+v", query)
			}
			return nil, nil
		},
	}
	h := NewContactHandler(stub)

	c, rec := newJSONContext(t, http.MethodGet, "/api/contacts/search?first_name=ali&email=example.com", "")
	c.Set(middleware.UserContextKey, testUser)

	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("empty result must render as [], got %q", rec.Body.String())
	}
}

func TestContactHandler_Birthdays_PassesHorizon(t *testing.T) {
	stub := &stubContactService{
		birthdaysFn: func(ctx context.Context, user *domain.User, horizonDays int) ([]domain.Contact, error) {
			if horizonDays != 30 {
				t.Fatalf("unexpected horizon: %d", horizonDays)
			}
			return []domain.Contact{{ID: "c1"}}, nil
		},
	}
	h := NewContactHandler(stub)

	c, rec := newJSONContext(t, http.MethodGet, "/api/contacts/birthdays?days=30", "")
	c.Set(middleware.UserContextKey, testUser)

	if err := h.Birthdays(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
