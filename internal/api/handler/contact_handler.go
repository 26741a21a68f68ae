package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/contactbook/contacts-api/internal/core/ports"
)

// ContactHandler handles the owner-scoped contact CRUD, search and
// upcoming-birthday endpoints. Every route sits behind the Auth middleware.
type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// List returns a page of the user's contacts.
//
// @Summary      List contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        offset  query     int  false  "Rows to skip"    default(0)
// @Param        limit   query     int  false  "Max rows"        default(100)
// @Success      200     {array}   contactResponse
// @Failure      401     {object}  map[string]string
// @Router       /api/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	contacts, err := h.service.List(c.Request().Context(), user, offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContactResponses(contacts))
}

// Get returns one contact by id.
//
// @Summary      Get a contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact id"
// @Success      200  {object}  contactResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	contact, err := h.service.Get(c.Request().Context(), c.Param("id"), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContactResponse(contact))
}

// Create adds a contact owned by the authenticated user.
//
// @Summary      Create a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createContactRequest  true  "Contact fields"
// @Success      201   {object}  contactResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/contacts [post]
func (h *ContactHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	birthday, err := time.Parse(birthdayLayout, req.Birthday)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "birthday must be formatted YYYY-MM-DD")
	}

	contact, err := h.service.Create(c.Request().Context(), toCreateInput(req, birthday), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toContactResponse(contact))
}

// Update applies a partial patch to a contact.
//
// @Summary      Update a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Contact id"
// @Param        body  body      updateContactRequest  true  "Fields to change"
// @Success      200   {object}  contactResponse
// @Failure      404   {object}  map[string]string
// @Router       /api/contacts/{id} [patch]
func (h *ContactHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var birthday *time.Time
	if req.Birthday != nil {
		parsed, err := time.Parse(birthdayLayout, *req.Birthday)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "birthday must be formatted YYYY-MM-DD")
		}
		birthday = &parsed
	}

	contact, err := h.service.Update(c.Request().Context(), c.Param("id"), toPatch(req, birthday), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContactResponse(contact))
}

// Delete removes a contact and returns the removed record.
//
// @Summary      Delete a contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact id"
// @Success      200  {object}  contactResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/contacts/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	contact, err := h.service.Delete(c.Request().Context(), c.Param("id"), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContactResponse(contact))
}

// Search filters the user's contacts by case-insensitive substring match.
//
// @Summary      Search contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        first_name  query     string  false  "First name filter"
// @Param        last_name   query     string  false  "Last name filter"
// @Param        email       query     string  false  "Email filter"
// @Success      200         {array}   contactResponse
// @Router       /api/contacts/search [get]
func (h *ContactHandler) Search(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	contacts, err := h.service.Search(c.Request().Context(), user, ports.ContactSearch{
		FirstName: c.QueryParam("first_name"),
		LastName:  c.QueryParam("last_name"),
		Email:     c.QueryParam("email"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContactResponses(contacts))
}

// Birthdays returns contacts with a birthday in the next horizon days.
//
// @Summary      Upcoming birthdays
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Horizon in days"  default(7)
// @Success      200   {array}   contactResponse
// @Router       /api/contacts/birthdays [get]
func (h *ContactHandler) Birthdays(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	days, _ := strconv.Atoi(c.QueryParam("days"))

	contacts, err := h.service.UpcomingBirthdays(c.Request().Context(), user, days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContactResponses(contacts))
}
