package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contactbook/contacts-api/internal/api/metrics"
	"github.com/contactbook/contacts-api/internal/core/domain"
	"github.com/contactbook/contacts-api/internal/core/ports"
)

// AuthHandler handles registration, login and the email token flows.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account and triggers the confirmation email.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns a bearer access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailNotConfirmed):
			metrics.LoginsTotal.WithLabelValues("unconfirmed").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: accessToken, TokenType: "bearer"})
}

// ConfirmEmail consumes an email-confirmation token. Idempotent: confirming
// an already confirmed address reports success.
//
// @Summary      Confirm email address
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Confirmation token"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  map[string]string
// @Router       /auth/confirmed_email/{token} [get]
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	already, err := h.authService.ConfirmEmail(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	if already {
		return c.JSON(http.StatusOK, messageResponse{Message: "email is already confirmed"})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "email confirmed"})
}

// RequestEmail re-sends the confirmation email for an unconfirmed account.
//
// @Summary      Re-send confirmation email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestEmailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/request_email [post]
func (h *AuthHandler) RequestEmail(c echo.Context) error {
	var req requestEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	already, err := h.authService.RequestConfirmationEmail(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	if already {
		return c.JSON(http.StatusOK, messageResponse{Message: "email is already confirmed"})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "check your email for the confirmation link"})
}

// SendResetToken emails a password-reset link.
//
// @Summary      Send password-reset email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestEmailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/send-reset-password-token [post]
func (h *AuthHandler) SendResetToken(c echo.Context) error {
	var req requestEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.SendResetToken(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "a password reset link was sent to your email"})
}

// ResetPasswordForm validates the token from the emailed link and renders a
// minimal HTML form posting back to the reset endpoint.
//
// @Summary      Render password-reset form
// @Tags         auth
// @Produce      html
// @Param        token  query  string  true  "Reset token"
// @Success      200    {string}  string
// @Failure      400    {object}  map[string]string
// @Router       /auth/reset-password [get]
func (h *AuthHandler) ResetPasswordForm(c echo.Context) error {
	resetToken := c.QueryParam("token")
	if err := h.authService.ValidateResetToken(resetToken); err != nil {
		return err
	}

	form := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
  <h1>Reset password</h1>
  <form method="post" action="/auth/reset-password">
    <input type="hidden" name="token" value="%s">
    <label>New password <input type="password" name="new_password" required minlength="6"></label>
    <button type="submit">Reset</button>
  </form>
</body>
</html>`, resetToken)
	return c.HTML(http.StatusOK, form)
}

// ResetPassword consumes a reset token and stores the new password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        token         formData  string  true  "Reset token"
// @Param        new_password  formData  string  true  "New password"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	resetToken := c.FormValue("token")
	newPassword := c.FormValue("new_password")
	if resetToken == "" || newPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token and new_password are required")
	}

	if err := h.authService.ResetPassword(c.Request().Context(), resetToken, newPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated successfully"})
}

// Me returns the authenticated user's own record.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/users/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateAvatar replaces a user's avatar URL. Admin only.
//
// @Summary      Update a user's avatar
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAvatarRequest  true  "Target email and avatar URL"
// @Success      200   {object}  userResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/avatar [patch]
func (h *AuthHandler) UpdateAvatar(c echo.Context) error {
	var req updateAvatarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.UpdateAvatar(c.Request().Context(), req.Email, req.Avatar)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
