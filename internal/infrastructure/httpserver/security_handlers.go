package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoangit2k2/lovepink/internal/application/services"
	"github.com/hoangit2k2/lovepink/internal/core/domain/account"
	"github.com/hoangit2k2/lovepink/internal/core/domain/token"
	"github.com/hoangit2k2/lovepink/internal/core/ports"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/httpserver/helpers"
)

const (
	handleCookie = "recovery_handle"
	grantCookie  = "recovery_grant"
)

// genericCodeFailure is the single message shown for every token-validation
// failure. Not found, expired, consumed and mismatch are never distinguished
// to the caller.
const genericCodeFailure = "invalid or expired verification code"

func (s *Server) register(c echo.Context) error {
	var req account.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	avatar, closeAvatar, err := s.formAvatar(c)
	if err != nil {
		return err
	}
	defer closeAvatar()

	created, err := s.securitySvc.Register(c.Request().Context(), &req, avatar)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, "username or email already taken")
		case errors.Is(err, account.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to register account")
		}
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) startRecovery(c echo.Context) error {
	var req struct {
		Address string `json:"address" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	handle, err := s.securitySvc.StartRecovery(c.Request().Context(), req.Address)
	if err != nil {
		if errors.Is(err, services.ErrDelivery) {
			return echo.NewHTTPError(http.StatusBadGateway, "failed to send verification code")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start recovery")
	}

	s.setRecoveryCookie(c, handleCookie, handle)

	// The acknowledgment never reveals whether the address has an account.
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "a verification code has been sent to " + req.Address,
	})
}

func (s *Server) verifyRecoveryCode(c echo.Context) error {
	var req struct {
		Handle string `json:"handle,omitempty"`
		Code   string `json:"code" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	handle := s.recoveryValue(c, handleCookie, req.Handle)
	if handle == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing recovery handle")
	}

	grant, err := s.securitySvc.VerifyRecoveryCode(c.Request().Context(), handle, req.Code)
	if err != nil {
		return s.recoveryError(err)
	}

	s.setRecoveryCookie(c, grantCookie, grant)

	return c.JSON(http.StatusOK, map[string]string{"message": "code verified"})
}

func (s *Server) completeRecovery(c echo.Context) error {
	var req struct {
		Handle          string `json:"handle,omitempty"`
		Grant           string `json:"grant,omitempty"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	handle := s.recoveryValue(c, handleCookie, req.Handle)
	grant := s.recoveryValue(c, grantCookie, req.Grant)
	if handle == "" || grant == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing recovery handle or grant")
	}

	err := s.securitySvc.CompleteRecovery(c.Request().Context(), handle, grant, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		if errors.Is(err, account.ErrConfirmationMismatch) {
			return echo.NewHTTPError(http.StatusBadRequest, "password confirmation does not match")
		}
		return s.recoveryError(err)
	}

	s.clearRecoveryCookie(c, handleCookie)
	s.clearRecoveryCookie(c, grantCookie)

	return c.JSON(http.StatusOK, map[string]string{"message": "password changed"})
}

func (s *Server) changePassword(c echo.Context) error {
	username, err := helpers.GetUsernameFromContext(c)
	if err != nil {
		return err
	}

	var req account.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := s.securitySvc.ChangePassword(c.Request().Context(), username, &req); err != nil {
		switch {
		case errors.Is(err, account.ErrConfirmationMismatch):
			return echo.NewHTTPError(http.StatusBadRequest, "password confirmation does not match")
		case errors.Is(err, account.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, account.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to change password")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "password changed"})
}

func (s *Server) getProfile(c echo.Context) error {
	username, err := helpers.GetUsernameFromContext(c)
	if err != nil {
		return err
	}

	acct, err := s.securitySvc.Profile(c.Request().Context(), username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	}

	return c.JSON(http.StatusOK, acct)
}

func (s *Server) updateProfile(c echo.Context) error {
	username, err := helpers.GetUsernameFromContext(c)
	if err != nil {
		return err
	}

	// Optional multipart fields; only submitted values are applied.
	var req account.UpdateProfileRequest
	if v := c.FormValue("email"); v != "" {
		req.Email = &v
	}
	if v := c.FormValue("full_name"); v != "" {
		req.FullName = &v
	}
	if v := c.FormValue("phone"); v != "" {
		req.Phone = &v
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	avatar, closeAvatar, err := s.formAvatar(c)
	if err != nil {
		return err
	}
	defer closeAvatar()

	updated, err := s.securitySvc.UpdateProfile(c.Request().Context(), username, &req, avatar)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		case errors.Is(err, account.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update profile")
		}
	}

	return c.JSON(http.StatusOK, updated)
}

// formAvatar extracts the optional "file" part of a multipart request.
// The returned closer is always safe to defer.
func (s *Server) formAvatar(c echo.Context) (*ports.AvatarUpload, func(), error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, func() {}, nil // no upload present
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, func() {}, echo.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
	}

	avatar := &ports.AvatarUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  f,
	}
	return avatar, func() { f.Close() }, nil
}

// recoveryError maps workflow failures onto bounded, non-leaky responses.
func (s *Server) recoveryError(err error) error {
	switch {
	case errors.Is(err, services.ErrTooManyAttempts):
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, try again later")
	case errors.Is(err, account.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, token.ErrNotFound),
		errors.Is(err, token.ErrExpired),
		errors.Is(err, token.ErrAlreadyConsumed),
		errors.Is(err, token.ErrCodeMismatch),
		errors.Is(err, account.ErrNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, genericCodeFailure)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "recovery failed")
	}
}

// recoveryValue prefers the explicit body value, then the cookie.
func (s *Server) recoveryValue(c echo.Context, cookieName, bodyValue string) string {
	if bodyValue != "" {
		return bodyValue
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (s *Server) setRecoveryCookie(c echo.Context, name, value string) {
	ttl := s.config.CookieTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/api/v1/security",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearRecoveryCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/api/v1/security",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
