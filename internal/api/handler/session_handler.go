package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openshelf/catalog-api/internal/api/middleware"
	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
)

// SessionHandler serves admin login, session verification and logout.
type SessionHandler struct {
	sessions ports.SessionService
	creds    ports.CredentialChecker
	log      zerolog.Logger
}

func NewSessionHandler(sessions ports.SessionService, creds ports.CredentialChecker, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, creds: creds, log: log}
}

// Login exchanges an admin password for a session.
//
// @Summary      Admin login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin password"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      429   {object}  errorBody
// @Router       /api/admin/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}

	role, err := h.creds.Authenticate(req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Warn().Str("ip", c.RealIP()).Msg("admin login rejected")
			return c.JSON(http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
		}
		return err
	}

	token, expiresAt, err := h.sessions.Issue(role)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessions.Cookie(token, expiresAt))
	h.log.Info().Str("role", role.String()).Str("ip", c.RealIP()).Msg("admin session issued")

	return c.JSON(http.StatusOK, loginResponse{
		Success:   true,
		Role:      role,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	})
}

// Verify reports whether the caller holds a valid session.
//
// @Summary      Verify session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Verify(c echo.Context) error {
	v, presented := middleware.Authenticate(c, h.sessions)
	if !presented {
		return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
	}
	if !v.Valid {
		if _, err := c.Cookie(domain.SessionCookieName); err == nil {
			c.SetCookie(h.sessions.ClearCookie())
		}
		return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
	}

	return c.JSON(http.StatusOK, sessionResponse{Authenticated: true, Role: v.Role})
}

// Logout clears the session cookie. Tokens are stateless, so a copied bearer
// token stays valid until it expires.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  logoutResponse
// @Router       /api/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.ClearCookie())
	return c.JSON(http.StatusOK, logoutResponse{Success: true, Message: "logged out"})
}
