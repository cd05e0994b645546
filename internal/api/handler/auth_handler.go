package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sniperthink/identity-service/internal/core/domain"
	"github.com/sniperthink/identity-service/internal/core/ports"
)

const (
	sessionCookieName = "__oauth_session"
	sessionCookieTTL  = 10 * time.Minute
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

type loginRequest struct {
	// The password grant carries the email in the username field.
	Email    string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func clientInfo(c echo.Context) ports.ClientInfo {
	return ports.ClientInfo{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

// Signup registers a new account and queues the verification mail.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  domain.PublicUser
// @Failure      400   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

// Token is the password grant: it authenticates an email/password pair and
// returns an access and refresh token.
//
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	pair, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, clientInfo(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    "bearer",
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh exchanges a valid refresh token for a new access token.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	access, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		// Refresh failures are credential failures, not validation errors.
		if errors.Is(err, domain.ErrInvalidToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: access, TokenType: "bearer"})
}

// VerifyEmail consumes a pending verification token.
//
// @Summary      Verify the account email
// @Tags         auth
// @Produce      json
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	_ = c.Bind(&req)
	if req.Token == "" {
		req.Token = c.QueryParam("token")
	}

	if err := h.authService.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Email verified successfully."})
}

// ForgotPassword stores a reset token and mails the reset link. The response
// is identical whether or not the email resolves to an account.
//
// @Summary      Request a password reset link
// @Tags         auth
// @Produce      json
// @Success      200   {object}  messageResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	_ = c.Bind(&req)
	if req.Email == "" {
		req.Email = c.QueryParam("email")
	}

	msg := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// ResetPassword consumes a pending reset token and sets the new password.
//
// @Summary      Reset the password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" {
		req.Token = c.QueryParam("token")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password has been reset successfully."})
}

// SocialLogin starts the OAuth handshake: it binds a state nonce to the
// browser session and redirects to the provider's authorization endpoint.
//
// @Summary      Begin a social login
// @Tags         auth
// @Param        provider  path  string  true  "Provider name"
// @Success      302
// @Router       /auth/login/{provider} [get]
func (h *AuthHandler) SocialLogin(c echo.Context) error {
	provider := c.Param("provider")
	sessionID := h.ensureSessionCookie(c)

	authURL, err := h.authService.SocialLogin(c.Request().Context(), provider, sessionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.Redirect(http.StatusFound, authURL)
}

// SocialCallback completes the OAuth handshake. The outcome is always a
// browser redirect: the success URL carrying tokens, or the error URL
// carrying a machine-readable reason code.
//
// @Summary      Complete a social login
// @Tags         auth
// @Param        provider  path   string  true  "Provider name"
// @Param        state     query  string  true  "CSRF state nonce"
// @Param        code      query  string  true  "Authorization code"
// @Success      303
// @Router       /auth/callback/{provider} [get]
func (h *AuthHandler) SocialCallback(c echo.Context) error {
	provider := c.Param("provider")

	sessionID := ""
	if cookie, err := c.Cookie(sessionCookieName); err == nil {
		sessionID = cookie.Value
	}
	h.clearSessionCookie(c)

	dest := h.authService.SocialCallback(
		c.Request().Context(),
		provider,
		sessionID,
		c.QueryParam("state"),
		c.QueryParam("code"),
		clientInfo(c),
	)

	return c.Redirect(http.StatusSeeOther, dest)
}

// ensureSessionCookie returns the browser session ID, minting the cookie
// when the browser does not present one yet.
func (h *AuthHandler) ensureSessionCookie(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	b := make([]byte, 32)
	_, _ = rand.Read(b)
	sessionID := base64.RawURLEncoding.EncodeToString(b)

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionCookieTTL.Seconds()),
	})
	return sessionID
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
