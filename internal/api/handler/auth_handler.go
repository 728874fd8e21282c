package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bhutuklearning/Create-Your-Notes/internal/api/cookies"
	"github.com/bhutuklearning/Create-Your-Notes/internal/api/metrics"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

// AuthHandler exposes registration, login and the session lifecycle.
type AuthHandler struct {
	authService ports.AuthService
	cookies     *cookies.Transport
}

func NewAuthHandler(authService ports.AuthService, tr *cookies.Transport) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: tr}
}

// Register creates a new user account and starts a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	metrics.AuthEventsTotal.WithLabelValues("register", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	h.cookies.Set(c, res.Tokens)
	return c.JSON(http.StatusCreated, userEnvelope{
		Success: true,
		Message: "User registered successfully",
		User:    toUserResponse(res.User),
	})
}

// Login authenticates a user and sets the session cookies.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	metrics.AuthEventsTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	h.cookies.Set(c, res.Tokens)
	return c.JSON(http.StatusOK, userEnvelope{
		Success: true,
		Message: "Logged in successfully",
		User:    toUserResponse(res.User),
	})
}

// Logout revokes the stored refresh token when a user is attached and always
// clears the session cookies.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	_ = h.authService.Logout(c.Request().Context(), viewerID(c))
	metrics.AuthEventsTotal.WithLabelValues("logout", metrics.ResultSuccess).Inc()

	h.cookies.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}

// Refresh rotates the refresh token cookie and issues a new access token.
//
// @Summary      Refresh the session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userEnvelope
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/auth/refresh [get]
// @Router       /api/v1/auth/refresh [post]
// @Router       /api/v1/auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	res, err := h.authService.Refresh(c.Request().Context(), h.cookies.RefreshToken(c))
	metrics.AuthEventsTotal.WithLabelValues("refresh", metrics.Result(err)).Inc()
	if err != nil {
		h.cookies.Clear(c)
		return err
	}

	h.cookies.Set(c, res.Tokens)
	return c.JSON(http.StatusOK, userEnvelope{
		Success: true,
		Message: "Token refreshed",
		User:    toUserResponse(res.User),
	})
}

// Profile returns the current user.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userEnvelope
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, User: toUserResponse(user)})
}
