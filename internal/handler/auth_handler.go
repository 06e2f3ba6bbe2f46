package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"trackmyfood/internal/auth"
	"trackmyfood/internal/dto"
	"trackmyfood/internal/errors"
	"trackmyfood/internal/service"
)

// AuthHandler handles token issuance endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	jwtService  *auth.JWTService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, userService service.UserService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		jwtService:  jwtService,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the token pair plus a minimal identity summary.
type LoginResponse struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    dto.UserSummary `json:"user"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// RefreshResponse carries the reissued access token.
type RefreshResponse struct {
	Access string `json:"access"`
}

// LogoutRequest represents a logout request.
type LogoutRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// AuthStatusResponse reports whether the caller presented a valid token.
type AuthStatusResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *dto.Profile `json:"user"`
}

// Login godoc
// @Summary Obtain an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /login/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, refreshToken, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Access:  accessToken,
		Refresh: refreshToken,
		User:    dto.NewUserSummary(user),
	})
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} RefreshResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /token/refresh/ [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, err := h.authService.RefreshToken(c.Request().Context(), req.Refresh)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, RefreshResponse{Access: accessToken})
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /logout/ [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.Logout(c.Request().Context(), req.Refresh); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// AuthStatus godoc
// @Summary Report whether the caller is authenticated
// @Tags auth
// @Produce json
// @Success 200 {object} AuthStatusResponse
// @Router /auth-status/ [get]
func (h *AuthHandler) AuthStatus(c echo.Context) error {
	anonymous := AuthStatusResponse{Authenticated: false, User: nil}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return c.JSON(http.StatusOK, anonymous)
	}

	claims, err := h.jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return c.JSON(http.StatusOK, anonymous)
	}

	user, err := h.userService.GetProfile(c.Request().Context(), claims.UserID)
	if err != nil {
		return c.JSON(http.StatusOK, anonymous)
	}

	profile := dto.NewProfile(user)
	return c.JSON(http.StatusOK, AuthStatusResponse{
		Authenticated: true,
		User:          &profile,
	})
}
