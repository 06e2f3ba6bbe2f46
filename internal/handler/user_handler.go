package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"trackmyfood/internal/auth"
	"trackmyfood/internal/dto"
	"trackmyfood/internal/errors"
	"trackmyfood/internal/service"
)

// UserHandler handles profile and account management endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ChangePasswordRequest carries the confirmation and replacement passwords.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// DeleteAccountRequest carries the confirmation password.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// currentClaims returns the JWT claims placed in the context by the auth
// middleware.
func currentClaims(c echo.Context) (*auth.Claims, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	return claims, nil
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /register/ [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Register(c.Request().Context(), &req)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    dto.NewProfile(user),
	})
}

// Profile godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile/ [get]
func (h *UserHandler) Profile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetProfile(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, dto.NewProfile(user))
}

// UpdateProfile godoc
// @Summary Partially update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProfileUpdate true "Fields to change"
// @Success 200 {object} dto.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile/update/ [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var patch dto.ProfileUpdate
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), claims.UserID, &patch)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, dto.NewProfile(user))
}

// ChangePassword godoc
// @Summary Change the authenticated user's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /change-password/ [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}

// DeleteAccount godoc
// @Summary Delete the authenticated user's account
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteAccountRequest true "Current password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /delete-account/ [delete]
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req DeleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.DeleteAccount(c.Request().Context(), claims.UserID, req.Password); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Account deleted successfully",
	})
}

// ListUsers godoc
// @Summary List users
// @Description Staff callers see every user; others see only themselves.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	users, err := h.userService.ListUsers(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, dto.NewProfileList(users))
}
