package handler

import (
	"github.com/labstack/echo/v4"

	"mesto/internal/middleware"
	"mesto/internal/service"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserIDRequest carries the :id path parameter.
type UserIDRequest struct {
	ID string `param:"id" validate:"required"`
}

// UpdateProfileRequest replaces the name and about fields.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=30"`
	About string `json:"about" validate:"required,min=2,max=30"`
}

// UpdateAvatarRequest replaces the avatar link.
type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" validate:"required,link"`
}

// ListUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DataResponse{data=[]model.User}
// @Failure 401 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, users)
}

// GetUser godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} DataResponse{data=model.User}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	var req UserIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.GetUser(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// Me godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DataResponse{data=model.User}
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.userService.GetUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, user)
}

// UpdateProfile godoc
// @Summary Update name and about
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} DataResponse{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), middleware.UserID(c), req.Name, req.About)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// UpdateAvatar godoc
// @Summary Update the avatar link
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateAvatarRequest true "Avatar link"
// @Success 200 {object} DataResponse{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me/avatar [patch]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	var req UpdateAvatarRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateAvatar(c.Request().Context(), middleware.UserID(c), req.Avatar)
	if err != nil {
		return err
	}
	return ok(c, user)
}
