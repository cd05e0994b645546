package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sniperthink/identity-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the profile of the authenticated account.
//
// @Summary      Get the current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.PublicUser
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.userService.CurrentUser(c.Request().Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// All returns every account's public profile. Admin only.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.PublicUser
// @Failure      403  {object}  map[string]string
// @Router       /users/all [get]
func (h *UserHandler) All(c echo.Context) error {
	users, err := h.userService.AllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
