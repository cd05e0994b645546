package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sniperthink/identity-service/internal/core/ports"
)

type AdminHandler struct {
	userService ports.UserService
}

func NewAdminHandler(userService ports.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// Users returns every account's public profile.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.PublicUser
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.userService.AllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// LoginHistory returns a page of login audit records, newest first.
//
// @Summary      List recent login events
// @Tags         admin
// @Produce      json
// @Param        skip   query  int  false  "Records to skip"
// @Param        limit  query  int  false  "Maximum records to return"
// @Success      200  {array}   domain.LoginRecord
// @Failure      403  {object}  map[string]string
// @Router       /admin/login-history [get]
func (h *AdminHandler) LoginHistory(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	records, err := h.userService.LoginHistory(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}
