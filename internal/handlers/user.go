package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/focusbuddy/backend/internal/middleware/auth"
	usersvc "github.com/focusbuddy/backend/internal/service/user"
)

type UserHandler struct {
	Users *usersvc.Service
}

func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, mwauth.CurrentUser(c))
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	var req struct {
		Username   string `json:"username"`
		TelegramID string `json:"telegram_id"`
		Password   string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	updated, err := h.Users.Update(c.Request().Context(), user, usersvc.UpdateProfile{
		Username:   req.Username,
		TelegramID: req.TelegramID,
		Password:   req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) GetAll(c echo.Context) error {
	users, err := h.Users.All(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes the caller along with their tasks, habits and
// refresh token.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	if err := h.Users.Delete(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
