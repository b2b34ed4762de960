package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	mwauth "github.com/focusbuddy/backend/internal/middleware/auth"
	"github.com/focusbuddy/backend/internal/mykafka"
	authsvc "github.com/focusbuddy/backend/internal/service/auth"
	"github.com/focusbuddy/backend/internal/service/refresh"
)

type AuthHandler struct {
	Auth     *authsvc.Service
	Refresh  *refresh.Service
	Producer *mykafka.Producer
}

type authResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req struct {
		Username   string `json:"username"`
		Password   string `json:"password"`
		TelegramID string `json:"telegram_id"`
		Role       string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	res, err := h.Auth.Register(c.Request().Context(), req.Username, req.Password, req.TelegramID, req.Role)
	if err != nil {
		if errors.Is(err, authsvc.ErrDuplicateUsername) {
			return echo.NewHTTPError(http.StatusBadRequest, "username already taken")
		}
		return err
	}

	h.publish(c, "user_registered", res.User.ID, res.User.Username)

	return c.JSON(http.StatusOK, authResponse{
		Message:      "user registered",
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

func (h *AuthHandler) Signin(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	res, err := h.Auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		return err
	}

	h.publish(c, "user_logged_in", res.User.ID, res.User.Username)

	return c.JSON(http.StatusOK, authResponse{
		Message:      "user logged in",
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

// RefreshToken rotates the presented refresh token. NotFound and
// Expired both demand a fresh login from the client.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	pair, err := h.Refresh.Rotate(c.Request().Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, refresh.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "refresh token not found")
		case errors.Is(err, refresh.ErrExpired):
			return echo.NewHTTPError(http.StatusForbidden, "refresh token expired, please login again")
		}
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Message:      "token refreshed",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if err := h.Refresh.DeleteByUser(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) publish(c echo.Context, eventType string, userID uint, username string) {
	event := map[string]interface{}{
		"type":     eventType,
		"user_id":  userID,
		"username": username,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, fmt.Sprint(userID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
