package handlers

import (
	"errors"
	"net/http"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/Madboy21/nexopays/internal/services"
	"github.com/Madboy21/nexopays/internal/storage"
	"github.com/labstack/echo/v4"
)

// UserHandler обрабатывает вход через Telegram и выдачу профиля.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// AuthTelegram обрабатывает POST /api/auth/telegram.
func (h *UserHandler) AuthTelegram(c echo.Context) error {
	var req models.AuthRequest

	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, codeInvalidRequest)
	}

	user, token, err := h.userService.AuthenticateTelegram(c.Request().Context(), req.InitData, req.InitDataUnsafe.User, req.Ref)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInitData):
			return respondError(c, http.StatusForbidden, codeInvalidInitData)
		case errors.Is(err, services.ErrMissingUserID):
			return respondError(c, http.StatusBadRequest, codeMissingUserID)
		default:
			c.Logger().Errorf("telegram auth failed: %v", err)
			return respondError(c, http.StatusInternalServerError, codeServerError)
		}
	}

	return c.JSON(http.StatusOK, models.AuthResponse{
		OK:          true,
		UID:         user.ID,
		CustomToken: token,
		IsAdmin:     user.IsAdmin,
	})
}

// GetProfile обрабатывает POST /api/profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	var req struct {
		UID string `json:"uid"`
	}

	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, codeInvalidRequest)
	}
	if req.UID == "" {
		return respondError(c, http.StatusBadRequest, codeMissingUID)
	}

	profile, err := h.userService.GetProfile(c.Request().Context(), req.UID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, codeProfileNotFound)
		}
		c.Logger().Errorf("get profile failed: %v", err)
		return respondError(c, http.StatusInternalServerError, codeServerError)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":      true,
		"profile": profile,
	})
}
