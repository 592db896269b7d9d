package handlers

import (
	"errors"
	"net/http"

	"github.com/Madboy21/nexopays/internal/services"
	"github.com/Madboy21/nexopays/internal/storage"
	"github.com/labstack/echo/v4"
)

// AdHandler обрабатывает начисления за просмотр рекламы.
type AdHandler struct {
	ledgerService services.LedgerService
}

// NewAdHandler создаёт новый экземпляр AdHandler.
func NewAdHandler(ledgerService services.LedgerService) *AdHandler {
	return &AdHandler{ledgerService: ledgerService}
}

// WatchAd обрабатывает POST /api/ads/watch.
func (h *AdHandler) WatchAd(c echo.Context) error {
	var req struct {
		UID string `json:"uid"`
	}

	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, codeInvalidRequest)
	}
	if req.UID == "" {
		return respondError(c, http.StatusBadRequest, codeMissingUID)
	}

	result, err := h.ledgerService.CreditAdWatch(c.Request().Context(), req.UID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDailyLimitReached):
			return respondError(c, http.StatusConflict, codeDailyLimitReached)
		case errors.Is(err, storage.ErrUserNotFound):
			return respondError(c, http.StatusBadRequest, codeUserNotFound)
		default:
			c.Logger().Errorf("ad credit failed: %v", err)
			return respondError(c, http.StatusInternalServerError, codeServerError)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":              true,
		"balanceSubunits": result.BalanceSubunits,
		"todayAds":        result.TodayAds,
	})
}
