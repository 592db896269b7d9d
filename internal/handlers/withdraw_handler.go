package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/Madboy21/nexopays/internal/services"
	"github.com/Madboy21/nexopays/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// WithdrawHandler обрабатывает заявки на вывод и административные решения.
type WithdrawHandler struct {
	withdrawalService services.WithdrawalService
}

// NewWithdrawHandler создаёт новый handler.
func NewWithdrawHandler(withdrawalService services.WithdrawalService) *WithdrawHandler {
	return &WithdrawHandler{withdrawalService: withdrawalService}
}

// Create обрабатывает POST /api/withdraw.
func (h *WithdrawHandler) Create(c echo.Context) error {
	var req models.CreateWithdrawRequest

	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, codeInvalidRequest)
	}
	if req.UID == "" || req.AmountTokens <= 0 || req.BinanceUID == "" {
		return respondError(c, http.StatusBadRequest, codeMissingFields)
	}

	requestID, err := h.withdrawalService.Create(c.Request().Context(), req.UID, decimal.NewFromFloat(req.AmountTokens), req.BinanceUID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMinWithdrawNotMet):
			return respondError(c, http.StatusBadRequest, codeMinWithdrawNotMet)
		case errors.Is(err, services.ErrInsufficientBalance):
			return respondError(c, http.StatusBadRequest, codeInsufficient)
		case errors.Is(err, storage.ErrUserNotFound):
			return respondError(c, http.StatusBadRequest, codeUserNotFound)
		default:
			c.Logger().Errorf("create withdraw failed: %v", err)
			return respondError(c, http.StatusInternalServerError, codeServerError)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":        true,
		"requestId": requestID.String(),
	})
}

// ListPending обрабатывает GET /api/admin/withdrawals.
func (h *WithdrawHandler) ListPending(c echo.Context) error {
	adminUID := c.QueryParam("adminUid")
	if adminUID == "" {
		adminUID = c.Request().Header.Get("X-Admin-Uid")
	}
	if adminUID == "" {
		return respondError(c, http.StatusForbidden, codeMissingAdmin)
	}

	items, err := h.withdrawalService.ListPending(c.Request().Context(), adminUID)
	if err != nil {
		if errors.Is(err, services.ErrNotAdmin) {
			return respondError(c, http.StatusForbidden, codeNotAdmin)
		}
		c.Logger().Errorf("list pending withdraws failed: %v", err)
		return respondError(c, http.StatusInternalServerError, codeServerError)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":    true,
		"items": h.mapRequestsToResponse(items),
	})
}

// Decide обрабатывает POST /api/admin/withdrawals/decide.
func (h *WithdrawHandler) Decide(c echo.Context) error {
	var req models.DecideWithdrawRequest

	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, codeInvalidRequest)
	}
	if req.AdminUID == "" || req.RequestID == "" || req.Decision == "" {
		return respondError(c, http.StatusBadRequest, codeMissingFields)
	}

	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		return respondError(c, http.StatusBadRequest, codeRequestNotFound)
	}

	err = h.withdrawalService.Decide(c.Request().Context(), req.AdminUID, requestID, models.WithdrawStatus(req.Decision))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDecision):
			return respondError(c, http.StatusBadRequest, codeMissingFields)
		case errors.Is(err, services.ErrNotAdmin):
			return respondError(c, http.StatusForbidden, codeNotAdmin)
		case errors.Is(err, storage.ErrRequestNotFound):
			return respondError(c, http.StatusBadRequest, codeRequestNotFound)
		case errors.Is(err, services.ErrAlreadyDecided):
			return respondError(c, http.StatusBadRequest, codeAlreadyDecided)
		default:
			c.Logger().Errorf("decide withdraw failed: %v", err)
			return respondError(c, http.StatusInternalServerError, codeServerError)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true})
}

// mapRequestsToResponse преобразует domain модели заявок в DTO для HTTP-ответа.
func (h *WithdrawHandler) mapRequestsToResponse(requests []*models.WithdrawRequest) []*models.WithdrawRequestResponse {
	response := make([]*models.WithdrawRequestResponse, 0, len(requests))
	for _, req := range requests {
		amount, _ := req.AmountTokens.Float64()
		response = append(response, &models.WithdrawRequestResponse{
			ID:             req.ID.String(),
			UserID:         req.UserID,
			AmountSubunits: req.AmountSubunits,
			AmountTokens:   amount,
			BinanceUID:     req.BinanceUID,
			Status:         string(req.Status),
			CreatedAt:      req.CreatedAt.Format(time.RFC3339),
		})
	}
	return response
}
