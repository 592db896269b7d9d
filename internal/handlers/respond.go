package handlers

import "github.com/labstack/echo/v4"

// Коды ошибок конверта ответа. Должны совпадать с кодами, которые знает фронтенд.
const (
	codeServerError       = "SERVER_ERROR"
	codeInvalidRequest    = "INVALID_REQUEST"
	codeInvalidInitData   = "INVALID_INIT_DATA"
	codeMissingUserID     = "MISSING_USER_ID"
	codeMissingUID        = "MISSING_UID"
	codeProfileNotFound   = "PROFILE_NOT_FOUND"
	codeUserNotFound      = "USER_NOT_FOUND"
	codeDailyLimitReached = "DAILY_LIMIT_REACHED"
	codeMissingFields     = "MISSING_FIELDS"
	codeMinWithdrawNotMet = "MIN_WITHDRAW_NOT_MET"
	codeInsufficient      = "INSUFFICIENT_BALANCE"
	codeMissingAdmin      = "MISSING_ADMIN"
	codeNotAdmin          = "NOT_ADMIN"
	codeRequestNotFound   = "REQUEST_NOT_FOUND"
	codeAlreadyDecided    = "ALREADY_DECIDED"
)

// errorResponse - конверт ошибки, общий для всех эндпоинтов.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// respondError отправляет ошибку в общем конверте.
func respondError(c echo.Context, status int, code string) error {
	return c.JSON(status, errorResponse{OK: false, Error: code})
}
