package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawStatus описывает статус заявки на вывод.
type WithdrawStatus string

const (
	WithdrawStatusPending  WithdrawStatus = "pending"
	WithdrawStatusApproved WithdrawStatus = "approved"
	WithdrawStatusRejected WithdrawStatus = "rejected"
)

// WithdrawRequest представляет заявку пользователя на вывод средств.
// Средства удерживаются при создании; при отклонении возвращаются ровно один раз.
type WithdrawRequest struct {
	ID             uuid.UUID       `db:"id"`
	UserID         string          `db:"user_id"`
	AmountSubunits int64           `db:"amount_subunits"`
	AmountTokens   decimal.Decimal `db:"amount_tokens"`
	BinanceUID     string          `db:"binance_uid"`
	Status         WithdrawStatus  `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
	DecidedAt      *time.Time      `db:"decided_at"`
	DecidedBy      *string         `db:"decided_by"`
}

// CreateWithdrawRequest DTO для запроса на вывод.
type CreateWithdrawRequest struct {
	UID          string  `json:"uid"`
	AmountTokens float64 `json:"amountTokens"`
	BinanceUID   string  `json:"binanceUID"`
}

// DecideWithdrawRequest DTO решения администратора по заявке.
type DecideWithdrawRequest struct {
	AdminUID  string `json:"adminUid"`
	RequestID string `json:"requestId"`
	Decision  string `json:"decision"`
}

// WithdrawRequestResponse DTO заявки для админского списка.
type WithdrawRequestResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"userId"`
	AmountSubunits int64   `json:"amountSubunits"`
	AmountTokens   float64 `json:"amountTokens"`
	BinanceUID     string  `json:"binanceUID"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"createdAt"`
}
