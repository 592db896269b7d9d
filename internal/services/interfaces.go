package services

import (
	"context"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TxRunner выполняет функцию в рамках транзакции хранилища.
// Функция может быть выполнена повторно при конфликте, поэтому не должна
// иметь побочных эффектов вне транзакции.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// UserStorage определяет интерфейс для работы с пользователями.
type UserStorage interface {
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*models.User, error)
	UpdateCountersTx(ctx context.Context, tx pgx.Tx, id, stamp string, todayAds int, lifetimeAds, balance int64) error
	IncrementBalanceTx(ctx context.Context, tx pgx.Tx, id string, delta int64) error
	UpsertBalanceTx(ctx context.Context, tx pgx.Tx, id string, delta int64) error
}

// WithdrawalStorage определяет интерфейс для работы с заявками на вывод.
type WithdrawalStorage interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, req *models.WithdrawRequest) error
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.WithdrawRequest, error)
	MarkDecidedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status models.WithdrawStatus, decidedBy string) error
	GetPending(ctx context.Context) ([]*models.WithdrawRequest, error)
}

// AuditStorage определяет интерфейс журнала административных действий.
type AuditStorage interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, entry *models.AdminLog) error
}
