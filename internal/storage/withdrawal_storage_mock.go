package storage

import (
	"context"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MockWithdrawalStorage - мок для тестов.
type MockWithdrawalStorage struct {
	CreateWithTxFunc   func(ctx context.Context, tx pgx.Tx, req *models.WithdrawRequest) error
	GetForUpdateTxFunc func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.WithdrawRequest, error)
	MarkDecidedTxFunc  func(ctx context.Context, tx pgx.Tx, id uuid.UUID, status models.WithdrawStatus, decidedBy string) error
	GetPendingFunc     func(ctx context.Context) ([]*models.WithdrawRequest, error)
}

func (m *MockWithdrawalStorage) CreateWithTx(ctx context.Context, tx pgx.Tx, req *models.WithdrawRequest) error {
	if m.CreateWithTxFunc != nil {
		return m.CreateWithTxFunc(ctx, tx, req)
	}
	return nil
}

func (m *MockWithdrawalStorage) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.WithdrawRequest, error) {
	if m.GetForUpdateTxFunc != nil {
		return m.GetForUpdateTxFunc(ctx, tx, id)
	}
	return nil, ErrRequestNotFound
}

func (m *MockWithdrawalStorage) MarkDecidedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status models.WithdrawStatus, decidedBy string) error {
	if m.MarkDecidedTxFunc != nil {
		return m.MarkDecidedTxFunc(ctx, tx, id, status, decidedBy)
	}
	return nil
}

func (m *MockWithdrawalStorage) GetPending(ctx context.Context) ([]*models.WithdrawRequest, error) {
	if m.GetPendingFunc != nil {
		return m.GetPendingFunc(ctx)
	}
	return []*models.WithdrawRequest{}, nil
}

// MockAuditStorage - мок журнала административных действий.
type MockAuditStorage struct {
	CreateWithTxFunc func(ctx context.Context, tx pgx.Tx, entry *models.AdminLog) error
}

func (m *MockAuditStorage) CreateWithTx(ctx context.Context, tx pgx.Tx, entry *models.AdminLog) error {
	if m.CreateWithTxFunc != nil {
		return m.CreateWithTxFunc(ctx, tx, entry)
	}
	return nil
}

// MockTxRunner выполняет функцию без реальной транзакции.
type MockTxRunner struct{}

func (MockTxRunner) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}
