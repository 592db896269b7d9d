package storage

import (
	"context"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/jackc/pgx/v5"
)

// MockUserStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockUserStorage struct {
	UpsertFunc             func(ctx context.Context, user *models.User) (*models.User, error)
	GetByIDFunc            func(ctx context.Context, id string) (*models.User, error)
	GetForUpdateTxFunc     func(ctx context.Context, tx pgx.Tx, id string) (*models.User, error)
	UpdateCountersTxFunc   func(ctx context.Context, tx pgx.Tx, id, stamp string, todayAds int, lifetimeAds, balance int64) error
	IncrementBalanceTxFunc func(ctx context.Context, tx pgx.Tx, id string, delta int64) error
	UpsertBalanceTxFunc    func(ctx context.Context, tx pgx.Tx, id string, delta int64) error
}

func (m *MockUserStorage) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, user)
	}
	return user, nil
}

func (m *MockUserStorage) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *MockUserStorage) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*models.User, error) {
	if m.GetForUpdateTxFunc != nil {
		return m.GetForUpdateTxFunc(ctx, tx, id)
	}
	return nil, ErrUserNotFound
}

func (m *MockUserStorage) UpdateCountersTx(ctx context.Context, tx pgx.Tx, id, stamp string, todayAds int, lifetimeAds, balance int64) error {
	if m.UpdateCountersTxFunc != nil {
		return m.UpdateCountersTxFunc(ctx, tx, id, stamp, todayAds, lifetimeAds, balance)
	}
	return nil
}

func (m *MockUserStorage) IncrementBalanceTx(ctx context.Context, tx pgx.Tx, id string, delta int64) error {
	if m.IncrementBalanceTxFunc != nil {
		return m.IncrementBalanceTxFunc(ctx, tx, id, delta)
	}
	return nil
}

func (m *MockUserStorage) UpsertBalanceTx(ctx context.Context, tx pgx.Tx, id string, delta int64) error {
	if m.UpsertBalanceTxFunc != nil {
		return m.UpsertBalanceTxFunc(ctx, tx, id, delta)
	}
	return nil
}
