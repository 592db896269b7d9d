package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/Madboy21/nexopays/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// withdrawTestEnv собирает стейтфул-моки: балансы пользователей и заявки
// живут в памяти теста, админ задаётся отдельной записью.
type withdrawTestEnv struct {
	users    map[string]*models.User
	requests map[uuid.UUID]*models.WithdrawRequest
	audit    []*models.AdminLog

	service *WithdrawalServiceImpl
}

func newWithdrawTestEnv() *withdrawTestEnv {
	env := &withdrawTestEnv{
		users:    make(map[string]*models.User),
		requests: make(map[uuid.UUID]*models.WithdrawRequest),
	}

	userStorage := &storage.MockUserStorage{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			user, ok := env.users[id]
			if !ok {
				return nil, storage.ErrUserNotFound
			}
			copied := *user
			return &copied, nil
		},
		GetForUpdateTxFunc: func(ctx context.Context, tx pgx.Tx, id string) (*models.User, error) {
			user, ok := env.users[id]
			if !ok {
				return nil, storage.ErrUserNotFound
			}
			copied := *user
			return &copied, nil
		},
		IncrementBalanceTxFunc: func(ctx context.Context, tx pgx.Tx, id string, delta int64) error {
			user, ok := env.users[id]
			if !ok {
				return storage.ErrUserNotFound
			}
			user.BalanceSubunits += delta
			return nil
		},
	}

	withdrawalStorage := &storage.MockWithdrawalStorage{
		CreateWithTxFunc: func(ctx context.Context, tx pgx.Tx, req *models.WithdrawRequest) error {
			copied := *req
			copied.CreatedAt = time.Now()
			env.requests[req.ID] = &copied
			return nil
		},
		GetForUpdateTxFunc: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.WithdrawRequest, error) {
			req, ok := env.requests[id]
			if !ok {
				return nil, storage.ErrRequestNotFound
			}
			copied := *req
			return &copied, nil
		},
		MarkDecidedTxFunc: func(ctx context.Context, tx pgx.Tx, id uuid.UUID, status models.WithdrawStatus, decidedBy string) error {
			req, ok := env.requests[id]
			if !ok {
				return storage.ErrRequestNotFound
			}
			now := time.Now()
			req.Status = status
			req.DecidedAt = &now
			req.DecidedBy = &decidedBy
			return nil
		},
		GetPendingFunc: func(ctx context.Context) ([]*models.WithdrawRequest, error) {
			var pending []*models.WithdrawRequest
			for _, req := range env.requests {
				if req.Status == models.WithdrawStatusPending {
					copied := *req
					pending = append(pending, &copied)
				}
			}
			return pending, nil
		},
	}

	auditStorage := &storage.MockAuditStorage{
		CreateWithTxFunc: func(ctx context.Context, tx pgx.Tx, entry *models.AdminLog) error {
			copied := *entry
			env.audit = append(env.audit, &copied)
			return nil
		},
	}

	env.service = NewWithdrawalService(storage.MockTxRunner{}, userStorage, withdrawalStorage, auditStorage, nil, nil)
	return env
}

func (env *withdrawTestEnv) addUser(id string, balance int64, isAdmin bool) {
	env.users[id] = &models.User{ID: id, BalanceSubunits: balance, IsAdmin: isAdmin}
}

func TestWithdrawalServiceImpl_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		balance      int64
		amountTokens decimal.Decimal
		wantErr      error
		wantBalance  int64
	}{
		{
			name:         "exact minimum succeeds",
			balance:      150000,
			amountTokens: decimal.NewFromInt(100),
			wantBalance:  50000,
		},
		{
			name:         "just below minimum fails",
			balance:      150000,
			amountTokens: decimal.NewFromFloat(99.999),
			wantErr:      ErrMinWithdrawNotMet,
		},
		{
			name:         "insufficient balance",
			balance:      99999,
			amountTokens: decimal.NewFromInt(100),
			wantErr:      ErrInsufficientBalance,
		},
		{
			name:         "fractional amount is floored to subunits",
			balance:      200000,
			amountTokens: decimal.NewFromFloat(100.0005),
			wantBalance:  100000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newWithdrawTestEnv()
			env.addUser("100", tt.balance, false)

			requestID, err := env.service.Create(ctx, "100", tt.amountTokens, "binance-42")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
				}
				if env.users["100"].BalanceSubunits != tt.balance {
					t.Errorf("balance changed on failed create: %v", env.users["100"].BalanceSubunits)
				}
				if len(env.requests) != 0 {
					t.Errorf("request created on failed create")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			if env.users["100"].BalanceSubunits != tt.wantBalance {
				t.Errorf("balance = %v, want %v", env.users["100"].BalanceSubunits, tt.wantBalance)
			}

			req, ok := env.requests[requestID]
			if !ok {
				t.Fatal("request not stored")
			}
			if req.Status != models.WithdrawStatusPending {
				t.Errorf("status = %v, want pending", req.Status)
			}
			if req.AmountSubunits != tt.balance-tt.wantBalance {
				t.Errorf("AmountSubunits = %v, want %v", req.AmountSubunits, tt.balance-tt.wantBalance)
			}
		})
	}
}

func TestWithdrawalServiceImpl_CreateUserNotFound(t *testing.T) {
	env := newWithdrawTestEnv()

	_, err := env.service.Create(context.Background(), "missing", decimal.NewFromInt(100), "binance-42")
	if !errors.Is(err, storage.ErrUserNotFound) {
		t.Errorf("Create() error = %v, want %v", err, storage.ErrUserNotFound)
	}
}

func TestWithdrawalServiceImpl_Decide(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*withdrawTestEnv, uuid.UUID) {
		t.Helper()
		env := newWithdrawTestEnv()
		env.addUser("100", 250000, false)
		env.addUser("admin", 0, true)

		requestID, err := env.service.Create(ctx, "100", decimal.NewFromInt(100), "binance-42")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return env, requestID
	}

	t.Run("approve keeps the debit", func(t *testing.T) {
		env, requestID := setup(t)

		if err := env.service.Decide(ctx, "admin", requestID, models.WithdrawStatusApproved); err != nil {
			t.Fatalf("Decide() error = %v", err)
		}

		if env.users["100"].BalanceSubunits != 150000 {
			t.Errorf("balance = %v, want 150000", env.users["100"].BalanceSubunits)
		}
		if env.requests[requestID].Status != models.WithdrawStatusApproved {
			t.Errorf("status = %v, want approved", env.requests[requestID].Status)
		}
		if env.requests[requestID].DecidedBy == nil || *env.requests[requestID].DecidedBy != "admin" {
			t.Error("decidedBy not recorded")
		}
	})

	t.Run("reject refunds exactly once", func(t *testing.T) {
		env, requestID := setup(t)

		if err := env.service.Decide(ctx, "admin", requestID, models.WithdrawStatusRejected); err != nil {
			t.Fatalf("Decide() error = %v", err)
		}

		// Закон round-trip: баланс вернулся к значению до создания заявки
		if env.users["100"].BalanceSubunits != 250000 {
			t.Errorf("balance = %v, want 250000", env.users["100"].BalanceSubunits)
		}
	})

	t.Run("second decision fails and leaves balance intact", func(t *testing.T) {
		env, requestID := setup(t)

		if err := env.service.Decide(ctx, "admin", requestID, models.WithdrawStatusRejected); err != nil {
			t.Fatalf("first Decide() error = %v", err)
		}

		err := env.service.Decide(ctx, "admin", requestID, models.WithdrawStatusRejected)
		if !errors.Is(err, ErrAlreadyDecided) {
			t.Fatalf("second Decide() error = %v, want %v", err, ErrAlreadyDecided)
		}

		if env.users["100"].BalanceSubunits != 250000 {
			t.Errorf("balance = %v, want 250000 after double reject", env.users["100"].BalanceSubunits)
		}
	})

	t.Run("non-admin caller", func(t *testing.T) {
		env, requestID := setup(t)

		err := env.service.Decide(ctx, "100", requestID, models.WithdrawStatusApproved)
		if !errors.Is(err, ErrNotAdmin) {
			t.Errorf("Decide() error = %v, want %v", err, ErrNotAdmin)
		}
	})

	t.Run("unknown admin fails closed", func(t *testing.T) {
		env, requestID := setup(t)

		err := env.service.Decide(ctx, "ghost", requestID, models.WithdrawStatusApproved)
		if !errors.Is(err, ErrNotAdmin) {
			t.Errorf("Decide() error = %v, want %v", err, ErrNotAdmin)
		}
	})

	t.Run("request not found", func(t *testing.T) {
		env, _ := setup(t)

		err := env.service.Decide(ctx, "admin", uuid.New(), models.WithdrawStatusApproved)
		if !errors.Is(err, storage.ErrRequestNotFound) {
			t.Errorf("Decide() error = %v, want %v", err, storage.ErrRequestNotFound)
		}
	})

	t.Run("invalid decision", func(t *testing.T) {
		env, requestID := setup(t)

		err := env.service.Decide(ctx, "admin", requestID, models.WithdrawStatus("cancelled"))
		if !errors.Is(err, ErrInvalidDecision) {
			t.Errorf("Decide() error = %v, want %v", err, ErrInvalidDecision)
		}
	})

	t.Run("audit entry is written", func(t *testing.T) {
		env, requestID := setup(t)

		if err := env.service.Decide(ctx, "admin", requestID, models.WithdrawStatusApproved); err != nil {
			t.Fatalf("Decide() error = %v", err)
		}

		if len(env.audit) != 1 {
			t.Fatalf("audit entries = %d, want 1", len(env.audit))
		}
		entry := env.audit[0]
		if entry.Action != "decideWithdraw" || entry.ByUID != "admin" || entry.RequestID != requestID {
			t.Errorf("audit entry = %+v", entry)
		}
	})
}

func TestWithdrawalServiceImpl_ListPending(t *testing.T) {
	ctx := context.Background()

	env := newWithdrawTestEnv()
	env.addUser("100", 500000, false)
	env.addUser("admin", 0, true)

	first, err := env.service.Create(ctx, "100", decimal.NewFromInt(100), "binance-42")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := env.service.Create(ctx, "100", decimal.NewFromInt(150), "binance-42")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := env.service.Decide(ctx, "admin", first, models.WithdrawStatusApproved); err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	items, err := env.service.ListPending(ctx, "admin")
	if err != nil {
		t.Fatalf("ListPending() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("pending = %d, want 1", len(items))
	}
	if items[0].ID != second {
		t.Errorf("pending id = %v, want %v", items[0].ID, second)
	}

	if _, err := env.service.ListPending(ctx, "100"); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("ListPending() by non-admin error = %v, want %v", err, ErrNotAdmin)
	}
}
