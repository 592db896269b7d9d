package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/Madboy21/nexopays/internal/notify"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrMinWithdrawNotMet   = errors.New("minimum withdraw amount not met")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotAdmin            = errors.New("caller is not an admin")
	ErrAlreadyDecided      = errors.New("withdraw request already decided")
	ErrInvalidDecision     = errors.New("invalid decision")
)

// WithdrawalService управляет жизненным циклом заявок на вывод:
// pending -> approved либо pending -> rejected, без других переходов.
type WithdrawalService interface {
	Create(ctx context.Context, uid string, amountTokens decimal.Decimal, binanceUID string) (uuid.UUID, error)
	Decide(ctx context.Context, adminUID string, requestID uuid.UUID, decision models.WithdrawStatus) error
	ListPending(ctx context.Context, adminUID string) ([]*models.WithdrawRequest, error)
}

// WithdrawalServiceImpl реализует WithdrawalService.
type WithdrawalServiceImpl struct {
	tx                TxRunner
	userStorage       UserStorage
	withdrawalStorage WithdrawalStorage
	auditStorage      AuditStorage
	gate              *AdminGate
	notifier          notify.Notifier
	logger            logrus.FieldLogger
}

// NewWithdrawalService создаёт новый сервис заявок на вывод.
// notifier может быть nil, тогда уведомления не отправляются.
func NewWithdrawalService(tx TxRunner, userStorage UserStorage, withdrawalStorage WithdrawalStorage, auditStorage AuditStorage, notifier notify.Notifier, logger logrus.FieldLogger) *WithdrawalServiceImpl {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WithdrawalServiceImpl{
		tx:                tx,
		userStorage:       userStorage,
		withdrawalStorage: withdrawalStorage,
		auditStorage:      auditStorage,
		gate:              NewAdminGate(userStorage),
		notifier:          notifier,
		logger:            logger,
	}
}

// Create списывает средства и создаёт заявку со статусом pending в одной
// транзакции: либо применяются оба эффекта, либо ни одного.
func (s *WithdrawalServiceImpl) Create(ctx context.Context, uid string, amountTokens decimal.Decimal, binanceUID string) (uuid.UUID, error) {
	// Сумма округляется вниз до целых субъединиц
	amountSubunits := amountTokens.Mul(decimal.NewFromInt(models.SubunitsPerToken)).IntPart()
	if amountSubunits < models.MinWithdrawSubunits {
		return uuid.Nil, ErrMinWithdrawNotMet
	}

	req := &models.WithdrawRequest{
		ID:             uuid.New(),
		UserID:         uid,
		AmountSubunits: amountSubunits,
		AmountTokens:   amountTokens,
		BinanceUID:     binanceUID,
		Status:         models.WithdrawStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.userStorage.GetForUpdateTx(ctx, tx, uid)
		if err != nil {
			return err
		}

		if user.BalanceSubunits < amountSubunits {
			return ErrInsufficientBalance
		}

		// Средства удерживаются сразу при создании заявки
		if err := s.userStorage.IncrementBalanceTx(ctx, tx, uid, -amountSubunits); err != nil {
			return err
		}

		return s.withdrawalStorage.CreateWithTx(ctx, tx, req)
	})
	if err != nil {
		return uuid.Nil, err
	}

	return req.ID, nil
}

// Decide переводит заявку в терминальный статус. Смена статуса, возврат
// средств при отклонении и запись журнала выполняются в одной транзакции.
// Одобрение баланс не меняет: средства удержаны при создании заявки.
func (s *WithdrawalServiceImpl) Decide(ctx context.Context, adminUID string, requestID uuid.UUID, decision models.WithdrawStatus) error {
	if decision != models.WithdrawStatusApproved && decision != models.WithdrawStatusRejected {
		return ErrInvalidDecision
	}

	if err := s.ensureAdmin(ctx, adminUID); err != nil {
		return err
	}

	var decided *models.WithdrawRequest
	err := s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		req, err := s.withdrawalStorage.GetForUpdateTx(ctx, tx, requestID)
		if err != nil {
			return err
		}

		if req.Status != models.WithdrawStatusPending {
			return ErrAlreadyDecided
		}

		if err := s.withdrawalStorage.MarkDecidedTx(ctx, tx, requestID, decision, adminUID); err != nil {
			return err
		}

		if decision == models.WithdrawStatusRejected {
			if err := s.userStorage.IncrementBalanceTx(ctx, tx, req.UserID, req.AmountSubunits); err != nil {
				return fmt.Errorf("failed to refund: %w", err)
			}
		}

		entry := &models.AdminLog{
			Action:    "decideWithdraw",
			ByUID:     adminUID,
			RequestID: requestID,
			Decision:  string(decision),
		}
		if err := s.auditStorage.CreateWithTx(ctx, tx, entry); err != nil {
			return err
		}

		decided = req
		return nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.WithdrawDecided(ctx, decided.UserID, decided.AmountTokens, decision); err != nil {
			s.logger.WithError(err).Warn("withdraw decision notification failed")
		}
	}

	return nil
}

// ListPending возвращает снимок всех ожидающих заявок.
func (s *WithdrawalServiceImpl) ListPending(ctx context.Context, adminUID string) ([]*models.WithdrawRequest, error) {
	if err := s.ensureAdmin(ctx, adminUID); err != nil {
		return nil, err
	}

	return s.withdrawalStorage.GetPending(ctx)
}

func (s *WithdrawalServiceImpl) ensureAdmin(ctx context.Context, adminUID string) error {
	ok, err := s.gate.Check(ctx, adminUID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	return nil
}
