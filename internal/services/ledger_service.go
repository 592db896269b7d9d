package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/Madboy21/nexopays/internal/utils"
	"github.com/jackc/pgx/v5"
)

var (
	ErrDailyLimitReached = errors.New("daily ad limit reached")
)

// LedgerService начисляет вознаграждения за просмотр рекламы.
type LedgerService interface {
	CreditAdWatch(ctx context.Context, uid string) (*models.AdCreditResult, error)
}

// LedgerServiceImpl реализует LedgerService.
type LedgerServiceImpl struct {
	tx          TxRunner
	userStorage UserStorage
}

// NewLedgerService создаёт новый сервис начислений.
func NewLedgerService(tx TxRunner, userStorage UserStorage) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		tx:          tx,
		userStorage: userStorage,
	}
}

// CreditAdWatch начисляет награду за один просмотр рекламы.
// Сброс дневного счётчика при смене даты UTC, проверка лимита и реферальный
// бонус выполняются в одной транзакции под блокировкой строки пользователя.
func (s *LedgerServiceImpl) CreditAdWatch(ctx context.Context, uid string) (*models.AdCreditResult, error) {
	var result models.AdCreditResult

	err := s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.userStorage.GetForUpdateTx(ctx, tx, uid)
		if err != nil {
			return err
		}

		stamp := utils.TodayStampUTC()
		todayAds := user.TodayAds
		if user.TodayStamp != stamp {
			// Новый день по UTC: счётчик обнуляется до проверки лимита
			todayAds = 0
		}

		if todayAds >= models.DailyAdLimit {
			return ErrDailyLimitReached
		}

		newTodayAds := todayAds + 1
		newLifetimeAds := user.LifetimeAds + 1
		newBalance := user.BalanceSubunits + models.RewardPerAdSubunits

		if err := s.userStorage.UpdateCountersTx(ctx, tx, uid, stamp, newTodayAds, newLifetimeAds, newBalance); err != nil {
			return err
		}

		if user.ReferredBy != nil && *user.ReferredBy != "" {
			if err := s.userStorage.UpsertBalanceTx(ctx, tx, *user.ReferredBy, models.ReferralBonusSubunits); err != nil {
				return fmt.Errorf("failed to credit referrer: %w", err)
			}
		}

		result = models.AdCreditResult{
			BalanceSubunits: newBalance,
			TodayAds:        newTodayAds,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
