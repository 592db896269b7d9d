package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

const userColumns = `id, display_name, username, photo_url, referred_by, balance_subunits,
		       today_ads, today_stamp, lifetime_ads, is_admin, created_at, last_active_at`

// PostgresUserStorage реализует UserStorage для PostgreSQL.
type PostgresUserStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStorage создаёт новый экземпляр PostgresUserStorage.
func NewPostgresUserStorage(pool *pgxpool.Pool) *PostgresUserStorage {
	return &PostgresUserStorage{pool: pool}
}

// Upsert создаёт пользователя при первом входе либо обновляет профильные поля.
// referred_by, счётчики и баланс при повторном входе не затрагиваются:
// ветка DO UPDATE просто не упоминает эти столбцы.
func (s *PostgresUserStorage) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, display_name, username, photo_url, referred_by, today_stamp, created_at, last_active_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    username = EXCLUDED.username,
		    photo_url = EXCLUDED.photo_url,
		    last_active_at = NOW()
		RETURNING ` + userColumns

	stored := &models.User{}
	err := s.pool.QueryRow(ctx, query,
		user.ID,
		user.DisplayName,
		user.Username,
		user.PhotoURL,
		user.ReferredBy,
		user.TodayStamp,
	).Scan(
		&stored.ID,
		&stored.DisplayName,
		&stored.Username,
		&stored.PhotoURL,
		&stored.ReferredBy,
		&stored.BalanceSubunits,
		&stored.TodayAds,
		&stored.TodayStamp,
		&stored.LifetimeAds,
		&stored.IsAdmin,
		&stored.CreatedAt,
		&stored.LastActiveAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return stored, nil
}

// GetByID ищет пользователя по ID.
func (s *PostgresUserStorage) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user := &models.User{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.Username,
		&user.PhotoURL,
		&user.ReferredBy,
		&user.BalanceSubunits,
		&user.TodayAds,
		&user.TodayStamp,
		&user.LifetimeAds,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.LastActiveAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetForUpdateTx читает пользователя с блокировкой строки в рамках транзакции.
func (s *PostgresUserStorage) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	user := &models.User{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.Username,
		&user.PhotoURL,
		&user.ReferredBy,
		&user.BalanceSubunits,
		&user.TodayAds,
		&user.TodayStamp,
		&user.LifetimeAds,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.LastActiveAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user row: %w", err)
	}

	return user, nil
}

// UpdateCountersTx записывает счётчики просмотров и баланс, рассчитанные сервисом,
// в рамках переданной транзакции.
func (s *PostgresUserStorage) UpdateCountersTx(ctx context.Context, tx pgx.Tx, id, stamp string, todayAds int, lifetimeAds, balance int64) error {
	query := `
		UPDATE users
		SET today_stamp = $1, today_ads = $2, lifetime_ads = $3, balance_subunits = $4, last_active_at = NOW()
		WHERE id = $5
	`

	result, err := tx.Exec(ctx, query, stamp, todayAds, lifetimeAds, balance, id)
	if err != nil {
		return fmt.Errorf("failed to update counters: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// IncrementBalanceTx изменяет баланс существующего пользователя на delta.
// Проверка достаточности средств выполняется вызывающей стороной под блокировкой строки.
func (s *PostgresUserStorage) IncrementBalanceTx(ctx context.Context, tx pgx.Tx, id string, delta int64) error {
	query := `
		UPDATE users
		SET balance_subunits = balance_subunits + $1, last_active_at = NOW()
		WHERE id = $2
	`

	result, err := tx.Exec(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("failed to increment balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpsertBalanceTx начисляет бонус, создавая почти пустую строку, если
// пользователя с таким id ещё нет. Недостающие поля заполнятся при его
// первом входе, поскольку Upsert не сбрасывает баланс.
func (s *PostgresUserStorage) UpsertBalanceTx(ctx context.Context, tx pgx.Tx, id string, delta int64) error {
	query := `
		INSERT INTO users (id, balance_subunits, created_at, last_active_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET balance_subunits = users.balance_subunits + EXCLUDED.balance_subunits,
		    last_active_at = NOW()
	`

	if _, err := tx.Exec(ctx, query, id, delta); err != nil {
		return fmt.Errorf("failed to upsert balance: %w", err)
	}

	return nil
}
