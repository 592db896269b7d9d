package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrRequestNotFound = errors.New("withdraw request not found")
)

const withdrawColumns = `id, user_id, amount_subunits, amount_tokens, binance_uid, status,
			 created_at, decided_at, decided_by`

// PostgresWithdrawalStorage реализует WithdrawalStorage для PostgreSQL.
type PostgresWithdrawalStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresWithdrawalStorage создаёт новый экземпляр.
func NewPostgresWithdrawalStorage(pool *pgxpool.Pool) *PostgresWithdrawalStorage {
	return &PostgresWithdrawalStorage{pool: pool}
}

// CreateWithTx создаёт заявку на вывод в рамках переданной транзакции.
func (s *PostgresWithdrawalStorage) CreateWithTx(ctx context.Context, tx pgx.Tx, req *models.WithdrawRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = models.WithdrawStatusPending
	}

	query := `
		INSERT INTO withdraw_requests (id, user_id, amount_subunits, amount_tokens, binance_uid, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	err := tx.QueryRow(ctx, query,
		req.ID,
		req.UserID,
		req.AmountSubunits,
		req.AmountTokens,
		req.BinanceUID,
		req.Status,
	).Scan(&req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdraw request: %w", err)
	}

	return nil
}

// GetForUpdateTx читает заявку с блокировкой строки в рамках транзакции.
func (s *PostgresWithdrawalStorage) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.WithdrawRequest, error) {
	query := `SELECT ` + withdrawColumns + ` FROM withdraw_requests WHERE id = $1 FOR UPDATE`

	req := &models.WithdrawRequest{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.AmountSubunits,
		&req.AmountTokens,
		&req.BinanceUID,
		&req.Status,
		&req.CreatedAt,
		&req.DecidedAt,
		&req.DecidedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to lock withdraw request: %w", err)
	}

	return req, nil
}

// MarkDecidedTx переводит заявку в терминальный статус в рамках транзакции.
func (s *PostgresWithdrawalStorage) MarkDecidedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status models.WithdrawStatus, decidedBy string) error {
	query := `
		UPDATE withdraw_requests
		SET status = $1, decided_at = NOW(), decided_by = $2
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, status, decidedBy, id)
	if err != nil {
		return fmt.Errorf("failed to mark withdraw request decided: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// GetPending возвращает снимок всех заявок в статусе pending.
func (s *PostgresWithdrawalStorage) GetPending(ctx context.Context) ([]*models.WithdrawRequest, error) {
	query := `SELECT ` + withdrawColumns + ` FROM withdraw_requests WHERE status = $1`

	rows, err := s.pool.Query(ctx, query, models.WithdrawStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending withdraw requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.WithdrawRequest
	for rows.Next() {
		var req models.WithdrawRequest
		if err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.AmountSubunits,
			&req.AmountTokens,
			&req.BinanceUID,
			&req.Status,
			&req.CreatedAt,
			&req.DecidedAt,
			&req.DecidedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan withdraw request: %w", err)
		}
		requests = append(requests, &req)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return requests, nil
}
