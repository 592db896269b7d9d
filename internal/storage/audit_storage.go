package storage

import (
	"context"
	"fmt"

	"github.com/Madboy21/nexopays/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAuditStorage реализует AuditStorage для PostgreSQL.
// Журнал только пополняется; операций чтения или изменения нет.
type PostgresAuditStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresAuditStorage создаёт новый экземпляр.
func NewPostgresAuditStorage(pool *pgxpool.Pool) *PostgresAuditStorage {
	return &PostgresAuditStorage{pool: pool}
}

// CreateWithTx добавляет запись журнала в рамках переданной транзакции.
func (s *PostgresAuditStorage) CreateWithTx(ctx context.Context, tx pgx.Tx, entry *models.AdminLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO admin_logs (id, action, by_uid, request_id, decision, at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING at
	`

	err := tx.QueryRow(ctx, query,
		entry.ID,
		entry.Action,
		entry.ByUID,
		entry.RequestID,
		entry.Decision,
	).Scan(&entry.At)
	if err != nil {
		return fmt.Errorf("failed to create admin log entry: %w", err)
	}

	return nil
}
