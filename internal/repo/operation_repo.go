package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Tabula/internal/domain"
)

// OperationRepo — репозиторий для работы с operations.
type OperationRepo struct {
	pool *pgxpool.Pool
}

// NewOperationRepo создаёт новый OperationRepo.
func NewOperationRepo(pool *pgxpool.Pool) *OperationRepo {
	return &OperationRepo{pool: pool}
}

// Create создаёт новую operation.
func (r *OperationRepo) Create(ctx context.Context, op *domain.Operation) error {
	query := `
		INSERT INTO operations (id, type, instance_id, instance_name, cluster_id, status, error, created_at, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		op.ID,
		op.Type,
		op.InstanceID,
		op.InstanceName,
		op.ClusterID,
		op.Status,
		nullString(op.Error),
		op.CreatedAt,
		op.StartedAt,
		op.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// GetByID возвращает operation по ID.
func (r *OperationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operation, error) {
	query := `
		SELECT id, type, instance_id, instance_name, cluster_id, status, error, created_at, started_at, finished_at
		FROM operations
		WHERE id = $1
	`
	var op domain.Operation
	var errText *string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&op.ID,
		&op.Type,
		&op.InstanceID,
		&op.InstanceName,
		&op.ClusterID,
		&op.Status,
		&errText,
		&op.CreatedAt,
		&op.StartedAt,
		&op.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get operation by id: %w", err)
	}
	if errText != nil {
		op.Error = *errText
	}
	return &op, nil
}

// List возвращает последние operations, не больше limit.
func (r *OperationRepo) List(ctx context.Context, limit int) ([]domain.Operation, error) {
	query := `
		SELECT id, type, instance_id, instance_name, cluster_id, status, error, created_at, started_at, finished_at
		FROM operations
		ORDER BY created_at DESC
		LIMIT $1
	`
	return r.queryMany(ctx, "list operations", query, limit)
}

// ListPending возвращает PENDING operations в порядке создания.
// Provisioner использует этот метод как polling-fallback, когда
// сообщение из очереди потерялось.
func (r *OperationRepo) ListPending(ctx context.Context, limit int) ([]domain.Operation, error) {
	query := `
		SELECT id, type, instance_id, instance_name, cluster_id, status, error, created_at, started_at, finished_at
		FROM operations
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2
	`
	return r.queryMany(ctx, "list pending operations", query, domain.OpStatusPending, limit)
}

// ListStalePending возвращает PENDING operations старше olderThan.
func (r *OperationRepo) ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Operation, error) {
	cutoff := time.Now().Add(-olderThan)
	query := `
		SELECT id, type, instance_id, instance_name, cluster_id, status, error, created_at, started_at, finished_at
		FROM operations
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`
	return r.queryMany(ctx, "list stale pending operations", query, domain.OpStatusPending, cutoff, limit)
}

// Update обновляет статус и временные метки operation.
func (r *OperationRepo) Update(ctx context.Context, op *domain.Operation) error {
	query := `
		UPDATE operations
		SET status = $2, error = $3, started_at = $4, finished_at = $5
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		op.ID,
		op.Status,
		nullString(op.Error),
		op.StartedAt,
		op.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update operation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeFinished удаляет завершённые operations старше olderThan.
// Возвращает количество удалённых строк.
func (r *OperationRepo) PurgeFinished(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	query := `
		DELETE FROM operations
		WHERE status IN ($1, $2) AND finished_at < $3
	`
	result, err := r.pool.Exec(ctx, query, domain.OpStatusDone, domain.OpStatusFailed, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge operations: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *OperationRepo) queryMany(ctx context.Context, opName, query string, args ...any) ([]domain.Operation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}
	defer rows.Close()

	var ops []domain.Operation
	for rows.Next() {
		var op domain.Operation
		var errText *string
		if err := rows.Scan(
			&op.ID,
			&op.Type,
			&op.InstanceID,
			&op.InstanceName,
			&op.ClusterID,
			&op.Status,
			&errText,
			&op.CreatedAt,
			&op.StartedAt,
			&op.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		if errText != nil {
			op.Error = *errText
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// nullString возвращает nil для пустой строки, чтобы в БД лежал NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
