package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Tabula/internal/domain"
)

// InstanceRepo — репозиторий для работы с instances.
type InstanceRepo struct {
	pool *pgxpool.Pool
}

// NewInstanceRepo создаёт новый InstanceRepo.
func NewInstanceRepo(pool *pgxpool.Pool) *InstanceRepo {
	return &InstanceRepo{pool: pool}
}

// Create создаёт новый instance.
// Возвращает ErrAlreadyExists при конфликте имени.
func (r *InstanceRepo) Create(ctx context.Context, inst *domain.Instance) error {
	labelsJSON, err := marshalLabels(inst.Labels)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO instances (id, name, type, labels, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		inst.ID,
		inst.Name,
		inst.Type,
		labelsJSON,
		inst.State,
		inst.CreatedAt,
		inst.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert instance: %w", err)
	}
	return nil
}

// GetByID возвращает instance по ID.
func (r *InstanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Instance, error) {
	query := `
		SELECT id, name, type, labels, state, created_at, updated_at
		FROM instances
		WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get instance by id")
}

// GetByName возвращает instance по имени.
func (r *InstanceRepo) GetByName(ctx context.Context, name string) (*domain.Instance, error) {
	query := `
		SELECT id, name, type, labels, state, created_at, updated_at
		FROM instances
		WHERE name = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, name), "get instance by name")
}

// List возвращает список всех instances.
func (r *InstanceRepo) List(ctx context.Context) ([]domain.Instance, error) {
	query := `
		SELECT id, name, type, labels, state, created_at, updated_at
		FROM instances
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	defer rows.Close()

	var instances []domain.Instance
	for rows.Next() {
		var inst domain.Instance
		var labelsJSON []byte
		if err := rows.Scan(
			&inst.ID,
			&inst.Name,
			&inst.Type,
			&labelsJSON,
			&inst.State,
			&inst.CreatedAt,
			&inst.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		if err := unmarshalLabels(labelsJSON, &inst.Labels); err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

// Update обновляет state и updated_at instance.
func (r *InstanceRepo) Update(ctx context.Context, inst *domain.Instance) error {
	query := `
		UPDATE instances
		SET state = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, inst.ID, inst.State, inst.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update instance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLabels заменяет метки instance.
func (r *InstanceRepo) UpdateLabels(ctx context.Context, id uuid.UUID, labels map[string]string) error {
	labelsJSON, err := marshalLabels(labels)
	if err != nil {
		return err
	}

	query := `
		UPDATE instances
		SET labels = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, id, labelsJSON, time.Now())
	if err != nil {
		return fmt.Errorf("update instance labels: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListStuckDeleting возвращает instances, зависшие в DELETING: старше
// olderThan и без единой незавершённой операции. Такие instances потеряли
// свою DELETE_INSTANCE операцию, их дочищает janitor.
func (r *InstanceRepo) ListStuckDeleting(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Instance, error) {
	cutoff := time.Now().Add(-olderThan)
	query := `
		SELECT i.id, i.name, i.type, i.labels, i.state, i.created_at, i.updated_at
		FROM instances i
		WHERE i.state = $1
		  AND i.updated_at < $2
		  AND NOT EXISTS (
			SELECT 1 FROM operations o
			WHERE o.instance_id = i.id AND o.status IN ($3, $4)
		  )
		ORDER BY i.updated_at
		LIMIT $5
	`
	rows, err := r.pool.Query(ctx, query,
		domain.StateDeleting,
		cutoff,
		domain.OpStatusPending,
		domain.OpStatusRunning,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list stuck deleting instances: %w", err)
	}
	defer rows.Close()

	var instances []domain.Instance
	for rows.Next() {
		var inst domain.Instance
		var labelsJSON []byte
		if err := rows.Scan(
			&inst.ID,
			&inst.Name,
			&inst.Type,
			&labelsJSON,
			&inst.State,
			&inst.CreatedAt,
			&inst.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		if err := unmarshalLabels(labelsJSON, &inst.Labels); err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

// Delete удаляет instance (каскадно удалит clusters).
func (r *InstanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM instances WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete instance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InstanceRepo) scanOne(row pgx.Row, op string) (*domain.Instance, error) {
	var inst domain.Instance
	var labelsJSON []byte
	err := row.Scan(
		&inst.ID,
		&inst.Name,
		&inst.Type,
		&labelsJSON,
		&inst.State,
		&inst.CreatedAt,
		&inst.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := unmarshalLabels(labelsJSON, &inst.Labels); err != nil {
		return nil, err
	}
	return &inst, nil
}

func marshalLabels(labels map[string]string) ([]byte, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return nil, fmt.Errorf("marshal labels: %w", err)
	}
	return data, nil
}

func unmarshalLabels(data []byte, labels *map[string]string) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, labels); err != nil {
		return fmt.Errorf("unmarshal labels: %w", err)
	}
	return nil
}
