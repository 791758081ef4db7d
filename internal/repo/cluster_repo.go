package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Tabula/internal/domain"
)

// ClusterRepo — репозиторий для работы с clusters.
type ClusterRepo struct {
	pool *pgxpool.Pool
}

// NewClusterRepo создаёт новый ClusterRepo.
func NewClusterRepo(pool *pgxpool.Pool) *ClusterRepo {
	return &ClusterRepo{pool: pool}
}

// Create создаёт новый cluster.
// Возвращает ErrAlreadyExists, если имя занято в пределах instance.
func (r *ClusterRepo) Create(ctx context.Context, cluster *domain.Cluster) error {
	query := `
		INSERT INTO clusters (id, instance_id, name, zone, storage, serve_nodes, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		cluster.ID,
		cluster.InstanceID,
		cluster.Name,
		cluster.Zone,
		cluster.Storage,
		cluster.ServeNodes,
		cluster.State,
		cluster.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert cluster: %w", err)
	}
	return nil
}

// GetByID возвращает cluster по ID.
func (r *ClusterRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cluster, error) {
	query := `
		SELECT id, instance_id, name, zone, storage, serve_nodes, state, created_at
		FROM clusters
		WHERE id = $1
	`
	return scanCluster(r.pool.QueryRow(ctx, query, id), "get cluster by id")
}

// GetByName возвращает cluster по имени в пределах instance.
func (r *ClusterRepo) GetByName(ctx context.Context, instanceID uuid.UUID, name string) (*domain.Cluster, error) {
	query := `
		SELECT id, instance_id, name, zone, storage, serve_nodes, state, created_at
		FROM clusters
		WHERE instance_id = $1 AND name = $2
	`
	return scanCluster(r.pool.QueryRow(ctx, query, instanceID, name), "get cluster by name")
}

// ListByInstance возвращает все clusters instance.
func (r *ClusterRepo) ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]domain.Cluster, error) {
	query := `
		SELECT id, instance_id, name, zone, storage, serve_nodes, state, created_at
		FROM clusters
		WHERE instance_id = $1
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, instanceID)
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	defer rows.Close()

	var clusters []domain.Cluster
	for rows.Next() {
		var cluster domain.Cluster
		if err := rows.Scan(
			&cluster.ID,
			&cluster.InstanceID,
			&cluster.Name,
			&cluster.Zone,
			&cluster.Storage,
			&cluster.ServeNodes,
			&cluster.State,
			&cluster.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cluster: %w", err)
		}
		clusters = append(clusters, cluster)
	}
	return clusters, rows.Err()
}

// UpdateState меняет состояние одного cluster.
func (r *ClusterRepo) UpdateState(ctx context.Context, id uuid.UUID, state domain.ResourceState) error {
	query := `UPDATE clusters SET state = $2 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, state)
	if err != nil {
		return fmt.Errorf("update cluster state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStateByInstance переводит все clusters instance в заданное состояние.
// Используется при удалении instance: кластеры помечаются DELETING
// вместе с родителем.
func (r *ClusterRepo) SetStateByInstance(ctx context.Context, instanceID uuid.UUID, state domain.ResourceState) error {
	query := `UPDATE clusters SET state = $2 WHERE instance_id = $1`
	if _, err := r.pool.Exec(ctx, query, instanceID, state); err != nil {
		return fmt.Errorf("set clusters state: %w", err)
	}
	return nil
}

// Delete удаляет cluster.
func (r *ClusterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clusters WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete cluster: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByInstance удаляет все clusters instance.
func (r *ClusterRepo) DeleteByInstance(ctx context.Context, instanceID uuid.UUID) error {
	query := `DELETE FROM clusters WHERE instance_id = $1`
	if _, err := r.pool.Exec(ctx, query, instanceID); err != nil {
		return fmt.Errorf("delete clusters: %w", err)
	}
	return nil
}

func scanCluster(row pgx.Row, op string) (*domain.Cluster, error) {
	var cluster domain.Cluster
	err := row.Scan(
		&cluster.ID,
		&cluster.InstanceID,
		&cluster.Name,
		&cluster.Zone,
		&cluster.Storage,
		&cluster.ServeNodes,
		&cluster.State,
		&cluster.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cluster, nil
}
