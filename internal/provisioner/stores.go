package provisioner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shaiso/Tabula/internal/domain"
)

// Узкие интерфейсы хранилищ: provisioner'у не нужен полный репозиторий,
// а тестам достаточно in-memory реализаций.

// InstanceStore — доступ к instances.
type InstanceStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Instance, error)
	Update(ctx context.Context, inst *domain.Instance) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClusterStore — доступ к clusters.
type ClusterStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cluster, error)
	ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]domain.Cluster, error)
	UpdateState(ctx context.Context, id uuid.UUID, state domain.ResourceState) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByInstance(ctx context.Context, instanceID uuid.UUID) error
}

// OperationStore — доступ к operations.
type OperationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Operation, error)
	Update(ctx context.Context, op *domain.Operation) error
	ListPending(ctx context.Context, limit int) ([]domain.Operation, error)
}
