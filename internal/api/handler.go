package api

import (
	"context"
	"log/slog"

	"github.com/shaiso/Tabula/internal/domain"
	"github.com/shaiso/Tabula/internal/mq"
	"github.com/shaiso/Tabula/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	instanceRepo  *repo.InstanceRepo
	clusterRepo   *repo.ClusterRepo
	operationRepo *repo.OperationRepo
	publisher     *mq.Publisher
	logger        *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	InstanceRepo  *repo.InstanceRepo
	ClusterRepo   *repo.ClusterRepo
	OperationRepo *repo.OperationRepo
	Publisher     *mq.Publisher
	Logger        *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		instanceRepo:  cfg.InstanceRepo,
		clusterRepo:   cfg.ClusterRepo,
		operationRepo: cfg.OperationRepo,
		publisher:     cfg.Publisher,
		logger:        cfg.Logger,
	}
}

// publishOperation публикует событие operation.pending.
// Ошибка публикации не фатальна — операция уже записана в БД,
// provisioner заберёт её через polling.
func (h *Handler) publishOperation(ctx context.Context, op *domain.Operation) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishOperationPending(ctx, op.ID); err != nil {
		h.logger.Warn("failed to publish operation.pending",
			"operation_id", op.ID,
			"type", op.Type,
			"error", err,
		)
	}
}
