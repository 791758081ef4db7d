package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Tabula/internal/domain"
)

// Default configuration values.
const (
	defaultStaleAfter = 5 * time.Minute
	defaultRetention  = 7 * 24 * time.Hour
	defaultBatchSize  = 100
)

// OperationStore — доступ janitor'а к журналу операций.
type OperationStore interface {
	ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Operation, error)
	PurgeFinished(ctx context.Context, olderThan time.Duration) (int64, error)
}

// InstanceStore — доступ janitor'а к instances для финализации удалений.
type InstanceStore interface {
	ListStuckDeleting(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Instance, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Publisher — публикация событий об операциях.
type Publisher interface {
	PublishOperationPending(ctx context.Context, operationID uuid.UUID) error
}

// Janitor — фоновое обслуживание журнала операций.
type Janitor struct {
	operations OperationStore
	instances  InstanceStore
	publisher  Publisher
	logger     *slog.Logger
	staleAfter time.Duration
	retention  time.Duration
	batchSize  int
}

// Config — конфигурация Janitor.
type Config struct {
	Operations OperationStore
	Instances  InstanceStore // опционально; если nil — финализация DELETING пропускается
	Publisher  Publisher     // опционально; если nil — stale requeue пропускается
	Logger     *slog.Logger

	StaleAfter time.Duration // возраст PENDING операции для requeue (default: 5m)
	Retention  time.Duration // срок хранения завершённых операций (default: 7d)
	BatchSize  int           // количество операций за один тик (default: 100)
}

// New создаёт новый Janitor.
func New(cfg Config) *Janitor {
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}

	retention := cfg.Retention
	if retention <= 0 {
		retention = defaultRetention
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Janitor{
		operations: cfg.Operations,
		instances:  cfg.Instances,
		publisher:  cfg.Publisher,
		logger:     logger,
		staleAfter: staleAfter,
		retention:  retention,
		batchSize:  batchSize,
	}
}

// Tick выполняет один тик обслуживания.
//
// 1. Находит PENDING операции старше staleAfter и переотправляет их в очередь
// 2. Финализирует instances, зависшие в DELETING без операции
// 3. Удаляет завершённые операции старше retention
//
// Ошибки одной операции не блокируют обработку остальных.
func (j *Janitor) Tick(ctx context.Context) error {
	requeued, err := j.requeueStale(ctx)
	if err != nil {
		return err
	}

	finalized, err := j.finalizeDeleting(ctx)
	if err != nil {
		return err
	}

	purged, err := j.operations.PurgeFinished(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("purge finished operations: %w", err)
	}

	j.logger.Info("janitor tick completed",
		"requeued", requeued,
		"finalized", finalized,
		"purged", purged,
	)

	return nil
}

// requeueStale переотправляет потерянные PENDING операции в очередь.
// Возвращает количество переотправленных операций.
func (j *Janitor) requeueStale(ctx context.Context) (int, error) {
	if j.publisher == nil {
		return 0, nil
	}

	ops, err := j.operations.ListStalePending(ctx, j.staleAfter, j.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list stale pending operations: %w", err)
	}

	if len(ops) == 0 {
		return 0, nil
	}

	j.logger.Debug("found stale pending operations", "count", len(ops))

	var requeued int
	for i := range ops {
		op := &ops[i]

		if err := j.publisher.PublishOperationPending(ctx, op.ID); err != nil {
			j.logger.Error("failed to requeue operation",
				"operation_id", op.ID,
				"type", op.Type,
				"error", err,
			)
			// Продолжаем обработку остальных
			continue
		}

		j.logger.Info("requeued stale operation",
			"operation_id", op.ID,
			"type", op.Type,
			"instance", op.InstanceName,
			"age", time.Since(op.CreatedAt).Round(time.Second),
		)
		requeued++
	}

	return requeued, nil
}

// finalizeDeleting дочищает instances, потерявшие свою DELETE_INSTANCE
// операцию: зависли в DELETING, а в журнале нет ни одной незавершённой
// операции. Кластеры удаляются каскадно на уровне БД.
func (j *Janitor) finalizeDeleting(ctx context.Context) (int, error) {
	if j.instances == nil {
		return 0, nil
	}

	stuck, err := j.instances.ListStuckDeleting(ctx, j.staleAfter, j.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list stuck deleting instances: %w", err)
	}

	var finalized int
	for i := range stuck {
		inst := &stuck[i]

		if err := j.instances.Delete(ctx, inst.ID); err != nil {
			j.logger.Error("failed to finalize instance",
				"instance", inst.Name,
				"error", err,
			)
			continue
		}

		j.logger.Info("finalized stuck deleting instance",
			"instance", inst.Name,
			"age", time.Since(inst.UpdatedAt).Round(time.Second),
		)
		finalized++
	}

	return finalized, nil
}
