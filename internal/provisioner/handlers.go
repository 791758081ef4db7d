package provisioner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shaiso/Tabula/internal/domain"
	"github.com/shaiso/Tabula/internal/mq"
	"github.com/shaiso/Tabula/internal/repo"
)

// handleOperationPending обрабатывает событие о новой операции из очереди ops.pending.
func (p *Provisioner) handleOperationPending(ctx context.Context, delivery *mq.Delivery) error {
	// Парсим payload
	payload, err := mq.ParsePayload[mq.OperationPendingPayload](&delivery.Message)
	if err != nil {
		p.logger.Error("failed to parse operation.pending payload", "error", err)
		return err
	}

	p.logger.Debug("received operation.pending event",
		"operation_id", payload.OperationID,
	)

	// Обрабатываем операцию
	if err := p.ProcessOperation(ctx, payload.OperationID); err != nil {
		// Ожидаемые ситуации — не возвращаем ошибку (ack)
		if errors.Is(err, ErrOperationNotFound) || errors.Is(err, ErrOperationNotPending) {
			p.logger.Debug("operation not processed", "operation_id", payload.OperationID, "reason", err)
			return nil
		}
		p.logger.Error("failed to process operation", "operation_id", payload.OperationID, "error", err)
		return err
	}

	return nil
}

// ProcessOperation загружает операцию из БД, применяет и записывает результат.
func (p *Provisioner) ProcessOperation(ctx context.Context, operationID uuid.UUID) error {
	// 1. Загружаем операцию из БД
	op, err := p.operations.GetByID(ctx, operationID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
		}
		return fmt.Errorf("get operation: %w", err)
	}

	// 2. Проверяем статус
	if op.Status != domain.OpStatusPending {
		return ErrOperationNotPending
	}

	// 3. Помечаем как running
	op.MarkRunning()
	if err := p.operations.Update(ctx, op); err != nil {
		return fmt.Errorf("update operation to running: %w", err)
	}

	p.logger.Info("operation started",
		"operation_id", op.ID,
		"type", op.Type,
		"instance", op.InstanceName,
	)

	// 4. Применяем операцию к ресурсам
	applyErr := p.apply(ctx, op)

	// 5. Записываем результат
	if applyErr != nil {
		op.MarkFailed(applyErr.Error())
		if err := p.operations.Update(ctx, op); err != nil {
			return fmt.Errorf("update operation to failed: %w", err)
		}

		p.logger.Warn("operation failed",
			"operation_id", op.ID,
			"type", op.Type,
			"instance", op.InstanceName,
			"error", applyErr,
		)

		// Операция завершена (FAILED) — сообщение подтверждается
		return nil
	}

	op.MarkDone()
	if err := p.operations.Update(ctx, op); err != nil {
		return fmt.Errorf("update operation to done: %w", err)
	}

	p.logger.Info("operation done",
		"operation_id", op.ID,
		"type", op.Type,
		"instance", op.InstanceName,
		"duration", op.Duration(),
	)

	return nil
}

// apply применяет операцию к ресурсам в зависимости от типа.
func (p *Provisioner) apply(ctx context.Context, op *domain.Operation) error {
	switch op.Type {
	case domain.OpCreateInstance:
		return p.applyCreateInstance(ctx, op)
	case domain.OpDeleteInstance:
		return p.applyDeleteInstance(ctx, op)
	case domain.OpCreateCluster:
		return p.applyCreateCluster(ctx, op)
	case domain.OpDeleteCluster:
		return p.applyDeleteCluster(ctx, op)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOperationType, op.Type)
	}
}

// applyCreateInstance переводит instance и его кластеры в READY.
func (p *Provisioner) applyCreateInstance(ctx context.Context, op *domain.Operation) error {
	inst, err := p.instances.GetByID(ctx, op.InstanceID)
	if err != nil {
		return fmt.Errorf("get instance: %w", err)
	}

	// Идемпотентность: instance уже развёрнут
	if inst.State == domain.StateReady {
		return nil
	}

	clusters, err := p.clusters.ListByInstance(ctx, inst.ID)
	if err != nil {
		return fmt.Errorf("list clusters: %w", err)
	}

	for i := range clusters {
		cluster := &clusters[i]
		if cluster.State != domain.StateCreating {
			continue
		}
		if err := p.clusters.UpdateState(ctx, cluster.ID, domain.StateReady); err != nil {
			return fmt.Errorf("ready cluster %s: %w", cluster.Name, err)
		}
	}

	inst.MarkReady()
	if err := p.instances.Update(ctx, inst); err != nil {
		return fmt.Errorf("ready instance: %w", err)
	}

	return nil
}

// applyDeleteInstance удаляет instance вместе с кластерами.
func (p *Provisioner) applyDeleteInstance(ctx context.Context, op *domain.Operation) error {
	if err := p.clusters.DeleteByInstance(ctx, op.InstanceID); err != nil {
		return fmt.Errorf("delete clusters: %w", err)
	}

	err := p.instances.Delete(ctx, op.InstanceID)
	// Идемпотентность: instance уже удалён
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete instance: %w", err)
	}

	return nil
}

// applyCreateCluster переводит кластер в READY.
func (p *Provisioner) applyCreateCluster(ctx context.Context, op *domain.Operation) error {
	if op.ClusterID == nil {
		return ErrClusterIDMissing
	}

	cluster, err := p.clusters.GetByID(ctx, *op.ClusterID)
	if err != nil {
		return fmt.Errorf("get cluster: %w", err)
	}

	// Идемпотентность: кластер уже развёрнут
	if cluster.State == domain.StateReady {
		return nil
	}

	if err := p.clusters.UpdateState(ctx, cluster.ID, domain.StateReady); err != nil {
		return fmt.Errorf("ready cluster: %w", err)
	}

	return nil
}

// applyDeleteCluster удаляет один кластер.
func (p *Provisioner) applyDeleteCluster(ctx context.Context, op *domain.Operation) error {
	if op.ClusterID == nil {
		return ErrClusterIDMissing
	}

	err := p.clusters.Delete(ctx, *op.ClusterID)
	// Идемпотентность: кластер уже удалён
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete cluster: %w", err)
	}

	return nil
}
