package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperationType — тип control-plane операции.
type OperationType string

const (
	// OpCreateInstance — создание instance вместе с его кластерами.
	OpCreateInstance OperationType = "CREATE_INSTANCE"

	// OpDeleteInstance — удаление instance и каскадно его кластеров.
	OpDeleteInstance OperationType = "DELETE_INSTANCE"

	// OpCreateCluster — добавление кластера в существующий instance.
	OpCreateCluster OperationType = "CREATE_CLUSTER"

	// OpDeleteCluster — удаление одного кластера.
	OpDeleteCluster OperationType = "DELETE_CLUSTER"
)

// Operation — длительная control-plane операция.
//
// API не разворачивает ресурсы синхронно: он записывает намерение
// (операцию) и отвечает клиенту сразу. Provisioner забирает операции
// из очереди (или polling'ом из БД) и доводит ресурсы до целевого
// состояния. Operation — это и журнал, и единица работы provisioner'а.
type Operation struct {
	// ID — уникальный идентификатор операции.
	ID uuid.UUID `json:"id"`

	// Type — тип операции.
	Type OperationType `json:"type"`

	// InstanceID — instance, к которому относится операция.
	InstanceID uuid.UUID `json:"instance_id"`

	// InstanceName — имя instance на момент создания операции.
	// Хранится отдельно, чтобы журнал читался после удаления ресурса.
	InstanceName string `json:"instance_name"`

	// ClusterID — кластер для CREATE_CLUSTER/DELETE_CLUSTER.
	// Nil для операций над instance целиком.
	ClusterID *uuid.UUID `json:"cluster_id,omitempty"`

	// Status — текущий статус (PENDING/RUNNING/DONE/FAILED).
	Status OperationStatus `json:"status"`

	// Error — текст ошибки, если операция FAILED.
	Error string `json:"error,omitempty"`

	// CreatedAt — время создания операции.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt — время начала выполнения. Nil, пока PENDING.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения. Nil, пока не DONE/FAILED.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NewOperation создаёт операцию в статусе PENDING.
func NewOperation(opType OperationType, instanceID uuid.UUID, instanceName string) *Operation {
	return &Operation{
		ID:           uuid.New(),
		Type:         opType,
		InstanceID:   instanceID,
		InstanceName: instanceName,
		Status:       OpStatusPending,
		CreatedAt:    time.Now(),
	}
}

// ForCluster привязывает операцию к конкретному кластеру.
func (o *Operation) ForCluster(clusterID uuid.UUID) *Operation {
	o.ClusterID = &clusterID
	return o
}

// IsFinished возвращает true, если операция завершена.
func (o *Operation) IsFinished() bool {
	return o.Status.IsTerminal()
}

// MarkRunning переводит операцию в статус RUNNING.
func (o *Operation) MarkRunning() {
	now := time.Now()
	o.Status = OpStatusRunning
	o.StartedAt = &now
}

// MarkDone переводит операцию в статус DONE.
func (o *Operation) MarkDone() {
	now := time.Now()
	o.Status = OpStatusDone
	o.FinishedAt = &now
}

// MarkFailed переводит операцию в статус FAILED с ошибкой.
func (o *Operation) MarkFailed(err string) {
	now := time.Now()
	o.Status = OpStatusFailed
	o.FinishedAt = &now
	o.Error = err
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если операция ещё не завершена.
func (o *Operation) Duration() time.Duration {
	if o.StartedAt == nil || o.FinishedAt == nil {
		return 0
	}
	return o.FinishedAt.Sub(*o.StartedAt)
}
