package provisioner

import "errors"

// Ошибки provisioner'а.
var (
	// ErrOperationNotFound — операция не найдена в БД.
	ErrOperationNotFound = errors.New("operation not found")

	// ErrOperationNotPending — операция не в статусе PENDING.
	ErrOperationNotPending = errors.New("operation is not in PENDING status")

	// ErrUnknownOperationType — неизвестный тип операции.
	ErrUnknownOperationType = errors.New("unknown operation type")

	// ErrClusterIDMissing — у операции над кластером не задан cluster_id.
	ErrClusterIDMissing = errors.New("operation has no cluster_id")
)
