package domain

// ResourceState — состояние instance или cluster.
//
// Жизненный цикл:
//
//	CREATING → READY → DELETING → (строка удалена)
//
// Ресурс появляется в CREATING сразу после приёма запроса API,
// а в READY его переводит provisioner после завершения операции.
type ResourceState string

const (
	// StateCreating — ресурс принят, но ещё не развёрнут.
	StateCreating ResourceState = "CREATING"

	// StateReady — ресурс развёрнут и обслуживает запросы.
	StateReady ResourceState = "READY"

	// StateDeleting — ресурс помечен на удаление, ждёт provisioner.
	StateDeleting ResourceState = "DELETING"
)

// OperationStatus — статус control-plane операции.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → DONE
//	                  ↘ FAILED
type OperationStatus string

const (
	// OpStatusPending — операция создана, ждёт provisioner.
	OpStatusPending OperationStatus = "PENDING"

	// OpStatusRunning — операция выполняется provisioner'ом.
	OpStatusRunning OperationStatus = "RUNNING"

	// OpStatusDone — операция успешно завершена.
	OpStatusDone OperationStatus = "DONE"

	// OpStatusFailed — операция завершилась с ошибкой.
	OpStatusFailed OperationStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s OperationStatus) IsTerminal() bool {
	switch s {
	case OpStatusDone, OpStatusFailed:
		return true
	default:
		return false
	}
}
