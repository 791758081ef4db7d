package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StorageType — тип носителя кластера.
type StorageType string

const (
	// StorageSSD — SSD-хранилище.
	StorageSSD StorageType = "ssd"

	// StorageHDD — HDD-хранилище.
	StorageHDD StorageType = "hdd"
)

// ParseStorageType парсит строку в StorageType.
func ParseStorageType(s string) (StorageType, error) {
	switch StorageType(s) {
	case StorageSSD, StorageHDD:
		return StorageType(s), nil
	default:
		return "", fmt.Errorf("unknown storage type %q", s)
	}
}

// Cluster — выделенные узлы хранения внутри instance.
//
// Кластер живёт в конкретной зоне и обслуживает чтения/записи своего
// instance. Имя кластера уникально в пределах instance. Кластер можно
// создавать и удалять независимо от instance; удаление instance
// каскадно удаляет все его кластеры.
type Cluster struct {
	// ID — внутренний идентификатор.
	ID uuid.UUID `json:"id"`

	// InstanceID — ссылка на родительский instance.
	InstanceID uuid.UUID `json:"instance_id"`

	// Name — имя кластера, уникальное в пределах instance.
	Name string `json:"name"`

	// Zone — зона размещения (например, "us-central1-f").
	Zone string `json:"zone"`

	// Storage — тип носителя (ssd/hdd).
	Storage StorageType `json:"storage"`

	// ServeNodes — количество узлов.
	// Для DEVELOPMENT instance всегда 0 (узлами управляет сервис).
	ServeNodes int `json:"serve_nodes"`

	// State — текущее состояние (CREATING/READY/DELETING).
	State ResourceState `json:"state"`

	// CreatedAt — время приёма запроса на создание.
	CreatedAt time.Time `json:"created_at"`
}

// MarkReady переводит кластер в состояние READY.
func (c *Cluster) MarkReady() {
	c.State = StateReady
}

// MarkDeleting помечает кластер на удаление.
func (c *Cluster) MarkDeleting() {
	c.State = StateDeleting
}
