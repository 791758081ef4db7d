package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InstanceType — тип instance.
//
// PRODUCTION — реплицируемое хранилище с явным количеством узлов.
// DEVELOPMENT — одноузловая конфигурация для разработки, количество
// узлов не задаётся (управляется сервисом).
type InstanceType string

const (
	// InstanceTypeProduction — production instance.
	InstanceTypeProduction InstanceType = "PRODUCTION"

	// InstanceTypeDevelopment — development instance.
	InstanceTypeDevelopment InstanceType = "DEVELOPMENT"
)

// ParseInstanceType парсит строку в InstanceType.
func ParseInstanceType(s string) (InstanceType, error) {
	switch InstanceType(s) {
	case InstanceTypeProduction, InstanceTypeDevelopment:
		return InstanceType(s), nil
	default:
		return "", fmt.Errorf("unknown instance type %q", s)
	}
}

// Instance — административная единица управляемого wide-column хранилища.
//
// Instance владеет одним или несколькими кластерами (Cluster) и является
// точкой входа для всех data-plane запросов. Tabula управляет только
// жизненным циклом instance — сами данные живут в storage-слое сервиса.
type Instance struct {
	// ID — внутренний идентификатор.
	ID uuid.UUID `json:"id"`

	// Name — уникальное пользовательское имя instance.
	// Все операции CLI и API адресуют instance по имени.
	Name string `json:"name"`

	// Type — PRODUCTION или DEVELOPMENT.
	Type InstanceType `json:"type"`

	// Labels — произвольные метки пользователя (key → value).
	Labels map[string]string `json:"labels,omitempty"`

	// State — текущее состояние (CREATING/READY/DELETING).
	State ResourceState `json:"state"`

	// CreatedAt — время приёма запроса на создание.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDevelopment возвращает true для DEVELOPMENT instance.
func (i *Instance) IsDevelopment() bool {
	return i.Type == InstanceTypeDevelopment
}

// MarkReady переводит instance в состояние READY.
func (i *Instance) MarkReady() {
	i.State = StateReady
	i.UpdatedAt = time.Now()
}

// MarkDeleting помечает instance на удаление.
func (i *Instance) MarkDeleting() {
	i.State = StateDeleting
	i.UpdatedAt = time.Now()
}
