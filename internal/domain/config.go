package domain

import (
	"errors"
	"fmt"
)

// Ошибки валидации конфигураций.
var (
	// ErrNameRequired — не задано имя ресурса.
	ErrNameRequired = errors.New("name is required")

	// ErrNoClusters — instance создаётся без единого кластера.
	ErrNoClusters = errors.New("instance requires at least one cluster")

	// ErrDevelopmentNodes — для DEVELOPMENT instance задан serve_nodes.
	// Количеством узлов development-конфигурации управляет сервис.
	ErrDevelopmentNodes = errors.New("development instance cluster must not set serve_nodes")

	// ErrProductionNodes — для PRODUCTION instance не задан serve_nodes.
	ErrProductionNodes = errors.New("production cluster requires serve_nodes >= 1")

	// ErrZoneRequired — не задана зона кластера.
	ErrZoneRequired = errors.New("cluster zone is required")
)

// ClusterConfig — конфигурация создаваемого кластера.
type ClusterConfig struct {
	// Name — имя кластера, уникальное в пределах instance.
	Name string `json:"name"`

	// Zone — зона размещения.
	Zone string `json:"zone"`

	// Storage — тип носителя (ssd/hdd).
	Storage StorageType `json:"storage"`

	// ServeNodes — количество узлов. 0 для DEVELOPMENT instance.
	ServeNodes int `json:"serve_nodes,omitempty"`
}

// Validate проверяет конфигурацию кластера для instance данного типа.
func (c *ClusterConfig) Validate(instanceType InstanceType) error {
	if c.Name == "" {
		return fmt.Errorf("cluster: %w", ErrNameRequired)
	}
	if c.Zone == "" {
		return fmt.Errorf("cluster %s: %w", c.Name, ErrZoneRequired)
	}
	if _, err := ParseStorageType(string(c.Storage)); err != nil {
		return fmt.Errorf("cluster %s: %w", c.Name, err)
	}

	// Инвариант сервиса: узлами development-конфигурации управляет
	// сервис, production требует явного количества узлов.
	switch instanceType {
	case InstanceTypeDevelopment:
		if c.ServeNodes != 0 {
			return fmt.Errorf("cluster %s: %w", c.Name, ErrDevelopmentNodes)
		}
	case InstanceTypeProduction:
		if c.ServeNodes < 1 {
			return fmt.Errorf("cluster %s: %w", c.Name, ErrProductionNodes)
		}
	}

	return nil
}

// InstanceConfig — конфигурация создаваемого instance.
type InstanceConfig struct {
	// Name — уникальное имя instance.
	Name string `json:"name"`

	// Type — PRODUCTION или DEVELOPMENT.
	Type InstanceType `json:"type"`

	// Labels — метки пользователя.
	Labels map[string]string `json:"labels,omitempty"`

	// Clusters — кластеры, создаваемые вместе с instance.
	// Требуется минимум один.
	Clusters []ClusterConfig `json:"clusters"`
}

// Validate проверяет конфигурацию instance вместе с кластерами.
func (c *InstanceConfig) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if _, err := ParseInstanceType(string(c.Type)); err != nil {
		return err
	}
	if len(c.Clusters) == 0 {
		return ErrNoClusters
	}

	seen := make(map[string]bool, len(c.Clusters))
	for i := range c.Clusters {
		cl := &c.Clusters[i]
		if err := cl.Validate(c.Type); err != nil {
			return err
		}
		if seen[cl.Name] {
			return fmt.Errorf("duplicate cluster name %q", cl.Name)
		}
		seen[cl.Name] = true
	}

	return nil
}
