package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Tabula/internal/domain"
)

// Instance DTOs

// CreateInstanceRequest — запрос на создание instance с кластерами.
type CreateInstanceRequest struct {
	Name     string                 `json:"name"`
	Type     string                 `json:"type"`
	Labels   map[string]string      `json:"labels,omitempty"`
	Clusters []CreateClusterRequest `json:"clusters"`
}

// ToConfig конвертирует запрос в domain.InstanceConfig для валидации.
func (r *CreateInstanceRequest) ToConfig() domain.InstanceConfig {
	clusters := make([]domain.ClusterConfig, len(r.Clusters))
	for i, c := range r.Clusters {
		clusters[i] = c.ToConfig()
	}
	return domain.InstanceConfig{
		Name:     r.Name,
		Type:     domain.InstanceType(r.Type),
		Labels:   r.Labels,
		Clusters: clusters,
	}
}

// UpdateInstanceRequest — запрос на обновление instance.
type UpdateInstanceRequest struct {
	Labels *map[string]string `json:"labels,omitempty"`
}

// InstanceResponse — ответ с instance.
type InstanceResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Labels    map[string]string `json:"labels,omitempty"`
	State     string            `json:"state"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// InstanceFromDomain конвертирует domain.Instance в InstanceResponse.
func InstanceFromDomain(i domain.Instance) InstanceResponse {
	return InstanceResponse{
		ID:        i.ID,
		Name:      i.Name,
		Type:      string(i.Type),
		Labels:    i.Labels,
		State:     string(i.State),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// Cluster DTOs

// CreateClusterRequest — запрос на создание кластера.
type CreateClusterRequest struct {
	Name       string `json:"name"`
	Zone       string `json:"zone"`
	Storage    string `json:"storage"`
	ServeNodes int    `json:"serve_nodes,omitempty"`
}

// ToConfig конвертирует запрос в domain.ClusterConfig для валидации.
func (r *CreateClusterRequest) ToConfig() domain.ClusterConfig {
	return domain.ClusterConfig{
		Name:       r.Name,
		Zone:       r.Zone,
		Storage:    domain.StorageType(r.Storage),
		ServeNodes: r.ServeNodes,
	}
}

// ClusterResponse — ответ с cluster.
type ClusterResponse struct {
	ID         uuid.UUID `json:"id"`
	InstanceID uuid.UUID `json:"instance_id"`
	Name       string    `json:"name"`
	Zone       string    `json:"zone"`
	Storage    string    `json:"storage"`
	ServeNodes int       `json:"serve_nodes"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClusterFromDomain конвертирует domain.Cluster в ClusterResponse.
func ClusterFromDomain(c domain.Cluster) ClusterResponse {
	return ClusterResponse{
		ID:         c.ID,
		InstanceID: c.InstanceID,
		Name:       c.Name,
		Zone:       c.Zone,
		Storage:    string(c.Storage),
		ServeNodes: c.ServeNodes,
		State:      string(c.State),
		CreatedAt:  c.CreatedAt,
	}
}

// Operation DTOs

// OperationResponse — ответ с операцией.
type OperationResponse struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	InstanceID   uuid.UUID  `json:"instance_id"`
	InstanceName string     `json:"instance_name"`
	ClusterID    *uuid.UUID `json:"cluster_id,omitempty"`
	Status       string     `json:"status"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// OperationFromDomain конвертирует domain.Operation в OperationResponse.
func OperationFromDomain(o domain.Operation) OperationResponse {
	return OperationResponse{
		ID:           o.ID,
		Type:         string(o.Type),
		InstanceID:   o.InstanceID,
		InstanceName: o.InstanceName,
		ClusterID:    o.ClusterID,
		Status:       string(o.Status),
		Error:        o.Error,
		CreatedAt:    o.CreatedAt,
		StartedAt:    o.StartedAt,
		FinishedAt:   o.FinishedAt,
	}
}

// Accepted DTOs

// InstanceAcceptedResponse — ответ на асинхронное создание instance.
type InstanceAcceptedResponse struct {
	Instance  InstanceResponse  `json:"instance"`
	Clusters  []ClusterResponse `json:"clusters"`
	Operation OperationResponse `json:"operation"`
}

// ClusterAcceptedResponse — ответ на асинхронное создание cluster.
type ClusterAcceptedResponse struct {
	Cluster   ClusterResponse   `json:"cluster"`
	Operation OperationResponse `json:"operation"`
}

// DeleteAcceptedResponse — ответ на асинхронное удаление.
type DeleteAcceptedResponse struct {
	Operation OperationResponse `json:"operation"`
}
