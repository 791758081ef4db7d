package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Tabula/internal/domain"
)

// ListInstances возвращает список всех instances.
// GET /api/v1/instances
func (h *Handler) ListInstances(w http.ResponseWriter, r *http.Request) {
	instances, err := h.instanceRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]InstanceResponse, len(instances))
	for i, inst := range instances {
		result[i] = InstanceFromDomain(inst)
	}

	List(w, result, len(result))
}

// CreateInstance принимает запрос на создание instance с кластерами.
// POST /api/v1/instances
//
// Ресурсы записываются в состоянии CREATING, операция — в PENDING.
// Разворачивает их provisioner; ответ — 202 Accepted.
func (h *Handler) CreateInstance(w http.ResponseWriter, r *http.Request) {
	var req CreateInstanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	cfg := req.ToConfig()
	if err := cfg.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	now := time.Now()
	inst := &domain.Instance{
		ID:        uuid.New(),
		Name:      cfg.Name,
		Type:      cfg.Type,
		Labels:    cfg.Labels,
		State:     domain.StateCreating,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.instanceRepo.Create(r.Context(), inst); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	clusters := make([]ClusterResponse, 0, len(cfg.Clusters))
	for _, cc := range cfg.Clusters {
		cluster := &domain.Cluster{
			ID:         uuid.New(),
			InstanceID: inst.ID,
			Name:       cc.Name,
			Zone:       cc.Zone,
			Storage:    cc.Storage,
			ServeNodes: cc.ServeNodes,
			State:      domain.StateCreating,
			CreatedAt:  now,
		}
		if err := h.clusterRepo.Create(r.Context(), cluster); err != nil {
			if HandleRepoError(w, h.logger, err, "") {
				return
			}
			InternalError(w, h.logger, err)
			return
		}
		clusters = append(clusters, ClusterFromDomain(*cluster))
	}

	op := domain.NewOperation(domain.OpCreateInstance, inst.ID, inst.Name)
	if err := h.operationRepo.Create(r.Context(), op); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.publishOperation(r.Context(), op)

	h.logger.Info("instance create accepted",
		"instance", inst.Name,
		"type", inst.Type,
		"clusters", len(clusters),
		"operation_id", op.ID,
	)

	Accepted(w, InstanceAcceptedResponse{
		Instance:  InstanceFromDomain(*inst),
		Clusters:  clusters,
		Operation: OperationFromDomain(*op),
	})
}

// GetInstance возвращает instance по имени.
// GET /api/v1/instances/{name}
func (h *Handler) GetInstance(w http.ResponseWriter, r *http.Request) {
	inst, err := h.instanceRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "instance not found") {
		return
	}

	Success(w, InstanceFromDomain(*inst))
}

// UpdateInstance обновляет метки instance.
// PUT /api/v1/instances/{name}
func (h *Handler) UpdateInstance(w http.ResponseWriter, r *http.Request) {
	inst, err := h.instanceRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "instance not found") {
		return
	}

	var req UpdateInstanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Labels != nil {
		inst.Labels = *req.Labels
		if err := h.instanceRepo.UpdateLabels(r.Context(), inst.ID, inst.Labels); err != nil {
			InternalError(w, h.logger, err)
			return
		}
		inst.UpdatedAt = time.Now()
	}

	Success(w, InstanceFromDomain(*inst))
}

// DeleteInstance принимает запрос на удаление instance с кластерами.
// DELETE /api/v1/instances/{name}
//
// Instance и его кластеры помечаются DELETING; строки удаляет provisioner.
func (h *Handler) DeleteInstance(w http.ResponseWriter, r *http.Request) {
	inst, err := h.instanceRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "instance not found") {
		return
	}

	inst.MarkDeleting()
	if err := h.instanceRepo.Update(r.Context(), inst); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	if err := h.clusterRepo.SetStateByInstance(r.Context(), inst.ID, domain.StateDeleting); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	op := domain.NewOperation(domain.OpDeleteInstance, inst.ID, inst.Name)
	if err := h.operationRepo.Create(r.Context(), op); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.publishOperation(r.Context(), op)

	h.logger.Info("instance delete accepted",
		"instance", inst.Name,
		"operation_id", op.ID,
	)

	Accepted(w, DeleteAcceptedResponse{Operation: OperationFromDomain(*op)})
}
