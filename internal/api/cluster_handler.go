package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Tabula/internal/domain"
)

// ListClusters возвращает все кластеры instance.
// GET /api/v1/instances/{name}/clusters
func (h *Handler) ListClusters(w http.ResponseWriter, r *http.Request) {
	inst, err := h.instanceRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "instance not found") {
		return
	}

	clusters, err := h.clusterRepo.ListByInstance(r.Context(), inst.ID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]ClusterResponse, len(clusters))
	for i, c := range clusters {
		result[i] = ClusterFromDomain(c)
	}

	List(w, result, len(result))
}

// CreateCluster принимает запрос на добавление кластера в instance.
// POST /api/v1/instances/{name}/clusters
//
// Кластер записывается в состоянии CREATING; ответ — 202 Accepted.
func (h *Handler) CreateCluster(w http.ResponseWriter, r *http.Request) {
	inst, err := h.instanceRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "instance not found") {
		return
	}

	var req CreateClusterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	cfg := req.ToConfig()
	if err := cfg.Validate(inst.Type); err != nil {
		BadRequest(w, err.Error())
		return
	}

	cluster := &domain.Cluster{
		ID:         uuid.New(),
		InstanceID: inst.ID,
		Name:       cfg.Name,
		Zone:       cfg.Zone,
		Storage:    cfg.Storage,
		ServeNodes: cfg.ServeNodes,
		State:      domain.StateCreating,
		CreatedAt:  time.Now(),
	}

	if err := h.clusterRepo.Create(r.Context(), cluster); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	op := domain.NewOperation(domain.OpCreateCluster, inst.ID, inst.Name).ForCluster(cluster.ID)
	if err := h.operationRepo.Create(r.Context(), op); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.publishOperation(r.Context(), op)

	h.logger.Info("cluster create accepted",
		"instance", inst.Name,
		"cluster", cluster.Name,
		"zone", cluster.Zone,
		"operation_id", op.ID,
	)

	Accepted(w, ClusterAcceptedResponse{
		Cluster:   ClusterFromDomain(*cluster),
		Operation: OperationFromDomain(*op),
	})
}

// GetCluster возвращает кластер по имени.
// GET /api/v1/instances/{name}/clusters/{cluster}
func (h *Handler) GetCluster(w http.ResponseWriter, r *http.Request) {
	inst, err := h.instanceRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "instance not found") {
		return
	}

	cluster, err := h.clusterRepo.GetByName(r.Context(), inst.ID, r.PathValue("cluster"))
	if HandleRepoError(w, h.logger, err, "cluster not found") {
		return
	}

	Success(w, ClusterFromDomain(*cluster))
}

// DeleteCluster принимает запрос на удаление одного кластера.
// DELETE /api/v1/instances/{name}/clusters/{cluster}
func (h *Handler) DeleteCluster(w http.ResponseWriter, r *http.Request) {
	inst, err := h.instanceRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "instance not found") {
		return
	}

	cluster, err := h.clusterRepo.GetByName(r.Context(), inst.ID, r.PathValue("cluster"))
	if HandleRepoError(w, h.logger, err, "cluster not found") {
		return
	}

	if err := h.clusterRepo.UpdateState(r.Context(), cluster.ID, domain.StateDeleting); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	op := domain.NewOperation(domain.OpDeleteCluster, inst.ID, inst.Name).ForCluster(cluster.ID)
	if err := h.operationRepo.Create(r.Context(), op); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.publishOperation(r.Context(), op)

	h.logger.Info("cluster delete accepted",
		"instance", inst.Name,
		"cluster", cluster.Name,
		"operation_id", op.ID,
	)

	Accepted(w, DeleteAcceptedResponse{Operation: OperationFromDomain(*op)})
}
