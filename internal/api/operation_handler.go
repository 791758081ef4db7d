package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

const defaultOperationsLimit = 50

// ListOperations возвращает последние операции.
// GET /api/v1/operations?limit=N
func (h *Handler) ListOperations(w http.ResponseWriter, r *http.Request) {
	limit := defaultOperationsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			BadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	ops, err := h.operationRepo.List(r.Context(), limit)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]OperationResponse, len(ops))
	for i, op := range ops {
		result[i] = OperationFromDomain(op)
	}

	List(w, result, len(result))
}

// GetOperation возвращает операцию по ID.
// GET /api/v1/operations/{id}
func (h *Handler) GetOperation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid operation id")
		return
	}

	op, err := h.operationRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "operation not found") {
		return
	}

	Success(w, OperationFromDomain(*op))
}
