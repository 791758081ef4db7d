package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Instances
	mux.Handle("GET /api/v1/instances", chain(http.HandlerFunc(h.ListInstances)))
	mux.Handle("POST /api/v1/instances", chain(http.HandlerFunc(h.CreateInstance)))
	mux.Handle("GET /api/v1/instances/{name}", chain(http.HandlerFunc(h.GetInstance)))
	mux.Handle("PUT /api/v1/instances/{name}", chain(http.HandlerFunc(h.UpdateInstance)))
	mux.Handle("DELETE /api/v1/instances/{name}", chain(http.HandlerFunc(h.DeleteInstance)))

	// Clusters
	mux.Handle("GET /api/v1/instances/{name}/clusters", chain(http.HandlerFunc(h.ListClusters)))
	mux.Handle("POST /api/v1/instances/{name}/clusters", chain(http.HandlerFunc(h.CreateCluster)))
	mux.Handle("GET /api/v1/instances/{name}/clusters/{cluster}", chain(http.HandlerFunc(h.GetCluster)))
	mux.Handle("DELETE /api/v1/instances/{name}/clusters/{cluster}", chain(http.HandlerFunc(h.DeleteCluster)))

	// Operations
	mux.Handle("GET /api/v1/operations", chain(http.HandlerFunc(h.ListOperations)))
	mux.Handle("GET /api/v1/operations/{id}", chain(http.HandlerFunc(h.GetOperation)))
}
