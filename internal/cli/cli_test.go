package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
)

// --- Fake API server ---

type recordedRequest struct {
	method string
	path   string
	body   []byte
}

// fakeAPI записывает все запросы CLI и отвечает конвертами Tabula API.
type fakeAPI struct {
	mu        sync.Mutex
	requests  []recordedRequest
	instances map[string]bool
}

func newFakeAPI(existing ...string) *fakeAPI {
	f := &fakeAPI{instances: make(map[string]bool)}
	for _, name := range existing {
		f.instances[name] = true
	}
	return f
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		method: r.Method,
		path:   r.URL.Path,
		body:   body,
	})
	f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/instances":
		writeList(w, []InstanceResponse{})

	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/instances":
		var req CreateInstanceRequest
		json.Unmarshal(body, &req)
		f.mu.Lock()
		f.instances[req.Name] = true
		f.mu.Unlock()
		clusters := make([]ClusterResponse, len(req.Clusters))
		for i, c := range req.Clusters {
			clusters[i] = ClusterResponse{ID: fmt.Sprintf("cluster-%d", i), Name: c.Name, Zone: c.Zone, Storage: c.Storage, ServeNodes: c.ServeNodes, State: "CREATING"}
		}
		writeData(w, http.StatusAccepted, InstanceAcceptedResponse{
			Instance:  InstanceResponse{ID: "inst-1", Name: req.Name, Type: req.Type, State: "CREATING"},
			Clusters:  clusters,
			Operation: OperationResponse{ID: "op-1", Status: "PENDING"},
		})

	case r.Method == http.MethodGet && len(parts) == 4 && parts[2] == "instances":
		name := parts[3]
		f.mu.Lock()
		exists := f.instances[name]
		f.mu.Unlock()
		if !exists {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "instance not found")
			return
		}
		writeData(w, http.StatusOK, InstanceResponse{ID: "inst-1", Name: name, Type: "PRODUCTION", State: "READY"})

	case r.Method == http.MethodDelete && len(parts) == 4 && parts[2] == "instances":
		writeData(w, http.StatusAccepted, DeleteAcceptedResponse{
			Operation: OperationResponse{ID: "op-1", Status: "PENDING"},
		})

	case r.Method == http.MethodGet && len(parts) == 5 && parts[4] == "clusters":
		writeList(w, []ClusterResponse{})

	case r.Method == http.MethodPost && len(parts) == 5 && parts[4] == "clusters":
		var req CreateClusterRequest
		json.Unmarshal(body, &req)
		writeData(w, http.StatusAccepted, ClusterAcceptedResponse{
			Cluster:   ClusterResponse{ID: "cluster-1", Name: req.Name, Zone: req.Zone, Storage: req.Storage, ServeNodes: req.ServeNodes, State: "CREATING"},
			Operation: OperationResponse{ID: "op-1", Status: "PENDING"},
		})

	case r.Method == http.MethodDelete && len(parts) == 6 && parts[4] == "clusters":
		writeData(w, http.StatusAccepted, DeleteAcceptedResponse{
			Operation: OperationResponse{ID: "op-1", Status: "PENDING"},
		})

	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown route")
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeList(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": data, "total": 0})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": msg},
	})
}

func (f *fakeAPI) byMethod(method string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []recordedRequest
	for _, req := range f.requests {
		if req.method == method {
			result = append(result, req)
		}
	}
	return result
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// --- Helpers ---

func execute(t *testing.T, api *fakeAPI, newCmd func(func() *Client, func() *Output) *cobra.Command, args ...string) error {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	var buf bytes.Buffer
	clientFn := func() *Client { return NewClient(server.URL) }
	outputFn := func() *Output { return &Output{w: &buf, errW: &buf} }

	cmd := newCmd(clientFn, outputFn)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func decodeInstanceCreate(t *testing.T, body []byte) CreateInstanceRequest {
	t.Helper()
	var req CreateInstanceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to decode create request: %v", err)
	}
	return req
}

// --- run ---

func TestRunCmd_CreatesInstanceWhenAbsent(t *testing.T) {
	api := newFakeAPI()

	err := execute(t, api, NewRunCmd, "--instance", "my-instance", "--cluster", "my-cluster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	posts := api.byMethod(http.MethodPost)
	if len(posts) != 1 {
		t.Fatalf("expected 1 POST, got %d", len(posts))
	}
	if posts[0].path != "/api/v1/instances" {
		t.Errorf("unexpected POST path: %s", posts[0].path)
	}

	req := decodeInstanceCreate(t, posts[0].body)
	if req.Name != "my-instance" {
		t.Errorf("expected name my-instance, got %s", req.Name)
	}
	if req.Type != "PRODUCTION" {
		t.Errorf("expected type PRODUCTION, got %s", req.Type)
	}
	if len(req.Clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(req.Clusters))
	}
	c := req.Clusters[0]
	if c.Name != "my-cluster" || c.Zone != "us-central1-f" || c.Storage != "ssd" || c.ServeNodes != 3 {
		t.Errorf("unexpected cluster config: %+v", c)
	}
}

func TestRunCmd_SkipsCreateWhenExists(t *testing.T) {
	api := newFakeAPI("my-instance")

	err := execute(t, api, NewRunCmd, "--instance", "my-instance", "--cluster", "my-cluster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if posts := api.byMethod(http.MethodPost); len(posts) != 0 {
		t.Errorf("expected no POST for existing instance, got %d", len(posts))
	}
}

func TestRunCmd_ShowsInstanceDetails(t *testing.T) {
	api := newFakeAPI("my-instance")

	err := execute(t, api, NewRunCmd, "--instance", "my-instance", "--cluster", "my-cluster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// exists check + list + get + clusters
	gets := api.byMethod(http.MethodGet)
	paths := make([]string, len(gets))
	for i, g := range gets {
		paths[i] = g.path
	}
	want := []string{
		"/api/v1/instances/my-instance",
		"/api/v1/instances",
		"/api/v1/instances/my-instance",
		"/api/v1/instances/my-instance/clusters",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d GETs, got %d: %v", len(want), len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("GET %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

func TestRunCmd_MissingFlags(t *testing.T) {
	api := newFakeAPI()

	err := execute(t, api, NewRunCmd, "--instance", "my-instance")
	if err == nil {
		t.Fatal("expected error for missing --cluster flag")
	}
	if api.count() != 0 {
		t.Errorf("expected no HTTP requests, got %d", api.count())
	}
}

// --- dev-instance ---

func TestDevInstanceCmd(t *testing.T) {
	api := newFakeAPI()

	err := execute(t, api, NewDevInstanceCmd, "--instance", "dev-inst", "--cluster", "dev-cluster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	posts := api.byMethod(http.MethodPost)
	if len(posts) != 1 {
		t.Fatalf("expected 1 POST, got %d", len(posts))
	}

	req := decodeInstanceCreate(t, posts[0].body)
	if req.Type != "DEVELOPMENT" {
		t.Errorf("expected type DEVELOPMENT, got %s", req.Type)
	}
	if len(req.Clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(req.Clusters))
	}
	c := req.Clusters[0]
	if c.ServeNodes != 0 {
		t.Errorf("development cluster must not set serve nodes, got %d", c.ServeNodes)
	}
	if c.Storage != "hdd" || c.Zone != "us-central1-f" {
		t.Errorf("unexpected cluster config: %+v", c)
	}
}

// --- del-instance ---

func TestDelInstanceCmd(t *testing.T) {
	api := newFakeAPI("my-instance")

	err := execute(t, api, NewDelInstanceCmd, "--instance", "my-instance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deletes := api.byMethod(http.MethodDelete)
	if len(deletes) != 1 {
		t.Fatalf("expected 1 DELETE, got %d", len(deletes))
	}
	if deletes[0].path != "/api/v1/instances/my-instance" {
		t.Errorf("unexpected DELETE path: %s", deletes[0].path)
	}
	if api.count() != 1 {
		t.Errorf("expected exactly 1 request, got %d", api.count())
	}
}

// --- add-cluster ---

func TestAddClusterCmd(t *testing.T) {
	api := newFakeAPI("my-instance")

	err := execute(t, api, NewAddClusterCmd, "--instance", "my-instance", "--cluster", "new-cluster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	posts := api.byMethod(http.MethodPost)
	if len(posts) != 1 {
		t.Fatalf("expected 1 POST, got %d", len(posts))
	}
	if posts[0].path != "/api/v1/instances/my-instance/clusters" {
		t.Errorf("unexpected POST path: %s", posts[0].path)
	}

	var req CreateClusterRequest
	if err := json.Unmarshal(posts[0].body, &req); err != nil {
		t.Fatalf("failed to decode cluster request: %v", err)
	}
	if req.Name != "new-cluster" || req.Zone != "us-central1-c" || req.Storage != "ssd" || req.ServeNodes != 3 {
		t.Errorf("unexpected cluster config: %+v", req)
	}
}

func TestAddClusterCmd_InstanceAbsent(t *testing.T) {
	api := newFakeAPI()

	err := execute(t, api, NewAddClusterCmd, "--instance", "missing", "--cluster", "new-cluster")
	if err != nil {
		t.Fatalf("expected success for absent instance, got: %v", err)
	}

	if posts := api.byMethod(http.MethodPost); len(posts) != 0 {
		t.Errorf("expected no POST when instance absent, got %d", len(posts))
	}
}

// --- del-cluster ---

func TestDelClusterCmd(t *testing.T) {
	api := newFakeAPI("my-instance")

	err := execute(t, api, NewDelClusterCmd, "--instance", "my-instance", "--cluster", "my-cluster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deletes := api.byMethod(http.MethodDelete)
	if len(deletes) != 1 {
		t.Fatalf("expected 1 DELETE, got %d", len(deletes))
	}
	if deletes[0].path != "/api/v1/instances/my-instance/clusters/my-cluster" {
		t.Errorf("unexpected DELETE path: %s", deletes[0].path)
	}
	if api.count() != 1 {
		t.Errorf("expected exactly 1 request, got %d", api.count())
	}
}

// --- Client errors ---

func TestClient_InstanceExists(t *testing.T) {
	api := newFakeAPI("present")
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client := NewClient(server.URL)

	exists, err := client.InstanceExists("present")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected instance to exist")
	}

	exists, err = client.InstanceExists("absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected instance to not exist")
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusConflict, "CONFLICT", "instance already exists")
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL)
	_, err := client.CreateInstance(CreateInstanceRequest{Name: "dup", Type: "PRODUCTION"})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != "CONFLICT" {
		t.Errorf("expected code CONFLICT, got %s", apiErr.Code)
	}
}
