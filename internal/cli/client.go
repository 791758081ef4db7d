package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// InstanceResponse — instance из API.
type InstanceResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Labels    map[string]string `json:"labels,omitempty"`
	State     string            `json:"state"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

// ClusterResponse — cluster из API.
type ClusterResponse struct {
	ID         string `json:"id"`
	InstanceID string `json:"instance_id"`
	Name       string `json:"name"`
	Zone       string `json:"zone"`
	Storage    string `json:"storage"`
	ServeNodes int    `json:"serve_nodes"`
	State      string `json:"state"`
	CreatedAt  string `json:"created_at"`
}

// OperationResponse — операция из API.
type OperationResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	InstanceID   string `json:"instance_id"`
	InstanceName string `json:"instance_name"`
	ClusterID    string `json:"cluster_id,omitempty"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	CreatedAt    string `json:"created_at"`
	StartedAt    string `json:"started_at,omitempty"`
	FinishedAt   string `json:"finished_at,omitempty"`
}

// InstanceAcceptedResponse — ответ API на создание instance.
type InstanceAcceptedResponse struct {
	Instance  InstanceResponse  `json:"instance"`
	Clusters  []ClusterResponse `json:"clusters"`
	Operation OperationResponse `json:"operation"`
}

// ClusterAcceptedResponse — ответ API на создание cluster.
type ClusterAcceptedResponse struct {
	Cluster   ClusterResponse   `json:"cluster"`
	Operation OperationResponse `json:"operation"`
}

// DeleteAcceptedResponse — ответ API на удаление ресурса.
type DeleteAcceptedResponse struct {
	Operation OperationResponse `json:"operation"`
}

// --- Request types ---

// CreateInstanceRequest — создание instance с кластерами.
type CreateInstanceRequest struct {
	Name     string                 `json:"name"`
	Type     string                 `json:"type"`
	Labels   map[string]string      `json:"labels,omitempty"`
	Clusters []CreateClusterRequest `json:"clusters"`
}

// CreateClusterRequest — создание кластера.
type CreateClusterRequest struct {
	Name       string `json:"name"`
	Zone       string `json:"zone"`
	Storage    string `json:"storage"`
	ServeNodes int    `json:"serve_nodes,omitempty"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError — структурированная ошибка API.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound возвращает true для ошибки NOT_FOUND.
func (e *APIError) IsNotFound() bool {
	return e.Code == "NOT_FOUND"
}

// --- Client ---

// Client — HTTP-клиент для Tabula API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Instances ---

// ListInstances возвращает все instances.
func (c *Client) ListInstances() ([]InstanceResponse, error) {
	var instances []InstanceResponse
	err := c.list("/api/v1/instances", nil, &instances)
	return instances, err
}

// GetInstance возвращает instance по имени.
func (c *Client) GetInstance(name string) (*InstanceResponse, error) {
	var inst InstanceResponse
	err := c.get("/api/v1/instances/"+url.PathEscape(name), &inst)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// InstanceExists проверяет существование instance по имени.
func (c *Client) InstanceExists(name string) (bool, error) {
	_, err := c.GetInstance(name)
	if err == nil {
		return true, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
		return false, nil
	}
	return false, err
}

// CreateInstance создаёт instance вместе с кластерами.
func (c *Client) CreateInstance(req CreateInstanceRequest) (*InstanceAcceptedResponse, error) {
	var resp InstanceAcceptedResponse
	err := c.post("/api/v1/instances", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteInstance удаляет instance по имени.
func (c *Client) DeleteInstance(name string) (*DeleteAcceptedResponse, error) {
	var resp DeleteAcceptedResponse
	err := c.doData(http.MethodDelete, "/api/v1/instances/"+url.PathEscape(name), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Clusters ---

// ListClusters возвращает все кластеры instance.
func (c *Client) ListClusters(instance string) ([]ClusterResponse, error) {
	var clusters []ClusterResponse
	err := c.list("/api/v1/instances/"+url.PathEscape(instance)+"/clusters", nil, &clusters)
	return clusters, err
}

// CreateCluster добавляет кластер в instance.
func (c *Client) CreateCluster(instance string, req CreateClusterRequest) (*ClusterAcceptedResponse, error) {
	var resp ClusterAcceptedResponse
	err := c.post("/api/v1/instances/"+url.PathEscape(instance)+"/clusters", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteCluster удаляет кластер instance по имени.
func (c *Client) DeleteCluster(instance, cluster string) (*DeleteAcceptedResponse, error) {
	var resp DeleteAcceptedResponse
	path := "/api/v1/instances/" + url.PathEscape(instance) + "/clusters/" + url.PathEscape(cluster)
	err := c.doData(http.MethodDelete, path, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Operations ---

// ListOperations возвращает последние операции.
func (c *Client) ListOperations(limit int) ([]OperationResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var ops []OperationResponse
	err := c.list("/api/v1/operations", params, &ops)
	return ops, err
}

// GetOperation возвращает операцию по ID.
func (c *Client) GetOperation(id string) (*OperationResponse, error) {
	var op OperationResponse
	err := c.get("/api/v1/operations/"+id, &op)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return &APIError{Code: er.Error.Code, Message: er.Error.Message}
}
