package healthclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"health_service/internal/domain/model"
)

// HTTPClient talks to a running classifier server over its JSON API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type predictRequest struct {
	IMC   float64 `json:"imc"`
	Pasos float64 `json:"pasos"`
}

type Prediction struct {
	Cluster     int     `json:"cluster"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	IMC         float64 `json:"imc"`
	Pasos       float64 `json:"pasos"`
}

type Status struct {
	ModelLoaded bool `json:"model_loaded"`
	Clusters    int  `json:"clusters"`
}

// StatusError is returned for any non-200 answer from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("classifier returned status %d", e.Code)
	}
	return fmt.Sprintf("classifier returned status %d: %s", e.Code, e.Message)
}

func (c *HTTPClient) Classify(ctx context.Context, obs model.Observation) (*Prediction, error) {
	body, err := json.Marshal(predictRequest{IMC: obs.IMC, Pasos: obs.Steps})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/predict", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var prediction Prediction
	if err := c.do(req, &prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}

func (c *HTTPClient) Status(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var status Status
	if err := c.do(req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &StatusError{Code: resp.StatusCode, Message: payload.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
