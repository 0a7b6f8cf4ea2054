package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout applies when New is given a non-positive timeout.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	// Message is the service-provided "error" text, empty if none.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("service returned status %d", e.StatusCode)
}

// ServiceMessage extracts the service-provided error text from err, if any.
func ServiceMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// Client talks to the classification service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the service root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Features fetches the ordered list of expected feature names.
func (c *Client) Features(ctx context.Context) ([]string, error) {
	var resp FeaturesResponse
	if err := c.do(ctx, http.MethodGet, "/api/features", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Features) == 0 {
		return nil, errors.New("service returned no feature names")
	}
	return resp.Features, nil
}

// ModelInfo fetches the model description.
func (c *Client) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	var info ModelInfo
	if err := c.do(ctx, http.MethodGet, "/api/model-info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Predict posts one feature vector and returns the classification.
func (c *Client) Predict(ctx context.Context, values []float64) (*Result, error) {
	var result Result
	if err := c.do(ctx, http.MethodPost, "/api/predict", PredictRequest{Features: values}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
