package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/wenwu/saas-platform/storefront-service/internal/models"
)

// APIError is a failure reported by the provisioner API. Message carries the
// server-supplied reason when the body had one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NotFound reports whether the failure was a 404.
func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// AsAPIError unwraps an *APIError from err, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ProvisionerClient calls the WordPress deployment API. Every method issues
// exactly one request: no retries, no idempotency keys, so a failed deploy
// may still have partial server-side effect.
type ProvisionerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProvisionerClient creates a new provisioner client. baseURL includes the
// API prefix, e.g. http://localhost:5000/api.
func NewProvisionerClient(baseURL string, timeout time.Duration) *ProvisionerClient {
	return &ProvisionerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// request performs one JSON round trip. The body is parsed as JSON whatever
// the status code; non-2xx turns into an *APIError carrying the body's
// message field, or a generic HTTP-status message when there is none.
func (c *ProvisionerClient) request(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ack models.AckResponse
		message := ""
		if json.Unmarshal(respBody, &ack) == nil {
			message = ack.Message
		}
		if message == "" {
			message = fmt.Sprintf("HTTP error %d", resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: message}
	}

	return json.RawMessage(respBody), nil
}

// HealthCheck verifies the provisioner API is up.
func (c *ProvisionerClient) HealthCheck(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodGet, "/health", nil)
	return err
}

// VerifyCredentials asks the provisioner to validate its DNS credentials.
func (c *ProvisionerClient) VerifyCredentials(ctx context.Context) (*models.AckResponse, error) {
	raw, err := c.request(ctx, http.MethodPost, "/verify-credentials", struct{}{})
	if err != nil {
		return nil, err
	}
	return decodeAck(raw)
}

// ListInstallations returns every installation the provisioner knows about.
func (c *ProvisionerClient) ListInstallations(ctx context.Context) (*models.ListInstallationsResponse, error) {
	raw, err := c.request(ctx, http.MethodGet, "/installations", nil)
	if err != nil {
		return nil, err
	}
	var result models.ListInstallationsResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w (body: %s)", err, string(raw))
	}
	if !result.Success {
		return nil, &APIError{Status: http.StatusOK, Message: failureMessage(result.Message)}
	}
	return &result, nil
}

// GetInstallation fetches the installation owned by username.
func (c *ProvisionerClient) GetInstallation(ctx context.Context, username string) (*models.GetInstallationResponse, error) {
	raw, err := c.request(ctx, http.MethodGet, "/installations/"+username, nil)
	if err != nil {
		return nil, err
	}
	return decodeGet(raw)
}

// Deploy provisions a new WordPress site for username on domain.
func (c *ProvisionerClient) Deploy(ctx context.Context, username, domain, email string) (*models.DeployResponse, error) {
	log.Printf("[ProvisionerClient] Deploying WordPress (user: %s, domain: %s)", username, domain)

	raw, err := c.request(ctx, http.MethodPost, "/deploy", &models.DeployRequest{
		Username: username,
		Domain:   domain,
		Email:    email,
	})
	if err != nil {
		return nil, err
	}
	resp, err := decodeDeploy(raw)
	if err != nil {
		return nil, err
	}

	log.Printf("[ProvisionerClient] Deployed: %s", resp.Data.Domain)
	return resp, nil
}

// DeleteInstallation removes the installation owned by username.
func (c *ProvisionerClient) DeleteInstallation(ctx context.Context, username string) (*models.AckResponse, error) {
	log.Printf("[ProvisionerClient] Deleting installation: %s", username)

	raw, err := c.request(ctx, http.MethodDelete, "/installations/"+username, nil)
	if err != nil {
		return nil, err
	}
	return decodeAck(raw)
}

// GetStatus fetches only the lifecycle status of username's installation.
func (c *ProvisionerClient) GetStatus(ctx context.Context, username string) (*models.StatusResponse, error) {
	raw, err := c.request(ctx, http.MethodGet, "/installations/"+username+"/status", nil)
	if err != nil {
		return nil, err
	}
	var result models.StatusResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w (body: %s)", err, string(raw))
	}
	if !result.Success {
		return nil, &APIError{Status: http.StatusOK, Message: failureMessage(result.Message)}
	}
	return &result, nil
}

// Restart restarts the container behind username's installation.
func (c *ProvisionerClient) Restart(ctx context.Context, username string) (*models.AckResponse, error) {
	log.Printf("[ProvisionerClient] Restarting installation: %s", username)

	raw, err := c.request(ctx, http.MethodPost, "/installations/"+username+"/restart", struct{}{})
	if err != nil {
		return nil, err
	}
	return decodeAck(raw)
}

func decodeAck(raw json.RawMessage) (*models.AckResponse, error) {
	var result models.AckResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w (body: %s)", err, string(raw))
	}
	if !result.Success {
		return nil, &APIError{Status: http.StatusOK, Message: failureMessage(result.Message)}
	}
	return &result, nil
}

func decodeGet(raw json.RawMessage) (*models.GetInstallationResponse, error) {
	var result models.GetInstallationResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w (body: %s)", err, string(raw))
	}
	if !result.Success {
		return nil, &APIError{Status: http.StatusOK, Message: failureMessage(result.Message)}
	}
	return &result, nil
}

func decodeDeploy(raw json.RawMessage) (*models.DeployResponse, error) {
	var result models.DeployResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w (body: %s)", err, string(raw))
	}
	if !result.Success || result.Data == nil {
		return nil, &APIError{Status: http.StatusOK, Message: failureMessage(result.Message)}
	}
	return &result, nil
}

func failureMessage(message string) string {
	if message == "" {
		return "provisioner reported failure"
	}
	return message
}
