package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"starbook/internal/app/client/config"
	"starbook/internal/domain/action"
)

// APIClient talks to the booking backend. Application traffic goes
// through the proxy transport; the health probe does not.
type APIClient struct {
	client    *http.Client
	probe     *http.Client
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

// newAPIClient builds the API client. Every application call goes
// through the proxy transport, so reads degrade to cache or
// placeholders and write failures surface for enqueueing. The probe
// client stays on the plain transport: a synthesized offline fallback
// must never convince the connectivity monitor the server is up.
func newAPIClient(cfg *config.Config, transport http.RoundTripper, log *slog.Logger) *APIClient {
	client := &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
	probe := &http.Client{
		Timeout: 10 * time.Second,
	}

	return &APIClient{
		client:    client,
		probe:     probe,
		log:       log,
		baseURL:   cfg.BaseURL(),
		userAgent: "StarBook-Client/1.0",
	}
}

// SetToken sets the bearer token used for authenticated calls.
func (h *APIClient) SetToken(token string) {
	h.token = token
}

// HealthCheck probes server reachability for the connectivity monitor.
// It bypasses the proxy: only a real 200 from the server counts.
func (h *APIClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.probe.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status: %d", resp.StatusCode)
	}

	return nil
}

// SubmitAction replays one queued action: the identical request shape
// the original caller would have issued. Any 2xx response is success.
func (h *APIClient) SubmitAction(ctx context.Context, a *action.Action) error {
	endpoint := a.Kind.Endpoint()
	if endpoint == "" {
		return fmt.Errorf("%w: %s", action.ErrUnknownKind, a.Kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+endpoint, bytes.NewReader(a.Payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("replaying action",
		"action_id", a.ID,
		"kind", a.Kind,
		"endpoint", endpoint,
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("server error: %s", errResp.Error)
		}
		return fmt.Errorf("server returned status: %d", resp.StatusCode)
	}

	return nil
}

// Login authenticates against the backend. The proxy passes auth
// endpoints through untouched.
func (h *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{
		Email:    email,
		Password: password,
	}

	resp, err := h.doRequest(ctx, http.MethodPost, "/api/auth/login", req)
	if err != nil {
		return "", err
	}

	var loginResp struct {
		Token string `json:"token"`
	}

	if err := h.parseResponse(resp, &loginResp); err != nil {
		return "", err
	}

	h.SetToken(loginResp.Token)
	return loginResp.Token, nil
}

// GetCelebrities fetches the public celebrity roster. Offline this
// resolves from cache or the empty-list placeholder.
func (h *APIClient) GetCelebrities(ctx context.Context) (json.RawMessage, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/celebrities", nil)
	if err != nil {
		return nil, err
	}

	var listResp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Offline bool            `json:"offline"`
	}

	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	return listResp.Data, nil
}

func (h *APIClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("sending request",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

func (h *APIClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("server error: %s", errResp.Error)
		}
		return fmt.Errorf("server error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
