package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// ErrNotConfigured is returned when the panel base URL or API key is missing.
var ErrNotConfigured = errors.New("panel API is not configured")

// APIError is a classified failure from the panel, carrying the panel's own
// detail message when the response body had one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("panel API error: %s", e.Detail)
	}
	return fmt.Sprintf("panel API returned status %d", e.StatusCode)
}

// Client wraps the Pterodactyl REST API. Application-scoped credentials cover
// user and server CRUD; client-scoped credentials cover live resource usage.
// One HTTP call per operation, fixed timeout, no retries.
type Client struct {
	baseURL        string
	applicationKey string
	clientKey      string
	httpClient     *http.Client
}

// NewClient creates a panel client. baseURL is the panel root without the
// /api suffix.
func NewClient(baseURL, applicationKey, clientKey string) *Client {
	return &Client{
		baseURL:        baseURL,
		applicationKey: applicationKey,
		clientKey:      clientKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// JSON envelope shapes shared by all application API responses.

type objectEnvelope struct {
	Object     string          `json:"object"`
	Attributes json.RawMessage `json:"attributes"`
}

type listEnvelope struct {
	Object string           `json:"object"`
	Data   []objectEnvelope `json:"data"`
}

type errorEnvelope struct {
	Errors []struct {
		Code   string `json:"code"`
		Status string `json:"status"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// doApplication issues one request against the application-scoped API and
// returns the raw body plus status code. Non-2xx responses come back as
// *APIError with the panel's detail message when present.
func (c *Client) doApplication(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	return c.do(ctx, method, "/api/application"+path, c.applicationKey, payload)
}

// doClient issues one request against the client-scoped API.
func (c *Client) doClient(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	if c.clientKey == "" {
		return nil, 0, ErrNotConfigured
	}
	return c.do(ctx, method, "/api/client"+path, c.clientKey, payload)
}

func (c *Client) do(ctx context.Context, method, path, key string, payload any) ([]byte, int, error) {
	if c.baseURL == "" || c.applicationKey == "" {
		return nil, 0, ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return respBody, resp.StatusCode, &APIError{
			StatusCode: resp.StatusCode,
			Detail:     extractDetail(respBody),
		}
	}

	return respBody, resp.StatusCode, nil
}

func extractDetail(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if len(envelope.Errors) == 0 {
		return ""
	}
	return envelope.Errors[0].Detail
}

func decodeObject(body []byte, wantObject string, v any) error {
	var envelope objectEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w (body: %s)", err, string(body))
	}
	if envelope.Object != wantObject {
		return fmt.Errorf("unexpected response object %q, want %q", envelope.Object, wantObject)
	}
	if err := json.Unmarshal(envelope.Attributes, v); err != nil {
		return fmt.Errorf("decode %s attributes: %w", wantObject, err)
	}
	return nil
}

func decodeAttributes(attributes json.RawMessage, v any) error {
	if err := json.Unmarshal(attributes, v); err != nil {
		return fmt.Errorf("decode attributes: %w", err)
	}
	return nil
}

func decodeList(body []byte, v func(attributes json.RawMessage) error) error {
	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w (body: %s)", err, string(body))
	}
	for _, item := range envelope.Data {
		if err := v(item.Attributes); err != nil {
			return err
		}
	}
	return nil
}

func logPanelError(op string, err error) {
	log.Printf("[panel] %s failed: %v", op, err)
}

// IsNotFound reports whether err is a panel 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func encodeFilter(key, value string) string {
	return url.Values{key: {value}}.Encode()
}
