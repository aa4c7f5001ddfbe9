package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPDoer is the subset of *http.Client the SDK needs.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// BaseClient sends requests to the hosted backend with the project key attached.
type BaseClient struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewBaseClient builds a client for baseURL authenticated by the public apiKey.
func NewBaseClient(baseURL, apiKey string, client HTTPDoer) *BaseClient {
	if client == nil {
		client = NewDefaultHTTPClient(0)
	}
	return &BaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

func (c *BaseClient) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

type request struct {
	method  string
	path    string
	token   string
	body    any
	headers map[string]string
}

// do executes req and decodes a 2xx JSON body into out (when non-nil).
// Non-2xx responses become *APIError.
func (c *BaseClient) do(ctx context.Context, req request, out any) error {
	var reader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	token := req.token
	if token == "" {
		token = c.apiKey
	}
	httpReq.Header.Set("apikey", c.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return &TransportError{Op: req.method + " " + req.path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: req.method + " " + req.path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: req.method + " " + req.path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// NewDefaultHTTPClient returns a traced *http.Client; timeout <= 0 means 10s.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
