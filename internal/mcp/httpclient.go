package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/phenix/internal/models"
	"github.com/claude/phenix/internal/priority"
	"github.com/claude/phenix/internal/session"
)

// Generation waits on the language model and can take well over the
// default request timeout.
const (
	defaultTimeout    = 30 * time.Second
	generationTimeout = 3 * time.Minute
)

// APIError is a non-200 response from the planner API.
type APIError struct {
	StatusCode int
	Message    string
	Kind       string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("httpclient: status %d (%s): %s", e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("httpclient: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status back to the sentinel the local controller returns,
// so callers can use errors.Is in both modes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusConflict:
		return session.ErrBusy
	case http.StatusBadRequest:
		return models.ErrInvalidParams
	}
	return nil
}

// HTTPClient implements Backend by calling the Phenix REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// generation happens on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies Backend.
var _ Backend = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey is
// sent as X-API-Key on generation requests and may be empty.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: generationTimeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		apiErr.Kind = payload.Kind
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func (c *HTTPClient) Options(ctx context.Context) (models.FormOptions, error) {
	var opts models.FormOptions
	err := c.get(ctx, "/api/v1/options", nil, &opts)
	return opts, err
}

func (c *HTTPClient) Priorities(ctx context.Context, category string, mode models.FocusMode, dominance string) (models.PriorityAdvice, error) {
	params := url.Values{}
	params.Set("category", category)
	if mode != "" {
		params.Set("focusMode", string(mode))
	}
	if dominance != "" {
		params.Set("dominance", dominance)
	}

	var advice models.PriorityAdvice
	err := c.get(ctx, "/api/v1/priorities", params, &advice)
	return advice, err
}

func (c *HTTPClient) Qualities(ctx context.Context) ([]priority.QualityDefinition, error) {
	var defs []priority.QualityDefinition
	err := c.get(ctx, "/api/v1/qualities", nil, &defs)
	return defs, err
}

func (c *HTTPClient) GenerateSession(ctx context.Context, p models.SessionParams) (*models.GeneratedSession, error) {
	var generated models.GeneratedSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/sessions", nil, p, &generated); err != nil {
		return nil, err
	}
	return &generated, nil
}

func (c *HTTPClient) CurrentSession(ctx context.Context) (session.Snapshot, error) {
	var snap session.Snapshot
	err := c.get(ctx, "/api/v1/sessions/current", nil, &snap)
	return snap, err
}

