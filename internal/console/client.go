// Package console is a headless SDK for the admin API's list screens: a
// generic paginated list controller with debounced search, last-request-wins
// fetches and permission gating, talking to the API over HTTP.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/packarma/admin-api/pkg/pagination"
)

// NetworkError is a request that never produced a server response: dial
// failures, timeouts, cancelled contexts.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Message carries the server-supplied
// error message when one was present.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// ValidationError is a rejected create or update, intended for inline
// display next to the offending form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Data       json.RawMessage  `json:"data"`
	Pagination *pagination.Info `json:"pagination"`
	Error      *apiError        `json:"error"`
}

// ClientConfig configures the API client.
type ClientConfig struct {
	BaseURL string
	Token   string

	// Timeout bounds every request; it is surfaced as a NetworkError.
	Timeout time.Duration

	// MaxRetries caps the exponential backoff applied to transient network
	// failures on read requests. Mutations are never retried.
	MaxRetries int

	// OnUnauthorized fires when the server answers 401. The session
	// collaborator decides what to do with it; 401s are not retried.
	OnUnauthorized func()

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client is the HTTP half of the console SDK.
type Client struct {
	base           string
	token          string
	http           *http.Client
	maxRetries     int
	onUnauthorized func()
	logger         *zap.Logger
}

// NewClient constructs a client with the configured timeout and retry policy.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = cfg.Timeout
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:           strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.Token,
		http:           httpClient,
		maxRetries:     cfg.MaxRetries,
		onUnauthorized: cfg.OnUnauthorized,
		logger:         logger,
	}
}

// List fetches one page of a resource collection. The raw data payload is
// returned for the caller to decode into its item type.
func (c *Client) List(ctx context.Context, resource string, q pagination.ListQuery) (json.RawMessage, pagination.Info, error) {
	path := "/" + strings.Trim(resource, "/") + "?" + q.Values().Encode()
	env, err := c.doWithRetry(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, pagination.Info{}, err
	}
	info := pagination.Info{}
	if env.Pagination != nil {
		info = *env.Pagination
	}
	return env.Data, info, nil
}

// Create posts a new record.
func (c *Client) Create(ctx context.Context, resource string, payload interface{}) (json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodPost, "/"+strings.Trim(resource, "/"), payload)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Update replaces a record.
func (c *Client) Update(ctx context.Context, resource, id string, payload interface{}) (json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodPut, "/"+strings.Trim(resource, "/")+"/"+id, payload)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Patch applies a partial update, e.g. a status toggle or a sequence write.
func (c *Client) Patch(ctx context.Context, resource, id, action string, payload interface{}) (json.RawMessage, error) {
	path := "/" + strings.Trim(resource, "/") + "/" + id
	if action != "" {
		path += "/" + action
	}
	env, err := c.do(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/"+strings.Trim(resource, "/")+"/"+id, nil)
	return err
}

// doWithRetry wraps do with capped exponential backoff for transient network
// failures. Only reads go through here.
func (c *Client) doWithRetry(ctx context.Context, method, path string, payload interface{}) (*envelope, error) {
	var env *envelope
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), ctx)
	err := backoff.Retry(func() error {
		var err error
		env, err = c.do(ctx, method, path, payload)
		var netErr *NetworkError
		if err != nil && errors.As(err, &netErr) && ctx.Err() == nil {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, policy)
	if err != nil {
		return nil, err
	}
	return env, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*envelope, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("unencodable payload: %v", err)}
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && resp.StatusCode < 300 {
			return nil, &ServerError{Status: resp.StatusCode, Message: "malformed response body"}
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &env, nil
	}

	message := ""
	code := ""
	if env.Error != nil {
		message = env.Error.Message
		code = env.Error.Code
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, &ServerError{Status: resp.StatusCode, Code: code, Message: message}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		if message == "" {
			message = "request rejected"
		}
		return nil, &ValidationError{Message: message}
	default:
		return nil, &ServerError{Status: resp.StatusCode, Code: code, Message: message}
	}
}
