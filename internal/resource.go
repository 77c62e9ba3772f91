package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dotpay/services"
)

// Typed failures of the gateway HTTP layer. Channel construction treats
// ErrNotFound as "feature unavailable"; everything else propagates.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("service unavailable")
	ErrTimeout      = errors.New("gateway timeout")
)

// ServerError covers any other non-2xx gateway response.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("gateway error: status %d", e.Status)
}

// Resource issues requests to the gateway and maps HTTP statuses to the
// typed failures above. A 400 is not a transport failure: the gateway
// answers 400 with a JSON error payload which callers parse themselves.
type Resource struct {
	httpClient *http.Client
	username   string
	password   string
	logger     services.LogHandler
}

// NewResource creates a gateway client with explicit timeouts and
// connection pooling.
func NewResource() *Resource {
	return &Resource{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SetCredentials attaches Basic-Auth credentials used on seller API calls.
func (r *Resource) SetCredentials(username, password string) {
	r.username = username
	r.password = password
}

func (r *Resource) SetLogger(logger services.LogHandler) {
	r.logger = logger
}

func (r *Resource) do(ctx context.Context, method, url string, payload []byte, auth bool) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewBuffer(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	if auth {
		req.SetBasicAuth(r.username, r.password)
	}

	response, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		}
		return nil, 0, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer func(body io.ReadCloser) {
		if e := body.Close(); e != nil && r.logger != nil {
			r.logger.Error("close response body", e)
		}
	}(response.Body)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, response.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	if err = statusError(response.StatusCode); err != nil {
		return nil, response.StatusCode, err
	}
	return body, response.StatusCode, nil
}

// statusError maps a gateway HTTP status to a typed failure. 2xx and 400
// pass through; 400 carries a JSON error payload the caller reads.
func statusError(status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	switch status {
	case http.StatusBadRequest:
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	case http.StatusGatewayTimeout:
		return ErrTimeout
	default:
		return &ServerError{Status: status}
	}
}

// GetContent performs a GET against the gateway.
func (r *Resource) GetContent(ctx context.Context, url string) ([]byte, error) {
	body, _, err := r.do(ctx, http.MethodGet, url, nil, false)
	return body, err
}

// GetAuthorized performs a Basic-Auth GET against the seller API.
func (r *Resource) GetAuthorized(ctx context.Context, url string) ([]byte, error) {
	body, _, err := r.do(ctx, http.MethodGet, url, nil, true)
	return body, err
}

// PostData performs a Basic-Auth POST and returns the body together with
// the HTTP status, which callers such as the register-order client check
// against the expected 201.
func (r *Resource) PostData(ctx context.Context, url string, payload []byte) ([]byte, int, error) {
	return r.do(ctx, http.MethodPost, url, payload, true)
}

// DeleteData performs a Basic-Auth DELETE.
func (r *Resource) DeleteData(ctx context.Context, url string) ([]byte, error) {
	body, _, err := r.do(ctx, http.MethodDelete, url, nil, true)
	return body, err
}
