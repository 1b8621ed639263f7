package syncbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// HeaderIdempotencyKey is the request header carrying the operation key.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	defaultRequestTimeout = 20 * time.Second
	maxStatusBodyLen      = 1024
)

// Request describes a single outgoing delivery attempt.
type Request struct {
	Method         string
	Endpoint       string
	Payload        json.RawMessage
	IdempotencyKey string
}

// Response is the outcome of a completed HTTP exchange.
type Response struct {
	StatusCode int
	Body       []byte
}

// Success reports whether the response status is 2xx.
func (r *Response) Success() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Requester issues delivery requests to the remote service.
type Requester interface {
	// Do performs the request and returns the response, or an error on
	// transport failure. Non-2xx responses are returned, not turned into
	// errors; callers decide via Response.Success.
	Do(ctx context.Context, req Request) (*Response, error)
}

// StatusError describes a non-2xx response from the remote service.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("syncbox: server returned status %d", e.StatusCode)
	}

	return fmt.Sprintf("syncbox: server returned status %d: %s", e.StatusCode, e.Body)
}

// NewStatusError builds a StatusError with a truncated body snippet.
func NewStatusError(statusCode int, body []byte) *StatusError {
	return &StatusError{
		StatusCode: statusCode,
		Body:       truncateBody(body),
	}
}

// TokenProvider supplies a bearer token for outgoing requests.
type TokenProvider func(ctx context.Context) (string, error)

// HTTPTransport delivers operations over HTTP with JSON bodies.
type HTTPTransport struct {
	baseURL       string
	client        *http.Client
	tokenProvider TokenProvider
	userAgent     string
}

// TransportOption configures the HTTP transport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient sets the underlying client. Its timeout is the only
// per-attempt deadline imposed.
func WithHTTPClient(client *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		t.client = client
	}
}

// WithTokenProvider sets a bearer token source for outgoing requests.
func WithTokenProvider(provider TokenProvider) TransportOption {
	return func(t *HTTPTransport) {
		t.tokenProvider = provider
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) TransportOption {
	return func(t *HTTPTransport) {
		t.userAgent = userAgent
	}
}

// NewHTTPTransport constructs a transport rooted at baseURL.
func NewHTTPTransport(baseURL string, opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: defaultRequestTimeout}
	}

	return t
}

// Do implements Requester.
func (t *HTTPTransport) Do(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.Method != http.MethodGet && len(req.Payload) > 0 {
		body = bytes.NewReader(req.Payload)
	}

	endpoint := req.Endpoint
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("syncbox: build request failed: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.IdempotencyKey != "" {
		httpReq.Header.Set(HeaderIdempotencyKey, req.IdempotencyKey)
	}
	if t.userAgent != "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}
	if t.tokenProvider != nil {
		token, err := t.tokenProvider(ctx)
		if err != nil {
			return nil, fmt.Errorf("syncbox: token provider failed: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("syncbox: read response failed: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func truncateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(text) <= maxStatusBodyLen {
		return text
	}

	runes := []rune(text)

	return string(runes[:maxStatusBodyLen])
}
