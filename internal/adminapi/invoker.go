// Package adminapi talks to the MinIO Console management API.
//
// The console authenticates requests with a session cookie named "token":
//
//	GET /api/v1/admin/info
//	Cookie: token=<session>
//	Response: {"buckets": 3, "usage": 5242880, "objects": 42}
//
// Every field of the response is optional.
package adminapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SessionCookie is the cookie the console issues on login.
const SessionCookie = "token"

// Invoker performs one request against the management API and returns the
// raw response body. Non-2xx responses are reported as *StatusError.
type Invoker interface {
	Invoke(ctx context.Context, method, path string) ([]byte, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, method, path string) ([]byte, error)

func (f InvokerFunc) Invoke(ctx context.Context, method, path string) ([]byte, error) {
	return f(ctx, method, path)
}

// StatusError is returned for non-success responses.
type StatusError struct {
	Code    int
	Status  string
	Message string // server supplied, may be empty
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = http.StatusText(e.Code)
	}
	return strings.TrimSpace(fmt.Sprintf("HTTP %d %s", e.Code, status))
}

// errorResponse is the console's error envelope.
type errorResponse struct {
	Code            int    `json:"code"`
	Message         string `json:"message"`
	DetailedMessage string `json:"detailedMessage"`
}

func parseErrorMessage(body []byte) string {
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.DetailedMessage); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Message)
}

type Options struct {
	BaseURL            string
	Token              string
	Timeout            time.Duration // zero means no client-side timeout
	InsecureSkipVerify bool
	UserAgent          string
	HTTPClient         *http.Client
}

// HTTPInvoker is the Invoker backed by net/http.
type HTTPInvoker struct {
	baseURL   string
	token     string
	userAgent string
	client    *http.Client
}

func NewHTTPInvoker(opts Options) *HTTPInvoker {
	return &HTTPInvoker{
		baseURL:   strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		token:     strings.TrimSpace(opts.Token),
		userAgent: opts.UserAgent,
		client:    httpClient(opts),
	}
}

func httpClient(opts Options) *http.Client {
	if opts.HTTPClient != nil {
		return opts.HTTPClient
	}
	client := &http.Client{Timeout: opts.Timeout}
	if opts.InsecureSkipVerify {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		client.Transport = transport
	}
	return client
}

func (h *HTTPInvoker) Invoke(ctx context.Context, method, path string) ([]byte, error) {
	req, err := h.newRequest(ctx, method, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Code:    resp.StatusCode,
			Status:  http.StatusText(resp.StatusCode),
			Message: parseErrorMessage(body),
		}
	}
	return body, nil
}

func (h *HTTPInvoker) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if h.baseURL == "" {
		return nil, fmt.Errorf("no console endpoint configured")
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	if h.token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: h.token})
	}
	return req, nil
}
