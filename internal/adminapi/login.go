package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// LoginPath exchanges an access/secret key pair for a console session.
const LoginPath = "/api/v1/login"

// ErrNoSession is returned when a login succeeds but carries no session.
var ErrNoSession = errors.New("login response did not contain a session")

type loginRequest struct {
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
}

// loginResponse is the body older console releases return instead of a cookie.
type loginResponse struct {
	SessionID string `json:"sessionId"`
}

// Login returns the session token for the given credentials. Newer consoles
// answer 204 with a "token" cookie; older ones return {"sessionId": "..."}.
func (h *HTTPInvoker) Login(ctx context.Context, accessKey, secretKey string) (string, error) {
	payload, err := json.Marshal(loginRequest{AccessKey: accessKey, SecretKey: secretKey})
	if err != nil {
		return "", fmt.Errorf("encoding login request: %w", err)
	}

	req, err := h.newRequest(ctx, http.MethodPost, LoginPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{
			Code:    resp.StatusCode,
			Status:  http.StatusText(resp.StatusCode),
			Message: parseErrorMessage(body),
		}
	}

	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie && strings.TrimSpace(c.Value) != "" {
			return c.Value, nil
		}
	}

	if len(bytes.TrimSpace(body)) > 0 {
		var lr loginResponse
		if err := json.Unmarshal(body, &lr); err == nil && strings.TrimSpace(lr.SessionID) != "" {
			return lr.SessionID, nil
		}
	}
	return "", ErrNoSession
}
