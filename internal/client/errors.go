package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrAuthentication is returned when the backend rejects a login or
	// registration attempt, or when the attempt fails in transport.
	ErrAuthentication = errors.New("authentication failed")

	// ErrSessionExpired is returned when a protected call receives a 401.
	// The pipeline has already cleared the session by the time callers
	// see this error.
	ErrSessionExpired = errors.New("session expired")

	// ErrRequest is returned on transport failures and malformed
	// response payloads.
	ErrRequest = errors.New("request error")
)

// HTTPError is any non-2xx response other than a 401 on a protected call.
// Detail carries the backend's error text when the response body had the
// {"detail": "..."} envelope.
type HTTPError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Detail)
	}

	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

func newHTTPError(resp *http.Response) *HTTPError {
	herr := &HTTPError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return herr
	}

	envelope := struct {
		Detail string `json:"detail"`
	}{}

	if err := json.Unmarshal(body, &envelope); err == nil {
		herr.Detail = envelope.Detail
	}

	return herr
}
