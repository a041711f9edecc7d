package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNotLoggedIn is returned by authenticated calls made without a token.
	ErrNotLoggedIn = errors.New("not logged in: run 'billetera login' first")

	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidAmount      = errors.New("amount must be greater than 0")
	ErrEmptyCI            = errors.New("recipient CI is required")
	ErrEmptyCode          = errors.New("card code is required")
	ErrPasswordTooShort   = errors.New("new password must be at least 6 characters")
	ErrMissingPassword    = errors.New("current and new password are required")
)

// MinPasswordLength mirrors the backend's password policy.
const MinPasswordLength = 6

// Error is a non-2xx response from the backend. Message carries the
// backend's {"error": "..."} text when present.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the backend, meaning the
// stored session is no longer valid.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var payload struct {
		Error string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	} else if s := strings.TrimSpace(string(body)); s != "" && len(s) < 200 {
		msg = s
	} else {
		msg = http.StatusText(resp.StatusCode)
	}

	return &Error{StatusCode: resp.StatusCode, Message: msg}
}
