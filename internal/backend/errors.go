package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned by the backend or synthesized by the client.
const (
	CodeNetwork             = "NETWORK_ERROR"
	CodeAPI                 = "API_ERROR"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeDrawClosed          = "DRAW_CLOSED"
	CodeInvalidNumbers      = "INVALID_NUMBERS"
	CodeWithdrawalMinimum   = "WITHDRAWAL_MINIMUM_NOT_MET"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
)

// APIError is a failed backend call. Status is 0 when no response arrived.
type APIError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
	Status  int             `json:"-"`
	Err     error           `json:"-"`
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend %s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Retryable reports whether repeating an idempotent call may succeed.
func (e *APIError) Retryable() bool {
	return e.Code == CodeNetwork || e.Status >= http.StatusInternalServerError
}

// CodeOf returns the backend code carried by err, or "".
func CodeOf(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func IsNetworkError(err error) bool {
	return CodeOf(err) == CodeNetwork
}

// parseError decodes the backend error envelope. The structured form is
// {"detail":{"error":{"code","message","details"}}}; a plain string detail
// or a top-level message maps to API_ERROR; an unreadable body to
// NETWORK_ERROR.
func parseError(status int, body []byte) *APIError {
	var env struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return &APIError{Code: CodeNetwork, Message: fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)), Status: status}
	}
	if len(env.Detail) > 0 && string(env.Detail) != "null" {
		var nested struct {
			Error *APIError `json:"error"`
		}
		if json.Unmarshal(env.Detail, &nested) == nil && nested.Error != nil && nested.Error.Code != "" {
			nested.Error.Status = status
			return nested.Error
		}
		var msg string
		if json.Unmarshal(env.Detail, &msg) == nil {
			return &APIError{Code: CodeAPI, Message: msg, Status: status}
		}
		return &APIError{Code: CodeAPI, Message: http.StatusText(status), Details: env.Detail, Status: status}
	}
	if env.Message != "" {
		return &APIError{Code: CodeAPI, Message: env.Message, Status: status}
	}
	return &APIError{Code: CodeAPI, Message: http.StatusText(status), Status: status}
}
