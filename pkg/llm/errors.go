package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrorType classifies LLM failures.
type ErrorType string

const (
	ErrorTypeAuth          ErrorType = "auth"
	ErrorTypeRateLimit     ErrorType = "rate_limit"
	ErrorTypeTimeout       ErrorType = "timeout"
	ErrorTypeConnection    ErrorType = "connection"
	ErrorTypeBadRequest    ErrorType = "bad_request"
	ErrorTypeEmptyResponse ErrorType = "empty_response"
	ErrorTypeUnknown       ErrorType = "unknown"
)

// Error represents a structured LLM error with classification.
type Error struct {
	Type       ErrorType // Classification of the error
	Message    string    // Human-readable message
	Retryable  bool      // Whether the operation can be retried
	Cause      error     // Underlying error
	StatusCode int       // HTTP status code if applicable
	Model      string    // Model name if known
	Endpoint   string    // Endpoint URL if known
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new structured LLM error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// NewErrorWithContext creates a new structured LLM error with additional context.
func NewErrorWithContext(errType ErrorType, message string, retryable bool, cause error, model, endpoint string, statusCode int) *Error {
	return &Error{
		Type:       errType,
		Message:    message,
		Retryable:  retryable,
		Cause:      cause,
		Model:      model,
		Endpoint:   endpoint,
		StatusCode: statusCode,
	}
}

// classifyStatusCode maps an HTTP status code to an error classification.
func classifyStatusCode(code int) (ErrorType, bool) {
	switch {
	case code == 401 || code == 403:
		return ErrorTypeAuth, false
	case code == 429:
		return ErrorTypeRateLimit, true
	case code == 408 || code == 504:
		return ErrorTypeTimeout, true
	case code >= 500:
		return ErrorTypeConnection, true
	case code >= 400:
		return ErrorTypeBadRequest, false
	default:
		return ErrorTypeUnknown, false
	}
}

// parseError converts a go-openai error into a structured Error carrying the
// client's model and endpoint context.
func (c *Client) parseError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewErrorWithContext(ErrorTypeTimeout, "request timed out", true, err, c.model, c.endpoint, 0)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		errType, retryable := classifyStatusCode(apiErr.HTTPStatusCode)
		return NewErrorWithContext(errType, apiErr.Message, retryable, err, c.model, c.endpoint, apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		errType, retryable := classifyStatusCode(reqErr.HTTPStatusCode)
		return NewErrorWithContext(errType, "request failed", retryable, err, c.model, c.endpoint, reqErr.HTTPStatusCode)
	}

	return NewErrorWithContext(ErrorTypeConnection, "request failed", true, err, c.model, c.endpoint, 0)
}
