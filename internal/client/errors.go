package client

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening at the address
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates an unexpected HTTP status
	ErrTypeHTTP
	// ErrTypeValidation indicates the server rejected the request body (400)
	ErrTypeValidation
	// ErrTypeForbidden indicates announcement editing is disabled (403)
	ErrTypeForbidden
	// ErrTypeNotFound indicates the resource does not exist (404)
	ErrTypeNotFound
	// ErrTypeTooLarge indicates the request body was refused for size (413)
	ErrTypeTooLarge
	// ErrTypeRateLimited indicates the client exceeded its request budget (429)
	ErrTypeRateLimited
	// ErrTypeParse indicates a malformed response
	ErrTypeParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeForbidden:
		return "Forbidden"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeTooLarge:
		return "Too Large"
	case ErrTypeRateLimited:
		return "Rate Limited"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError represents an error talking to a papan server
type APIError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Missing    []string  // Keys absent from a rejected settings record
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether the request may be retried
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyNetworkError analyzes a transport error
func classifyNetworkError(message string, err error) *APIError {
	if os.IsTimeout(err) {
		return &APIError{Type: ErrTypeTimeout, Message: message, Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{Type: ErrTypeDNS, Message: message, Err: err}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &APIError{Type: ErrTypeConnectionRefused, Message: message, Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &APIError{Type: ErrTypeTimeout, Message: message, Err: err, Retryable: true}
	}

	return &APIError{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: true}
}

// errorBody is the JSON error shape every papan endpoint uses
type errorBody struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing"`
}

// newHTTPError maps a non-success status to an APIError
func newHTTPError(status int, body errorBody) *APIError {
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(status)
	}

	e := &APIError{Message: msg, StatusCode: status, Missing: body.Missing}
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnsupportedMediaType:
		e.Type = ErrTypeValidation
	case status == http.StatusForbidden:
		e.Type = ErrTypeForbidden
	case status == http.StatusNotFound:
		e.Type = ErrTypeNotFound
	case status == http.StatusRequestEntityTooLarge:
		e.Type = ErrTypeTooLarge
	case status == http.StatusTooManyRequests:
		e.Type = ErrTypeRateLimited
		e.Retryable = true
	default:
		e.Type = ErrTypeHTTP
		e.Retryable = status >= 500
	}
	return e
}

func isType(err error, types ...ErrorType) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, t := range types {
		if apiErr.Type == t {
			return true
		}
	}
	return false
}

// IsNetworkError checks if an error is a transport error of any kind
func IsNetworkError(err error) bool {
	return isType(err, ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS)
}

// IsValidationError checks if the server rejected the request body
func IsValidationError(err error) bool { return isType(err, ErrTypeValidation) }

// IsForbidden checks if announcement editing is disabled on the server
func IsForbidden(err error) bool { return isType(err, ErrTypeForbidden) }

// IsNotFound checks if the resource does not exist
func IsNotFound(err error) bool { return isType(err, ErrTypeNotFound) }

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}

// GetTroubleshootingHint returns user-friendly advice for an error
func GetTroubleshootingHint(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch apiErr.Type {
	case ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeNetwork:
		return strings.Join([]string{
			"The papan server could not be reached.",
			"Troubleshooting:",
			"  • Check that papan-server is running",
			"  • Verify the --server address and port",
			"  • Run 'papan-cfg scan' to find boards on this network",
		}, "\n")
	case ErrTypeDNS:
		return "Could not resolve the server hostname. Use the IP address instead."
	case ErrTypeForbidden:
		return "Announcement editing is disabled. Enable it under the Announcements tab of the settings panel."
	case ErrTypeValidation:
		if len(apiErr.Missing) > 0 {
			return "The settings record is incomplete. Missing: " + strings.Join(apiErr.Missing, ", ")
		}
		return "The server rejected the values. Check the error message for details."
	case ErrTypeTooLarge:
		return "The upload is too large. Images must be at most 4 MiB."
	case ErrTypeRateLimited:
		return "Too many requests. Wait a moment and try again."
	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Server refused connection - is papan-server running?"
	case ErrTypeDNS:
		return "Cannot resolve server hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Server error (HTTP %d)", apiErr.StatusCode)
	default:
		return apiErr.Message
	}
}
