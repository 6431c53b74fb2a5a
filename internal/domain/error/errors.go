package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidPhoneFormat   = 4001
	CodeInvalidAmount        = 4002
	CodeInvalidRequest       = 4003
	CodeDuplicateTransaction = 4004
	CodeSignatureInvalid     = 4010
	CodeUntrustedSource      = 4030
	CodeUnknownTransaction   = 4040
	CodeTransactionNotFound  = 4041
	CodeMalformedPayload     = 4220
	CodeRateLimitExceeded    = 4290

	// 5xxx - Server errors
	CodeInternalServer          = 5000
	CodeDatabaseConnection      = 5001
	CodeCredentialRefreshFailed = 5010
	CodeGatewayRejected         = 5020
	CodeGatewayUnreachable      = 5030
)

// Base error types
var (
	// ErrInvalidPhoneFormat is returned when a phone number is not one of the
	// accepted Kenyan representations
	ErrInvalidPhoneFormat = errors.New("phone number format is not valid")

	// ErrInvalidAmount is returned when the payment amount format or range is invalid
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNegativeAmount is returned when the payment amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrDuplicateTransaction is returned when a transaction with the same
	// checkout request ID already exists
	ErrDuplicateTransaction = errors.New("transaction with this checkout request ID already exists")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUnknownTransaction is returned when a callback references a checkout
	// request ID this process never issued
	ErrUnknownTransaction = errors.New("callback references an unknown transaction")

	// ErrCredentialRefreshFailed is returned when the provider access token
	// could not be obtained or refreshed
	ErrCredentialRefreshFailed = errors.New("provider credential refresh failed")

	// ErrGatewayRejected is returned when the provider answered but refused the
	// request; retrying without changes will not help
	ErrGatewayRejected = errors.New("payment gateway rejected the request")

	// ErrGatewayUnreachable is returned on network errors or timeouts talking
	// to the provider; safe to retry
	ErrGatewayUnreachable = errors.New("payment gateway unreachable")

	// ErrRateLimitExceeded is returned when a callback source exceeds the
	// per-IP request budget
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrUntrustedSource is returned when a callback arrives from an IP outside
	// the allowlisted provider ranges
	ErrUntrustedSource = errors.New("callback source IP is not trusted")

	// ErrMalformedPayload is returned when a callback body does not parse into
	// the expected structure
	ErrMalformedPayload = errors.New("callback payload is malformed")

	// ErrSignatureInvalid is returned when signature validation is enabled and
	// the callback signature is missing or does not match
	ErrSignatureInvalid = errors.New("callback signature is missing or invalid")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidPhoneFormat):
		return CodeInvalidPhoneFormat
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrSignatureInvalid):
		return CodeSignatureInvalid
	case errors.Is(err, ErrUntrustedSource):
		return CodeUntrustedSource
	case errors.Is(err, ErrUnknownTransaction):
		return CodeUnknownTransaction
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrMalformedPayload):
		return CodeMalformedPayload
	case errors.Is(err, ErrRateLimitExceeded):
		return CodeRateLimitExceeded
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	case errors.Is(err, ErrCredentialRefreshFailed):
		return CodeCredentialRefreshFailed
	case errors.Is(err, ErrGatewayRejected):
		return CodeGatewayRejected
	case errors.Is(err, ErrGatewayUnreachable):
		return CodeGatewayUnreachable
	default:
		return CodeInternalServer
	}
}

// IsRetryable reports whether the error is transient from the caller's point
// of view. Only gateway unreachability qualifies; a provider rejection means
// the request itself was bad.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrGatewayUnreachable)
}

// GatewayError carries the provider's response detail alongside the sentinel
// classification. The raw description is kept for logs and reconciliation but
// must never be surfaced verbatim to initiating clients.
type GatewayError struct {
	Operation    string
	ResponseCode string
	Description  string
	Err          error
}

// Error implements the error interface for GatewayError
func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed (code: %s): %s - %v",
		e.Operation, e.ResponseCode, e.Description, e.Err)
}

// Unwrap returns the underlying error
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *GatewayError) LogFields() map[string]any {
	return map[string]any{
		"error_type":    "gateway_error",
		"operation":     e.Operation,
		"response_code": e.ResponseCode,
		"description":   e.Description,
		"error_code":    ErrorCode(e.Err),
	}
}

// NewGatewayError creates a detailed gateway error wrapping the given sentinel
func NewGatewayError(operation, responseCode, description string, err error) error {
	return &GatewayError{
		Operation:    operation,
		ResponseCode: responseCode,
		Description:  description,
		Err:          err,
	}
}

// CallbackRejectionError records why the security pipeline refused a callback
type CallbackRejectionError struct {
	Layer    string
	SourceIP string
	Err      error
}

// Error implements the error interface
func (e *CallbackRejectionError) Error() string {
	return fmt.Sprintf("callback rejected at %s layer (ip: %s): %v", e.Layer, e.SourceIP, e.Err)
}

// Unwrap returns the underlying error
func (e *CallbackRejectionError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *CallbackRejectionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "callback_rejection",
		"layer":      e.Layer,
		"source_ip":  e.SourceIP,
		"error_code": ErrorCode(e.Err),
	}
}

// IsDuplicateTransactionError checks if the error is a duplicate transaction error
func IsDuplicateTransactionError(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTransactionNotFound) || errors.Is(err, ErrUnknownTransaction)
}
