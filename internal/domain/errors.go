package domain

import (
	"errors"
	"fmt"

	"github.com/kevin07696/giftcard-service/internal/domain/models"
)

// ErrMissingSuccess marks a response that parsed but carried no Success
// element. The transport wraps it into the protocol error so callers can
// tell this shape apart from other protocol failures with errors.Is.
var ErrMissingSuccess = errors.New("response has no Success element")

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Configuration Errors (CONFIG_*)
	ErrorCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Transport Errors (GATEWAY_TIMEOUT / UNREACHABLE / RESPONSE_INVALID):
	// the exchange failed before a usable response document existed. Never
	// retried automatically; a timeout gives no information about whether
	// the gateway already applied the effect.
	ErrorCodeGatewayTimeout         ErrorCode = "GATEWAY_TIMEOUT"
	ErrorCodeGatewayUnreachable     ErrorCode = "GATEWAY_UNREACHABLE"
	ErrorCodeGatewayResponseInvalid ErrorCode = "GATEWAY_RESPONSE_INVALID"

	// Protocol Errors: the gateway replied and the document parsed, but the
	// semantic result is a failure. These carry the parsed response when one
	// exists.
	ErrorCodeGatewayProtocol      ErrorCode = "GATEWAY_PROTOCOL"
	ErrorCodeGatewayDeclined      ErrorCode = "GATEWAY_DECLINED"
	ErrorCodeAccountNotActive     ErrorCode = "ACCOUNT_NOT_ACTIVE"
	ErrorCodeAccountAlreadyActive ErrorCode = "ACCOUNT_ALREADY_ACTIVE"
	ErrorCodeInsufficientFunds    ErrorCode = "INSUFFICIENT_FUNDS"
	ErrorCodeAllocationExhausted  ErrorCode = "ALLOCATION_EXHAUSTED"

	// Validation Errors (VALIDATION_*): bad caller input, reported before the
	// gateway is ever contacted
	ErrorCodeValidationAmountInvalid ErrorCode = "VALIDATION_AMOUNT_INVALID"
	ErrorCodeValidationCardInvalid   ErrorCode = "VALIDATION_CARD_INVALID"
)

// GatewayError represents a structured gift card gateway error. Response is
// the parsed document attached when the gateway replied but the semantic
// result was a failure (for example a declined charge); it is nil for
// transport-level failures where no document exists.
type GatewayError struct {
	Err      error
	Response *models.ResponseDocument
	Code     ErrorCode
	Message  string
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// WithResponse attaches the parsed response document to the error
func (e *GatewayError) WithResponse(doc *models.ResponseDocument) *GatewayError {
	e.Response = doc
	return e
}

// NewGatewayError creates a new gateway error
func NewGatewayError(code ErrorCode, message string) *GatewayError {
	return &GatewayError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with a gateway error code. If the wrapped
// error is itself a GatewayError with an attached response, the response is
// carried over so diagnostics survive wrapping.
func WrapError(code ErrorCode, message string, err error) *GatewayError {
	return &GatewayError{
		Code:     code,
		Message:  message,
		Err:      err,
		Response: GetResponse(err),
	}
}

// IsGatewayError checks if an error is a GatewayError with the given code
func IsGatewayError(err error, code ErrorCode) bool {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if not a GatewayError
func GetErrorCode(err error) ErrorCode {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Code
	}
	return ""
}

// GetErrorCodeOr extracts the error code from an error, falling back to the
// given code when the error carries none. Used when wrapping so the original
// classification survives.
func GetErrorCodeOr(err error, fallback ErrorCode) ErrorCode {
	if code := GetErrorCode(err); code != "" {
		return code
	}
	return fallback
}

// GetResponse extracts the attached response document from an error chain,
// or nil if none is attached
func GetResponse(err error) *models.ResponseDocument {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Response
	}
	return nil
}

// IsConfigError checks if an error is a client configuration error
func IsConfigError(err error) bool {
	return GetErrorCode(err) == ErrorCodeConfigInvalid
}

// IsTransportError checks if an error occurred before a usable response
// document existed (connection refused, timeout, unparseable bytes)
func IsTransportError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeGatewayTimeout ||
		code == ErrorCodeGatewayUnreachable ||
		code == ErrorCodeGatewayResponseInvalid
}

// IsProtocolError checks if an error signals an application-level failure in
// a response that was received and parsed
func IsProtocolError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeGatewayProtocol ||
		code == ErrorCodeGatewayDeclined ||
		code == ErrorCodeAccountNotActive ||
		code == ErrorCodeAccountAlreadyActive ||
		code == ErrorCodeInsufficientFunds ||
		code == ErrorCodeAllocationExhausted
}

// IsValidationError checks if an error is an input validation error
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeValidationAmountInvalid ||
		code == ErrorCodeValidationCardInvalid
}
