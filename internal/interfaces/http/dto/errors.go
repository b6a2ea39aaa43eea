package dto

import "net/http"

// API error codes. Every code returned to clients carries the ERR_ prefix;
// domain errors raised with a bare code are translated by NormalizeErrorCode.
const (
	ErrCodeUnknown         = "ERR_UNKNOWN"
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeTimeout         = "ERR_TIMEOUT"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	// Request shape
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	// Stored records
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"

	// ErrCodeInvalidState rejects an order status transition the lifecycle forbids
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

var httpStatusByCode = map[string]int{
	ErrCodeUnknown:         http.StatusInternalServerError,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the status for an API error code, 500 when unknown.
func GetHTTPStatus(code string) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodes translates the bare codes raised by the report and commerce
// domains. Malformed periods, dates, ranges and amounts all surface as
// ERR_INVALID_INPUT so clients can treat them uniformly.
var domainCodes = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_STATE":    ErrCodeInvalidState,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,

	"INVALID_INPUT":      ErrCodeInvalidInput,
	"INVALID_PERIOD":     ErrCodeInvalidInput,
	"INVALID_DATE":       ErrCodeInvalidInput,
	"INVALID_DATE_RANGE": ErrCodeInvalidInput,
	"INVALID_STATUS":     ErrCodeInvalidInput,
	"INVALID_ORDER":      ErrCodeInvalidInput,
	"INVALID_QUANTITY":   ErrCodeInvalidInput,
	"INVALID_PRICE":      ErrCodeInvalidInput,
	"INVALID_AMOUNT":     ErrCodeInvalidInput,
	"INVALID_PRODUCT":    ErrCodeInvalidInput,
}

// NormalizeErrorCode maps a domain code onto its API code. Codes that are
// already API codes, or that nothing maps, pass through untouched.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodes[code]; ok {
		return mapped
	}
	return code
}
