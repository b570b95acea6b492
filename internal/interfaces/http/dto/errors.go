package dto

import (
	"net/http"
	"strings"
)

// API error codes. Domain codes are translated to these by FromDomainCode;
// codes without a translation are passed through unchanged.
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

type apiError struct {
	code   string
	status int
}

// domainCodes maps shared.DomainError codes to API codes and statuses
var domainCodes = map[string]apiError{
	"NOT_FOUND":            {ErrCodeNotFound, http.StatusNotFound},
	"ALREADY_EXISTS":       {ErrCodeAlreadyExists, http.StatusConflict},
	"CONCURRENCY_CONFLICT": {ErrCodeConcurrencyConflict, http.StatusConflict},
	"INVALID_INPUT":        {ErrCodeInvalidInput, http.StatusBadRequest},
	"UNAUTHORIZED":         {ErrCodeUnauthorized, http.StatusUnauthorized},
	"FORBIDDEN":            {ErrCodeForbidden, http.StatusForbidden},
	"INVALID_STATE":        {ErrCodeInvalidState, http.StatusUnprocessableEntity},
	"BUSINESS_RULE":        {ErrCodeBusinessRule, http.StatusUnprocessableEntity},
	"INSUFFICIENT_STOCK":   {ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
}

// statusByCode covers API codes produced outside the domain mapping
var statusByCode = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
}

// FromDomainCode returns the API code and HTTP status of a domain error
// code. Field level codes (INVALID_EMAIL, INVALID_PERIOD, ...) are input
// errors; any other unknown code is a business rule violation.
func FromDomainCode(code string) (string, int) {
	if e, ok := domainCodes[code]; ok {
		return e.code, e.status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return code, http.StatusBadRequest
	}
	return code, http.StatusUnprocessableEntity
}

// GetHTTPStatus returns the HTTP status of an API error code, 500 when the
// code is unknown
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	for _, e := range domainCodes {
		if e.code == code {
			return e.status
		}
	}
	return http.StatusInternalServerError
}
