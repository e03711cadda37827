package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain packages emit their
// own codes (uppercase snake case) which are mapped to statuses below.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// HTTP layer
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	// Authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"REFRESH_LIMIT":       http.StatusUnauthorized,
	"INVALID_PASSWORD":    http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DISABLED":    http.StatusForbidden,
	"USER_DEACTIVATED":    http.StatusForbidden,
	"NOT_A_PARTY":         http.StatusForbidden,
	"DEALER_SUSPENDED":    http.StatusForbidden,

	// Resource conflicts
	"ALREADY_EXISTS":        http.StatusConflict,
	"CONCURRENCY_CONFLICT":  http.StatusConflict,
	"OPTIMISTIC_LOCK_ERROR": http.StatusConflict,
	"DEAL_ALREADY_OPEN":     http.StatusConflict,
	"ORDER_ALREADY_OPEN":    http.StatusConflict,
	"PAYMENT_ALREADY_OPEN":  http.StatusConflict,
	"VEHICLE_IN_USE":        http.StatusConflict,
	"ALREADY_ACTIVE":        http.StatusConflict,
	"ALREADY_SUSPENDED":     http.StatusConflict,
	"ALREADY_DEACTIVATED":   http.StatusConflict,

	// Business rules -> 422 Unprocessable Entity
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,
	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"INVALID_SCHEDULE":          http.StatusUnprocessableEntity,
	"SELF_DEALING":              http.StatusUnprocessableEntity,
	"VEHICLE_UNAVAILABLE":       http.StatusUnprocessableEntity,
	"NOT_YOUR_TURN":             http.StatusUnprocessableEntity,
	"TOO_MANY_OFFERS":           http.StatusUnprocessableEntity,
	"TOO_MANY_PHOTOS":           http.StatusUnprocessableEntity,
	"DEAL_NOT_ACCEPTED":         http.StatusUnprocessableEntity,
	"DEAL_NOT_IN_ESCROW":        http.StatusUnprocessableEntity,
	"RECEIPT_NOT_AVAILABLE":     http.StatusUnprocessableEntity,
	"ORDER_NOT_BOOKED":          http.StatusUnprocessableEntity,
	"PRICING_NOT_SET":           http.StatusUnprocessableEntity,
	"COST_NOT_SET":              http.StatusUnprocessableEntity,
	"PAN_MISMATCH":              http.StatusUnprocessableEntity,
	"PARTNER_INACTIVE":          http.StatusUnprocessableEntity,
	"WEIGHT_NOT_SERVICEABLE":    http.StatusUnprocessableEntity,
	"AMOUNT_MISMATCH":           http.StatusUnprocessableEntity,
	"RESERVATION_MISMATCH":      http.StatusUnprocessableEntity,
	"NOT_RESERVED":              http.StatusUnprocessableEntity,
	"NOT_EXPIRED":               http.StatusUnprocessableEntity,

	// Infrastructure
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
	"STORAGE_UNAVAILABLE": http.StatusServiceUnavailable,
	"GATEWAY_UNAVAILABLE": http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Field validation codes (INVALID_*) not listed above map to 400; any
// other unlisted domain code is treated as a business rule violation.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
