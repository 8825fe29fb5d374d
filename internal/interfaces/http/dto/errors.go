package dto

import "net/http"

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 500 Internal Server Error.
var ErrorCodeHTTPStatus = map[string]int{
	// Input errors -> 400 Bad Request
	"VALIDATION":       http.StatusBadRequest,
	"INVALID_INPUT":    http.StatusBadRequest,
	"BAD_REQUEST":      http.StatusBadRequest,
	"INVALID_NAME":     http.StatusBadRequest,
	"INVALID_EMAIL":    http.StatusBadRequest,
	"INVALID_PHONE":    http.StatusBadRequest,
	"INVALID_PRICE":    http.StatusBadRequest,
	"INVALID_QUANTITY": http.StatusBadRequest,
	"INVALID_USERNAME": http.StatusBadRequest,
	"INVALID_PASSWORD": http.StatusBadRequest,
	"INVALID_ROLE":     http.StatusBadRequest,
	"INVALID_IMAGE":    http.StatusBadRequest,

	// Auth errors
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,

	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"UPLOAD_NOT_FOUND":     http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"REFERENCED":           http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	"INVALID_STATE":           http.StatusUnprocessableEntity,
	"EMPTY_INVOICE":           http.StatusUnprocessableEntity,
	"ALREADY_PAID":            http.StatusUnprocessableEntity,
	"DUPLICATE_ITEM":          http.StatusUnprocessableEntity,
	"INVOICE_LOCKED":          http.StatusUnprocessableEntity,
	"INVALID_CLIENT":          http.StatusUnprocessableEntity,
	"INVALID_PRODUCT":         http.StatusUnprocessableEntity,
	"INVALID_CATEGORY":        http.StatusUnprocessableEntity,
	"DISALLOWED_CONTENT_TYPE": http.StatusUnprocessableEntity,

	// General errors
	"INTERNAL": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
