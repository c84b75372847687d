package dto

import "net/http"

// Error codes follow ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	ErrCodeValidation    = "ERR_VALIDATION"
	ErrCodeBadRequest    = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput  = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON   = "ERR_INVALID_JSON"
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeInvalidState  = "ERR_INVALID_STATE"
	ErrCodeRateLimited   = "ERR_RATE_LIMITED"
	ErrCodeServiceDown   = "ERR_SERVICE_UNAVAILABLE"
	ErrCodeInvalidPeriod = "ERR_INVALID_PERIOD_REQUEST"
)

// Sale rule error codes
const (
	ErrCodeInvalidQuantity = "ERR_INVALID_QUANTITY"
	ErrCodeInvalidPrice    = "ERR_INVALID_PRICE"
	ErrCodeInvalidDiscount = "ERR_INVALID_DISCOUNT"
	ErrCodeInvalidProduct  = "ERR_INVALID_PRODUCT"
	ErrCodeInvalidSaleDate = "ERR_INVALID_SALE_DATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidJSON:   http.StatusBadRequest,
	ErrCodeInvalidPeriod: http.StatusBadRequest,

	ErrCodeInvalidQuantity: http.StatusBadRequest,
	ErrCodeInvalidPrice:    http.StatusBadRequest,
	ErrCodeInvalidDiscount: http.StatusBadRequest,
	ErrCodeInvalidProduct:  http.StatusBadRequest,
	ErrCodeInvalidSaleDate: http.StatusBadRequest,

	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeServiceDown:  http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are treated as internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps bare domain error codes to API codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"INVALID_PERIOD_REQUEST": ErrCodeInvalidPeriod,
	"INVALID_QUANTITY":       ErrCodeInvalidQuantity,
	"INVALID_PRICE":          ErrCodeInvalidPrice,
	"INVALID_DISCOUNT":       ErrCodeInvalidDiscount,
	"INVALID_PRODUCT":        ErrCodeInvalidProduct,
	"INVALID_SALE_DATE":      ErrCodeInvalidSaleDate,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format, or unknown ones, are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
