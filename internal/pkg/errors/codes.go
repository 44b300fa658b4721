package errors

import (
	"fmt"
	"net/http"
)

// Code ties a business error code to its HTTP status and default message.
type Code struct {
	Code    int
	Status  int
	Message string
}

const (
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrUnauthorized    = 1003
	ErrForbidden       = 1004
	ErrConflict        = 1005
	ErrTooManyRequests = 1006
	ErrBadRequest      = 1007

	// Auth errors (2000-2999)
	ErrAuthMissingCredentials = 2000
	ErrAuthPendingNotFound    = 2001
	ErrAuthInvalidCode        = 2002
	ErrAuthTooManyAttempts    = 2003
	ErrAuthResendTooSoon      = 2004
	ErrAuthInvalidMethod      = 2005
	ErrAuthInvalidToken       = 2006
	ErrAuthCodeNotSent        = 2007

	// Favorite errors (3000-3999)
	ErrFavoriteInvalidItem = 3000
	ErrFavoriteInvalidType = 3001

	// Catalog errors (4000-4999)
	ErrCatalogItemNotFound = 4000
	ErrCatalogInvalidKind  = 4001

	// Theme errors (5000-5999)
	ErrThemeUnknown      = 5000
	ErrThemeStoreFailure = 5001

	// Activity errors (6000-6999)
	ErrActivityAppNotFound = 6000
)

var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrUnauthorized:    {ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	ErrForbidden:       {ErrForbidden, http.StatusForbidden, "Forbidden"},
	ErrConflict:        {ErrConflict, http.StatusConflict, "Resource conflict"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
	ErrBadRequest:      {ErrBadRequest, http.StatusBadRequest, "Bad request"},

	ErrAuthMissingCredentials: {ErrAuthMissingCredentials, http.StatusBadRequest, "Username and password are required"},
	ErrAuthPendingNotFound:    {ErrAuthPendingNotFound, http.StatusNotFound, "Verification session expired, please sign in again"},
	ErrAuthInvalidCode:        {ErrAuthInvalidCode, http.StatusUnauthorized, "Invalid verification code"},
	ErrAuthTooManyAttempts:    {ErrAuthTooManyAttempts, http.StatusTooManyRequests, "Too many verification attempts, please sign in again"},
	ErrAuthResendTooSoon:      {ErrAuthResendTooSoon, http.StatusTooManyRequests, "Please wait before requesting another code"},
	ErrAuthInvalidMethod:      {ErrAuthInvalidMethod, http.StatusBadRequest, "Unsupported authentication method"},
	ErrAuthInvalidToken:       {ErrAuthInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	ErrAuthCodeNotSent:        {ErrAuthCodeNotSent, http.StatusBadRequest, "No verification code has been sent"},

	ErrFavoriteInvalidItem: {ErrFavoriteInvalidItem, http.StatusBadRequest, "Favorite item requires an id and a valid type"},
	ErrFavoriteInvalidType: {ErrFavoriteInvalidType, http.StatusBadRequest, "Unknown item type"},

	ErrCatalogItemNotFound: {ErrCatalogItemNotFound, http.StatusNotFound, "Catalog item not found"},
	ErrCatalogInvalidKind:  {ErrCatalogInvalidKind, http.StatusBadRequest, "Unknown catalog kind"},

	ErrThemeUnknown:      {ErrThemeUnknown, http.StatusBadRequest, "Unknown theme"},
	ErrThemeStoreFailure: {ErrThemeStoreFailure, http.StatusInternalServerError, "Theme preference storage failed"},

	ErrActivityAppNotFound: {ErrActivityAppNotFound, http.StatusNotFound, "Active application not found"},
}

// GetCode returns the Code registered for code, or the internal server error.
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus maps code to an HTTP status, 500 for unknown codes.
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the default message for code.
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsClientError reports whether code maps to a 4xx status.
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// FormatError returns the default message, suffixed with the first detail.
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
