package handler

import (
	"net/http"

	"github.com/mcoot/sharedlist-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest       = apierr.CodeInvalidRequest
	CodeNotConfigured        = apierr.CodeNotConfigured
	CodeUnauthorized         = apierr.CodeUnauthorized
	CodePermissionDenied     = apierr.CodePermissionDenied
	CodeWrongPassword        = apierr.CodeWrongPassword
	CodeInvalidGuestLink     = apierr.CodeInvalidGuestLink
	CodeListNotFound         = apierr.CodeListNotFound
	CodeListExists           = apierr.CodeListExists
	CodeInvalidListID        = apierr.CodeInvalidListID
	CodeTodoNotFound         = apierr.CodeTodoNotFound
	CodeEmptyTodoText        = apierr.CodeEmptyTodoText
	CodeTodoTextTooLong      = apierr.CodeTodoTextTooLong
	CodeInvalidTier          = apierr.CodeInvalidTier
	CodeConfirmationRequired = apierr.CodeConfirmationRequired
	CodeInternalError        = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewConfirmationRequiredError creates a confirmation-required error
func NewConfirmationRequiredError() error {
	return apierr.NewConfirmationRequiredError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
