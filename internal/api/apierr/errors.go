package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/sharedlist-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeNotConfigured        = "NOT_CONFIGURED"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodePermissionDenied     = "PERMISSION_DENIED"
	CodeWrongPassword        = "WRONG_PASSWORD"
	CodeInvalidGuestLink     = "INVALID_GUEST_LINK"
	CodeListNotFound         = "LIST_NOT_FOUND"
	CodeListExists           = "LIST_EXISTS"
	CodeInvalidListID        = "INVALID_LIST_ID"
	CodeTodoNotFound         = "TODO_NOT_FOUND"
	CodeEmptyTodoText        = "EMPTY_TODO_TEXT"
	CodeTodoTextTooLong      = "TODO_TEXT_TOO_LONG"
	CodeInvalidTier          = "INVALID_TIER"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrNotConfigured):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeNotConfigured, "Store or identity not configured"}}
	case errors.Is(err, model.ErrListNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeListNotFound, "List not found"}}
	case errors.Is(err, model.ErrListExists):
		return &httpError{http.StatusConflict, APIError{CodeListExists, "List id already taken"}}
	case errors.Is(err, model.ErrInvalidListID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidListID, "Id must be 3-100 characters of letters, digits and hyphens"}}
	case errors.Is(err, model.ErrTodoNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTodoNotFound, "Todo not found"}}
	case errors.Is(err, model.ErrEmptyTodoText):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyTodoText, "Todo text must not be empty"}}
	case errors.Is(err, model.ErrTodoTextTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeTodoTextTooLong, "Todo text too long"}}
	case errors.Is(err, model.ErrPermissionDenied):
		return &httpError{http.StatusForbidden, APIError{CodePermissionDenied, "Insufficient role for this action"}}
	case errors.Is(err, model.ErrWrongPassword):
		return &httpError{http.StatusForbidden, APIError{CodeWrongPassword, "Wrong password"}}
	case errors.Is(err, model.ErrInvalidTier):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTier, "Tier must be admin, normal or guest"}}
	case errors.Is(err, model.ErrGuestLinkNotFound),
		errors.Is(err, model.ErrInvalidGuestLink):
		// Absent, revoked, disabled and expired all collapse to the same
		// message for the guest
		return &httpError{http.StatusForbidden, APIError{CodeInvalidGuestLink, "Link invalid or revoked"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Participant handle required"}}
}

// NewConfirmationRequiredError signals that a guest uncomplete toggle
// needs an explicit confirmation before the write is issued
func NewConfirmationRequiredError() error {
	return &httpError{http.StatusConflict, APIError{CodeConfirmationRequired, "Confirmation required to uncheck this item"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
