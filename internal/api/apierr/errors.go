package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fastprodman/fliprooms/internal/domain"
	accountrepo "github.com/fastprodman/fliprooms/internal/repos/accounts"
	roomrepo "github.com/fastprodman/fliprooms/internal/repos/rooms"
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

const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeInvalidState      = "INVALID_STATE"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeDuplicateRequest  = "DUPLICATE_REQUEST"
	CodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	CodeRoomNotFound      = "ROOM_NOT_FOUND"
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
)

type httpError struct {
	status   int
	apiError APIError
}

func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes the JSON error body for err and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	he := toHTTPError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})

	return he.status
}

// toHTTPError maps a failure kind to a status and stable code. Client errors
// carry the wrapped message; internal ones never leak details.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	msg := err.Error()

	switch {
	case errors.Is(err, accountrepo.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Account not found"}}
	case errors.Is(err, roomrepo.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, roomrepo.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, domain.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, msg}}
	case errors.Is(err, domain.ErrInsufficientFunds):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientFunds, msg}}
	case errors.Is(err, domain.ErrInvalidState):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, msg}}
	case errors.Is(err, domain.ErrDuplicate):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateRequest, msg}}
	case errors.Is(err, domain.ErrInvalidArgument):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidArgument, msg}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError reports a malformed body, path or query.
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
