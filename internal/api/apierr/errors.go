package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hvzgame/hvz-server/internal/model"
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
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeKillNotFound        = "KILL_NOT_FOUND"
	CodeSquadNotFound       = "SQUAD_NOT_FOUND"
	CodeChannelNotFound     = "CHANNEL_NOT_FOUND"
	CodeMissionNotFound     = "MISSION_NOT_FOUND"
	CodeSubjectMismatch     = "SUBJECT_MISMATCH"
	CodeIdentityNotBound    = "IDENTITY_NOT_BOUND"
	CodeAlreadyRegistered   = "ALREADY_REGISTERED"
	CodeInvalidKill         = "INVALID_KILL"
	CodeAlreadyInSquad      = "ALREADY_IN_SQUAD"
	CodeNotInSquad          = "NOT_IN_SQUAD"
	CodeWrongSquad          = "WRONG_SQUAD"
	CodeSquadNameInUse      = "SQUAD_NAME_IN_USE"
	CodeChannelOwnedBySquad = "CHANNEL_OWNED_BY_SQUAD"
	CodeInternalError       = "INTERNAL_ERROR"
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
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrKillNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeKillNotFound, "Kill not found"}}
	case errors.Is(err, model.ErrSquadNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSquadNotFound, "Squad not found"}}
	case errors.Is(err, model.ErrChannelNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeChannelNotFound, "Channel not found"}}
	case errors.Is(err, model.ErrMissionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMissionNotFound, "Mission not found"}}

	case errors.Is(err, model.ErrSubjectMismatch):
		return &httpError{http.StatusForbidden, APIError{CodeSubjectMismatch, "Caller may not act as this player"}}
	case errors.Is(err, model.ErrIdentityNotBound):
		return &httpError{http.StatusForbidden, APIError{CodeIdentityNotBound, "No player registered for this identity"}}

	case errors.Is(err, model.ErrSubjectAlreadyRegistered):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyRegistered, "Identity already registered in this game"}}
	case errors.Is(err, model.ErrInvalidKill):
		return &httpError{http.StatusConflict, APIError{CodeInvalidKill, "Kill violates faction rules"}}
	case errors.Is(err, model.ErrPlayerAlreadyInSquad):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInSquad, "Player is already in a squad"}}
	case errors.Is(err, model.ErrPlayerNotInSquad):
		return &httpError{http.StatusConflict, APIError{CodeNotInSquad, "Player is not in a squad"}}
	case errors.Is(err, model.ErrPlayerLeavingWrongSquad):
		return &httpError{http.StatusConflict, APIError{CodeWrongSquad, "Player is not in this squad"}}
	case errors.Is(err, model.ErrSquadNameInUse):
		return &httpError{http.StatusConflict, APIError{CodeSquadNameInUse, "Squad name is already in use"}}
	case errors.Is(err, model.ErrChannelOwnedBySquad):
		return &httpError{http.StatusConflict, APIError{CodeChannelOwnedBySquad, "Channel belongs to a squad"}}

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
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError() error {
	return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Insufficient permissions"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
