package authoritysdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/meetcore/authority/pkg/httpx"
)

// Error codes for this service's JSON error responses. There is no RFC to
// mirror here (spec §7 names five error kinds, not a wire taxonomy), so
// these are named directly after the error kinds themselves.
const (
	ErrorCodeInvalidConfiguration = "invalid_configuration"
	ErrorCodeEmptyParticipant     = "empty_participant_address"
	ErrorCodeEmptyRoomName        = "empty_room_name"
	ErrorCodeUnknownToken         = "unknown_token"
	ErrorCodeInvalidFocusSecret   = "invalid_focus_secret"
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeServerError          = "server_error"
)

// ServiceError is this service's JSON error type, playing the same role as
// the teacher's OAuth2Error: usable both server-side (WriteError) and as a
// typed client-side error value.
type ServiceError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this error as the HTTP response body.
func (e *ServiceError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

var (
	ErrEmptyParticipantAddress = &ServiceError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeEmptyParticipant,
		Description: "participant_address must not be empty",
	}

	ErrEmptyRoomName = &ServiceError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeEmptyRoomName,
		Description: "room_name must not be empty",
	}

	ErrUnknownToken = &ServiceError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnknownToken,
		Description: "the token is unknown, already consumed, or expired",
	}

	ErrInvalidFocusSecret = &ServiceError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidFocusSecret,
		Description: "missing or invalid focus secret",
	}

	ErrInvalidRequest = &ServiceError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrServerError = &ServiceError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx HTTP response into a typed error, the
// same way the teacher's SDK does for OAuth2Error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &ServiceError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &ServiceError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
