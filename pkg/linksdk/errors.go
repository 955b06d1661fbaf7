package linksdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/linkbot/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeUnknownToken   = "unknown_token"
	ErrorCodeTokenConflict  = "token_conflict"
	ErrorCodeUserNotFound   = "user_not_found"
	ErrorCodeNameTaken      = "name_taken"
	ErrorCodeCreateFailed   = "create_failed"
	ErrorCodeDeleteFailed   = "delete_failed"
	ErrorCodeUnavailable    = "unavailable"
	ErrorCodeUnauthorized   = "unauthorized"
	ErrorCodeServerError    = "server_error"
)

// APIError is an error response from the service. The server writes these
// and the client decodes them back.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on Code so decoded errors compare equal to the predefined ones.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// WriteError writes e as the response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

// Descriptions for registration failures are worded as chat replies.
var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrUnknownToken = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeUnknownToken,
		Description: "Could not find the user.",
	}

	ErrTokenConflict = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeTokenConflict,
		Description: "This link has already been used by another account.",
	}

	ErrUserNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeUserNotFound,
		Description: "user not found",
	}

	ErrNameTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeNameTaken,
		Description: "name already taken",
	}

	ErrCreateFailed = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeCreateFailed,
		Description: "Could not create the user.",
	}

	ErrDeleteFailed = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeDeleteFailed,
		Description: "Could not delete the user.",
	}

	ErrUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeUnavailable,
		Description: "An error occurred.",
	}

	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "missing or invalid admin token",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not JSON error objects keep the status code with a generic code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("unexpected status %d", resp.StatusCode),
	}
}
