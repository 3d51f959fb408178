package gatekeepersdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/estopia/gatekeeper/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest  = "invalid_request"
	ErrorCodeUserNotFound    = "user_not_found"
	ErrorCodeInvalidPassword = "invalid_password"
	ErrorCodeUsernameTaken   = "username_taken"
	ErrorCodeInvalidToken    = "invalid_token"
	ErrorCodeTokenExpired    = "token_expired"
	ErrorCodeServerError     = "server_error"
)

// APIError is a non-2xx answer from the service. The server writes it with
// WriteError; the client decodes it back from the response.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as a JSON ErrorResponse.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

var (
	ErrInvalidJSON = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Invalid JSON body",
	}

	ErrMissingCredentials = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Missing username or password",
	}

	ErrMissingParameters = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Missing parameters",
	}

	ErrPasswordTooLong = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Password must be at most 72 bytes",
	}

	ErrUserNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeUserNotFound,
		Description: "User not found",
	}

	ErrInvalidPassword = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidPassword,
		Description: "Invalid password",
	}

	ErrUsernameTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUsernameTaken,
		Description: "User with that username already exists",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "Internal server error",
	}
)

// IsExpired reports whether err is the service rejecting an expired token.
func IsExpired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == ErrorCodeTokenExpired
}

// IsNotFound reports whether err is an unknown token or unknown user.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == ErrorCodeInvalidToken || apiErr.Code == ErrorCodeUserNotFound
}

// parseErrorResponse turns a non-2xx response into an *APIError. The verify
// endpoint answers with {valid,message}, so its status decides the code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	var verifyResp VerifyTokenResponse
	if err := json.Unmarshal(body, &verifyResp); err == nil && verifyResp.Message != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        verifyCode(resp.StatusCode),
			Description: verifyResp.Message,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

func verifyCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrorCodeInvalidRequest
	case http.StatusNotFound:
		return ErrorCodeInvalidToken
	case http.StatusUnauthorized:
		return ErrorCodeTokenExpired
	default:
		return ErrorCodeServerError
	}
}
