package gatekeepersdk

// ErrorResponse is the JSON error body of the login and register endpoints.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	Token string `json:"token" example:"9f86d081884c7d659a2feaa0c55ad015"`
}

// VerifyTokenRequest is the body of POST /api/verifyToken.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyTokenResponse is returned for both valid and rejected tokens.
// Message is only set when Valid is false.
type VerifyTokenResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks lists dependency status for /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}
