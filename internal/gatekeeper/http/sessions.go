package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/estopia/gatekeeper/internal/gatekeeper/service"
	"github.com/estopia/gatekeeper/pkg/cryptox"
	"github.com/estopia/gatekeeper/pkg/gatekeepersdk"
	"github.com/estopia/gatekeeper/pkg/httpx"
	"github.com/estopia/gatekeeper/pkg/slogx"
)

const (
	msgTokenRequired = "Token is required"
	msgInvalidToken  = "Invalid token"
	msgTokenExpired  = "Token expired"
	msgInvalidJSON   = "Invalid JSON body"
)

// SessionHandler serves the web panel login, register and verify endpoints.
type SessionHandler struct {
	SessionService *service.SessionService
	Cookie         CookieConfig
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Checks username and password and issues a new session token, replacing any previous one.
//	@Description	The token is also set as the authToken cookie.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatekeepersdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	gatekeepersdk.TokenResponse
//	@Failure		400		{object}	gatekeepersdk.ErrorResponse	"Missing username or password"
//	@Failure		401		{object}	gatekeepersdk.ErrorResponse	"Invalid password"
//	@Failure		404		{object}	gatekeepersdk.ErrorResponse	"User not found"
//	@Failure		500		{object}	gatekeepersdk.ErrorResponse	"Internal server error"
//	@Header			200		{string}	Set-Cookie					"authToken"
//	@Router			/api/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req gatekeepersdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		gatekeepersdk.ErrInvalidJSON.WriteError(w)
		return
	}

	sess, err := h.SessionService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			gatekeepersdk.ErrMissingCredentials.WriteError(w)
		case errors.Is(err, service.ErrUserNotFound):
			gatekeepersdk.ErrUserNotFound.WriteError(w)
		case errors.Is(err, service.ErrInvalidPassword):
			gatekeepersdk.ErrInvalidPassword.WriteError(w)
		default:
			slogx.FromContext(r.Context()).Error("login failed", slog.Any("error", err))
			gatekeepersdk.ErrServerError.WriteError(w)
		}
		return
	}

	setAuthCookie(w, h.Cookie, sess)
	httpx.WriteJSON(w, http.StatusOK, gatekeepersdk.TokenResponse{Token: sess.Token})
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Creates a web panel account and issues its first session token.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatekeepersdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	gatekeepersdk.TokenResponse
//	@Failure		400		{object}	gatekeepersdk.ErrorResponse	"Missing parameters"
//	@Failure		409		{object}	gatekeepersdk.ErrorResponse	"User with that username already exists"
//	@Failure		500		{object}	gatekeepersdk.ErrorResponse	"Internal server error"
//	@Header			201		{string}	Set-Cookie					"authToken"
//	@Router			/api/register [post].
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req gatekeepersdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		gatekeepersdk.ErrInvalidJSON.WriteError(w)
		return
	}

	sess, err := h.SessionService.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, cryptox.ErrPasswordTooLong):
			gatekeepersdk.ErrPasswordTooLong.WriteError(w)
		case errors.Is(err, service.ErrInvalidRequest):
			gatekeepersdk.ErrMissingParameters.WriteError(w)
		case errors.Is(err, service.ErrUsernameTaken):
			gatekeepersdk.ErrUsernameTaken.WriteError(w)
		default:
			slogx.FromContext(r.Context()).Error("register failed", slog.Any("error", err))
			gatekeepersdk.ErrServerError.WriteError(w)
		}
		return
	}

	setAuthCookie(w, h.Cookie, sess)
	httpx.WriteJSON(w, http.StatusCreated, gatekeepersdk.TokenResponse{Token: sess.Token})
}

// HandleVerifyToken godoc
//
//	@Summary		Verify a session token
//	@Description	Reports whether the token belongs to an account and has not expired. Never modifies the session.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatekeepersdk.VerifyTokenRequest	true	"Token to check"
//	@Success		200		{object}	gatekeepersdk.VerifyTokenResponse
//	@Failure		400		{object}	gatekeepersdk.VerifyTokenResponse	"Token is required"
//	@Failure		401		{object}	gatekeepersdk.VerifyTokenResponse	"Token expired"
//	@Failure		404		{object}	gatekeepersdk.VerifyTokenResponse	"Invalid token"
//	@Failure		500		{object}	gatekeepersdk.VerifyTokenResponse	"Internal server error"
//	@Router			/api/verifyToken [post].
func (h *SessionHandler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req gatekeepersdk.VerifyTokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeVerify(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	valid, err := h.SessionService.VerifyToken(r.Context(), req.Token)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, gatekeepersdk.VerifyTokenResponse{Valid: valid})
	case errors.Is(err, service.ErrInvalidRequest):
		writeVerify(w, http.StatusBadRequest, msgTokenRequired)
	case errors.Is(err, service.ErrTokenNotFound):
		writeVerify(w, http.StatusNotFound, msgInvalidToken)
	case errors.Is(err, service.ErrTokenExpired):
		writeVerify(w, http.StatusUnauthorized, msgTokenExpired)
	default:
		slogx.FromContext(r.Context()).Error("verify token failed", slog.Any("error", err))
		writeVerify(w, http.StatusInternalServerError, msgInternalError)
	}
}

func writeVerify(w http.ResponseWriter, code int, msg string) {
	httpx.WriteJSON(w, code, gatekeepersdk.VerifyTokenResponse{Valid: false, Message: msg})
}
