package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/estopia/gatekeeper/internal/gatekeeper/service"
	"github.com/estopia/gatekeeper/pkg/cryptox"
	"github.com/estopia/gatekeeper/pkg/httpx"
	"github.com/estopia/gatekeeper/pkg/slogx"
)

const (
	msgVerified      = `You have been verified. Please go back to the server and press the "Manual Verification" button.`
	msgNoCode        = "No code provided"
	msgInternalError = "Internal server error"
)

// OAuthCallbackHandler serves the Discord redirect URI.
type OAuthCallbackHandler struct {
	LinkService *service.LinkService
}

// ServeHTTP godoc
//
//	@Summary		Discord OAuth2 callback
//	@Description	Exchanges the authorization code with Discord and links the Discord account.
//	@Description	Served on both / and /api/. Responses are plain text meant for a browser tab.
//	@Tags			OAuth
//	@Produce		plain
//	@Param			code	query		string	true	"Authorization code issued by Discord"
//	@Success		200		{string}	string	"verification message"
//	@Failure		400		{string}	string	"No code provided"
//	@Failure		500		{string}	string	"Internal server error"
//	@Router			/api/ [get].
func (h *OAuthCallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	_, err := h.LinkService.Link(r.Context(), r.URL.Query().Get("code"))
	switch {
	case err == nil:
		httpx.WriteText(w, http.StatusOK, msgVerified)
	case errors.Is(err, service.ErrInvalidRequest):
		httpx.WriteText(w, http.StatusBadRequest, msgNoCode)
	default:
		l.Error("discord link failed", slog.Any("error", err))
		httpx.WriteText(w, http.StatusInternalServerError, msgInternalError)
	}
}

// OAuthStartHandler redirects the browser to Discord's consent page.
type OAuthStartHandler struct {
	AuthCodeURL func(state string) string
}

// ServeHTTP godoc
//
//	@Summary		Start Discord linking
//	@Description	Redirects to the Discord authorize page with the identify scope.
//	@Tags			OAuth
//	@Success		302
//	@Router			/oauth/start [get].
func (h *OAuthStartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	state := cryptox.MustGenerateToken(cryptox.TokenSize128)
	http.Redirect(w, r, h.AuthCodeURL(state), http.StatusFound)
}
