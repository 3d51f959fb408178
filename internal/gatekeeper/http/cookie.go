package http

import (
	"net/http"
	"time"

	"github.com/estopia/gatekeeper/internal/gatekeeper/service"
)

const authCookieName = "authToken"

// CookieConfig shapes the session cookie set on login and register.
type CookieConfig struct {
	Domain string
	MaxAge time.Duration
}

var DefaultCookieConfig = CookieConfig{
	Domain: ".estopia.net",
	MaxAge: service.DefaultSessionTTL,
}

// setAuthCookie hands the token to browser callers. The panel's scripts
// read the cookie, so it is not HttpOnly.
func setAuthCookie(w http.ResponseWriter, cfg CookieConfig, sess service.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    sess.Token,
		Domain:   cfg.Domain,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		Expires:  sess.ExpiresAt,
		Secure:   true,
		HttpOnly: false,
	})
}
