package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/estopia/gatekeeper/internal/gatekeeper/service"
	"github.com/estopia/gatekeeper/internal/gatekeeper/store"
	"github.com/estopia/gatekeeper/pkg/httpx"
	"github.com/estopia/gatekeeper/pkg/slogx"

	_ "github.com/estopia/gatekeeper/api/gatekeeper" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	SessionService *service.SessionService
	LinkService    *service.LinkService

	// AuthCodeURL builds the provider consent URL. /oauth/start is only
	// mounted when it is set.
	AuthCodeURL func(state string) string

	Cookie       CookieConfig
	StrictLimit  httpx.RateLimitConfig
	LenientLimit httpx.RateLimitConfig
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	cors httpx.CORSConfig,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Cookie:       DefaultCookieConfig,
		StrictLimit:  httpx.StrictLimit,
		LenientLimit: httpx.LenientLimit,
	}

	// Logging wraps CORS so rejected preflights are still logged.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(cors),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth()
	r.registerSessions()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Estopia Gatekeeper API
//	@version		0.1.0
//	@description	Links Discord accounts to the Estopia server and issues web panel session tokens.
//	@description
//	@description	Session tokens are opaque 32 character hex strings valid for 24 hours.
//
//	@contact.name	Estopia
//	@contact.url	https://github.com/estopia/gatekeeper
//
//	@host			localhost:2999
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth() {
	callback := &OAuthCallbackHandler{LinkService: r.LinkService}

	// Discord redirects here after consent. Both paths are registered
	// redirect URIs in deployed configs.
	for _, pattern := range []string{"GET /{$}", "GET /api/{$}"} {
		r.Mux.Handle(pattern,
			httpx.Chain(callback,
				httpx.RateLimitByIP(r.StrictLimit),
			),
		)
	}

	if r.AuthCodeURL != nil {
		r.Mux.Handle("GET /oauth/start",
			httpx.Chain(&OAuthStartHandler{AuthCodeURL: r.AuthCodeURL},
				httpx.RateLimitByIP(r.LenientLimit),
			),
		)
	}
}

func (r *Router) registerSessions() {
	h := &SessionHandler{
		SessionService: r.SessionService,
		Cookie:         r.Cookie,
	}

	// Credential endpoints - strict rate limit by IP
	r.Mux.Handle("POST /api/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)

	// Called on every bot command, so it gets the lenient profile.
	r.Mux.Handle("POST /api/verifyToken",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyToken),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
}
