package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/northfit/installops/internal/identity/metrics"
	"github.com/northfit/installops/internal/identity/service"
	"github.com/northfit/installops/internal/identity/store"
	"github.com/northfit/installops/pkg/httpx"
	"github.com/northfit/installops/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	cookieName   string
	cookieSecure bool
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	recorder metrics.Recorder
	gatherer prometheus.Gatherer

	AuthService *service.AuthService
	NavService  service.NavService
}

func NewRouter(
	cookieName string,
	cookieSecure bool,
	buildVersion string,
	st store.Store,
	recorder metrics.Recorder,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		recorder:     recorder,
		gatherer:     gatherer,
		logger:       logger,
	}

	if r.recorder == nil {
		r.recorder = metrics.Nop{}
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		statusMetrics(r.recorder),
	}

	return r
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerNav()
	r.registerSystem()
}

func (r *Router) registerAuth() {
	authn := httpx.SessionAuthn(r.cookieName, r.AuthService)

	// POST /login - strict rate limit (authentication attempts)
	loginHandler := &LoginHandler{
		AuthService:  r.AuthService,
		CookieName:   r.cookieName,
		CookieSecure: r.cookieSecure,
	}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /me - moderate limit, requires a live session
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(MeHandler(),
			authn,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /logout - moderate limit, no authn so dead cookies still clear
	logoutHandler := &LogoutHandler{
		AuthService:  r.AuthService,
		CookieName:   r.cookieName,
		CookieSecure: r.cookieSecure,
	}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerNav() {
	authn := httpx.SessionAuthn(r.cookieName, r.AuthService)

	navHandler := &NavHandler{NavService: r.NavService}
	r.Mux.Handle("GET /v1/nav",
		httpx.Chain(navHandler,
			authn,
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	if r.gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.gatherer))
	}
}

// statusMetrics records every response's status code.
func statusMetrics(rec metrics.Recorder) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			rec.RecordHTTPStatus(rw.status)
		})
	}
}

type recordingWriter struct {
	http.ResponseWriter

	status int
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
