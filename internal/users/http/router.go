package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/service"
	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/store"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/httpx"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/jwtx"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	loginLimiter httpx.LoginLimiter
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewRouter(
	verifier jwtx.Verifier,
	loginLimiter httpx.LoginLimiter,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		loginLimiter: loginLimiter,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - fixed-window limiter keyed by client IP. The limiter
	// runs before credential verification and a 200 response clears the
	// caller's attempt record.
	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(loginHandler,
			httpx.LoginRateLimitMiddleware(r.loginLimiter, httpx.IPKeyExtractor),
		),
	)

	// POST /register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{UserService: r.UserService}
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /me - any authenticated principal, answered from token claims
	meHandler := &MeHandler{}
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(meHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByPrincipal(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// Read endpoints are open to any authenticated principal.
	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByPrincipal(httpx.ModerateLimit),
	)
	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByPrincipal(httpx.ModerateLimit),
	)

	// Mutations require the ADMIN role exactly; there is no role hierarchy.
	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("ADMIN"),
		httpx.RateLimitByPrincipal(httpx.ModerateLimit),
	)
	securedUpdate := httpx.Chain(http.HandlerFunc(h.HandleUpdate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("ADMIN"),
		httpx.RateLimitByPrincipal(httpx.ModerateLimit),
	)
	securedDelete := httpx.Chain(http.HandlerFunc(h.HandleDelete),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("ADMIN"),
		httpx.RateLimitByPrincipal(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /api/users", securedList)
	r.Mux.Handle("GET /api/users/{id}", securedGet)
	r.Mux.Handle("POST /api/users", securedCreate)
	r.Mux.Handle("PUT /api/users/{id}", securedUpdate)
	r.Mux.Handle("DELETE /api/users/{id}", securedDelete)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
