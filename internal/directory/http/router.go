package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/cache"
	"github.com/aussiebroadwan/linkbot/internal/directory/service"
	"github.com/aussiebroadwan/linkbot/internal/directory/store"
	"github.com/aussiebroadwan/linkbot/pkg/httpx"
	"github.com/aussiebroadwan/linkbot/pkg/linksdk"
	"github.com/aussiebroadwan/linkbot/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	adminToken   string
	logger       *slog.Logger
	gatherer     prometheus.Gatherer

	store     store.Store
	directory *cache.Directory

	RegistrationService *service.RegistrationService
	AdminService        *service.AdminService
}

// NewRouter creates a router. An empty adminToken disables the /v1/admin
// endpoints. A nil gatherer serves the default prometheus registry.
func NewRouter(
	buildVersion string,
	adminToken string,
	st store.Store,
	dir *cache.Directory,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		adminToken:   adminToken,
		logger:       logger,
		gatherer:     gatherer,
		store:        st,
		directory:    dir,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerDirectory()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerDirectory() {
	// POST /register - strict limit per identity, tokens are guessable only by brute force
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(&RegisterHandler{RegistrationService: r.RegistrationService},
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "external_id"),
		),
	)

	// GET /directory/{external_id} - called for every inbound chat message
	r.Mux.Handle("GET /v1/directory/{external_id}",
		httpx.Chain(&LookupHandler{Directory: r.directory},
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{AdminService: r.AdminService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireToken(linksdk.AdminTokenHeader, r.adminToken),
			httpx.RateLimitByCaller(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/admin/users", secured(h.HandleCreateUser))
	r.Mux.Handle("GET /v1/admin/users", secured(h.HandleListUsers))
	r.Mux.Handle("DELETE /v1/admin/users/{name}", secured(h.HandleDeleteUser))
	r.Mux.Handle("GET /v1/admin/links", secured(h.HandleListLinks))
	r.Mux.Handle("GET /v1/admin/registered", secured(h.HandleListRegistered))
	r.Mux.Handle("POST /v1/admin/directory/refresh", secured(h.HandleRefresh))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.directory),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
