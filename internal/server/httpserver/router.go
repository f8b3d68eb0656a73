package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redrabbit/vaultrelay/internal/core/service"
	"github.com/redrabbit/vaultrelay/internal/server/httpserver/handler"
	"github.com/redrabbit/vaultrelay/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// RelayService handles vault and message operations.
	RelayService *service.RelayService

	// Sweeper serves POST /admin/sweep. Optional.
	Sweeper handler.Sweeper

	// Metrics records request metrics and serves /metrics. Optional.
	Metrics *metric.Metrics

	// Limiters are the per-client rate limit classes. Nil disables limiting.
	Limiters *Limiters

	// Logger for request logging.
	Logger *slog.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// AdminToken guards /admin and /metrics (empty = open).
	AdminToken string

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	// TrustProxyHeaders takes the client IP from proxy headers.
	TrustProxyHeaders bool

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
//
// Order: Recover -> SecurityHeaders -> CORS -> ClientIP -> RequestID ->
// BodyLimit -> Audit -> Metrics -> [/api: global limit -> route limits] -> Handler
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	limiters := cfg.Limiters
	if limiters == nil {
		limiters = &Limiters{}
	}

	var observer RateLimitObserver
	if cfg.Metrics != nil {
		observer = cfg.Metrics
	}

	h := handler.New(cfg.RelayService, cfg.Sweeper, log)

	r := chi.NewRouter()
	r.Use(
		Recover(log),
		SecurityHeaders(),
		CORS(cfg.CORSAllowedOrigins),
		ClientIP(cfg.TrustProxyHeaders),
		RequestID(log),
		BodyLimit(cfg.MaxBodyBytes),
	)
	if cfg.EnableAudit {
		r.Use(Audit(log))
	}
	if cfg.Metrics != nil {
		r.Use(Metrics(cfg.Metrics))
	}

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	// Health endpoint - no limits, no authentication
	r.Get("/health", h.Health)

	// Relay API
	api := chi.NewRouter()
	api.Use(RateLimit(limiters.Global, observer))
	api.NotFound(h.NotFound)
	api.MethodNotAllowed(h.NotFound)

	write := RateLimit(limiters.Write, observer)
	create := RateLimit(limiters.Create, observer)
	nuke := RateLimit(limiters.Nuke, observer)
	read := RateLimit(limiters.Read, observer)

	api.Post("/", h.Dispatch(api))
	api.With(write, create).Post("/vault_create", h.VaultCreate)
	api.Post("/vault_join", h.VaultJoin)
	api.Post("/vault_leave", h.VaultLeave)
	api.With(write).Post("/message", h.PostMessage)
	api.With(read).Post("/get_messages", h.GetMessages)
	api.Post("/ack_messages", h.AckMessages)
	api.With(read).Post("/get_participant_count", h.GetParticipantCount)
	api.With(nuke).Post("/nuke_user", h.NukeUser)

	r.Mount("/api", api)

	// Admin endpoints - bearer token when configured
	r.Group(func(r chi.Router) {
		r.Use(AdminAuth(cfg.AdminToken))

		r.Get("/admin/stats", h.AdminStats)
		r.Post("/admin/sweep", h.AdminSweep)
		if cfg.Metrics != nil {
			r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
		}
	})

	return r
}
