package app

import (
	"log/slog"
	"net/http"

	"github.com/forge-journal/forge-identity/internal/auth"
	"github.com/forge-journal/forge-identity/internal/config"
	"github.com/forge-journal/forge-identity/internal/metrics"
	"github.com/forge-journal/forge-identity/internal/transport/middleware"
	"github.com/forge-journal/forge-identity/internal/transport/rest"
)

// routes groups everything mounted on the public mux.
type routes struct {
	profile *rest.ProfileHandler
	health  *rest.HealthHandler
	tools   http.Handler // nil when the tool-call endpoint is disabled
	metrics *metrics.Metrics
}

// newRouter builds the mux and wraps it in the middleware chain. Outermost
// first: request id, CORS, auth, access log, panic recovery, rate limit.
// The access log runs inside auth so it sees the user. Metrics sits
// directly on the mux so the matched pattern is known.
func newRouter(cfg config.Config, logger *slog.Logger, r routes, jwt *auth.JWTManager, limiter *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", r.health.Live)
	mux.HandleFunc("GET /ready", r.health.Ready)
	mux.HandleFunc("GET /health", r.health.Health)
	mux.Handle("GET /metrics", r.metrics.Handler())

	r.profile.Register(mux)

	if r.tools != nil {
		mux.Handle(cfg.MCP.Path, r.tools)
	}

	var rateLimit middleware.Middleware
	if limiter != nil {
		rateLimit = limiter.Limit()
	}

	return middleware.Chain(
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwt),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		rateLimit,
		middleware.Metrics(r.metrics),
	)(mux)
}
