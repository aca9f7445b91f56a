package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/forge-journal/forge-identity/internal/adapter/cache"
	"github.com/forge-journal/forge-identity/internal/adapter/postgres"
	"github.com/forge-journal/forge-identity/internal/adapter/postgres/audit"
	"github.com/forge-journal/forge-identity/internal/adapter/postgres/identityprofile"
	"github.com/forge-journal/forge-identity/internal/adapter/postgres/profilehistory"
	"github.com/forge-journal/forge-identity/internal/auth"
	"github.com/forge-journal/forge-identity/internal/config"
	"github.com/forge-journal/forge-identity/internal/metrics"
	"github.com/forge-journal/forge-identity/internal/service/profile"
	"github.com/forge-journal/forge-identity/internal/transport/mcp"
	"github.com/forge-journal/forge-identity/internal/transport/middleware"
	"github.com/forge-journal/forge-identity/internal/transport/rest"
)

// rateLimitCleanup is how often idle rate-limit clients are swept.
const rateLimitCleanup = time.Minute

// Run is the application entry point. It wires the database, the profile
// service and both transports, then serves until ctx is cancelled and
// shuts the HTTP server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	handler, cleanup := NewHandler(*cfg, pool, logger)
	defer cleanup()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// NewHandler assembles the repositories, the profile service and both
// transports on pool. The returned cleanup stops background work and must
// be called once the handler is no longer served.
func NewHandler(cfg config.Config, pool *pgxpool.Pool, logger *slog.Logger) (http.Handler, func()) {
	m := metrics.New()

	profiles := identityprofile.New(pool)
	history := profilehistory.New(pool)
	auditRepo := audit.New(pool)
	txm := postgres.NewTxManager(pool)
	profileCache := cache.NewProfileCache(cfg.Profile.CacheSize, cfg.Profile.CacheTTL, m)

	profileSvc := profile.NewService(logger, profiles, history, auditRepo, txm, profileCache, m, profile.Config{
		DefaultHistoryLimit: cfg.Profile.DefaultHistoryLimit,
		MaxHistoryLimit:     cfg.Profile.MaxHistoryLimit,
	})

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	r := routes{
		profile: rest.NewProfileHandler(profileSvc, logger),
		health:  rest.NewHealthHandler(Version, rest.Component{Name: "database", Check: pool.Ping}),
		metrics: m,
	}
	if cfg.MCP.Enabled {
		r.tools = mcp.NewHandler(mcp.NewServer(profileSvc, logger, Version))
		logger.Info("tool-call endpoint enabled", slog.String("path", cfg.MCP.Path))
	}

	cleanup := func() {}
	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, rateLimitCleanup)
		cleanup = limiter.Stop
	}

	return newRouter(cfg, logger, r, jwtManager, limiter), cleanup
}

// serve runs srv until ctx is done, then gives in-flight requests up to
// shutdownTimeout to finish.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
