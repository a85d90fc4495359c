package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/content"
	"intranet/internal/domain/leave"
	"intranet/internal/domain/notifications"
	"intranet/internal/domain/onboarding"
	"intranet/internal/domain/performance"
	"intranet/internal/domain/profile"
	"intranet/internal/platform/config"
	"intranet/internal/platform/db"
	"intranet/internal/platform/email"
	audithandler "intranet/internal/transport/http/handlers/audit"
	authhandler "intranet/internal/transport/http/handlers/auth"
	contenthandler "intranet/internal/transport/http/handlers/content"
	leavehandler "intranet/internal/transport/http/handlers/leave"
	notificationshandler "intranet/internal/transport/http/handlers/notifications"
	onboardinghandler "intranet/internal/transport/http/handlers/onboarding"
	performancehandler "intranet/internal/transport/http/handlers/performance"
	profilehandler "intranet/internal/transport/http/handlers/profile"
	"intranet/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New wires the full application without starting to listen. Tests use
// it to get a routable handler against a prepared database.
func New(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) *App {
	authStore := auth.NewStore(pool)
	profileService := profile.NewService(profile.NewStore(pool))
	leaveService := leave.NewService(leave.NewStore(pool), cfg.LeaveNoticeDays)
	notifyService := notifications.New(notifications.NewStore(pool), email.New(cfg), cfg.EmailFrom)
	auditService := audit.New(pool)
	onboardingStore := onboarding.NewStore(pool)
	contentStore := content.NewStore(pool)
	performanceService := performance.NewService(performance.NewStore(pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, authStore))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Metrics)

		authhandler.NewHandler(authStore, profileService, auditService, cfg.JWTSecret, cfg.OrgDomain, cfg.AllowSelfSignup).RegisterRoutes(r)
		profilehandler.NewHandler(profileService, notifyService, auditService).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, profileService, notifyService, auditService).RegisterRoutes(r)
		onboardinghandler.NewHandler(onboardingStore, auditService).RegisterRoutes(r)
		contenthandler.NewHandler(contentStore, profileService, notifyService, auditService).RegisterRoutes(r)
		performancehandler.NewHandler(performanceService, notifyService, auditService).RegisterRoutes(r)
		notificationshandler.NewHandler(notifyService).RegisterRoutes(r)
		audithandler.NewHandler(auditService).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router}
}

func Run() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	app := New(ctx, cfg, pool)

	slog.Info("intranet server listening", "addr", cfg.Addr, "environment", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
