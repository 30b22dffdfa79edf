package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"hrportal/internal/domain/authz"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/jobs"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/platform/sessionstore"
	"hrportal/internal/platform/upstream"
	adminhandler "hrportal/internal/transport/http/handlers/admin"
	attendancehandler "hrportal/internal/transport/http/handlers/attendance"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	dashboardhandler "hrportal/internal/transport/http/handlers/dashboard"
	leavehandler "hrportal/internal/transport/http/handlers/leave"
	onboardinghandler "hrportal/internal/transport/http/handlers/onboarding"
	payrollhandler "hrportal/internal/transport/http/handlers/payroll"
	recruitmenthandler "hrportal/internal/transport/http/handlers/recruitment"
	"hrportal/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	store, err := openSessionStore(ctx, cfg)
	if err != nil {
		log.Fatalf("session store failed: %v", err)
	}

	sweeper := jobs.NewSweeper(store, cfg.SessionSweepInterval)
	sweeper.Start(ctx)

	collector := metrics.New()
	client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)

	router := NewRouter(cfg, store, client, collector)

	log.Printf("HR portal listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func openSessionStore(ctx context.Context, cfg config.Config) (sessionstore.Storage, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		return sessionstore.NewRedis(ctx, cfg.RedisAddr, cfg.SessionTTL)
	case config.SessionBackendPostgres:
		return sessionstore.NewPostgres(ctx, cfg.DatabaseURL, cfg.SessionTTL)
	default:
		return sessionstore.NewMemory(cfg.SessionTTL), nil
	}
}

// NewRouter assembles the full middleware chain and route table. Split
// from Run so tests can mount the router on httptest servers.
func NewRouter(cfg config.Config, store sessionstore.Storage, client *upstream.Client, collector *metrics.Collector) http.Handler {
	sessions := &middleware.SessionManager{Store: store, CookieSecure: cfg.CookieSecure}
	guards := &middleware.Guards{Metrics: collector}
	isProd := cfg.Environment == "production"

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(isProd))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(sessions.Attach)
	router.Use(middleware.TokenExpiry("/login"))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			http.Error(w, "session store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metricsz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	// Credential-accepting POSTs share one per-IP rate limit; the GET
	// pages on the same routes stay unthrottled.
	limitPosts := func(next http.Handler) http.Handler {
		limited := httprate.LimitByIP(cfg.LoginRatePerMinute, time.Minute)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	router.Group(func(r chi.Router) {
		r.Use(limitPosts)
		authhandler.NewHandler(client).RegisterRoutes(r)
		onboardinghandler.NewHandler(client).RegisterRoutes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(guards.RequireAuthenticated("/login"))
		dashboardhandler.NewHandler().RegisterRoutes(r)
		attendancehandler.NewHandler(client, collector).RegisterRoutes(r)
		leavehandler.NewHandler(client, collector).RegisterRoutes(r)
		payrollhandler.NewHandler(client, collector).RegisterRoutes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(guards.RequireAuthenticated("/login"))
		r.Use(guards.RequirePermission("Recruitment", authz.PermViewRecruitment, authz.RoleHRManager, authz.RoleSuperAdmin))
		recruitmenthandler.NewHandler(client, collector).RegisterRoutes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(guards.RequireAuthenticated("/login"))
		r.Use(guards.RequirePermission("Role Management", authz.PermManageRoles, authz.RoleSuperAdmin))
		adminhandler.NewHandler(client, collector).RegisterRoutes(r)
	})

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, middleware.PathDashboard, http.StatusSeeOther)
	})

	return router
}
