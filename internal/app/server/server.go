package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/audit"
	"timetrack/internal/domain/employee"
	"timetrack/internal/domain/reports"
	"timetrack/internal/domain/worklog"
	"timetrack/internal/platform/clock"
	"timetrack/internal/platform/config"
	"timetrack/internal/platform/db"
	"timetrack/internal/platform/jobs"
	"timetrack/internal/platform/metrics"
	"timetrack/internal/transport/http/api"
	authhandler "timetrack/internal/transport/http/handlers/auth"
	employeehandler "timetrack/internal/transport/http/handlers/employees"
	reporthandler "timetrack/internal/transport/http/handlers/reports"
	workloghandler "timetrack/internal/transport/http/handlers/worklog"
	"timetrack/internal/transport/http/middleware"
)

// App bundles the HTTP surface with the services behind it. The worklog
// service carries the per-employee locks, so every mutator of work state,
// the handlers and the background refresher included, must share the one
// instance App holds.
type App struct {
	Router   http.Handler
	Worklogs *worklog.Service
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	app := NewApp(cfg, pool)

	refresher := jobs.NewRefresher(app.Worklogs, time.Duration(cfg.DurationRefreshMinutes)*time.Minute)
	go refresher.Run(ctx)

	srv := &http.Server{Addr: cfg.Addr, Handler: app.Router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("timetrack server listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}

// NewApp wires services, middleware, and handlers over one shared store and
// one shared worklog service.
func NewApp(cfg config.Config, pool db.Pinger) *App {
	clk := clock.System{}
	collector := metrics.New()

	employeeStore := &employee.Store{DB: pool}
	employeeService := employee.NewService(employeeStore, clk)
	worklogService := worklog.NewService(employeeStore, clk)
	reportService := reports.NewService(employeeService)
	auditService := audit.New(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

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
		router.With(middleware.RequireAdmin).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(employeeService, cfg.JWTSecret, cfg.Environment == "production").RegisterRoutes(r)
		employeehandler.NewHandler(employeeService, auditService).RegisterRoutes(r)
		workloghandler.NewHandler(worklogService, auditService).RegisterRoutes(r)
		reporthandler.NewHandler(reportService).RegisterRoutes(r)

		r.With(middleware.RequireAdmin).Get("/audit", func(w http.ResponseWriter, r *http.Request) {
			events, err := auditService.Recent(r.Context(), 100)
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "storage_error",
					"failed to load audit events", middleware.GetRequestID(r.Context()))
				return
			}
			api.Success(w, events, middleware.GetRequestID(r.Context()))
		})
	})

	return &App{Router: router, Worklogs: worklogService}
}

// NewRouter is the HTTP surface alone, for callers that do not run the
// background refresher.
func NewRouter(cfg config.Config, pool db.Pinger) http.Handler {
	return NewApp(cfg, pool).Router
}
