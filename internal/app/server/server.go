package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"payguard/internal/domain/audit"
	"payguard/internal/domain/employee"
	"payguard/internal/domain/payroll"
	"payguard/internal/domain/risk"
	"payguard/internal/domain/verification"
	"payguard/internal/platform/config"
	"payguard/internal/platform/db"
	"payguard/internal/platform/email"
	"payguard/internal/platform/events"
	"payguard/internal/platform/geo"
	"payguard/internal/platform/jobs"
	"payguard/internal/platform/metrics"
	"payguard/internal/platform/verdict"
	"payguard/internal/transport/http/api"
	audithandler "payguard/internal/transport/http/handlers/audit"
	employeehandler "payguard/internal/transport/http/handlers/employee"
	payrollhandler "payguard/internal/transport/http/handlers/payroll"
	verificationhandler "payguard/internal/transport/http/handlers/verification"
	"payguard/internal/transport/http/middleware"
)

type App struct {
	Config    config.Config
	DB        *pgxpool.Pool
	Router    http.Handler
	publisher events.Publisher
	jobs      *jobs.Service
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}

	collector := metrics.New()
	geoResolver := geo.New(cfg.GeoProviderURL, cfg.CollaboratorTimeout)
	verdictClient := verdict.New(cfg.VerdictProviderURL, cfg.CollaboratorTimeout)

	publisher, err := events.New(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		// A dead broker degrades to the logging noop; the core
		// decision path stays up.
		slog.Warn("event broker unavailable, publishing disabled", "err", err)
		publisher, _ = events.New("", cfg.AMQPExchange)
	}

	employeeStore := employee.NewStore(pool)
	riskStore := risk.NewStore(pool)
	requestStore := verification.NewStore(pool)
	auditStore := audit.NewStore(pool)
	payrollStore := payroll.NewStore(pool)

	employeeSvc := employee.NewService(employeeStore)
	evaluator := risk.NewEvaluator(riskStore, geoResolver)
	auditSvc := audit.NewService(auditStore)
	verificationSvc := verification.NewService(
		employeeStore, requestStore, evaluator, auditSvc, verdictClient,
		email.New(cfg), publisher,
		verification.Settings{OTPTTL: cfg.OTPTTL, OTPMaxAttempts: cfg.OTPMaxAttempts, EmailFrom: cfg.EmailFrom},
	)
	payrollSvc := payroll.NewService(payrollStore, employeeStore, payroll.Settings{
		CoolingOff: cfg.CoolingOff,
		Workers:    cfg.PayrollWorkers,
	})

	jobSvc := jobs.New(payrollSvc, cfg)
	jobSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

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
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		employeehandler.NewHandler(employeeSvc).RegisterRoutes(r)
		verificationhandler.NewHandler(verificationSvc, collector).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc).RegisterRoutes(r)
	})

	return &App{
		Config:    cfg,
		DB:        pool,
		Router:    router,
		publisher: publisher,
		jobs:      jobSvc,
	}, nil
}

func (a *App) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	cfg := config.Load()

	ctx := context.Background()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	slog.Info("payguard server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
