package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// metrics may be nil; /metrics then serves the default registry.
func NewRouter(backend Backend, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(backend, logger))
	r.Get("/readyz", readyzHandler(backend))
	if metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Backend selection
		r.Get("/backend", backendSnapshotHandler(backend))
		r.Group(func(r chi.Router) {
			r.Use(BackendClientMiddleware(backend, logger))
			r.Use(RequireRole(logger, domain.RoleAdmin))
			r.Put("/backend/mode", backendSwitchHandler(backend, logger))
			r.Post("/backend/test", backendTestHandler(backend, logger))
		})

		r.Group(func(r chi.Router) {
			r.Use(BackendClientMiddleware(backend, logger))

			// Auth
			r.Post("/auth/login", authLoginHandler(logger))
			r.Post("/auth/refresh", authRefreshHandler(logger))
			r.Post("/auth/logout", authLogoutHandler(logger))
			r.Get("/auth/me", authMeHandler(logger))

			// Cases
			r.Post("/cases", createCaseHandler(logger))
			r.Get("/cases", listCasesHandler(logger))
			r.Get("/cases/{id}", getCaseHandler(logger))

			// Case intakes
			r.Get("/case-intakes", listIntakesHandler(logger))
			r.Post("/case-intakes", submitIntakeHandler(logger))
			r.Post("/case-intakes/drafts", saveDraftHandler(logger))
			r.Put("/case-intakes/drafts/{id}", saveDraftHandler(logger))
			r.Post("/case-intakes/preview", previewIntakeHandler())
			r.Post("/case-intakes/steps/{step}/validate", validateStepHandler())
			r.Get("/case-intakes/{id}", getIntakeHandler(logger))
			r.Post("/case-intakes/{id}/submit", submitIntakeHandler(logger))
			r.Get("/case-intakes/{id}/review", loadReviewHandler(logger))
			r.Post("/case-intakes/{id}/review", submitReviewHandler(logger))
			r.Get("/case-intakes/{id}/messages", listMessagesHandler(logger))
			r.Post("/case-intakes/{id}/messages", addMessageHandler(logger))

			// Admin options
			r.Get("/admin/options", listAllOptionsHandler(logger))
			r.Get("/admin/options/{kind}", listOptionsHandler(logger))
			r.Post("/admin/options/{kind}", createOptionHandler(logger))
			r.Patch("/admin/options/{kind}/{id}", updateOptionHandler(logger))
			r.Delete("/admin/options/{kind}/{id}", deleteOptionHandler(logger))
			r.Post("/admin/options/{kind}/{id}/toggle", toggleOptionHandler(logger))
			r.Post("/admin/options/{kind}/{id}/default", defaultOptionHandler(logger))

			// Documents
			r.Post("/documents", uploadDocumentHandler(logger))

			// Analytics
			r.Get("/analytics/dashboard", dashboardHandler(logger))
		})
	})

	return r
}

// healthzHandler reports this process and the selected backend.
func healthzHandler(backend Backend, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "collections-bfa", Status: "healthy", LastChecked: now},
		}

		if backend != nil {
			start := time.Now()
			err := backend.TestConnection(r.Context())
			svc := domain.ServiceHealth{
				Name:        string(backend.Snapshot().Mode),
				Status:      "healthy",
				LatencyMs:   time.Since(start).Milliseconds(),
				LastChecked: now,
			}
			if err != nil {
				svc.Status, svc.Error = "degraded", err.Error()
				if domain.Classify(err) == domain.KindConfig {
					svc.Status = "unhealthy"
				}
				logger.Warn("health check: backend not healthy", zap.String("status", svc.Status), zap.Error(err))
			}
			services = append(services, svc)
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

// readyzHandler is ready once an adapter can be built from the configuration.
func readyzHandler(backend Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if backend != nil {
			if _, err := backend.Client(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
