package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/apiclient"
	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Backend selection
// ============================================================

// switchModeRequest selects a mode only. Backend URLs and keys come from
// configuration or the CLI, never from a request body.
type switchModeRequest struct {
	Mode      string `json:"mode"`
	TimeoutMs int    `json:"timeoutMs,omitempty"`
}

func backendSnapshotHandler(backend Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.OK(backend.Snapshot()))
	}
}

func backendSwitchHandler(backend Backend, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "PUT /v1/backend/mode")
		defer span.End()

		var req switchModeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Mode == "" {
			ve := &domain.ValidationError{Message: "Invalid mode switch"}
			ve.Add("mode", "is required")
			handleServiceError(w, ve, logger)
			return
		}
		span.SetAttributes(attribute.String("backend.mode", req.Mode))

		_, err := backend.SwitchMode(req.Mode, apiclient.Overrides{
			Timeout: time.Duration(req.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(backend.Snapshot()))
	}
}

func backendTestHandler(backend Backend, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/backend/test")
		defer span.End()

		start := time.Now()
		if err := backend.TestConnection(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(map[string]any{
			"mode":      backend.Snapshot().Mode,
			"latencyMs": time.Since(start).Milliseconds(),
		}))
	}
}
