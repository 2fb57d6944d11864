package handler

import (
	"net/http"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Admin options (service levels, debt statuses, lawful bases)
// ============================================================

// optionKind reads {kind}, answering 404 itself for unknown lists.
func optionKind(w http.ResponseWriter, r *http.Request) (domain.OptionKind, bool) {
	kind := domain.OptionKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeError(w, http.StatusNotFound, "unknown option list "+string(kind))
		return "", false
	}
	return kind, true
}

func listAllOptionsHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/options")
		defer span.End()

		set, err := service.NewOptionsManager(ClientFromContext(ctx).AdminConfig(), logger).LoadAll(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(set))
	}
}

func listOptionsHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/options/{kind}")
		defer span.End()

		kind, ok := optionKind(w, r)
		if !ok {
			return
		}
		span.SetAttributes(attribute.String("option.kind", string(kind)))

		opts, err := service.NewOptionsManager(ClientFromContext(ctx).AdminConfig(), logger).List(ctx, kind)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(opts))
	}
}

func createOptionHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/options/{kind}")
		defer span.End()

		kind, ok := optionKind(w, r)
		if !ok {
			return
		}
		var in domain.OptionInput
		if !decodeJSON(w, r, &in) {
			return
		}

		opt, err := service.NewOptionsManager(ClientFromContext(ctx).AdminConfig(), logger).Create(ctx, kind, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, domain.OK(opt))
	}
}

func updateOptionHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/admin/options/{kind}/{id}")
		defer span.End()

		kind, ok := optionKind(w, r)
		if !ok {
			return
		}
		var in domain.OptionInput
		if !decodeJSON(w, r, &in) {
			return
		}

		opt, err := service.NewOptionsManager(ClientFromContext(ctx).AdminConfig(), logger).Update(ctx, kind, chi.URLParam(r, "id"), in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(opt))
	}
}

func deleteOptionHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/admin/options/{kind}/{id}")
		defer span.End()

		kind, ok := optionKind(w, r)
		if !ok {
			return
		}

		if err := service.NewOptionsManager(ClientFromContext(ctx).AdminConfig(), logger).Delete(ctx, kind, chi.URLParam(r, "id")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.Done())
	}
}

func toggleOptionHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/options/{kind}/{id}/toggle")
		defer span.End()

		kind, ok := optionKind(w, r)
		if !ok {
			return
		}

		opt, err := service.NewOptionsManager(ClientFromContext(ctx).AdminConfig(), logger).ToggleActive(ctx, kind, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(opt))
	}
}

func defaultOptionHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/options/{kind}/{id}/default")
		defer span.End()

		kind, ok := optionKind(w, r)
		if !ok {
			return
		}

		opt, err := service.NewOptionsManager(ClientFromContext(ctx).AdminConfig(), logger).SetDefault(ctx, kind, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(opt))
	}
}
