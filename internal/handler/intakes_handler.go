package handler

import (
	"net/http"
	"strconv"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Case intakes
// ============================================================

// listIntakesHandler scopes the list to the caller: clients see their own
// intakes, agents the ones assigned to them.
func listIntakesHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/case-intakes")
		defer span.End()

		c := ClientFromContext(ctx)
		user, err := service.NewAuthService(c.Auth(), logger).Me(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("user.role", string(user.Role)))

		q := service.IntakeQuery{
			Status: domain.IntakeStatus(r.URL.Query().Get("status")),
			Search: r.URL.Query().Get("search"),
		}
		q.Cursor, q.Limit = parseLimit(r)

		list, err := service.NewIntakeListing(c.CaseIntakes(), logger).List(ctx, user, q)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(list))
	}
}

// submitIntakeHandler serves both POST /case-intakes and
// POST /case-intakes/{id}/submit; the latter submits an existing draft.
func submitIntakeHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" /v1/case-intakes/submit")
		defer span.End()

		var req domain.CreateCaseIntakeRequest
		attachments, closeFiles, ok := readForm(w, r, &req)
		if !ok {
			return
		}
		defer closeFiles()

		id := chi.URLParam(r, "id")
		span.SetAttributes(attribute.String("intake.id", id))

		c := ClientFromContext(ctx)
		out, err := service.NewIntakeWizard(c.CaseIntakes(), service.DocumentsOf(c), logger).Submit(ctx, id, req, attachments)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, domain.OK(out))
	}
}

func saveDraftHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" /v1/case-intakes/drafts")
		defer span.End()

		var req domain.CreateCaseIntakeRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		id := chi.URLParam(r, "id")
		c := ClientFromContext(ctx)
		intake, err := service.NewIntakeWizard(c.CaseIntakes(), nil, logger).SaveDraft(ctx, id, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		status := http.StatusOK
		if id == "" {
			status = http.StatusCreated
		}
		writeJSON(w, status, domain.OK(intake))
	}
}

func previewIntakeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateCaseIntakeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(service.NewIntakeWizard(nil, nil, zap.NewNop()).Preview(req)))
	}
}

func validateStepHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		step, err := strconv.Atoi(chi.URLParam(r, "step"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "step must be a number")
			return
		}

		var req domain.CreateCaseIntakeRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := service.NewIntakeWizard(nil, nil, zap.NewNop()).ValidateStep(step, req); err != nil {
			handleServiceError(w, err, zap.NewNop())
			return
		}
		writeJSON(w, http.StatusOK, domain.Done())
	}
}

func getIntakeHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/case-intakes/{id}")
		defer span.End()

		resp, err := ClientFromContext(ctx).CaseIntakes().GetCaseIntake(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ============================================================
// Acceptance review
// ============================================================

func loadReviewHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/case-intakes/{id}/review")
		defer span.End()

		c := ClientFromContext(ctx)
		rc, err := service.NewAcceptanceReviewer(c.CaseIntakes(), service.UsersOf(c), logger).Load(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(rc))
	}
}

func submitReviewHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/case-intakes/{id}/review")
		defer span.End()

		var review domain.AcceptanceReview
		if !decodeJSON(w, r, &review) {
			return
		}
		span.SetAttributes(attribute.String("review.action", string(review.Action)))

		c := ClientFromContext(ctx)
		intake, err := service.NewAcceptanceReviewer(c.CaseIntakes(), service.UsersOf(c), logger).Submit(ctx, chi.URLParam(r, "id"), review)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(intake))
	}
}

// ============================================================
// Intake messages
// ============================================================

func listMessagesHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/case-intakes/{id}/messages")
		defer span.End()

		resp, err := ClientFromContext(ctx).CaseIntakes().GetCaseIntakeMessages(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func addMessageHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/case-intakes/{id}/messages")
		defer span.End()

		var msg domain.NewCaseMessage
		if !decodeJSON(w, r, &msg) {
			return
		}
		if msg.Content == "" {
			ve := &domain.ValidationError{Message: "Invalid message"}
			ve.Add("content", "is required")
			handleServiceError(w, ve, logger)
			return
		}

		resp, err := ClientFromContext(ctx).CaseIntakes().AddCaseIntakeMessage(ctx, chi.URLParam(r, "id"), msg)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}
