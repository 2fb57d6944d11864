package handler

import (
	"net/http"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// uploadDocumentHandler streams the multipart "file" part to the backend.
func uploadDocumentHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/documents")
		defer span.End()

		if !parseMultipart(w, r) {
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			ve := &domain.ValidationError{Message: "Invalid upload"}
			ve.Add("file", "is required")
			handleServiceError(w, ve, logger)
			return
		}
		defer file.Close()

		span.SetAttributes(
			attribute.String("document.name", header.Filename),
			attribute.Int64("document.size", header.Size),
		)

		resp, err := ClientFromContext(ctx).Documents().Upload(ctx, header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}
