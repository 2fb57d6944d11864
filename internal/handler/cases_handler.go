package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Cases
// ============================================================

const maxFormMemory = 32 << 20

// maxUploadBody caps multipart request bodies: one full-size document plus
// room for the form fields.
const maxUploadBody = domain.MaxDocumentSize + 1<<20

// parseMultipart parses a size-capped multipart body, answering 413 or 400
// itself on failure.
func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	err := r.ParseMultipartForm(maxFormMemory)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d MB", maxUploadBody>>20))
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid multipart form")
	return false
}

// readForm decodes a JSON body, or a multipart form whose "payload" field
// holds the JSON and whose "documents" files become attachments. The returned
// closer releases the opened files.
func readForm(w http.ResponseWriter, r *http.Request, dst any) ([]service.Attachment, func(), bool) {
	noop := func() {}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, noop, decodeJSON(w, r, dst)
	}

	if !parseMultipart(w, r) {
		return nil, noop, false
	}
	if err := json.Unmarshal([]byte(r.FormValue("payload")), dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload field")
		return nil, noop, false
	}

	var (
		attachments []service.Attachment
		opened      []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	for _, fh := range r.MultipartForm.File["documents"] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			writeError(w, http.StatusBadRequest, "unreadable file "+fh.Filename)
			return nil, noop, false
		}
		opened = append(opened, f)
		attachments = append(attachments, service.Attachment{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}
	return attachments, closeAll, true
}

func createCaseHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/cases")
		defer span.End()

		var req domain.CreateCaseRequest
		attachments, closeFiles, ok := readForm(w, r, &req)
		if !ok {
			return
		}
		defer closeFiles()

		c := ClientFromContext(ctx)
		out, err := service.NewCaseService(c.Cases(), service.DocumentsOf(c), logger).Create(ctx, req, attachments)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, domain.OK(out))
	}
}

func listCasesHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/cases")
		defer span.End()

		q := r.URL.Query()
		f := domain.CaseFilter{
			ClientID:        q.Get("clientId"),
			AssignedAgentID: q.Get("assignedAgentId"),
			Search:          q.Get("search"),
		}
		f.Cursor, f.Limit = parseLimit(r)
		for _, s := range queryList(r, "status") {
			f.Status = append(f.Status, domain.CaseStatus(s))
		}
		if v, err := strconv.ParseFloat(q.Get("amountMin"), 64); err == nil {
			f.AmountMin = &v
		}
		if v, err := strconv.ParseFloat(q.Get("amountMax"), 64); err == nil {
			f.AmountMax = &v
		}

		c := ClientFromContext(ctx)
		page, err := service.NewCaseService(c.Cases(), nil, logger).List(ctx, f)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}

func getCaseHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/cases/{id}")
		defer span.End()

		c := ClientFromContext(ctx)
		cs, err := service.NewCaseService(c.Cases(), nil, logger).Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(cs))
	}
}
