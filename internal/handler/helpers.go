package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error   string              `json:"error"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Details any                 `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON reads the request body into dst, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseLimit reads cursor and limit; limits outside 1..100 are ignored.
func parseLimit(r *http.Request) (cursor string, limit int) {
	q := r.URL.Query()
	cursor = q.Get("cursor")
	if v := q.Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	return cursor, limit
}

// queryList splits repeated and comma separated values of key.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// handleServiceError maps the adapter error taxonomy to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	switch domain.Classify(err) {
	case domain.KindValidation:
		var ve *domain.ValidationError
		errors.As(err, &ve)
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Message, Fields: ve.Fields})
	case domain.KindAPI:
		var apiErr *domain.APIError
		errors.As(err, &apiErr)
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		if status >= 500 && status != http.StatusNotImplemented {
			logger.Error("backend error", zap.Int("status", status), zap.Error(err))
		} else {
			logger.Debug("backend rejected request", zap.Int("status", status), zap.String("error", err.Error()))
		}
		resp := errorResponse{Error: apiErr.Message}
		if status == http.StatusNotImplemented || status == http.StatusNotFound {
			resp.Details = apiErr.Details
		}
		writeJSON(w, status, resp)
	case domain.KindNetwork:
		logger.Error("backend unreachable", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	case domain.KindConfig:
		logger.Error("backend misconfigured", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
