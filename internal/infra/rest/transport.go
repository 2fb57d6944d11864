package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/resilience"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	msgNoResponse    = "Network error - no response received"
	msgRequestConfig = "Request configuration error"
	msgBadBody       = "invalid response body"
	msgBreakerOpen   = "circuit breaker open"
)

// request describes one call against the API.
type request struct {
	op     string
	cap    domain.Capability
	method string
	path   string
	query  url.Values
	body   any

	// raw replaces the JSON body (multipart uploads).
	raw         []byte
	contentType string

	// public calls go out without a session.
	public bool
}

// do runs r through capability and session checks, the bulkhead, the breaker
// and retries, then decodes a 2xx body into out (nil discards it).
func (c *Client) do(ctx context.Context, r request, out any) (err error) {
	if !c.caps.Has(r.cap) {
		return domain.NotImplemented(r.op)
	}
	token := c.session.Token()
	if !r.public && token == "" {
		return domain.Unauthenticated()
	}

	ctx, span := tracer.Start(ctx, "REST."+r.op)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", r.method),
		attribute.String("http.route", r.path),
	)

	start := time.Now()
	defer func() {
		c.t.metrics.ObserveCall(adapterName, r.op, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	payload, contentType := r.raw, r.contentType
	if payload == nil && r.body != nil {
		payload, err = json.Marshal(r.body)
		if err != nil {
			return &domain.NetworkError{Message: msgRequestConfig, Err: err}
		}
	}
	if contentType == "" {
		contentType = "application/json"
	}

	requestID := uuid.NewString()
	hc, baseURL := c.t.snapshot()

	retryable := func(error) bool { return false }
	if idempotent(r.method) {
		retryable = transient
	}

	err = c.t.bh.Do(ctx, func() error {
		_, cbErr := c.t.cb.Execute(func() (any, error) {
			return nil, resilience.RetryIf(ctx, c.t.cfg, retryable, func() error {
				body, err := c.send(ctx, hc, baseURL, r, token, requestID, payload, contentType)
				if err != nil {
					return err
				}
				return decode(body, out)
			})
		})
		return cbErr
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.t.logger.Warn("rest: circuit breaker rejected call", zap.String("op", r.op))
		return &domain.NetworkError{Message: msgBreakerOpen, Err: err}
	case domain.Classify(err) == domain.KindUnknown:
		// context cancellation surfaced by the retry loop or bulkhead
		return &domain.NetworkError{Message: msgNoResponse, Err: err}
	}
	return err
}

func (c *Client) send(ctx context.Context, hc *http.Client, baseURL string, r request, token, requestID string, payload []byte, contentType string) ([]byte, error) {
	u := baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, &domain.NetworkError{Message: msgRequestConfig, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		c.t.logger.Error("rest: request failed",
			zap.String("op", r.op),
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, &domain.NetworkError{Message: msgNoResponse, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Message: msgNoResponse, Err: err}
	}

	if resp.StatusCode >= 300 {
		c.t.logger.Warn("rest: error response",
			zap.String("op", r.op),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", requestID),
		)
		return nil, translateError(resp.StatusCode, respBody)
	}

	c.t.logger.Debug("rest: response",
		zap.String("op", r.op),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(respBody)),
	)
	return respBody, nil
}

func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.NetworkError{Message: msgBadBody, Err: err}
	}
	return nil
}

// problem is the error body of the API (RFC 7807 plus an errors map).
type problem struct {
	Title   string              `json:"title"`
	Detail  string              `json:"detail"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func translateError(status int, body []byte) error {
	var p problem
	_ = json.Unmarshal(body, &p)

	if status == http.StatusBadRequest && len(p.Errors) > 0 {
		return &domain.ValidationError{
			Message: firstNonEmpty(p.Title, "Validation failed"),
			Fields:  p.Errors,
		}
	}

	var details any
	if len(bytes.TrimSpace(body)) > 0 {
		if json.Unmarshal(body, &details) != nil {
			details = string(body)
		}
	}
	return &domain.APIError{
		Status:  status,
		Message: firstNonEmpty(p.Title, p.Detail, p.Message, "HTTP Error"),
		Details: details,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// transient errors are worth another attempt: no response, or a gateway failure.
func transient(err error) bool {
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return netErr.Message == msgNoResponse
	}
	switch domain.StatusOf(err) {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// backendHealthy keeps client-side failures from tripping the breaker.
func backendHealthy(err error) bool {
	if domain.Classify(err) == domain.KindValidation {
		return true
	}
	status := domain.StatusOf(err)
	return status > 0 && status < 500
}

// ---- envelope helpers ----

func one[T any](ctx context.Context, c *Client, r request) (domain.Response[T], error) {
	var out domain.Response[T]
	if err := c.do(ctx, r, &out); err != nil {
		return domain.Response[T]{}, err
	}
	return out, nil
}

func page[T any](ctx context.Context, c *Client, r request) (domain.Page[T], error) {
	var out domain.Page[T]
	if err := c.do(ctx, r, &out); err != nil {
		return domain.Page[T]{}, err
	}
	out.Normalize()
	return out, nil
}

func empty(ctx context.Context, c *Client, r request) (domain.Empty, error) {
	if err := c.do(ctx, r, nil); err != nil {
		return domain.Empty{}, err
	}
	return domain.Done(), nil
}

func seg(s string) string {
	return "/" + url.PathEscape(s)
}
