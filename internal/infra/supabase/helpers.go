package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ============================================================
// HTTP plumbing shared by every table and auth call
// ============================================================

const (
	pgrstObject = "application/vnd.pgrst.object+json"

	msgNoResponse  = "Network connection failed"
	msgBadBody     = "invalid response body"
	msgBreakerOpen = "circuit breaker open"
)

// call describes one request. path is absolute for auth endpoints and a
// table name (plus optional suffix) for PostgREST.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	prefer []string

	// single asks PostgREST for exactly one row; zero rows become PGRST116.
	single bool
	// auth marks GoTrue endpoints: no session needed, errors map to 401.
	auth bool
}

type result struct {
	body   []byte
	header http.Header
}

// gatewayError marks 502/503/504 answers so the retry loop can see them.
type gatewayError struct{ err error }

func (e *gatewayError) Error() string { return e.err.Error() }
func (e *gatewayError) Unwrap() error { return e.err }

func (c *Client) exec(ctx context.Context, k call) (res result, err error) {
	token := c.session.Token()
	if !k.auth && token == "" {
		return result{}, domain.Unauthenticated()
	}

	ctx, span := tracer.Start(ctx, "Supabase."+k.op)
	defer span.End()
	span.SetAttributes(attribute.String("http.method", k.method), attribute.String("db.table", k.path))

	start := time.Now()
	defer func() {
		c.t.metrics.ObserveCall(adapterName, k.op, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	var payload []byte
	if k.body != nil {
		payload, err = json.Marshal(k.body)
		if err != nil {
			return result{}, &domain.NetworkError{Message: "request configuration error", Err: err}
		}
	}

	retryable := func(error) bool { return false }
	if k.method == http.MethodGet || k.method == http.MethodHead {
		retryable = transient
	}

	err = c.t.bh.Do(ctx, func() error {
		_, cbErr := c.t.cb.Execute(func() (any, error) {
			return nil, resilience.RetryIf(ctx, c.t.cfg, retryable, func() error {
				var sendErr error
				res, sendErr = c.send(ctx, k, token, payload)
				return sendErr
			})
		})
		return cbErr
	})

	var gw *gatewayError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &gw):
		return result{}, gw.err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.t.logger.Warn("supabase: circuit breaker rejected call", zap.String("op", k.op))
		return result{}, &domain.NetworkError{Message: msgBreakerOpen, Err: err}
	case domain.Classify(err) == domain.KindUnknown:
		return result{}, &domain.NetworkError{Message: msgNoResponse, Err: err}
	}
	return result{}, err
}

func (c *Client) send(ctx context.Context, k call, token string, payload []byte) (result, error) {
	u := c.t.baseURL + k.path
	if !k.auth {
		u = c.t.baseURL + "/rest/v1/" + k.path
	}
	if len(k.query) > 0 {
		u += "?" + k.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, k.method, u, body)
	if err != nil {
		c.t.logger.Error("supabase: failed to create request",
			zap.String("method", k.method),
			zap.String("path", k.path),
			zap.Error(err),
		)
		return result{}, &domain.NetworkError{Message: "request configuration error", Err: err}
	}

	bearer := token
	if bearer == "" {
		bearer = c.t.anonKey
	}
	req.Header.Set("apikey", c.t.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")
	if k.single {
		req.Header.Set("Accept", pgrstObject)
	} else {
		req.Header.Set("Accept", "application/json")
	}
	if len(k.prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(k.prefer, ","))
	}

	resp, err := c.t.httpClient.Do(req)
	if err != nil {
		c.t.logger.Error("supabase: request failed",
			zap.String("method", k.method),
			zap.String("path", k.path),
			zap.Error(err),
		)
		return result{}, &domain.NetworkError{Message: msgNoResponse, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return result{}, &domain.NetworkError{Message: msgNoResponse, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.t.logger.Warn("supabase: non-2xx response",
			zap.String("method", k.method),
			zap.String("path", k.path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		translated := translateError(resp.StatusCode, respBody, k.auth)
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return result{}, &gatewayError{err: translated}
		}
		return result{}, translated
	}

	c.t.logger.Debug("supabase: request OK",
		zap.String("method", k.method),
		zap.String("path", k.path),
		zap.Int("status", resp.StatusCode),
	)
	return result{body: respBody, header: resp.Header}, nil
}

// storeError covers both PostgREST and GoTrue error bodies.
type storeError struct {
	Code             json.RawMessage `json:"code"`
	Message          string          `json:"message"`
	Details          json.RawMessage `json:"details"`
	Hint             string          `json:"hint"`
	Error            string          `json:"error"`
	ErrorCode        string          `json:"error_code"`
	ErrorDescription string          `json:"error_description"`
	Msg              string          `json:"msg"`
}

// code returns the PostgREST code; GoTrue sends a numeric code, which is ignored.
func (e storeError) code() string {
	var s string
	if json.Unmarshal(e.Code, &s) == nil {
		return s
	}
	return ""
}

func (e storeError) message() string {
	for _, m := range []string{e.Message, e.ErrorDescription, e.Msg, e.Error} {
		if m != "" {
			return m
		}
	}
	return ""
}

func translateError(status int, body []byte, auth bool) error {
	var se storeError
	_ = json.Unmarshal(body, &se)
	code, msg := se.code(), se.message()

	if auth {
		switch {
		case se.Error == "invalid_grant", se.ErrorCode == "invalid_credentials",
			status == http.StatusBadRequest, status == http.StatusUnauthorized:
			return &domain.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials", Details: msg}
		}
	}

	switch {
	case code == "PGRST116":
		return &domain.APIError{Status: http.StatusNotFound, Message: "Resource not found", Details: msg}
	case code == "PGRST301", code == "PGRST302":
		return &domain.APIError{Status: http.StatusUnauthorized, Message: "Not authenticated", Details: msg}
	case code != "":
		if msg == "" {
			msg = "Database error"
		}
		return &domain.APIError{Status: http.StatusBadRequest, Message: msg, Details: map[string]string{"code": code, "hint": se.Hint}}
	case strings.Contains(strings.ToLower(msg), "network"):
		return &domain.NetworkError{Message: msg}
	}
	if msg == "" {
		msg = "Unknown error occurred"
	}
	return &domain.APIError{Status: http.StatusInternalServerError, Message: msg, Details: status}
}

func transient(err error) bool {
	var gw *gatewayError
	if errors.As(err, &gw) {
		return true
	}
	var netErr *domain.NetworkError
	return errors.As(err, &netErr) && netErr.Message == msgNoResponse
}

// storeHealthy keeps 4xx answers from tripping the breaker.
func storeHealthy(err error) bool {
	var gw *gatewayError
	if errors.As(err, &gw) {
		return false
	}
	status := domain.StatusOf(err)
	return status > 0 && status < 500
}

// ============================================================
// Row helpers
// ============================================================

func decodeInto(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.NetworkError{Message: msgBadBody, Err: err}
	}
	return nil
}

func eq(v string) string { return "eq." + v }

func in[S ~string](values []S) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return "in.(" + strings.Join(parts, ",") + ")"
}

func byID(id string) url.Values {
	return url.Values{"id": {eq(id)}}
}

// selectOne reads exactly one row.
func selectOne[R any](ctx context.Context, c *Client, op, table string, q url.Values) (R, error) {
	var row R
	res, err := c.exec(ctx, call{op: op, method: http.MethodGet, path: table, query: q, single: true})
	if err != nil {
		return row, err
	}
	return row, decodeInto(res.body, &row)
}

// selectAll reads every row matching q.
func selectAll[R any](ctx context.Context, c *Client, op, table string, q url.Values) ([]R, error) {
	res, err := c.exec(ctx, call{op: op, method: http.MethodGet, path: table, query: q})
	if err != nil {
		return nil, err
	}
	rows := []R{}
	return rows, decodeInto(res.body, &rows)
}

// insertOne inserts row and returns the stored representation.
func insertOne[R any](ctx context.Context, c *Client, op, table string, row R) (R, error) {
	var out R
	res, err := c.exec(ctx, call{
		op: op, method: http.MethodPost, path: table, body: row,
		prefer: []string{"return=representation"}, single: true,
	})
	if err != nil {
		return out, err
	}
	return out, decodeInto(res.body, &out)
}

func insertMany[R any](ctx context.Context, c *Client, op, table string, rows []R) ([]R, error) {
	if len(rows) == 0 {
		return []R{}, nil
	}
	res, err := c.exec(ctx, call{
		op: op, method: http.MethodPost, path: table, body: rows,
		prefer: []string{"return=representation"},
	})
	if err != nil {
		return nil, err
	}
	out := []R{}
	return out, decodeInto(res.body, &out)
}

// patchOne updates the single row matching q; zero matches is a 404.
func patchOne[R any](ctx context.Context, c *Client, op, table string, q url.Values, p patch) (R, error) {
	var out R
	res, err := c.exec(ctx, call{
		op: op, method: http.MethodPatch, path: table, query: q, body: p,
		prefer: []string{"return=representation"}, single: true,
	})
	if err != nil {
		return out, err
	}
	return out, decodeInto(res.body, &out)
}

// patchAll updates every row matching q and returns how many changed.
func (c *Client) patchAll(ctx context.Context, op, table string, q url.Values, p patch) (int, error) {
	res, err := c.exec(ctx, call{
		op: op, method: http.MethodPatch, path: table, query: q, body: p,
		prefer: []string{"return=representation"},
	})
	if err != nil {
		return 0, err
	}
	var rows []json.RawMessage
	if err := decodeInto(res.body, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// deleteOne removes the row with id; a missing row is a 404.
func (c *Client) deleteOne(ctx context.Context, op, table, id string) error {
	_, err := c.exec(ctx, call{
		op: op, method: http.MethodDelete, path: table, query: byID(id),
		prefer: []string{"return=representation"}, single: true,
	})
	return err
}

func (c *Client) deleteAll(ctx context.Context, op, table string, q url.Values) error {
	_, err := c.exec(ctx, call{op: op, method: http.MethodDelete, path: table, query: q})
	return err
}

// count runs a HEAD request and reads the exact total from Content-Range.
func (c *Client) count(ctx context.Context, op, table string, q url.Values) (int, error) {
	if q == nil {
		q = url.Values{}
	}
	q.Set("select", "id")
	res, err := c.exec(ctx, call{op: op, method: http.MethodHead, path: table, query: q, prefer: []string{"count=exact"}})
	if err != nil {
		return 0, err
	}
	total, ok := contentRangeTotal(res.header.Get("Content-Range"))
	if !ok {
		return 0, &domain.NetworkError{Message: "missing Content-Range total"}
	}
	return total, nil
}

// patch is the body of a partial update; only set keys are sent.
type patch map[string]any

func (p patch) str(key string, v *string) patch {
	if v != nil {
		p[key] = nullable(*v)
	}
	return p
}

func (p patch) set(key string, v any) patch {
	p[key] = v
	return p
}

func (p patch) empty() bool { return len(p) == 0 }

// nullable sends empty strings as SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ============================================================
// Pagination: opaque decimal offset cursor + Content-Range totals
// ============================================================

const (
	defaultLimit = 20
	maxLimit     = 100
)

func window(cursor string, limit int) (offset, size int, err error) {
	size = limit
	if size <= 0 {
		size = defaultLimit
	}
	if size > maxLimit {
		size = maxLimit
	}
	if cursor == "" {
		return 0, size, nil
	}
	offset, convErr := strconv.Atoi(cursor)
	if convErr != nil || offset < 0 {
		verr := &domain.ValidationError{Message: "invalid cursor"}
		verr.Add("cursor", "must be a cursor returned by a previous page")
		return 0, 0, verr
	}
	return offset, size, nil
}

// contentRangeTotal parses "0-19/57" or "*/0".
func contentRangeTotal(h string) (int, bool) {
	i := strings.LastIndexByte(h, '/')
	if i < 0 || h[i+1:] == "*" {
		return 0, false
	}
	n, err := strconv.Atoi(h[i+1:])
	return n, err == nil
}

// listPage fetches one window of table rows and converts them with conv.
func listPage[R, T any](ctx context.Context, c *Client, op, table string, q url.Values, cursor string, limit int, conv func(R) T) (domain.Page[T], error) {
	offset, size, err := window(cursor, limit)
	if err != nil {
		return domain.Page[T]{}, err
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("limit", strconv.Itoa(size))
	q.Set("offset", strconv.Itoa(offset))
	if q.Get("order") == "" {
		q.Set("order", "created_at.desc")
	}

	res, err := c.exec(ctx, call{op: op, method: http.MethodGet, path: table, query: q, prefer: []string{"count=exact"}})
	if err != nil {
		return domain.Page[T]{}, err
	}
	var rows []R
	if err := decodeInto(res.body, &rows); err != nil {
		return domain.Page[T]{}, err
	}

	total, ok := contentRangeTotal(res.header.Get("Content-Range"))
	if !ok {
		total = offset + len(rows)
	}
	items := make([]T, 0, len(rows))
	for _, r := range rows {
		items = append(items, conv(r))
	}

	next := ""
	if offset+len(rows) < total {
		next = strconv.Itoa(offset + len(rows))
	}
	return domain.NewPage(items, total, next), nil
}

// searchClause is the PostgREST or=() filter for a free-text query.
func searchClause(q string, columns ...string) string {
	q = strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '*', '"':
			return -1
		}
		return r
	}, strings.TrimSpace(q))
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, col+".ilike.*"+q+"*")
	}
	return "(" + strings.Join(parts, ",") + ")"
}
