// Package rest is the external-REST adapter: every API group is a thin
// pass-through to a versioned JSON/HTTP API.
package rest

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/observability"
	"github.com/boddenberg/collections-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/collections-bfa-go/internal/infra/session"
	"github.com/boddenberg/collections-bfa-go/internal/port"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const adapterName = "rest"

var tracer = otel.Tracer("rest")

// Options configures New.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Resilience resilience.Config

	// Disabled capabilities fail fast with APIError 501.
	Disabled []domain.Capability

	// HTTPClient is copied; Timeout applies to the copy. Optional.
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// transport is shared by a client and every sibling made with WithToken.
type transport struct {
	mu      sync.RWMutex
	http    *http.Client
	baseURL string

	cb      *gobreaker.CircuitBreaker
	bh      *resilience.Bulkhead
	cfg     resilience.Config
	logger  *zap.Logger
	metrics *observability.Metrics
}

func (t *transport) snapshot() (*http.Client, string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.http, t.baseURL
}

// Client implements port.Client against the external REST API.
type Client struct {
	t       *transport
	session *session.Holder
	caps    domain.CapabilitySet
}

var _ port.Client = (*Client)(nil)

// New validates opts and builds the adapter. No request is sent.
func New(opts Options) (*Client, error) {
	base, err := normalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	}

	return &Client{
		t: &transport{
			http:    hc,
			baseURL: base,
			cb:      resilience.NewCircuitBreaker("rest-api", backendHealthy),
			bh:      resilience.NewBulkhead(opts.Resilience.MaxConcurrency),
			cfg:     opts.Resilience,
			logger:  logger.With(zap.String("adapter", adapterName)),
			metrics: opts.Metrics,
		},
		session: session.New(""),
		caps:    domain.NewCapabilitySet(domain.AllCapabilities...).Without(opts.Disabled...),
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &domain.ConfigError{Key: "API_BASE_URL", Message: "base URL is required for the external REST backend"}
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &domain.ConfigError{Key: "API_BASE_URL", Message: "invalid base URL " + raw}
	}
	return strings.TrimRight(raw, "/"), nil
}

func (c *Client) Auth() port.AuthAPI               { return authAPI{c} }
func (c *Client) Cases() port.CasesAPI             { return casesAPI{c} }
func (c *Client) CaseIntakes() port.CaseIntakesAPI { return intakesAPI{c} }
func (c *Client) Approvals() port.ApprovalsAPI     { return approvalsAPI{c} }
func (c *Client) Invoices() port.InvoicesAPI       { return invoicesAPI{c} }
func (c *Client) Gdpr() port.GdprAPI               { return gdprAPI{c} }
func (c *Client) Users() port.UsersAPI             { return usersAPI{c} }
func (c *Client) Tariffs() port.TariffsAPI         { return tariffsAPI{c} }
func (c *Client) Templates() port.TemplatesAPI     { return templatesAPI{c} }
func (c *Client) Retention() port.RetentionAPI     { return retentionAPI{c} }
func (c *Client) Analytics() port.AnalyticsAPI     { return analyticsAPI{c} }
func (c *Client) AdminConfig() port.AdminConfigAPI { return adminAPI{c} }
func (c *Client) Documents() port.DocumentsAPI     { return documentsAPI{c} }

func (c *Client) Mode() domain.Mode                  { return domain.ModeExternalREST }
func (c *Client) Capabilities() domain.CapabilitySet { return c.caps }

func (c *Client) SetAuthToken(token string) { c.session.SetToken(token) }
func (c *Client) ClearAuthToken()           { c.session.Clear() }

// SetBaseURL repoints the shared transport. Requests already built keep the old URL.
func (c *Client) SetBaseURL(raw string) error {
	base, err := normalizeBaseURL(raw)
	if err != nil {
		return err
	}
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	c.t.baseURL = base
	c.t.logger.Info("rest: base URL changed", zap.String("base_url", base))
	return nil
}

// SetTimeout changes the per-request timeout of the shared transport.
func (c *Client) SetTimeout(d time.Duration) error {
	if d <= 0 {
		return &domain.ConfigError{Key: "HTTP_TIMEOUT", Message: "timeout must be positive"}
	}
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	hc := *c.t.http
	hc.Timeout = d
	c.t.http = &hc
	return nil
}

func (c *Client) WithToken(token string) port.Client {
	return &Client{t: c.t, session: session.New(token), caps: c.caps}
}

func (c *Client) WithSession(access, refresh string) port.Client {
	return &Client{t: c.t, session: session.Resume(access, refresh), caps: c.caps}
}

// Ping succeeds when the API answers at all below 500; authentication is not required.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, request{
		op:     "Ping",
		cap:    domain.CapAuth,
		method: http.MethodGet,
		path:   "/analytics/dashboard",
		public: true,
	}, nil)
	if err == nil {
		return nil
	}
	if status := domain.StatusOf(err); status > 0 && status < 500 {
		return nil
	}
	if domain.Classify(err) == domain.KindValidation {
		return nil
	}
	return err
}
