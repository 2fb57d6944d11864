// Package supabase is the embedded-store adapter: GoTrue for auth, PostgREST
// for rows (row-level security applies with the caller's bearer) and an
// S3-compatible object store for documents and generated files.
package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/cache"
	"github.com/boddenberg/collections-bfa-go/internal/infra/observability"
	"github.com/boddenberg/collections-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/collections-bfa-go/internal/infra/session"
	"github.com/boddenberg/collections-bfa-go/internal/port"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const adapterName = "supabase"

var tracer = otel.Tracer("supabase")

// Options configures New.
type Options struct {
	URL        string
	AnonKey    string
	Timeout    time.Duration
	Resilience resilience.Config
	CacheTTL   time.Duration

	// Store enables documents, invoice PDFs and GDPR exports. Optional.
	Store port.ObjectStore

	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// transport is shared between a client and its WithToken siblings.
type transport struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string

	cb      *gobreaker.CircuitBreaker
	bh      *resilience.Bulkhead
	cfg     resilience.Config
	logger  *zap.Logger
	metrics *observability.Metrics

	store   port.ObjectStore
	options *cache.InMemory[[]byte]
}

// Client implements port.Client against a Supabase project.
type Client struct {
	t       *transport
	session *session.Holder
	caps    domain.CapabilitySet
}

var _ port.Client = (*Client)(nil)

// New validates opts and builds the adapter. No request is sent.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.URL)
	if raw == "" {
		return nil, &domain.ConfigError{Key: "SUPABASE_URL", Message: "project URL is required for the embedded store"}
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &domain.ConfigError{Key: "SUPABASE_URL", Message: "invalid project URL " + raw}
	}
	if strings.TrimSpace(opts.AnonKey) == "" {
		return nil, &domain.ConfigError{Key: "SUPABASE_ANON_KEY", Message: "anon key is required for the embedded store"}
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

	caps := domain.NewCapabilitySet(
		domain.CapAuth, domain.CapCases, domain.CapCaseIntakes, domain.CapInvoices,
		domain.CapGdpr, domain.CapAnalytics, domain.CapAdminConfig,
	)
	if opts.Store != nil {
		caps = domain.NewCapabilitySet(append(caps.List(), domain.CapDocuments, domain.CapInvoicePDF, domain.CapGdprExport)...)
	}

	return &Client{
		t: &transport{
			httpClient: hc,
			baseURL:    strings.TrimRight(raw, "/"),
			anonKey:    opts.AnonKey,
			cb:         resilience.NewCircuitBreaker("supabase", storeHealthy),
			bh:         resilience.NewBulkhead(opts.Resilience.MaxConcurrency),
			cfg:        opts.Resilience,
			logger:     logger.With(zap.String("adapter", adapterName)),
			metrics:    opts.Metrics,
			store:      opts.Store,
			options:    cache.New[[]byte](opts.CacheTTL),
		},
		session: session.New(""),
		caps:    caps,
	}, nil
}

func (c *Client) Auth() port.AuthAPI               { return authAPI{c} }
func (c *Client) Cases() port.CasesAPI             { return casesAPI{c} }
func (c *Client) CaseIntakes() port.CaseIntakesAPI { return intakesAPI{c} }
func (c *Client) Approvals() port.ApprovalsAPI     { return approvalsAPI{} }
func (c *Client) Invoices() port.InvoicesAPI       { return invoicesAPI{c} }
func (c *Client) Gdpr() port.GdprAPI               { return gdprAPI{c} }
func (c *Client) Users() port.UsersAPI             { return usersAPI{} }
func (c *Client) Tariffs() port.TariffsAPI         { return tariffsAPI{} }
func (c *Client) Templates() port.TemplatesAPI     { return templatesAPI{} }
func (c *Client) Retention() port.RetentionAPI     { return retentionAPI{} }
func (c *Client) Analytics() port.AnalyticsAPI     { return analyticsAPI{c} }
func (c *Client) AdminConfig() port.AdminConfigAPI { return adminAPI{c} }
func (c *Client) Documents() port.DocumentsAPI     { return documentsAPI{c} }

func (c *Client) Mode() domain.Mode                  { return domain.ModeEmbeddedStore }
func (c *Client) Capabilities() domain.CapabilitySet { return c.caps }

func (c *Client) SetAuthToken(token string) { c.session.SetToken(token) }
func (c *Client) ClearAuthToken()           { c.session.Clear() }

// SetBaseURL is not supported: the project URL comes from configuration.
func (c *Client) SetBaseURL(string) error {
	return domain.NotImplemented("SetBaseURL")
}

// SetTimeout is not supported for the same reason as SetBaseURL.
func (c *Client) SetTimeout(time.Duration) error {
	return domain.NotImplemented("SetTimeout")
}

func (c *Client) WithToken(token string) port.Client {
	return &Client{t: c.t, session: session.New(token), caps: c.caps}
}

func (c *Client) WithSession(access, refresh string) port.Client {
	return &Client{t: c.t, session: session.Resume(access, refresh), caps: c.caps}
}

// Ping checks the GoTrue health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.exec(ctx, call{op: "Ping", method: http.MethodGet, path: "/auth/v1/health", auth: true})
	return err
}

// Close stops the option cache janitor.
func (c *Client) Close() {
	c.t.options.Close()
}
