// Package apiclient builds and caches the backend adapter selected by
// configuration. A Factory is created once at startup and shared; it is safe
// for concurrent use.
package apiclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/config"
	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/observability"
	"github.com/boddenberg/collections-bfa-go/internal/infra/rest"
	"github.com/boddenberg/collections-bfa-go/internal/infra/supabase"
	"github.com/boddenberg/collections-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("apiclient")

// Builder constructs an adapter from a resolved backend configuration.
type Builder func(cfg config.Backend) (port.Client, error)

// Overrides replace individual configuration values for one Create call.
// Zero values keep the base configuration.
type Overrides struct {
	Mode            string
	BaseURL         string
	SupabaseURL     string
	SupabaseAnonKey string
	Timeout         time.Duration
}

// Option customises a Factory.
type Option func(*Factory)

// WithBuilder replaces the builder used for mode.
func WithBuilder(mode domain.Mode, b Builder) Option {
	return func(f *Factory) { f.builders[mode] = b }
}

// WithObjectStore enables the storage-backed capabilities of the embedded store.
func WithObjectStore(store port.ObjectStore) Option {
	return func(f *Factory) { f.store = store }
}

// Factory owns the current adapter instance.
type Factory struct {
	mu       sync.Mutex
	base     config.Backend
	builders map[domain.Mode]Builder
	store    port.ObjectStore
	logger   *zap.Logger
	metrics  *observability.Metrics

	client port.Client
	mode   domain.Mode
	builds int
}

// New creates a factory. No adapter is built until the first call to Client
// or Create.
func New(cfg config.Backend, logger *zap.Logger, metrics *observability.Metrics, opts ...Option) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Factory{
		base:     cfg,
		builders: map[domain.Mode]Builder{},
		logger:   logger,
		metrics:  metrics,
	}
	f.builders[domain.ModeExternalREST] = f.buildREST
	f.builders[domain.ModeEmbeddedStore] = f.buildEmbedded
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) buildREST(cfg config.Backend) (port.Client, error) {
	disabled, err := domain.ParseCapabilities("REST_DISABLED_CAPABILITIES", cfg.RESTDisabledCapsList)
	if err != nil {
		return nil, err
	}
	return rest.New(rest.Options{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.HTTPTimeout,
		Resilience: cfg.Resilience,
		Disabled:   disabled,
		Logger:     f.logger,
		Metrics:    f.metrics,
	})
}

func (f *Factory) buildEmbedded(cfg config.Backend) (port.Client, error) {
	return supabase.New(supabase.Options{
		URL:        cfg.SupabaseURL,
		AnonKey:    cfg.SupabaseAnonKey,
		Timeout:    cfg.HTTPTimeout,
		Resilience: cfg.Resilience,
		CacheTTL:   cfg.CacheTTL,
		Store:      f.store,
		Logger:     f.logger,
		Metrics:    f.metrics,
	})
}

// Client returns the current adapter, building it from the base
// configuration on first use.
func (f *Factory) Client() (port.Client, error) {
	return f.Create(Overrides{})
}

// Create returns the cached adapter when the requested mode matches the
// cached one; otherwise it builds a new adapter and replaces the old one.
func (f *Factory) Create(o Overrides) (port.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, mode, err := f.resolve(o)
	if err != nil {
		return nil, err
	}
	if f.client != nil && f.mode == mode {
		return f.client, nil
	}
	return f.rebuild(cfg, mode)
}

// SwitchMode replaces the current adapter with one for mode. Switching to the
// current mode without other overrides returns the cached adapter; use
// Reinitialize to force a rebuild.
func (f *Factory) SwitchMode(mode string, o Overrides) (port.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o.Mode = mode
	cfg, m, err := f.resolve(o)
	if err != nil {
		return nil, err
	}
	if f.client != nil && f.mode == m && o == (Overrides{Mode: mode}) {
		return f.client, nil
	}
	previous := f.mode
	c, err := f.rebuild(cfg, m)
	if err != nil {
		return nil, err
	}
	f.logger.Info("api client mode switched",
		zap.String("from", string(previous)),
		zap.String("to", string(m)),
	)
	return c, nil
}

// Reinitialize rebuilds the adapter, keeping the current mode unless o sets one.
func (f *Factory) Reinitialize(o Overrides) (port.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if o.Mode == "" && f.client != nil {
		o.Mode = string(f.mode)
	}
	cfg, mode, err := f.resolve(o)
	if err != nil {
		return nil, err
	}
	return f.rebuild(cfg, mode)
}

// Mode is the mode of the current adapter, or the configured one before the
// first build.
func (f *Factory) Mode() domain.Mode {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.client != nil {
		return f.mode
	}
	m, err := domain.ParseMode(f.base.Mode)
	if err != nil {
		return ""
	}
	return m
}

// TestConnection pings the backend through the current adapter.
func (f *Factory) TestConnection(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Factory.TestConnection")
	defer span.End()

	c, err := f.Client()
	if err != nil {
		return err
	}
	if err := c.Ping(ctx); err != nil {
		f.logger.Warn("backend connection test failed", zap.String("mode", string(c.Mode())), zap.Error(err))
		return err
	}
	return nil
}

// Snapshot describes the factory state without building anything.
func (f *Factory) Snapshot() domain.ClientSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := domain.ClientSnapshot{
		Mode:         f.mode,
		Initialized:  f.client != nil,
		Capabilities: domain.NewCapabilitySet(),
		Builds:       f.builds,
		Timestamp:    time.Now().UTC(),
	}
	if f.client != nil {
		snap.Capabilities = f.client.Capabilities()
	} else if m, err := domain.ParseMode(f.base.Mode); err == nil {
		snap.Mode = m
	}
	return snap
}

// resolve merges o into the base configuration and validates the result
// for the selected mode.
func (f *Factory) resolve(o Overrides) (config.Backend, domain.Mode, error) {
	cfg := f.base
	if o.Mode != "" {
		cfg.Mode = o.Mode
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.SupabaseURL != "" {
		cfg.SupabaseURL = o.SupabaseURL
	}
	if o.SupabaseAnonKey != "" {
		cfg.SupabaseAnonKey = o.SupabaseAnonKey
	}
	if o.Timeout > 0 {
		cfg.HTTPTimeout = o.Timeout
	}

	mode, err := domain.ParseMode(cfg.Mode)
	if err != nil {
		return cfg, "", err
	}
	switch mode {
	case domain.ModeExternalREST:
		if strings.TrimSpace(cfg.BaseURL) == "" {
			return cfg, "", &domain.ConfigError{Key: "API_BASE_URL", Message: "base URL is required in external-rest mode"}
		}
	case domain.ModeEmbeddedStore:
		if strings.TrimSpace(cfg.SupabaseURL) == "" || strings.TrimSpace(cfg.SupabaseAnonKey) == "" {
			return cfg, "", &domain.ConfigError{Key: "SUPABASE_URL", Message: "project URL and anon key are required in embedded-store mode"}
		}
	}
	return cfg, mode, nil
}

type closer interface{ Close() }

// rebuild builds a new adapter and swaps it in. On failure the previous
// adapter stays current. Callers hold f.mu.
func (f *Factory) rebuild(cfg config.Backend, mode domain.Mode) (port.Client, error) {
	build, ok := f.builders[mode]
	if !ok {
		return nil, &domain.ConfigError{Key: "API_MODE", Message: "no builder for mode " + string(mode)}
	}
	c, err := build(cfg)
	if err != nil {
		f.logger.Error("failed to initialize api client", zap.String("mode", string(mode)), zap.Error(err))
		return nil, err
	}

	if old, ok := f.client.(closer); ok {
		old.Close()
	}
	f.client, f.mode = c, mode
	f.builds++
	f.metrics.IncrClientBuild(mode)

	f.logger.Info("api client initialized",
		zap.String("mode", string(mode)),
		zap.Any("capabilities", c.Capabilities().List()),
	)
	return c, nil
}
