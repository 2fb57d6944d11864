package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/apiclient"
	"github.com/boddenberg/collections-bfa-go/internal/config"
	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/observability"
	"github.com/boddenberg/collections-bfa-go/internal/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backendConfig() config.Backend {
	return config.Backend{
		Mode:            "embedded-store",
		BaseURL:         "http://rest.invalid/v1",
		SupabaseURL:     "http://project.invalid",
		SupabaseAnonKey: "anon",
		HTTPTimeout:     time.Second,
		CacheTTL:        time.Minute,
	}
}

func TestFactory_CreateReturnsCachedClientForSameMode(t *testing.T) {
	m := observability.NewMetrics()
	f := apiclient.New(backendConfig(), nil, m)

	first, err := f.Client()
	require.NoError(t, err)
	second, err := f.Create(apiclient.Overrides{Mode: "supabase"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, m.ClientBuilds(domain.ModeEmbeddedStore))
	assert.Equal(t, domain.ModeEmbeddedStore, f.Mode())
}

func TestFactory_CreateRebuildsOnModeChange(t *testing.T) {
	m := observability.NewMetrics()
	f := apiclient.New(backendConfig(), nil, m)

	embedded, err := f.Client()
	require.NoError(t, err)
	restClient, err := f.Create(apiclient.Overrides{Mode: "dotnet"})
	require.NoError(t, err)

	assert.NotSame(t, embedded, restClient)
	assert.Equal(t, domain.ModeExternalREST, restClient.Mode())
	assert.Equal(t, domain.ModeExternalREST, f.Mode())
	assert.Equal(t, 1, m.ClientBuilds(domain.ModeExternalREST))
}

func TestFactory_SwitchModeToSameModeIsCacheHit(t *testing.T) {
	f := apiclient.New(backendConfig(), nil, nil)

	a, err := f.SwitchMode("embedded-store", apiclient.Overrides{})
	require.NoError(t, err)
	b, err := f.SwitchMode("supabase", apiclient.Overrides{})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, f.Snapshot().Builds)
}

func TestFactory_SwitchModeWithOverridesRebuilds(t *testing.T) {
	f := apiclient.New(backendConfig(), nil, nil)

	a, err := f.SwitchMode("embedded-store", apiclient.Overrides{})
	require.NoError(t, err)
	b, err := f.SwitchMode("embedded-store", apiclient.Overrides{Timeout: 2 * time.Second})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, f.Snapshot().Builds)
}

func TestFactory_ReinitializeAlwaysRebuilds(t *testing.T) {
	f := apiclient.New(backendConfig(), nil, nil)

	a, err := f.Client()
	require.NoError(t, err)
	b, err := f.Reinitialize(apiclient.Overrides{})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, domain.ModeEmbeddedStore, b.Mode())
	assert.Equal(t, 2, f.Snapshot().Builds)
}

func TestFactory_ReinitializeKeepsCurrentMode(t *testing.T) {
	f := apiclient.New(backendConfig(), nil, nil)

	_, err := f.SwitchMode("rest", apiclient.Overrides{})
	require.NoError(t, err)
	c, err := f.Reinitialize(apiclient.Overrides{BaseURL: "http://other.invalid/v1"})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeExternalREST, c.Mode())
}

func TestFactory_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*config.Backend)
		key  string
	}{
		{"rest without base url", func(c *config.Backend) { c.Mode = "rest"; c.BaseURL = "" }, "API_BASE_URL"},
		{"embedded without anon key", func(c *config.Backend) { c.SupabaseAnonKey = "" }, "SUPABASE_URL"},
		{"embedded without url", func(c *config.Backend) { c.SupabaseURL = " " }, "SUPABASE_URL"},
		{"unknown mode", func(c *config.Backend) { c.Mode = "graphql" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := backendConfig()
			tt.cfg(&cfg)
			f := apiclient.New(cfg, nil, nil)

			_, err := f.Client()
			var ce *domain.ConfigError
			require.ErrorAs(t, err, &ce)
			if tt.key != "" {
				assert.Equal(t, tt.key, ce.Key)
			}
			assert.Equal(t, domain.KindConfig, domain.Classify(err))
			assert.False(t, f.Snapshot().Initialized)
		})
	}
}

func TestFactory_FailedBuildKeepsPreviousClient(t *testing.T) {
	boom := errors.New("boom")
	f := apiclient.New(backendConfig(), nil, nil,
		apiclient.WithBuilder(domain.ModeExternalREST, func(config.Backend) (port.Client, error) { return nil, boom }),
	)

	before, err := f.Client()
	require.NoError(t, err)
	_, err = f.SwitchMode("rest", apiclient.Overrides{})
	require.ErrorIs(t, err, boom)

	after, err := f.Client()
	require.NoError(t, err)
	assert.Same(t, before, after)
	assert.Equal(t, domain.ModeEmbeddedStore, f.Mode())
}

func TestFactory_BuilderReceivesOverrides(t *testing.T) {
	var got config.Backend
	f := apiclient.New(backendConfig(), nil, nil,
		apiclient.WithBuilder(domain.ModeExternalREST, func(cfg config.Backend) (port.Client, error) {
			got = cfg
			return nil, errors.New("stop")
		}),
	)

	_, _ = f.Create(apiclient.Overrides{Mode: "rest", BaseURL: "http://override.invalid/v2", Timeout: 5 * time.Second})

	assert.Equal(t, "http://override.invalid/v2", got.BaseURL)
	assert.Equal(t, 5*time.Second, got.HTTPTimeout)
}

func TestFactory_SnapshotBeforeAndAfterBuild(t *testing.T) {
	cfg := backendConfig()
	cfg.Mode = "rest"
	cfg.RESTDisabledCapsList = "case-intakes,admin-config"
	f := apiclient.New(cfg, nil, nil)

	snap := f.Snapshot()
	assert.False(t, snap.Initialized)
	assert.Equal(t, domain.ModeExternalREST, snap.Mode)
	assert.Empty(t, snap.Capabilities.List())

	_, err := f.Client()
	require.NoError(t, err)

	snap = f.Snapshot()
	assert.True(t, snap.Initialized)
	assert.Equal(t, 1, snap.Builds)
	assert.True(t, snap.Capabilities.Has(domain.CapCases))
	assert.False(t, snap.Capabilities.Has(domain.CapCaseIntakes))
	assert.False(t, snap.Capabilities.Has(domain.CapAdminConfig))
}

func TestFactory_RejectsUnknownDisabledCapability(t *testing.T) {
	cfg := backendConfig()
	cfg.Mode = "rest"
	cfg.RESTDisabledCapsList = "cases,teleport"

	_, err := apiclient.New(cfg, nil, nil).Client()
	assert.Equal(t, domain.KindConfig, domain.Classify(err))
}

func TestFactory_TestConnection(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/v1/analytics/dashboard" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer srv.Close()

	cfg := backendConfig()
	cfg.Mode = "rest"
	cfg.BaseURL = srv.URL + "/v1"

	f := apiclient.New(cfg, nil, nil)
	require.NoError(t, f.TestConnection(context.Background()))
	assert.Equal(t, 1, hits)
}

func TestFactory_TestConnectionSurfacesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	cfg := backendConfig()
	cfg.Mode = "rest"
	cfg.BaseURL = url + "/v1"

	err := apiclient.New(cfg, nil, nil).TestConnection(context.Background())
	assert.Equal(t, domain.KindNetwork, domain.Classify(err))
}
