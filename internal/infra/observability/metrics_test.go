package observability_test

import (
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/observability"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveCallCountsErrorKinds(t *testing.T) {
	m := observability.NewMetrics()

	m.ObserveCall("rest", "GetCase", time.Millisecond, nil)
	m.ObserveCall("rest", "GetCase", time.Millisecond, domain.NotFound("case", "1"))
	m.ObserveCall("rest", "GetCase", time.Millisecond, &domain.NetworkError{Message: "down", Err: errors.New("dial")})

	assert.Equal(t, 1, m.AdapterErrors("rest", domain.KindAPI))
	assert.Equal(t, 1, m.AdapterErrors("rest", domain.KindNetwork))
	assert.Equal(t, 0, m.AdapterErrors("rest", domain.KindValidation))
}

func TestMetrics_CacheHitRate(t *testing.T) {
	m := observability.NewMetrics()
	assert.Zero(t, m.CacheHitRate("options"))

	m.IncrCacheHit("options")
	m.IncrCacheHit("options")
	m.IncrCacheHit("options")
	m.IncrCacheMiss("options")
	assert.InDelta(t, 0.75, m.CacheHitRate("options"), 1e-9)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *observability.Metrics
	m.ObserveCall("rest", "x", time.Second, errors.New("x"))
	m.IncrClientBuild(domain.ModeExternalREST)
	assert.Zero(t, m.ClientBuilds(domain.ModeExternalREST))
}

func TestMetrics_ClientBuilds(t *testing.T) {
	m := observability.NewMetrics()
	m.IncrClientBuild(domain.ModeEmbeddedStore)
	m.IncrClientBuild(domain.ModeEmbeddedStore)
	assert.Equal(t, 2, m.ClientBuilds(domain.ModeEmbeddedStore))
	assert.Equal(t, 0, m.ClientBuilds(domain.ModeExternalREST))
}
