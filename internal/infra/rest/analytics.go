package rest

import (
	"context"
	"net/http"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
)

type analyticsAPI struct{ c *Client }

func (a analyticsAPI) GetDashboardStats(ctx context.Context, f domain.DashboardFilter) (domain.Response[domain.DashboardStats], error) {
	q := newQuery().str("startDate", f.StartDate).str("endDate", f.EndDate).str("clientId", f.ClientID)
	return one[domain.DashboardStats](ctx, a.c, request{op: "GetDashboardStats", cap: domain.CapAnalytics, method: http.MethodGet, path: "/analytics/dashboard", query: q.values()})
}

func (a analyticsAPI) GetCaseMetrics(ctx context.Context, q domain.MetricsQuery) (domain.Response[domain.Metrics], error) {
	return a.metrics(ctx, "GetCaseMetrics", "/analytics/cases", q)
}

func (a analyticsAPI) GetRecoveryMetrics(ctx context.Context, q domain.MetricsQuery) (domain.Response[domain.Metrics], error) {
	return a.metrics(ctx, "GetRecoveryMetrics", "/analytics/recovery", q)
}

func (a analyticsAPI) GetPerformanceMetrics(ctx context.Context, q domain.MetricsQuery) (domain.Response[domain.Metrics], error) {
	return a.metrics(ctx, "GetPerformanceMetrics", "/analytics/performance", q)
}

func (a analyticsAPI) metrics(ctx context.Context, op, path string, mq domain.MetricsQuery) (domain.Response[domain.Metrics], error) {
	q := newQuery().
		str("period", mq.Period).
		str("groupBy", mq.GroupBy).
		str("currency", mq.Currency).
		str("agentId", mq.AgentID)
	return one[domain.Metrics](ctx, a.c, request{op: op, cap: domain.CapAnalytics, method: http.MethodGet, path: path, query: q.values()})
}
