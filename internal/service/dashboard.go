package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/port"
)

var dashboardTracer = otel.Tracer("service/dashboard")

// DashboardOverview is the landing page of the portal.
type DashboardOverview struct {
	Stats       domain.DashboardStats `json:"stats"`
	CaseMetrics domain.Metrics        `json:"caseMetrics"`
	Recovery    domain.Metrics        `json:"recovery"`
}

type DashboardService struct {
	analytics port.AnalyticsAPI
	logger    *zap.Logger
}

func NewDashboardService(analytics port.AnalyticsAPI, logger *zap.Logger) *DashboardService {
	return &DashboardService{analytics: analytics, logger: logger}
}

// Overview loads the counters and the case and recovery breakdowns in parallel.
func (s *DashboardService) Overview(ctx context.Context, f domain.DashboardFilter, q domain.MetricsQuery) (*DashboardOverview, error) {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.Overview")
	defer span.End()

	var out DashboardOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.analytics.GetDashboardStats(gctx, f)
		if err != nil {
			return fmt.Errorf("dashboard stats: %w", err)
		}
		out.Stats = resp.Data
		return nil
	})
	g.Go(func() error {
		resp, err := s.analytics.GetCaseMetrics(gctx, q)
		if err != nil {
			return fmt.Errorf("case metrics: %w", err)
		}
		out.CaseMetrics = resp.Data
		return nil
	})
	g.Go(func() error {
		resp, err := s.analytics.GetRecoveryMetrics(gctx, q)
		if err != nil {
			return fmt.Errorf("recovery metrics: %w", err)
		}
		out.Recovery = resp.Data
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load dashboard", zap.Error(err))
		return nil, err
	}
	return &out, nil
}
