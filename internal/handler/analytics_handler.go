package handler

import (
	"net/http"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/service"

	"go.uber.org/zap"
)

func dashboardHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/dashboard")
		defer span.End()

		q := r.URL.Query()
		f := domain.DashboardFilter{
			StartDate: q.Get("startDate"),
			EndDate:   q.Get("endDate"),
			ClientID:  q.Get("clientId"),
		}
		mq := domain.MetricsQuery{
			Period:   q.Get("period"),
			GroupBy:  q.Get("groupBy"),
			Currency: q.Get("currency"),
			AgentID:  q.Get("agentId"),
		}

		overview, err := service.NewDashboardService(ClientFromContext(ctx).Analytics(), logger).Overview(ctx, f, mq)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(overview))
	}
}
