package supabase

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Analytics computed from row counts and paid invoices
// ============================================================

type analyticsAPI struct{ c *Client }

type paidInvoiceRow struct {
	TotalAmount float64    `json:"total_amount"`
	Currency    string     `json:"currency"`
	CreatedAt   *time.Time `json:"created_at"`
	PaidAt      *time.Time `json:"paid_at"`
}

type caseStatsRow struct {
	Status            domain.CaseStatus `json:"status"`
	Amount            float64           `json:"amount"`
	Currency          string            `json:"currency"`
	AssignedAgentID   string            `json:"assigned_agent_id"`
	AssignedAgentName string            `json:"assigned_agent_name"`
}

// scoped returns the base query of a dashboard counter.
func scoped(f domain.DashboardFilter) url.Values {
	q := url.Values{}
	if f.ClientID != "" {
		q.Set("client_id", eq(f.ClientID))
	}
	if f.StartDate != "" {
		q.Add("created_at", "gte."+f.StartDate)
	}
	if f.EndDate != "" {
		q.Add("created_at", "lte."+f.EndDate)
	}
	return q
}

func (a analyticsAPI) GetDashboardStats(ctx context.Context, f domain.DashboardFilter) (domain.Response[domain.DashboardStats], error) {
	var (
		stats  domain.DashboardStats
		closed int
		paid   []paidInvoiceRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalCases, err = a.c.count(gctx, "CountCases", "cases", scoped(f))
		return err
	})
	g.Go(func() (err error) {
		q := scoped(f)
		q.Set("status", in(domain.ActiveCaseStatuses))
		stats.ActiveCases, err = a.c.count(gctx, "CountActiveCases", "cases", q)
		return err
	})
	g.Go(func() (err error) {
		q := scoped(f)
		q.Set("status", eq(string(domain.CaseClosed)))
		closed, err = a.c.count(gctx, "CountClosedCases", "cases", q)
		return err
	})
	g.Go(func() (err error) {
		q := scoped(f)
		q.Set("status", eq(string(domain.InvoiceOverdue)))
		stats.OverdueInvoices, err = a.c.count(gctx, "CountOverdueInvoices", "invoices", q)
		return err
	})
	g.Go(func() (err error) {
		q := scoped(f)
		q.Set("status", eq(string(domain.InvoicePaid)))
		q.Set("select", "total_amount,currency,created_at,paid_at")
		paid, err = selectAll[paidInvoiceRow](gctx, a.c, "GetPaidInvoices", "invoices", q)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Response[domain.DashboardStats]{}, err
	}

	monthStart := startOfMonth(time.Now().UTC())
	var total, monthly decimal.Decimal
	var days float64
	var timed int
	for _, inv := range paid {
		amount := decimal.NewFromFloat(inv.TotalAmount)
		total = total.Add(amount)
		if inv.PaidAt != nil && !inv.PaidAt.Before(monthStart) {
			monthly = monthly.Add(amount)
		}
		if inv.PaidAt != nil && inv.CreatedAt != nil {
			days += inv.PaidAt.Sub(*inv.CreatedAt).Hours() / 24
			timed++
		}
	}
	stats.TotalRecovered = total.Round(2).InexactFloat64()
	stats.MonthlyRecovered = monthly.Round(2).InexactFloat64()
	if timed > 0 {
		stats.AverageRecoveryTime = round1(days / float64(timed))
	}
	if stats.TotalCases > 0 {
		stats.SuccessRate = round1(float64(closed) / float64(stats.TotalCases) * 100)
	}
	// approvals are not stored in the embedded schema
	stats.PendingApprovals = 0

	return domain.OK(stats), nil
}

func (a analyticsAPI) GetCaseMetrics(ctx context.Context, mq domain.MetricsQuery) (domain.Response[domain.Metrics], error) {
	rows, err := a.caseStats(ctx, "GetCaseMetrics", mq)
	if err != nil {
		return domain.Response[domain.Metrics]{}, err
	}
	counts := map[string]int{}
	amounts := map[string]decimal.Decimal{}
	for _, r := range rows {
		counts[string(r.Status)]++
		amounts[string(r.Status)] = amounts[string(r.Status)].Add(decimal.NewFromFloat(r.Amount))
	}
	return domain.OK(domain.Metrics{
		"period":         mq.Period,
		"totalCases":     len(rows),
		"byStatus":       counts,
		"amountByStatus": rounded(amounts),
	}), nil
}

func (a analyticsAPI) GetRecoveryMetrics(ctx context.Context, mq domain.MetricsQuery) (domain.Response[domain.Metrics], error) {
	q := url.Values{
		"status": {eq(string(domain.InvoicePaid))},
		"select": {"total_amount,currency,created_at,paid_at"},
	}
	if since, ok := periodStart(mq.Period, time.Now().UTC()); ok {
		q.Set("paid_at", "gte."+since.Format(time.RFC3339))
	}
	if mq.Currency != "" {
		q.Set("currency", eq(mq.Currency))
	}
	paid, err := selectAll[paidInvoiceRow](ctx, a.c, "GetRecoveryMetrics", "invoices", q)
	if err != nil {
		return domain.Response[domain.Metrics]{}, err
	}

	byCurrency := map[string]decimal.Decimal{}
	for _, inv := range paid {
		byCurrency[inv.Currency] = byCurrency[inv.Currency].Add(decimal.NewFromFloat(inv.TotalAmount))
	}
	return domain.OK(domain.Metrics{
		"period":              mq.Period,
		"invoicesPaid":        len(paid),
		"recoveredByCurrency": rounded(byCurrency),
	}), nil
}

type agentPerformance struct {
	AgentID     string  `json:"agentId"`
	AgentName   string  `json:"agentName"`
	Cases       int     `json:"cases"`
	Closed      int     `json:"closed"`
	Amount      float64 `json:"amount"`
	SuccessRate float64 `json:"successRate"`
}

func (a analyticsAPI) GetPerformanceMetrics(ctx context.Context, mq domain.MetricsQuery) (domain.Response[domain.Metrics], error) {
	rows, err := a.caseStats(ctx, "GetPerformanceMetrics", mq)
	if err != nil {
		return domain.Response[domain.Metrics]{}, err
	}

	perf := map[string]*agentPerformance{}
	sums := map[string]decimal.Decimal{}
	for _, r := range rows {
		if r.AssignedAgentID == "" {
			continue
		}
		p, ok := perf[r.AssignedAgentID]
		if !ok {
			p = &agentPerformance{AgentID: r.AssignedAgentID, AgentName: r.AssignedAgentName}
			perf[r.AssignedAgentID] = p
		}
		p.Cases++
		if r.Status == domain.CaseClosed {
			p.Closed++
		}
		sums[r.AssignedAgentID] = sums[r.AssignedAgentID].Add(decimal.NewFromFloat(r.Amount))
	}

	agents := make([]agentPerformance, 0, len(perf))
	for id, p := range perf {
		p.Amount = sums[id].Round(2).InexactFloat64()
		p.SuccessRate = round1(float64(p.Closed) / float64(p.Cases) * 100)
		agents = append(agents, *p)
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].Closed != agents[j].Closed {
			return agents[i].Closed > agents[j].Closed
		}
		return agents[i].AgentID < agents[j].AgentID
	})
	return domain.OK(domain.Metrics{"period": mq.Period, "agents": agents}), nil
}

func (a analyticsAPI) caseStats(ctx context.Context, op string, mq domain.MetricsQuery) ([]caseStatsRow, error) {
	q := url.Values{"select": {"status,amount,currency,assigned_agent_id,assigned_agent_name"}}
	if since, ok := periodStart(mq.Period, time.Now().UTC()); ok {
		q.Set("created_at", "gte."+since.Format(time.RFC3339))
	}
	if mq.Currency != "" {
		q.Set("currency", eq(mq.Currency))
	}
	if mq.AgentID != "" {
		q.Set("assigned_agent_id", eq(mq.AgentID))
	}
	return selectAll[caseStatsRow](ctx, a.c, op, "cases", q)
}

// periodStart maps week|month|quarter|year to the start of the window ending now.
func periodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return now.AddDate(0, -1, 0), true
	case "quarter":
		return now.AddDate(0, -3, 0), true
	case "year":
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func rounded(m map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v.Round(2).InexactFloat64()
	}
	return out
}
