package domain

// ============================================================
// Analytics
// ============================================================

// DashboardStats are the headline counters of the portal dashboard.
type DashboardStats struct {
	TotalCases          int     `json:"totalCases"`
	ActiveCases         int     `json:"activeCases"`
	PendingApprovals    int     `json:"pendingApprovals"`
	OverdueInvoices     int     `json:"overdueInvoices"`
	TotalRecovered      float64 `json:"totalRecovered"`
	MonthlyRecovered    float64 `json:"monthlyRecovered"`
	AverageRecoveryTime float64 `json:"averageRecoveryTime"`
	SuccessRate         float64 `json:"successRate"`
}

// Metrics is a free-form metrics document; its shape depends on the query.
type Metrics map[string]any

type DashboardFilter struct {
	StartDate string
	EndDate   string
	ClientID  string
}

type MetricsQuery struct {
	Period   string
	GroupBy  string
	Currency string
	AgentID  string
}
