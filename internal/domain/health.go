package domain

import "time"

// ============================================================
// Health & backend snapshot
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of one backend dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	Error       string `json:"error,omitempty"`
	LastChecked string `json:"lastChecked"`
}

// ClientSnapshot describes the factory state, as shown by GET /v1/backend.
type ClientSnapshot struct {
	Mode         Mode          `json:"mode"`
	Initialized  bool          `json:"initialized"`
	Capabilities CapabilitySet `json:"capabilities"`
	Builds       int           `json:"builds"`
	Timestamp    time.Time     `json:"timestamp"`
}
