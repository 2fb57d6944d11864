package domain

import "time"

// ============================================================
// GDPR data-subject requests
// ============================================================

type GdprRequestType string

const (
	GdprSAR           GdprRequestType = "SAR"
	GdprErasure       GdprRequestType = "ERASURE"
	GdprRectification GdprRequestType = "RECTIFICATION"
	GdprPortability   GdprRequestType = "PORTABILITY"
	GdprObjection     GdprRequestType = "OBJECTION"
)

type GdprStatus string

const (
	GdprPending    GdprStatus = "pending"
	GdprProcessing GdprStatus = "processing"
	GdprCompleted  GdprStatus = "completed"
	GdprCancelled  GdprStatus = "cancelled"
	GdprRejected   GdprStatus = "rejected"
)

var gdprTransitions = map[GdprStatus][]GdprStatus{
	GdprPending:    {GdprProcessing, GdprRejected, GdprCancelled},
	GdprProcessing: {GdprCompleted, GdprRejected},
}

// CanTransition reports whether a request may move from s to to.
func (s GdprStatus) CanTransition(to GdprStatus) bool {
	return containsStatus(gdprTransitions[s], to)
}

// GdprResponseWindow is the statutory time to answer a request.
const GdprResponseWindow = 30 * 24 * time.Hour

type GdprRequest struct {
	ID              string          `json:"id"`
	Type            GdprRequestType `json:"type"`
	Status          GdprStatus      `json:"status"`
	RequestedBy     string          `json:"requestedBy"`
	RequestedByName string          `json:"requestedByName"`
	DataSubject     string          `json:"dataSubject"`
	Description     string          `json:"description"`
	DueDate         string          `json:"dueDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	DownloadURL     string          `json:"downloadUrl,omitempty"`
	AffectedCases   []string        `json:"affectedCases,omitempty"`
}

type CreateGdprRequest struct {
	Type        GdprRequestType `json:"type"`
	DataSubject string          `json:"dataSubject"`
	Description string          `json:"description"`
}

type GdprRequestUpdate struct {
	Status        *GdprStatus `json:"status,omitempty"`
	Description   *string     `json:"description,omitempty"`
	DownloadURL   *string     `json:"downloadUrl,omitempty"`
	AffectedCases []string    `json:"affectedCases,omitempty"`
}

type GdprFilter struct {
	Type   []GdprRequestType
	Status []GdprStatus
	Cursor string
	Limit  int
}

// DownloadLink is returned by ExportData.
type DownloadLink struct {
	DownloadURL string `json:"downloadUrl"`
}
