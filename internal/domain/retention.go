package domain

import "time"

// ============================================================
// Data retention
// ============================================================

type RetentionPolicy struct {
	ID            string     `json:"id"`
	EntityType    string     `json:"entityType"`
	RetentionDays int        `json:"retentionDays"`
	Action        string     `json:"action"` // delete | anonymise
	LegalBasis    string     `json:"legalBasis,omitempty"`
	IsActive      bool       `json:"isActive"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

type RetentionPolicyUpdate struct {
	RetentionDays *int    `json:"retentionDays,omitempty"`
	Action        *string `json:"action,omitempty"`
	LegalBasis    *string `json:"legalBasis,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

type ScheduledDeletion struct {
	ID          string    `json:"id"`
	EntityID    string    `json:"entityId"`
	EntityType  string    `json:"entityType"`
	DeleteAfter string    `json:"deleteAfter"`
	CreatedAt   time.Time `json:"createdAt"`
}
