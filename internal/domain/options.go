package domain

import "time"

// ============================================================
// Admin-configurable option lists used by intake forms
// ============================================================

// OptionKind names one of the three admin lists. Values double as URL segments.
type OptionKind string

const (
	KindServiceLevels OptionKind = "service-levels"
	KindDebtStatuses  OptionKind = "debt-statuses"
	KindLawfulBases   OptionKind = "lawful-bases"
)

// OptionKinds lists every kind in display order.
var OptionKinds = []OptionKind{KindServiceLevels, KindDebtStatuses, KindLawfulBases}

func (k OptionKind) Valid() bool {
	return k == KindServiceLevels || k == KindDebtStatuses || k == KindLawfulBases
}

type ServiceLevel struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Code            string    `json:"code"`
	Description     string    `json:"description,omitempty"`
	SlaHours        int       `json:"slaHours"`
	IsActive        bool      `json:"isActive"`
	IsSystemDefault bool      `json:"isSystemDefault"`
	TenantID        string    `json:"tenantId,omitempty"`
	CreatedBy       string    `json:"createdBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type DebtStatus struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Code            string    `json:"code"`
	Description     string    `json:"description,omitempty"`
	IsActive        bool      `json:"isActive"`
	IsSystemDefault bool      `json:"isSystemDefault"`
	TenantID        string    `json:"tenantId,omitempty"`
	CreatedBy       string    `json:"createdBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type LawfulBasis struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	Description      string    `json:"description,omitempty"`
	ArticleReference string    `json:"articleReference,omitempty"`
	IsActive         bool      `json:"isActive"`
	IsSystemDefault  bool      `json:"isSystemDefault"`
	TenantID         string    `json:"tenantId,omitempty"`
	CreatedBy        string    `json:"createdBy,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// OptionInput is the partial payload shared by the three kinds. SlaHours only
// applies to service levels, ArticleReference only to lawful bases.
type OptionInput struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Code             *string `json:"code,omitempty" validate:"omitempty,min=1,max=32"`
	Description      *string `json:"description,omitempty"`
	SlaHours         *int    `json:"slaHours,omitempty" validate:"omitempty,gte=0"`
	ArticleReference *string `json:"articleReference,omitempty"`
	IsActive         *bool   `json:"isActive,omitempty"`
	IsSystemDefault  *bool   `json:"isSystemDefault,omitempty"`
}

// Option is the kind-agnostic view the options manager renders.
type Option struct {
	Kind             OptionKind `json:"kind"`
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Code             string     `json:"code"`
	Description      string     `json:"description,omitempty"`
	SlaHours         *int       `json:"slaHours,omitempty"`
	ArticleReference string     `json:"articleReference,omitempty"`
	IsActive         bool       `json:"isActive"`
	IsSystemDefault  bool       `json:"isSystemDefault"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (s ServiceLevel) Option() Option {
	hours := s.SlaHours
	return Option{
		Kind: KindServiceLevels, ID: s.ID, Name: s.Name, Code: s.Code, Description: s.Description,
		SlaHours: &hours, IsActive: s.IsActive, IsSystemDefault: s.IsSystemDefault, UpdatedAt: s.UpdatedAt,
	}
}

func (d DebtStatus) Option() Option {
	return Option{
		Kind: KindDebtStatuses, ID: d.ID, Name: d.Name, Code: d.Code, Description: d.Description,
		IsActive: d.IsActive, IsSystemDefault: d.IsSystemDefault, UpdatedAt: d.UpdatedAt,
	}
}

func (l LawfulBasis) Option() Option {
	return Option{
		Kind: KindLawfulBases, ID: l.ID, Name: l.Name, Code: l.Code, Description: l.Description,
		ArticleReference: l.ArticleReference, IsActive: l.IsActive, IsSystemDefault: l.IsSystemDefault,
		UpdatedAt: l.UpdatedAt,
	}
}

// OptionSet holds all three lists, as loaded by the options manager.
type OptionSet struct {
	ServiceLevels []Option `json:"serviceLevels"`
	DebtStatuses  []Option `json:"debtStatuses"`
	LawfulBases   []Option `json:"lawfulBases"`
}
