package domain

import "time"

// ============================================================
// Tariffs & Message templates
// ============================================================

type TariffType string

const (
	TariffPercentage TariffType = "percentage"
	TariffFixed      TariffType = "fixed"
	TariffTiered     TariffType = "tiered"
)

type TariffTier struct {
	MinAmount  float64  `json:"minAmount"`
	MaxAmount  *float64 `json:"maxAmount"` // nil = open-ended
	Percentage float64  `json:"percentage"`
}

type Tariff struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Type        TariffType   `json:"type"`
	Percentage  *float64     `json:"percentage,omitempty"`
	FixedAmount *float64     `json:"fixedAmount,omitempty"`
	FixedFee    *float64     `json:"fixedFee,omitempty"`
	Currency    string       `json:"currency"`
	MinAmount   *float64     `json:"minAmount,omitempty"`
	MaxAmount   *float64     `json:"maxAmount,omitempty"`
	MinimumFee  *float64     `json:"minimumFee,omitempty"`
	MaximumFee  *float64     `json:"maximumFee,omitempty"`
	ClauseText  string       `json:"clauseText"`
	IsActive    bool         `json:"isActive"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   *time.Time   `json:"updatedAt,omitempty"`
	Tiers       []TariffTier `json:"tiers,omitempty"`
}

type TariffInput struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Type        *TariffType  `json:"type,omitempty"`
	Percentage  *float64     `json:"percentage,omitempty"`
	FixedAmount *float64     `json:"fixedAmount,omitempty"`
	FixedFee    *float64     `json:"fixedFee,omitempty"`
	Currency    *string      `json:"currency,omitempty"`
	MinAmount   *float64     `json:"minAmount,omitempty"`
	MaxAmount   *float64     `json:"maxAmount,omitempty"`
	MinimumFee  *float64     `json:"minimumFee,omitempty"`
	MaximumFee  *float64     `json:"maximumFee,omitempty"`
	ClauseText  *string      `json:"clauseText,omitempty"`
	IsActive    *bool        `json:"isActive,omitempty"`
	Tiers       []TariffTier `json:"tiers,omitempty"`
}

type TariffFilter struct {
	IsActive *bool
	Type     TariffType
	Cursor   string
	Limit    int
}

type TemplateType string

const (
	TemplateInitialContact  TemplateType = "initial_contact"
	TemplateReminder        TemplateType = "reminder"
	TemplateLegalNotice     TemplateType = "legal_notice"
	TemplateSettlementOffer TemplateType = "settlement_offer"
)

// Channel a message is delivered through.
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelSMS    Channel = "sms"
	ChannelLetter Channel = "letter"
	ChannelPhone  Channel = "phone"
)

type TemplateVariable struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Required     bool   `json:"required"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

type MessageTemplate struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Subject     string             `json:"subject"`
	Content     string             `json:"content"`
	Type        TemplateType       `json:"type"`
	Channel     Channel            `json:"channel,omitempty"`
	Locale      string             `json:"locale"`
	Version     int                `json:"version"`
	IsActive    bool               `json:"isActive"`
	LegalNotice string             `json:"legalNotice,omitempty"`
	Variables   []TemplateVariable `json:"variables,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   *time.Time         `json:"updatedAt,omitempty"`
}

type TemplateInput struct {
	Name        *string            `json:"name,omitempty"`
	Subject     *string            `json:"subject,omitempty"`
	Content     *string            `json:"content,omitempty"`
	Type        *TemplateType      `json:"type,omitempty"`
	Channel     *Channel           `json:"channel,omitempty"`
	Locale      *string            `json:"locale,omitempty"`
	IsActive    *bool              `json:"isActive,omitempty"`
	LegalNotice *string            `json:"legalNotice,omitempty"`
	Variables   []TemplateVariable `json:"variables,omitempty"`
}

type TemplateFilter struct {
	Type     TemplateType
	Locale   string
	IsActive *bool
	Cursor   string
	Limit    int
}

// RenderedTemplate is returned by RenderTemplate.
type RenderedTemplate struct {
	Content string `json:"content"`
}
