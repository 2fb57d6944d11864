package supabase

import (
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// Table rows (snake_case columns) and their domain mappings
// ============================================================

// stamp omits zero times from inserts; unstamp restores them.
func stamp(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func unstamp(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// --- cases ---

type caseRow struct {
	ID                string            `json:"id,omitempty"`
	Reference         string            `json:"reference"`
	ClientID          string            `json:"client_id,omitempty"`
	ClientName        string            `json:"client_name,omitempty"`
	AssignedAgentID   string            `json:"assigned_agent_id,omitempty"`
	AssignedAgentName string            `json:"assigned_agent_name,omitempty"`
	DebtorName        string            `json:"debtor_name"`
	DebtorEmail       string            `json:"debtor_email"`
	DebtorPhone       string            `json:"debtor_phone,omitempty"`
	DebtorAddress     domain.Address    `json:"debtor_address"`
	Amount            float64           `json:"amount"`
	Currency          string            `json:"currency"`
	OriginalAmount    *float64          `json:"original_amount,omitempty"`
	Status            domain.CaseStatus `json:"status"`
	Description       string            `json:"description,omitempty"`
	OriginalCreditor  string            `json:"original_creditor,omitempty"`
	CreatedAt         *time.Time        `json:"created_at,omitempty"`
	UpdatedAt         *time.Time        `json:"updated_at,omitempty"`
	DueDate           string            `json:"due_date,omitempty"`
	LastActionAt      *time.Time        `json:"last_action_at,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
}

func (r caseRow) toDomain() domain.Case {
	return domain.Case{
		ID:                r.ID,
		Reference:         r.Reference,
		ClientID:          r.ClientID,
		ClientName:        r.ClientName,
		AssignedAgentID:   r.AssignedAgentID,
		AssignedAgentName: r.AssignedAgentName,
		Debtor: domain.Debtor{
			Name:    r.DebtorName,
			Email:   r.DebtorEmail,
			Phone:   r.DebtorPhone,
			Address: r.DebtorAddress,
		},
		Amount:           r.Amount,
		Currency:         r.Currency,
		OriginalAmount:   r.OriginalAmount,
		Status:           r.Status,
		Description:      r.Description,
		OriginalCreditor: r.OriginalCreditor,
		CreatedAt:        unstamp(r.CreatedAt),
		UpdatedAt:        unstamp(r.UpdatedAt),
		DueDate:          r.DueDate,
		LastActionAt:     r.LastActionAt,
		Tags:             r.Tags,
	}
}

func caseFromDomain(c domain.Case) caseRow {
	return caseRow{
		ID:                c.ID,
		Reference:         c.Reference,
		ClientID:          c.ClientID,
		ClientName:        c.ClientName,
		AssignedAgentID:   c.AssignedAgentID,
		AssignedAgentName: c.AssignedAgentName,
		DebtorName:        c.Debtor.Name,
		DebtorEmail:       c.Debtor.Email,
		DebtorPhone:       c.Debtor.Phone,
		DebtorAddress:     c.Debtor.Address,
		Amount:            c.Amount,
		Currency:          c.Currency,
		OriginalAmount:    c.OriginalAmount,
		Status:            c.Status,
		Description:       c.Description,
		OriginalCreditor:  c.OriginalCreditor,
		CreatedAt:         stamp(c.CreatedAt),
		UpdatedAt:         stamp(c.UpdatedAt),
		DueDate:           c.DueDate,
		LastActionAt:      c.LastActionAt,
		Tags:              c.Tags,
	}
}

type caseEventRow struct {
	ID          string               `json:"id,omitempty"`
	CaseID      string               `json:"case_id"`
	Type        domain.CaseEventType `json:"type"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	CreatedAt   *time.Time           `json:"created_at,omitempty"`
	Metadata    map[string]any       `json:"metadata,omitempty"`
}

func (r caseEventRow) toDomain() domain.CaseEvent {
	return domain.CaseEvent{
		ID:          r.ID,
		CaseID:      r.CaseID,
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   unstamp(r.CreatedAt),
		Metadata:    r.Metadata,
	}
}

func caseEventFromDomain(e domain.CaseEvent) caseEventRow {
	return caseEventRow{
		ID:          e.ID,
		CaseID:      e.CaseID,
		Type:        e.Type,
		Title:       e.Title,
		Description: e.Description,
		CreatedAt:   stamp(e.CreatedAt),
		Metadata:    e.Metadata,
	}
}

// --- case intakes ---

type caseIntakeRow struct {
	ID             string           `json:"id,omitempty"`
	Reference      string           `json:"reference"`
	ContractID     string           `json:"contract_id,omitempty"`
	ServiceLevelID string           `json:"service_level_id,omitempty"`
	ServiceLevel   *serviceLevelRow `json:"service_level,omitempty"`
	DebtStatusID   string           `json:"debt_status_id,omitempty"`
	DebtStatus     *debtStatusRow   `json:"debt_status,omitempty"`

	DebtorName     string            `json:"debtor_name"`
	DebtorType     domain.DebtorType `json:"debtor_type,omitempty"`
	DebtorTaxID    string            `json:"debtor_tax_id,omitempty"`
	DebtorVatID    string            `json:"debtor_vat_id,omitempty"`
	DebtorEmail    string            `json:"debtor_email,omitempty"`
	DebtorPhone    string            `json:"debtor_phone,omitempty"`
	DebtorAddress  *domain.Address   `json:"debtor_address,omitempty"`
	DebtorCountry  string            `json:"debtor_country,omitempty"`
	IsGdprSubject  bool              `json:"is_gdpr_subject"`
	LawfulBasisID  string            `json:"lawful_basis_id,omitempty"`
	LawfulBasis    *lawfulBasisRow   `json:"lawful_basis,omitempty"`
	TotalAmount    float64           `json:"total_amount"`
	TotalVat       float64           `json:"total_vat"`
	TotalPenalties float64           `json:"total_penalties"`
	TotalInterest  float64           `json:"total_interest"`
	TotalFees      float64           `json:"total_fees"`
	CurrencyCode   string            `json:"currency_code"`

	Status domain.IntakeStatus `json:"status"`

	Notes           string     `json:"notes,omitempty"`
	ClientID        string     `json:"client_id,omitempty"`
	AssignedAgentID string     `json:"assigned_agent_id,omitempty"`
	CreatedBy       string     `json:"created_by,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      string     `json:"reviewed_by,omitempty"`
	ReviewNotes     string     `json:"review_notes,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`

	Invoices    []caseInvoiceRow    `json:"case_invoices,omitempty"`
	Messages    []caseMessageRow    `json:"case_messages,omitempty"`
	AuditEvents []caseAuditEventRow `json:"case_audit_events,omitempty"`
}

// intakeSelect embeds option rows and child tables.
const intakeSelect = "*,service_level:service_levels(*),debt_status:debt_statuses(*),lawful_basis:lawful_bases(*)," +
	"case_invoices(*),case_messages(*),case_audit_events(*)"

// intakeListSelect embeds only the option rows.
const intakeListSelect = "*,service_level:service_levels(*),debt_status:debt_statuses(*),lawful_basis:lawful_bases(*)"

func (r caseIntakeRow) toDomain() domain.CaseIntake {
	in := domain.CaseIntake{
		ID:              r.ID,
		Reference:       r.Reference,
		ContractID:      r.ContractID,
		ServiceLevelID:  r.ServiceLevelID,
		DebtStatusID:    r.DebtStatusID,
		DebtorName:      r.DebtorName,
		DebtorType:      r.DebtorType,
		DebtorTaxID:     r.DebtorTaxID,
		DebtorVatID:     r.DebtorVatID,
		DebtorEmail:     r.DebtorEmail,
		DebtorPhone:     r.DebtorPhone,
		DebtorAddress:   r.DebtorAddress,
		DebtorCountry:   r.DebtorCountry,
		IsGdprSubject:   r.IsGdprSubject,
		LawfulBasisID:   r.LawfulBasisID,
		TotalAmount:     r.TotalAmount,
		TotalVat:        r.TotalVat,
		TotalPenalties:  r.TotalPenalties,
		TotalInterest:   r.TotalInterest,
		TotalFees:       r.TotalFees,
		CurrencyCode:    r.CurrencyCode,
		Status:          r.Status,
		Notes:           r.Notes,
		ClientID:        r.ClientID,
		AssignedAgentID: r.AssignedAgentID,
		CreatedBy:       r.CreatedBy,
		SubmittedAt:     r.SubmittedAt,
		ReviewedAt:      r.ReviewedAt,
		ReviewedBy:      r.ReviewedBy,
		ReviewNotes:     r.ReviewNotes,
		RejectionReason: r.RejectionReason,
		CreatedAt:       unstamp(r.CreatedAt),
		UpdatedAt:       unstamp(r.UpdatedAt),
	}
	if r.ServiceLevel != nil {
		sl := r.ServiceLevel.toDomain()
		in.ServiceLevel = &sl
	}
	if r.DebtStatus != nil {
		ds := r.DebtStatus.toDomain()
		in.DebtStatus = &ds
	}
	if r.LawfulBasis != nil {
		lb := r.LawfulBasis.toDomain()
		in.LawfulBasis = &lb
	}
	in.Invoices = convert(r.Invoices, caseInvoiceRow.toDomain)
	in.Messages = convert(r.Messages, caseMessageRow.toDomain)
	in.AuditEvents = convert(r.AuditEvents, caseAuditEventRow.toDomain)
	return in
}

func caseIntakeFromDomain(in domain.CaseIntake) caseIntakeRow {
	r := caseIntakeRow{
		ID:              in.ID,
		Reference:       in.Reference,
		ContractID:      in.ContractID,
		ServiceLevelID:  in.ServiceLevelID,
		DebtStatusID:    in.DebtStatusID,
		DebtorName:      in.DebtorName,
		DebtorType:      in.DebtorType,
		DebtorTaxID:     in.DebtorTaxID,
		DebtorVatID:     in.DebtorVatID,
		DebtorEmail:     in.DebtorEmail,
		DebtorPhone:     in.DebtorPhone,
		DebtorAddress:   in.DebtorAddress,
		DebtorCountry:   in.DebtorCountry,
		IsGdprSubject:   in.IsGdprSubject,
		LawfulBasisID:   in.LawfulBasisID,
		TotalAmount:     in.TotalAmount,
		TotalVat:        in.TotalVat,
		TotalPenalties:  in.TotalPenalties,
		TotalInterest:   in.TotalInterest,
		TotalFees:       in.TotalFees,
		CurrencyCode:    in.CurrencyCode,
		Status:          in.Status,
		Notes:           in.Notes,
		ClientID:        in.ClientID,
		AssignedAgentID: in.AssignedAgentID,
		CreatedBy:       in.CreatedBy,
		SubmittedAt:     in.SubmittedAt,
		ReviewedAt:      in.ReviewedAt,
		ReviewedBy:      in.ReviewedBy,
		ReviewNotes:     in.ReviewNotes,
		RejectionReason: in.RejectionReason,
		CreatedAt:       stamp(in.CreatedAt),
		UpdatedAt:       stamp(in.UpdatedAt),
	}
	if in.ServiceLevel != nil {
		sl := serviceLevelFromDomain(*in.ServiceLevel)
		r.ServiceLevel = &sl
	}
	if in.DebtStatus != nil {
		ds := debtStatusFromDomain(*in.DebtStatus)
		r.DebtStatus = &ds
	}
	if in.LawfulBasis != nil {
		lb := lawfulBasisFromDomain(*in.LawfulBasis)
		r.LawfulBasis = &lb
	}
	r.Invoices = convert(in.Invoices, caseInvoiceFromDomain)
	r.Messages = convert(in.Messages, caseMessageFromDomain)
	r.AuditEvents = convert(in.AuditEvents, caseAuditEventFromDomain)
	return r
}

// insertable strips embedded resources, which PostgREST rejects on write.
func (r caseIntakeRow) insertable() caseIntakeRow {
	r.ServiceLevel, r.DebtStatus, r.LawfulBasis = nil, nil, nil
	r.Invoices, r.Messages, r.AuditEvents = nil, nil, nil
	return r
}

// convert maps a slice, keeping nil as nil.
func convert[A, B any](in []A, f func(A) B) []B {
	if in == nil {
		return nil
	}
	out := make([]B, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

type caseInvoiceRow struct {
	ID            string     `json:"id,omitempty"`
	CaseID        string     `json:"case_id"`
	InvoiceNumber string     `json:"invoice_number"`
	IssueDate     string     `json:"issue_date"`
	DueDate       string     `json:"due_date"`
	Amount        float64    `json:"amount"`
	VatAmount     float64    `json:"vat_amount"`
	Penalties     float64    `json:"penalties"`
	Interest      float64    `json:"interest"`
	Fees          float64    `json:"fees"`
	CurrencyCode  string     `json:"currency_code"`
	Description   string     `json:"description,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func (r caseInvoiceRow) toDomain() domain.CaseInvoice {
	return domain.CaseInvoice{
		ID:            r.ID,
		CaseID:        r.CaseID,
		InvoiceNumber: r.InvoiceNumber,
		IssueDate:     r.IssueDate,
		DueDate:       r.DueDate,
		Amount:        r.Amount,
		VatAmount:     r.VatAmount,
		Penalties:     r.Penalties,
		Interest:      r.Interest,
		Fees:          r.Fees,
		CurrencyCode:  r.CurrencyCode,
		Description:   r.Description,
		CreatedAt:     unstamp(r.CreatedAt),
		UpdatedAt:     unstamp(r.UpdatedAt),
	}
}

func caseInvoiceFromDomain(inv domain.CaseInvoice) caseInvoiceRow {
	return caseInvoiceRow{
		ID:            inv.ID,
		CaseID:        inv.CaseID,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Amount:        inv.Amount,
		VatAmount:     inv.VatAmount,
		Penalties:     inv.Penalties,
		Interest:      inv.Interest,
		Fees:          inv.Fees,
		CurrencyCode:  inv.CurrencyCode,
		Description:   inv.Description,
		CreatedAt:     stamp(inv.CreatedAt),
		UpdatedAt:     stamp(inv.UpdatedAt),
	}
}

// invoiceLineRow builds the insert row for one wizard line.
func invoiceLineRow(caseID, currency string, l domain.InvoiceLine) caseInvoiceRow {
	if l.CurrencyCode != "" {
		currency = l.CurrencyCode
	}
	return caseInvoiceRow{
		ID:            uuid.NewString(),
		CaseID:        caseID,
		InvoiceNumber: l.InvoiceNumber,
		IssueDate:     l.IssueDate,
		DueDate:       l.DueDate,
		Amount:        l.Amount,
		VatAmount:     l.VatAmount,
		Penalties:     l.Penalties,
		Interest:      l.Interest,
		Fees:          l.Fees,
		CurrencyCode:  currency,
		Description:   l.Description,
	}
}

type caseMessageRow struct {
	ID          string             `json:"id,omitempty"`
	CaseID      string             `json:"case_id"`
	MessageType domain.MessageType `json:"message_type"`
	SenderID    string             `json:"sender_id,omitempty"`
	SenderName  string             `json:"sender_name"`
	Content     string             `json:"content"`
	Mentions    []string           `json:"mentions"`
	IsInternal  bool               `json:"is_internal"`
	CreatedAt   *time.Time         `json:"created_at,omitempty"`
}

func (r caseMessageRow) toDomain() domain.CaseMessage {
	return domain.CaseMessage{
		ID:          r.ID,
		CaseID:      r.CaseID,
		MessageType: r.MessageType,
		SenderID:    r.SenderID,
		SenderName:  r.SenderName,
		Content:     r.Content,
		Mentions:    r.Mentions,
		IsInternal:  r.IsInternal,
		CreatedAt:   unstamp(r.CreatedAt),
	}
}

func caseMessageFromDomain(m domain.CaseMessage) caseMessageRow {
	return caseMessageRow{
		ID:          m.ID,
		CaseID:      m.CaseID,
		MessageType: m.MessageType,
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		Content:     m.Content,
		Mentions:    m.Mentions,
		IsInternal:  m.IsInternal,
		CreatedAt:   stamp(m.CreatedAt),
	}
}

type caseAuditEventRow struct {
	ID               string         `json:"id,omitempty"`
	CaseID           string         `json:"case_id"`
	EventType        string         `json:"event_type"`
	EventDescription string         `json:"event_description"`
	ActorID          string         `json:"actor_id,omitempty"`
	ActorName        string         `json:"actor_name"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        *time.Time     `json:"created_at,omitempty"`
}

func (r caseAuditEventRow) toDomain() domain.CaseAuditEvent {
	return domain.CaseAuditEvent{
		ID:               r.ID,
		CaseID:           r.CaseID,
		EventType:        r.EventType,
		EventDescription: r.EventDescription,
		ActorID:          r.ActorID,
		ActorName:        r.ActorName,
		Metadata:         r.Metadata,
		CreatedAt:        unstamp(r.CreatedAt),
	}
}

func caseAuditEventFromDomain(e domain.CaseAuditEvent) caseAuditEventRow {
	return caseAuditEventRow{
		ID:               e.ID,
		CaseID:           e.CaseID,
		EventType:        e.EventType,
		EventDescription: e.EventDescription,
		ActorID:          e.ActorID,
		ActorName:        e.ActorName,
		Metadata:         e.Metadata,
		CreatedAt:        stamp(e.CreatedAt),
	}
}

// --- billing invoices ---

type invoiceItemRow struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	VatRate     float64 `json:"vat_rate"`
	Total       float64 `json:"total"`
}

type invoiceRow struct {
	ID            string               `json:"id,omitempty"`
	CaseID        string               `json:"case_id,omitempty"`
	CaseName      string               `json:"case_name,omitempty"`
	ClientID      string               `json:"client_id,omitempty"`
	ClientName    string               `json:"client_name,omitempty"`
	InvoiceNumber string               `json:"invoice_number"`
	Amount        float64              `json:"amount"`
	VatAmount     float64              `json:"vat_amount"`
	TotalAmount   float64              `json:"total_amount"`
	Currency      string               `json:"currency"`
	Status        domain.InvoiceStatus `json:"status"`
	DueDate       string               `json:"due_date,omitempty"`
	CreatedAt     *time.Time           `json:"created_at,omitempty"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
	PdfURL        string               `json:"pdf_url,omitempty"`
	Items         []invoiceItemRow     `json:"items"`
}

func (r invoiceRow) toDomain() domain.Invoice {
	items := make([]domain.InvoiceItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, domain.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			VatRate:     it.VatRate,
			Total:       it.Total,
		})
	}
	return domain.Invoice{
		ID:            r.ID,
		CaseID:        r.CaseID,
		CaseName:      r.CaseName,
		ClientID:      r.ClientID,
		ClientName:    r.ClientName,
		InvoiceNumber: r.InvoiceNumber,
		Amount:        r.Amount,
		VatAmount:     r.VatAmount,
		TotalAmount:   r.TotalAmount,
		Currency:      r.Currency,
		Status:        r.Status,
		DueDate:       r.DueDate,
		CreatedAt:     unstamp(r.CreatedAt),
		PaidAt:        r.PaidAt,
		PdfURL:        r.PdfURL,
		Items:         items,
	}
}

func invoiceItemRows(items []domain.InvoiceItem) []invoiceItemRow {
	rows := make([]invoiceItemRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, invoiceItemRow{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			VatRate:     it.VatRate,
			Total:       it.Total,
		})
	}
	return rows
}

func invoiceFromDomain(inv domain.Invoice) invoiceRow {
	return invoiceRow{
		ID:            inv.ID,
		CaseID:        inv.CaseID,
		CaseName:      inv.CaseName,
		ClientID:      inv.ClientID,
		ClientName:    inv.ClientName,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		VatAmount:     inv.VatAmount,
		TotalAmount:   inv.TotalAmount,
		Currency:      inv.Currency,
		Status:        inv.Status,
		DueDate:       inv.DueDate,
		CreatedAt:     stamp(inv.CreatedAt),
		PaidAt:        inv.PaidAt,
		PdfURL:        inv.PdfURL,
		Items:         invoiceItemRows(inv.Items),
	}
}

// --- GDPR ---

type gdprRequestRow struct {
	ID              string                 `json:"id,omitempty"`
	Type            domain.GdprRequestType `json:"type"`
	Status          domain.GdprStatus      `json:"status"`
	RequestedBy     string                 `json:"requested_by,omitempty"`
	RequestedByName string                 `json:"requested_by_name"`
	DataSubject     string                 `json:"data_subject"`
	Description     string                 `json:"description"`
	DueDate         string                 `json:"due_date"`
	CreatedAt       *time.Time             `json:"created_at,omitempty"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
	DownloadURL     string                 `json:"download_url,omitempty"`
	AffectedCases   []string               `json:"affected_cases,omitempty"`
}

func (r gdprRequestRow) toDomain() domain.GdprRequest {
	return domain.GdprRequest{
		ID:              r.ID,
		Type:            r.Type,
		Status:          r.Status,
		RequestedBy:     r.RequestedBy,
		RequestedByName: r.RequestedByName,
		DataSubject:     r.DataSubject,
		Description:     r.Description,
		DueDate:         r.DueDate,
		CreatedAt:       unstamp(r.CreatedAt),
		CompletedAt:     r.CompletedAt,
		DownloadURL:     r.DownloadURL,
		AffectedCases:   r.AffectedCases,
	}
}

func gdprRequestFromDomain(g domain.GdprRequest) gdprRequestRow {
	return gdprRequestRow{
		ID:              g.ID,
		Type:            g.Type,
		Status:          g.Status,
		RequestedBy:     g.RequestedBy,
		RequestedByName: g.RequestedByName,
		DataSubject:     g.DataSubject,
		Description:     g.Description,
		DueDate:         g.DueDate,
		CreatedAt:       stamp(g.CreatedAt),
		CompletedAt:     g.CompletedAt,
		DownloadURL:     g.DownloadURL,
		AffectedCases:   g.AffectedCases,
	}
}

// --- profiles ---

type profileRow struct {
	ID          string      `json:"id"`
	Email       string      `json:"email,omitempty"`
	Name        string      `json:"name,omitempty"`
	Role        domain.Role `json:"role,omitempty"`
	ClientID    string      `json:"client_id,omitempty"`
	Department  string      `json:"department,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	IsActive    *bool       `json:"is_active,omitempty"`
	Permissions []string    `json:"permissions,omitempty"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
}

func (r profileRow) toDomain() domain.User {
	return domain.User{
		ID:          r.ID,
		Email:       r.Email,
		Name:        r.Name,
		Role:        r.Role,
		ClientID:    r.ClientID,
		Department:  r.Department,
		Phone:       r.Phone,
		IsActive:    r.IsActive,
		Permissions: r.Permissions,
		CreatedAt:   unstamp(r.CreatedAt),
		UpdatedAt:   r.UpdatedAt,
		LastLoginAt: r.LastLoginAt,
	}
}

func profileFromDomain(u domain.User) profileRow {
	return profileRow{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		ClientID:    u.ClientID,
		Department:  u.Department,
		Phone:       u.Phone,
		IsActive:    u.IsActive,
		Permissions: u.Permissions,
		CreatedAt:   stamp(u.CreatedAt),
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// --- admin option tables ---

type serviceLevelRow struct {
	ID              string     `json:"id,omitempty"`
	Name            string     `json:"name"`
	Code            string     `json:"code"`
	Description     string     `json:"description,omitempty"`
	SlaHours        int        `json:"sla_hours"`
	IsActive        bool       `json:"is_active"`
	IsSystemDefault bool       `json:"is_system_default"`
	TenantID        string     `json:"tenant_id,omitempty"`
	CreatedBy       string     `json:"created_by,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

func (r serviceLevelRow) toDomain() domain.ServiceLevel {
	return domain.ServiceLevel{
		ID:              r.ID,
		Name:            r.Name,
		Code:            r.Code,
		Description:     r.Description,
		SlaHours:        r.SlaHours,
		IsActive:        r.IsActive,
		IsSystemDefault: r.IsSystemDefault,
		TenantID:        r.TenantID,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       unstamp(r.CreatedAt),
		UpdatedAt:       unstamp(r.UpdatedAt),
	}
}

func serviceLevelFromDomain(s domain.ServiceLevel) serviceLevelRow {
	return serviceLevelRow{
		ID:              s.ID,
		Name:            s.Name,
		Code:            s.Code,
		Description:     s.Description,
		SlaHours:        s.SlaHours,
		IsActive:        s.IsActive,
		IsSystemDefault: s.IsSystemDefault,
		TenantID:        s.TenantID,
		CreatedBy:       s.CreatedBy,
		CreatedAt:       stamp(s.CreatedAt),
		UpdatedAt:       stamp(s.UpdatedAt),
	}
}

type debtStatusRow struct {
	ID              string     `json:"id,omitempty"`
	Name            string     `json:"name"`
	Code            string     `json:"code"`
	Description     string     `json:"description,omitempty"`
	IsActive        bool       `json:"is_active"`
	IsSystemDefault bool       `json:"is_system_default"`
	TenantID        string     `json:"tenant_id,omitempty"`
	CreatedBy       string     `json:"created_by,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

func (r debtStatusRow) toDomain() domain.DebtStatus {
	return domain.DebtStatus{
		ID:              r.ID,
		Name:            r.Name,
		Code:            r.Code,
		Description:     r.Description,
		IsActive:        r.IsActive,
		IsSystemDefault: r.IsSystemDefault,
		TenantID:        r.TenantID,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       unstamp(r.CreatedAt),
		UpdatedAt:       unstamp(r.UpdatedAt),
	}
}

func debtStatusFromDomain(d domain.DebtStatus) debtStatusRow {
	return debtStatusRow{
		ID:              d.ID,
		Name:            d.Name,
		Code:            d.Code,
		Description:     d.Description,
		IsActive:        d.IsActive,
		IsSystemDefault: d.IsSystemDefault,
		TenantID:        d.TenantID,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       stamp(d.CreatedAt),
		UpdatedAt:       stamp(d.UpdatedAt),
	}
}

type lawfulBasisRow struct {
	ID               string     `json:"id,omitempty"`
	Name             string     `json:"name"`
	Code             string     `json:"code"`
	Description      string     `json:"description,omitempty"`
	ArticleReference string     `json:"article_reference,omitempty"`
	IsActive         bool       `json:"is_active"`
	IsSystemDefault  bool       `json:"is_system_default"`
	TenantID         string     `json:"tenant_id,omitempty"`
	CreatedBy        string     `json:"created_by,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

func (r lawfulBasisRow) toDomain() domain.LawfulBasis {
	return domain.LawfulBasis{
		ID:               r.ID,
		Name:             r.Name,
		Code:             r.Code,
		Description:      r.Description,
		ArticleReference: r.ArticleReference,
		IsActive:         r.IsActive,
		IsSystemDefault:  r.IsSystemDefault,
		TenantID:         r.TenantID,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        unstamp(r.CreatedAt),
		UpdatedAt:        unstamp(r.UpdatedAt),
	}
}

func lawfulBasisFromDomain(l domain.LawfulBasis) lawfulBasisRow {
	return lawfulBasisRow{
		ID:               l.ID,
		Name:             l.Name,
		Code:             l.Code,
		Description:      l.Description,
		ArticleReference: l.ArticleReference,
		IsActive:         l.IsActive,
		IsSystemDefault:  l.IsSystemDefault,
		TenantID:         l.TenantID,
		CreatedBy:        l.CreatedBy,
		CreatedAt:        stamp(l.CreatedAt),
		UpdatedAt:        stamp(l.UpdatedAt),
	}
}
