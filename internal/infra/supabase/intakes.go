package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Case intakes (case_intakes + case_invoices, case_messages,
// case_audit_events)
// ============================================================

type intakesAPI struct{ c *Client }

// newIntakeReference returns CI- followed by eight upper-case hex digits.
func newIntakeReference() string {
	return "CI-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (a intakesAPI) GetCaseIntakes(ctx context.Context, f domain.CaseIntakeFilter) (domain.Page[domain.CaseIntake], error) {
	q := url.Values{"select": {intakeListSelect}}
	if len(f.Status) > 0 {
		q.Set("status", in(f.Status))
	}
	if f.ClientID != "" {
		q.Set("client_id", eq(f.ClientID))
	}
	if f.AssignedAgentID != "" {
		q.Set("assigned_agent_id", eq(f.AssignedAgentID))
	}
	if f.Search != "" {
		q.Set("or", searchClause(f.Search, "reference", "debtor_name", "debtor_email"))
	}
	return listPage(ctx, a.c, "GetCaseIntakes", "case_intakes", q, f.Cursor, f.Limit, caseIntakeRow.toDomain)
}

func (a intakesAPI) GetCaseIntake(ctx context.Context, id string) (domain.Response[domain.CaseIntake], error) {
	q := byID(id)
	q.Set("select", intakeSelect)
	row, err := selectOne[caseIntakeRow](ctx, a.c, "GetCaseIntake", "case_intakes", q)
	if err != nil {
		return domain.Response[domain.CaseIntake]{}, err
	}
	return domain.OK(row.toDomain()), nil
}

func (a intakesAPI) CreateCaseIntake(ctx context.Context, req domain.CreateCaseIntakeRequest) (domain.Response[domain.CaseIntake], error) {
	actorID, actorName := a.c.actor()
	totals := domain.IntakeTotals(req.Invoices)

	debtorType := req.DebtorType
	if debtorType == "" {
		debtorType = domain.DebtorIndividual
	}
	country := req.DebtorCountry
	if country == "" && req.DebtorAddress != nil {
		country = req.DebtorAddress.Country
	}

	row := caseIntakeRow{
		ID:             uuid.NewString(),
		Reference:      newIntakeReference(),
		ContractID:     req.ContractID,
		ServiceLevelID: req.ServiceLevelID,
		DebtStatusID:   req.DebtStatusID,
		DebtorName:     req.DebtorName,
		DebtorType:     debtorType,
		DebtorTaxID:    req.DebtorTaxID,
		DebtorVatID:    req.DebtorVatID,
		DebtorEmail:    req.DebtorEmail,
		DebtorPhone:    req.DebtorPhone,
		DebtorAddress:  req.DebtorAddress,
		DebtorCountry:  country,
		IsGdprSubject:  req.IsGdprSubject,
		LawfulBasisID:  req.LawfulBasisID,
		TotalAmount:    totals.Amount,
		TotalVat:       totals.Vat,
		TotalPenalties: totals.Penalties,
		TotalInterest:  totals.Interest,
		TotalFees:      totals.Fees,
		CurrencyCode:   req.CurrencyCode,
		Status:         domain.IntakeDraft,
		Notes:          req.Notes,
		ClientID:       req.ClientID,
		CreatedBy:      actorID,
	}

	created, err := insertOne(ctx, a.c, "CreateCaseIntake", "case_intakes", row.insertable())
	if err != nil {
		return domain.Response[domain.CaseIntake]{}, err
	}

	invoices, err := a.insertLines(ctx, created.ID, req.CurrencyCode, req.Invoices)
	if err != nil {
		// no transactions over PostgREST: remove the orphaned intake
		if delErr := a.c.deleteOne(ctx, "DeleteCaseIntake", "case_intakes", created.ID); delErr != nil {
			a.c.t.logger.Error("supabase: intake rollback failed", zap.String("case_id", created.ID), zap.Error(delErr))
		}
		return domain.Response[domain.CaseIntake]{}, err
	}
	created.Invoices = invoices

	a.c.audit(ctx, created.ID, "created", "Case intake created", actorID, actorName, map[string]any{
		"reference": created.Reference,
		"invoices":  len(invoices),
	})
	return domain.OK(created.toDomain()), nil
}

func (a intakesAPI) insertLines(ctx context.Context, caseID, currency string, lines []domain.InvoiceLine) ([]caseInvoiceRow, error) {
	rows := make([]caseInvoiceRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, invoiceLineRow(caseID, currency, l))
	}
	return insertMany(ctx, a.c, "CreateCaseInvoices", "case_invoices", rows)
}

func (a intakesAPI) UpdateCaseIntake(ctx context.Context, id string, upd domain.CaseIntakeUpdate) (domain.Response[domain.CaseIntake], error) {
	current, err := selectOne[caseIntakeRow](ctx, a.c, "GetCaseIntake", "case_intakes", byID(id))
	if err != nil {
		return domain.Response[domain.CaseIntake]{}, err
	}
	if !current.Status.Editable() {
		return domain.Response[domain.CaseIntake]{}, domain.Conflict(fmt.Sprintf("case intake in status %s can no longer be edited", current.Status))
	}

	p := patch{}
	p.str("contract_id", upd.ContractID).
		str("service_level_id", upd.ServiceLevelID).
		str("debt_status_id", upd.DebtStatusID).
		str("debtor_name", upd.DebtorName).
		str("debtor_tax_id", upd.DebtorTaxID).
		str("debtor_vat_id", upd.DebtorVatID).
		str("debtor_email", upd.DebtorEmail).
		str("debtor_phone", upd.DebtorPhone).
		str("debtor_country", upd.DebtorCountry).
		str("lawful_basis_id", upd.LawfulBasisID).
		str("currency_code", upd.CurrencyCode).
		str("notes", upd.Notes).
		str("assigned_agent_id", upd.AssignedAgentID)
	if upd.DebtorType != nil {
		p.set("debtor_type", *upd.DebtorType)
	}
	if upd.DebtorAddress != nil {
		p.set("debtor_address", upd.DebtorAddress)
	}
	if upd.IsGdprSubject != nil {
		p.set("is_gdpr_subject", *upd.IsGdprSubject)
	}
	if upd.Invoices != nil {
		t := domain.IntakeTotals(upd.Invoices)
		p.set("total_amount", t.Amount).
			set("total_vat", t.Vat).
			set("total_penalties", t.Penalties).
			set("total_interest", t.Interest).
			set("total_fees", t.Fees)
	}
	if p.empty() {
		return a.GetCaseIntake(ctx, id)
	}

	// No transactions over PostgREST: new lines go in first and old lines are
	// removed last. A failed step undoes the steps before it.
	var previous, added []caseInvoiceRow
	if upd.Invoices != nil {
		previous, err = selectAll[caseInvoiceRow](ctx, a.c, "GetCaseInvoices", "case_invoices", url.Values{
			"case_id": {eq(id)},
			"select":  {"id"},
		})
		if err != nil {
			return domain.Response[domain.CaseIntake]{}, err
		}
		currency := current.CurrencyCode
		if upd.CurrencyCode != nil {
			currency = *upd.CurrencyCode
		}
		if added, err = a.insertLines(ctx, id, currency, upd.Invoices); err != nil {
			return domain.Response[domain.CaseIntake]{}, err
		}
	}

	q := byID(id)
	q.Set("status", eq(string(current.Status)))
	if _, err := patchOne[caseIntakeRow](ctx, a.c, "UpdateCaseIntake", "case_intakes", q, p); err != nil {
		a.dropLines(ctx, id, added)
		if domain.IsStatus(err, http.StatusNotFound) {
			return domain.Response[domain.CaseIntake]{}, domain.Conflict("case intake changed while it was being updated")
		}
		return domain.Response[domain.CaseIntake]{}, err
	}

	if len(previous) > 0 {
		if err := a.c.deleteAll(ctx, "DeleteCaseInvoices", "case_invoices", url.Values{
			"case_id": {eq(id)},
			"id":      {in(invoiceIDs(previous))},
		}); err != nil {
			a.dropLines(ctx, id, added)
			if _, rbErr := patchOne[caseIntakeRow](ctx, a.c, "RestoreIntakeTotals", "case_intakes", byID(id), totalsOf(current)); rbErr != nil {
				a.c.t.logger.Error("supabase: intake totals not restored", zap.String("case_id", id), zap.Error(rbErr))
			}
			return domain.Response[domain.CaseIntake]{}, err
		}
	}

	actorID, actorName := a.c.actor()
	a.c.audit(ctx, id, "updated", "Case intake updated", actorID, actorName, nil)
	return a.GetCaseIntake(ctx, id)
}

// dropLines removes invoice lines inserted by a failed update.
func (a intakesAPI) dropLines(ctx context.Context, caseID string, rows []caseInvoiceRow) {
	if len(rows) == 0 {
		return
	}
	if err := a.c.deleteAll(ctx, "DeleteCaseInvoices", "case_invoices", url.Values{
		"case_id": {eq(caseID)},
		"id":      {in(invoiceIDs(rows))},
	}); err != nil {
		a.c.t.logger.Error("supabase: intake update rollback failed", zap.String("case_id", caseID), zap.Error(err))
	}
}

func invoiceIDs(rows []caseInvoiceRow) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func totalsOf(r caseIntakeRow) patch {
	return patch{
		"total_amount":    r.TotalAmount,
		"total_vat":       r.TotalVat,
		"total_penalties": r.TotalPenalties,
		"total_interest":  r.TotalInterest,
		"total_fees":      r.TotalFees,
	}
}

func (a intakesAPI) DeleteCaseIntake(ctx context.Context, id string) (domain.Empty, error) {
	if err := a.c.deleteOne(ctx, "DeleteCaseIntake", "case_intakes", id); err != nil {
		return domain.Empty{}, err
	}
	return domain.Done(), nil
}

func (a intakesAPI) SubmitForReview(ctx context.Context, id string) (domain.Response[domain.CaseIntake], error) {
	p := patch{"submitted_at": time.Now().UTC()}
	if _, _, err := a.transition(ctx, "SubmitForReview", id, domain.IntakeSubmitted, p); err != nil {
		return domain.Response[domain.CaseIntake]{}, err
	}
	actorID, actorName := a.c.actor()
	a.c.audit(ctx, id, "submitted", "Case intake submitted for review", actorID, actorName, nil)
	return a.GetCaseIntake(ctx, id)
}

func (a intakesAPI) ReviewCaseIntake(ctx context.Context, id string, review domain.AcceptanceReview) (domain.Response[domain.CaseIntake], error) {
	outcome, ok := review.Action.Outcome()
	if !ok {
		verr := &domain.ValidationError{Message: "Invalid review"}
		verr.Add("action", "must be accept, reject or request_fixes")
		return domain.Response[domain.CaseIntake]{}, verr
	}
	switch {
	case review.Action == domain.ReviewReject && strings.TrimSpace(review.RejectionReason) == "":
		verr := &domain.ValidationError{Message: "Invalid review"}
		verr.Add("rejectionReason", "is required when rejecting")
		return domain.Response[domain.CaseIntake]{}, verr
	case review.Action == domain.ReviewRequestFixes && len(review.FixesRequired) == 0:
		verr := &domain.ValidationError{Message: "Invalid review"}
		verr.Add("fixesRequired", "at least one fix is required")
		return domain.Response[domain.CaseIntake]{}, verr
	}

	actorID, actorName := a.c.actor()
	p := patch{
		"reviewed_at":  time.Now().UTC(),
		"reviewed_by":  nullable(actorID),
		"review_notes": nullable(review.ReviewNotes),
	}
	if review.Action == domain.ReviewReject {
		p.set("rejection_reason", review.RejectionReason)
	}
	if review.AssignedAgentID != "" {
		p.set("assigned_agent_id", review.AssignedAgentID)
	}

	row, before, err := a.transition(ctx, "ReviewCaseIntake", id, outcome, p)
	if err != nil {
		return domain.Response[domain.CaseIntake]{}, err
	}

	switch review.Action {
	case domain.ReviewAccept:
		if err := a.openCase(ctx, row); err != nil {
			a.reopenReview(ctx, before)
			return domain.Response[domain.CaseIntake]{}, err
		}
	case domain.ReviewRequestFixes:
		a.c.systemMessage(ctx, id, "Fixes required before acceptance:\n- "+strings.Join(review.FixesRequired, "\n- "))
	}

	a.c.audit(ctx, id, string(review.Action), fmt.Sprintf("Case intake %s", outcome), actorID, actorName, map[string]any{
		"reviewNotes":     review.ReviewNotes,
		"rejectionReason": review.RejectionReason,
		"fixesRequired":   review.FixesRequired,
	})
	return a.GetCaseIntake(ctx, id)
}

// transition moves an intake to status "to" if the workflow allows it. The
// PATCH is conditioned on the status read, so concurrent moves yield 409. It
// returns the updated row and the row as it was before.
func (a intakesAPI) transition(ctx context.Context, op, id string, to domain.IntakeStatus, p patch) (caseIntakeRow, caseIntakeRow, error) {
	current, err := selectOne[caseIntakeRow](ctx, a.c, "GetCaseIntake", "case_intakes", byID(id))
	if err != nil {
		return caseIntakeRow{}, caseIntakeRow{}, err
	}
	if !current.Status.CanTransition(to) {
		return caseIntakeRow{}, current, domain.Conflict(fmt.Sprintf("cannot move case intake from %s to %s", current.Status, to))
	}

	q := byID(id)
	q.Set("status", eq(string(current.Status)))
	row, err := patchOne[caseIntakeRow](ctx, a.c, op, "case_intakes", q, p.set("status", to))
	if domain.IsStatus(err, http.StatusNotFound) {
		return caseIntakeRow{}, current, domain.Conflict("case intake status changed concurrently")
	}
	return row, current, err
}

// reopenReview puts an accepted intake whose case could not be opened back
// in its previous review state, so the review can be submitted again.
func (a intakesAPI) reopenReview(ctx context.Context, before caseIntakeRow) {
	q := byID(before.ID)
	q.Set("status", eq(string(domain.IntakeAccepted)))
	_, err := patchOne[caseIntakeRow](ctx, a.c, "ReopenReview", "case_intakes", q, patch{
		"status":            before.Status,
		"reviewed_at":       before.ReviewedAt,
		"reviewed_by":       nullable(before.ReviewedBy),
		"review_notes":      nullable(before.ReviewNotes),
		"assigned_agent_id": nullable(before.AssignedAgentID),
	})
	if err != nil {
		a.c.t.logger.Error("supabase: accepted intake has no case and could not be reopened", zap.String("case_id", before.ID), zap.Error(err))
	}
}

// openCase creates the active case for an accepted intake.
func (a intakesAPI) openCase(ctx context.Context, row caseIntakeRow) error {
	intake := row.toDomain()
	totals := domain.Totals{
		Amount:    intake.TotalAmount,
		Vat:       intake.TotalVat,
		Penalties: intake.TotalPenalties,
		Interest:  intake.TotalInterest,
		Fees:      intake.TotalFees,
	}
	status := domain.CaseNew
	if intake.AssignedAgentID != "" {
		status = domain.CaseInProgress
	}
	var address domain.Address
	if intake.DebtorAddress != nil {
		address = *intake.DebtorAddress
	}
	if address.Country == "" {
		address.Country = intake.DebtorCountry
	}
	original := intake.TotalAmount

	created, err := insertOne(ctx, a.c, "OpenCase", "cases", caseFromDomain(domain.Case{
		ID:              uuid.NewString(),
		Reference:       intake.Reference,
		ClientID:        intake.ClientID,
		AssignedAgentID: intake.AssignedAgentID,
		Debtor: domain.Debtor{
			Name:    intake.DebtorName,
			Email:   intake.DebtorEmail,
			Phone:   intake.DebtorPhone,
			Address: address,
		},
		Amount:         totals.Grand(),
		Currency:       intake.CurrencyCode,
		OriginalAmount: &original,
		Status:         status,
		Description:    intake.Notes,
	}))
	if err != nil {
		return err
	}
	a.c.recordEvent(ctx, created.ID, domain.EventStatusChange, "Case opened",
		"Opened from accepted intake "+intake.Reference, map[string]any{"intakeId": intake.ID})
	return nil
}

func (a intakesAPI) GetCaseIntakeMessages(ctx context.Context, caseID string) (domain.Response[[]domain.CaseMessage], error) {
	rows, err := selectAll[caseMessageRow](ctx, a.c, "GetCaseIntakeMessages", "case_messages", url.Values{
		"case_id": {eq(caseID)},
		"order":   {"created_at.asc"},
	})
	if err != nil {
		return domain.Response[[]domain.CaseMessage]{}, err
	}
	return domain.OK(convert(rows, caseMessageRow.toDomain)), nil
}

func (a intakesAPI) AddCaseIntakeMessage(ctx context.Context, caseID string, msg domain.NewCaseMessage) (domain.Response[domain.CaseMessage], error) {
	if strings.TrimSpace(msg.Content) == "" {
		verr := &domain.ValidationError{Message: "Invalid message"}
		verr.Add("content", "is required")
		return domain.Response[domain.CaseMessage]{}, verr
	}
	typ := msg.MessageType
	if typ == "" {
		typ = domain.MessageUser
	}
	mentions := msg.Mentions
	if mentions == nil {
		mentions = []string{}
	}
	senderID, senderName := a.c.actor()

	row, err := insertOne(ctx, a.c, "AddCaseIntakeMessage", "case_messages", caseMessageRow{
		ID:          uuid.NewString(),
		CaseID:      caseID,
		MessageType: typ,
		SenderID:    senderID,
		SenderName:  senderName,
		Content:     msg.Content,
		Mentions:    mentions,
		IsInternal:  msg.IsInternal,
	})
	if err != nil {
		return domain.Response[domain.CaseMessage]{}, err
	}
	return domain.OK(row.toDomain()), nil
}

func (c *Client) systemMessage(ctx context.Context, caseID, content string) {
	_, err := insertMany(ctx, c, "AddSystemMessage", "case_messages", []caseMessageRow{{
		CaseID:      caseID,
		MessageType: domain.MessageSystem,
		SenderName:  "System",
		Content:     content,
		Mentions:    []string{},
	}})
	if err != nil {
		c.t.logger.Warn("supabase: system message not stored", zap.String("case_id", caseID), zap.Error(err))
	}
}

func (c *Client) audit(ctx context.Context, caseID, eventType, description, actorID, actorName string, metadata map[string]any) {
	_, err := insertMany(ctx, c, "RecordAuditEvent", "case_audit_events", []caseAuditEventRow{{
		CaseID:           caseID,
		EventType:        eventType,
		EventDescription: description,
		ActorID:          actorID,
		ActorName:        actorName,
		Metadata:         metadata,
	}})
	if err != nil {
		c.t.logger.Warn("supabase: audit event not recorded",
			zap.String("case_id", caseID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
