package supabase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Cases and their timeline (cases, case_events)
// ============================================================

type casesAPI struct{ c *Client }

func caseQuery(f domain.CaseFilter) url.Values {
	q := url.Values{}
	if len(f.Status) > 0 {
		q.Set("status", in(f.Status))
	}
	if f.ClientID != "" {
		q.Set("client_id", eq(f.ClientID))
	}
	if f.AssignedAgentID != "" {
		q.Set("assigned_agent_id", eq(f.AssignedAgentID))
	}
	if f.AmountMin != nil {
		q.Add("amount", "gte."+strconv.FormatFloat(*f.AmountMin, 'f', -1, 64))
	}
	if f.AmountMax != nil {
		q.Add("amount", "lte."+strconv.FormatFloat(*f.AmountMax, 'f', -1, 64))
	}
	if f.Search != "" {
		q.Set("or", searchClause(f.Search, "reference", "debtor_name", "debtor_email"))
	}
	return q
}

func (a casesAPI) GetCases(ctx context.Context, f domain.CaseFilter) (domain.Page[domain.Case], error) {
	return listPage(ctx, a.c, "GetCases", "cases", caseQuery(f), f.Cursor, f.Limit, caseRow.toDomain)
}

func (a casesAPI) GetCase(ctx context.Context, id string) (domain.Response[domain.Case], error) {
	row, err := selectOne[caseRow](ctx, a.c, "GetCase", "cases", byID(id))
	if err != nil {
		return domain.Response[domain.Case]{}, err
	}
	return domain.OK(row.toDomain()), nil
}

func (a casesAPI) CreateCase(ctx context.Context, req domain.CreateCaseRequest) (domain.Response[domain.Case], error) {
	row := caseRow{
		ID:               uuid.NewString(),
		Reference:        req.Reference,
		ClientID:         req.ClientID,
		DebtorName:       req.Debtor.Name,
		DebtorEmail:      req.Debtor.Email,
		DebtorPhone:      req.Debtor.Phone,
		DebtorAddress:    req.Debtor.Address,
		Amount:           req.Amount,
		Currency:         req.Currency,
		OriginalAmount:   &req.Amount,
		Status:           domain.CaseNew,
		Description:      req.Description,
		OriginalCreditor: req.OriginalCreditor,
	}
	created, err := insertOne(ctx, a.c, "CreateCase", "cases", row)
	if err != nil {
		return domain.Response[domain.Case]{}, err
	}
	a.c.recordEvent(ctx, created.ID, domain.EventStatusChange, "Case created", "Case opened with status new", nil)
	return domain.OK(created.toDomain()), nil
}

func (a casesAPI) UpdateCase(ctx context.Context, id string, upd domain.CaseUpdate) (domain.Response[domain.Case], error) {
	p := patch{}
	p.str("assigned_agent_id", upd.AssignedAgentID).
		str("currency", upd.Currency).
		str("description", upd.Description).
		str("original_creditor", upd.OriginalCreditor).
		str("due_date", upd.DueDate)
	if upd.Debtor != nil {
		p.set("debtor_name", upd.Debtor.Name).
			set("debtor_email", upd.Debtor.Email).
			set("debtor_phone", nullable(upd.Debtor.Phone)).
			set("debtor_address", upd.Debtor.Address)
	}
	if upd.Amount != nil {
		p.set("amount", *upd.Amount)
	}
	if upd.Status != nil {
		p.set("status", *upd.Status)
	}
	if upd.Tags != nil {
		p.set("tags", upd.Tags)
	}
	if p.empty() {
		return a.GetCase(ctx, id)
	}
	p.set("last_action_at", time.Now().UTC())

	row, err := patchOne[caseRow](ctx, a.c, "UpdateCase", "cases", byID(id), p)
	if err != nil {
		return domain.Response[domain.Case]{}, err
	}
	if upd.Status != nil {
		a.c.recordEvent(ctx, id, domain.EventStatusChange, "Status changed",
			fmt.Sprintf("Status set to %s", *upd.Status), map[string]any{"status": *upd.Status})
	}
	if upd.AssignedAgentID != nil {
		a.c.recordEvent(ctx, id, domain.EventAssignmentChange, "Agent assigned", "",
			map[string]any{"agentId": *upd.AssignedAgentID})
	}
	return domain.OK(row.toDomain()), nil
}

func (a casesAPI) DeleteCase(ctx context.Context, id string) (domain.Empty, error) {
	if err := a.c.deleteOne(ctx, "DeleteCase", "cases", id); err != nil {
		return domain.Empty{}, err
	}
	return domain.Done(), nil
}

func (a casesAPI) AssignAgent(ctx context.Context, caseID, agentID string) (domain.Response[domain.Case], error) {
	return a.UpdateCase(ctx, caseID, domain.CaseUpdate{AssignedAgentID: &agentID})
}

func (a casesAPI) GetCaseEvents(ctx context.Context, caseID string) (domain.Response[[]domain.CaseEvent], error) {
	rows, err := selectAll[caseEventRow](ctx, a.c, "GetCaseEvents", "case_events", url.Values{
		"case_id": {eq(caseID)},
		"order":   {"created_at.desc"},
	})
	if err != nil {
		return domain.Response[[]domain.CaseEvent]{}, err
	}
	events := convert(rows, caseEventRow.toDomain)
	return domain.OK(events), nil
}

// recordEvent appends to the case timeline. Failures are logged only; the
// change itself already succeeded.
func (c *Client) recordEvent(ctx context.Context, caseID string, typ domain.CaseEventType, title, description string, metadata map[string]any) {
	row := caseEventFromDomain(domain.CaseEvent{
		CaseID:      caseID,
		Type:        typ,
		Title:       title,
		Description: description,
		Metadata:    metadata,
	})
	if _, err := insertMany(ctx, c, "RecordCaseEvent", "case_events", []caseEventRow{row}); err != nil {
		c.t.logger.Warn("supabase: case event not recorded",
			zap.String("case_id", caseID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
}
