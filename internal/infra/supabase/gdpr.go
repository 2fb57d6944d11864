package supabase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/render"
	"github.com/boddenberg/collections-bfa-go/internal/infra/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// GDPR requests, exports and erasure
// ============================================================

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	erasedName      = "Erased data subject"
	erasedEmail     = "erased@invalid.example"
)

type gdprAPI struct{ c *Client }

func (a gdprAPI) GetRequests(ctx context.Context, f domain.GdprFilter) (domain.Page[domain.GdprRequest], error) {
	q := url.Values{}
	if len(f.Type) > 0 {
		q.Set("type", in(f.Type))
	}
	if len(f.Status) > 0 {
		q.Set("status", in(f.Status))
	}
	return listPage(ctx, a.c, "GetGdprRequests", "gdpr_requests", q, f.Cursor, f.Limit, gdprRequestRow.toDomain)
}

func (a gdprAPI) GetRequest(ctx context.Context, id string) (domain.Response[domain.GdprRequest], error) {
	row, err := selectOne[gdprRequestRow](ctx, a.c, "GetGdprRequest", "gdpr_requests", byID(id))
	if err != nil {
		return domain.Response[domain.GdprRequest]{}, err
	}
	return domain.OK(row.toDomain()), nil
}

func (a gdprAPI) CreateRequest(ctx context.Context, req domain.CreateGdprRequest) (domain.Response[domain.GdprRequest], error) {
	verr := &domain.ValidationError{Message: "Invalid GDPR request"}
	switch req.Type {
	case domain.GdprSAR, domain.GdprErasure, domain.GdprRectification, domain.GdprPortability, domain.GdprObjection:
	default:
		verr.Add("type", "must be SAR, ERASURE, RECTIFICATION, PORTABILITY or OBJECTION")
	}
	if strings.TrimSpace(req.DataSubject) == "" {
		verr.Add("dataSubject", "is required")
	}
	if !verr.Empty() {
		return domain.Response[domain.GdprRequest]{}, verr
	}

	row, err := insertOne(ctx, a.c, "CreateGdprRequest", "gdpr_requests", a.newRequest(req.Type, domain.GdprPending, req.DataSubject, req.Description))
	if err != nil {
		return domain.Response[domain.GdprRequest]{}, err
	}
	return domain.OK(row.toDomain()), nil
}

func (a gdprAPI) newRequest(typ domain.GdprRequestType, status domain.GdprStatus, subject, description string) gdprRequestRow {
	actorID, actorName := a.c.actor()
	now := time.Now().UTC()
	return gdprRequestRow{
		ID:              uuid.NewString(),
		Type:            typ,
		Status:          status,
		RequestedBy:     actorID,
		RequestedByName: actorName,
		DataSubject:     strings.TrimSpace(subject),
		Description:     description,
		DueDate:         now.Add(domain.GdprResponseWindow).Format("2006-01-02"),
	}
}

func (a gdprAPI) UpdateRequest(ctx context.Context, id string, upd domain.GdprRequestUpdate) (domain.Response[domain.GdprRequest], error) {
	current, err := selectOne[gdprRequestRow](ctx, a.c, "GetGdprRequest", "gdpr_requests", byID(id))
	if err != nil {
		return domain.Response[domain.GdprRequest]{}, err
	}

	p := patch{}
	if upd.Status != nil && *upd.Status != current.Status {
		if !current.Status.CanTransition(*upd.Status) {
			return domain.Response[domain.GdprRequest]{}, domain.Conflict(fmt.Sprintf("cannot move GDPR request from %s to %s", current.Status, *upd.Status))
		}
		p.set("status", *upd.Status)
		if *upd.Status == domain.GdprCompleted {
			p.set("completed_at", time.Now().UTC())
		}
	}
	p.str("description", upd.Description).str("download_url", upd.DownloadURL)
	if upd.AffectedCases != nil {
		p.set("affected_cases", upd.AffectedCases)
	}
	if p.empty() {
		return domain.OK(current.toDomain()), nil
	}

	q := byID(id)
	q.Set("status", eq(string(current.Status)))
	row, err := patchOne[gdprRequestRow](ctx, a.c, "UpdateGdprRequest", "gdpr_requests", q, p)
	if domain.IsStatus(err, http.StatusNotFound) {
		return domain.Response[domain.GdprRequest]{}, domain.Conflict("GDPR request changed while it was being updated")
	}
	if err != nil {
		return domain.Response[domain.GdprRequest]{}, err
	}
	return domain.OK(row.toDomain()), nil
}

func (a gdprAPI) ProcessRequest(ctx context.Context, id string) (domain.Response[domain.GdprRequest], error) {
	processing := domain.GdprProcessing
	return a.UpdateRequest(ctx, id, domain.GdprRequestUpdate{Status: &processing})
}

// ExportData collects every case and intake whose debtor email is subjectID
// into a workbook and returns a presigned link to it.
func (a gdprAPI) ExportData(ctx context.Context, subjectID string) (domain.Response[domain.DownloadLink], error) {
	if !a.c.caps.Has(domain.CapGdprExport) {
		return domain.Response[domain.DownloadLink]{}, domain.NotImplemented("ExportData")
	}
	if strings.TrimSpace(subjectID) == "" {
		verr := &domain.ValidationError{Message: "Invalid export"}
		verr.Add("subjectId", "is required")
		return domain.Response[domain.DownloadLink]{}, verr
	}

	bySubject := url.Values{"debtor_email": {eq(subjectID)}, "order": {"created_at.asc"}}
	cases, err := selectAll[caseRow](ctx, a.c, "ExportCases", "cases", bySubject)
	if err != nil {
		return domain.Response[domain.DownloadLink]{}, err
	}
	intakeQuery := url.Values{"debtor_email": {eq(subjectID)}, "order": {"created_at.asc"}, "select": {"*,case_invoices(*)"}}
	intakes, err := selectAll[caseIntakeRow](ctx, a.c, "ExportCaseIntakes", "case_intakes", intakeQuery)
	if err != nil {
		return domain.Response[domain.DownloadLink]{}, err
	}

	now := time.Now().UTC()
	workbook, err := render.GdprExport(subjectID, now, convert(cases, caseRow.toDomain), convert(intakes, caseIntakeRow.toDomain))
	if err != nil {
		return domain.Response[domain.DownloadLink]{}, &domain.APIError{Status: http.StatusInternalServerError, Message: "export rendering failed", Details: err.Error()}
	}
	link, err := a.c.storeObject(ctx, storage.ObjectKey("gdpr-exports", "export-"+now.Format("20060102")+".xlsx"), xlsxContentType, workbook)
	if err != nil {
		return domain.Response[domain.DownloadLink]{}, err
	}

	record := a.newRequest(domain.GdprSAR, domain.GdprCompleted, subjectID, "Data export")
	record.CompletedAt, record.DownloadURL = &now, link
	record.AffectedCases = caseIDs(cases)
	if _, err := insertOne(ctx, a.c, "RecordGdprExport", "gdpr_requests", record); err != nil {
		a.c.t.logger.Warn("supabase: export not recorded", zap.Error(err))
	}
	return domain.OK(domain.DownloadLink{DownloadURL: link}), nil
}

// DeleteData pseudonymises the subject's debtor data on cases and intakes and
// records a completed ERASURE request listing the affected cases.
func (a gdprAPI) DeleteData(ctx context.Context, subjectID, reason string) (domain.Empty, error) {
	if strings.TrimSpace(subjectID) == "" {
		verr := &domain.ValidationError{Message: "Invalid erasure"}
		verr.Add("subjectId", "is required")
		return domain.Empty{}, verr
	}

	bySubject := url.Values{"debtor_email": {eq(subjectID)}}
	cases, err := selectAll[caseRow](ctx, a.c, "FindSubjectCases", "cases", url.Values{
		"debtor_email": {eq(subjectID)},
		"select":       {"id,reference"},
	})
	if err != nil {
		return domain.Empty{}, err
	}

	if _, err := a.c.patchAll(ctx, "EraseCases", "cases", bySubject, patch{
		"debtor_name":    erasedName,
		"debtor_email":   erasedEmail,
		"debtor_phone":   nil,
		"debtor_address": domain.Address{},
	}); err != nil {
		return domain.Empty{}, err
	}
	if _, err := a.c.patchAll(ctx, "EraseCaseIntakes", "case_intakes", url.Values{"debtor_email": {eq(subjectID)}}, patch{
		"debtor_name":    erasedName,
		"debtor_email":   nil,
		"debtor_phone":   nil,
		"debtor_address": nil,
		"debtor_tax_id":  nil,
		"debtor_vat_id":  nil,
	}); err != nil {
		return domain.Empty{}, err
	}

	now := time.Now().UTC()
	record := a.newRequest(domain.GdprErasure, domain.GdprCompleted, subjectDigest(subjectID), reason)
	record.CompletedAt = &now
	record.AffectedCases = caseIDs(cases)
	if _, err := insertOne(ctx, a.c, "RecordGdprErasure", "gdpr_requests", record); err != nil {
		return domain.Empty{}, err
	}

	a.c.t.logger.Info("supabase: data subject erased", zap.Int("cases", len(cases)))
	return domain.Done(), nil
}

// subjectDigest stands in for an erased subject in the request log. The same
// address always yields the same digest.
func subjectDigest(subjectID string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(subjectID))))
	return "sha256:" + hex.EncodeToString(sum[:])
}

func caseIDs(rows []caseRow) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}
