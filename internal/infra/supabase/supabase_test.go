package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/collections-bfa-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key, _ string, r io.Reader, _ int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return nil
}

func (m *memStore) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://files.test/" + key, nil
}

func newTestClient(t *testing.T, h http.Handler, store port.ObjectStore) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{
		URL:        srv.URL,
		AnonKey:    "anon",
		Resilience: resilience.Config{MaxRetries: 1, MaxConcurrency: 4},
		CacheTTL:   time.Minute,
		Store:      store,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func noRows(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotAcceptable, map[string]any{
		"code":    "PGRST116",
		"message": "JSON object requested, multiple (or no) rows returned",
	})
}

func decodeBody(t *testing.T, r *http.Request, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(out))
}

func TestNew_ConfigErrors(t *testing.T) {
	_, err := New(Options{AnonKey: "anon"})
	var cfg *domain.ConfigError
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, "SUPABASE_URL", cfg.Key)

	_, err = New(Options{URL: "not a url", AnonKey: "anon"})
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, "SUPABASE_URL", cfg.Key)

	_, err = New(Options{URL: "https://project.supabase.co"})
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, "SUPABASE_ANON_KEY", cfg.Key)
}

func TestCapabilities_DependOnObjectStore(t *testing.T) {
	bare := newTestClient(t, http.NotFoundHandler(), nil)
	assert.True(t, bare.Capabilities().Has(domain.CapCaseIntakes))
	assert.False(t, bare.Capabilities().Has(domain.CapApprovals))
	assert.False(t, bare.Capabilities().Has(domain.CapDocuments))
	assert.Equal(t, domain.ModeEmbeddedStore, bare.Mode())

	bare.SetAuthToken("tok")
	_, err := bare.Invoices().GeneratePDF(context.Background(), "inv-1")
	assert.True(t, domain.IsStatus(err, http.StatusNotImplemented))
	_, err = bare.Documents().Upload(context.Background(), "a.pdf", "application/pdf", strings.NewReader("x"))
	assert.True(t, domain.IsStatus(err, http.StatusNotImplemented))

	full := newTestClient(t, http.NotFoundHandler(), &memStore{})
	assert.True(t, full.Capabilities().Has(domain.CapDocuments))
	assert.True(t, full.Capabilities().Has(domain.CapInvoicePDF))
	assert.True(t, full.Capabilities().Has(domain.CapGdprExport))
}

func TestUnsupportedGroups_Return501(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler(), nil)
	ctx := context.Background()

	_, err := c.Approvals().GetPendingApprovals(ctx)
	assert.True(t, domain.IsStatus(err, http.StatusNotImplemented))
	_, err = c.Users().GetUsers(ctx, domain.UserFilter{})
	assert.True(t, domain.IsStatus(err, http.StatusNotImplemented))
	_, err = c.Tariffs().DeleteTariff(ctx, "t1")
	assert.True(t, domain.IsStatus(err, http.StatusNotImplemented))
	_, err = c.Templates().RenderTemplate(ctx, "t1", nil)
	assert.True(t, domain.IsStatus(err, http.StatusNotImplemented))
	_, err = c.Retention().GetPendingDeletions(ctx)
	assert.True(t, domain.IsStatus(err, http.StatusNotImplemented))
	assert.True(t, domain.IsStatus(c.SetBaseURL("https://other"), http.StatusNotImplemented))
}

func TestTableCalls_RequireSession(t *testing.T) {
	var hits int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, http.StatusOK, []any{})
	}), nil)

	_, err := c.Cases().GetCase(context.Background(), "c1")
	assert.True(t, domain.IsStatus(err, http.StatusUnauthorized))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestLogin_DefaultsToClientWithoutProfile(t *testing.T) {
	var profileAuth atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "tok-1",
			"refresh_token": "ref-1",
			"user":          map[string]any{"id": "u1", "email": "ana@example.com", "created_at": "2025-01-02T10:00:00Z"},
		})
	})
	mux.HandleFunc("/rest/v1/profiles", func(w http.ResponseWriter, r *http.Request) {
		profileAuth.Store(r.Header.Get("Authorization"))
		assert.Equal(t, "eq.u1", r.URL.Query().Get("id"))
		writeJSON(w, http.StatusOK, []any{})
	})
	c := newTestClient(t, mux, nil)

	resp, err := c.Auth().Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, resp.Data.User.Role)
	assert.True(t, resp.Data.User.Active())
	assert.NotNil(t, resp.Data.User.LastLoginAt)
	assert.Equal(t, 3600, resp.Data.ExpiresIn)
	assert.Equal(t, "Bearer tok-1", profileAuth.Load())
	assert.True(t, c.Auth().IsAuthenticated())
}

func TestLogin_InvalidGrantIs401(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant", "error_description": "Invalid login credentials"})
	}), nil)

	_, err := c.Auth().Login(context.Background(), "ana@example.com", "wrong")
	assert.True(t, domain.IsStatus(err, http.StatusUnauthorized))
	assert.False(t, c.Auth().IsAuthenticated())
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		auth   bool
		want   int
		kind   domain.ErrorKind
	}{
		{"no rows", 406, `{"code":"PGRST116","message":"no rows"}`, false, 404, domain.KindAPI},
		{"jwt expired", 401, `{"code":"PGRST301","message":"JWT expired"}`, false, 401, domain.KindAPI},
		{"unique violation", 409, `{"code":"23505","message":"duplicate key"}`, false, 400, domain.KindAPI},
		{"bad credentials", 400, `{"error":"invalid_grant"}`, true, 401, domain.KindAPI},
		{"network", 500, `{"message":"network unreachable"}`, false, 0, domain.KindNetwork},
		{"unknown", 500, ``, false, 500, domain.KindAPI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.status, []byte(tt.body), tt.auth)
			assert.Equal(t, tt.kind, domain.Classify(err))
			assert.Equal(t, tt.want, domain.StatusOf(err))
		})
	}
}

func TestGetCases_PaginatesFromContentRange(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/rest/v1/cases", r.URL.Path)
		assert.Equal(t, "in.(new,closed)", q.Get("status"))
		assert.Equal(t, "2", q.Get("limit"))
		assert.Equal(t, "0", q.Get("offset"))
		assert.Equal(t, "created_at.desc", q.Get("order"))
		assert.Equal(t, []string{"gte.10", "lte.500"}, q["amount"])
		assert.Contains(t, r.Header.Get("Prefer"), "count=exact")
		w.Header().Set("Content-Range", "0-1/5")
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "c1", "reference": "R-1", "debtor_name": "A", "debtor_email": "a@x.io", "amount": 10, "currency": "EUR", "status": "new", "debtor_address": map[string]any{"city": "Berlin"}},
			{"id": "c2", "reference": "R-2", "debtor_name": "B", "debtor_email": "b@x.io", "amount": 20, "currency": "EUR", "status": "closed"},
		})
	}), nil)
	c.SetAuthToken("tok")

	floor, ceil := 10.0, 500.0
	page, err := c.Cases().GetCases(context.Background(), domain.CaseFilter{
		Status:    []domain.CaseStatus{domain.CaseNew, domain.CaseClosed},
		AmountMin: &floor,
		AmountMax: &ceil,
		Limit:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.True(t, page.HasNext)
	assert.Equal(t, "2", page.NextCursor)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Berlin", page.Data[0].Debtor.Address.City)
}

func TestGetCases_InvalidCursor(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler(), nil)
	c.SetAuthToken("tok")

	_, err := c.Cases().GetCases(context.Background(), domain.CaseFilter{Cursor: "abc"})
	assert.Equal(t, domain.KindValidation, domain.Classify(err))
}

func TestCreateCaseIntake_ComputesTotals(t *testing.T) {
	var intake map[string]any
	var invoices []map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/case_intakes", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		decodeBody(t, r, &intake)
		writeJSON(w, http.StatusCreated, intake)
	})
	mux.HandleFunc("/rest/v1/case_invoices", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &invoices)
		writeJSON(w, http.StatusCreated, invoices)
	})
	mux.HandleFunc("/rest/v1/case_audit_events", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, []any{})
	})
	c := newTestClient(t, mux, nil)
	c.SetAuthToken("tok")

	resp, err := c.CaseIntakes().CreateCaseIntake(context.Background(), domain.CreateCaseIntakeRequest{
		ServiceLevelID: "sl-1",
		DebtStatusID:   "ds-1",
		DebtorName:     "Acme GmbH",
		DebtorEmail:    "billing@acme.test",
		CurrencyCode:   "EUR",
		ClientID:       "client-1",
		Invoices: []domain.InvoiceLine{
			{InvoiceNumber: "INV-1", IssueDate: "2025-01-01", DueDate: "2025-02-01", Amount: 100.10, VatAmount: 19.02, Fees: 5},
			{InvoiceNumber: "INV-2", IssueDate: "2025-01-05", DueDate: "2025-02-05", Amount: 50.20, VatAmount: 9.54, Interest: 1.25},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 150.3, intake["total_amount"])
	assert.Equal(t, 28.56, intake["total_vat"])
	assert.Equal(t, 1.25, intake["total_interest"])
	assert.Equal(t, 5.0, intake["total_fees"])
	assert.Equal(t, "draft", intake["status"])
	assert.Equal(t, "individual", intake["debtor_type"])

	require.Len(t, invoices, 2)
	assert.Equal(t, intake["id"], invoices[0]["case_id"])
	assert.Equal(t, "EUR", invoices[1]["currency_code"])

	assert.True(t, strings.HasPrefix(resp.Data.Reference, "CI-"))
	assert.Len(t, resp.Data.Reference, 11)
	assert.Len(t, resp.Data.Invoices, 2)
}

func TestCreateCaseIntake_RollsBackWhenInvoicesFail(t *testing.T) {
	var deleted int32
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/case_intakes", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			atomic.AddInt32(&deleted, 1)
			writeJSON(w, http.StatusOK, map[string]any{"id": "x"})
			return
		}
		var row map[string]any
		decodeBody(t, r, &row)
		writeJSON(w, http.StatusCreated, row)
	})
	mux.HandleFunc("/rest/v1/case_invoices", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "23502", "message": "null value in column"})
	})
	c := newTestClient(t, mux, nil)
	c.SetAuthToken("tok")

	_, err := c.CaseIntakes().CreateCaseIntake(context.Background(), domain.CreateCaseIntakeRequest{
		DebtorName: "Acme", CurrencyCode: "EUR",
		Invoices: []domain.InvoiceLine{{InvoiceNumber: "INV-1", Amount: 10}},
	})
	assert.True(t, domain.IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, int32(1), atomic.LoadInt32(&deleted))
}

func TestDeleteCaseIntake_SecondDeleteIs404(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq.ci-1", r.URL.Query().Get("id"))
		if atomic.AddInt32(&calls, 1) == 1 {
			writeJSON(w, http.StatusOK, map[string]any{"id": "ci-1"})
			return
		}
		noRows(w)
	}), nil)
	c.SetAuthToken("tok")

	_, err := c.CaseIntakes().DeleteCaseIntake(context.Background(), "ci-1")
	require.NoError(t, err)
	_, err = c.CaseIntakes().DeleteCaseIntake(context.Background(), "ci-1")
	assert.True(t, domain.IsStatus(err, http.StatusNotFound))
}

func TestSubmitForReview_Transitions(t *testing.T) {
	t.Run("terminal status is a conflict", func(t *testing.T) {
		var patched int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPatch {
				atomic.AddInt32(&patched, 1)
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "ci-1", "status": "accepted"})
		}), nil)
		c.SetAuthToken("tok")

		_, err := c.CaseIntakes().SubmitForReview(context.Background(), "ci-1")
		assert.True(t, domain.IsStatus(err, http.StatusConflict))
		assert.Zero(t, atomic.LoadInt32(&patched))
	})

	t.Run("concurrent change is a conflict", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPatch {
				assert.Equal(t, "eq.draft", r.URL.Query().Get("status"))
				noRows(w)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "ci-1", "status": "draft"})
		}), nil)
		c.SetAuthToken("tok")

		_, err := c.CaseIntakes().SubmitForReview(context.Background(), "ci-1")
		assert.True(t, domain.IsStatus(err, http.StatusConflict))
	})
}

func TestReviewCaseIntake_AcceptOpensCase(t *testing.T) {
	var mu sync.Mutex
	status := "submitted"
	var opened map[string]any
	var patchBody map[string]any

	intake := func() map[string]any {
		mu.Lock()
		defer mu.Unlock()
		return map[string]any{
			"id": "ci-1", "reference": "CI-0000ABCD", "status": status,
			"debtor_name": "Acme", "debtor_email": "billing@acme.test", "debtor_country": "DE",
			"total_amount": 100.0, "total_vat": 20.0, "total_fees": 5.0, "currency_code": "EUR",
			"client_id": "client-1",
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/case_intakes", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			decodeBody(t, r, &patchBody)
			mu.Lock()
			status = patchBody["status"].(string)
			mu.Unlock()
			row := intake()
			row["assigned_agent_id"] = patchBody["assigned_agent_id"]
			writeJSON(w, http.StatusOK, row)
			return
		}
		writeJSON(w, http.StatusOK, intake())
	})
	mux.HandleFunc("/rest/v1/cases", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &opened)
		writeJSON(w, http.StatusCreated, opened)
	})
	mux.HandleFunc("/rest/v1/case_events", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, []any{})
	})
	mux.HandleFunc("/rest/v1/case_audit_events", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, []any{})
	})
	c := newTestClient(t, mux, nil)
	c.SetAuthToken("tok")

	resp, err := c.CaseIntakes().ReviewCaseIntake(context.Background(), "ci-1", domain.AcceptanceReview{
		Action:          domain.ReviewAccept,
		AssignedAgentID: "agent-7",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.IntakeAccepted, resp.Data.Status)
	assert.Equal(t, "accepted", patchBody["status"])

	require.NotNil(t, opened)
	assert.Equal(t, 125.0, opened["amount"])
	assert.Equal(t, 100.0, opened["original_amount"])
	assert.Equal(t, "in_progress", opened["status"])
	assert.Equal(t, "CI-0000ABCD", opened["reference"])
	assert.Equal(t, "DE", opened["debtor_address"].(map[string]any)["country"])
}

func TestReviewCaseIntake_RejectNeedsReason(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler(), nil)
	c.SetAuthToken("tok")

	_, err := c.CaseIntakes().ReviewCaseIntake(context.Background(), "ci-1", domain.AcceptanceReview{Action: domain.ReviewReject})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "rejectionReason")

	_, err = c.CaseIntakes().ReviewCaseIntake(context.Background(), "ci-1", domain.AcceptanceReview{Action: "approve"})
	assert.Equal(t, domain.KindValidation, domain.Classify(err))
}

func TestGetServiceLevels_IsCachedUntilWrite(t *testing.T) {
	var lists int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			atomic.AddInt32(&lists, 1)
			assert.Equal(t, "name.asc", r.URL.Query().Get("order"))
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "sl-1", "name": "Standard", "code": "STD", "sla_hours": 48, "is_active": true}})
		case http.MethodPatch:
			writeJSON(w, http.StatusOK, map[string]any{"id": "sl-1", "name": "Standard", "code": "STD", "is_active": false})
		}
	}), nil)
	c.SetAuthToken("tok")
	ctx := context.Background()

	first, err := c.AdminConfig().GetServiceLevels(ctx)
	require.NoError(t, err)
	require.Len(t, first.Data, 1)
	assert.Equal(t, 48, first.Data[0].SlaHours)

	_, err = c.AdminConfig().GetServiceLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&lists))

	inactive := false
	_, err = c.AdminConfig().UpdateServiceLevel(ctx, "sl-1", domain.OptionInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = c.AdminConfig().GetServiceLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&lists))
}

func TestCreateDebtStatus_DefaultClearsOthers(t *testing.T) {
	var order []string
	var keep string
	var mu sync.Mutex
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		order = append(order, r.Method)
		mu.Unlock()
		switch r.Method {
		case http.MethodPatch:
			assert.Equal(t, "eq.true", r.URL.Query().Get("is_system_default"))
			keep = r.URL.Query().Get("id")
			writeJSON(w, http.StatusOK, []any{map[string]any{"id": "old"}})
		case http.MethodPost:
			var body map[string]any
			decodeBody(t, r, &body)
			assert.Equal(t, true, body["is_system_default"])
			assert.Equal(t, true, body["is_active"])
			writeJSON(w, http.StatusCreated, body)
		}
	}), nil)
	c.SetAuthToken("tok")

	name, code, yes := "Disputed", "DSP", true
	resp, err := c.AdminConfig().CreateDebtStatus(context.Background(), domain.OptionInput{Name: &name, Code: &code, IsSystemDefault: &yes})
	require.NoError(t, err)
	assert.True(t, resp.Data.IsSystemDefault)
	assert.Equal(t, []string{http.MethodPost, http.MethodPatch}, order)
	assert.Equal(t, "neq."+resp.Data.ID, keep)

	_, err = c.AdminConfig().CreateDebtStatus(context.Background(), domain.OptionInput{Name: &name})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "code")
}

func TestGeneratePDF_StoresAndRecordsLink(t *testing.T) {
	store := &memStore{}
	var pdfURL atomic.Value
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		row := map[string]any{
			"id": "inv-1", "invoice_number": "F-2025-001", "amount": 100, "vat_amount": 21, "total_amount": 121,
			"currency": "EUR", "status": "sent", "client_name": "Acme",
			"items": []map[string]any{{"description": "Collection fee", "quantity": 1, "unit_price": 100, "vat_rate": 21, "total": 121}},
		}
		if r.Method == http.MethodPatch {
			var body map[string]any
			decodeBody(t, r, &body)
			pdfURL.Store(body["pdf_url"])
		}
		writeJSON(w, http.StatusOK, row)
	}), store)
	c.SetAuthToken("tok")

	resp, err := c.Invoices().GeneratePDF(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "https://files.test/invoices/inv-1.pdf", resp.Data.PdfURL)
	assert.Equal(t, resp.Data.PdfURL, pdfURL.Load())
	assert.True(t, bytes.HasPrefix(store.objects["invoices/inv-1.pdf"], []byte("%PDF")))
}

func TestMarkAsPaid_RejectsDraft(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "inv-1", "status": "draft", "items": []any{}})
	}), nil)
	c.SetAuthToken("tok")

	_, err := c.Invoices().MarkAsPaid(context.Background(), "inv-1", nil)
	assert.True(t, domain.IsStatus(err, http.StatusConflict))
}

func TestDeleteData_PseudonymisesAndRecords(t *testing.T) {
	var mu sync.Mutex
	patched := map[string]map[string]any{}
	var record map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "eq.debtor@example.com", r.URL.Query().Get("debtor_email"))
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "c1"}, {"id": "c2"}})
		case http.MethodPatch:
			var body map[string]any
			decodeBody(t, r, &body)
			mu.Lock()
			patched[table] = body
			mu.Unlock()
			writeJSON(w, http.StatusOK, []any{})
		case http.MethodPost:
			decodeBody(t, r, &record)
			writeJSON(w, http.StatusCreated, record)
		}
	}), nil)
	c.SetAuthToken("tok")

	_, err := c.Gdpr().DeleteData(context.Background(), "debtor@example.com", "subject request")
	require.NoError(t, err)

	assert.Equal(t, erasedName, patched["cases"]["debtor_name"])
	assert.Nil(t, patched["case_intakes"]["debtor_email"])
	assert.Equal(t, "ERASURE", record["type"])
	assert.Equal(t, "completed", record["status"])
	assert.Equal(t, []any{"c1", "c2"}, record["affected_cases"])

	subject, _ := record["data_subject"].(string)
	assert.True(t, strings.HasPrefix(subject, "sha256:"), subject)
	assert.NotContains(t, subject, "debtor@example.com")
	assert.Equal(t, subjectDigest(" Debtor@Example.com "), subject)
}

func TestGetDashboardStats(t *testing.T) {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		if r.Method == http.MethodHead {
			total := "0"
			switch {
			case r.URL.Path == "/rest/v1/invoices" && status == "eq.overdue":
				total = "2"
			case status == "":
				total = "10"
			case status == "eq.closed":
				total = "4"
			case status == in(domain.ActiveCaseStatuses):
				total = "6"
			}
			w.Header().Set("Content-Range", "*/"+total)
			w.WriteHeader(http.StatusOK)
			return
		}
		assert.Equal(t, "eq.paid", status)
		writeJSON(w, http.StatusOK, []map[string]any{
			{"total_amount": 100.25, "currency": "EUR", "created_at": created, "paid_at": created.Add(10 * 24 * time.Hour)},
			{"total_amount": 199.75, "currency": "EUR", "created_at": created, "paid_at": created.Add(20 * 24 * time.Hour)},
		})
	}), nil)
	c.SetAuthToken("tok")

	resp, err := c.Analytics().GetDashboardStats(context.Background(), domain.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Data.TotalCases)
	assert.Equal(t, 6, resp.Data.ActiveCases)
	assert.Equal(t, 2, resp.Data.OverdueInvoices)
	assert.Equal(t, 300.0, resp.Data.TotalRecovered)
	assert.Equal(t, 15.0, resp.Data.AverageRecoveryTime)
	assert.Equal(t, 40.0, resp.Data.SuccessRate)
}

// intakeBackend fakes the intake tables for update tests. The stored intake
// has one invoice "old-1" and a total of 500.
type intakeBackend struct {
	mu       sync.Mutex
	writes   []string
	deleted  []string
	inserted []map[string]any
	patch    map[string]any

	failInsert bool
	failPatch  bool
}

func (b *intakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/case_intakes", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			b.record("PATCH case_intakes")
			if b.failPatch {
				noRows(w)
				return
			}
			b.mu.Lock()
			decodeBody(t, r, &b.patch)
			b.mu.Unlock()
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "ci-1", "status": "draft", "currency_code": "EUR", "total_amount": 500.0})
	})
	mux.HandleFunc("/rest/v1/case_invoices", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "old-1"}})
		case http.MethodPost:
			b.record("POST case_invoices")
			if b.failInsert {
				writeJSON(w, http.StatusBadRequest, map[string]any{"code": "23502", "message": "null value in column \"issue_date\""})
				return
			}
			var rows []map[string]any
			decodeBody(t, r, &rows)
			b.mu.Lock()
			b.inserted = rows
			b.mu.Unlock()
			writeJSON(w, http.StatusCreated, rows)
		case http.MethodDelete:
			b.record("DELETE case_invoices")
			b.mu.Lock()
			b.deleted = append(b.deleted, r.URL.Query().Get("id"))
			b.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/rest/v1/case_audit_events", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, []any{})
	})
	return mux
}

func (b *intakeBackend) record(op string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = append(b.writes, op)
}

func newInvoiceUpdate() domain.CaseIntakeUpdate {
	return domain.CaseIntakeUpdate{Invoices: []domain.InvoiceLine{{InvoiceNumber: "INV-2", IssueDate: "2025-03-01", Amount: 1000}}}
}

func TestUpdateCaseIntake_ReplacesInvoicesBeforeRemovingOldOnes(t *testing.T) {
	b := &intakeBackend{}
	c := newTestClient(t, b.handler(t), nil)
	c.SetAuthToken("tok")

	_, err := c.CaseIntakes().UpdateCaseIntake(context.Background(), "ci-1", newInvoiceUpdate())
	require.NoError(t, err)

	assert.Equal(t, []string{"POST case_invoices", "PATCH case_intakes", "DELETE case_invoices"}, b.writes)
	assert.Equal(t, []string{"in.(old-1)"}, b.deleted)
	assert.Equal(t, 1000.0, b.patch["total_amount"])
	require.Len(t, b.inserted, 1)
	assert.NotEmpty(t, b.inserted[0]["id"])
}

func TestUpdateCaseIntake_FailedInsertLeavesIntakeUntouched(t *testing.T) {
	b := &intakeBackend{failInsert: true}
	c := newTestClient(t, b.handler(t), nil)
	c.SetAuthToken("tok")

	_, err := c.CaseIntakes().UpdateCaseIntake(context.Background(), "ci-1", newInvoiceUpdate())
	assert.True(t, domain.IsStatus(err, http.StatusBadRequest), "got %v", err)

	assert.Equal(t, []string{"POST case_invoices"}, b.writes)
	assert.Empty(t, b.deleted)
	assert.Nil(t, b.patch)
}

func TestUpdateCaseIntake_ConflictRemovesNewInvoices(t *testing.T) {
	b := &intakeBackend{failPatch: true}
	c := newTestClient(t, b.handler(t), nil)
	c.SetAuthToken("tok")

	_, err := c.CaseIntakes().UpdateCaseIntake(context.Background(), "ci-1", newInvoiceUpdate())
	assert.True(t, domain.IsStatus(err, http.StatusConflict), "got %v", err)

	require.Len(t, b.inserted, 1)
	assert.Equal(t, []string{"in.(" + b.inserted[0]["id"].(string) + ")"}, b.deleted)
}

func TestReviewCaseIntake_AcceptReopensReviewWhenCaseFails(t *testing.T) {
	var mu sync.Mutex
	status := "submitted"
	var reopened url.Values

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/case_intakes", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodPatch {
			var body map[string]any
			decodeBody(t, r, &body)
			if r.URL.Query().Get("status") == "eq.accepted" {
				reopened = r.URL.Query()
			}
			status = body["status"].(string)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "ci-1", "reference": "CI-0000ABCD", "status": status,
			"debtor_name": "Acme", "total_amount": 100.0, "currency_code": "EUR",
		})
	})
	mux.HandleFunc("/rest/v1/cases", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "23505", "message": "duplicate key value violates unique constraint"})
	})
	c := newTestClient(t, mux, nil)
	c.SetAuthToken("tok")

	_, err := c.CaseIntakes().ReviewCaseIntake(context.Background(), "ci-1", domain.AcceptanceReview{Action: domain.ReviewAccept})
	assert.True(t, domain.IsStatus(err, http.StatusBadRequest), "got %v", err)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, reopened, "accepted intake must be moved back")
	assert.Equal(t, "eq.ci-1", reopened.Get("id"))
	assert.Equal(t, "submitted", status)
}

func TestGetServiceLevels_CacheIsScopedToToken(t *testing.T) {
	var lists int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&lists, 1)
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "sl-1", "name": "Standard", "code": "STD"}})
	}), nil)

	token := func(exp time.Duration) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(exp).Unix(),
		}).SignedString([]byte("other-secret"))
		require.NoError(t, err)
		return tok
	}
	ctx := context.Background()

	first := c.WithToken(token(time.Hour))
	_, err := first.AdminConfig().GetServiceLevels(ctx)
	require.NoError(t, err)
	_, err = first.AdminConfig().GetServiceLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&lists))

	sameSubject := c.WithToken(token(2 * time.Hour))
	_, err = sameSubject.AdminConfig().GetServiceLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&lists))
}

func TestCreateDebtStatus_FailedInsertKeepsExistingDefault(t *testing.T) {
	var patches int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			atomic.AddInt32(&patches, 1)
			writeJSON(w, http.StatusOK, []any{})
		case http.MethodPost:
			writeJSON(w, http.StatusConflict, map[string]any{"code": "23505", "message": "duplicate key value violates unique constraint"})
		}
	}), nil)
	c.SetAuthToken("tok")

	name, code, yes := "Disputed", "DSP", true
	_, err := c.AdminConfig().CreateDebtStatus(context.Background(), domain.OptionInput{Name: &name, Code: &code, IsSystemDefault: &yes})
	require.Error(t, err)
	assert.Zero(t, atomic.LoadInt32(&patches))
}
