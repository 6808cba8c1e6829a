package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/config"
	"quotationdesk/ledger"
	"quotationdesk/services"
	"quotationdesk/testhelpers"
)

// newTestDesk returns a desk whose clock is fixed in fiscal year 2026-27.
func newTestDesk() *Desk {
	desk := NewDesk(config.Default())
	desk.Now = func() time.Time { return time.Date(2026, 10, 17, 11, 0, 0, 0, time.UTC) }
	return desk
}

// serve runs handler h for one request acting as user "priya". body, when
// set, is sent as JSON.
func serve(t *testing.T, app *pocketbase.PocketBase, h func(*core.RequestEvent) error, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range params {
		req.SetPathValue(k, v)
	}
	req = req.WithContext(context.WithValue(req.Context(), CurrentUserKey, "priya"))

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := h(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func decodeDraft(t *testing.T, rec *httptest.ResponseRecorder) DraftView {
	t.Helper()
	var view DraftView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("response is not a draft: %v\nbody: %s", err, rec.Body.String())
	}
	return view
}

func createDraft(t *testing.T, app *pocketbase.PocketBase, desk *Desk) DraftView {
	t.Helper()
	rec := serve(t, app, HandleDraftCreate(app, desk), http.MethodPost, "/drafts", `{"mode":"creating"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeDraft(t, rec)
}

func addToDraft(t *testing.T, app *pocketbase.PocketBase, desk *Desk, draftID, productID string) DraftView {
	t.Helper()
	rec := serve(t, app, HandleDraftAddItem(app, desk), http.MethodPost, "/drafts/"+draftID+"/items",
		`{"productId":"`+productID+`"}`, map[string]string{"id": draftID})
	if rec.Code != http.StatusOK {
		t.Fatalf("add %s: expected 200, got %d: %s", productID, rec.Code, rec.Body.String())
	}
	return decodeDraft(t, rec)
}

func TestHandleDraftCreate_Creating(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()

	view := createDraft(t, app, desk)
	if view.ID == "" {
		t.Fatal("expected a draft id")
	}
	if view.Mode != "creating" {
		t.Errorf("expected mode creating, got %q", view.Mode)
	}
	if len(view.Items) != 0 || view.Totals.GrandTotal != 0 {
		t.Errorf("expected empty draft, got %+v", view)
	}
	if desk.Drafts.Len() != 1 {
		t.Errorf("expected 1 draft in store, got %d", desk.Drafts.Len())
	}
}

func TestHandleDraftCreate_Editing(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	testhelpers.CreateTestQuotation(t, app, "QT-26-27-005", testhelpers.PayloadItems(3), "5")

	rec := serve(t, app, HandleDraftCreate(app, desk), http.MethodPost, "/drafts",
		`{"mode":"editing","quotationId":"QT-26-27-005"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	view := decodeDraft(t, rec)
	if view.Mode != "editing" || view.QuotationID != "QT-26-27-005" {
		t.Errorf("unexpected draft header: %+v", view)
	}
	if len(view.Items) != 3 {
		t.Fatalf("expected 3 restored items, got %d", len(view.Items))
	}
	if view.Customer.Name != "Test Buyer" {
		t.Errorf("expected restored customer, got %+v", view.Customer)
	}
	if view.Totals.DiscountPercent != 5 {
		t.Errorf("expected discount 5, got %v", view.Totals.DiscountPercent)
	}
}

func TestHandleDraftCreate_EditingErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing quotation id", `{"mode":"editing"}`, http.StatusBadRequest},
		{"unknown quotation", `{"mode":"editing","quotationId":"QT-26-27-999"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, app, HandleDraftCreate(app, desk), http.MethodPost, "/drafts", tt.body, nil)
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, rec.Code)
			}
		})
	}
	if desk.Drafts.Len() != 0 {
		t.Errorf("failed creates must not leave drafts, got %d", desk.Drafts.Len())
	}
}

func TestDraftLifecycle_AddEditSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	testhelpers.CreateTestItem(t, app, "A", "Panel", "Hardware", 100)
	testhelpers.CreateTestItem(t, app, "B", "Cable", "Hardware", 50)
	testhelpers.CreateTestGSTRule(t, app, "panel", 18)
	testhelpers.CreateTestGSTRule(t, app, "Cable", 0)

	draft := createDraft(t, app, desk)
	params := map[string]string{"id": draft.ID}

	addToDraft(t, app, desk, draft.ID, "A")
	addToDraft(t, app, desk, draft.ID, "A")
	view := addToDraft(t, app, desk, draft.ID, "B")
	if len(view.Items) != 2 || view.Items[0].Quantity != 2 {
		t.Fatalf("expected A x2 and B x1, got %+v", view.Items)
	}

	rec := serve(t, app, HandleDraftSetDiscount(desk), http.MethodPut, "/drafts/"+draft.ID+"/discount",
		`{"discountPercent":"10"}`, params)
	view = decodeDraft(t, rec)
	if view.Totals.Subtotal != 250 || view.Totals.DiscountAmount != 25 || view.Totals.TotalGST != 36 || view.Totals.GrandTotal != 261 {
		t.Errorf("unexpected totals: %+v", view.Totals)
	}

	rec = serve(t, app, HandleDraftUpdateItem(desk), http.MethodPatch, "/drafts/"+draft.ID+"/items/A",
		`{"price":"90"}`, map[string]string{"id": draft.ID, "productId": "A"})
	view = decodeDraft(t, rec)
	if view.Items[0].UnitPrice != 90 || view.Items[0].CatalogPrice != 100 {
		t.Errorf("expected edited price 90 over catalog 100, got %+v", view.Items[0])
	}

	serve(t, app, HandleDraftSetCustomer(desk), http.MethodPut, "/drafts/"+draft.ID+"/customer",
		`{"name":"Asha Rao","phone":"+91 98765 43210","email":"asha@example.com"}`, params)

	rec = serve(t, app, HandleDraftSave(app, desk), http.MethodPost, "/drafts/"+draft.ID+"/save", "", params)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var saved ledger.Payload
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("response is not a payload: %v", err)
	}
	if saved.QuotationID != "QT-26-27-001" {
		t.Errorf("expected QT-26-27-001, got %q", saved.QuotationID)
	}
	if saved.GrandTotal != "239.40" || saved.SubTotal != "230.00" {
		t.Errorf("unexpected saved totals: sub %s grand %s", saved.SubTotal, saved.GrandTotal)
	}
	if saved.Customer.Phone != "9876543210" {
		t.Errorf("expected normalized phone, got %q", saved.Customer.Phone)
	}
	if saved.CreatedBy != "priya" {
		t.Errorf("expected createdBy priya, got %q", saved.CreatedBy)
	}

	overrides, err := services.ListOverrides(app, "QT-26-27-001")
	if err != nil {
		t.Fatalf("ListOverrides: %v", err)
	}
	if len(overrides) != 1 || overrides[0].ProductID != "A" || overrides[0].Price != 90 || overrides[0].Origin != "creating" {
		t.Errorf("unexpected overrides: %+v", overrides)
	}

	item, err := services.FindCatalogItem(app, "A")
	if err != nil {
		t.Fatalf("FindCatalogItem: %v", err)
	}
	if item.Price != 100 {
		t.Errorf("catalog price changed to %v", item.Price)
	}

	rec = serve(t, app, HandleDraftGet(desk), http.MethodGet, "/drafts/"+draft.ID, "", params)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected saved draft to be discarded, got %d", rec.Code)
	}
}

func TestHandleDraftSave_Editing(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	testhelpers.CreateTestQuotation(t, app, "QT-26-27-005", testhelpers.PayloadItems(2), "")

	rec := serve(t, app, HandleDraftCreate(app, desk), http.MethodPost, "/drafts",
		`{"mode":"editing","quotationId":"QT-26-27-005"}`, nil)
	draft := decodeDraft(t, rec)

	serve(t, app, HandleDraftUpdateItem(desk), http.MethodPatch, "/drafts/"+draft.ID+"/items/P01",
		`{"quantity":4}`, map[string]string{"id": draft.ID, "productId": "P01"})

	rec = serve(t, app, HandleDraftSave(app, desk), http.MethodPost, "/drafts/"+draft.ID+"/save", "",
		map[string]string{"id": draft.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	payload, err := services.LoadQuotation(app, "QT-26-27-005")
	if err != nil {
		t.Fatalf("LoadQuotation: %v", err)
	}
	if len(payload.Items) != 2 || payload.Items[0].Quantity != 4 {
		t.Errorf("expected P01 quantity 4, got %+v", payload.Items)
	}
	if payload.SubTotal != "500.00" {
		t.Errorf("expected subtotal 500.00, got %s", payload.SubTotal)
	}
	if payload.CreatedBy != "tester" {
		t.Errorf("author must not change on update, got %q", payload.CreatedBy)
	}

	records, err := app.FindRecordsByFilter("quotations", "1=1", "", 0, 0)
	if err != nil {
		t.Fatalf("FindRecordsByFilter: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected update in place, got %d quotations", len(records))
	}
}

func TestHandleDraftSave_InvalidCustomer(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	draft := createDraft(t, app, desk)
	params := map[string]string{"id": draft.ID}

	serve(t, app, HandleDraftSetCustomer(desk), http.MethodPut, "/drafts/"+draft.ID+"/customer",
		`{"name":"Asha Rao","phone":"12345"}`, params)

	rec := serve(t, app, HandleDraftSave(app, desk), http.MethodPost, "/drafts/"+draft.ID+"/save", "", params)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `"phone"`)

	rec = serve(t, app, HandleDraftGet(desk), http.MethodGet, "/drafts/"+draft.ID, "", params)
	if rec.Code != http.StatusOK {
		t.Errorf("draft must survive a failed save, got %d", rec.Code)
	}
}

func TestHandleDraftAddItem_Errors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	draft := createDraft(t, app, desk)
	testhelpers.CreateTestItem(t, app, "A", "Panel", "Hardware", 100)

	tests := []struct {
		name    string
		draftID string
		body    string
		code    int
	}{
		{"missing product id", draft.ID, `{}`, http.StatusBadRequest},
		{"unknown product", draft.ID, `{"productId":"ZZ-404"}`, http.StatusNotFound},
		{"unknown draft", "nope", `{"productId":"A"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, app, HandleDraftAddItem(app, desk), http.MethodPost, "/drafts/"+tt.draftID+"/items",
				tt.body, map[string]string{"id": tt.draftID})
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, rec.Code)
			}
		})
	}
}

func TestHandleDraftUpdateItem_Coercion(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	testhelpers.CreateTestItem(t, app, "A", "Panel", "Hardware", 100)
	draft := createDraft(t, app, desk)
	addToDraft(t, app, desk, draft.ID, "A")
	params := map[string]string{"id": draft.ID, "productId": "A"}

	tests := []struct {
		name      string
		body      string
		wantQty   int
		wantPrice float64
		wantRate  float64
	}{
		{"numeric quantity", `{"quantity":3}`, 3, 100, 18},
		{"string quantity truncates", `{"quantity":"2.9"}`, 2, 100, 18},
		{"garbage quantity is one", `{"quantity":"abc"}`, 1, 100, 18},
		{"negative price is zero", `{"price":"-5"}`, 1, 0, 18},
		{"price and rate", `{"price":"120.5","gstRate":"12"}`, 1, 120.5, 12},
		{"garbage rate is zero", `{"gstRate":"x"}`, 1, 120.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, app, HandleDraftUpdateItem(desk), http.MethodPatch, "/drafts/"+draft.ID+"/items/A", tt.body, params)
			view := decodeDraft(t, rec)
			if len(view.Items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(view.Items))
			}
			it := view.Items[0]
			if it.Quantity != tt.wantQty || it.UnitPrice != tt.wantPrice || it.GSTRatePercent != tt.wantRate {
				t.Errorf("got qty %d price %v rate %v", it.Quantity, it.UnitPrice, it.GSTRatePercent)
			}
		})
	}

	rec := serve(t, app, HandleDraftUpdateItem(desk), http.MethodPatch, "/drafts/"+draft.ID+"/items/A", `{"quantity":"0"}`, params)
	if view := decodeDraft(t, rec); len(view.Items) != 0 {
		t.Errorf("quantity 0 must remove the item, got %+v", view.Items)
	}
}

func TestHandleDraftRemoveItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	testhelpers.CreateTestItem(t, app, "A", "Panel", "Hardware", 100)
	testhelpers.CreateTestItem(t, app, "B", "Cable", "Hardware", 50)
	draft := createDraft(t, app, desk)
	addToDraft(t, app, desk, draft.ID, "A")
	addToDraft(t, app, desk, draft.ID, "B")

	rec := serve(t, app, HandleDraftRemoveItem(desk), http.MethodDelete, "/drafts/"+draft.ID+"/items/A", "",
		map[string]string{"id": draft.ID, "productId": "A"})
	view := decodeDraft(t, rec)
	if len(view.Items) != 1 || view.Items[0].ProductID != "B" {
		t.Errorf("expected only B left, got %+v", view.Items)
	}

	rec = serve(t, app, HandleDraftRemoveItem(desk), http.MethodDelete, "/drafts/"+draft.ID+"/items/Z", "",
		map[string]string{"id": draft.ID, "productId": "Z"})
	if rec.Code != http.StatusOK || len(decodeDraft(t, rec).Items) != 1 {
		t.Errorf("removing an absent product must be a no-op, got %d", rec.Code)
	}
}

func TestHandleDraftSetDiscount_InvalidIsZero(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	draft := createDraft(t, app, desk)

	for _, body := range []string{`{"discountPercent":"abc"}`, `{"discountPercent":-10}`, `{}`} {
		rec := serve(t, app, HandleDraftSetDiscount(desk), http.MethodPut, "/drafts/"+draft.ID+"/discount", body,
			map[string]string{"id": draft.ID})
		if got := decodeDraft(t, rec).Totals.DiscountPercent; got != 0 {
			t.Errorf("%s: expected discount 0, got %v", body, got)
		}
	}
}

func TestHandleDraftSetCustomer_Normalizes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	draft := createDraft(t, app, desk)

	rec := serve(t, app, HandleDraftSetCustomer(desk), http.MethodPut, "/drafts/"+draft.ID+"/customer",
		`{"name":"  Asha Rao ","phone":"09876543210"}`, map[string]string{"id": draft.ID})
	view := decodeDraft(t, rec)
	if view.Customer.Name != "Asha Rao" || view.Customer.Phone != "9876543210" {
		t.Errorf("unexpected customer: %+v", view.Customer)
	}
}

func TestHandleDraftPages(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()

	tests := []struct {
		name    string
		items   int
		pages   int
		offsets []int
	}{
		{"empty", 0, 1, []int{0}},
		{"exactly one page", 8, 1, []int{0}},
		{"seventeen items", 17, 3, []int{0, 8, 16}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ledger.Payload{Items: testhelpers.PayloadItems(tt.items)}.Ledger()
			sess := desk.Drafts.Create(ledger.ModeCreating, "", l, "priya")

			rec := serve(t, app, HandleDraftPages(desk), http.MethodGet, "/drafts/"+sess.ID+"/pages", "",
				map[string]string{"id": sess.ID})
			var pages []PageView
			if err := json.Unmarshal(rec.Body.Bytes(), &pages); err != nil {
				t.Fatalf("response is not a page list: %v", err)
			}
			if len(pages) != tt.pages {
				t.Fatalf("expected %d pages, got %d", tt.pages, len(pages))
			}
			for i, p := range pages {
				if p.SerialNumberOffset != tt.offsets[i] {
					t.Errorf("page %d: offset %d, want %d", i, p.SerialNumberOffset, tt.offsets[i])
				}
				if p.ShowHeader != (i == 0) || p.ShowFooter != (i == len(pages)-1) {
					t.Errorf("page %d: header %v footer %v", i, p.ShowHeader, p.ShowFooter)
				}
				if p.TotalPages != tt.pages {
					t.Errorf("page %d: totalPages %d", i, p.TotalPages)
				}
			}
		})
	}
}

func TestHandleDraftDiscard(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	draft := createDraft(t, app, desk)
	params := map[string]string{"id": draft.ID}

	rec := serve(t, app, HandleDraftDiscard(desk), http.MethodDelete, "/drafts/"+draft.ID, "", params)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	rec = serve(t, app, HandleDraftDiscard(desk), http.MethodDelete, "/drafts/"+draft.ID, "", params)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second discard, got %d", rec.Code)
	}
}

func TestHandleDraftPreviewPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	testhelpers.CreateTestSettings(t, app, 18)
	l := ledger.Payload{Items: testhelpers.PayloadItems(10)}.Ledger()
	sess := desk.Drafts.Create(ledger.ModeCreating, "", l, "priya")

	rec := serve(t, app, HandleDraftPreviewPDF(app, desk), http.MethodGet, "/drafts/"+sess.ID+"/preview.pdf", "",
		map[string]string{"id": sess.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected a PDF body")
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `inline; filename="DRAFT.pdf"`) {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
}

// saveEditedQuotation saves a new quotation for Panel (catalog 100, edited to
// 80) and Cable (50) and returns its number.
func saveEditedQuotation(t *testing.T, app *pocketbase.PocketBase, desk *Desk) string {
	t.Helper()
	testhelpers.CreateTestSettings(t, app, 18)
	testhelpers.CreateTestItem(t, app, "A", "Panel", "Hardware", 100)
	testhelpers.CreateTestItem(t, app, "B", "Cable", "Hardware", 50)

	draft := createDraft(t, app, desk)
	params := map[string]string{"id": draft.ID}
	addToDraft(t, app, desk, draft.ID, "A")
	addToDraft(t, app, desk, draft.ID, "B")
	serve(t, app, HandleDraftUpdateItem(desk), http.MethodPatch, "/drafts/"+draft.ID+"/items/A",
		`{"price":80}`, map[string]string{"id": draft.ID, "productId": "A"})
	serve(t, app, HandleDraftSetCustomer(desk), http.MethodPut, "/drafts/"+draft.ID+"/customer",
		`{"name":"Asha Rao","phone":"9876543210"}`, params)

	rec := serve(t, app, HandleDraftSave(app, desk), http.MethodPost, "/drafts/"+draft.ID+"/save", "", params)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var saved ledger.Payload
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("response is not a payload: %v", err)
	}
	return saved.QuotationID
}

// assertRendersStored checks that the re-rendered quotation shows panelPrice
// for Panel and agrees with the stored grand total.
func assertRendersStored(t *testing.T, app *pocketbase.PocketBase, desk *Desk, qid string, panelPrice float64, stalePrice string) {
	t.Helper()

	stored, err := services.LoadQuotation(app, qid)
	if err != nil {
		t.Fatalf("LoadQuotation: %v", err)
	}
	doc, err := services.BuildQuotationDocument(app, qid, desk.documentOptions())
	if err != nil {
		t.Fatalf("BuildQuotationDocument: %v", err)
	}
	for _, it := range doc.Items {
		if it.ProductID == "A" && it.UnitPrice != panelPrice {
			t.Errorf("document shows Panel at %v, want %v", it.UnitPrice, panelPrice)
		}
	}
	if got := ledger.Money(doc.Totals.GrandTotal); got != stored.GrandTotal {
		t.Errorf("document grand total %s disagrees with stored %s", got, stored.GrandTotal)
	}

	rec := serve(t, app, HandleQuotationPagesHTML(app, desk), http.MethodGet, "/quotations/"+qid+"/pages.html", "",
		map[string]string{"id": qid})
	if rec.Code != http.StatusOK {
		t.Fatalf("pages.html: expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), stalePrice) {
		t.Errorf("pages.html still shows the superseded price %s", stalePrice)
	}
}

func TestHandleDraftSave_EditingRemoveAndReAddDropsOverride(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	qid := saveEditedQuotation(t, app, desk)

	rec := serve(t, app, HandleDraftCreate(app, desk), http.MethodPost, "/drafts",
		`{"mode":"editing","quotationId":"`+qid+`"}`, nil)
	draft := decodeDraft(t, rec)
	for _, it := range draft.Items {
		if it.ProductID == "A" && (it.UnitPrice != 80 || it.CatalogPrice != 100) {
			t.Errorf("restored Panel = %v over catalog %v, want 80 over 100", it.UnitPrice, it.CatalogPrice)
		}
	}

	serve(t, app, HandleDraftRemoveItem(desk), http.MethodDelete, "/drafts/"+draft.ID+"/items/A", "",
		map[string]string{"id": draft.ID, "productId": "A"})
	addToDraft(t, app, desk, draft.ID, "A")

	rec = serve(t, app, HandleDraftSave(app, desk), http.MethodPost, "/drafts/"+draft.ID+"/save", "",
		map[string]string{"id": draft.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	assertRendersStored(t, app, desk, qid, 100, "₹80.00")
}

func TestHandleDraftSave_EditingKeepsRestoredOverride(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	qid := saveEditedQuotation(t, app, desk)

	rec := serve(t, app, HandleDraftCreate(app, desk), http.MethodPost, "/drafts",
		`{"mode":"editing","quotationId":"`+qid+`"}`, nil)
	draft := decodeDraft(t, rec)
	serve(t, app, HandleDraftUpdateItem(desk), http.MethodPatch, "/drafts/"+draft.ID+"/items/B",
		`{"quantity":3}`, map[string]string{"id": draft.ID, "productId": "B"})
	rec = serve(t, app, HandleDraftSave(app, desk), http.MethodPost, "/drafts/"+draft.ID+"/save", "",
		map[string]string{"id": draft.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The untouched Panel edit is re-staged against the catalog price.
	overrides, err := services.ListOverrides(app, qid)
	if err != nil {
		t.Fatalf("ListOverrides: %v", err)
	}
	if len(overrides) != 2 {
		t.Fatalf("expected one row per save, got %+v", overrides)
	}
	if last := overrides[1]; last.ProductID != "A" || last.Price != 80 || last.CatalogPrice != 100 || last.Revision != 2 {
		t.Errorf("re-staged override = %+v", last)
	}

	assertRendersStored(t, app, desk, qid, 80, "₹100.00")
}

func TestHandleDraftSave_RejectsConcurrentSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	testhelpers.CreateTestItem(t, app, "A", "Panel", "Hardware", 100)
	draft := createDraft(t, app, desk)
	params := map[string]string{"id": draft.ID}
	addToDraft(t, app, desk, draft.ID, "A")
	serve(t, app, HandleDraftSetCustomer(desk), http.MethodPut, "/drafts/"+draft.ID+"/customer",
		`{"name":"Asha Rao","phone":"9876543210"}`, params)

	// Another request is mid-save.
	if err := desk.Drafts.BeginSave(draft.ID, func(*ledger.Session) error { return nil }); err != nil {
		t.Fatalf("BeginSave: %v", err)
	}

	rec := serve(t, app, HandleDraftSave(app, desk), http.MethodPost, "/drafts/"+draft.ID+"/save", "", params)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = serve(t, app, HandleDraftUpdateItem(desk), http.MethodPatch, "/drafts/"+draft.ID+"/items/A",
		`{"quantity":5}`, map[string]string{"id": draft.ID, "productId": "A"})
	if rec.Code != http.StatusConflict {
		t.Errorf("edits during a save: expected 409, got %d", rec.Code)
	}

	records, _ := app.FindAllRecords("quotations")
	if len(records) != 0 {
		t.Errorf("a rejected save must not write, got %d quotations", len(records))
	}

	desk.Drafts.EndSave(draft.ID)
	rec = serve(t, app, HandleDraftSave(app, desk), http.MethodPost, "/drafts/"+draft.ID+"/save", "", params)
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 once the other save ended, got %d", rec.Code)
	}
}

func TestHandleDraftSave_RetryAfterFailedSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	desk := newTestDesk()
	draft := createDraft(t, app, desk)
	params := map[string]string{"id": draft.ID}

	serve(t, app, HandleDraftSetCustomer(desk), http.MethodPut, "/drafts/"+draft.ID+"/customer",
		`{"name":"Asha Rao","phone":"123"}`, params)
	rec := serve(t, app, HandleDraftSave(app, desk), http.MethodPost, "/drafts/"+draft.ID+"/save", "", params)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	rec = serve(t, app, HandleDraftSetCustomer(desk), http.MethodPut, "/drafts/"+draft.ID+"/customer",
		`{"name":"Asha Rao","phone":"9876543210"}`, params)
	if rec.Code != http.StatusOK {
		t.Fatalf("draft must accept edits after a failed save, got %d", rec.Code)
	}
	rec = serve(t, app, HandleDraftSave(app, desk), http.MethodPost, "/drafts/"+draft.ID+"/save", "", params)
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 on retry, got %d: %s", rec.Code, rec.Body.String())
	}
}
