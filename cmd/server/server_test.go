package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Simplici0/giftquote/internal/approval"
	"github.com/Simplici0/giftquote/internal/catalog"
	"github.com/Simplici0/giftquote/internal/db"
	"github.com/Simplici0/giftquote/internal/document"
	"github.com/Simplici0/giftquote/internal/migrations"
	"github.com/Simplici0/giftquote/internal/notify"
	"github.com/Simplici0/giftquote/internal/quote"
	"github.com/Simplici0/giftquote/internal/seed"
	"github.com/Simplici0/giftquote/internal/storage"
	"github.com/Simplici0/giftquote/internal/store"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (n *recordingNotifier) Send(_ context.Context, m notify.Message) error {
	if strings.TrimSpace(m.To) == "" {
		return notify.ErrInvalidRecipient
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, m)
	return nil
}

func (n *recordingNotifier) sent() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.messages...)
}

type testServer struct {
	router   chi.Router
	notifier *recordingNotifier
	files    *storage.DirStore
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	dir := t.TempDir()
	database, err := db.Open(db.DriverSQLite, filepath.Join(dir, "server-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database, db.DriverSQLite, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := seed.Run(context.Background(), database, db.DriverSQLite); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	files, err := storage.NewDirStore(filepath.Join(dir, "files"), "http://quotes.test/files")
	if err != nil {
		t.Fatalf("create dir store: %v", err)
	}
	signer, err := approval.NewSigner("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("create signer: %v", err)
	}

	notifier := &recordingNotifier{}
	catalogStore := store.NewCatalog(database, db.DriverSQLite)
	srv := &server{
		quotes:       store.NewQuotes(database, db.DriverSQLite),
		catalog:      catalog.NewService(catalogStore, time.Hour, nil),
		catalogStore: catalogStore,
		docs:         document.NewPDFGenerator(""),
		files:        files,
		notifier:     notifier,
		signer:       signer,
		baseURL:      "http://quotes.test",
		managerEmail: "manager@example.com",
		newID:        uuid.NewString,
	}
	return testServer{router: srv.routes(), notifier: notifier, files: files}
}

func (ts testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rr.Code, rr.Body.String())
	}
}

func tokenFrom(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link %q: %v", link, err)
	}
	token := u.Query().Get("token")
	if token == "" {
		t.Fatalf("link %q has no token", link)
	}
	return token
}

func signatureDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 300, 100))
	for x := 20; x < 280; x++ {
		img.Set(x, 50, color.NRGBA{A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode signature: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// createHolidayQuote creates a quote and fills option A with the seeded bundle.
func createHolidayQuote(t *testing.T, ts testServer) quoteResponse {
	t.Helper()

	rr := ts.do(t, http.MethodPost, "/quotes", map[string]any{
		"customer": map[string]any{"name": "דנה לוי", "company": "לוי בע\"מ", "email": "dana@example.com"},
		"context":  map[string]any{"budgetBeforeVAT": 200, "packageQuantity": 10},
	})
	expectStatus(t, rr, http.StatusCreated)
	created := decodeBody[quoteResponse](t, rr)

	rr = ts.do(t, http.MethodPost, "/quotes/"+created.ID+"/options/A/drop", map[string]any{"bundleId": "seed-holiday"})
	expectStatus(t, rr, http.StatusOK)
	return decodeBody[quoteResponse](t, rr)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, http.MethodGet, "/health", nil)
	expectStatus(t, rr, http.StatusOK)
}

func TestCatalogProductsSplitsBranding(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodGet, "/catalog/products", nil)
	expectStatus(t, rr, http.StatusOK)
	got := decodeBody[catalogProductsResponse](t, rr)

	if len(got.Products) != 2 || len(got.Branding) != 2 {
		t.Fatalf("expected 2 products and 2 branding rows, got %+v", got)
	}
	for _, p := range got.Branding {
		if !catalog.IsBranding(p.ProductType) {
			t.Fatalf("unexpected product in branding list: %+v", p)
		}
	}
}

func TestCreateQuoteDefaults(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/quotes", map[string]any{"customer": map[string]any{"name": "ישראל"}})
	expectStatus(t, rr, http.StatusCreated)
	q := decodeBody[quoteResponse](t, rr)

	if q.Number != 1001 {
		t.Fatalf("expected first quote number 1001, got %d", q.Number)
	}
	if q.Status != quote.StatusAwaitingQuote {
		t.Fatalf("expected awaiting_quote, got %s", q.Status)
	}
	if q.Context.ProfitTarget != quote.DefaultProfitTarget {
		t.Fatalf("expected default profit target, got %v", q.Context.ProfitTarget)
	}
	if len(q.Options) != 1 || q.Options[0].ID != "A" {
		t.Fatalf("expected a single option A, got %+v", q.Options)
	}
}

func TestCreateQuoteRejectsInvalidContext(t *testing.T) {
	ts := newTestServer(t)

	cases := []map[string]any{
		{"context": map[string]any{"budgetBeforeVAT": -1}},
		{"context": map[string]any{"profitTarget": 120}},
		{"context": map[string]any{"packageQuantity": -3}},
		{"unknownField": true},
	}
	for _, body := range cases {
		rr := ts.do(t, http.MethodPost, "/quotes", body)
		expectStatus(t, rr, http.StatusBadRequest)
	}
}

func TestDropBundleComputesFinancials(t *testing.T) {
	ts := newTestServer(t)
	q := createHolidayQuote(t, ts)

	opt, ok := q.Option("A")
	if !ok {
		t.Fatalf("option A missing: %+v", q.Options)
	}
	if opt.Title != "מארז חג" || opt.Total != 180 {
		t.Fatalf("unexpected option header: %q %v", opt.Title, opt.Total)
	}
	if len(opt.Items) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(opt.Items))
	}
	if opt.Items[0].IsPackaging() || !opt.Items[3].IsPackaging() {
		t.Fatalf("expected products before packaging: %+v", opt.Items)
	}

	f := opt.Financials
	if f.ItemCount != 2 || f.ProductCost != 60 || f.PackagingItemsCost != 15.5 || f.PackagingWorkCost != 2 {
		t.Fatalf("unexpected costs: %+v", f)
	}
	if f.TotalPaymentBeforeVAT != 1800 {
		t.Fatalf("expected total payment 1800, got %v", f.TotalPaymentBeforeVAT)
	}
}

func TestComputeDoesNotPersist(t *testing.T) {
	ts := newTestServer(t)
	q := createHolidayQuote(t, ts)

	rr := ts.do(t, http.MethodPost, "/quotes/"+q.ID+"/compute", map[string]any{
		"context": map[string]any{"packageQuantity": 20},
	})
	expectStatus(t, rr, http.StatusOK)
	preview := decodeBody[computeResponse](t, rr)
	if preview.Options[0].Financials.TotalPaymentBeforeVAT != 3600 {
		t.Fatalf("expected preview total 3600, got %v", preview.Options[0].Financials.TotalPaymentBeforeVAT)
	}

	rr = ts.do(t, http.MethodGet, "/quotes/"+q.ID, nil)
	expectStatus(t, rr, http.StatusOK)
	stored := decodeBody[quoteResponse](t, rr)
	if stored.Context.Quantity() != 10 {
		t.Fatalf("compute must not store changes, quantity is %d", stored.Context.Quantity())
	}
}

func TestOptionAndItemEditing(t *testing.T) {
	ts := newTestServer(t)
	q := createHolidayQuote(t, ts)
	base := "/quotes/" + q.ID + "/options"

	rr := ts.do(t, http.MethodPost, base+"/A/duplicate", nil)
	expectStatus(t, rr, http.StatusOK)
	q = decodeBody[quoteResponse](t, rr)
	if len(q.Options) != 2 || q.Options[1].ID != "B" {
		t.Fatalf("expected duplicated option B, got %+v", q.Options)
	}
	if q.Options[1].Items[0].ID == q.Options[0].Items[0].ID {
		t.Fatalf("duplicated rows must get new ids")
	}

	rr = ts.do(t, http.MethodPost, base+"/B/items/move", map[string]int{"from": 0, "to": 1})
	expectStatus(t, rr, http.StatusOK)
	q = decodeBody[quoteResponse](t, rr)
	b, _ := q.Option("B")
	if b.Items[1].Name != "יין אדום" {
		t.Fatalf("expected wine moved to index 1, got %+v", b.Items)
	}

	rr = ts.do(t, http.MethodPost, base+"/B/items/move", map[string]int{"from": 0, "to": 9})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = ts.do(t, http.MethodDelete, base+"/B/items/"+b.Items[1].ID, nil)
	expectStatus(t, rr, http.StatusOK)
	q = decodeBody[quoteResponse](t, rr)
	b, _ = q.Option("B")
	if len(b.Items) != 3 || b.Financials.ProductCost != 18 {
		t.Fatalf("expected wine removed, got %+v", b.Financials)
	}

	rr = ts.do(t, http.MethodDelete, base+"/B/items/missing", nil)
	expectStatus(t, rr, http.StatusNotFound)

	rr = ts.do(t, http.MethodDelete, base+"/B", nil)
	expectStatus(t, rr, http.StatusOK)
	q = decodeBody[quoteResponse](t, rr)
	if len(q.Options) != 1 {
		t.Fatalf("expected one option after delete, got %d", len(q.Options))
	}

	rr = ts.do(t, http.MethodPost, base+"/Z/drop", map[string]any{"productId": "seed-wine"})
	expectStatus(t, rr, http.StatusNotFound)

	rr = ts.do(t, http.MethodPost, base+"/A/drop", map[string]any{"productId": "seed-wine", "bundleId": "seed-holiday"})
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestOptionIDsStayUniqueAfterDelete(t *testing.T) {
	ts := newTestServer(t)
	q := createHolidayQuote(t, ts)
	base := "/quotes/" + q.ID + "/options"

	for n := 0; n < 2; n++ {
		rr := ts.do(t, http.MethodPost, base, nil)
		expectStatus(t, rr, http.StatusOK)
	}
	rr := ts.do(t, http.MethodDelete, base+"/A", nil)
	expectStatus(t, rr, http.StatusOK)
	rr = ts.do(t, http.MethodPost, base, nil)
	expectStatus(t, rr, http.StatusOK)
	q = decodeBody[quoteResponse](t, rr)

	seen := make(map[string]bool)
	for _, opt := range q.Options {
		if seen[opt.ID] {
			t.Fatalf("duplicate option id %q in %+v", opt.ID, q.Options)
		}
		seen[opt.ID] = true
	}
	if len(q.Options) != 3 || q.Options[2].ID != "A" {
		t.Fatalf("expected the freed id A to be reused last, got %+v", q.Options)
	}

	rr = ts.do(t, http.MethodPut, "/quotes/"+q.ID, map[string]any{"options": q.Options})
	expectStatus(t, rr, http.StatusOK)
}

func TestUpdateRejectsUnknownCategory(t *testing.T) {
	ts := newTestServer(t)
	q := createHolidayQuote(t, ts)

	opts := q.Options
	opts[0].Items[0].Category = "gift"
	rr := ts.do(t, http.MethodPut, "/quotes/"+q.ID, map[string]any{"options": opts})
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestUpdateKeepsItemCategory(t *testing.T) {
	ts := newTestServer(t)
	q := createHolidayQuote(t, ts)

	opts := q.Options
	wine := opts[0].Items[0]
	if wine.Category != quote.CategoryProduct {
		t.Fatalf("expected first row to be a product, got %+v", wine)
	}
	opts[0].Items[0].Category = quote.CategoryPackaging
	rr := ts.do(t, http.MethodPut, "/quotes/"+q.ID, map[string]any{"options": opts})
	expectStatus(t, rr, http.StatusOK)

	rr = ts.do(t, http.MethodGet, "/quotes/"+q.ID, nil)
	expectStatus(t, rr, http.StatusOK)
	stored := decodeBody[quoteResponse](t, rr)
	a, _ := stored.Option("A")
	if a.Items[0].ID != wine.ID || a.Items[0].Category != quote.CategoryProduct {
		t.Fatalf("expected row %s to stay a product, got %+v", wine.ID, a.Items[0])
	}
	if a.Financials.ProductCost != 60 || a.Financials.ItemCount != 2 {
		t.Fatalf("expected costs unchanged, got %+v", a.Financials)
	}
}

func TestCatalogImport(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/catalog/import", map[string]any{
		"products": []map[string]any{
			{"id": "imp-choc", "name": "שוקולד", "price": "12.5", "productType": "מזון"},
			{"id": "seed-wine", "name": "יין אדום", "details": "750ml", "price": 40, "productType": "יין", "unitsPerCarton": 6},
		},
		"bundles": []map[string]any{
			{"id": "imp-box", "name": "מארז שוקולד", "price": 90, "items": []string{"imp-choc", "seed-wine"}, "packagingItems": []string{"seed-basket"}},
		},
	})
	expectStatus(t, rr, http.StatusOK)
	got := decodeBody[catalogImportResponse](t, rr)
	if got.Inserted != 2 || got.Updated != 1 {
		t.Fatalf("expected 2 inserted and 1 updated, got %+v", got)
	}

	rr = ts.do(t, http.MethodGet, "/catalog/bundles", nil)
	expectStatus(t, rr, http.StatusOK)
	bundles := decodeBody[map[string][]catalog.Bundle](t, rr)["bundles"]
	var box *catalog.Bundle
	for i := range bundles {
		if bundles[i].ID == "imp-box" {
			box = &bundles[i]
		}
	}
	if box == nil || len(box.Items) != 2 || len(box.PackagingItems) != 1 {
		t.Fatalf("expected imported bundle with its items, got %+v", bundles)
	}
	if box.Items[1].Price != 40 {
		t.Fatalf("expected updated wine price 40, got %v", box.Items[1].Price)
	}

	rr = ts.do(t, http.MethodPost, "/catalog/import", map[string]any{
		"products": []map[string]any{{"id": "imp-cheese", "price": 5}, {"name": "no id"}},
	})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = ts.do(t, http.MethodGet, "/catalog/products", nil)
	expectStatus(t, rr, http.StatusOK)
	products := decodeBody[catalogProductsResponse](t, rr)
	for _, p := range products.Products {
		if p.ID == "imp-cheese" {
			t.Fatalf("a rejected import must not write any product")
		}
	}
	if len(products.Products) != 3 {
		t.Fatalf("expected 3 regular products after import, got %+v", products.Products)
	}
}

func TestUnknownQuoteIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, http.MethodGet, "/quotes/does-not-exist", nil)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestApprovalWorkflow(t *testing.T) {
	ts := newTestServer(t)
	q := createHolidayQuote(t, ts)

	rr := ts.do(t, http.MethodPost, "/quotes/"+q.ID+"/submit", nil)
	expectStatus(t, rr, http.StatusOK)
	submitted := decodeBody[workflowResponse](t, rr)
	if submitted.Status != quote.StatusManagerReview {
		t.Fatalf("expected manager_review, got %s", submitted.Status)
	}
	if msgs := ts.notifier.sent(); len(msgs) != 1 || msgs[0].To != "manager@example.com" {
		t.Fatalf("expected one manager email, got %+v", msgs)
	}

	managerToken := tokenFrom(t, submitted.Link)
	rr = ts.do(t, http.MethodPost, "/approval/manager", map[string]any{
		"token": managerToken, "decision": "approve", "notes": "נראה טוב",
	})
	expectStatus(t, rr, http.StatusOK)

	rr = ts.do(t, http.MethodPost, "/quotes/"+q.ID+"/send", nil)
	expectStatus(t, rr, http.StatusOK)
	sent := decodeBody[workflowResponse](t, rr)
	if sent.Status != quote.StatusSent || sent.PDFURL == "" {
		t.Fatalf("unexpected send response: %+v", sent)
	}
	msgs := ts.notifier.sent()
	last := msgs[len(msgs)-1]
	if last.To != "dana@example.com" || len(last.Attachments) != 1 {
		t.Fatalf("expected customer email with pdf, got %+v", last)
	}
	if !bytes.HasPrefix(last.Attachments[0].Content, []byte("%PDF")) {
		t.Fatalf("attachment is not a pdf")
	}

	rr = ts.do(t, http.MethodPut, "/quotes/"+q.ID, map[string]any{"notes": "late change"})
	expectStatus(t, rr, http.StatusConflict)

	customerToken := tokenFrom(t, sent.Link)
	rr = ts.do(t, http.MethodPost, "/approval/customer", map[string]any{"token": managerToken, "optionId": "A", "signerName": "דנה"})
	expectStatus(t, rr, http.StatusUnauthorized)

	rr = ts.do(t, http.MethodGet, "/approval/customer?token="+url.QueryEscape(customerToken), nil)
	expectStatus(t, rr, http.StatusOK)
	view := decodeBody[customerView](t, rr)
	if view.Status != quote.StatusViewed || len(view.Options) != 1 {
		t.Fatalf("unexpected customer view: %+v", view)
	}
	if view.Options[0].TotalWithVAT != 212.4 {
		t.Fatalf("expected total with VAT 212.4, got %v", view.Options[0].TotalWithVAT)
	}
	if strings.Contains(rr.Body.String(), "financials") {
		t.Fatalf("customer view must not expose financials: %s", rr.Body.String())
	}

	rr = ts.do(t, http.MethodPost, "/approval/customer", map[string]any{
		"token": customerToken, "optionId": "A", "signerName": " ", "signature": signatureDataURL(t),
	})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = ts.do(t, http.MethodPost, "/approval/customer", map[string]any{
		"token": customerToken, "optionId": "A", "signerName": "דנה לוי", "signature": signatureDataURL(t),
	})
	expectStatus(t, rr, http.StatusOK)

	rr = ts.do(t, http.MethodGet, "/quotes/"+q.ID, nil)
	expectStatus(t, rr, http.StatusOK)
	final := decodeBody[quoteResponse](t, rr)
	if final.Status != quote.StatusApproved || final.ApprovedOptionID != "A" || final.SignerName != "דנה לוי" {
		t.Fatalf("approval not recorded: %+v", final.Quote)
	}
	if final.ManagerNotes != "נראה טוב" {
		t.Fatalf("expected manager notes, got %q", final.ManagerNotes)
	}
	if _, err := ts.files.Get(context.Background(), final.SignatureKey); err != nil {
		t.Fatalf("signature not stored: %v", err)
	}

	rr = ts.do(t, http.MethodGet, "/quotes/"+q.ID+"/pdf", nil)
	expectStatus(t, rr, http.StatusOK)
	if rr.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", rr.Header().Get("Content-Type"))
	}
}

func TestManagerCorrectionReturnsQuoteToEditing(t *testing.T) {
	ts := newTestServer(t)
	q := createHolidayQuote(t, ts)

	rr := ts.do(t, http.MethodPost, "/quotes/"+q.ID+"/submit", nil)
	expectStatus(t, rr, http.StatusOK)
	token := tokenFrom(t, decodeBody[workflowResponse](t, rr).Link)

	rr = ts.do(t, http.MethodPost, "/approval/manager", map[string]any{"token": token, "decision": "maybe"})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = ts.do(t, http.MethodPost, "/approval/manager", map[string]any{"token": token, "decision": "reject"})
	expectStatus(t, rr, http.StatusOK)
	if got := decodeBody[workflowResponse](t, rr).Status; got != quote.StatusInCorrection {
		t.Fatalf("expected in_correction, got %s", got)
	}

	rr = ts.do(t, http.MethodPost, "/approval/manager", map[string]any{"token": token, "decision": "approve"})
	expectStatus(t, rr, http.StatusConflict)

	rr = ts.do(t, http.MethodPut, "/quotes/"+q.ID, map[string]any{"notes": "fixed"})
	expectStatus(t, rr, http.StatusOK)
}

func TestCustomerReject(t *testing.T) {
	ts := newTestServer(t)
	q := createHolidayQuote(t, ts)

	rr := ts.do(t, http.MethodPost, "/quotes/"+q.ID+"/send", nil)
	expectStatus(t, rr, http.StatusOK)
	token := tokenFrom(t, decodeBody[workflowResponse](t, rr).Link)

	rr = ts.do(t, http.MethodPost, "/approval/customer/reject", map[string]any{"token": token, "reason": "יקר מדי"})
	expectStatus(t, rr, http.StatusOK)

	rr = ts.do(t, http.MethodPost, "/approval/customer/reject", map[string]any{"token": token})
	expectStatus(t, rr, http.StatusConflict)

	rr = ts.do(t, http.MethodPost, "/approval/customer/reject", map[string]any{"token": "not-a-token"})
	expectStatus(t, rr, http.StatusUnauthorized)
}

func TestSendRequiresCustomerEmail(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/quotes", map[string]any{"customer": map[string]any{"name": "ללא מייל"}})
	expectStatus(t, rr, http.StatusCreated)
	q := decodeBody[quoteResponse](t, rr)

	rr = ts.do(t, http.MethodPost, "/quotes/"+q.ID+"/send", nil)
	expectStatus(t, rr, http.StatusBadRequest)

	rr = ts.do(t, http.MethodGet, "/quotes/"+q.ID, nil)
	if got := decodeBody[quoteResponse](t, rr).Status; got != quote.StatusAwaitingQuote {
		t.Fatalf("failed send must not change status, got %s", got)
	}
}
