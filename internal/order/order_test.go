// AngelaMos | 2026
// order_test.go

package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/core"
	"github.com/carterperez-dev/orderdesk/internal/middleware"
	"github.com/carterperez-dev/orderdesk/internal/tabular"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "?", "_", "=", "_", "&", "_").Replace(t.Name())
	db, err := sqlx.Open(core.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := core.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var fixedNow = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(setupTestDB(t), opts...)
}

func sampleRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Dist:     "D1",
		Location: "North",
		Model:    "X1",
		Color:    "Red",
		Spec:     "v1",
		Quantity: 5,
	}
}

func mustCreate(t *testing.T, svc *Service, actor string, req CreateOrderRequest) *Order {
	t.Helper()
	o, err := svc.Create(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return o
}

func snapshot(t *testing.T, svc *Service) []Order {
	t.Helper()
	var all []Order
	for _, st := range Statuses {
		orders, err := svc.FilterByStatus(context.Background(), st, DateRange{})
		if err != nil {
			t.Fatalf("FilterByStatus(%s) error = %v", st, err)
		}
		all = append(all, orders...)
	}
	slices.SortFunc(all, func(a, b Order) int { return int(a.ID - b.ID) })
	return all
}

func TestCreate(t *testing.T) {
	svc := newTestService(t)

	o := mustCreate(t, svc, "ALICE", sampleRequest())

	if o.ID == 0 {
		t.Fatalf("ID not assigned")
	}
	if o.Status != StatusNew || o.Remark != "" {
		t.Fatalf("status/remark = %q/%q", o.Status, o.Remark)
	}
	if o.AddedBy != "ALICE" || o.UpdateBy != "ALICE" {
		t.Fatalf("added_by/update_by = %q/%q", o.AddedBy, o.UpdateBy)
	}
	if o.Date != "05-03-2024" || o.Time != "14:30:00" {
		t.Fatalf("date/time = %q %q", o.Date, o.Time)
	}

	stored, err := svc.Get(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *stored != *o {
		t.Fatalf("stored = %+v, want %+v", *stored, *o)
	}
}

func TestCreateNeverMerges(t *testing.T) {
	svc := newTestService(t)

	first := mustCreate(t, svc, "ALICE", sampleRequest())
	second := mustCreate(t, svc, "ALICE", sampleRequest())

	if first.ID == second.ID {
		t.Fatalf("identical orders share id %d", first.ID)
	}

	orders, err := svc.FilterByStatus(context.Background(), StatusNew, DateRange{})
	if err != nil || len(orders) != 2 {
		t.Fatalf("New orders = %d, %v; want 2", len(orders), err)
	}
	for _, o := range orders {
		if o.Quantity != 5 {
			t.Fatalf("quantity = %d, want 5", o.Quantity)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		actor string
		edit  func(*CreateOrderRequest)
	}{
		{"missing actor", " ", func(*CreateOrderRequest) {}},
		{"missing dist", "A", func(r *CreateOrderRequest) { r.Dist = "" }},
		{"blank spec", "A", func(r *CreateOrderRequest) { r.Spec = "  " }},
		{"zero quantity", "A", func(r *CreateOrderRequest) { r.Quantity = 0 }},
		{"negative quantity", "A", func(r *CreateOrderRequest) { r.Quantity = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleRequest()
			tt.edit(&req)
			_, err := svc.Create(context.Background(), tt.actor, req)
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
		})
	}

	if got := snapshot(t, svc); len(got) != 0 {
		t.Fatalf("ledger = %d rows, want 0", len(got))
	}
}

type knownDistributors []string

func (k knownDistributors) Exists(_ context.Context, name string) (bool, error) {
	return slices.Contains(k, name), nil
}

func TestCreateWithDistributorCheck(t *testing.T) {
	svc := newTestService(t, WithDistributorCheck(knownDistributors{"D1"}))

	mustCreate(t, svc, "A", sampleRequest())

	req := sampleRequest()
	req.Dist = "GHOST"
	if _, err := svc.Create(context.Background(), "A", req); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateThenFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	o := mustCreate(t, svc, "ALICE", sampleRequest())

	updated, err := svc.UpdateSingle(ctx, "BOB", o.ID, UpdateOrderRequest{
		Status: "Processing",
		Remark: "ok",
	})
	if err != nil {
		t.Fatalf("UpdateSingle() error = %v", err)
	}
	if updated.Status != StatusProcessing || updated.Remark != "ok" || updated.UpdateBy != "BOB" {
		t.Fatalf("updated = %+v", updated)
	}
	if updated.AddedBy != "ALICE" || updated.Quantity != 5 || updated.Date != o.Date {
		t.Fatalf("immutable fields changed: %+v", updated)
	}

	processing, err := svc.FilterByStatus(ctx, StatusProcessing, DateRange{})
	if err != nil || len(processing) != 1 || processing[0].ID != o.ID {
		t.Fatalf("Processing = %+v, %v", processing, err)
	}

	fresh, err := svc.FilterByStatus(ctx, StatusNew, DateRange{})
	if err != nil || len(fresh) != 0 {
		t.Fatalf("New = %+v, %v", fresh, err)
	}
}

func TestUpdateMissingOrderLeavesLedger(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, "A", sampleRequest())
	before := snapshot(t, svc)

	_, err := svc.UpdateSingle(context.Background(), "B", 7, UpdateOrderRequest{
		Status: "Dispatched",
		Remark: "ready",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	if after := snapshot(t, svc); !slices.Equal(before, after) {
		t.Fatalf("ledger changed: %+v -> %+v", before, after)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t)
	o := mustCreate(t, svc, "A", sampleRequest())

	for _, s := range []string{"", "Shipped", "billing done"} {
		_, err := svc.UpdateSingle(context.Background(), "B", o.ID, UpdateOrderRequest{Status: s})
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("status %q: error = %v, want ErrInvalidInput", s, err)
		}
	}
}

func TestAllowAllPermitsLeavingTerminal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	o := mustCreate(t, svc, "A", sampleRequest())

	for _, st := range []string{"Delivered", "New", "Cancelled", "Processing"} {
		if _, err := svc.UpdateSingle(ctx, "B", o.ID, UpdateOrderRequest{Status: st}); err != nil {
			t.Fatalf("move to %s: %v", st, err)
		}
	}
}

func TestForwardOnlyPolicy(t *testing.T) {
	svc := newTestService(t, WithPolicy(ForwardOnly))
	ctx := context.Background()
	o := mustCreate(t, svc, "A", sampleRequest())

	if _, err := svc.UpdateSingle(ctx, "B", o.ID, UpdateOrderRequest{Status: "Dispatched"}); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("skip ahead: error = %v, want ErrInvalidInput", err)
	}

	steps := []Status{StatusProcessing, StatusBillingDone, StatusDispatched, StatusDelivered}
	for _, st := range steps {
		if _, err := svc.UpdateSingle(ctx, "B", o.ID, UpdateOrderRequest{Status: string(st)}); err != nil {
			t.Fatalf("move to %s: %v", st, err)
		}
	}

	if _, err := svc.UpdateSingle(ctx, "B", o.ID, UpdateOrderRequest{Status: "Delivered", Remark: "re-ack"}); err != nil {
		t.Fatalf("same status should be allowed: %v", err)
	}
	if _, err := svc.UpdateSingle(ctx, "B", o.ID, UpdateOrderRequest{Status: "New"}); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("leave Delivered: error = %v, want ErrInvalidInput", err)
	}

	got, err := svc.Get(ctx, o.ID)
	if err != nil || got.Status != StatusDelivered || got.Remark != "re-ack" {
		t.Fatalf("order = %+v, %v", got, err)
	}
}

func TestPolicyNamed(t *testing.T) {
	tests := []struct {
		name          string
		wantReopenErr bool
		wantErr       bool
	}{
		{"", false, false},
		{"allow_all", false, false},
		{"forward_only", true, false},
		{"strict", false, true},
	}

	for _, tt := range tests {
		t.Run("policy "+tt.name, func(t *testing.T) {
			p, err := PolicyNamed(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("PolicyNamed(%q) should fail", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("PolicyNamed(%q) error = %v", tt.name, err)
			}
			if err := p.Allow(StatusDelivered, StatusNew); (err != nil) != tt.wantReopenErr {
				t.Fatalf("Allow(Delivered, New) = %v, want error %v", err, tt.wantReopenErr)
			}
		})
	}
}

func TestUpdateBulk(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, "A", sampleRequest())
	b := mustCreate(t, svc, "A", sampleRequest())
	c := mustCreate(t, svc, "A", sampleRequest())

	res, err := svc.UpdateBulk(ctx, "OPS", []int64{a.ID, c.ID, a.ID, 404}, UpdateOrderRequest{
		Status: "Billing Done",
		Remark: "batch",
	})
	if err != nil {
		t.Fatalf("UpdateBulk() error = %v", err)
	}
	if res.Requested != 3 || res.Updated != 2 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Failures) != 1 || res.Failures[0].ID != 404 || !res.Failures[0].NotFound {
		t.Fatalf("failures = %+v", res.Failures)
	}

	for _, id := range []int64{a.ID, c.ID} {
		o, err := svc.Get(ctx, id)
		if err != nil || o.Status != StatusBillingDone || o.Remark != "batch" || o.UpdateBy != "OPS" {
			t.Fatalf("order %d = %+v, %v", id, o, err)
		}
	}

	untouched, err := svc.Get(ctx, b.ID)
	if err != nil || *untouched != *b {
		t.Fatalf("untouched order = %+v, want %+v", untouched, b)
	}
}

func TestUpdateBulkRejectsEmptySelection(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpdateBulk(context.Background(), "OPS", nil, UpdateOrderRequest{Status: "New"})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateView(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, "A", sampleRequest())
	other := sampleRequest()
	other.Dist = "D2"
	d2 := mustCreate(t, svc, "A", other)

	res, err := svc.UpdateView(ctx, "OPS",
		FilterRequest{Status: "New", Dist: "D1"},
		UpdateOrderRequest{Status: "Cancelled"},
	)
	if err != nil || res.Updated != 1 {
		t.Fatalf("UpdateView() = %+v, %v", res, err)
	}

	got, err := svc.Get(ctx, d2.ID)
	if err != nil || got.Status != StatusNew {
		t.Fatalf("D2 order = %+v, %v", got, err)
	}
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"open", "", "", false},
		{"ledger format", "01-03-2024", "31-03-2024", false},
		{"iso format", "2024-03-01", "2024-03-31", false},
		{"single day", "05-03-2024", "05-03-2024", false},
		{"reversed", "31-03-2024", "01-03-2024", true},
		{"garbage", "March", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDateRange(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, core.ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestDateRangeContains(t *testing.T) {
	r, err := ParseDateRange("01-03-2024", "05-03-2024")
	if err != nil {
		t.Fatalf("ParseDateRange() error = %v", err)
	}

	tests := []struct {
		stored string
		want   bool
	}{
		{"01-03-2024", true},
		{"05-03-2024", true},
		{"29-02-2024", false},
		{"06-03-2024", false},
		{"03-01-2024", false},
		{"", false},
		{"not a date", false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.stored); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.stored, got, tt.want)
		}
	}

	if !(DateRange{}).Contains("garbage") {
		t.Errorf("zero range should contain everything")
	}
}

func TestFilterByDateAcrossMonths(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	day := fixedNow
	svc := NewService(db, WithClock(func() time.Time { return day }))

	for _, d := range []time.Time{
		time.Date(2024, time.January, 31, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
	} {
		day = d
		mustCreate(t, svc, "A", sampleRequest())
	}

	r, err := ParseDateRange("2024-02-01", "2024-02-29")
	if err != nil {
		t.Fatalf("ParseDateRange() error = %v", err)
	}
	orders, err := svc.FilterByStatus(ctx, StatusNew, r)
	if err != nil || len(orders) != 1 || orders[0].Date != "01-02-2024" {
		t.Fatalf("February orders = %+v, %v", orders, err)
	}
}

func TestFilterByDistributor(t *testing.T) {
	orders := []Order{
		{ID: 1, Dist: "D2"},
		{ID: 2, Dist: "D1"},
		{ID: 3, Dist: "D2"},
	}

	if got := Distributors(orders); !slices.Equal(got, []string{"D2", "D1"}) {
		t.Fatalf("Distributors() = %v", got)
	}

	got := FilterByDistributor(orders, "D2")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("FilterByDistributor(D2) = %+v", got)
	}

	if got := FilterByDistributor(orders, "d2"); len(got) != 0 {
		t.Fatalf("FilterByDistributor(d2) = %+v, matching is exact", got)
	}
}

func TestWriteCSV(t *testing.T) {
	svc := newTestService(t)
	o := mustCreate(t, svc, "A", sampleRequest())

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []Order{*o}); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := tabular.Read(&buf, ExportColumns...)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0]["status"] != "New" || records[0]["quantity"] != "5" || records[0]["dist"] != "D1" {
		t.Fatalf("record = %v", records[0])
	}
}

func asRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithIdentity(req.Context(), &middleware.AccessTokenClaims{
				Name: "TESTER",
				Role: role,
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func TestHandlerPageGating(t *testing.T) {
	body := `{"dist":"D1","location":"North","model":"X1","color":"Red","spec":"v1","quantity":2}`

	tests := []struct {
		role   string
		method string
		path   string
		body   string
		want   int
	}{
		{auth.RoleGuest, http.MethodPost, "/orders/", body, http.StatusCreated},
		{auth.RoleGuest, http.MethodGet, "/orders/?status=New", "", http.StatusForbidden},
		{auth.RoleStandard, http.MethodGet, "/orders/?status=New", "", http.StatusOK},
		{auth.RoleBackOffice, http.MethodGet, "/orders/?status=Nope", "", http.StatusBadRequest},
		{auth.RoleAdmin, http.MethodGet, "/orders/99", "", http.StatusNotFound},
		{auth.RoleAdmin, http.MethodPost, "/orders/", `{"dist":"D1"}`, http.StatusBadRequest},
		{"Unknown", http.MethodPost, "/orders/", body, http.StatusForbidden},
		{"Unknown", http.MethodGet, "/orders/statuses", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.method+" "+tt.path, func(t *testing.T) {
			h := NewHandler(newTestService(t))
			router := chi.NewRouter()
			h.RegisterRoutes(router, asRole(tt.role), nil)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerCreateUsesCaller(t *testing.T) {
	svc := newTestService(t)
	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router, asRole(auth.RoleGuest), nil)

	body := `{"dist":"D1","location":"North","model":"X1","color":"Red","spec":"v1","quantity":5}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data Order `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.AddedBy != "TESTER" || resp.Data.UpdateBy != "TESTER" {
		t.Fatalf("order = %+v", resp.Data)
	}
}

func TestHandlerCreateAcceptsLongCatalogValues(t *testing.T) {
	svc := newTestService(t)
	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router, asRole(auth.RoleStandard), nil)

	model := strings.Repeat("m", 250)
	spec := strings.Repeat("s", 250)
	body := `{"dist":"D1","location":"North","model":"` + model +
		`","color":"Red","spec":"` + spec + `","quantity":1}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}

	orders := snapshot(t, svc)
	if len(orders) != 1 || orders[0].Model != model || orders[0].Spec != spec {
		t.Fatalf("orders = %+v", orders)
	}
}

func TestHandlerBulkUpdate(t *testing.T) {
	svc := newTestService(t)
	a := mustCreate(t, svc, "A", sampleRequest())

	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router, asRole(auth.RoleStandard), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/orders/bulk",
		strings.NewReader(`{"filter":{"status":"New"},"status":"Processing","remark":"go"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data BulkResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Data.Updated != 1 {
		t.Fatalf("result = %+v, %v", resp.Data, err)
	}

	got, err := svc.Get(context.Background(), a.ID)
	if err != nil || got.Status != StatusProcessing || got.UpdateBy != "TESTER" {
		t.Fatalf("order = %+v, %v", got, err)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/orders/bulk",
		strings.NewReader(`{"ids":[1],"filter":{"status":"New"},"status":"New"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ids+filter status = %d, want 400", rec.Code)
	}
}

func TestHandlerExport(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, "A", sampleRequest())

	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router, asRole(auth.RoleAdmin), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/export?status=New", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "orders-new.csv") {
		t.Fatalf("Content-Disposition = %q", cd)
	}

	records, err := tabular.Read(rec.Body, "id", "status")
	if err != nil || len(records) != 1 {
		t.Fatalf("records = %v, %v", records, err)
	}
}
