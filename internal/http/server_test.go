package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"despesas/internal/core"
	"despesas/internal/log"
	"despesas/internal/services"
	"despesas/internal/storage/memory"
)

// Friday
var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func quietLogger() *log.Logger {
	return log.New(log.Config{Output: io.Discard})
}

func newTestServer(t *testing.T, opts Options) (*Server, *services.ExpenseStore) {
	t.Helper()
	n := 0
	ledger, err := services.NewExpenseStore(context.Background(), memory.New(),
		services.WithLogger(quietLogger()),
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	if err != nil {
		t.Fatalf("NewExpenseStore: %v", err)
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	opts.Now = func() time.Time { return fixedNow }
	srv := NewServer(":0", ledger, opts)
	t.Cleanup(srv.rateLimiter.stop)
	return srv, ledger
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func seed(t *testing.T, ledger *services.ExpenseStore, inputs ...core.ExpenseInput) {
	t.Helper()
	for _, in := range inputs {
		if _, err := ledger.Add(context.Background(), in); err != nil {
			t.Fatalf("seed %v: %v", in, err)
		}
	}
}

var (
	coffee = core.ExpenseInput{Date: "2024-03-15", Item: "Café", Value: 10, Quantity: 3, PaymentMethod: core.Pix}
	lunch  = core.ExpenseInput{Date: "2024-03-14", Item: "Almoço", Value: 25, Quantity: 1, PaymentMethod: core.CreditCard}
	bus    = core.ExpenseInput{Date: "2024-03-16", Item: "Ônibus", Value: 4.5, Quantity: 2, PaymentMethod: core.Cash}
)

func TestHealthAndMetrics(t *testing.T) {
	srv, ledger := newTestServer(t, Options{})
	seed(t, ledger, coffee)

	rr := do(t, srv, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rr.Code)
	}
	var health map[string]interface{}
	decode(t, rr, &health)
	if health["status"] != "ok" || health["expenses"] != float64(1) {
		t.Fatalf("unexpected health body: %v", health)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing security headers")
	}

	rr = do(t, srv, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "ledger_expenses 1") {
		t.Fatalf("metrics status=%d body=%q", rr.Code, rr.Body.String())
	}
}

func TestCreateExpense(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"date":"2024-03-15","item":"Café","value":10,"quantity":3,"paymentMethod":"Pix"}`, http.StatusCreated},
		{"malformed json", `{"date":`, http.StatusBadRequest},
		{"total is not input", `{"date":"2024-03-15","item":"Café","value":10,"quantity":3,"paymentMethod":"Pix","total":99}`, http.StatusBadRequest},
		{"zero value", `{"date":"2024-03-15","item":"Café","value":0,"quantity":3,"paymentMethod":"Pix"}`, http.StatusUnprocessableEntity},
		{"blank item", `{"date":"2024-03-15","item":"  ","value":1,"quantity":1,"paymentMethod":"Pix"}`, http.StatusUnprocessableEntity},
		{"bad method", `{"date":"2024-03-15","item":"Café","value":1,"quantity":1,"paymentMethod":"Cheque"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"date":"15/03/2024","item":"Café","value":1,"quantity":1,"paymentMethod":"Pix"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, ledger := newTestServer(t, Options{})
			rr := do(t, srv, http.MethodPost, "/api/expenses", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tt.status, rr.Body.String())
			}
			if tt.status != http.StatusCreated {
				var body errorBody
				decode(t, rr, &body)
				if body.Error == "" {
					t.Fatalf("error body missing message")
				}
				if len(ledger.Expenses()) != 0 {
					t.Fatalf("rejected request mutated the ledger")
				}
				return
			}

			var created core.Expense
			decode(t, rr, &created)
			if created.ID != "id-1" || created.Total != 30 {
				t.Fatalf("unexpected expense: %+v", created)
			}
			if got := rr.Header().Get("Location"); got != "/api/expenses/id-1" {
				t.Fatalf("Location=%q", got)
			}
		})
	}
}

func TestExpenseByID(t *testing.T) {
	srv, ledger := newTestServer(t, Options{})
	seed(t, ledger, coffee, lunch)

	rr := do(t, srv, http.MethodGet, "/api/expenses/id-2", "")
	var got core.Expense
	decode(t, rr, &got)
	if rr.Code != http.StatusOK || got.Item != "Almoço" {
		t.Fatalf("get status=%d expense=%+v", rr.Code, got)
	}

	update := `{"date":"2024-03-14","item":"Almoço","value":20,"quantity":2,"paymentMethod":"Debit Card"}`
	rr = do(t, srv, http.MethodPut, "/api/expenses/id-2", update)
	decode(t, rr, &got)
	if rr.Code != http.StatusOK || got.Total != 40 || got.PaymentMethod != core.DebitCard {
		t.Fatalf("put status=%d expense=%+v", rr.Code, got)
	}

	rr = do(t, srv, http.MethodPut, "/api/expenses/id-2", `{"date":"2024-03-14","item":"Almoço","value":20,"quantity":0,"paymentMethod":"Pix"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid put status=%d", rr.Code)
	}

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rr = do(t, srv, method, "/api/expenses/missing", update)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s unknown id status=%d", method, rr.Code)
		}
	}

	rr = do(t, srv, http.MethodDelete, "/api/expenses/id-1", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if expenses := ledger.Expenses(); len(expenses) != 1 || expenses[0].ID != "id-2" {
		t.Fatalf("after delete: %+v", expenses)
	}
}

func TestListExpenses(t *testing.T) {
	srv, ledger := newTestServer(t, Options{})
	seed(t, ledger, coffee, lunch, bus)

	ids := func(rr *httptest.ResponseRecorder) string {
		t.Helper()
		var expenses []core.Expense
		decode(t, rr, &expenses)
		out := make([]string, 0, len(expenses))
		for _, e := range expenses {
			out = append(out, e.ID)
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		name   string
		query  string
		status int
		want   string
	}{
		{"no filter keeps insertion order", "", http.StatusOK, "id-1,id-2,id-3"},
		{"any filter sorts newest first", "?paymentMethod=All", http.StatusOK, "id-3,id-1,id-2"},
		{"payment method", "?paymentMethod=Pix", http.StatusOK, "id-1"},
		{"date range inclusive", "?startDate=2024-03-14&endDate=2024-03-15", http.StatusOK, "id-1,id-2"},
		{"amount range on total", "?minAmount=9&maxAmount=25", http.StatusOK, "id-3,id-2"},
		{"bad amount", "?minAmount=abc", http.StatusBadRequest, ""},
		{"bad method", "?paymentMethod=Cheque", http.StatusUnprocessableEntity, ""},
		{"bad date", "?startDate=yesterday", http.StatusUnprocessableEntity, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodGet, "/api/expenses"+tt.query, "")
			if rr.Code != tt.status {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tt.status, rr.Body.String())
			}
			if tt.status == http.StatusOK {
				if got := ids(rr); got != tt.want {
					t.Fatalf("ids=%s want %s", got, tt.want)
				}
			}
		})
	}
}

func TestFilterViewAndGrouping(t *testing.T) {
	srv, ledger := newTestServer(t, Options{})
	seed(t, ledger, coffee, lunch, core.ExpenseInput{Date: "2024-03-15", Item: "Pão", Value: 5, Quantity: 1, PaymentMethod: core.Pix})

	rr := do(t, srv, http.MethodGet, "/api/filter", "")
	var view filterPayload
	decode(t, rr, &view)
	if view.PaymentMethod != core.AllPaymentMethods || view.StartDate != nil {
		t.Fatalf("default filter: %+v", view)
	}

	rr = do(t, srv, http.MethodPut, "/api/filter", `{"paymentMethod":"Pix","startDate":"2024-03-15"}`)
	decode(t, rr, &view)
	if rr.Code != http.StatusOK || view.PaymentMethod != "Pix" || view.StartDate == nil || *view.StartDate != "2024-03-15" {
		t.Fatalf("set filter status=%d view=%+v", rr.Code, view)
	}

	rr = do(t, srv, http.MethodGet, "/api/expenses/grouped", "")
	var groups []core.DayGroup
	decode(t, rr, &groups)
	if len(groups) != 1 || groups[0].Day != "15/03/2024" || len(groups[0].Expenses) != 2 {
		t.Fatalf("grouped: %+v", groups)
	}

	rr = do(t, srv, http.MethodPut, "/api/filter", `{"paymentMethod":"Cheque"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid filter status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodDelete, "/api/filter", "")
	view = filterPayload{}
	decode(t, rr, &view)
	if view.PaymentMethod != core.AllPaymentMethods || view.StartDate != nil {
		t.Fatalf("cleared filter: %+v", view)
	}
	if n := len(ledger.Filtered()); n != 3 {
		t.Fatalf("filtered after clear = %d, want 3", n)
	}
}

func TestBudget(t *testing.T) {
	srv, ledger := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodGet, "/api/budget", "")
	var budget core.DailyBudget
	decode(t, rr, &budget)
	if budget != core.DefaultDailyBudget() {
		t.Fatalf("default budget: %+v", budget)
	}

	rr = do(t, srv, http.MethodPut, "/api/budget", `{"monday":-1,"tuesday":10,"wednesday":10,"thursday":10,"friday":10,"saturday":10,"sunday":10}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative budget status=%d", rr.Code)
	}
	if ledger.Budget() != core.DefaultDailyBudget() {
		t.Fatalf("rejected budget was applied")
	}

	rr = do(t, srv, http.MethodPut, "/api/budget", `{"monday":70,"tuesday":70,"wednesday":70,"thursday":70,"friday":80,"saturday":40,"sunday":0}`)
	decode(t, rr, &budget)
	if rr.Code != http.StatusOK || budget.Friday != 80 || budget.Sunday != 0 {
		t.Fatalf("update status=%d budget=%+v", rr.Code, budget)
	}
}

func TestSummary(t *testing.T) {
	srv, ledger := newTestServer(t, Options{})
	seed(t, ledger, coffee, lunch, bus)

	rr := do(t, srv, http.MethodGet, "/api/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var got summaryResponse
	decode(t, rr, &got)

	if got.Summary.Date != "2024-03-15" || got.Summary.Weekday != core.Friday {
		t.Fatalf("reference day: %+v", got.Summary)
	}
	if got.Summary.Daily.Spent != 30 || got.Summary.Daily.Budget != 50 || got.Remaining != 20 {
		t.Fatalf("daily: %+v remaining=%v", got.Summary.Daily, got.Remaining)
	}
	if got.Percentage != 60 || got.Progress.Level != core.ProgressWarning || got.OverBudget {
		t.Fatalf("progress: pct=%v %+v", got.Percentage, got.Progress)
	}
	if got.Summary.Weekly.Spent != 64 || got.Summary.Monthly.Budget != 310*4 {
		t.Fatalf("weekly/monthly: %+v %+v", got.Summary.Weekly, got.Summary.Monthly)
	}
	if got.TotalSpending != 64 {
		t.Fatalf("total spending=%v", got.TotalSpending)
	}

	rr = do(t, srv, http.MethodGet, "/api/summary?date=2024-03-14", "")
	decode(t, rr, &got)
	if got.Summary.Weekday != core.Thursday || got.Summary.Daily.Spent != 25 {
		t.Fatalf("explicit date: %+v", got.Summary)
	}

	rr = do(t, srv, http.MethodGet, "/api/summary?date=14-03-2024", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad date status=%d", rr.Code)
	}
}

func TestCharts(t *testing.T) {
	srv, ledger := newTestServer(t, Options{})
	seed(t, ledger, coffee, lunch, bus)
	ledger.SetFilter(core.FilterOptions{PaymentMethod: string(core.CreditCard)})

	rr := do(t, srv, http.MethodGet, "/api/charts?date=2024-03-15", "")
	var got chartsResponse
	decode(t, rr, &got)

	if len(got.Daily) != 1 || got.Daily[0] != (core.DayTotal{Day: "14/03/2024", Total: 25}) {
		t.Fatalf("daily series follows the filtered view: %+v", got.Daily)
	}
	if len(got.PaymentMethods) != 1 || got.PaymentMethods[0].Method != core.CreditCard {
		t.Fatalf("payment methods: %+v", got.PaymentMethods)
	}
	if len(got.Week) != 7 || got.Week[0].Date != "2024-03-10" || got.Week[0].Weekday != core.Sunday {
		t.Fatalf("week: %+v", got.Week)
	}
	if got.Week[4].Spent != 25 || got.Week[4].Budget != 50 {
		t.Fatalf("thursday: %+v", got.Week[4])
	}
}

func TestReports(t *testing.T) {
	srv, ledger := newTestServer(t, Options{})
	seed(t, ledger, coffee, lunch)

	rr := do(t, srv, http.MethodGet, "/api/reports/expenses.csv?paymentMethod=Pix", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("csv status=%d", rr.Code)
	}
	if got := rr.Header().Get("Content-Disposition"); !strings.Contains(got, "despesas.csv") {
		t.Fatalf("csv disposition=%q", got)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Data,Item,Valor") || !strings.Contains(lines[1], "Café") {
		t.Fatalf("csv body=%q", rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/api/reports/expenses.xlsx", "")
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("xlsx status=%d type=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rr.Body.String(), "PK") {
		t.Fatalf("xlsx body is not a zip archive")
	}

	rr = do(t, srv, http.MethodGet, "/api/reports/expenses.csv?maxAmount=x", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad query status=%d", rr.Code)
	}
}

func TestReportsAreLoggedUnderReportComponent(t *testing.T) {
	var buf bytes.Buffer
	srv, ledger := newTestServer(t, Options{Logger: log.New(log.Config{Output: &buf})})
	seed(t, ledger, coffee, lunch)

	if rr := do(t, srv, http.MethodGet, "/api/reports/expenses.csv", ""); rr.Code != http.StatusOK {
		t.Fatalf("csv status=%d", rr.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "component=report") || !strings.Contains(out, "format=csv") || !strings.Contains(out, "count=2") {
		t.Fatalf("expected a report log record, got:\n%s", out)
	}
}

func TestBackupExportImport(t *testing.T) {
	src, ledger := newTestServer(t, Options{})
	seed(t, ledger, coffee, lunch)

	rr := do(t, src, http.MethodGet, "/api/backup", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("export status=%d", rr.Code)
	}
	want := `attachment; filename="expense-tracker-backup-2024-03-15.json"`
	if got := rr.Header().Get("Content-Disposition"); got != want {
		t.Fatalf("disposition=%q want %q", got, want)
	}
	backup := rr.Body.String()

	dst, restored := newTestServer(t, Options{})
	rr = do(t, dst, http.MethodPost, "/api/backup", backup)
	if rr.Code != http.StatusOK {
		t.Fatalf("import status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := restored.Expenses(); len(got) != 2 || got[0].Item != "Café" || got[1].Item != "Almoço" {
		t.Fatalf("restored expenses: %+v", got)
	}

	for _, body := range []string{
		`not json`,
		`{"expenses":[]}`,
		`{"expenses":null,"dailyBudget":{}}`,
	} {
		rr = do(t, dst, http.MethodPost, "/api/backup", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("import %q status=%d", body, rr.Code)
		}
	}
	if len(restored.Expenses()) != 2 {
		t.Fatalf("rejected import changed the ledger")
	}
}

func TestReset(t *testing.T) {
	srv, ledger := newTestServer(t, Options{})
	seed(t, ledger, coffee)
	if err := ledger.UpdateBudget(context.Background(), core.DailyBudget{Friday: 1}); err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}

	rr := do(t, srv, http.MethodPost, "/api/reset", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("reset status=%d", rr.Code)
	}
	if len(ledger.Expenses()) != 0 || ledger.Budget() != core.DefaultDailyBudget() {
		t.Fatalf("ledger not reset: %+v %+v", ledger.Expenses(), ledger.Budget())
	}
}

func TestRateLimitAppliesToMutations(t *testing.T) {
	srv, _ := newTestServer(t, Options{RateLimit: 2})
	body := `{"date":"2024-03-15","item":"Café","value":1,"quantity":1,"paymentMethod":"Pix"}`

	for i := 0; i < 2; i++ {
		if rr := do(t, srv, http.MethodPost, "/api/expenses", body); rr.Code != http.StatusCreated {
			t.Fatalf("request %d status=%d", i, rr.Code)
		}
	}
	rr := do(t, srv, http.MethodPost, "/api/expenses", body)
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") != "60" {
		t.Fatalf("status=%d retry-after=%q", rr.Code, rr.Header().Get("Retry-After"))
	}

	if rr := do(t, srv, http.MethodGet, "/api/expenses", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads are not limited, status=%d", rr.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rr := do(t, srv, http.MethodGet, "/api/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
	var body errorBody
	decode(t, rr, &body)
	if body.Error != "not found" {
		t.Fatalf("body=%+v", body)
	}
}
