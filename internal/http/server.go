package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"despesas/internal/core"
	"despesas/internal/log"
	"despesas/internal/services"
)

// Ledger is the expense store as seen by the handlers.
type Ledger interface {
	Add(ctx context.Context, in core.ExpenseInput) (core.Expense, error)
	Edit(ctx context.Context, id string, in core.ExpenseInput) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	UpdateBudget(ctx context.Context, budget core.DailyBudget) error
	Expenses() []core.Expense
	Get(id string) (core.Expense, bool)
	Budget() core.DailyBudget
	SetFilter(opts core.FilterOptions)
	ClearFilter()
	Filter() core.FilterOptions
	Filtered() []core.Expense
	Export() services.Backup
	Import(ctx context.Context, data []byte) error
	Reset(ctx context.Context) error
}

type Options struct {
	Logger *log.Logger
	// RateLimit caps mutating requests per client per minute. Zero means 60.
	RateLimit      int
	RequestTimeout time.Duration
	Now            func() time.Time
}

type Server struct {
	http.Server
	ledger      Ledger
	logger      *log.Logger
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	now         func() time.Time
	started     time.Time
}

func NewServer(addr string, ledger Ledger, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default(log.ComponentHTTP)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	s := &Server{
		ledger:      ledger,
		logger:      opts.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(opts.RateLimit, opts.Now),
		metrics:     &securityMetrics{},
		now:         opts.Now,
		started:     opts.Now(),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(opts.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes(timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(log.Middleware(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))
	r.Use(securityHeaders)
	r.Use(s.guard)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleCreateExpense)
			r.Get("/grouped", s.handleGroupedExpenses)
			r.Get("/{id}", s.handleGetExpense)
			r.Put("/{id}", s.handleUpdateExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})

		r.Get("/filter", s.handleGetFilter)
		r.Put("/filter", s.handleSetFilter)
		r.Delete("/filter", s.handleClearFilter)

		r.Get("/budget", s.handleGetBudget)
		r.Put("/budget", s.handleUpdateBudget)

		r.Get("/summary", s.handleSummary)
		r.Get("/charts", s.handleCharts)

		r.Get("/reports/expenses.csv", s.handleCSVReport)
		r.Get("/reports/expenses.xlsx", s.handleXLSXReport)

		r.Get("/backup", s.handleExportBackup)
		r.Post("/backup", s.handleImportBackup)
		r.Post("/reset", s.handleReset)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.stop()
	return s.Server.Shutdown(ctx)
}
