package http

import (
	"net/http"

	"despesas/internal/core"
)

type summaryResponse struct {
	Summary       core.Summary  `json:"summary"`
	Progress      core.Progress `json:"progress"`
	Remaining     float64       `json:"remaining"`
	Percentage    float64       `json:"percentage"`
	OverBudget    bool          `json:"overBudget"`
	TotalSpending float64       `json:"totalSpending"`
}

type weekDay struct {
	Date    string       `json:"date"`
	Weekday core.Weekday `json:"weekday"`
	Budget  float64      `json:"budget"`
	Spent   float64      `json:"spent"`
}

type chartsResponse struct {
	Daily          []core.DayTotal           `json:"daily"`
	Week           []weekDay                 `json:"week"`
	PaymentMethods []core.PaymentMethodTotal `json:"paymentMethods"`
}

// handleSummary reports budget use for the date parameter over the whole ledger.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ref, err := parseRefDate(r.URL.Query(), s.now())
	if err != nil {
		writeInputError(w, err)
		return
	}

	expenses := s.ledger.Expenses()
	budget := s.ledger.Budget()
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary:       core.Summarize(expenses, budget, ref),
		Progress:      core.DailyProgress(expenses, budget, ref),
		Remaining:     core.RemainingBudget(expenses, budget, ref),
		Percentage:    core.BudgetPercentage(expenses, budget, ref),
		OverBudget:    core.IsOverBudget(expenses, ref, budget),
		TotalSpending: core.TotalSpending(expenses),
	})
}

// handleCharts builds the chart series from the stored filtered view: the
// last seven days with spending, the week around the date parameter, and
// totals per payment method.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	ref, err := parseRefDate(r.URL.Query(), s.now())
	if err != nil {
		writeInputError(w, err)
		return
	}

	expenses := s.ledger.Filtered()
	budget := s.ledger.Budget()

	days := core.CurrentWeekDays(ref)
	week := make([]weekDay, 0, len(days))
	for _, day := range days {
		week = append(week, weekDay{
			Date:    day.Format(core.ISODateLayout),
			Weekday: core.WeekdayOf(day),
			Budget:  budget.For(core.WeekdayOf(day)),
			Spent:   core.DailySpending(expenses, day),
		})
	}

	writeJSON(w, http.StatusOK, chartsResponse{
		Daily:          core.DailyTotals(expenses, 7),
		Week:           week,
		PaymentMethods: core.PaymentMethodTotals(expenses),
	})
}
