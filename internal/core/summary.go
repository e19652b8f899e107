package core

import (
	"math"
	"sort"
	"time"
)

const (
	ProgressOK       ProgressLevel = "ok"
	ProgressWarning  ProgressLevel = "warning"
	ProgressCritical ProgressLevel = "critical"
)

type (
	ProgressLevel string

	// PeriodSummary compares spending with the budget of one period.
	PeriodSummary struct {
		Spent      float64 `json:"spent"`
		Budget     float64 `json:"budget"`
		Remaining  float64 `json:"remaining"`
		OverBudget bool    `json:"overBudget"`
	}

	// Summary is the daily/weekly/monthly overview for a reference date.
	// The weekly budget is the sum of the seven days and the monthly budget
	// is four weeks.
	Summary struct {
		Date    string        `json:"date"`
		Weekday Weekday       `json:"weekday"`
		Daily   PeriodSummary `json:"daily"`
		Weekly  PeriodSummary `json:"weekly"`
		Monthly PeriodSummary `json:"monthly"`
	}

	// Progress describes today's budget bar.
	Progress struct {
		Spent      float64       `json:"spent"`
		Budget     float64       `json:"budget"`
		Percentage float64       `json:"percentage"`
		OverBudget bool          `json:"overBudget"`
		Level      ProgressLevel `json:"level"`
	}

	DayTotal struct {
		Day   string  `json:"day"`
		Total float64 `json:"total"`
	}

	PaymentMethodTotal struct {
		Method PaymentMethod `json:"method"`
		Total  float64       `json:"total"`
	}
)

func newPeriodSummary(spent, budget float64) PeriodSummary {
	return PeriodSummary{
		Spent:      spent,
		Budget:     budget,
		Remaining:  budget - spent,
		OverBudget: spent > budget,
	}
}

func Summarize(expenses []Expense, budget DailyBudget, date time.Time) Summary {
	weekly := budget.Total()
	return Summary{
		Date:    date.Format(ISODateLayout),
		Weekday: WeekdayOf(date),
		Daily:   newPeriodSummary(DailySpending(expenses, date), budget.For(WeekdayOf(date))),
		Weekly:  newPeriodSummary(WeeklySpending(expenses, date), weekly),
		Monthly: newPeriodSummary(MonthlySpending(expenses, date), weekly*4),
	}
}

// DailyProgress differs from BudgetPercentage on a zero budget: the bar is
// shown full rather than empty.
func DailyProgress(expenses []Expense, budget DailyBudget, date time.Time) Progress {
	limit := budget.For(WeekdayOf(date))
	spent := DailySpending(expenses, date)

	pct := 100.0
	if limit > 0 {
		pct = math.Min(100, spent/limit*100)
	}

	level := ProgressCritical
	switch {
	case pct < 50:
		level = ProgressOK
	case pct < 80:
		level = ProgressWarning
	}

	return Progress{
		Spent:      spent,
		Budget:     limit,
		Percentage: pct,
		OverBudget: spent > limit,
		Level:      level,
	}
}

// DailyTotals sums expenses per day in ascending date order, keeping only the
// last limit days when limit > 0.
func DailyTotals(expenses []Expense, limit int) []DayTotal {
	type bucket struct {
		iso   string
		total float64
	}
	var buckets []*bucket
	byDay := map[string]*bucket{}
	for _, e := range expenses {
		b, ok := byDay[e.Date]
		if !ok {
			b = &bucket{iso: e.Date}
			byDay[e.Date] = b
			buckets = append(buckets, b)
		}
		b.total += e.Total
	}

	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].iso < buckets[j].iso })
	if limit > 0 && len(buckets) > limit {
		buckets = buckets[len(buckets)-limit:]
	}

	out := make([]DayTotal, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, DayTotal{Day: FormatDate(b.iso), Total: b.total})
	}
	return out
}

// PaymentMethodTotals sums expenses per payment method in order of first use.
func PaymentMethodTotals(expenses []Expense) []PaymentMethodTotal {
	out := []PaymentMethodTotal{}
	index := map[PaymentMethod]int{}
	for _, e := range expenses {
		i, ok := index[e.PaymentMethod]
		if !ok {
			i = len(out)
			index[e.PaymentMethod] = i
			out = append(out, PaymentMethodTotal{Method: e.PaymentMethod})
		}
		out[i].Total += e.Total
	}
	return out
}
