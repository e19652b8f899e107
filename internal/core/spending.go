package core

import (
	"math"
	"time"
)

// FilterOptions narrows an expense collection. Nil fields and an empty or
// "All" payment method leave that dimension unconstrained.
type FilterOptions struct {
	StartDate     *time.Time
	EndDate       *time.Time
	PaymentMethod string
	MinAmount     *float64
	MaxAmount     *float64
}

// DayGroup holds the expenses of one display-formatted day.
type DayGroup struct {
	Day      string    `json:"day"`
	Expenses []Expense `json:"expenses"`
}

// DailySpending sums the totals of expenses stored on date's calendar day.
// The match is on the YYYY-MM-DD string, not on a time range.
func DailySpending(expenses []Expense, date time.Time) float64 {
	day := date.Format(ISODateLayout)
	var total float64
	for _, e := range expenses {
		if e.Date == day {
			total += e.Total
		}
	}
	return total
}

// WeeklySpending sums the expenses of the Sunday-to-Saturday week containing date.
func WeeklySpending(expenses []Expense, date time.Time) float64 {
	return sumBetween(expenses, startOfWeek(date), endOfWeek(date))
}

// MonthlySpending sums the expenses of the calendar month containing date.
func MonthlySpending(expenses []Expense, date time.Time) float64 {
	return sumBetween(expenses, startOfMonth(date), endOfMonth(date))
}

// TotalSpending sums every expense.
func TotalSpending(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Total
	}
	return total
}

func sumBetween(expenses []Expense, from, to time.Time) float64 {
	var total float64
	for _, e := range expenses {
		d, err := ParseISODate(e.Date)
		if err != nil {
			continue
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		total += e.Total
	}
	return total
}

// Filter returns the expenses matching every set constraint, in input order.
func Filter(expenses []Expense, opts FilterOptions) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if opts.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// IsZero reports whether no constraint is set.
func (o FilterOptions) IsZero() bool {
	return o.StartDate == nil && o.EndDate == nil &&
		(o.PaymentMethod == "" || o.PaymentMethod == AllPaymentMethods) &&
		o.MinAmount == nil && o.MaxAmount == nil
}

func (o FilterOptions) matches(e Expense) bool {
	if o.StartDate != nil || o.EndDate != nil {
		d, err := ParseISODate(e.Date)
		if err != nil {
			return false
		}
		if o.StartDate != nil && d.Before(startOfDay(*o.StartDate)) {
			return false
		}
		if o.EndDate != nil && d.After(endOfDay(*o.EndDate)) {
			return false
		}
	}
	if o.PaymentMethod != "" && o.PaymentMethod != AllPaymentMethods && string(e.PaymentMethod) != o.PaymentMethod {
		return false
	}
	if o.MinAmount != nil && e.Total < *o.MinAmount {
		return false
	}
	if o.MaxAmount != nil && e.Total > *o.MaxAmount {
		return false
	}
	return true
}

// GroupByDay groups expenses under their DD/MM/YYYY day. Groups appear in
// order of first occurrence and keep the input order within each day.
func GroupByDay(expenses []Expense) []DayGroup {
	groups := []DayGroup{}
	index := map[string]int{}
	for _, e := range expenses {
		day := FormatDate(e.Date)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Day: day})
		}
		groups[i].Expenses = append(groups[i].Expenses, e)
	}
	return groups
}

// RemainingBudget is the day's budget minus what was spent that day.
// Negative means over budget.
func RemainingBudget(expenses []Expense, budget DailyBudget, date time.Time) float64 {
	return budget.For(WeekdayOf(date)) - DailySpending(expenses, date)
}

// BudgetPercentage is the share of the day's budget already spent, capped at 100.
// A zero budget yields 0.
func BudgetPercentage(expenses []Expense, budget DailyBudget, date time.Time) float64 {
	limit := budget.For(WeekdayOf(date))
	if limit == 0 {
		return 0
	}
	return math.Min(100, DailySpending(expenses, date)/limit*100)
}

// IsOverBudget reports whether the day's spending exceeds its budget.
func IsOverBudget(expenses []Expense, date time.Time, budget DailyBudget) bool {
	return DailySpending(expenses, date) > budget.For(WeekdayOf(date))
}

// CurrentWeekDays returns the seven days, Sunday first, of the week containing date.
func CurrentWeekDays(date time.Time) []time.Time {
	start := startOfWeek(date)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
