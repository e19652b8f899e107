package core

import "time"

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// Weekday is the key used to index a DailyBudget.
type Weekday string

// indexed by time.Weekday, Sunday first
var weekdayKeys = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DailyBudget is the spending ceiling for each day of the week.
type DailyBudget struct {
	Monday    float64 `json:"monday"`
	Tuesday   float64 `json:"tuesday"`
	Wednesday float64 `json:"wednesday"`
	Thursday  float64 `json:"thursday"`
	Friday    float64 `json:"friday"`
	Saturday  float64 `json:"saturday"`
	Sunday    float64 `json:"sunday"`
}

// DefaultDailyBudget is 50 on weekdays and 30 on weekends.
func DefaultDailyBudget() DailyBudget {
	return DailyBudget{
		Monday:    50,
		Tuesday:   50,
		Wednesday: 50,
		Thursday:  50,
		Friday:    50,
		Saturday:  30,
		Sunday:    30,
	}
}

// WeekdayOf maps t to its weekday key in t's own location.
func WeekdayOf(t time.Time) Weekday {
	return weekdayKeys[t.Weekday()]
}

// For returns the budget configured for day. Unknown keys yield zero.
func (b DailyBudget) For(day Weekday) float64 {
	switch day {
	case Monday:
		return b.Monday
	case Tuesday:
		return b.Tuesday
	case Wednesday:
		return b.Wednesday
	case Thursday:
		return b.Thursday
	case Friday:
		return b.Friday
	case Saturday:
		return b.Saturday
	case Sunday:
		return b.Sunday
	default:
		return 0
	}
}

// Total is the weekly budget: the sum of all seven days.
func (b DailyBudget) Total() float64 {
	return b.Monday + b.Tuesday + b.Wednesday + b.Thursday + b.Friday + b.Saturday + b.Sunday
}

func (b DailyBudget) Validate() error {
	for _, day := range weekdayKeys {
		if b.For(day) < 0 {
			return ErrInvalidBudget
		}
	}
	return nil
}
