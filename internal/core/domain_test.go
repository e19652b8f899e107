package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestExpenseInputValidate(t *testing.T) {
	good := ExpenseInput{
		Date:          "2024-01-01",
		Item:          "Café",
		Value:         4.5,
		Quantity:      2,
		PaymentMethod: Pix,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*ExpenseInput)
		want error
	}{
		{"empty item", func(in *ExpenseInput) { in.Item = "   " }, ErrEmptyItem},
		{"zero value", func(in *ExpenseInput) { in.Value = 0 }, ErrInvalidValue},
		{"negative value", func(in *ExpenseInput) { in.Value = -1 }, ErrInvalidValue},
		{"zero quantity", func(in *ExpenseInput) { in.Quantity = 0 }, ErrInvalidQuantity},
		{"unknown method", func(in *ExpenseInput) { in.PaymentMethod = "Boleto" }, ErrInvalidPaymentMethod},
		{"bad date", func(in *ExpenseInput) { in.Date = "01/01/2024" }, ErrInvalidDate},
		{"missing date", func(in *ExpenseInput) { in.Date = "" }, ErrInvalidDate},
		{"infinite value", func(in *ExpenseInput) { in.Value = math.Inf(1) }, ErrInvalidValue},
		{"NaN value", func(in *ExpenseInput) { in.Value = math.NaN() }, ErrInvalidValue},
		{"total overflows", func(in *ExpenseInput) { in.Value, in.Quantity = 1e308, 10 }, ErrInvalidValue},
	}
	for _, tc := range cases {
		in := good
		tc.mut(&in)
		if err := in.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestNewExpenseDerivesTotal(t *testing.T) {
	e := NewExpense("id-1", ExpenseInput{Date: "2024-01-01", Item: "Pão", Value: 0.75, Quantity: 4, PaymentMethod: Cash})
	if e.ID != "id-1" {
		t.Fatalf("unexpected id %q", e.ID)
	}
	if e.Total != 0.75*4 {
		t.Fatalf("expected total %v, got %v", 0.75*4, e.Total)
	}
	if e.Input() != (ExpenseInput{Date: "2024-01-01", Item: "Pão", Value: 0.75, Quantity: 4, PaymentMethod: Cash}) {
		t.Fatalf("input round trip mismatch: %+v", e.Input())
	}
}

func TestNewExpenseCanonicalDate(t *testing.T) {
	in := ExpenseInput{Date: " 2024-01-01\t", Item: "Café", Value: 10, Quantity: 1, PaymentMethod: Pix}
	if err := in.Validate(); err != nil {
		t.Fatalf("padded date should validate, got %v", err)
	}
	e := NewExpense("id-1", in)
	if e.Date != "2024-01-01" {
		t.Fatalf("expected canonical date, got %q", e.Date)
	}

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expenses := []Expense{e}
	if daily, weekly := DailySpending(expenses, day), WeeklySpending(expenses, day); daily != 10 || weekly != 10 {
		t.Fatalf("daily=%v weekly=%v, want both 10", daily, weekly)
	}
	if totals := DailyTotals(append(expenses, NewExpense("id-2", in)), 0); len(totals) != 1 || totals[0].Total != 20 {
		t.Fatalf("expected a single day bucket, got %+v", totals)
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range PaymentMethods() {
		if !m.Valid() {
			t.Fatalf("%q should be valid", m)
		}
	}
	if PaymentMethod(AllPaymentMethods).Valid() {
		t.Fatalf("the filter sentinel is not a payment method")
	}
}

func TestDailyBudget(t *testing.T) {
	b := DefaultDailyBudget()
	if b.Total() != 310 {
		t.Fatalf("expected weekly total 310, got %v", b.Total())
	}
	if b.For(Saturday) != 30 || b.For(Monday) != 50 {
		t.Fatalf("unexpected defaults: %+v", b)
	}
	if b.For(Weekday("holiday")) != 0 {
		t.Fatalf("unknown weekday should have no budget")
	}
	b.Sunday = -1
	if err := b.Validate(); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("expected ErrInvalidBudget, got %v", err)
	}
}

func TestFormatDate(t *testing.T) {
	cases := []struct{ in, out string }{
		{"2024-01-05", "05/01/2024"},
		{"2023-12-31", "31/12/2023"},
		{"garbage", "garbage"},
	}
	for _, tc := range cases {
		if got := FormatDate(tc.in); got != tc.out {
			t.Fatalf("FormatDate(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}
