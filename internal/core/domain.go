package core

import (
	"errors"
	"math"
	"strings"
)

const (
	Cash       PaymentMethod = "Cash"
	CreditCard PaymentMethod = "Credit Card"
	DebitCard  PaymentMethod = "Debit Card"
	Pix        PaymentMethod = "Pix"
	Other      PaymentMethod = "Other"

	// AllPaymentMethods is the filter sentinel meaning "any method".
	AllPaymentMethods = "All"
)

type (
	PaymentMethod string

	// Expense is one recorded purchase. Total is always Value * Quantity.
	Expense struct {
		ID            string        `json:"id"`
		Date          string        `json:"date"` // YYYY-MM-DD
		Item          string        `json:"item"`
		Value         float64       `json:"value"`
		Quantity      int           `json:"quantity"`
		PaymentMethod PaymentMethod `json:"paymentMethod"`
		Total         float64       `json:"total"`
	}

	// ExpenseInput carries every user-editable field of an Expense.
	// The id is assigned by the store and the total is always derived.
	ExpenseInput struct {
		Date          string        `json:"date"`
		Item          string        `json:"item"`
		Value         float64       `json:"value"`
		Quantity      int           `json:"quantity"`
		PaymentMethod PaymentMethod `json:"paymentMethod"`
	}
)

var (
	ErrEmptyItem            = errors.New("empty item")
	ErrInvalidValue         = errors.New("value must be greater than zero")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidBudget        = errors.New("budget amounts cannot be negative")
)

// PaymentMethods returns the closed set of accepted payment methods.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{Cash, CreditCard, DebitCard, Pix, Other}
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case Cash, CreditCard, DebitCard, Pix, Other:
		return true
	default:
		return false
	}
}

func (in ExpenseInput) Validate() error {
	if _, err := ParseISODate(in.Date); err != nil {
		return err
	}
	if len(strings.TrimSpace(in.Item)) == 0 {
		return ErrEmptyItem
	}
	if !(in.Value > 0) || math.IsInf(in.Value, 0) {
		return ErrInvalidValue
	}
	if in.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if math.IsInf(in.Value*float64(in.Quantity), 0) {
		return ErrInvalidValue
	}
	if !in.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// NewExpense builds the stored record for in, deriving the total. The date
// is stored in canonical YYYY-MM-DD form.
func NewExpense(id string, in ExpenseInput) Expense {
	date := in.Date
	if t, err := ParseISODate(in.Date); err == nil {
		date = t.Format(ISODateLayout)
	}
	return Expense{
		ID:            id,
		Date:          date,
		Item:          in.Item,
		Value:         in.Value,
		Quantity:      in.Quantity,
		PaymentMethod: in.PaymentMethod,
		Total:         in.Value * float64(in.Quantity),
	}
}

// Input returns the editable fields of e.
func (e Expense) Input() ExpenseInput {
	return ExpenseInput{
		Date:          e.Date,
		Item:          e.Item,
		Value:         e.Value,
		Quantity:      e.Quantity,
		PaymentMethod: e.PaymentMethod,
	}
}
