package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"despesas/internal/core"
)

var filterKeys = []string{"startDate", "endDate", "paymentMethod", "minAmount", "maxAmount"}

// filterPayload is the wire form of core.FilterOptions. Dates are YYYY-MM-DD
// and are read as UTC days, matching how stored expense dates are parsed.
type filterPayload struct {
	StartDate     *string  `json:"startDate,omitempty"`
	EndDate       *string  `json:"endDate,omitempty"`
	PaymentMethod string   `json:"paymentMethod"`
	MinAmount     *float64 `json:"minAmount,omitempty"`
	MaxAmount     *float64 `json:"maxAmount,omitempty"`
}

func (p filterPayload) options() (core.FilterOptions, error) {
	opts := core.FilterOptions{PaymentMethod: strings.TrimSpace(p.PaymentMethod)}
	if opts.PaymentMethod == "" {
		opts.PaymentMethod = core.AllPaymentMethods
	}
	if opts.PaymentMethod != core.AllPaymentMethods && !core.PaymentMethod(opts.PaymentMethod).Valid() {
		return core.FilterOptions{}, fmt.Errorf("%w: %q", core.ErrInvalidPaymentMethod, opts.PaymentMethod)
	}

	var err error
	if opts.StartDate, err = optionalDate(p.StartDate); err != nil {
		return core.FilterOptions{}, err
	}
	if opts.EndDate, err = optionalDate(p.EndDate); err != nil {
		return core.FilterOptions{}, err
	}
	opts.MinAmount = p.MinAmount
	opts.MaxAmount = p.MaxAmount
	return opts, nil
}

func payloadFor(opts core.FilterOptions) filterPayload {
	p := filterPayload{
		PaymentMethod: opts.PaymentMethod,
		MinAmount:     opts.MinAmount,
		MaxAmount:     opts.MaxAmount,
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = core.AllPaymentMethods
	}
	if opts.StartDate != nil {
		s := opts.StartDate.Format(core.ISODateLayout)
		p.StartDate = &s
	}
	if opts.EndDate != nil {
		s := opts.EndDate.Format(core.ISODateLayout)
		p.EndDate = &s
	}
	return p
}

func optionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := core.ParseISODate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func hasFilterQuery(q url.Values) bool {
	for _, key := range filterKeys {
		if _, ok := q[key]; ok {
			return true
		}
	}
	return false
}

// parseFilterQuery reads filter options from the query string.
func parseFilterQuery(q url.Values) (core.FilterOptions, error) {
	p := filterPayload{PaymentMethod: q.Get("paymentMethod")}
	if v := q.Get("startDate"); v != "" {
		p.StartDate = &v
	}
	if v := q.Get("endDate"); v != "" {
		p.EndDate = &v
	}

	var err error
	if p.MinAmount, err = parseAmountParam("minAmount", q.Get("minAmount")); err != nil {
		return core.FilterOptions{}, err
	}
	if p.MaxAmount, err = parseAmountParam("maxAmount", q.Get("maxAmount")); err != nil {
		return core.FilterOptions{}, err
	}
	return p.options()
}

func parseAmountParam(name, value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, value)
	}
	return &v, nil
}

// parseRefDate reads the date query parameter. Without one it is today's
// calendar day in the server's zone, expressed as a UTC day.
func parseRefDate(q url.Values, now time.Time) (time.Time, error) {
	if v := strings.TrimSpace(q.Get("date")); v != "" {
		return core.ParseISODate(v)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
