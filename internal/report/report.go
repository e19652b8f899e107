// Package report renders expense listings as CSV, XLSX and sheet rows.
package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"despesas/internal/core"
)

const (
	Title        = "Relatório de Despesas"
	CSVFileName  = "despesas.csv"
	XLSXFileName = "relatorio-despesas.xlsx"
)

// Header is the column order shared by every export.
var Header = []string{"Data", "Item", "Valor", "Quantidade", "Forma de Pagamento", "Total"}

// Row is one expense laid out in export column order.
type Row struct {
	Date          string
	Item          string
	Value         float64
	Quantity      int
	PaymentMethod core.PaymentMethod
	Total         float64
}

func Rows(expenses []core.Expense) []Row {
	rows := make([]Row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, Row{
			Date:          core.FormatDate(e.Date),
			Item:          e.Item,
			Value:         e.Value,
			Quantity:      e.Quantity,
			PaymentMethod: e.PaymentMethod,
			Total:         e.Total,
		})
	}
	return rows
}

// PaymentMethodLabel returns the pt-BR label for m. Methods without a
// translation are returned as stored.
func PaymentMethodLabel(m core.PaymentMethod) string {
	switch m {
	case core.Cash:
		return "Dinheiro"
	case core.CreditCard:
		return "Cartão de Crédito"
	case core.DebitCard:
		return "Cartão de Débito"
	case core.Pix:
		return "Pix"
	default:
		return string(m)
	}
}

// FormatCurrency renders v in Brazilian reais, e.g. "R$ 1.234,56".
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + frac
}

// Total sums the totals of rows.
func Total(rows []Row) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Total
	}
	return sum
}
