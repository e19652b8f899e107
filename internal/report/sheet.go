package report

import "despesas/internal/core"

// SheetValues lays expenses out for a spreadsheet range: the header, one
// row per expense and a closing total row.
func SheetValues(expenses []core.Expense) [][]interface{} {
	rows := Rows(expenses)
	values := make([][]interface{}, 0, len(rows)+2)

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	values = append(values, header)

	for _, r := range rows {
		values = append(values, []interface{}{
			r.Date,
			r.Item,
			r.Value,
			r.Quantity,
			PaymentMethodLabel(r.PaymentMethod),
			r.Total,
		})
	}
	return append(values, []interface{}{"", "", "", "", "Total", Total(rows)})
}
