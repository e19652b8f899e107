package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"despesas/internal/core"
)

// WriteCSV writes expenses with raw numeric values and stored payment
// method names.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range Rows(expenses) {
		record := []string{
			r.Date,
			r.Item,
			formatNumber(r.Value),
			strconv.Itoa(r.Quantity),
			string(r.PaymentMethod),
			formatNumber(r.Total),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
