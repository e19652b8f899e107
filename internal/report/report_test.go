package report

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"despesas/internal/core"
)

func sample() []core.Expense {
	return []core.Expense{
		core.NewExpense("1", core.ExpenseInput{Date: "2024-01-05", Item: "Mercado", Value: 1234.5, Quantity: 1, PaymentMethod: core.CreditCard}),
		core.NewExpense("2", core.ExpenseInput{Date: "2024-01-06", Item: "Café, pão", Value: 2.5, Quantity: 3, PaymentMethod: core.Other}),
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 5,00"},
		{10.5, "R$ 10,50"},
		{999.999, "R$ 1.000,00"},
		{1234.56, "R$ 1.234,56"},
		{1234567.8, "R$ 1.234.567,80"},
		{-42.1, "-R$ 42,10"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPaymentMethodLabel(t *testing.T) {
	tests := map[core.PaymentMethod]string{
		core.Cash:       "Dinheiro",
		core.CreditCard: "Cartão de Crédito",
		core.DebitCard:  "Cartão de Débito",
		core.Pix:        "Pix",
		core.Other:      "Other",
	}
	for m, want := range tests {
		if got := PaymentMethodLabel(m); got != want {
			t.Errorf("PaymentMethodLabel(%q) = %q, want %q", m, got, want)
		}
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sample())
	if len(rows) != 2 || rows[0].Date != "05/01/2024" || rows[1].Total != 7.5 {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if Total(rows) != 1242 {
		t.Fatalf("Total = %v", Total(rows))
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "Data,Item,Valor,Quantidade,Forma de Pagamento,Total\n" +
		"05/01/2024,Mercado,1234.5,1,Credit Card,1234.5\n" +
		"06/01/2024,\"Café, pão\",2.5,3,Other,7.5\n"
	if buf.String() != want {
		t.Fatalf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected header only, got %q", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	if err := WriteXLSX(&buf, sample(), generated); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	cell := func(name string) string {
		t.Helper()
		v, err := f.GetCellValue(sheetName, name)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", name, err)
		}
		return v
	}

	checks := map[string]string{
		"A1": Title,
		"A2": "Gerado em: 01/02/2024",
		"A4": "Data",
		"F4": "Total",
		"A5": "05/01/2024",
		"C5": "R$ 1.234,50",
		"E5": "Cartão de Crédito",
		"D6": "3",
		"F6": "R$ 7,50",
		"A8": "Total: R$ 1.242,00",
	}
	for name, want := range checks {
		if got := cell(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestSheetValues(t *testing.T) {
	values := SheetValues(sample())
	if len(values) != 4 {
		t.Fatalf("len = %d, want header + 2 rows + total", len(values))
	}
	if !reflect.DeepEqual(values[0][0], "Data") {
		t.Fatalf("header = %v", values[0])
	}
	if !reflect.DeepEqual(values[2], []interface{}{"06/01/2024", "Café, pão", 2.5, 3, "Other", 7.5}) {
		t.Fatalf("row = %v", values[2])
	}
	if values[3][4] != "Total" || values[3][5] != 1242.0 {
		t.Fatalf("total row = %v", values[3])
	}
}
