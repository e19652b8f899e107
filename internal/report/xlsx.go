package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"despesas/internal/core"
)

const sheetName = "Despesas"

// first table row, below the title block
const headerRow = 4

// WriteXLSX writes a formatted workbook: title, generation date, the
// expense table and a closing total.
func WriteXLSX(w io.Writer, expenses []core.Expense, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 18}})
	if err != nil {
		return err
	}
	headStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0078D7"}},
	})
	if err != nil {
		return err
	}
	altStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F0F5FA"}},
	})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return err
	}

	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, v)
	}

	if err := set(1, 1, Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return err
	}
	if err := set(1, 2, "Gerado em: "+generatedAt.Format(core.DisplayDateLayout)); err != nil {
		return err
	}

	for i, h := range Header {
		if err := set(i+1, headerRow, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetName, "A4", "F4", headStyle); err != nil {
		return err
	}

	rows := Rows(expenses)
	for i, r := range rows {
		row := headerRow + 1 + i
		values := []any{
			r.Date,
			r.Item,
			FormatCurrency(r.Value),
			r.Quantity,
			PaymentMethodLabel(r.PaymentMethod),
			FormatCurrency(r.Total),
		}
		for col, v := range values {
			if err := set(col+1, row, v); err != nil {
				return err
			}
		}
		if i%2 == 1 {
			if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), altStyle); err != nil {
				return err
			}
		}
	}

	totalRow := headerRow + len(rows) + 2
	cell := fmt.Sprintf("A%d", totalRow)
	if err := f.SetCellValue(sheetName, cell, "Total: "+FormatCurrency(Total(rows))); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, cell, cell, totalStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(sheetName, "A", "F", 18); err != nil {
		return err
	}
	return f.Write(w)
}
