package document

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "Comisiones"

// Built-in excelize number formats.
const (
	numFmtMoney   = 4  // #,##0.00
	numFmtPercent = 10 // 0.00%
)

// WriteXLSX writes rows as a single-sheet workbook with a bold header row.
// Amounts and percentages are numeric cells.
func WriteXLSX(w io.Writer, rows []domain.ExportRow) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("document.WriteXLSX: %w", cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("document.WriteXLSX: %w", err)
	}
	styles, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("document.WriteXLSX: %w", err)
	}

	for i, h := range Headers() {
		if err := setCell(f, i+1, 1, h, styles.header); err != nil {
			return fmt.Errorf("document.WriteXLSX: %w", err)
		}
	}
	for n, r := range rows {
		for i, c := range columns {
			var (
				v     any
				style int
			)
			switch val := c.value(r).(type) {
			case decimal.Decimal:
				v, style = val.InexactFloat64(), styles.money
			case percent:
				v, style = decimal.Decimal(val).InexactFloat64(), styles.percent
			default:
				v = val
			}
			if err := setCell(f, i+1, n+2, v, style); err != nil {
				return fmt.Errorf("document.WriteXLSX: row %d: %w", n+1, err)
			}
		}
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("document.WriteXLSX: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("document.WriteXLSX: %w", err)
	}
	return nil
}

type xlsxStyles struct {
	header, money, percent int
}

func newStyles(f *excelize.File) (xlsxStyles, error) {
	var s xlsxStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: numFmtMoney}); err != nil {
		return s, err
	}
	if s.percent, err = f.NewStyle(&excelize.Style{NumFmt: numFmtPercent}); err != nil {
		return s, err
	}
	return s, nil
}

// setCell writes v at (col, row), both 1-based. A zero style leaves the
// default.
func setCell(f *excelize.File, col, row int, v any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, v); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	if style == 0 {
		return nil
	}
	return f.SetCellStyle(SheetName, cell, cell, style)
}
