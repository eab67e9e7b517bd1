package document

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// WriteCSV writes a header row and one record per row. Amounts are written
// with two decimals and statuses with their display label.
func WriteCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return fmt.Errorf("document.WriteCSV: %w", err)
	}
	record := make([]string, len(columns))
	for _, r := range rows {
		for i, c := range columns {
			record[i] = text(c.value(r))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("document.WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("document.WriteCSV: %w", err)
	}
	return nil
}
