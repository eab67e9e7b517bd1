package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// statementColumn is one column of the statement table, width in mm.
type statementColumn struct {
	header string
	width  float64
	align  string
	value  func(domain.ExportRow) string
}

var statementColumns = []statementColumn{
	{"Booking", 24, "L", func(r domain.ExportRow) string { return r.Booking }},
	{"Viajero", 36, "L", func(r domain.ExportRow) string { return r.Traveler }},
	{"Cierre", 20, "C", func(r domain.ExportRow) string { return r.SaleDate.Format(dateLayout) }},
	{"Viaje", 20, "C", func(r domain.ExportRow) string { return r.TravelDate.Format(dateLayout) }},
	{"Anticipo", 22, "R", func(r domain.ExportRow) string { return money(r.AdvanceAmount) }},
	{"Estatus", 20, "C", func(r domain.ExportRow) string { return r.AdvanceStatus.Display().Label }},
	{"Liquidación", 22, "R", func(r domain.ExportRow) string { return money(r.SettlementAmount) }},
	{"Estatus", 20, "C", func(r domain.ExportRow) string { return r.SettlementStatus.Display().Label }},
}

// WriteStatementPDF renders an A4 commission statement: one table row per
// trip followed by the period totals.
func WriteStatementPDF(w io.Writer, st domain.Statement) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Estado de cuenta - "+st.Specialist), false)
	pdf.SetCreationDate(st.GeneratedAt)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Estado de cuenta de comisiones"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Especialista : " + st.Specialist,
		"Periodo      : " + st.Period.Start.Format(dateLayout) + " a " + st.Period.End.AddDate(0, 0, -1).Format(dateLayout),
		"Generado     : " + st.GeneratedAt.UTC().Format("2006-01-02 15:04") + " UTC",
	} {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	statementTable(pdf, tr, st.Rows)
	pdf.Ln(6)
	statementTotals(pdf, tr, st.Highlights)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("document.WriteStatementPDF: %w", err)
	}
	return nil
}

func statementTable(pdf *gofpdf.Fpdf, tr func(string) string, rows []domain.ExportRow) {
	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range statementColumns {
			pdf.CellFormat(c.width, 7, tr(c.header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	if len(rows) == 0 {
		pdf.CellFormat(tableWidth(), 7, tr("Sin viajes en el periodo"), "1", 1, "C", false, 0, "")
		return
	}

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, r := range rows {
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for _, c := range statementColumns {
			pdf.CellFormat(c.width, 6, tr(truncate(c.value(r), 22)), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func statementTotals(pdf *gofpdf.Fpdf, tr func(string) string, h domain.Highlights) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, tr("Totales del periodo"))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []struct {
		label, value string
	}{
		{"Viajes vendidos", fmt.Sprint(h.TripsSold)},
		{"Viajes operados", fmt.Sprint(h.TripsOperated)},
		{"Anticipos pagados", money(h.AdvancesPaid)},
		{"Liquidaciones pagadas", money(h.SettlementsPaid)},
		{"Bono por reseñas", money(h.ReviewBonusTotal)},
	} {
		pdf.CellFormat(60, 6, tr(line.label), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, line.value, "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, money(h.GrandTotal), "T", 1, "R", false, 0, "")
}

func tableWidth() float64 {
	var w float64
	for _, c := range statementColumns {
		w += c.width
	}
	return w
}

// money formats d as $1,234.56.
func money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + b.String() + "." + frac
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
