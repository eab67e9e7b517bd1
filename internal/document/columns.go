// Package document renders commission rows and statements as downloadable
// files: CSV, XLSX and PDF.
package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

const dateLayout = "2006-01-02"

// percent is a rate such as 0.045, rendered as 4.50%.
type percent decimal.Decimal

// column is one field of the flat export. value returns a string, an int,
// a decimal.Decimal amount or a percent.
type column struct {
	header string
	value  func(domain.ExportRow) any
}

var columns = []column{
	{"Booking", func(r domain.ExportRow) any { return r.Booking }},
	{"Viajero", func(r domain.ExportRow) any { return r.Traveler }},
	{"Especialista", func(r domain.ExportRow) any { return r.Specialist }},
	{"Rol", func(r domain.ExportRow) any { return string(r.Role) }},
	{"Fecha de cierre", func(r domain.ExportRow) any { return r.SaleDate.Format(dateLayout) }},
	{"Fecha de viaje", func(r domain.ExportRow) any { return r.TravelDate.Format(dateLayout) }},
	{"Esquema", func(r domain.ExportRow) any { return string(r.Regime) }},
	{"Utilidad cotizada", func(r domain.ExportRow) any { return r.QuotedProfit }},
	{"Utilidad real", func(r domain.ExportRow) any {
		if !r.Operated {
			return ""
		}
		return r.ActualProfit
	}},
	{"Operado", func(r domain.ExportRow) any { return yesNo(r.Operated) }},
	{"% Anticipo", func(r domain.ExportRow) any { return percent(r.AdvancePercentage) }},
	{"Anticipo", func(r domain.ExportRow) any { return r.AdvanceAmount }},
	{"Estatus anticipo", func(r domain.ExportRow) any { return r.AdvanceStatus.Display().Label }},
	{"% Liquidación", func(r domain.ExportRow) any { return percent(r.SettlementPercentage) }},
	{"Liquidación", func(r domain.ExportRow) any { return r.SettlementAmount }},
	{"Estatus liquidación", func(r domain.ExportRow) any { return r.SettlementStatus.Display().Label }},
	{"Bono gerencial", func(r domain.ExportRow) any { return r.ManagerBonusAmount }},
	{"Estatus bono gerencial", func(r domain.ExportRow) any { return r.ManagerBonusStatus.Display().Label }},
	{"Reseñas", func(r domain.ExportRow) any { return r.ReviewCount }},
	{"Bono reseñas", func(r domain.ExportRow) any { return r.ReviewBonus }},
	{"Bono reseñas por pagar", func(r domain.ExportRow) any { return r.ReviewAmountDue }},
	{"Por pagar", func(r domain.ExportRow) any { return r.AmountPayable }},
}

// Headers returns the column headers shared by the CSV and XLSX exports.
func Headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.header
	}
	return out
}

// text renders a column value for formats without typed cells.
func text(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return fmt.Sprint(v)
	case decimal.Decimal:
		return v.StringFixed(2)
	case percent:
		return decimal.Decimal(v).Shift(2).StringFixed(2) + "%"
	default:
		return fmt.Sprint(v)
	}
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// Filename names a download for p: the month ("comisiones_2024-09.csv") when
// p is exactly one calendar month, otherwise the first and last day inside p.
func Filename(prefix string, p domain.Period, ext string) string {
	start := p.Start.UTC()
	var span string
	if start.Day() == 1 && p.End.Equal(start.AddDate(0, 1, 0)) && start.Equal(start.Truncate(24*time.Hour)) {
		span = start.Format("2006-01")
	} else {
		span = start.Format(dateLayout) + "_" + p.End.UTC().AddDate(0, 0, -1).Format(dateLayout)
	}
	return strings.ToLower(prefix) + "_" + span + "." + ext
}
