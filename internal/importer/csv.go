// Package importer reads the sales ledger spreadsheet export into trip facts.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// Column header fragments. A column matches when its header equals the
// fragment, or failing that, contains it.
const (
	colBooking      = "Booking"
	colTraveler     = "Lead Pax"
	colSpecialist   = "Especialista"
	colSaleDate     = "Fecha de cierre"
	colTravelDate   = "Fecha en que comienza el viaje"
	colQuotedProfit = "Utilidad cotizada MXN"
	colActualProfit = "Utilidad Real Reporte"
	colNPS          = "NPS"
	colTravelDays   = "Total de días de viaje"
)

var required = []string{colBooking, colSpecialist, colSaleDate, colTravelDate, colQuotedProfit}

var optional = []string{colTraveler, colActualProfit, colNPS, colTravelDays}

// dateLayout is DD/MM/YYYY with optional leading zeros.
const dateLayout = "2/1/2006"

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// RowError is a row that could not be turned into a trip.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Row is a parsed trip and the line it came from.
type Row struct {
	Line int
	Trip domain.Trip
}

// Result holds the rows that parsed and the ones that did not.
type Result struct {
	Rows   []Row
	Errors []RowError
}

// Parse reads a CSV with a header row. Missing required columns fail the whole
// import with domain.ErrValidation; a bad row is recorded in Result.Errors and
// does not stop the rest. Parsed trips carry facts only.
func Parse(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("importer.Parse: %w: empty file", domain.ErrValidation)
	}
	if err != nil {
		return Result{}, fmt.Errorf("importer.Parse: header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return Result{}, fmt.Errorf("importer.Parse: %w", err)
	}

	var out Result
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				out.Errors = append(out.Errors, RowError{Line: perr.StartLine, Err: perr.Err})
				continue
			}
			return out, fmt.Errorf("importer.Parse: %w", err)
		}
		if blank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)

		trip, err := parseRecord(record, cols)
		if err != nil {
			out.Errors = append(out.Errors, RowError{Line: line, Err: err})
			continue
		}
		out.Rows = append(out.Rows, Row{Line: line, Trip: trip})
	}
	return out, nil
}

func mapColumns(header []string) (map[string]int, error) {
	for i := range header {
		header[i] = strings.Trim(strings.TrimSpace(header[i]), `"`)
	}
	// Strip a UTF-8 byte order mark left by spreadsheet exports.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := map[string]int{}
	var missing []string
	for _, name := range append(append([]string{}, required...), optional...) {
		idx := findColumn(header, name)
		if idx < 0 {
			if isRequired(name) {
				missing = append(missing, name)
			}
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	return cols, nil
}

func findColumn(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	for i, h := range header {
		if strings.Contains(h, name) {
			return i
		}
	}
	return -1
}

func isRequired(name string) bool {
	for _, r := range required {
		if r == name {
			return true
		}
	}
	return false
}

func parseRecord(record []string, cols map[string]int) (domain.Trip, error) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	t := domain.Trip{
		Booking:    get(colBooking),
		Traveler:   get(colTraveler),
		Specialist: get(colSpecialist),
		Role:       domain.RoleSpecialist,
		Original:   domain.CurrencySnapshot{Currency: domain.CurrencyMXN, ExchangeRate: decimal.NewFromInt(1)},
		Reviews:    domain.Reviews{AmountPaid: decimal.Zero},
	}
	if t.Booking == "" {
		return domain.Trip{}, errors.New("booking is empty")
	}
	t.Buyer = t.Traveler

	var err error
	if t.SaleDate, err = parseDate(get(colSaleDate)); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", colSaleDate, err)
	}
	if t.TravelDate, err = parseDate(get(colTravelDate)); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", colTravelDate, err)
	}

	quoted, err := parseMoney(get(colQuotedProfit))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", colQuotedProfit, err)
	}
	if quoted == nil {
		return domain.Trip{}, fmt.Errorf("%s: empty", colQuotedProfit)
	}
	// The ledger carries no revenue; costs are recorded as zero.
	t.QuotedProfit = *quoted
	t.QuotedRevenue = *quoted

	if t.ActualProfit, err = parseMoney(get(colActualProfit)); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", colActualProfit, err)
	}
	if t.ActualProfit != nil {
		revenue := *t.ActualProfit
		t.ActualRevenue = &revenue
	}

	if t.NPS, err = parseInt(get(colNPS)); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", colNPS, err)
	}
	if t.TravelDays, err = parseInt(get(colTravelDays)); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", colTravelDays, err)
	}
	return t, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want DD/MM/YYYY, got %q", s)
	}
	return d, nil
}

// parseMoney strips currency symbols and thousands separators. Empty input is
// absent, not zero.
func parseMoney(s string) (*decimal.Decimal, error) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" || cleaned == "-" {
		return nil, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &d, nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
