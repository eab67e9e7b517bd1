package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/importer"
)

// saleRecorder is satisfied by *TripService.
type saleRecorder interface {
	RecordSale(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

// ImportResult summarizes one CSV import.
type ImportResult struct {
	Imported int
	// Skipped counts rows whose booking already exists.
	Skipped int
	Errors  []importer.RowError
}

// ImportService records every row of a sales ledger export as a sale.
type ImportService struct {
	sales saleRecorder
	log   *slog.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(sales saleRecorder, log *slog.Logger) *ImportService {
	return &ImportService{sales: sales, log: log}
}

// Import parses r and records each parsed row. Rows that fail parsing or
// validation are reported and skipped; a repeated booking is counted as
// skipped. Any other error aborts the import.
func (s *ImportService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	parsed, err := importer.Parse(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("service.ImportService.Import: %w", err)
	}

	res := ImportResult{Errors: parsed.Errors}
	for _, row := range parsed.Rows {
		_, err := s.sales.RecordSale(ctx, row.Trip)
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, domain.ErrConflict):
			res.Skipped++
		case errors.Is(err, domain.ErrValidation):
			res.Errors = append(res.Errors, importer.RowError{Line: row.Line, Err: err})
		default:
			return res, fmt.Errorf("service.ImportService.Import: line %d: %w", row.Line, err)
		}
	}
	if res.Errors == nil {
		res.Errors = []importer.RowError{}
	}

	s.log.InfoContext(ctx, "import finished",
		"imported", res.Imported, "skipped", res.Skipped, "errors", len(res.Errors))
	return res, nil
}
