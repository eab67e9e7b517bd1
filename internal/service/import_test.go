package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/service"
)

type mockSaleRecorder struct {
	recordSale func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

func (m *mockSaleRecorder) RecordSale(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.recordSale(ctx, trip)
}

const ledgerCSV = `Booking,Lead Pax,Especialista,Fecha de cierre,Fecha en que comienza el viaje,Utilidad cotizada MXN,Utilidad Real Reporte
BK-1,Ana López,María García,15/09/2024,02/11/2024,25000,22000
BK-2,Jorge Ruiz,María García,16/09/2024,03/11/2024,18000,
BK-3,Pedro Díaz,María García,17/09/2024,01/09/2024,18000,
BK-4,Sofía Torres,,18/09/2024,05/11/2024,18000,
bad-date,Elena Vega,Luis Pérez,31/02/2024,05/11/2024,1000,
`

func TestImportService_Import(t *testing.T) {
	var recorded []string
	rec := &mockSaleRecorder{
		recordSale: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			if trip.Booking == "BK-2" {
				return domain.Trip{}, domain.ErrConflict
			}
			recorded = append(recorded, trip.Booking)
			return trip, nil
		},
	}
	// Real validation for BK-3 (travel before sale) and BK-4 (no specialist).
	svc := service.NewImportService(validatingRecorder(rec), discardLogger())

	res, err := svc.Import(context.Background(), strings.NewReader(ledgerCSV))

	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"BK-1"}, recorded)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 6, res.Errors[0].Line, "parse errors come first")
	assert.Equal(t, 4, res.Errors[1].Line)
	assert.Equal(t, 5, res.Errors[2].Line)
}

func TestImportService_Import_MissingColumns(t *testing.T) {
	svc := service.NewImportService(&mockSaleRecorder{}, discardLogger())

	_, err := svc.Import(context.Background(), strings.NewReader("Booking\nBK-1\n"))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestImportService_Import_AbortsOnStorageError(t *testing.T) {
	storageErr := errors.New("disk full")
	rec := &mockSaleRecorder{
		recordSale: func(context.Context, domain.Trip) (domain.Trip, error) { return domain.Trip{}, storageErr },
	}

	_, err := service.NewImportService(rec, discardLogger()).Import(context.Background(), strings.NewReader(ledgerCSV))

	assert.ErrorIs(t, err, storageErr)
}

// ---- helpers ----

// validatingRecorder runs rows through a real TripService whose repo delegates
// to next.
func validatingRecorder(next *mockSaleRecorder) *service.TripService {
	r := &mockTripRepo{create: next.recordSale}
	return newTripService(r)
}
