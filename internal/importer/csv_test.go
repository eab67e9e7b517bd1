package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/importer"
)

const header = `Booking,Lead Pax,Anticipo Especialista,Especialista,Fecha de cierre,Fecha en que comienza el viaje,Utilidad cotizada MXN,Utilidad Real Reporte,NPS,Total de días de viaje`

func TestParse(t *testing.T) {
	input := header + "\n" +
		`BK-1001,Ana López,3%,María García,15/09/2024,02/11/2024,"$25,000.00","22,000",9,10` + "\n" +
		`BK-1002,Jorge Ruiz,3%,Luis Pérez,1/10/2025,5/3/2026,18000,,,` + "\n"

	res, err := importer.Parse(strings.NewReader(input))

	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Rows, 2)

	first := res.Rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "BK-1001", first.Trip.Booking)
	assert.Equal(t, "Ana López", first.Trip.Traveler)
	assert.Equal(t, "María García", first.Trip.Specialist, "exact header wins over a partial match")
	assert.Equal(t, time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC), first.Trip.SaleDate)
	assert.Equal(t, time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC), first.Trip.TravelDate)
	assert.True(t, first.Trip.QuotedProfit.Equal(mustDec("25000")))
	require.NotNil(t, first.Trip.ActualProfit)
	assert.True(t, first.Trip.ActualProfit.Equal(mustDec("22000")))
	assert.Equal(t, 9, first.Trip.NPS)
	assert.Equal(t, 10, first.Trip.TravelDays)
	assert.Equal(t, domain.RoleSpecialist, first.Trip.Role)

	second := res.Rows[1].Trip
	assert.Nil(t, second.ActualProfit, "empty actual profit means not operated")
	assert.Zero(t, second.NPS)
}

func TestParse_badRowsAreReportedNotFatal(t *testing.T) {
	input := header + "\n" +
		`BK-1,Ana,3%,María,2024-09-15,02/11/2024,1000,,,` + "\n" +
		`,Ana,3%,María,15/09/2024,02/11/2024,1000,,,` + "\n" +
		`BK-3,Ana,3%,María,15/09/2024,02/11/2024,abc,,,` + "\n" +
		`BK-4,Ana,3%,María,15/09/2024,02/11/2024,1000,,diez,` + "\n" +
		`BK-5,Ana,3%,María,15/09/2024,02/11/2024,1000,,,` + "\n"

	res, err := importer.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "BK-5", res.Rows[0].Trip.Booking)
	require.Len(t, res.Errors, 4)
	lines := []int{}
	for _, e := range res.Errors {
		lines = append(lines, e.Line)
	}
	assert.Equal(t, []int{2, 3, 4, 5}, lines)
	assert.Contains(t, res.Errors[0].Error(), "line 2")
}

func TestParse_missingColumns(t *testing.T) {
	_, err := importer.Parse(strings.NewReader("Booking,Lead Pax\nBK-1,Ana\n"))

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "Fecha de cierre")
}

func TestParse_emptyFile(t *testing.T) {
	_, err := importer.Parse(strings.NewReader(""))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestParse_byteOrderMark(t *testing.T) {
	input := "\ufeff" + header + "\n" + `BK-1,Ana,3%,María,15/09/2024,02/11/2024,1000,,,` + "\n"

	res, err := importer.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "BK-1", res.Rows[0].Trip.Booking)
}

// ---- helpers ----

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
