package commission_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

func TestSchedule_Resolve_cutoverBoundary(t *testing.T) {
	s := commission.DefaultSchedule()

	tests := []struct {
		name string
		date time.Time
		want domain.Regime
	}{
		{"day before cutover", date(2025, 8, 31), domain.RegimeLegacy},
		{"last instant before cutover", commission.Cutover.Add(-time.Nanosecond), domain.RegimeLegacy},
		{"cutover day", date(2025, 9, 1), domain.RegimeCurrent},
		{"long after cutover", date(2027, 1, 1), domain.RegimeCurrent},
		{"zero time", time.Time{}, domain.RegimeLegacy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Resolve(tt.date).Regime)
		})
	}
}

func TestSchedule_Resolve_isDeterministic(t *testing.T) {
	s := commission.DefaultSchedule()
	d := date(2024, 9, 15)

	first := s.Resolve(d)
	for range 10 {
		got := s.Resolve(d)
		assert.Equal(t, first.Regime, got.Regime)
		assertDecimal(t, first.AdvancePercentage.String(), got.AdvancePercentage)
	}
}

func TestDefaultSchedule_reviewTiersStrictlyIncrease(t *testing.T) {
	for _, schema := range commission.DefaultSchedule() {
		t.Run(string(schema.Regime), func(t *testing.T) {
			one, two, three := schema.ReviewBonus(1), schema.ReviewBonus(2), schema.ReviewBonus(3)
			assert.True(t, one.LessThan(two), "tier 1 < tier 2")
			assert.True(t, two.LessThan(three), "tier 2 < tier 3")
		})
	}
	require.NoError(t, commission.DefaultSchedule().Validate())
}

func TestSchema_ReviewBonus(t *testing.T) {
	current := commission.DefaultSchedule().Resolve(date(2025, 10, 1))

	assertDecimal(t, "0", current.ReviewBonus(0))
	assertDecimal(t, "0", current.ReviewBonus(-1))
	assertDecimal(t, "2000", current.ReviewBonus(1))
	assertDecimal(t, "2500", current.ReviewBonus(2))
	assertDecimal(t, "3000", current.ReviewBonus(3))
	assertDecimal(t, "3000", current.ReviewBonus(7))
}

func TestLoadSchedule(t *testing.T) {
	const doc = `
regimes:
  - name: current
    effective_from: "2025-09-01"
    advance: "0.04"
    settlement: "0.09"
    manager_bonus: "0.01"
    review_tiers: ["2000", "2500", "3000"]
  - name: legacy
    advance: "0.045"
    settlement: "0.09"
    manager_bonus: "0.01"
    review_tiers: ["1000", "1250", "1500"]
`
	s, err := commission.LoadSchedule(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, s, 2)

	assert.Equal(t, domain.RegimeLegacy, s[0].Regime, "entries are sorted by effective date")
	assert.Equal(t, domain.RegimeCurrent, s.Resolve(date(2025, 9, 1)).Regime)
	assertDecimal(t, "0.045", s.Resolve(date(2025, 8, 31)).AdvancePercentage)
}

func TestLoadSchedule_rejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "regimes: [::"},
		{"no regimes", "regimes: []"},
		{"bad percentage", `
regimes:
  - name: legacy
    advance: "abc"
    settlement: "0.09"
    manager_bonus: "0.01"
    review_tiers: ["1", "2", "3"]
`},
		{"percentage above one", `
regimes:
  - name: legacy
    advance: "4.5"
    settlement: "0.09"
    manager_bonus: "0.01"
    review_tiers: ["1", "2", "3"]
`},
		{"tiers not increasing", `
regimes:
  - name: legacy
    advance: "0.04"
    settlement: "0.09"
    manager_bonus: "0.01"
    review_tiers: ["2000", "2000", "3000"]
`},
		{"two tiers", `
regimes:
  - name: legacy
    advance: "0.04"
    settlement: "0.09"
    manager_bonus: "0.01"
    review_tiers: ["2000", "3000"]
`},
		{"bad date", `
regimes:
  - name: legacy
    effective_from: 01/09/2025
    advance: "0.04"
    settlement: "0.09"
    manager_bonus: "0.01"
    review_tiers: ["1", "2", "3"]
`},
		{"two regimes from the same date", `
regimes:
  - name: a
    advance: "0.04"
    settlement: "0.09"
    manager_bonus: "0.01"
    review_tiers: ["1", "2", "3"]
  - name: b
    advance: "0.04"
    settlement: "0.09"
    manager_bonus: "0.01"
    review_tiers: ["1", "2", "3"]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commission.LoadSchedule(strings.NewReader(tt.doc))
			require.Error(t, err)
		})
	}
}

// ---- helpers ----

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
