package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

func TestNewPageRequest(t *testing.T) {
	intPtr := func(i int) *int { return &i }

	assert.Equal(t, domain.PageRequest{Page: 1, Limit: 50}, domain.NewPageRequest(nil, nil))
	assert.Equal(t, domain.PageRequest{Page: 3, Limit: 10}, domain.NewPageRequest(intPtr(3), intPtr(10)))
	assert.Equal(t, domain.PageRequest{Page: 1, Limit: 500}, domain.NewPageRequest(intPtr(0), intPtr(10_000)))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := domain.Paginate(items, domain.PageRequest{Page: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, p.Items)
	assert.Equal(t, 5, p.Total)

	last := domain.Paginate(items, domain.PageRequest{Page: 3, Limit: 2})
	assert.Equal(t, []int{5}, last.Items)

	past := domain.Paginate(items, domain.PageRequest{Page: 9, Limit: 2})
	assert.Empty(t, past.Items)
	assert.NotNil(t, past.Items)
}

func TestPeriod(t *testing.T) {
	p := domain.MonthPeriod(2025, time.December)

	assert.True(t, p.Contains(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)), "end is exclusive")
	assert.NoError(t, p.Validate())
	assert.Equal(t, domain.MonthPeriod(2026, time.January), p.NextMonth())

	assert.ErrorIs(t, domain.Period{Start: p.End, End: p.Start}.Validate(), domain.ErrValidation)
}
