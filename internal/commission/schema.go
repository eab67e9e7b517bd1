// Package commission is the commission computation and approval engine.
//
// It resolves which commission schema applies to a trip, derives the payable
// amounts from the trip's facts, drives each payable line through its status
// lifecycle and folds collections of trips into period summaries. Every
// function here is pure: inputs are values, outputs are new values, and nothing
// touches I/O apart from LoadSchedule reading an io.Reader.
package commission

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// Cutover is the first sale date sold under the current regime.
var Cutover = time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

// Schema is one regime's percentages and review-bonus tiers.
// ReviewTiers[i] is the bonus for i+1 reviews; three reviews or more use the
// last tier.
type Schema struct {
	Regime                 domain.Regime
	EffectiveFrom          time.Time
	AdvancePercentage      decimal.Decimal
	SettlementPercentage   decimal.Decimal
	ManagerBonusPercentage decimal.Decimal
	ReviewTiers            [3]decimal.Decimal
}

// ReviewBonus returns the bonus for count reviews. Zero or negative counts
// earn nothing; counts above three earn the top tier.
func (s Schema) ReviewBonus(count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return s.ReviewTiers[min(count, len(s.ReviewTiers))-1]
}

// Schedule is the ordered list of regimes, oldest first.
type Schedule []Schema

// DefaultSchedule returns the built-in legacy and current regimes.
func DefaultSchedule() Schedule {
	return Schedule{
		{
			Regime:                 domain.RegimeLegacy,
			EffectiveFrom:          time.Time{},
			AdvancePercentage:      decimal.RequireFromString("0.045"),
			SettlementPercentage:   decimal.RequireFromString("0.09"),
			ManagerBonusPercentage: decimal.RequireFromString("0.01"),
			ReviewTiers: [3]decimal.Decimal{
				decimal.NewFromInt(1000),
				decimal.NewFromInt(1250),
				decimal.NewFromInt(1500),
			},
		},
		{
			Regime:                 domain.RegimeCurrent,
			EffectiveFrom:          Cutover,
			AdvancePercentage:      decimal.RequireFromString("0.04"),
			SettlementPercentage:   decimal.RequireFromString("0.09"),
			ManagerBonusPercentage: decimal.RequireFromString("0.01"),
			ReviewTiers: [3]decimal.Decimal{
				decimal.NewFromInt(2000),
				decimal.NewFromInt(2500),
				decimal.NewFromInt(3000),
			},
		},
	}
}

// Resolve returns the schema in effect on saleDate: the latest entry whose
// EffectiveFrom is not after it. Dates before the first entry resolve to the
// first entry, so Resolve is total for any non-empty schedule.
func (s Schedule) Resolve(saleDate time.Time) Schema {
	chosen := s[0]
	for _, schema := range s[1:] {
		if schema.EffectiveFrom.After(saleDate) {
			break
		}
		chosen = schema
	}
	return chosen
}

// Validate checks ordering and tier monotonicity.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: schedule has no regimes", domain.ErrValidation)
	}
	for i, schema := range s {
		if schema.Regime == "" {
			return fmt.Errorf("%w: regime %d has no name", domain.ErrValidation, i)
		}
		if i > 0 && !schema.EffectiveFrom.After(s[i-1].EffectiveFrom) {
			return fmt.Errorf("%w: regime %q must start after %q", domain.ErrValidation, schema.Regime, s[i-1].Regime)
		}
		for _, p := range []decimal.Decimal{schema.AdvancePercentage, schema.SettlementPercentage, schema.ManagerBonusPercentage} {
			if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(1)) {
				return fmt.Errorf("%w: regime %q has a percentage outside [0, 1]", domain.ErrValidation, schema.Regime)
			}
		}
		for t := 1; t < len(schema.ReviewTiers); t++ {
			if !schema.ReviewTiers[t].GreaterThan(schema.ReviewTiers[t-1]) {
				return fmt.Errorf("%w: regime %q review tiers must be strictly increasing", domain.ErrValidation, schema.Regime)
			}
		}
		if !schema.ReviewTiers[0].IsPositive() {
			return fmt.Errorf("%w: regime %q first review tier must be positive", domain.ErrValidation, schema.Regime)
		}
	}
	return nil
}

type scheduleFile struct {
	Regimes []struct {
		Name          string   `yaml:"name"`
		EffectiveFrom string   `yaml:"effective_from"`
		Advance       string   `yaml:"advance"`
		Settlement    string   `yaml:"settlement"`
		ManagerBonus  string   `yaml:"manager_bonus"`
		ReviewTiers   []string `yaml:"review_tiers"`
	} `yaml:"regimes"`
}

// LoadSchedule parses a YAML schedule:
//
//	regimes:
//	  - name: legacy
//	    advance: "0.045"
//	    settlement: "0.09"
//	    manager_bonus: "0.01"
//	    review_tiers: ["1000", "1250", "1500"]
//	  - name: current
//	    effective_from: "2025-09-01"
//	    ...
//
// An empty effective_from means "since forever" and is only allowed on the
// first regime. Entries are sorted by effective date before validation.
func LoadSchedule(r io.Reader) (Schedule, error) {
	var f scheduleFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("commission.LoadSchedule: decode: %w", err)
	}

	out := make(Schedule, 0, len(f.Regimes))
	for _, reg := range f.Regimes {
		schema := Schema{Regime: domain.Regime(reg.Name)}
		if reg.EffectiveFrom != "" {
			from, err := time.Parse(time.DateOnly, reg.EffectiveFrom)
			if err != nil {
				return nil, fmt.Errorf("commission.LoadSchedule: regime %q effective_from: %w", reg.Name, domain.ErrValidation)
			}
			schema.EffectiveFrom = from
		}

		var err error
		if schema.AdvancePercentage, err = decimal.NewFromString(reg.Advance); err != nil {
			return nil, fmt.Errorf("commission.LoadSchedule: regime %q advance: %w", reg.Name, domain.ErrValidation)
		}
		if schema.SettlementPercentage, err = decimal.NewFromString(reg.Settlement); err != nil {
			return nil, fmt.Errorf("commission.LoadSchedule: regime %q settlement: %w", reg.Name, domain.ErrValidation)
		}
		if schema.ManagerBonusPercentage, err = decimal.NewFromString(reg.ManagerBonus); err != nil {
			return nil, fmt.Errorf("commission.LoadSchedule: regime %q manager_bonus: %w", reg.Name, domain.ErrValidation)
		}
		if len(reg.ReviewTiers) != len(schema.ReviewTiers) {
			return nil, fmt.Errorf("commission.LoadSchedule: regime %q needs exactly 3 review tiers: %w", reg.Name, domain.ErrValidation)
		}
		for i, tier := range reg.ReviewTiers {
			if schema.ReviewTiers[i], err = decimal.NewFromString(tier); err != nil {
				return nil, fmt.Errorf("commission.LoadSchedule: regime %q review tier %d: %w", reg.Name, i+1, domain.ErrValidation)
			}
		}
		out = append(out, schema)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveFrom.Before(out[j].EffectiveFrom)
	})
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("commission.LoadSchedule: %w", err)
	}
	return out, nil
}
