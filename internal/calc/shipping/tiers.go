// Package shipping implements the shipping weight tier table. Tiers
// must partition the non-negative weight line: lower bound inclusive,
// upper bound exclusive, no gaps, no overlaps, last tier open-ended.
package shipping

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTable      = errors.New("tier_table_empty")
	ErrInvalidWeight   = errors.New("invalid_weight")
	ErrBrokenPartition = errors.New("tier_table_broken_partition")
)

// Tier is one weight band. MaxKg nil means unbounded.
type Tier struct {
	Label string   `json:"label" mapstructure:"label"`
	MinKg float64  `json:"min_kg" mapstructure:"min_kg"`
	MaxKg *float64 `json:"max_kg,omitempty" mapstructure:"max_kg"`
}

func (t Tier) contains(weightKg float64) bool {
	if weightKg < t.MinKg {
		return false
	}
	return t.MaxKg == nil || weightKg < *t.MaxKg
}

// Table is a validated, immutable tier list.
type Table struct {
	tiers []Tier
}

// NewTable validates that the tiers partition [0, inf) and returns the
// table. Order matters: tiers must be ascending and contiguous.
func NewTable(tiers []Tier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, ErrEmptyTable
	}
	if tiers[0].MinKg != 0 {
		return nil, fmt.Errorf("%w: first tier must start at 0, got %v", ErrBrokenPartition, tiers[0].MinKg)
	}
	for i, tier := range tiers {
		if tier.Label == "" {
			return nil, fmt.Errorf("%w: tier %d has no label", ErrBrokenPartition, i)
		}
		last := i == len(tiers)-1
		if last {
			if tier.MaxKg != nil {
				return nil, fmt.Errorf("%w: last tier %q must be open-ended", ErrBrokenPartition, tier.Label)
			}
			continue
		}
		if tier.MaxKg == nil {
			return nil, fmt.Errorf("%w: only the last tier may be open-ended, %q is not last", ErrBrokenPartition, tier.Label)
		}
		if *tier.MaxKg <= tier.MinKg {
			return nil, fmt.Errorf("%w: tier %q is empty or inverted", ErrBrokenPartition, tier.Label)
		}
		if next := tiers[i+1]; next.MinKg != *tier.MaxKg {
			return nil, fmt.Errorf("%w: gap or overlap between %q and %q", ErrBrokenPartition, tier.Label, next.Label)
		}
	}
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return &Table{tiers: out}, nil
}

// DefaultTiers is the built-in parcel tier table, used when no table is
// configured.
func DefaultTiers() []Tier {
	kg := func(v float64) *float64 { return &v }
	return []Tier{
		{Label: "extra_small", MinKg: 0, MaxKg: kg(0.5)},
		{Label: "small", MinKg: 0.5, MaxKg: kg(2)},
		{Label: "medium", MinKg: 2, MaxKg: kg(10)},
		{Label: "large", MinKg: 10, MaxKg: kg(30)},
		{Label: "freight", MinKg: 30},
	}
}

// DefaultTable builds the built-in tier table.
func DefaultTable() *Table {
	t, err := NewTable(DefaultTiers())
	if err != nil {
		panic(err)
	}
	return t
}

// Tiers returns a copy of the tier list.
func (t *Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// TierFor returns the single tier containing the weight. A validated
// table guarantees exactly one match for any non-negative weight.
func (t *Table) TierFor(weightKg float64) (*Tier, error) {
	if weightKg < 0 {
		return nil, ErrInvalidWeight
	}
	for i := range t.tiers {
		if t.tiers[i].contains(weightKg) {
			tier := t.tiers[i]
			return &tier, nil
		}
	}
	// Unreachable on a validated table.
	return nil, fmt.Errorf("%w: no tier for weight %v", ErrBrokenPartition, weightKg)
}
