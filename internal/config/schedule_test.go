package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tajirhq/tajir/internal/calc/shipping"
	"github.com/tajirhq/tajir/internal/calc/storagefee"
)

func TestDefaultScheduleIsValid(t *testing.T) {
	holder, err := NewScheduleHolder(DefaultScheduleConfig())
	require.NoError(t, err)

	schedule := holder.Storage()

	rate, err := schedule.MonthlyRate(storagefee.TierStandard, time.March)
	require.NoError(t, err)
	assert.Equal(t, "0.78", rate.String())

	rate, err = schedule.MonthlyRate(storagefee.TierStandard, time.November)
	require.NoError(t, err)
	assert.Equal(t, "2.4", rate.String())

	assert.Equal(t, 6, schedule.AgedThresholdMonths())
	assert.Equal(t, 12, schedule.LongTermThresholdMonths())

	tier, err := holder.ShippingTable().TierFor(1.2)
	require.NoError(t, err)
	assert.Equal(t, "small", tier.Label)
}

func TestScheduleUnknownTier(t *testing.T) {
	holder, err := NewScheduleHolder(DefaultScheduleConfig())
	require.NoError(t, err)

	_, err = holder.Storage().MonthlyRate(storagefee.SizeTier("apparel"), time.May)
	assert.Error(t, err)
}

func TestScheduleValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScheduleConfig)
	}{
		{
			name: "aged threshold after long-term",
			mutate: func(c *ScheduleConfig) {
				c.Storage.AgedThresholdMonths = 12
				c.Storage.LongTermThresholdMonths = 6
			},
		},
		{
			name: "zero threshold",
			mutate: func(c *ScheduleConfig) {
				c.Storage.AgedThresholdMonths = 0
			},
		},
		{
			name: "negative surcharge",
			mutate: func(c *ScheduleConfig) {
				c.Storage.AgedSurchargePerUnit = -0.5
			},
		},
		{
			name: "long-term surcharge below aged",
			mutate: func(c *ScheduleConfig) {
				c.Storage.AgedSurchargePerUnit = 2
				c.Storage.LongTermSurchargePerUnit = 1
			},
		},
		{
			name: "no rates",
			mutate: func(c *ScheduleConfig) {
				c.Storage.Rates = nil
			},
		},
		{
			name: "duplicate tier",
			mutate: func(c *ScheduleConfig) {
				c.Storage.Rates = append(c.Storage.Rates, c.Storage.Rates[0])
			},
		},
		{
			name: "peak month out of range",
			mutate: func(c *ScheduleConfig) {
				c.Storage.Rates[0].PeakMonths = []int{13}
			},
		},
		{
			name: "broken shipping partition",
			mutate: func(c *ScheduleConfig) {
				c.ShippingTiers = []shipping.Tier{{Label: "only", MinKg: 1}}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultScheduleConfig()
			tt.mutate(&cfg)
			_, err := NewScheduleHolder(cfg)
			assert.Error(t, err)
		})
	}
}

func TestScheduleHolderSwapsSnapshots(t *testing.T) {
	holder, err := NewScheduleHolder(DefaultScheduleConfig())
	require.NoError(t, err)

	updated := DefaultScheduleConfig()
	updated.Storage.Rates[0].OffPeak = 0.92
	snapshot, err := validateScheduleConfig(updated)
	require.NoError(t, err)
	holder.current.Store(snapshot)

	rate, err := holder.Storage().MonthlyRate(storagefee.TierStandard, time.April)
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.String())
}
