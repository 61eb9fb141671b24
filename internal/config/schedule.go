package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tajirhq/tajir/internal/calc/shipping"
	"github.com/tajirhq/tajir/internal/calc/storagefee"
)

// ScheduleConfig is the operator-editable fee schedule: seasonal storage
// rates, surcharge thresholds and the shipping weight tier table. It is
// loaded from schedule.yml and hot-reloaded; an invalid edit is rejected
// and the last good schedule stays active.
type ScheduleConfig struct {
	Storage       StorageScheduleConfig `mapstructure:"storage"`
	ShippingTiers []shipping.Tier       `mapstructure:"shippingTiers"`
}

type StorageScheduleConfig struct {
	AgedThresholdMonths      int                 `mapstructure:"agedThresholdMonths"`
	LongTermThresholdMonths  int                 `mapstructure:"longTermThresholdMonths"`
	AgedSurchargePerUnit     float64             `mapstructure:"agedSurchargePerUnit"`
	LongTermSurchargePerUnit float64             `mapstructure:"longTermSurchargePerUnit"`
	Rates                    []StorageRateConfig `mapstructure:"rates"`
}

// StorageRateConfig is the per-tier seasonal rate: peak months (October
// through December in the published fee schedule) bill at the peak rate,
// every other month at the off-peak rate.
type StorageRateConfig struct {
	Tier       string  `mapstructure:"tier"`
	OffPeak    float64 `mapstructure:"offPeak"`
	Peak       float64 `mapstructure:"peak"`
	PeakMonths []int   `mapstructure:"peakMonths"`
}

// DefaultScheduleConfig mirrors the published marketplace fee schedule.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Storage: StorageScheduleConfig{
			AgedThresholdMonths:      6,
			LongTermThresholdMonths:  12,
			AgedSurchargePerUnit:     0.50,
			LongTermSurchargePerUnit: 1.50,
			Rates: []StorageRateConfig{
				{Tier: string(storagefee.TierStandard), OffPeak: 0.78, Peak: 2.40, PeakMonths: []int{10, 11, 12}},
				{Tier: string(storagefee.TierOversize), OffPeak: 0.56, Peak: 1.40, PeakMonths: []int{10, 11, 12}},
			},
		},
		ShippingTiers: shipping.DefaultTiers(),
	}
}

func validateScheduleConfig(cfg ScheduleConfig) (*scheduleSnapshot, error) {
	s := cfg.Storage
	if s.AgedThresholdMonths <= 0 || s.LongTermThresholdMonths <= 0 {
		return nil, errors.New("schedule: surcharge thresholds must be positive")
	}
	if s.AgedThresholdMonths >= s.LongTermThresholdMonths {
		return nil, errors.New("schedule: aged threshold must come before the long-term threshold")
	}
	if s.AgedSurchargePerUnit < 0 || s.LongTermSurchargePerUnit < 0 {
		return nil, errors.New("schedule: surcharges cannot be negative")
	}
	if s.LongTermSurchargePerUnit < s.AgedSurchargePerUnit {
		return nil, errors.New("schedule: long-term surcharge must be at least the aged surcharge")
	}
	if len(s.Rates) == 0 {
		return nil, errors.New("schedule: storage rates cannot be empty")
	}

	rates := make(map[storagefee.SizeTier]monthRates, len(s.Rates))
	for _, r := range s.Rates {
		tier := storagefee.SizeTier(strings.TrimSpace(r.Tier))
		if tier == "" {
			return nil, errors.New("schedule: storage rate tier is required")
		}
		if _, dup := rates[tier]; dup {
			return nil, fmt.Errorf("schedule: duplicate storage rate tier %q", tier)
		}
		if r.OffPeak <= 0 || r.Peak <= 0 {
			return nil, fmt.Errorf("schedule: rates for tier %q must be positive", tier)
		}
		mr := monthRates{
			offPeak: decimal.NewFromFloat(r.OffPeak),
			peak:    decimal.NewFromFloat(r.Peak),
			peakSet: map[time.Month]bool{},
		}
		for _, m := range r.PeakMonths {
			if m < 1 || m > 12 {
				return nil, fmt.Errorf("schedule: peak month %d for tier %q out of range", m, tier)
			}
			mr.peakSet[time.Month(m)] = true
		}
		rates[tier] = mr
	}

	table, err := shipping.NewTable(cfg.ShippingTiers)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	return &scheduleSnapshot{
		storage: &storageSchedule{
			rates:             rates,
			agedThreshold:     s.AgedThresholdMonths,
			longTermThreshold: s.LongTermThresholdMonths,
			agedSurcharge:     decimal.NewFromFloat(s.AgedSurchargePerUnit),
			longTermSurcharge: decimal.NewFromFloat(s.LongTermSurchargePerUnit),
		},
		shippingTable: table,
	}, nil
}

type monthRates struct {
	offPeak decimal.Decimal
	peak    decimal.Decimal
	peakSet map[time.Month]bool
}

// storageSchedule implements storagefee.Schedule over a validated
// snapshot.
type storageSchedule struct {
	rates             map[storagefee.SizeTier]monthRates
	agedThreshold     int
	longTermThreshold int
	agedSurcharge     decimal.Decimal
	longTermSurcharge decimal.Decimal
}

func (s *storageSchedule) MonthlyRate(tier storagefee.SizeTier, month time.Month) (decimal.Decimal, error) {
	mr, ok := s.rates[tier]
	if !ok {
		return decimal.Zero, fmt.Errorf("schedule: no storage rate for tier %q", tier)
	}
	if mr.peakSet[month] {
		return mr.peak, nil
	}
	return mr.offPeak, nil
}

func (s *storageSchedule) AgedThresholdMonths() int                  { return s.agedThreshold }
func (s *storageSchedule) LongTermThresholdMonths() int              { return s.longTermThreshold }
func (s *storageSchedule) AgedSurchargePerUnit() decimal.Decimal     { return s.agedSurcharge }
func (s *storageSchedule) LongTermSurchargePerUnit() decimal.Decimal { return s.longTermSurcharge }

type scheduleSnapshot struct {
	storage       *storageSchedule
	shippingTable *shipping.Table
}

// ScheduleHolder hands out the current validated schedule.
type ScheduleHolder struct {
	current atomic.Value // holds *scheduleSnapshot
}

// NewScheduleHolder validates and pins a schedule.
func NewScheduleHolder(cfg ScheduleConfig) (*ScheduleHolder, error) {
	snapshot, err := validateScheduleConfig(cfg)
	if err != nil {
		return nil, err
	}
	h := &ScheduleHolder{}
	h.current.Store(snapshot)
	return h, nil
}

// NewScheduleHolderFromConfig loads schedule.yml (if present) over the
// defaults and watches it for changes.
func NewScheduleHolderFromConfig(cfg Config, log *zap.Logger) (*ScheduleHolder, error) {
	v := viper.New()
	v.SetConfigName("schedule")
	v.SetConfigType("yml")
	if cfg.SchedulePath != "" {
		v.AddConfigPath(cfg.SchedulePath)
	}
	v.AddConfigPath("/etc/tajir")
	v.AddConfigPath(".")

	defaults := DefaultScheduleConfig()

	readSchedule := func() (ScheduleConfig, error) {
		out := defaults
		if err := v.UnmarshalKey("schedule", &out); err != nil {
			return ScheduleConfig{}, err
		}
		return out, nil
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No schedule file: run on the built-in fee schedule.
		return NewScheduleHolder(defaults)
	}

	schedule, err := readSchedule()
	if err != nil {
		return nil, err
	}
	holder, err := NewScheduleHolder(schedule)
	if err != nil {
		return nil, err
	}

	log = log.Named("schedule")
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := readSchedule()
		if err != nil {
			log.Warn("schedule reload failed", zap.Error(err))
			return
		}
		snapshot, err := validateScheduleConfig(updated)
		if err != nil {
			log.Warn("invalid schedule ignored", zap.Error(err))
			return
		}
		holder.current.Store(snapshot)
		log.Info("schedule reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *ScheduleHolder) snapshot() *scheduleSnapshot {
	return h.current.Load().(*scheduleSnapshot)
}

// Storage returns the current storage fee schedule.
func (h *ScheduleHolder) Storage() storagefee.Schedule {
	return h.snapshot().storage
}

// ShippingTable returns the current shipping weight tier table.
func (h *ScheduleHolder) ShippingTable() *shipping.Table {
	return h.snapshot().shippingTable
}
