package reorder

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(v int) *int { return &v }

func TestCalculate_CriticalWhenStockoutBeatsLeadTime(t *testing.T) {
	res, err := Calculate(Input{
		AverageDailySales: decPtr("10"),
		LeadTimeDays:      intPtr(7),
		SafetyDays:        intPtr(3),
		CurrentStock:      decPtr("50"),
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "30.00", res.SafetyStock.StringFixed(2))
	assert.Equal(t, "100.00", res.ReorderPoint.StringFixed(2))

	require.NotNil(t, res.DaysUntilStockout)
	assert.Equal(t, "5.00", res.DaysUntilStockout.StringFixed(2))

	require.NotNil(t, res.NeedsReorder)
	assert.True(t, *res.NeedsReorder)
	// 5 days of stock against a 7 day lead time.
	assert.Equal(t, UrgencyCritical, res.Urgency)

	require.NotNil(t, res.ProjectedStockoutDate)
	assert.Equal(t, testNow.Add(5*24*time.Hour), *res.ProjectedStockoutDate)

	require.NotNil(t, res.RecommendedOrderQuantity)
	assert.Equal(t, "80.00", res.RecommendedOrderQuantity.StringFixed(2))
}

func TestCalculate_WarningWhenLeadTimeStillCovers(t *testing.T) {
	// 90 units at 10/day: 9 days of stock, below the reorder point of
	// 100 but above the 7 day lead time.
	res, err := Calculate(Input{
		AverageDailySales: decPtr("10"),
		LeadTimeDays:      intPtr(7),
		SafetyDays:        intPtr(3),
		CurrentStock:      decPtr("90"),
	}, testNow)
	require.NoError(t, err)

	assert.True(t, *res.NeedsReorder)
	assert.Equal(t, UrgencyWarning, res.Urgency)
}

func TestCalculate_NormalAboveReorderPoint(t *testing.T) {
	res, err := Calculate(Input{
		AverageDailySales: decPtr("10"),
		LeadTimeDays:      intPtr(7),
		SafetyDays:        intPtr(3),
		CurrentStock:      decPtr("150"),
	}, testNow)
	require.NoError(t, err)

	assert.False(t, *res.NeedsReorder)
	assert.Equal(t, UrgencyNormal, res.Urgency)
	assert.Equal(t, "0.00", res.RecommendedOrderQuantity.StringFixed(2))
}

func TestCalculate_StockExactlyAtReorderPoint(t *testing.T) {
	res, err := Calculate(Input{
		AverageDailySales: decPtr("10"),
		LeadTimeDays:      intPtr(7),
		SafetyDays:        intPtr(3),
		CurrentStock:      decPtr("100"),
	}, testNow)
	require.NoError(t, err)

	// Inclusive boundary: exactly at the reorder point still reorders.
	assert.True(t, *res.NeedsReorder)
	// 10 days of stock covers the 7 day lead time.
	assert.Equal(t, UrgencyWarning, res.Urgency)
}

func TestCalculate_WithoutCurrentStock(t *testing.T) {
	res, err := Calculate(Input{
		AverageDailySales: decPtr("10"),
		LeadTimeDays:      intPtr(7),
		SafetyDays:        intPtr(3),
	}, testNow)
	require.NoError(t, err)

	assert.Nil(t, res.DaysUntilStockout)
	assert.Nil(t, res.NeedsReorder)
	assert.Nil(t, res.ProjectedStockoutDate)
	assert.Nil(t, res.RecommendedOrderQuantity)
	assert.Equal(t, UrgencyNormal, res.Urgency)
}

func TestCalculate_ZeroDailySales(t *testing.T) {
	res, err := Calculate(Input{
		AverageDailySales: decPtr("0"),
		LeadTimeDays:      intPtr(7),
		SafetyDays:        intPtr(3),
		CurrentStock:      decPtr("10"),
	}, testNow)
	require.NoError(t, err)

	// Days until stockout is undefined, not infinite or zero.
	assert.Nil(t, res.DaysUntilStockout)
	assert.Nil(t, res.ProjectedStockoutDate)

	// Reorder point is zero when nothing sells, so stock on hand sits
	// above it and no reorder is due.
	assert.False(t, *res.NeedsReorder)
	assert.Equal(t, UrgencyNormal, res.Urgency)
	assert.Equal(t, "0.00", res.RecommendedOrderQuantity.StringFixed(2))
}

func TestCalculate_ZeroDailySalesWithoutStock(t *testing.T) {
	res, err := Calculate(Input{
		AverageDailySales: decPtr("0"),
		LeadTimeDays:      intPtr(7),
		SafetyDays:        intPtr(3),
		CurrentStock:      decPtr("0"),
	}, testNow)
	require.NoError(t, err)

	// Zero stock is exactly at the zero reorder point. The inclusive
	// boundary flags a reorder, and with no stockout projection the
	// urgency stays at warning.
	assert.True(t, *res.NeedsReorder)
	assert.Equal(t, UrgencyWarning, res.Urgency)
	assert.Nil(t, res.DaysUntilStockout)
}

func TestCalculate_Validation(t *testing.T) {
	valid := func() Input {
		return Input{
			AverageDailySales: decPtr("10"),
			LeadTimeDays:      intPtr(7),
			SafetyDays:        intPtr(3),
		}
	}

	cases := []struct {
		name   string
		mutate func(*Input)
		want   error
	}{
		{"missing daily sales", func(in *Input) { in.AverageDailySales = nil }, ErrMissingDailySales},
		{"negative daily sales", func(in *Input) { in.AverageDailySales = decPtr("-1") }, ErrInvalidDailySales},
		{"missing lead time", func(in *Input) { in.LeadTimeDays = nil }, ErrMissingLeadTime},
		{"zero lead time", func(in *Input) { in.LeadTimeDays = intPtr(0) }, ErrInvalidLeadTime},
		{"missing safety days", func(in *Input) { in.SafetyDays = nil }, ErrMissingSafetyDays},
		{"negative safety days", func(in *Input) { in.SafetyDays = intPtr(-1) }, ErrInvalidSafetyDays},
		{"negative stock", func(in *Input) { in.CurrentStock = decPtr("-5") }, ErrInvalidStock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid()
			tc.mutate(&in)
			res, err := Calculate(in, testNow)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// Increasing the lead time never decreases the reorder point.
func TestReorderPointMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)
	properties.Property("reorder point is non-decreasing in lead time", prop.ForAll(
		func(l1, l2 int) bool {
			if l1 > l2 {
				l1, l2 = l2, l1
			}
			calc := func(leadTime int) decimal.Decimal {
				res, err := Calculate(Input{
					AverageDailySales: decPtr("7.5"),
					LeadTimeDays:      &leadTime,
					SafetyDays:        intPtr(3),
				}, testNow)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return res.ReorderPoint
			}
			return !calc(l2).LessThan(calc(l1))
		},
		gen.IntRange(1, 120),
		gen.IntRange(1, 120),
	))
	properties.TestingRun(t)
}
