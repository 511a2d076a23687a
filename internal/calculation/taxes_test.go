package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressiveTaxKnownValues(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.Zero)

	testCases := []struct {
		name     string
		income   decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "zero income",
			income:   decimal.Zero,
			expected: decimal.Zero,
		},
		{
			name:     "negative income",
			income:   decimal.NewFromInt(-5000),
			expected: decimal.Zero,
		},
		{
			name:     "inside the zero bracket",
			income:   decimal.NewFromInt(10000),
			expected: decimal.Zero,
		},
		{
			name:     "exactly at the first taxed dollar",
			income:   decimal.NewFromInt(16258),
			expected: decimal.Zero,
		},
		{
			name:     "partway through the first taxed bracket",
			income:   decimal.NewFromInt(20000),
			expected: decimal.RequireFromString("750.271"),
		},
		{
			name:     "full first taxed bracket",
			income:   decimal.NewFromInt(52886),
			expected: decimal.RequireFromString("7343.914"),
		},
		{
			name:     "spanning four brackets",
			income:   decimal.NewFromInt(100000),
			expected: decimal.RequireFromString("21066.32"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tax := schedule.Tax(tc.income, 0)
			assert.True(t, tax.Equal(tc.expected),
				"tax on %s should be %s, got %s", tc.income, tc.expected, tax)
		})
	}
}

func TestTaxBoundariesIndexWithInflation(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.NewFromFloat(0.02))

	// The first taxed boundary moves from 16258 to 16583.16 after one year,
	// so the same income owes less tax.
	yearZero := schedule.Tax(decimal.NewFromInt(20000), 0)
	yearOne := schedule.Tax(decimal.NewFromInt(20000), 1)
	assert.True(t, yearOne.LessThan(yearZero),
		"indexed boundaries should shrink the tax, year0=%s year1=%s", yearZero, yearOne)

	brackets := schedule.BracketsForYear(1)
	assert.True(t, brackets[1].Lower.Equal(decimal.RequireFromString("16583.16")),
		"first boundary should index to 16583.16, got %s", brackets[1].Lower)
	assert.True(t, brackets[1].Rate.Equal(decimal.NewFromFloat(0.2005)), "rates never index")
}

func TestTaxIsMonotoneAndNonNegative(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.NewFromFloat(0.025))

	for _, yearIndex := range []int{0, 7, 25} {
		previous := decimal.Zero
		income := decimal.Zero
		step := decimal.NewFromInt(7919)
		for income.LessThanOrEqual(decimal.NewFromInt(400000)) {
			tax := schedule.Tax(income, yearIndex)
			assert.False(t, tax.IsNegative(), "tax on %s in year %d is negative", income, yearIndex)
			assert.True(t, tax.GreaterThanOrEqual(previous),
				"tax fell from %s to %s at income %s in year %d", previous, tax, income, yearIndex)
			previous = tax
			income = income.Add(step)
		}
	}
}

func TestMarginalRate(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.Zero)

	testCases := []struct {
		name     string
		income   decimal.Decimal
		expected decimal.Decimal
	}{
		{"below the first taxed dollar", decimal.NewFromInt(10000), decimal.Zero},
		{"at the boundary", decimal.NewFromInt(16258), decimal.Zero},
		{"just past the boundary", decimal.NewFromInt(16259), decimal.NewFromFloat(0.2005)},
		{"middle bracket", decimal.NewFromInt(60000), decimal.NewFromFloat(0.2965)},
		{"top bracket", decimal.NewFromInt(300000), decimal.NewFromFloat(0.5353)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rate := schedule.MarginalRate(tc.income, 0)
			assert.True(t, rate.Equal(tc.expected),
				"marginal rate at %s should be %s, got %s", tc.income, tc.expected, rate)
		})
	}
}

func TestBracketCeilings(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.NewFromFloat(0.02))

	assert.True(t, schedule.LowestTaxedCeiling(0).Equal(decimal.NewFromInt(52886)))
	assert.True(t, schedule.LowestTaxedCeiling(1).Equal(decimal.RequireFromString("53943.72")))

	assert.True(t, schedule.CeilingAbove(decimal.NewFromInt(20000), 0).Equal(decimal.NewFromInt(52886)))
	assert.True(t, schedule.CeilingAbove(decimal.Zero, 0).Equal(decimal.NewFromInt(16258)))
	assert.True(t, schedule.CeilingAbove(decimal.NewFromInt(-100), 0).Equal(decimal.NewFromInt(16258)),
		"negative income clamps to zero before the boundary scan")

	// Past the top boundary there is nothing to fill toward.
	top := decimal.NewFromInt(300000)
	assert.True(t, schedule.CeilingAbove(top, 0).Equal(top))
}

func TestPensionIncomeCredit(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.Zero)

	testCases := []struct {
		name     string
		enabled  bool
		eligible decimal.Decimal
		expected decimal.Decimal
	}{
		{"disabled", false, decimal.NewFromInt(5000), decimal.Zero},
		{"no eligible income", true, decimal.Zero, decimal.Zero},
		{"under the ceiling", true, decimal.NewFromInt(1500), decimal.RequireFromString("300.75")},
		{"over the ceiling", true, decimal.NewFromInt(5000), decimal.NewFromInt(401)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calculator := NewTaxCalculator(schedule, tc.enabled)
			credit := calculator.PensionIncomeCredit(tc.eligible)
			assert.True(t, credit.Equal(tc.expected),
				"credit should be %s, got %s", tc.expected, credit)
		})
	}
}

func TestIncomeTaxNeverGoesNegative(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.Zero)
	calculator := NewTaxCalculator(schedule, true)

	// 1000 of income owes nothing, and the credit cannot refund.
	tax := calculator.IncomeTax(decimal.NewFromInt(1000), decimal.NewFromInt(2000), 0)
	assert.True(t, tax.IsZero(), "credit must not drive tax below zero, got %s", tax)
}

func TestCapitalGainsTaxIsIncremental(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.Zero)
	calculator := NewTaxCalculator(schedule, false)

	ordinary := decimal.NewFromInt(52886)
	gains := decimal.NewFromInt(1000)

	// Gains stack on top of ordinary income, so these 1000 land in the
	// 24.15% bracket.
	tax := calculator.CapitalGainsTax(ordinary, gains, 0)
	assert.True(t, tax.Equal(decimal.RequireFromString("241.5")),
		"expected 241.5 of gains tax, got %s", tax)

	onTotal := schedule.Tax(ordinary.Add(gains), 0)
	onOrdinary := schedule.Tax(ordinary, 0)
	assert.True(t, tax.Equal(onTotal.Sub(onOrdinary)), "gains tax must equal the stacking difference")

	assert.True(t, calculator.CapitalGainsTax(ordinary, decimal.Zero, 0).IsZero())
	assert.True(t, calculator.CapitalGainsTax(ordinary, decimal.NewFromInt(-50), 0).IsZero())
}

func TestIncludedGains(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.Zero)
	calculator := NewTaxCalculator(schedule, false)

	gains := calculator.IncludedGains(decimal.NewFromInt(10000), decimal.NewFromFloat(0.8))
	assert.True(t, gains.Equal(decimal.NewFromInt(4000)),
		"10000 withdrawn at 80%% taxable and 50%% inclusion should add 4000, got %s", gains)
}

func TestCustomScheduleFallsBackWhenEmpty(t *testing.T) {
	schedule := NewTaxScheduleWithBrackets(2030, nil, decimal.NewFromFloat(0.02))

	assert.Equal(t, 2030, schedule.BaseYear)
	assert.Len(t, schedule.Brackets, 11, "empty tables take the 2025 defaults")

	custom := NewTaxScheduleWithBrackets(2030, []TaxBracket{
		{decimal.Zero, decimal.Zero},
		{decimal.NewFromInt(20000), decimal.NewFromFloat(0.25)},
	}, decimal.Zero)
	assert.Len(t, custom.Brackets, 2)
	assert.True(t, custom.Tax(decimal.NewFromInt(30000), 0).Equal(decimal.NewFromInt(2500)))
}

func TestReferencePublishesUpperBounds(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.NewFromFloat(0.02))
	reference := schedule.Reference()
	require.Len(t, reference, 11)

	first := reference[0]
	require.NotNil(t, first.UpTo)
	assert.True(t, first.UpTo.Equal(decimal.NewFromInt(16258)), "first upTo %s", first.UpTo)
	assert.True(t, first.Rate.IsZero())

	second := reference[1]
	require.NotNil(t, second.UpTo)
	assert.True(t, second.UpTo.Equal(decimal.NewFromInt(52886)), "second upTo %s", second.UpTo)
	assert.True(t, second.Rate.Equal(decimal.NewFromFloat(0.2005)))

	top := reference[len(reference)-1]
	assert.Nil(t, top.UpTo, "top bracket is unbounded")
	assert.True(t, top.Rate.Equal(decimal.NewFromFloat(0.5353)))
}
