package calculation

import (
	"testing"

	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testProjector() *BenefitProjector {
	return &BenefitProjector{
		AnnualCPP:         decimal.NewFromInt(15000),
		AnnualOAS:         decimal.NewFromInt(8500),
		AnnualPension:     decimal.NewFromInt(12000),
		CPPStartAge:       65,
		OASStartAge:       65,
		PensionStartAge:   60,
		Inflation:         decimal.NewFromFloat(0.02),
		ApplyClawback:     true,
		ClawbackThreshold: OASClawbackThreshold2025,
		ClawbackRate:      OASClawbackRate,
	}
}

func TestBenefitsStartAtTheirAges(t *testing.T) {
	projector := testProjector()
	projector.Inflation = decimal.Zero

	early := projector.BenefitsForYear(64, 4)
	assert.True(t, early.CPP.IsZero(), "CPP must not pay before 65")
	assert.True(t, early.OASGross.IsZero(), "OAS must not pay before 65")
	assert.True(t, early.Pension.Equal(decimal.NewFromInt(12000)), "pension started at 60")

	atStart := projector.BenefitsForYear(65, 5)
	assert.True(t, atStart.CPP.Equal(decimal.NewFromInt(15000)))
	assert.True(t, atStart.OASGross.Equal(decimal.NewFromInt(8500)))
	assert.True(t, atStart.Pension.Equal(decimal.NewFromInt(12000)))
	assert.True(t, atStart.Total().Equal(decimal.NewFromInt(35500)))
	assert.True(t, atStart.ExcludingOAS().Equal(decimal.NewFromInt(27000)))
}

func TestBenefitsIndexWithInflation(t *testing.T) {
	projector := testProjector()

	income := projector.BenefitsForYear(67, 2)

	assert.True(t, income.CPP.Equal(decimal.RequireFromString("15606")),
		"CPP should compound two years at 2%%, got %s", income.CPP)
	assert.True(t, income.OASGross.Equal(decimal.RequireFromString("8843.4")),
		"OAS should compound two years at 2%%, got %s", income.OASGross)
	assert.True(t, income.Pension.Equal(decimal.RequireFromString("12484.8")),
		"pension should compound two years at 2%%, got %s", income.Pension)
}

func TestOASClawback(t *testing.T) {
	testCases := []struct {
		name      string
		oasGross  decimal.Decimal
		income    decimal.Decimal
		yearIndex int
		expected  decimal.Decimal
	}{
		{
			name:     "income below the threshold",
			oasGross: decimal.NewFromInt(8500),
			income:   decimal.NewFromInt(60000),
			expected: decimal.Zero,
		},
		{
			name:     "partial recovery",
			oasGross: decimal.NewFromInt(8500),
			income:   decimal.NewFromInt(100000),
			expected: decimal.RequireFromString("981.9"),
		},
		{
			name:     "recovery capped at the OAS paid",
			oasGross: decimal.NewFromInt(8500),
			income:   decimal.NewFromInt(200000),
			expected: decimal.NewFromInt(8500),
		},
		{
			name:     "no OAS means nothing to recover",
			oasGross: decimal.Zero,
			income:   decimal.NewFromInt(200000),
			expected: decimal.Zero,
		},
		{
			name:      "threshold indexes out of reach",
			oasGross:  decimal.NewFromInt(8500),
			income:    decimal.NewFromInt(95000),
			yearIndex: 1,
			expected:  decimal.Zero,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			projector := testProjector()
			clawback := projector.OASClawback(tc.oasGross, tc.income, tc.yearIndex)
			assert.True(t, clawback.Equal(tc.expected),
				"expected clawback %s, got %s", tc.expected, clawback)
			assert.True(t, clawback.LessThanOrEqual(tc.oasGross),
				"clawback must never exceed the OAS paid")
		})
	}
}

func TestOASClawbackCatchesSameIncomeAtYearZero(t *testing.T) {
	projector := testProjector()

	// 95000 clears the base threshold of 93454 before indexing kicks in.
	clawback := projector.OASClawback(decimal.NewFromInt(8500), decimal.NewFromInt(95000), 0)
	assert.True(t, clawback.Equal(decimal.RequireFromString("231.9")),
		"expected 231.9 recovered at year zero, got %s", clawback)
}

func TestOASClawbackDisabled(t *testing.T) {
	projector := testProjector()
	projector.ApplyClawback = false

	clawback := projector.OASClawback(decimal.NewFromInt(8500), decimal.NewFromInt(500000), 0)
	assert.True(t, clawback.IsZero(), "toggle off must disable the recovery tax")
}

func TestNewBenefitProjectorFromInputs(t *testing.T) {
	in := domain.Inputs{
		AnnualCPP:        decimal.NewFromInt(15000),
		AnnualOAS:        decimal.NewFromInt(8500),
		AnnualPension:    decimal.NewFromInt(20000),
		CPPStartAge:      70,
		OASStartAge:      65,
		PensionStartAge:  60,
		InflationRate:    decimal.NewFromFloat(0.03),
		ApplyOASClawback: true,
	}

	projector := NewBenefitProjector(in)

	assert.True(t, projector.AnnualCPP.Equal(in.AnnualCPP))
	assert.Equal(t, 70, projector.CPPStartAge)
	assert.True(t, projector.Inflation.Equal(in.InflationRate))
	assert.True(t, projector.ApplyClawback)
	assert.True(t, projector.ClawbackThreshold.Equal(OASClawbackThreshold2025))
	assert.True(t, projector.ClawbackRate.Equal(OASClawbackRate))
}
