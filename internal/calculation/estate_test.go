package calculation

import (
	"testing"

	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstateTaxesOnRRIFOnly(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.Zero)
	estimator := NewEstateTaxEstimator(schedule, decimal.NewFromInt(1))

	final := domain.YearRecord{
		RRIFBalance:  decimal.NewFromInt(100000),
		TFSABalance:  decimal.NewFromInt(50000),
		TotalBalance: decimal.NewFromInt(150000),
	}

	result := estimator.Estimate(final, 0)

	assert.True(t, result.DeemedIncome.Equal(decimal.NewFromInt(100000)),
		"RRIF collapses into income in full, got %s", result.DeemedIncome)
	expectedTax := decimal.RequireFromString("21066.32")
	assert.True(t, result.EstateTaxes.Equal(expectedTax),
		"expected %s of estate tax, got %s", expectedTax, result.EstateTaxes)
	expectedAfter := decimal.RequireFromString("128933.68")
	assert.True(t, result.EndingBalanceAfterEstateTaxes.Equal(expectedAfter),
		"expected %s after estate taxes, got %s", expectedAfter, result.EndingBalanceAfterEstateTaxes)
}

func TestEstateTaxesTFSAExempt(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.NewFromFloat(0.02))
	estimator := NewEstateTaxEstimator(schedule, decimal.NewFromInt(1))

	final := domain.YearRecord{
		TFSABalance:  decimal.NewFromInt(400000),
		TotalBalance: decimal.NewFromInt(400000),
	}

	result := estimator.Estimate(final, 10)

	assert.True(t, result.DeemedIncome.IsZero(), "TFSA money is not deemed income")
	assert.True(t, result.EstateTaxes.IsZero())
	assert.True(t, result.EndingBalanceAfterEstateTaxes.Equal(decimal.NewFromInt(400000)))
}

func TestEstateDeemedIncomeComposition(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.NewFromFloat(0.02))
	estimator := NewEstateTaxEstimator(schedule, decimal.NewFromFloat(0.8))

	final := domain.YearRecord{
		RRIFBalance:          decimal.NewFromInt(200000),
		TFSABalance:          decimal.NewFromInt(75000),
		NonRegisteredBalance: decimal.NewFromInt(100000),
		AppreciatingAssets:   decimal.NewFromInt(50000),
		TotalBalance:         decimal.NewFromInt(425000),
	}

	result := estimator.Estimate(final, 5)

	// 200000 of RRIF income, 100000 * 0.8 * 0.5 of non-registered gains,
	// 50000 * 0.5 of appreciating-asset gains.
	expected := decimal.NewFromInt(265000)
	assert.True(t, result.DeemedIncome.Equal(expected),
		"expected deemed income %s, got %s", expected, result.DeemedIncome)
	assert.True(t, result.EstateTaxes.GreaterThan(decimal.Zero))
	assert.True(t, result.EstateTaxes.LessThan(result.DeemedIncome))
}

func TestEstateTaxesFallWithIndexedBrackets(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.NewFromFloat(0.02))
	estimator := NewEstateTaxEstimator(schedule, decimal.NewFromInt(1))

	final := domain.YearRecord{
		RRIFBalance:  decimal.NewFromInt(300000),
		TotalBalance: decimal.NewFromInt(300000),
	}

	early := estimator.Estimate(final, 0)
	late := estimator.Estimate(final, 25)

	require.True(t, early.EstateTaxes.GreaterThan(decimal.Zero))
	assert.True(t, late.EstateTaxes.LessThan(early.EstateTaxes),
		"wider brackets at year 25 should tax the same balance less")
}

func TestEstateZeroBalances(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.Zero)
	estimator := NewEstateTaxEstimator(schedule, decimal.NewFromInt(1))

	result := estimator.Estimate(domain.YearRecord{}, 0)

	assert.True(t, result.DeemedIncome.IsZero())
	assert.True(t, result.EstateTaxes.IsZero())
	assert.True(t, result.EndingBalanceAfterEstateTaxes.IsZero())
}

func TestEstateEstimatorClampsShare(t *testing.T) {
	schedule := NewOntarioCombinedSchedule2025(decimal.Zero)

	over := NewEstateTaxEstimator(schedule, decimal.NewFromFloat(1.5))
	assert.True(t, over.TaxableShare.Equal(decimal.NewFromInt(1)))

	under := NewEstateTaxEstimator(schedule, decimal.NewFromFloat(-0.25))
	assert.True(t, under.TaxableShare.IsZero())
}
