package compare

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rdgo/drawdown-calculator/internal/calculation"
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compareInputs() domain.Inputs {
	return domain.Inputs{
		CurrentAge:     60,
		RetirementAge:  65,
		LifeExpectancy: 90,

		RRIFBalance:          decimal.NewFromInt(500000),
		TFSABalance:          decimal.NewFromInt(100000),
		NonRegisteredBalance: decimal.NewFromInt(200000),

		TargetRetirementIncome: decimal.NewFromInt(60000),
		AnnualReturnRate:       decimal.NewFromFloat(0.05),
		InflationRate:          decimal.NewFromFloat(0.02),

		AnnualCPP:   decimal.NewFromInt(15000),
		AnnualOAS:   decimal.NewFromInt(8500),
		CPPStartAge: 65,
		OASStartAge: 65,

		TaxableNonRegisteredShare: decimal.NewFromInt(1),
		ApplyOASClawback:          true,
		ApplyRRIFMinimums:         true,
	}
}

func TestRunAllRanksEveryStrategy(t *testing.T) {
	engine := NewCompareEngine(calculation.NewEngine())

	result, err := engine.RunAll(context.Background(), compareInputs())
	require.NoError(t, err)

	require.Len(t, result.Rankings, len(domain.AllStrategies()))
	require.Len(t, result.Projections, len(domain.AllStrategies()))

	seen := map[domain.StrategyID]bool{}
	for _, summary := range result.Rankings {
		seen[summary.ID] = true
	}
	for _, id := range domain.AllStrategies() {
		assert.True(t, seen[id], "strategy %s missing from rankings", id)
	}

	for i := 1; i < len(result.Rankings); i++ {
		previous, current := result.Rankings[i-1], result.Rankings[i]
		cmp := previous.EndingBalanceAfterEstateTaxes.Cmp(current.EndingBalanceAfterEstateTaxes)
		assert.True(t, cmp > 0 || (cmp == 0 && previous.LifetimeTaxes.LessThanOrEqual(current.LifetimeTaxes)),
			"rankings out of order at position %d", i)
	}

	best := result.Best()
	require.NotNil(t, best)
	assert.Equal(t, result.Rankings[0].ID, best.ID)
}

func TestRunAllMatchesIndividualRuns(t *testing.T) {
	calc := calculation.NewEngine()
	engine := NewCompareEngine(calc)

	result, err := engine.RunAll(context.Background(), compareInputs())
	require.NoError(t, err)

	for _, id := range domain.AllStrategies() {
		individual, err := calc.Run(context.Background(), compareInputs(), id)
		require.NoError(t, err)

		ranked := result.ProjectionFor(id)
		require.NotNil(t, ranked, "strategy %s missing from projections", id)

		rankedJSON, err := json.Marshal(ranked)
		require.NoError(t, err)
		individualJSON, err := json.Marshal(individual)
		require.NoError(t, err)
		assert.Equal(t, individualJSON, rankedJSON,
			"comparison must not change the %s projection", id)
	}
}

func TestRunAllRejectsInvalidInputs(t *testing.T) {
	engine := NewCompareEngine(calculation.NewEngine())

	bad := compareInputs()
	bad.LifeExpectancy = 50

	_, err := engine.RunAll(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}
