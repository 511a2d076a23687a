package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMinimumFractionByAge(t *testing.T) {
	rule := NewMinimumWithdrawalRule(true)

	testCases := []struct {
		name     string
		age      int
		expected decimal.Decimal
	}{
		{"well before conversion", 60, decimal.Zero},
		{"year before conversion", 70, decimal.Zero},
		{"first conversion year", 71, decimal.NewFromFloat(0.0528)},
		{"mid eighties", 85, decimal.NewFromFloat(0.0851)},
		{"table ceiling", 95, decimal.NewFromFloat(0.2000)},
		{"past the table", 99, decimal.NewFromFloat(0.2000)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fraction := rule.MinimumFraction(tc.age)
			assert.True(t, fraction.Equal(tc.expected),
				"age %d should require %s, got %s", tc.age, tc.expected, fraction)
		})
	}
}

func TestMinimumFractionDisabled(t *testing.T) {
	rule := NewMinimumWithdrawalRule(false)

	for _, age := range []int{65, 71, 85, 95} {
		assert.True(t, rule.MinimumFraction(age).IsZero(),
			"disabled rule must not force a withdrawal at age %d", age)
	}
}

func TestMinimumFractionIncreasesWithAge(t *testing.T) {
	rule := NewMinimumWithdrawalRule(true)

	previous := decimal.Zero
	for age := RRIFConversionAge; age <= 95; age++ {
		fraction := rule.MinimumFraction(age)
		assert.True(t, fraction.GreaterThan(previous),
			"fraction at age %d should exceed age %d", age, age-1)
		assert.True(t, fraction.LessThanOrEqual(decimal.NewFromInt(1)))
		previous = fraction
	}
}

func TestMinimumWithdrawal(t *testing.T) {
	rule := NewMinimumWithdrawalRule(true)

	withdrawal := rule.MinimumWithdrawal(71, decimal.NewFromInt(100000))
	assert.True(t, withdrawal.Equal(decimal.NewFromInt(5280)),
		"100000 at 71 should force 5280, got %s", withdrawal)

	assert.True(t, rule.MinimumWithdrawal(71, decimal.Zero).IsZero())
	assert.True(t, rule.MinimumWithdrawal(71, decimal.NewFromInt(-500)).IsZero())
	assert.True(t, rule.MinimumWithdrawal(60, decimal.NewFromInt(100000)).IsZero())

	// The minimum can never ask for more than the account holds.
	tiny := rule.MinimumWithdrawal(95, decimal.NewFromInt(10))
	assert.True(t, tiny.LessThanOrEqual(decimal.NewFromInt(10)))
	assert.True(t, tiny.Equal(decimal.NewFromInt(2)))
}
